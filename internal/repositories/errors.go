package repositories

import "errors"

// ErrNotFound is wrapped by repository lookups that miss, so callers can
// test with errors.Is regardless of the backing store.
var ErrNotFound = errors.New("record not found")
