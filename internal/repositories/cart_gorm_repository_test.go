package repositories_test

import (
	"fmt"
	"sync"
	"testing"

	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB opens a private in-memory SQLite database named after the test,
// so parallel tests cannot see each other's rows.
func openTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	// SQLite allows one writer at a time; funnel everything through a single
	// connection so concurrent tests see serialization, not lock errors.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("failed to auto-migrate: %v", err)
	}
	return db
}

func cartTestDB(t *testing.T) *gorm.DB {
	return openTestDB(t, &models.Product{}, &models.ProductVariant{}, &models.CartItem{})
}

func TestGORMCartRepository_AddItemIncrementsExistingLine(t *testing.T) {
	db := cartTestDB(t)
	repo := repositories.NewGORMCartRepository(db)

	line, err := repo.AddItem("user-1", "prod-1", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	line, err = repo.AddItem("user-1", "prod-1", 2)
	assert.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	// Still a single row for the (user, product) pair.
	lines, err := repo.ListByUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestGORMCartRepository_AddItemSeparateProductsAndUsers(t *testing.T) {
	db := cartTestDB(t)
	repo := repositories.NewGORMCartRepository(db)

	_, err := repo.AddItem("user-1", "prod-1", 1)
	assert.NoError(t, err)
	_, err = repo.AddItem("user-1", "prod-2", 1)
	assert.NoError(t, err)
	_, err = repo.AddItem("user-2", "prod-1", 5)
	assert.NoError(t, err)

	lines, err := repo.ListByUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, lines, 2)

	lines, err = repo.ListByUser("user-2")
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestGORMCartRepository_AddItemRejectsNonPositiveQuantity(t *testing.T) {
	db := cartTestDB(t)
	repo := repositories.NewGORMCartRepository(db)

	_, err := repo.AddItem("user-1", "prod-1", 0)
	assert.Error(t, err)
	_, err = repo.AddItem("user-1", "prod-1", -3)
	assert.Error(t, err)
}

func TestGORMCartRepository_ConcurrentAddsDoNotLoseIncrements(t *testing.T) {
	db := cartTestDB(t)
	repo := repositories.NewGORMCartRepository(db)

	const adds = 20
	var wg sync.WaitGroup
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AddItem("user-1", "prod-1", 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent AddItem failed: %v", err)
	}

	lines, err := repo.ListByUser("user-1")
	assert.NoError(t, err)
	if assert.Len(t, lines, 1) {
		assert.Equal(t, adds, lines[0].Quantity)
	}
}

func TestGORMCartRepository_RemoveItemIsIdempotent(t *testing.T) {
	db := cartTestDB(t)
	repo := repositories.NewGORMCartRepository(db)

	_, err := repo.AddItem("user-1", "prod-1", 2)
	assert.NoError(t, err)

	assert.NoError(t, repo.RemoveItem("user-1", "prod-1"))
	// Removing an absent line is not an error.
	assert.NoError(t, repo.RemoveItem("user-1", "prod-1"))
	assert.NoError(t, repo.RemoveItem("user-1", "never-added"))

	lines, err := repo.ListByUser("user-1")
	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGORMCartRepository_ReAddAfterClear(t *testing.T) {
	db := cartTestDB(t)
	repo := repositories.NewGORMCartRepository(db)

	_, err := repo.AddItem("user-1", "prod-1", 2)
	assert.NoError(t, err)
	assert.NoError(t, repo.Clear("user-1"))

	// A cleared product must be addable again with a fresh quantity, not
	// blocked or summed into the deleted line.
	line, err := repo.AddItem("user-1", "prod-1", 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	lines, err := repo.ListByUser("user-1")
	assert.NoError(t, err)
	if assert.Len(t, lines, 1) {
		assert.Equal(t, 3, lines[0].Quantity)
	}
}

func TestGORMCartRepository_ReAddAfterRemove(t *testing.T) {
	db := cartTestDB(t)
	repo := repositories.NewGORMCartRepository(db)

	_, err := repo.AddItem("user-1", "prod-1", 5)
	assert.NoError(t, err)
	assert.NoError(t, repo.RemoveItem("user-1", "prod-1"))

	line, err := repo.AddItem("user-1", "prod-1", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
}

func TestGORMCartRepository_ClearEmptiesOnlyThatUsersCart(t *testing.T) {
	db := cartTestDB(t)
	repo := repositories.NewGORMCartRepository(db)

	_, err := repo.AddItem("user-1", "prod-1", 1)
	assert.NoError(t, err)
	_, err = repo.AddItem("user-2", "prod-1", 1)
	assert.NoError(t, err)

	assert.NoError(t, repo.Clear("user-1"))
	// Clearing an already-empty cart is fine.
	assert.NoError(t, repo.Clear("user-1"))

	lines, err := repo.ListByUser("user-1")
	assert.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = repo.ListByUser("user-2")
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
}
