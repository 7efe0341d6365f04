package zarinpal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Endpoints for the production and sandbox environments.
const (
	productionBaseURL = "https://payment.zarinpal.com"
	sandboxBaseURL    = "https://sandbox.zarinpal.com"

	codeSuccess         = 100
	codeAlreadyVerified = 101
)

// Config holds the gateway credentials and environment selection.
type Config struct {
	MerchantID string
	Sandbox    bool
	// Timeout bounds every gateway call. Defaults to 10 seconds.
	Timeout time.Duration
}

// Client talks to the Zarinpal payment gateway over its REST API.
type Client struct {
	merchantID string
	baseURL    string
	httpClient *http.Client
}

// Error is a structured gateway failure carrying the gateway's error code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("zarinpal error %d: %s", e.Code, e.Message)
}

// PaymentRequest is the result of a successful payment request.
type PaymentRequest struct {
	Authority   string
	RedirectURL string
}

// PaymentVerification is the result of a successful verification.
type PaymentVerification struct {
	RefID string
}

// NewClient creates a new Zarinpal client.
func NewClient(cfg Config) *Client {
	baseURL := productionBaseURL
	if cfg.Sandbox {
		baseURL = sandboxBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		merchantID: cfg.MerchantID,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type requestPayload struct {
	MerchantID  string `json:"merchant_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CallbackURL string `json:"callback_url"`
}

type verifyPayload struct {
	MerchantID string `json:"merchant_id"`
	Amount     int64  `json:"amount"`
	Authority  string `json:"authority"`
}

type gatewayResponse struct {
	Data struct {
		Code      int             `json:"code"`
		Message   string          `json:"message"`
		Authority string          `json:"authority"`
		RefID     json.RawMessage `json:"ref_id"`
	} `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// RequestPayment asks the gateway for a payment authority and returns the
// URL the customer must be redirected to. Amount is in the major currency
// unit.
func (c *Client) RequestPayment(amount int64, description, callbackURL string) (*PaymentRequest, error) {
	payload := requestPayload{
		MerchantID:  c.merchantID,
		Amount:      amount,
		Description: description,
		CallbackURL: callbackURL,
	}

	var resp gatewayResponse
	if err := c.post("/pg/v4/payment/request.json", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Code != codeSuccess || resp.Data.Authority == "" {
		return nil, &Error{Code: resp.Data.Code, Message: resp.Data.Message}
	}

	return &PaymentRequest{
		Authority:   resp.Data.Authority,
		RedirectURL: fmt.Sprintf("%s/pg/StartPay/%s", c.baseURL, resp.Data.Authority),
	}, nil
}

// VerifyPayment verifies a completed payment. Amount must be the exact
// amount used in the original request.
func (c *Client) VerifyPayment(authority string, amount int64) (*PaymentVerification, error) {
	payload := verifyPayload{
		MerchantID: c.merchantID,
		Amount:     amount,
		Authority:  authority,
	}

	var resp gatewayResponse
	if err := c.post("/pg/v4/payment/verify.json", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Code != codeSuccess && resp.Data.Code != codeAlreadyVerified {
		return nil, &Error{Code: resp.Data.Code, Message: resp.Data.Message}
	}

	// ref_id arrives as a bare number; keep it as a string for storage.
	refID := string(bytes.Trim(resp.Data.RefID, `"`))
	return &PaymentVerification{RefID: refID}, nil
}

func (c *Client) post(path string, payload interface{}, out *gatewayResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway payload: %w", err)
	}

	httpResp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
