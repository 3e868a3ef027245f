package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.stripe.com/v1"

// Client talks to the Stripe payment-intents API. Requests are
// form-encoded; the secret key goes in the Authorization header.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", params.Currency)
	form.Set("payment_method_types[]", "card")
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var intent Intent
	// idempotency key guards against double charges on retried requests
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	if err := c.do(ctx, http.MethodPost, "/payment_intents", form, headers, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error) {
	form := url.Values{}
	form.Set("payment_method", paymentMethodID)

	var intent Intent
	path := fmt.Sprintf("/payment_intents/%s/confirm", url.PathEscape(intentID))
	if err := c.do(ctx, http.MethodPost, path, form, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	var intent Intent
	path := fmt.Sprintf("/payment_intents/%s", url.PathEscape(intentID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) CancelIntent(ctx context.Context, intentID string) (*Intent, error) {
	var intent Intent
	path := fmt.Sprintf("/payment_intents/%s/cancel", url.PathEscape(intentID))
	if err := c.do(ctx, http.MethodPost, path, url.Values{}, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) Refund(ctx context.Context, intentID, reason string) (*Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", intentID)
	if reason != "" {
		form.Set("reason", reason)
	}

	var refund Refund
	if err := c.do(ctx, http.MethodPost, "/refunds", form, nil, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

type errorEnvelope struct {
	Error Error `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, headers map[string]string, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Message == "" {
			return &Error{
				Type:       "api_error",
				Message:    fmt.Sprintf("unexpected HTTP %d", resp.StatusCode),
				HTTPStatus: resp.StatusCode,
			}
		}
		envelope.Error.HTTPStatus = resp.StatusCode
		return &envelope.Error
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
