package payments

import (
	"context"
	"errors"
	"fmt"
)

// Payment intent statuses, as reported by the gateway. The intent lifecycle
// is independent of the local booking status.
const (
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusRequiresConfirmation  = "requires_confirmation"
	StatusRequiresAction        = "requires_action"
	StatusProcessing            = "processing"
	StatusRequiresCapture       = "requires_capture"
	StatusSucceeded             = "succeeded"
	StatusCanceled              = "canceled"
)

// cancelableStatuses are the intent states that must be canceled remotely
// before the local booking may be marked Cancelled. A succeeded intent is
// refunded instead; anything else needs no remote action.
var cancelableStatuses = map[string]bool{
	StatusRequiresPaymentMethod: true,
	StatusRequiresCapture:       true,
	StatusRequiresConfirmation:  true,
	StatusRequiresAction:        true,
	StatusProcessing:            true,
}

func IsCancelable(status string) bool { return cancelableStatuses[status] }

// Intent is the gateway's representation of an in-progress charge attempt.
type Intent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// CreateIntentParams carries everything the gateway needs to open a charge
// attempt. Amount is in minor currency units (cents).
type CreateIntentParams struct {
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Gateway is the payment processor contract used by the booking engine.
// Implementations must return *Error for requests the processor rejected
// and wrap ErrUnreachable for transport-level failures, so callers can
// tell a decline from a connectivity problem.
type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
	CancelIntent(ctx context.Context, intentID string) (*Intent, error)
	Refund(ctx context.Context, intentID, reason string) (*Refund, error)
}

// ErrUnreachable marks transport failures (connection refused, timeout)
// as opposed to requests the gateway processed and rejected.
var ErrUnreachable = errors.New("payment gateway unreachable")

// Error is a request the gateway received and rejected.
type Error struct {
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("stripe: %s", e.Message)
}
