package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tourism-backend/models"
	"tourism-backend/payments"
	"tourism-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// bookingCurrency is the fixed settlement currency for all intents.
const bookingCurrency = "usd"

// cancellationWindow is measured from the booking's creation time, not its
// scheduled date.
const cancellationWindow = 48 * time.Hour

// BookingService owns the booking state machine. It drives the payment
// gateway through the intent lifecycle in lockstep with booking row
// mutations: the remote call always happens before the local write that
// depends on it, so a row never claims a payment state the gateway has not
// confirmed. Caller identity is an explicit argument on every operation.
type BookingService struct {
	DB      *gorm.DB
	Gateway payments.Gateway
}

func NewBookingService(db *gorm.DB, gateway payments.Gateway) *BookingService {
	return &BookingService{DB: db, Gateway: gateway}
}

type CreateBookingInput struct {
	TourGuideID   uint      `json:"tour_guide_id"`
	BookingDate   time.Time `json:"booking_date"`
	DurationHours int       `json:"duration_hours"`
}

// BookingView is the display-ready projection returned by every booking
// operation. ClientSecret is only populated when the caller still needs it
// to collect a payment method.
type BookingView struct {
	ID                    uint            `json:"id"`
	UserID                uint            `json:"user_id"`
	UserName              string          `json:"user_name"`
	TourGuideID           uint            `json:"tour_guide_id"`
	TourGuideName         string          `json:"tour_guide_name"`
	BookingDate           time.Time       `json:"booking_date"`
	DurationHours         int             `json:"duration_hours"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Status                string          `json:"status"`
	StripePaymentIntentID string          `json:"stripe_payment_intent_id"`
	ClientSecret          *string         `json:"client_secret"`
	CreatedAt             time.Time       `json:"created_at"`
}

// minorUnits converts a decimal amount into the gateway's integer cents,
// rounded to the nearest cent.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// gatewayError classifies a failed gateway call: transport failures become
// the retryable service-unavailable kind, processor rejections carry the
// gateway's own message.
func gatewayError(action string, err error) *utils.AppError {
	if errors.Is(err, payments.ErrUnreachable) {
		return utils.Unavailable("payment service is unavailable", err)
	}
	var gwErr *payments.Error
	if errors.As(err, &gwErr) {
		return utils.Gateway(fmt.Sprintf("failed to %s payment: %s", action, gwErr.Message), err)
	}
	return utils.Internal(fmt.Sprintf("failed to %s payment", action), err)
}

// newPendingBooking is the only way a booking row comes into existence.
// Requiring the created intent as an argument makes it impossible to
// persist a booking for a charge that was never attempted.
func newPendingBooking(userID uint, guide *models.TourGuide, input CreateBookingInput, total decimal.Decimal, intent *payments.Intent) models.Booking {
	intentID := intent.ID
	return models.Booking{
		UserID:                userID,
		TourGuideID:           guide.ID,
		BookingDate:           input.BookingDate,
		DurationHours:         input.DurationHours,
		TotalAmount:           total,
		Status:                models.BookingPending,
		StripePaymentIntentID: &intentID,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, userID uint, input CreateBookingInput) (*BookingView, error) {
	if input.DurationHours <= 0 {
		return nil, utils.Validation("duration must be greater than 0")
	}
	if input.BookingDate.Before(time.Now().UTC()) {
		return nil, utils.Validation("booking date cannot be in the past")
	}

	var guide models.TourGuide
	if err := s.DB.Preload("User").First(&guide, input.TourGuideID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("tour guide not found")
		}
		return nil, utils.Internal("failed to load tour guide", err)
	}
	if !guide.IsAvailable {
		return nil, utils.Conflict("tour guide is not available")
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("user not found")
		}
		return nil, utils.Internal("failed to load user", err)
	}

	total := guide.HourlyRate.Mul(decimal.NewFromInt(int64(input.DurationHours)))

	intent, err := s.Gateway.CreateIntent(ctx, payments.CreateIntentParams{
		Amount:      minorUnits(total),
		Currency:    bookingCurrency,
		Description: fmt.Sprintf("Booking for %s on %s", guide.User.FullName(), input.BookingDate.Format("2006-01-02")),
		Metadata: map[string]string{
			"userId":      strconv.FormatUint(uint64(userID), 10),
			"tourGuideId": strconv.FormatUint(uint64(input.TourGuideID), 10),
		},
	})
	if err != nil {
		return nil, gatewayError("create", err)
	}

	booking := newPendingBooking(userID, &guide, input, total, intent)
	if err := s.DB.Create(&booking).Error; err != nil {
		return nil, utils.Internal("failed to create booking", err)
	}

	secret := intent.ClientSecret
	return &BookingView{
		ID:                    booking.ID,
		UserID:                userID,
		UserName:              user.FullName(),
		TourGuideID:           guide.ID,
		TourGuideName:         guide.User.FullName(),
		BookingDate:           booking.BookingDate,
		DurationHours:         booking.DurationHours,
		TotalAmount:           booking.TotalAmount,
		Status:                booking.Status,
		StripePaymentIntentID: intent.ID,
		ClientSecret:          &secret,
		CreatedAt:             booking.CreatedAt,
	}, nil
}

// loadOwnedBooking fetches a booking scoped to its owner. A booking that
// exists but belongs to someone else reads the same as one that does not
// exist, so the response leaks nothing.
func (s *BookingService) loadOwnedBooking(bookingID, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("User").Preload("TourGuide.User").
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("booking not found")
		}
		return nil, utils.Internal("failed to load booking", err)
	}
	return &booking, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, userID uint, paymentMethodID string) (*BookingView, error) {
	if strings.TrimSpace(paymentMethodID) == "" {
		return nil, utils.Validation("payment method id is required")
	}

	booking, err := s.loadOwnedBooking(bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingPending {
		return nil, utils.Conflict("booking is not in a pending state")
	}

	intent, err := s.Gateway.ConfirmIntent(ctx, *booking.StripePaymentIntentID, paymentMethodID)
	if err != nil {
		// booking stays Pending; the caller may retry confirm
		return nil, gatewayError("confirm", err)
	}

	// The gateway's answer is the single source of truth for whether money
	// moved: anything but succeeded is a failed booking.
	newStatus := models.BookingFailed
	if intent.Status == payments.StatusSucceeded {
		newStatus = models.BookingPaid
	}
	if err := s.DB.Model(booking).Update("status", newStatus).Error; err != nil {
		return nil, utils.Internal("failed to update booking status", err)
	}
	booking.Status = newStatus

	secret := intent.ClientSecret
	view := viewFromBooking(booking)
	view.ClientSecret = &secret
	return view, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID uint) (*BookingView, error) {
	booking, err := s.loadOwnedBooking(bookingID, userID)
	if err != nil {
		return nil, err
	}

	if time.Now().UTC().After(booking.CreatedAt.Add(cancellationWindow)) {
		return nil, utils.Validation("cancellation is only allowed within 48 hours of booking creation")
	}
	if booking.Status == models.BookingCancelled || booking.Status == models.BookingFailed {
		return nil, utils.Conflict(fmt.Sprintf("booking is already %s", strings.ToLower(booking.Status)))
	}

	// Branch on the gateway's current view of the intent, not the locally
	// cached status: confirm may have raced with this call.
	if booking.StripePaymentIntentID != nil && *booking.StripePaymentIntentID != "" {
		intent, err := s.Gateway.GetIntent(ctx, *booking.StripePaymentIntentID)
		if err != nil {
			return nil, gatewayError("look up", err)
		}

		switch {
		case intent.Status == payments.StatusSucceeded:
			if _, err := s.Gateway.Refund(ctx, intent.ID, "requested_by_customer"); err != nil {
				return nil, gatewayError("refund", err)
			}
		case payments.IsCancelable(intent.Status):
			if _, err := s.Gateway.CancelIntent(ctx, intent.ID); err != nil {
				return nil, gatewayError("cancel", err)
			}
		default:
			// already canceled at the gateway, nothing to undo remotely
		}
	}

	if err := s.DB.Model(booking).Update("status", models.BookingCancelled).Error; err != nil {
		return nil, utils.Internal("failed to update booking status", err)
	}
	booking.Status = models.BookingCancelled

	return viewFromBooking(booking), nil
}

func (s *BookingService) GetUserBookings(userID uint) ([]BookingView, error) {
	var bookings []models.Booking
	err := s.DB.Preload("User").Preload("TourGuide.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, utils.Internal("failed to retrieve bookings", err)
	}
	return viewsFromBookings(bookings), nil
}

// GetTourGuideBookings lists bookings made against the caller's own guide
// profile. The caller is identified by user id, not guide id.
func (s *BookingService) GetTourGuideBookings(tourGuideUserID uint) ([]BookingView, error) {
	var guide models.TourGuide
	if err := s.DB.Where("user_id = ?", tourGuideUserID).First(&guide).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("tour guide not found")
		}
		return nil, utils.Internal("failed to load tour guide", err)
	}

	var bookings []models.Booking
	err := s.DB.Preload("User").Preload("TourGuide.User").
		Where("tour_guide_id = ?", guide.ID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, utils.Internal("failed to retrieve bookings", err)
	}
	return viewsFromBookings(bookings), nil
}

func viewFromBooking(b *models.Booking) *BookingView {
	intentID := ""
	if b.StripePaymentIntentID != nil {
		intentID = *b.StripePaymentIntentID
	}
	return &BookingView{
		ID:                    b.ID,
		UserID:                b.UserID,
		UserName:              b.User.FullName(),
		TourGuideID:           b.TourGuideID,
		TourGuideName:         b.TourGuide.User.FullName(),
		BookingDate:           b.BookingDate,
		DurationHours:         b.DurationHours,
		TotalAmount:           b.TotalAmount,
		Status:                b.Status,
		StripePaymentIntentID: intentID,
		ClientSecret:          nil,
		CreatedAt:             b.CreatedAt,
	}
}

func viewsFromBookings(bookings []models.Booking) []BookingView {
	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, *viewFromBooking(&bookings[i]))
	}
	return views
}
