package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking lifecycle. Pending is the only non-terminal status: it moves to
// Paid or Failed on confirm and to Cancelled on cancel. Bookings are never
// physically deleted.
const (
	BookingPending   = "Pending"
	BookingPaid      = "Paid"
	BookingCancelled = "Cancelled"
	BookingFailed    = "Failed"
)

type Booking struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	UserID      uint `gorm:"index" json:"user_id"`
	TourGuideID uint `gorm:"index" json:"tour_guide_id"`

	BookingDate   time.Time `gorm:"column:booking_date" json:"booking_date"`
	DurationHours int       `gorm:"column:duration_hours" json:"duration_hours"`

	// TotalAmount is fixed at creation (hourly rate x duration) and never
	// recomputed afterwards.
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_amount"`

	Status string `gorm:"size:32" json:"status"`

	// StripePaymentIntentId is written together with the row: a booking
	// never exists without a created payment intent.
	StripePaymentIntentID *string `gorm:"column:stripe_payment_intent_id;size:255" json:"stripe_payment_intent_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User      User      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	TourGuide TourGuide `gorm:"foreignKey:TourGuideID;references:ID" json:"tour_guide,omitempty"`
}
