package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TourGuide is a user acting as a bookable provider. At most one record per
// user (unique index on UserID); the record exists iff the user holds the
// TourGuide role, kept in sync by the admin approve/revoke flows.
type TourGuide struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"uniqueIndex" json:"user_id"`
	Bio               string          `gorm:"type:text" json:"bio"`
	YearsOfExperience int             `gorm:"column:years_of_experience" json:"years_of_experience"`
	Languages         datatypes.JSON  `gorm:"column:languages" json:"languages"`
	HourlyRate        decimal.Decimal `gorm:"type:decimal(18,2)" json:"hourly_rate"`
	IsAvailable       bool            `gorm:"column:is_available;default:true" json:"is_available"`
	ProfilePictureURL string          `gorm:"column:profile_picture_url;size:512" json:"profile_picture_url"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}
