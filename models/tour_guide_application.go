package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	ApplicationPending  = "Pending"
	ApplicationAccepted = "Accepted"
	ApplicationRejected = "Rejected"
	ApplicationRevoked  = "Revoked"
)

// TourGuideApplication is a moderation request. It is transitioned exactly
// once by an admin while Pending; Revoked is applied retroactively to the
// applicant's most recent application when their guide status is revoked.
type TourGuideApplication struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"index" json:"user_id"`
	Bio               string          `gorm:"type:text" json:"bio"`
	YearsOfExperience int             `gorm:"column:years_of_experience" json:"years_of_experience"`
	Languages         datatypes.JSON  `gorm:"column:languages" json:"languages"`
	HourlyRate        decimal.Decimal `gorm:"type:decimal(18,2)" json:"hourly_rate"`
	CVURL             string          `gorm:"column:cv_url;size:512" json:"cv_url"`
	ProfilePictureURL string          `gorm:"column:profile_picture_url;size:512" json:"profile_picture_url"`
	Status            string          `gorm:"size:32;default:Pending" json:"status"`
	AdminComment      string          `gorm:"size:1024" json:"admin_comment"`
	SubmittedAt       time.Time       `json:"submitted_at"`
	ReviewedAt        *time.Time      `json:"reviewed_at,omitempty"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}
