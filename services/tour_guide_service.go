package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"tourism-backend/models"
	"tourism-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TourGuideService covers the applicant/guide side: submitting an
// application, browsing guides and managing one's own availability. All
// moderation (approve/reject/revoke) lives in AdminService.
type TourGuideService struct {
	DB *gorm.DB
}

func NewTourGuideService(db *gorm.DB) *TourGuideService {
	return &TourGuideService{DB: db}
}

type ApplyInput struct {
	Bio               string          `json:"bio"`
	YearsOfExperience int             `json:"years_of_experience"`
	Languages         []string        `json:"languages"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	CVURL             string          `json:"cv_url"`
	ProfilePictureURL string          `json:"profile_picture_url"`
}

type TourGuideView struct {
	ID                uint            `json:"id"`
	UserID            uint            `json:"user_id"`
	Name              string          `json:"name"`
	Bio               string          `json:"bio"`
	YearsOfExperience int             `json:"years_of_experience"`
	Languages         datatypes.JSON  `json:"languages"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	IsAvailable       bool            `json:"is_available"`
	ProfilePictureURL string          `json:"profile_picture_url"`
}

func (s *TourGuideService) SubmitApplication(userID uint, input ApplyInput) (*models.TourGuideApplication, error) {
	if strings.TrimSpace(input.Bio) == "" {
		return nil, utils.Validation("bio is required")
	}
	if input.YearsOfExperience < 0 {
		return nil, utils.Validation("years of experience cannot be negative")
	}
	if input.HourlyRate.LessThanOrEqual(decimal.Zero) {
		return nil, utils.Validation("hourly rate must be greater than 0")
	}

	var guideCount int64
	if err := s.DB.Model(&models.TourGuide{}).Where("user_id = ?", userID).Count(&guideCount).Error; err != nil {
		return nil, utils.Internal("failed to check tour guide status", err)
	}
	if guideCount > 0 {
		return nil, utils.Conflict("user is already a tour guide")
	}

	var pendingCount int64
	err := s.DB.Model(&models.TourGuideApplication{}).
		Where("user_id = ? AND status = ?", userID, models.ApplicationPending).
		Count(&pendingCount).Error
	if err != nil {
		return nil, utils.Internal("failed to check pending applications", err)
	}
	if pendingCount > 0 {
		return nil, utils.Conflict("a pending application already exists")
	}

	languages, err := json.Marshal(input.Languages)
	if err != nil {
		return nil, utils.Validation("invalid languages list")
	}

	application := models.TourGuideApplication{
		UserID:            userID,
		Bio:               input.Bio,
		YearsOfExperience: input.YearsOfExperience,
		Languages:         datatypes.JSON(languages),
		HourlyRate:        input.HourlyRate,
		CVURL:             input.CVURL,
		ProfilePictureURL: input.ProfilePictureURL,
		Status:            models.ApplicationPending,
		SubmittedAt:       time.Now().UTC(),
	}
	if err := s.DB.Create(&application).Error; err != nil {
		return nil, utils.Internal("failed to submit application", err)
	}
	return &application, nil
}

// MyApplication returns the caller's most recently submitted application.
func (s *TourGuideService) MyApplication(userID uint) (*models.TourGuideApplication, error) {
	var application models.TourGuideApplication
	err := s.DB.Where("user_id = ?", userID).
		Order("submitted_at DESC").
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("no application found")
		}
		return nil, utils.Internal("failed to load application", err)
	}
	return &application, nil
}

func (s *TourGuideService) ListGuides() ([]TourGuideView, error) {
	var guides []models.TourGuide
	if err := s.DB.Preload("User").Order("created_at DESC").Find(&guides).Error; err != nil {
		return nil, utils.Internal("failed to retrieve tour guides", err)
	}

	views := make([]TourGuideView, 0, len(guides))
	for _, g := range guides {
		views = append(views, guideView(&g))
	}
	return views, nil
}

func (s *TourGuideService) GetGuide(id uint) (*TourGuideView, error) {
	var guide models.TourGuide
	if err := s.DB.Preload("User").First(&guide, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("tour guide not found")
		}
		return nil, utils.Internal("failed to load tour guide", err)
	}
	view := guideView(&guide)
	return &view, nil
}

// SetAvailability toggles whether the caller's own guide profile accepts
// new bookings. It gates creation only: bookings already pending are
// unaffected and may still be confirmed.
func (s *TourGuideService) SetAvailability(userID uint, available bool) error {
	result := s.DB.Model(&models.TourGuide{}).
		Where("user_id = ?", userID).
		Update("is_available", available)
	if result.Error != nil {
		return utils.Internal("failed to update availability", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.NotFound("tour guide not found")
	}
	return nil
}

func guideView(g *models.TourGuide) TourGuideView {
	return TourGuideView{
		ID:                g.ID,
		UserID:            g.UserID,
		Name:              g.User.FullName(),
		Bio:               g.Bio,
		YearsOfExperience: g.YearsOfExperience,
		Languages:         g.Languages,
		HourlyRate:        g.HourlyRate,
		IsAvailable:       g.IsAvailable,
		ProfilePictureURL: g.ProfilePictureURL,
	}
}
