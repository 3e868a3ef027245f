package services

import (
	"errors"
	"fmt"
	"time"

	"tourism-backend/models"
	"tourism-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminService owns tour-guide moderation: it is the only code that
// creates or deletes TourGuide records and transitions application
// statuses. Role writes go through RoleService and commit independently of
// the record transactions here, so the two stores are synced with explicit
// compensation steps rather than one atomic transaction.
type AdminService struct {
	DB    *gorm.DB
	Roles *RoleService
}

func NewAdminService(db *gorm.DB, roles *RoleService) *AdminService {
	return &AdminService{DB: db, Roles: roles}
}

type ApplicationView struct {
	ID                uint            `json:"id"`
	UserID            uint            `json:"user_id"`
	UserName          string          `json:"user_name"`
	Email             string          `json:"email"`
	Bio               string          `json:"bio"`
	YearsOfExperience int             `json:"years_of_experience"`
	Languages         datatypes.JSON  `json:"languages"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	CVURL             string          `json:"cv_url"`
	ProfilePictureURL string          `json:"profile_picture_url"`
	Status            string          `json:"status"`
	AdminComment      string          `json:"admin_comment"`
	SubmittedAt       time.Time       `json:"submitted_at"`
	ReviewedAt        *time.Time      `json:"reviewed_at,omitempty"`
}

func (s *AdminService) GetApplications() ([]ApplicationView, error) {
	var applications []models.TourGuideApplication
	if err := s.DB.Preload("User").Order("submitted_at DESC").Find(&applications).Error; err != nil {
		return nil, utils.Internal("failed to retrieve applications", err)
	}

	views := make([]ApplicationView, 0, len(applications))
	for _, app := range applications {
		views = append(views, ApplicationView{
			ID:                app.ID,
			UserID:            app.UserID,
			UserName:          app.User.FullName(),
			Email:             app.User.Email,
			Bio:               app.Bio,
			YearsOfExperience: app.YearsOfExperience,
			Languages:         app.Languages,
			HourlyRate:        app.HourlyRate,
			CVURL:             app.CVURL,
			ProfilePictureURL: app.ProfilePictureURL,
			Status:            app.Status,
			AdminComment:      app.AdminComment,
			SubmittedAt:       app.SubmittedAt,
			ReviewedAt:        app.ReviewedAt,
		})
	}
	return views, nil
}

// ApproveApplication grants the TourGuide role and creates the guide
// record from the application's profile fields. The role grant and the
// record writes live in different stores, so the flow runs as a saga: if
// the record transaction fails after the role was granted, the grant is
// compensated by removing the role again and the original failure is
// reported. A crash between grant and compensation leaves the role
// dangling; that window is accepted.
func (s *AdminService) ApproveApplication(applicationID uint, comment string) error {
	var application models.TourGuideApplication
	if err := s.DB.Preload("User").First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("application not found")
		}
		return utils.Internal("failed to load application", err)
	}
	if application.Status != models.ApplicationPending {
		return utils.Conflict("application is not in a pending state")
	}

	var guideCount int64
	if err := s.DB.Model(&models.TourGuide{}).Where("user_id = ?", application.UserID).Count(&guideCount).Error; err != nil {
		return utils.Internal("failed to check existing tour guide", err)
	}
	if guideCount > 0 {
		return utils.Conflict("user is already a tour guide")
	}

	exists, err := s.Roles.RoleExists(models.RoleTourGuide)
	if err != nil {
		return utils.Internal("failed to check TourGuide role", err)
	}
	if !exists {
		return utils.Internal("TourGuide role does not exist", nil)
	}

	guide := models.TourGuide{
		UserID:            application.UserID,
		Bio:               application.Bio,
		YearsOfExperience: application.YearsOfExperience,
		Languages:         application.Languages,
		HourlyRate:        application.HourlyRate,
		IsAvailable:       true,
		ProfilePictureURL: application.ProfilePictureURL,
	}

	now := time.Now().UTC()
	var stepErr error
	sagaErr := runSaga([]sagaStep{
		{
			name: "assign tourguide role",
			run: func() error {
				if err := s.Roles.AssignRole(application.UserID, models.RoleTourGuide); err != nil {
					stepErr = utils.Internal("failed to assign TourGuide role", err)
					return stepErr
				}
				return nil
			},
			compensate: func() error {
				return s.Roles.RemoveRole(application.UserID, models.RoleTourGuide)
			},
		},
		{
			name: "persist guide record",
			run: func() error {
				err := s.DB.Transaction(func(tx *gorm.DB) error {
					if err := tx.Create(&guide).Error; err != nil {
						return err
					}
					return tx.Model(&application).Updates(map[string]interface{}{
						"status":        models.ApplicationAccepted,
						"admin_comment": comment,
						"reviewed_at":   now,
					}).Error
				})
				if err != nil {
					// lost the race against a concurrent approval; the
					// unique index on user_id is the hard guarantee
					if isDuplicateEntry(err) {
						stepErr = utils.Conflict("user is already a tour guide")
					} else {
						stepErr = utils.Internal(fmt.Sprintf("failed to approve application: %v", err), err)
					}
					return stepErr
				}
				return nil
			},
		},
	})
	if sagaErr != nil {
		return stepErr
	}
	return nil
}

func (s *AdminService) RejectApplication(applicationID uint, comment string) error {
	var application models.TourGuideApplication
	if err := s.DB.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("application not found")
		}
		return utils.Internal("failed to load application", err)
	}
	if application.Status != models.ApplicationPending {
		return utils.Conflict("application is not in a pending state")
	}

	err := s.DB.Model(&application).Updates(map[string]interface{}{
		"status":        models.ApplicationRejected,
		"admin_comment": comment,
		"reviewed_at":   time.Now().UTC(),
	}).Error
	if err != nil {
		return utils.Internal("failed to reject application", err)
	}
	return nil
}

// RevokeTourGuide removes the TourGuide role, then deletes the guide
// record and retroactively marks the user's latest application Revoked
// inside one database transaction. The role removal commits before the
// transaction starts: if the transaction rolls back, the record and
// application survive but the role stays removed.
func (s *AdminService) RevokeTourGuide(tourGuideID uint, comment string) error {
	var guide models.TourGuide
	if err := s.DB.Preload("User").First(&guide, tourGuideID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("tour guide not found")
		}
		return utils.Internal("failed to load tour guide", err)
	}
	if guide.User.ID == 0 {
		return utils.NotFound("associated user not found")
	}

	isGuide, err := s.Roles.HasRole(guide.UserID, models.RoleTourGuide)
	if err != nil {
		return utils.Internal("failed to check TourGuide role", err)
	}
	if !isGuide {
		return utils.Conflict("user is not a tour guide")
	}

	if err := s.Roles.RemoveRole(guide.UserID, models.RoleTourGuide); err != nil {
		return utils.Internal("failed to remove TourGuide role", err)
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TourGuide{}, guide.ID).Error; err != nil {
			return err
		}

		var application models.TourGuideApplication
		err := tx.Where("user_id = ?", guide.UserID).
			Order("submitted_at DESC").
			First(&application).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		return tx.Model(&application).Updates(map[string]interface{}{
			"status":        models.ApplicationRevoked,
			"admin_comment": comment,
			"reviewed_at":   time.Now().UTC(),
		}).Error
	})
	if txErr != nil {
		return utils.Internal(fmt.Sprintf("failed to revoke tour guide status: %v", txErr), txErr)
	}
	return nil
}

// AssignAdminRole grants the Admin role to a user. A single role-store
// write, no record mutation.
func (s *AdminService) AssignAdminRole(userID uint) (string, error) {
	if userID == 0 {
		return "", utils.Validation("invalid user id")
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", utils.NotFound("user not found")
		}
		return "", utils.Internal("failed to load user", err)
	}

	isAdmin, err := s.Roles.HasRole(userID, models.RoleAdmin)
	if err != nil {
		return "", utils.Internal("failed to check Admin role", err)
	}
	if isAdmin {
		return "", utils.Conflict("user already has Admin role")
	}

	exists, err := s.Roles.RoleExists(models.RoleAdmin)
	if err != nil {
		return "", utils.Internal("failed to check Admin role", err)
	}
	if !exists {
		return "", utils.Internal("Admin role does not exist", nil)
	}

	if err := s.Roles.AssignRole(userID, models.RoleAdmin); err != nil {
		return "", utils.Internal("failed to assign Admin role", err)
	}
	return fmt.Sprintf("Admin role assigned to user %s successfully", user.Email), nil
}
