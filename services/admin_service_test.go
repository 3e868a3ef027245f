package services

import (
	"encoding/json"
	"testing"
	"time"

	"tourism-backend/models"
	"tourism-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupAdminService(t *testing.T) (*AdminService, *RoleService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	roles := NewRoleService(db)
	return NewAdminService(db, roles), roles, db
}

func createApplication(t *testing.T, db *gorm.DB, user models.User, status string) models.TourGuideApplication {
	t.Helper()
	languages, err := json.Marshal([]string{"English", "Spanish"})
	require.NoError(t, err)

	application := models.TourGuideApplication{
		UserID:            user.ID,
		Bio:               "licensed city guide",
		YearsOfExperience: 4,
		Languages:         datatypes.JSON(languages),
		HourlyRate:        decimal.RequireFromString("35"),
		Status:            status,
		SubmittedAt:       time.Now().UTC(),
	}
	require.NoError(t, db.Create(&application).Error)
	return application
}

func TestApproveApplication_GrantsRoleAndCreatesGuide(t *testing.T) {
	svc, roles, db := setupAdminService(t)
	applicant := createUser(t, db, "Dana", "Applicant", "dana@example.com")
	application := createApplication(t, db, applicant, models.ApplicationPending)

	require.NoError(t, svc.ApproveApplication(application.ID, "welcome aboard"))

	held, err := roles.HasRole(applicant.ID, models.RoleTourGuide)
	require.NoError(t, err)
	assert.True(t, held)

	var guide models.TourGuide
	require.NoError(t, db.Where("user_id = ?", applicant.ID).First(&guide).Error)
	assert.True(t, guide.IsAvailable)
	assert.True(t, guide.HourlyRate.Equal(decimal.RequireFromString("35")))
	assert.Equal(t, "licensed city guide", guide.Bio)

	var stored models.TourGuideApplication
	require.NoError(t, db.First(&stored, application.ID).Error)
	assert.Equal(t, models.ApplicationAccepted, stored.Status)
	assert.Equal(t, "welcome aboard", stored.AdminComment)
	require.NotNil(t, stored.ReviewedAt)
}

func TestApproveApplication_NonPendingRejected(t *testing.T) {
	svc, _, db := setupAdminService(t)
	applicant := createUser(t, db, "Dana", "Applicant", "dana@example.com")
	application := createApplication(t, db, applicant, models.ApplicationRejected)

	err := svc.ApproveApplication(application.ID, "")
	requireKind(t, err, utils.KindConflict)
}

func TestApproveApplication_ExistingGuideRejected(t *testing.T) {
	svc, _, db := setupAdminService(t)
	applicant := createUser(t, db, "Dana", "Applicant", "dana@example.com")
	createGuide(t, db, applicant, "35", true)
	application := createApplication(t, db, applicant, models.ApplicationPending)

	err := svc.ApproveApplication(application.ID, "")
	requireKind(t, err, utils.KindConflict)
}

func TestApproveApplication_PersistenceFailureCompensatesRoleGrant(t *testing.T) {
	svc, roles, db := setupAdminService(t)
	applicant := createUser(t, db, "Dana", "Applicant", "dana@example.com")
	application := createApplication(t, db, applicant, models.ApplicationPending)

	// make the record write fail after the role grant has committed
	require.NoError(t, db.Exec(`
		CREATE TRIGGER fail_guide_insert BEFORE INSERT ON tour_guides
		BEGIN SELECT RAISE(ABORT, 'forced persistence failure'); END;
	`).Error)

	err := svc.ApproveApplication(application.ID, "welcome")
	requireKind(t, err, utils.KindInternal)

	held, roleErr := roles.HasRole(applicant.ID, models.RoleTourGuide)
	require.NoError(t, roleErr)
	assert.False(t, held, "role grant must be compensated when the record write fails")

	var guideCount int64
	require.NoError(t, db.Model(&models.TourGuide{}).Where("user_id = ?", applicant.ID).Count(&guideCount).Error)
	assert.Zero(t, guideCount)

	var stored models.TourGuideApplication
	require.NoError(t, db.First(&stored, application.ID).Error)
	assert.Equal(t, models.ApplicationPending, stored.Status)
}

func TestRejectApplication_SetsStatusAndComment(t *testing.T) {
	svc, roles, db := setupAdminService(t)
	applicant := createUser(t, db, "Dana", "Applicant", "dana@example.com")
	application := createApplication(t, db, applicant, models.ApplicationPending)

	require.NoError(t, svc.RejectApplication(application.ID, "insufficient experience"))

	var stored models.TourGuideApplication
	require.NoError(t, db.First(&stored, application.ID).Error)
	assert.Equal(t, models.ApplicationRejected, stored.Status)
	assert.Equal(t, "insufficient experience", stored.AdminComment)
	require.NotNil(t, stored.ReviewedAt)

	held, err := roles.HasRole(applicant.ID, models.RoleTourGuide)
	require.NoError(t, err)
	assert.False(t, held, "reject has no role side effects")
}

func setupRevokableGuide(t *testing.T, svc *AdminService, db *gorm.DB) (models.User, models.TourGuide, models.TourGuideApplication) {
	t.Helper()
	applicant := createUser(t, db, "Dana", "Applicant", "dana@example.com")
	application := createApplication(t, db, applicant, models.ApplicationPending)
	require.NoError(t, svc.ApproveApplication(application.ID, "ok"))

	var guide models.TourGuide
	require.NoError(t, db.Where("user_id = ?", applicant.ID).First(&guide).Error)
	return applicant, guide, application
}

func TestRevokeTourGuide_RemovesRoleRecordAndMarksApplication(t *testing.T) {
	svc, roles, db := setupAdminService(t)
	applicant, guide, application := setupRevokableGuide(t, svc, db)

	require.NoError(t, svc.RevokeTourGuide(guide.ID, "policy violation"))

	held, err := roles.HasRole(applicant.ID, models.RoleTourGuide)
	require.NoError(t, err)
	assert.False(t, held)

	var guideCount int64
	require.NoError(t, db.Model(&models.TourGuide{}).Where("id = ?", guide.ID).Count(&guideCount).Error)
	assert.Zero(t, guideCount, "revocation deletes the record, not a flag")

	var stored models.TourGuideApplication
	require.NoError(t, db.First(&stored, application.ID).Error)
	assert.Equal(t, models.ApplicationRevoked, stored.Status)
	assert.Equal(t, "policy violation", stored.AdminComment)
}

func TestRevokeTourGuide_RollbackKeepsRecordButNotRole(t *testing.T) {
	svc, roles, db := setupAdminService(t)
	applicant, guide, application := setupRevokableGuide(t, svc, db)

	// force a failure inside the transactional portion: the guide deletion
	// and application update must roll back, while the role removal that
	// already committed stays removed
	require.NoError(t, db.Exec(`
		CREATE TRIGGER fail_revoke_update BEFORE UPDATE ON tour_guide_applications
		WHEN NEW.status = 'Revoked'
		BEGIN SELECT RAISE(ABORT, 'forced transaction failure'); END;
	`).Error)

	err := svc.RevokeTourGuide(guide.ID, "policy violation")
	requireKind(t, err, utils.KindInternal)

	var guideCount int64
	require.NoError(t, db.Model(&models.TourGuide{}).Where("id = ?", guide.ID).Count(&guideCount).Error)
	assert.Equal(t, int64(1), guideCount, "rollback must restore the guide record")

	var stored models.TourGuideApplication
	require.NoError(t, db.First(&stored, application.ID).Error)
	assert.Equal(t, models.ApplicationAccepted, stored.Status, "rollback must restore the application status")

	held, roleErr := roles.HasRole(applicant.ID, models.RoleTourGuide)
	require.NoError(t, roleErr)
	assert.False(t, held, "the committed role removal is not restored on rollback")
}

func TestRevokeTourGuide_UserWithoutRoleRejected(t *testing.T) {
	svc, roles, db := setupAdminService(t)
	_, guide, _ := setupRevokableGuide(t, svc, db)
	require.NoError(t, roles.RemoveRole(guide.UserID, models.RoleTourGuide))

	err := svc.RevokeTourGuide(guide.ID, "")
	requireKind(t, err, utils.KindConflict)
}

func TestAssignAdminRole(t *testing.T) {
	svc, roles, db := setupAdminService(t)
	user := createUser(t, db, "Frank", "User", "frank@example.com")

	message, err := svc.AssignAdminRole(user.ID)
	require.NoError(t, err)
	assert.Contains(t, message, "frank@example.com")

	held, err := roles.HasRole(user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, held)

	_, err = svc.AssignAdminRole(user.ID)
	requireKind(t, err, utils.KindConflict)

	_, err = svc.AssignAdminRole(9999)
	requireKind(t, err, utils.KindNotFound)
}
