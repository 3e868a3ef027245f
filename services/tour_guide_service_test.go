package services

import (
	"testing"
	"time"

	"tourism-backend/models"
	"tourism-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplyInput() ApplyInput {
	return ApplyInput{
		Bio:               "certified mountain guide",
		YearsOfExperience: 6,
		Languages:         []string{"English", "German"},
		HourlyRate:        decimal.RequireFromString("45"),
	}
}

func TestSubmitApplication_CreatesPendingApplication(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")

	application, err := svc.SubmitApplication(user.ID, validApplyInput())
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationPending, application.Status)
	assert.Equal(t, user.ID, application.UserID)
	assert.False(t, application.SubmittedAt.IsZero())
	assert.JSONEq(t, `["English","German"]`, string(application.Languages))
}

func TestSubmitApplication_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")

	input := validApplyInput()
	input.Bio = "   "
	_, err := svc.SubmitApplication(user.ID, input)
	requireKind(t, err, utils.KindValidation)

	input = validApplyInput()
	input.YearsOfExperience = -1
	_, err = svc.SubmitApplication(user.ID, input)
	requireKind(t, err, utils.KindValidation)

	input = validApplyInput()
	input.HourlyRate = decimal.Zero
	_, err = svc.SubmitApplication(user.ID, input)
	requireKind(t, err, utils.KindValidation)
}

func TestSubmitApplication_ExistingGuideRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")
	createGuide(t, db, user, "45", true)

	_, err := svc.SubmitApplication(user.ID, validApplyInput())
	requireKind(t, err, utils.KindConflict)
}

func TestSubmitApplication_PendingApplicationRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")

	_, err := svc.SubmitApplication(user.ID, validApplyInput())
	require.NoError(t, err)

	_, err = svc.SubmitApplication(user.ID, validApplyInput())
	requireKind(t, err, utils.KindConflict)
}

func TestSubmitApplication_AllowedAfterRejection(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	admin := NewAdminService(db, NewRoleService(db))
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")

	first, err := svc.SubmitApplication(user.ID, validApplyInput())
	require.NoError(t, err)
	require.NoError(t, admin.RejectApplication(first.ID, "not enough detail"))

	_, err = svc.SubmitApplication(user.ID, validApplyInput())
	require.NoError(t, err)
}

func TestMyApplication_ReturnsLatest(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	admin := NewAdminService(db, NewRoleService(db))
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")

	first, err := svc.SubmitApplication(user.ID, validApplyInput())
	require.NoError(t, err)
	require.NoError(t, admin.RejectApplication(first.ID, "resubmit later"))

	// age the first submission so ordering is unambiguous
	require.NoError(t, db.Model(first).Update("submitted_at", time.Now().UTC().Add(-time.Hour)).Error)

	second, err := svc.SubmitApplication(user.ID, validApplyInput())
	require.NoError(t, err)

	latest, err := svc.MyApplication(user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestMyApplication_NoneFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")

	_, err := svc.MyApplication(user.ID)
	requireKind(t, err, utils.KindNotFound)
}

func TestListGuides_IncludesUserName(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")
	createGuide(t, db, user, "45", true)

	guides, err := svc.ListGuides()
	require.NoError(t, err)
	require.Len(t, guides, 1)
	assert.Equal(t, "Greta Guide", guides[0].Name)
	assert.True(t, guides[0].HourlyRate.Equal(decimal.RequireFromString("45")))
}

func TestGetGuide_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)

	_, err := svc.GetGuide(404)
	requireKind(t, err, utils.KindNotFound)
}

func TestSetAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := NewTourGuideService(db)
	user := createUser(t, db, "Greta", "Guide", "greta@example.com")
	guide := createGuide(t, db, user, "45", true)

	require.NoError(t, svc.SetAvailability(user.ID, false))

	var stored models.TourGuide
	require.NoError(t, db.First(&stored, guide.ID).Error)
	assert.False(t, stored.IsAvailable)

	other := createUser(t, db, "Nora", "NoGuide", "nora@example.com")
	err := svc.SetAvailability(other.ID, true)
	requireKind(t, err, utils.KindNotFound)
}
