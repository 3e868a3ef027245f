package services

import (
	"context"
	"testing"

	"tourism-backend/models"
	"tourism-backend/payments"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// single connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.TourGuide{},
		&models.TourGuideApplication{},
		&models.Booking{},
	))

	for _, name := range []string{models.RoleAdmin, models.RoleTourGuide, models.RoleUser} {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, firstName, lastName, email string) models.User {
	t.Helper()
	user := models.User{FirstName: firstName, LastName: lastName, Email: email, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createGuide(t *testing.T, db *gorm.DB, user models.User, hourlyRate string, available bool) models.TourGuide {
	t.Helper()
	guide := models.TourGuide{
		UserID:      user.ID,
		Bio:         "local guide",
		HourlyRate:  decimal.RequireFromString(hourlyRate),
		IsAvailable: available,
	}
	require.NoError(t, db.Create(&guide).Error)
	if !available {
		// gorm skips zero-valued fields on struct create
		require.NoError(t, db.Model(&guide).Update("is_available", false).Error)
	}
	return guide
}

// fakeGateway implements payments.Gateway with per-call hooks and counters.
type fakeGateway struct {
	createFn  func(params payments.CreateIntentParams) (*payments.Intent, error)
	confirmFn func(intentID, paymentMethodID string) (*payments.Intent, error)
	getFn     func(intentID string) (*payments.Intent, error)
	cancelFn  func(intentID string) (*payments.Intent, error)
	refundFn  func(intentID, reason string) (*payments.Refund, error)

	createCalls  int
	confirmCalls int
	getCalls     int
	cancelCalls  int
	refundCalls  int

	lastCreateParams payments.CreateIntentParams
	lastRefundReason string
}

func (g *fakeGateway) CreateIntent(_ context.Context, params payments.CreateIntentParams) (*payments.Intent, error) {
	g.createCalls++
	g.lastCreateParams = params
	if g.createFn != nil {
		return g.createFn(params)
	}
	return &payments.Intent{
		ID:           "pi_test",
		Status:       payments.StatusRequiresPaymentMethod,
		ClientSecret: "pi_test_secret",
		Amount:       params.Amount,
		Currency:     params.Currency,
	}, nil
}

func (g *fakeGateway) ConfirmIntent(_ context.Context, intentID, paymentMethodID string) (*payments.Intent, error) {
	g.confirmCalls++
	if g.confirmFn != nil {
		return g.confirmFn(intentID, paymentMethodID)
	}
	return &payments.Intent{ID: intentID, Status: payments.StatusSucceeded, ClientSecret: "pi_test_secret"}, nil
}

func (g *fakeGateway) GetIntent(_ context.Context, intentID string) (*payments.Intent, error) {
	g.getCalls++
	if g.getFn != nil {
		return g.getFn(intentID)
	}
	return &payments.Intent{ID: intentID, Status: payments.StatusRequiresPaymentMethod}, nil
}

func (g *fakeGateway) CancelIntent(_ context.Context, intentID string) (*payments.Intent, error) {
	g.cancelCalls++
	if g.cancelFn != nil {
		return g.cancelFn(intentID)
	}
	return &payments.Intent{ID: intentID, Status: payments.StatusCanceled}, nil
}

func (g *fakeGateway) Refund(_ context.Context, intentID, reason string) (*payments.Refund, error) {
	g.refundCalls++
	g.lastRefundReason = reason
	if g.refundFn != nil {
		return g.refundFn(intentID, reason)
	}
	return &payments.Refund{ID: "re_test", Status: "succeeded"}, nil
}
