package handler

import (
	"testing"
	"time"

	"imani/config"
	"imani/internal/models"
	"imani/internal/repository"
	"imani/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fixture bundles the wired stack the handler tests exercise against an
// in-memory database.
type fixture struct {
	db           *gorm.DB
	cfg          *config.Config
	donationRepo *repository.DonationRepository
	causeRepo    *repository.CauseRepository
	eventRepo    *repository.PaymentEventRepository
	settingRepo  *repository.SettingRepository
	settingsSvc  *service.SettingsService
	donationSvc  *service.DonationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.Cause{},
		&models.CauseImage{},
		&models.Donation{},
		&models.PaymentEvent{},
		&models.GalleryImage{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  time.Hour,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "imani-test",
		},
		Mpesa: config.MpesaConfig{
			BaseURL:          "https://sandbox.invalid",
			ConsumerKey:      "key",
			ConsumerSecret:   "secret",
			Shortcode:        "174379",
			PassKey:          "passkey",
			CallbackURL:      "https://example.com/mpesa/callback",
			AccountReference: "HrtFdn",
			TransactionDesc:  "Donation",
		},
	}
	f := &fixture{
		db:           db,
		cfg:          cfg,
		donationRepo: repository.NewDonationRepository(db),
		causeRepo:    repository.NewCauseRepository(db),
		eventRepo:    repository.NewPaymentEventRepository(db),
		settingRepo:  repository.NewSettingRepository(db),
	}
	f.settingsSvc = service.NewSettingsService(f.settingRepo, cfg)
	f.donationSvc = service.NewDonationService(f.donationRepo, f.causeRepo, f.eventRepo, f.settingsSvc)
	return f
}

func (f *fixture) pending(t *testing.T, checkoutID string, amount int64, causeID *uint) *models.Donation {
	t.Helper()
	d := &models.Donation{
		Donor:             "Jane Donor",
		Phone:             "254712345678",
		Amount:            amount,
		Status:            "pending",
		CauseID:           causeID,
		PaymentMethod:     "mpesa",
		CheckoutRequestID: checkoutID,
		MerchantRequestID: "mr_" + checkoutID,
	}
	if err := f.donationRepo.Create(d); err != nil {
		t.Fatalf("create donation: %v", err)
	}
	return d
}

func (f *fixture) events(t *testing.T, checkoutID string) []models.PaymentEvent {
	t.Helper()
	list, err := f.eventRepo.ListByCheckoutID(checkoutID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	return list
}
