package repository

import (
	"testing"
	"time"

	"imani/internal/domain"
	"imani/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
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
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func pendingDonation(t *testing.T, repo *DonationRepository, checkoutID string, amount int64) *models.Donation {
	t.Helper()
	d := &models.Donation{
		Donor:             "Jane Donor",
		Phone:             "254712345678",
		Amount:            amount,
		Status:            domain.DonationStatusPending,
		PaymentMethod:     domain.PaymentMethodMpesa,
		CheckoutRequestID: checkoutID,
		MerchantRequestID: "mr_" + checkoutID,
	}
	if err := repo.Create(d); err != nil {
		t.Fatalf("create donation: %v", err)
	}
	return d
}

func TestMarkCompleted(t *testing.T) {
	repo := NewDonationRepository(testDB(t))
	pendingDonation(t, repo, "ws_001", 100)

	n, err := repo.MarkCompleted("ws_001", "QAX12B3C4D", "20240115103045")
	if err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows affected = %d, want 1", n)
	}

	d, err := repo.GetByCheckoutID("ws_001")
	if err != nil {
		t.Fatalf("GetByCheckoutID: %v", err)
	}
	if d.Status != domain.DonationStatusCompleted {
		t.Errorf("status = %q", d.Status)
	}
	if d.ReceiptNumber != "QAX12B3C4D" {
		t.Errorf("receipt = %q", d.ReceiptNumber)
	}
	if d.TransactionDate != "20240115103045" {
		t.Errorf("transaction date = %q", d.TransactionDate)
	}
	if d.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestMarkCompletedDuplicate(t *testing.T) {
	repo := NewDonationRepository(testDB(t))
	pendingDonation(t, repo, "ws_002", 250)

	if n, err := repo.MarkCompleted("ws_002", "RCPT1", "20240115110000"); err != nil || n != 1 {
		t.Fatalf("first MarkCompleted: n=%d err=%v", n, err)
	}
	n, err := repo.MarkCompleted("ws_002", "RCPT2", "20240115120000")
	if err != nil {
		t.Fatalf("second MarkCompleted: %v", err)
	}
	if n != 0 {
		t.Fatalf("duplicate affected %d rows, want 0", n)
	}

	d, _ := repo.GetByCheckoutID("ws_002")
	if d.ReceiptNumber != "RCPT1" {
		t.Errorf("receipt overwritten by duplicate: %q", d.ReceiptNumber)
	}
}

func TestMarkFailedDoesNotRevertCompleted(t *testing.T) {
	repo := NewDonationRepository(testDB(t))
	pendingDonation(t, repo, "ws_003", 50)

	if _, err := repo.MarkCompleted("ws_003", "RCPT", "20240115103045"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	n, err := repo.MarkFailed("ws_003")
	if err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if n != 0 {
		t.Fatalf("MarkFailed affected %d rows on terminal record", n)
	}
	d, _ := repo.GetByCheckoutID("ws_003")
	if d.Status != domain.DonationStatusCompleted {
		t.Errorf("status = %q, want completed", d.Status)
	}
}

func TestMarkCompletedUnknownCheckout(t *testing.T) {
	repo := NewDonationRepository(testDB(t))
	n, err := repo.MarkCompleted("ws_missing", "RCPT", "20240115103045")
	if err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if n != 0 {
		t.Errorf("rows affected = %d for unknown checkout id", n)
	}
}

func TestSetStatusOverride(t *testing.T) {
	repo := NewDonationRepository(testDB(t))
	d := pendingDonation(t, repo, "ws_004", 75)
	if _, err := repo.MarkFailed("ws_004"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	// Manual override may move a record out of a terminal state.
	if err := repo.SetStatus(d.ID, domain.DonationStatusCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	got, _ := repo.GetByID(d.ID)
	if got.Status != domain.DonationStatusCompleted {
		t.Errorf("status = %q", got.Status)
	}
}

func TestListFilters(t *testing.T) {
	repo := NewDonationRepository(testDB(t))
	pendingDonation(t, repo, "ws_a", 100)
	pendingDonation(t, repo, "ws_b", 200)
	d := pendingDonation(t, repo, "ws_c", 300)
	d.Donor = "Alice Wanjiku"
	if err := repo.db.Save(d).Error; err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := repo.MarkCompleted("ws_b", "RCPT", "20240115103045"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	list, total, err := repo.List(ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Errorf("all: total=%d len=%d", total, len(list))
	}

	list, total, err = repo.List(ListFilter{Status: domain.DonationStatusCompleted})
	if err != nil {
		t.Fatalf("List completed: %v", err)
	}
	if total != 1 || list[0].CheckoutRequestID != "ws_b" {
		t.Errorf("completed filter: total=%d", total)
	}

	_, total, err = repo.List(ListFilter{Search: "Wanjiku"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if total != 1 {
		t.Errorf("donor search total = %d", total)
	}

	_, total, err = repo.List(ListFilter{Search: "200"})
	if err != nil {
		t.Fatalf("List amount search: %v", err)
	}
	if total != 1 {
		t.Errorf("amount search total = %d", total)
	}

	list, total, err = repo.List(ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List paged: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Errorf("page 1: total=%d len=%d", total, len(list))
	}
}

func TestCompletedBetween(t *testing.T) {
	db := testDB(t)
	repo := NewDonationRepository(db)
	pendingDonation(t, repo, "ws_in", 100)
	pendingDonation(t, repo, "ws_out", 200)
	pendingDonation(t, repo, "ws_still_pending", 300)

	if _, err := repo.MarkCompleted("ws_in", "R1", "20240115103045"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.MarkCompleted("ws_out", "R2", "20240215103045"); err != nil {
		t.Fatal(err)
	}
	// Push ws_out's completion outside the window.
	outside := time.Date(2024, 2, 15, 10, 30, 45, 0, time.Local)
	if err := db.Model(&models.Donation{}).Where("checkout_request_id = ?", "ws_out").
		Update("completed_at", &outside).Error; err != nil {
		t.Fatal(err)
	}
	inside := time.Date(2024, 1, 15, 10, 30, 45, 0, time.Local)
	if err := db.Model(&models.Donation{}).Where("checkout_request_id = ?", "ws_in").
		Update("completed_at", &inside).Error; err != nil {
		t.Fatal(err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	list, err := repo.CompletedBetween(start, end)
	if err != nil {
		t.Fatalf("CompletedBetween: %v", err)
	}
	if len(list) != 1 || list[0].CheckoutRequestID != "ws_in" {
		t.Errorf("got %d donations", len(list))
	}
}
