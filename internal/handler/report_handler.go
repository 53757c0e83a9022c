package handler

import (
	"net/http"
	"time"

	"imani/internal/repository"
	"imani/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	donationRepo *repository.DonationRepository
	emailSvc     *service.EmailService
	settingsSvc  *service.SettingsService
}

func NewReportHandler(donationRepo *repository.DonationRepository, emailSvc *service.EmailService, settingsSvc *service.SettingsService) *ReportHandler {
	return &ReportHandler{donationRepo: donationRepo, emailSvc: emailSvc, settingsSvc: settingsSvc}
}

// previousMonth returns the calendar month before t. Anchoring on the first of
// t's month avoids AddDate's end-of-month normalization (Mar 31 minus one month
// is Mar 3, not February).
func previousMonth(t time.Time) (time.Month, int) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	prev := first.AddDate(0, -1, 0)
	return prev.Month(), prev.Year()
}

// Monthly builds a donation report for one calendar month and emails it to the
// configured recipient. Month and year default to the previous month.
func (h *ReportHandler) Monthly(c *gin.Context) {
	var req struct {
		Month     int    `json:"month" binding:"omitempty,min=1,max=12"`
		Year      int    `json:"year" binding:"omitempty,min=2020"`
		Recipient string `json:"recipient"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Month == 0 || req.Year == 0 {
		m, y := previousMonth(time.Now())
		req.Month = int(m)
		req.Year = y
	}
	start := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	donations, err := h.donationRepo.CompletedBetween(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report query failed"})
		return
	}
	report := service.BuildMonthlyReport(time.Month(req.Month), req.Year, donations)

	recipient := req.Recipient
	if recipient == "" {
		cfg, err := h.settingsSvc.ResolveEmail()
		if err != nil || cfg.ReportRecipient == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no report recipient configured"})
			return
		}
		recipient = cfg.ReportRecipient
	}
	if err := h.emailSvc.SendMonthlyReport(recipient, report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report email failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "report sent",
		"recipient":       recipient,
		"month":           req.Month,
		"year":            req.Year,
		"total_donations": report.TotalDonations,
		"total_amount":    report.TotalAmount,
	})
}
