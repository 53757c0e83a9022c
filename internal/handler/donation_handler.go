package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"imani/internal/middleware"
	"imani/internal/repository"
	"imani/internal/service"
	"imani/pkg/daraja"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DonationHandler struct {
	donationSvc  *service.DonationService
	donationRepo *repository.DonationRepository
}

func NewDonationHandler(donationSvc *service.DonationService, donationRepo *repository.DonationRepository) *DonationHandler {
	return &DonationHandler{donationSvc: donationSvc, donationRepo: donationRepo}
}

// Initiate submits an STK push and persists the pending donation. Behind
// AuthRequired: an unauthenticated call never reaches this handler.
func (h *DonationHandler) Initiate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Phone       string  `json:"phone" binding:"required"`
		Amount      float64 `json:"amount" binding:"required,gt=0"`
		Donor       string  `json:"donor"`
		Anonymous   bool    `json:"anonymous"`
		CauseID     *uint   `json:"cause_id"`
		Reference   string  `json:"reference"`
		Description string  `json:"description"`
		Message     string  `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, d, err := h.donationSvc.Initiate(c.Request.Context(), service.InitiateRequest{
		Donor:       req.Donor,
		Anonymous:   req.Anonymous,
		Phone:       req.Phone,
		Amount:      req.Amount,
		CauseID:     req.CauseID,
		UserID:      &userID,
		Reference:   req.Reference,
		Description: req.Description,
		Message:     req.Message,
	})
	if err != nil {
		log.Printf("[MPESA] initiate failed: %v", err)
		var authErr *daraja.AuthError
		var reqErr *daraja.RequestError
		if errors.As(err, &authErr) || errors.As(err, &reqErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"donation_id":          d.ID,
		"checkout_request_id":  resp.CheckoutRequestID,
		"merchant_request_id":  resp.MerchantRequestID,
		"response_code":        resp.ResponseCode,
		"response_description": resp.ResponseDescription,
		"customer_message":     resp.CustomerMessage,
	})
}

// List is the admin donation table: search, status and date filters, paginated.
func (h *DonationHandler) List(c *gin.Context) {
	f := repository.ListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24 * time.Hour)
			f.EndDate = &end
		}
	}
	list, total, err := h.donationRepo.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	pages := total / int64(f.Limit)
	if total%int64(f.Limit) != 0 {
		pages++
	}
	c.JSON(http.StatusOK, gin.H{
		"donations": list,
		"pagination": gin.H{
			"total": total,
			"page":  f.Page,
			"pages": pages,
		},
	})
}

// Status polls the gateway for a checkout id. Advisory; the donation record is
// not touched.
func (h *DonationHandler) Status(c *gin.Context) {
	checkoutID := c.Param("checkout_id")
	out, err := h.donationSvc.CheckStatus(c.Request.Context(), checkoutID)
	if err != nil {
		var authErr *daraja.AuthError
		var reqErr *daraja.RequestError
		if errors.As(err, &authErr) || errors.As(err, &reqErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Override lets an admin correct a donation status manually.
func (h *DonationHandler) Override(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=pending completed failed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.donationSvc.Override(uint(id), req.Status, middleware.GetEmail(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "override failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donation": d})
}

// TestConnection verifies gateway credentials by performing a token exchange.
func (h *DonationHandler) TestConnection(c *gin.Context) {
	token, err := h.donationSvc.TestConnection(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "M-Pesa connection successful",
		"token":   token,
	})
}
