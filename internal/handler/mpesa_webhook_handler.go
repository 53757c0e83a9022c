package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"imani/internal/service"
	"imani/pkg/daraja"

	"github.com/gin-gonic/gin"
)

// MpesaWebhookHandler receives the gateway's asynchronous STK result. The
// acknowledge-and-log policy is deliberate: anything we can parse — including
// payloads we can't use — gets a 200 so the gateway stops retrying; only an
// unexpected storage failure returns 500, which makes the gateway retry.
type MpesaWebhookHandler struct {
	donationSvc *service.DonationService
}

func NewMpesaWebhookHandler(donationSvc *service.DonationService) *MpesaWebhookHandler {
	return &MpesaWebhookHandler{donationSvc: donationSvc}
}

func (h *MpesaWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("[MPESA callback] read body: %v", err)
		h.ackInvalid(c)
		return
	}
	var env daraja.CallbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Body.StkCallback == nil {
		log.Printf("[MPESA callback] invalid callback body: %s", string(body))
		h.ackInvalid(c)
		return
	}
	cb := env.Body.StkCallback
	log.Printf("[MPESA callback] checkout_request_id=%s result_code=%d", cb.CheckoutRequestID, cb.ResultCode)
	if err := h.donationSvc.Reconcile(cb); err != nil {
		log.Printf("[MPESA callback] reconcile %s: %v", cb.CheckoutRequestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ResultCode": 1, "ResultDesc": "Failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Success"})
}

// ackInvalid swallows malformed payloads with a 200 so the gateway does not
// retry them forever.
func (h *MpesaWebhookHandler) ackInvalid(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Invalid callback received"})
}
