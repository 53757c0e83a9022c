package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"imani/internal/domain"
	"imani/internal/models"
	"imani/internal/repository"
	"imani/pkg/daraja"

	"gorm.io/gorm"
)

// DonationService owns the payment flow: STK initiation persists a pending
// donation keyed by the gateway's checkout request id; the webhook reconciler
// later moves it to a terminal state by that same key. The two paths share no
// other state.
type DonationService struct {
	donations *repository.DonationRepository
	causes    *repository.CauseRepository
	events    *repository.PaymentEventRepository
	settings  *SettingsService
}

func NewDonationService(
	donations *repository.DonationRepository,
	causes *repository.CauseRepository,
	events *repository.PaymentEventRepository,
	settings *SettingsService,
) *DonationService {
	return &DonationService{donations: donations, causes: causes, events: events, settings: settings}
}

type InitiateRequest struct {
	Donor       string
	Anonymous   bool
	Phone       string
	Amount      float64
	CauseID     *uint
	UserID      *uint
	Reference   string
	Description string
	Message     string
}

// Initiate resolves the gateway config, submits the STK push and persists the
// pending donation. No record is created when the submission fails.
func (s *DonationService) Initiate(ctx context.Context, req InitiateRequest) (*daraja.STKPushResponse, *models.Donation, error) {
	cfg, err := s.settings.ResolveMpesa()
	if err != nil {
		return nil, nil, err
	}
	client := daraja.NewClient(cfg)
	resp, err := client.STKPush(ctx, daraja.PushRequest{
		Phone:       req.Phone,
		Amount:      req.Amount,
		Reference:   req.Reference,
		Description: req.Description,
	})
	if err != nil {
		return nil, nil, err
	}
	donor := req.Donor
	if req.Anonymous {
		donor = "Anonymous"
	}
	if donor == "" {
		donor = "M-Pesa Donor"
	}
	d := &models.Donation{
		Donor:             donor,
		Phone:             resp.NormalizedPhone,
		Amount:            resp.SubmittedAmount,
		Anonymous:         req.Anonymous,
		Status:            domain.DonationStatusPending,
		CauseID:           req.CauseID,
		UserID:            req.UserID,
		PaymentMethod:     domain.PaymentMethodMpesa,
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		Message:           req.Message,
	}
	if err := s.donations.Create(d); err != nil {
		// The push went out but we lost the record; surface it, the checkout
		// id in the error is the only handle an operator has left.
		return nil, nil, fmt.Errorf("persist pending donation %s: %w", resp.CheckoutRequestID, err)
	}
	s.appendEvent(resp.CheckoutRequestID, &d.ID, domain.EventSTKInitiated,
		fmt.Sprintf("amount=%d phone=%s", d.Amount, d.Phone))
	return resp, d, nil
}

// Reconcile applies a gateway callback to the matching donation. Orphaned and
// duplicate callbacks are absorbed (logged and recorded, nil return); only
// storage failures propagate, which makes the webhook respond 500 so the
// gateway retries.
func (s *DonationService) Reconcile(cb *daraja.StkCallback) error {
	if cb.ResultCode == 0 {
		receipt, _ := cb.CallbackMetadata.Get("MpesaReceiptNumber")
		txDate, _ := cb.CallbackMetadata.Get("TransactionDate")
		n, err := s.donations.MarkCompleted(cb.CheckoutRequestID, receipt, txDate)
		if err != nil {
			return err
		}
		if n == 0 {
			return s.recordUnmatched(cb)
		}
		d, err := s.donations.GetByCheckoutID(cb.CheckoutRequestID)
		if err != nil {
			return err
		}
		if d.CauseID != nil {
			if err := s.causes.IncrementAmount(*d.CauseID, d.Amount); err != nil {
				log.Printf("[MPESA callback] cause %d roll-up failed for %s: %v", *d.CauseID, cb.CheckoutRequestID, err)
			}
		}
		s.appendEvent(cb.CheckoutRequestID, &d.ID, domain.EventCallbackCompleted, "receipt="+receipt)
		log.Printf("[MPESA callback] donation %d completed, receipt=%s", d.ID, receipt)
		return nil
	}

	n, err := s.donations.MarkFailed(cb.CheckoutRequestID)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.recordUnmatched(cb)
	}
	d, err := s.donations.GetByCheckoutID(cb.CheckoutRequestID)
	if err != nil {
		return err
	}
	s.appendEvent(cb.CheckoutRequestID, &d.ID, domain.EventCallbackFailed,
		fmt.Sprintf("result_code=%d desc=%s", cb.ResultCode, cb.ResultDesc))
	log.Printf("[MPESA callback] donation %d failed, result_code=%d", d.ID, cb.ResultCode)
	return nil
}

// recordUnmatched handles a callback that found no pending record: either the
// checkout id is unknown (orphaned) or the record is already terminal
// (duplicate delivery). Both are acknowledged without mutation.
func (s *DonationService) recordUnmatched(cb *daraja.StkCallback) error {
	d, err := s.donations.GetByCheckoutID(cb.CheckoutRequestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[MPESA callback] no donation for checkout_request_id=%s", cb.CheckoutRequestID)
		s.appendEvent(cb.CheckoutRequestID, nil, domain.EventCallbackOrphaned,
			fmt.Sprintf("result_code=%d", cb.ResultCode))
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("[MPESA callback] donation %d already %s, ignoring duplicate for %s", d.ID, d.Status, cb.CheckoutRequestID)
	s.appendEvent(cb.CheckoutRequestID, &d.ID, domain.EventCallbackIgnored, "status="+d.Status)
	return nil
}

// CheckStatus queries the gateway for a checkout id. Advisory only; never
// mutates the donation.
func (s *DonationService) CheckStatus(ctx context.Context, checkoutRequestID string) (map[string]interface{}, error) {
	cfg, err := s.settings.ResolveMpesa()
	if err != nil {
		return nil, err
	}
	return daraja.NewClient(cfg).STKQuery(ctx, checkoutRequestID)
}

// TestConnection exercises the token exchange and returns a truncated token.
func (s *DonationService) TestConnection(ctx context.Context) (string, error) {
	cfg, err := s.settings.ResolveMpesa()
	if err != nil {
		return "", err
	}
	token, err := daraja.NewClient(cfg).AccessToken(ctx)
	if err != nil {
		return "", err
	}
	if len(token) > 10 {
		token = token[:10]
	}
	return token + "...", nil
}

// Override is the manual operator status override. It is recorded in the
// event log with the operator's email.
func (s *DonationService) Override(id uint, status, operator string) (*models.Donation, error) {
	d, err := s.donations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.donations.SetStatus(id, status); err != nil {
		return nil, err
	}
	s.appendEvent(d.CheckoutRequestID, &d.ID, domain.EventManualOverride,
		fmt.Sprintf("%s->%s by %s", d.Status, status, operator))
	return s.donations.GetByID(id)
}

// appendEvent is best-effort: the audit trail never blocks the payment flow.
func (s *DonationService) appendEvent(checkoutID string, donationID *uint, event, detail string) {
	e := &models.PaymentEvent{
		CheckoutRequestID: checkoutID,
		DonationID:        donationID,
		Event:             event,
		Detail:            detail,
	}
	if err := s.events.Append(e); err != nil {
		log.Printf("[MPESA] append event %s for %s: %v", event, checkoutID, err)
	}
}
