package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imani/internal/domain"
	"imani/internal/models"

	"github.com/gin-gonic/gin"
)

func webhookRouter(f *fixture) *gin.Engine {
	r := gin.New()
	r.POST("/mpesa/callback", NewMpesaWebhookHandler(f.donationSvc).Handle)
	return r
}

func postCallback(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mpesa/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func successCallback(checkoutID, receipt string) string {
	return fmt.Sprintf(`{
	  "Body": {
	    "stkCallback": {
	      "MerchantRequestID": "mr_%s",
	      "CheckoutRequestID": "%s",
	      "ResultCode": 0,
	      "ResultDesc": "The service request is processed successfully.",
	      "CallbackMetadata": {
	        "Item": [
	          {"Name": "Amount", "Value": 100.0},
	          {"Name": "MpesaReceiptNumber", "Value": "%s"},
	          {"Name": "TransactionDate", "Value": 20240115103045},
	          {"Name": "PhoneNumber", "Value": 254712345678}
	        ]
	      }
	    }
	  }
	}`, checkoutID, checkoutID, receipt)
}

func failureCallback(checkoutID string, code int) string {
	return fmt.Sprintf(`{
	  "Body": {
	    "stkCallback": {
	      "MerchantRequestID": "mr_%s",
	      "CheckoutRequestID": "%s",
	      "ResultCode": %d,
	      "ResultDesc": "Request cancelled by user"
	    }
	  }
	}`, checkoutID, checkoutID, code)
}

func ackBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response body: %v", err)
	}
	return out
}

func TestWebhookSuccessCompletesDonation(t *testing.T) {
	f := newFixture(t)
	cause := &models.Cause{Title: "School Fees", Description: "desc", GoalAmount: 10000, Active: true}
	if err := f.causeRepo.Create(cause); err != nil {
		t.Fatal(err)
	}
	f.pending(t, "ws_001", 100, &cause.ID)
	r := webhookRouter(f)

	w := postCallback(r, successCallback("ws_001", "QAX12B3C4D"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if out := ackBody(t, w); out["ResultCode"] != float64(0) {
		t.Errorf("ResultCode = %v", out["ResultCode"])
	}

	d, err := f.donationRepo.GetByCheckoutID("ws_001")
	if err != nil {
		t.Fatal(err)
	}
	if d.Status != domain.DonationStatusCompleted {
		t.Errorf("status = %q", d.Status)
	}
	if d.ReceiptNumber != "QAX12B3C4D" {
		t.Errorf("receipt = %q", d.ReceiptNumber)
	}

	got, err := f.causeRepo.GetByID(cause.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentAmount != 100 {
		t.Errorf("cause roll-up = %d", got.CurrentAmount)
	}

	evts := f.events(t, "ws_001")
	if len(evts) != 1 || evts[0].Event != domain.EventCallbackCompleted {
		t.Errorf("events = %+v", evts)
	}
}

func TestWebhookFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	f.pending(t, "ws_002", 50, nil)
	r := webhookRouter(f)

	w := postCallback(r, failureCallback("ws_002", 1032))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	d, _ := f.donationRepo.GetByCheckoutID("ws_002")
	if d.Status != domain.DonationStatusFailed {
		t.Errorf("status = %q", d.Status)
	}
	evts := f.events(t, "ws_002")
	if len(evts) != 1 || evts[0].Event != domain.EventCallbackFailed {
		t.Errorf("events = %+v", evts)
	}
}

func TestWebhookMalformedBodyAcknowledged(t *testing.T) {
	f := newFixture(t)
	f.pending(t, "ws_003", 75, nil)
	r := webhookRouter(f)

	for _, body := range []string{"not json", "{}", `{"Body":{}}`} {
		w := postCallback(r, body)
		if w.Code != http.StatusOK {
			t.Errorf("body %q: status = %d, want 200", body, w.Code)
		}
	}

	d, _ := f.donationRepo.GetByCheckoutID("ws_003")
	if d.Status != domain.DonationStatusPending {
		t.Errorf("malformed callback mutated record: %q", d.Status)
	}
}

func TestWebhookDuplicateAcknowledgedWithoutMutation(t *testing.T) {
	f := newFixture(t)
	f.pending(t, "ws_004", 100, nil)
	r := webhookRouter(f)

	if w := postCallback(r, successCallback("ws_004", "RCPT1")); w.Code != http.StatusOK {
		t.Fatalf("first callback status = %d", w.Code)
	}
	// Redelivery with a different receipt must not touch the record.
	if w := postCallback(r, successCallback("ws_004", "RCPT2")); w.Code != http.StatusOK {
		t.Fatalf("duplicate callback status = %d", w.Code)
	}

	d, _ := f.donationRepo.GetByCheckoutID("ws_004")
	if d.ReceiptNumber != "RCPT1" {
		t.Errorf("receipt = %q, duplicate overwrote", d.ReceiptNumber)
	}
	var ignored bool
	for _, e := range f.events(t, "ws_004") {
		if e.Event == domain.EventCallbackIgnored {
			ignored = true
		}
	}
	if !ignored {
		t.Error("duplicate delivery not recorded as ignored")
	}
}

func TestWebhookOrphanAcknowledgedAndRecorded(t *testing.T) {
	f := newFixture(t)
	r := webhookRouter(f)

	w := postCallback(r, successCallback("ws_unknown", "RCPT"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	evts := f.events(t, "ws_unknown")
	if len(evts) != 1 || evts[0].Event != domain.EventCallbackOrphaned {
		t.Errorf("events = %+v", evts)
	}
	if evts[0].DonationID != nil {
		t.Error("orphan event should not reference a donation")
	}
}
