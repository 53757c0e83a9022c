package daraja

import "fmt"

// CallbackEnvelope is the inbound webhook body: { Body: { stkCallback: {...} } }.
type CallbackEnvelope struct {
	Body struct {
		StkCallback *StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

// StkCallback reports the outcome of an STK push. ResultCode 0 is success.
type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []MetadataItem `json:"Item"`
}

// MetadataItem is a name/value pair; Value may be a string (receipt number) or
// a number (amount, transaction date) depending on the item.
type MetadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// Get returns the string form of the named metadata value. A nil receiver or
// missing name yields ("", false).
func (m *CallbackMetadata) Get(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, it := range m.Item {
		if it.Name != name {
			continue
		}
		switch v := it.Value.(type) {
		case string:
			return v, true
		case float64:
			// JSON numbers arrive as float64; transaction dates and amounts
			// are integral so drop the fraction.
			return fmt.Sprintf("%.0f", v), true
		case nil:
			return "", false
		default:
			return fmt.Sprintf("%v", v), true
		}
	}
	return "", false
}
