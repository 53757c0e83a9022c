package daraja

import "fmt"

// AuthError means the OAuth client-credential exchange was rejected by the
// gateway. Message carries the gateway's errorMessage when present, else the
// HTTP status text.
type AuthError struct {
	Status  string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to get access token: %s", e.Message)
}

// RequestError means an STK push or query submission was rejected.
type RequestError struct {
	Op      string // "stkpush" or "stkquery"
	Status  string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// gatewayError is the JSON error body Daraja returns on non-2xx responses.
type gatewayError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}
