package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the generic response wrapper. Client-facing flow
// messages ride in Message; internal faults in Error.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OTPEnvelope wraps login/resend responses. The issued code is echoed for
// development convenience, matching the original client contract.
type OTPEnvelope struct {
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

// SessionEnvelope wraps successful verify responses.
type SessionEnvelope struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    interface{} `json:"user,omitempty"`
}

// UserEnvelope wraps registration responses.
type UserEnvelope struct {
	Message string      `json:"message"`
	User    interface{} `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes a client-facing flow message; these strings are part
// of the API contract.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
