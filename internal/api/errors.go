package api

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/hcskit/client-go/internal/apierrors"
)

const maxErrorMessage = 200

// portalError is the error envelope the portal uses on failing calls.
type portalError struct {
	IsError    bool   `json:"isError"`
	StatusCode int    `json:"statusCode"`
	ErrorCode  int    `json:"errorCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

func parseErrorResponse(status int, body []byte) error {
	var pe portalError
	if err := json.Unmarshal(body, &pe); err == nil {
		msg := pe.Message
		if msg == "" {
			msg = pe.Error
		}
		if msg != "" || pe.ErrorCode != 0 {
			return &apierrors.APIError{
				StatusCode: status,
				Message:    msg,
				ErrorCode:  pe.ErrorCode,
			}
		}
	}

	return &apierrors.APIError{
		StatusCode: status,
		Message:    truncate(strings.TrimSpace(string(body)), maxErrorMessage),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
