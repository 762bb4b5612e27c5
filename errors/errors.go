package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the tracker distinguishes. Wrap
// them with fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("access denied")
	ErrConflict         = errors.New("conflict")
	ErrRetrieval        = errors.New("retrieval failed")
	ErrInternal         = errors.New("internal error")
)

// Response is the error payload the coparently API returns on rejected
// requests.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e Response) Error() string {
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}
