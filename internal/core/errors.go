package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure kinds the upload flow distinguishes.
// Malformed individual rows are not errors at all; they are skipped inside
// Validate and never surface here.
var (
	// ErrNoFile indicates the request carried no uploaded file.
	ErrNoFile = errors.New("no file provided")

	// ErrArtifactNotFound indicates an unknown audit artifact identifier.
	ErrArtifactNotFound = errors.New("audit artifact not found")
)

// DecodeError is a terminal CSV stream failure. It aborts the batch with no
// partial commit.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decoding csv stream: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// StoreError is a document store read or write failure.
type StoreError struct {
	Op  string // "load", "save" or "audit"
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// UserMessage is a client-safe error description. Code is quoted to support
// staff; the technical error stays in the server log.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// MapError converts an internal error to a user-friendly message.
func MapError(err error) UserMessage {
	var decodeErr *DecodeError
	var storeErr *StoreError

	switch {
	case errors.Is(err, ErrNoFile):
		return UserMessage{
			Code:    "FILE001",
			Message: "No file was uploaded",
			Action:  "Attach a CSV file in the \"file\" form field",
		}
	case errors.Is(err, ErrArtifactNotFound):
		return UserMessage{
			Code:    "AUD001",
			Message: "Audit log entry not found",
			Action:  "List /audit for available entries",
		}
	case errors.As(err, &decodeErr):
		return UserMessage{
			Code:    "FILE002",
			Message: "Error parsing CSV file",
			Action:  "Ensure the file is valid, comma-separated UTF-8 CSV",
		}
	case errors.As(err, &storeErr):
		return UserMessage{
			Code:    "STORE001",
			Message: "Internal server error",
			Action:  "Please try again in a few moments",
		}
	case err != nil && strings.Contains(err.Error(), "request body too large"):
		return UserMessage{
			Code:    "FILE003",
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
		}
	default:
		return UserMessage{
			Code:    "SYS001",
			Message: "Internal server error",
			Action:  "Please try again",
		}
	}
}
