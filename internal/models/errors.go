package models

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when a sync is requested before mailbox credentials exist
var ErrNotConfigured = errors.New("mailbox not configured, use /api/gmail/configure first")

// ConnectionError reports a failure to establish or use the mailbox session
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mailbox %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// MessageError reports a failure confined to a single message of a batch
type MessageError struct {
	SourceID string
	Err      error
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("message %s: %v", e.SourceID, e.Err)
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// ValidationError reports a malformed request parameter
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
