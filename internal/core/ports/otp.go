package ports

import (
	"context"
	"time"
)

// OTPGenerator produces time-based one-time codes for a subject.
type OTPGenerator interface {
	Generate(subjectID string) (string, error)
}

// OTPCache holds the pending code between the two login requests.
type OTPCache interface {
	// Put stores code for subjectID, replacing any live code, and lets it
	// expire after ttl.
	Put(ctx context.Context, subjectID, code string, ttl time.Duration) error

	// VerifyAndConsume deletes the stored code and returns true only when it
	// equals candidate. Missing, expired or mismatched codes return false and
	// leave the store untouched. The compare-and-delete is atomic.
	VerifyAndConsume(ctx context.Context, subjectID, candidate string) (bool, error)
}
