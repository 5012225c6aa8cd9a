package permission

import (
	"context"

	"creeper-desktop/internal/domain"
)

// AlwaysGranted implements domain.PermissionChecker by reporting success.
// The host OS prompts for microphone access on first capture, so there is
// nothing to ask for up front. Replace this adapter to query the real
// authorization status.
type AlwaysGranted struct{}

// NewAlwaysGranted creates the placeholder permission checker.
func NewAlwaysGranted() domain.PermissionChecker {
	return AlwaysGranted{}
}

// RequestMicrophone always returns true.
func (AlwaysGranted) RequestMicrophone(ctx context.Context) (bool, error) {
	return true, nil
}
