package usecase

import (
	"context"
	"fmt"

	"creeper-desktop/internal/domain"
)

// PermissionUseCase exposes the microphone capability query.
type PermissionUseCase interface {
	RequestMicPermission(ctx context.Context) (bool, error)
}

type permissionInteractor struct {
	checker domain.PermissionChecker
}

// NewPermissionUseCase wraps the given checker.
func NewPermissionUseCase(checker domain.PermissionChecker) PermissionUseCase {
	return &permissionInteractor{checker: checker}
}

func (p *permissionInteractor) RequestMicPermission(ctx context.Context) (bool, error) {
	granted, err := p.checker.RequestMicrophone(ctx)
	if err != nil {
		return false, fmt.Errorf("request microphone permission: %w", err)
	}
	return granted, nil
}
