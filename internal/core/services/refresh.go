package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
)

// RefreshService exchanges a stored refresh token for a new access
// token on demand and persists the result.
type RefreshService struct {
	creds    *CredentialService
	endpoint driven.TokenEndpoint
}

// NewRefreshService creates a refresh service.
func NewRefreshService(creds *CredentialService, endpoint driven.TokenEndpoint) *RefreshService {
	return &RefreshService{creds: creds, endpoint: endpoint}
}

// Refresh exchanges current's refresh token for a new token. A token
// without a refresh token fails immediately with
// domain.ErrReauthorizationRequired: that condition is terminal and
// user-visible, never retried. On success the new token is persisted,
// overwriting the old one, and returned.
//
// Providers may rotate refresh tokens. The reply's refresh token is
// kept when present; otherwise the previous one is carried forward.
func (s *RefreshService) Refresh(ctx context.Context, current *domain.OAuthToken) (*domain.OAuthToken, error) {
	if current == nil || !current.HasRefreshToken() {
		return nil, domain.ErrReauthorizationRequired
	}

	client, err := s.creds.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("load client credentials: %w", err)
	}

	fresh, err := s.endpoint.Refresh(ctx, client, current.RefreshToken)
	if err != nil {
		return nil, err
	}

	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}

	if err := s.creds.SaveToken(ctx, fresh); err != nil {
		return nil, fmt.Errorf("save refreshed token: %w", err)
	}

	log.Debug().Msg("access token refreshed")
	return fresh, nil
}
