package service

import (
	"context"
	"errors"
	"fmt"

	"hearth/internal/auth"
)

// SessionService issues, verifies and ends cookie sessions.
type SessionService interface {
	Start(subjectID string, role auth.Role) (string, auth.Session, error)
	Verify(ctx context.Context, token string) (auth.Session, error)
	End(ctx context.Context, s auth.Session) error
}

type sessionService struct {
	tokens  *auth.TokenIssuer
	revoker auth.Revoker
}

// NewSessionService combines a token issuer with a revocation list.
func NewSessionService(tokens *auth.TokenIssuer, revoker auth.Revoker) SessionService {
	return &sessionService{tokens: tokens, revoker: revoker}
}

func (s *sessionService) Start(subjectID string, role auth.Role) (string, auth.Session, error) {
	return s.tokens.Issue(subjectID, role)
}

// Verify returns ErrUnauthorized for malformed, expired, foreign or revoked tokens.
func (s *sessionService) Verify(ctx context.Context, token string) (auth.Session, error) {
	sess, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Session{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	revoked, err := s.revoker.IsRevoked(ctx, sess.TokenID)
	if err != nil {
		return auth.Session{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return auth.Session{}, fmt.Errorf("%w: %v", ErrUnauthorized, auth.ErrRevokedToken)
	}
	return sess, nil
}

func (s *sessionService) End(ctx context.Context, sess auth.Session) error {
	if sess.TokenID == "" {
		return errors.New("session has no token id")
	}
	return s.revoker.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}
