package internal

import (
	"crypto/subtle"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/hackpulse/internal/ctxhelper"
	"github.com/derWhity/hackpulse/internal/log"
	"github.com/derWhity/hackpulse/internal/repos"
)

// CredentialVerifier checks a username and password pair
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// AuthService gates the admin functions behind a single session marker
type AuthService interface {
	// Login checks the credentials and stores a new session marker if they are valid
	Login(ctx context.Context, username, password string) (*SessionInfo, error)
	// IsAuthenticated checks if a session marker exists, regardless of who holds it
	IsAuthenticated(ctx context.Context) bool
	// Authorize checks if the given token matches the stored session marker
	Authorize(ctx context.Context, token string) bool
	// Logout removes the session marker. Logging out without a session is no error.
	Logout(ctx context.Context) error
}

// -- AuthService implementation ---------------------------------------------------------------------------------------

// SessionInfo is returned upon login. It contains both, the session token and the name of the user that is logged in
type SessionInfo struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
}

type authService struct {
	logger   *logrus.Entry
	sessions repos.SessionRepo
	verifier CredentialVerifier
}

// NewAuthService creates a new auth service instance storing its marker in the given session repository
func NewAuthService(sr repos.SessionRepo, verifier CredentialVerifier, logger *logrus.Entry) AuthService {
	return &authService{
		logger:   logger,
		sessions: sr,
		verifier: verifier,
	}
}

// Login checks the credentials and stores a new session marker if they are valid
func (s *authService) Login(ctx context.Context, username, password string) (*SessionInfo, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	logger := ctxhelper.LoggerOr(ctx, s.logger).WithField(log.FldUser, username)
	if !s.verifier.Verify(username, password) {
		logger.Warn("Login failed")
		return nil, ErrInvalidCredentials
	}
	sess, err := s.sessions.Create(username)
	if err != nil {
		logger.WithError(err).Error("Failed to create session")
		return nil, makeRepoError("Failed to create session", err)
	}
	logger.Info("Login successful")
	return &SessionInfo{
		Token:    sess.ID,
		UserName: sess.UserName,
	}, nil
}

// IsAuthenticated checks if a session marker exists
func (s *authService) IsAuthenticated(ctx context.Context) bool {
	_, err := s.sessions.Get()
	if err != nil && err != repos.ErrEntityNotExisting {
		ctxhelper.LoggerOr(ctx, s.logger).WithError(err).Error("Failed to retrieve session from repo")
	}
	return err == nil
}

// Authorize checks if the given token matches the stored session marker
func (s *authService) Authorize(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	sess, err := s.sessions.Get()
	if err != nil {
		if err != repos.ErrEntityNotExisting {
			ctxhelper.LoggerOr(ctx, s.logger).WithError(err).Error("Failed to retrieve session from repo")
		}
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sess.ID), []byte(token)) == 1
}

// Logout removes the session marker
func (s *authService) Logout(ctx context.Context) error {
	if err := s.sessions.Delete(); err != nil {
		ctxhelper.LoggerOr(ctx, s.logger).WithError(err).Error("Failed to delete session")
		return makeRepoError("Failed to logout. Error in the data store", err)
	}
	ctxhelper.LoggerOr(ctx, s.logger).Info("Logged out")
	return nil
}
