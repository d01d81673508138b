package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/dto"
	"github.com/payorbit/wallet-panel-api/internal/session"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// AuthService exchanges panel credentials for an upstream token, resolves the
// identity it carries, and hands the caller an opaque session key. The
// upstream token itself never leaves the server.
type AuthService struct {
	client     *upstream.Client
	store      tokenstore.Store
	resolver   *session.Resolver
	validate   *validator.Validate
	logger     *zap.Logger
	sessionTTL time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(client *upstream.Client, store tokenstore.Store, resolver *session.Resolver, logger *zap.Logger, ttl time.Duration) *AuthService {
	return &AuthService{
		client:     client,
		store:      store,
		resolver:   resolver,
		validate:   validator.New(),
		logger:     logger,
		sessionTTL: ttl,
	}
}

// loginData is the upstream login response payload.
type loginData struct {
	Token string `json:"token"`
}

// Login authenticates against the role-specific upstream endpoint. The token
// the upstream returns must resolve to the same role the user asked for; a
// token for the other role is rejected and never stored.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	ep := upstream.ForRole(req.Role)

	var data loginData
	msg, err := s.client.Post(ctx, "", ep.Login(), ep.LoginPayload(req.Email, req.Password), &data)
	if err != nil {
		return nil, err
	}
	if data.Token == "" {
		if msg == "" {
			msg = "login succeeded but no token was issued"
		}
		return nil, appErrors.Clone(appErrors.ErrUpstream, msg)
	}

	sess, err := s.resolver.Resolve(data.Token)
	if err != nil {
		return nil, err
	}
	if sess.Role != req.Role {
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, "credentials belong to a different role")
	}
	sess.Email = req.Email

	key := uuid.NewString()
	creds := tokenstore.Credentials{Token: data.Token, Role: sess.Role, Email: req.Email}
	if err := s.store.Save(ctx, key, creds, s.sessionTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist session credentials")
	}

	s.logger.Info("login succeeded",
		zap.String("role", string(sess.Role)),
		zap.String("actor_id", sess.ActorID),
	)

	return &dto.LoginResponse{SessionKey: key, Session: sess}, nil
}

// Logout clears the credential slot. Clearing an already-absent slot is not
// an error.
func (s *AuthService) Logout(ctx context.Context, key string) error {
	if err := s.store.Clear(ctx, key); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "clear session credentials")
	}
	return nil
}
