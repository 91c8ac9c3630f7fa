// Package firebase backs the identity verifier and claims channel with
// Firebase Authentication.
package firebase

import (
	"context"
	"log/slog"
	"time"

	"pethub/config"
	"pethub/internal/domain/entity"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

const (
	claimKeyRole       = "role"
	claimKeyRoleStatus = "roleStatus"
	claimKeyEmail      = "email"
)

// Client wraps the Firebase Auth client as both the identity verifier and
// the claims channel. Every provider call is bounded by the configured
// call timeout.
type Client struct {
	auth        *auth.Client
	callTimeout time.Duration
	logger      *slog.Logger
}

// New creates a Firebase-backed identity client from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.Identity == nil {
		return nil, errors.New("identity configuration is required")
	}

	var opts []option.ClientOption
	if cfg.Identity.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Identity.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Identity.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize identity provider app")
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auth client")
	}

	return &Client{
		auth:        authClient,
		callTimeout: cfg.Identity.CallTimeout,
		logger:      logger,
	}, nil
}

// Verify validates a bearer credential and returns the verified identity.
// Role claims embedded in the credential are extracted as advisory hints;
// malformed claim values are ignored rather than rejected.
func (c *Client) Verify(ctx context.Context, bearerToken string) (*service.VerifiedIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	token, err := c.auth.VerifyIDToken(ctx, bearerToken)
	if err != nil {
		c.logger.Warn("Credential verification failed", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidCredential.WrapMessage(err.Error())
	}

	identity := &service.VerifiedIdentity{
		Subject: token.UID,
	}
	if email, ok := token.Claims[claimKeyEmail].(string); ok {
		identity.Email = email
	}
	if raw, ok := token.Claims[claimKeyRole].(string); ok {
		if role, valid := entity.ParseRole(raw); valid {
			identity.Role = &role
		}
	}
	if raw, ok := token.Claims[claimKeyRoleStatus].(string); ok {
		if status, valid := entity.ParseRoleStatus(raw); valid {
			identity.RoleStatus = &status
		}
	}

	return identity, nil
}

// SetClaims overwrites the subject's role claims while preserving any
// unrelated custom claims the subject carries.
func (c *Client) SetClaims(ctx context.Context, subject string, claims service.RoleClaims) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	record, err := c.auth.GetUser(ctx, subject)
	if err != nil {
		return errors.Wrap(err, "failed to load subject for claims update")
	}

	merged := make(map[string]any, len(record.CustomClaims)+2)
	for key, value := range record.CustomClaims {
		merged[key] = value
	}
	merged[claimKeyRole] = claims.Role.String()
	merged[claimKeyRoleStatus] = claims.RoleStatus.String()

	if err := c.auth.SetCustomUserClaims(ctx, subject, merged); err != nil {
		return errors.Wrap(err, "failed to set custom claims")
	}

	return nil
}

// GetClaims returns the subject's current role claims, or nil when the
// subject carries none.
func (c *Client) GetClaims(ctx context.Context, subject string) (*service.RoleClaims, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	record, err := c.auth.GetUser(ctx, subject)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load subject claims")
	}

	raw, ok := record.CustomClaims[claimKeyRole].(string)
	if !ok {
		return nil, nil
	}
	role, valid := entity.ParseRole(raw)
	if !valid {
		return nil, nil
	}

	claims := &service.RoleClaims{Role: role, RoleStatus: entity.RoleStatusApproved}
	if rawStatus, ok := record.CustomClaims[claimKeyRoleStatus].(string); ok {
		if status, valid := entity.ParseRoleStatus(rawStatus); valid {
			claims.RoleStatus = status
		}
	}

	return claims, nil
}
