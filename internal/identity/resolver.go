package identity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/givehub/givehub/pkg/lifecycle"
)

// System resolves bearer tokens to actors.
type System interface {
	// Start registers a startup hook that initializes the OIDC provider.
	Start(lc *lifecycle.Coordinator) error
	// Resolve verifies rawToken and maps its subject to a stored person.
	// Returns ErrInvalidToken on verification failure and ErrUnresolved
	// when no person record matches the token subject.
	Resolve(ctx context.Context, rawToken string) (Actor, error)
}

// Claims carries the two facts this service needs from a verified token.
type Claims struct {
	Subject string
	Roles   []string
}

// TokenVerifier abstracts token verification for the resolver.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (Claims, error)
}

type resolver struct {
	verifier  TokenVerifier
	db        *sql.DB
	adminRole string
	logger    *slog.Logger
}

// New creates an identity system backed by the configured OIDC issuer.
// Provider discovery does not run until Start is called.
func New(cfg *Config, db *sql.DB, logger *slog.Logger) System {
	return &resolver{
		verifier: &oidcVerifier{
			issuer:   cfg.Issuer,
			clientID: cfg.ClientID,
		},
		db:        db,
		adminRole: cfg.AdminRole,
		logger:    logger.With("system", "identity"),
	}
}

// NewWithVerifier creates an identity system with a custom token verifier.
func NewWithVerifier(verifier TokenVerifier, db *sql.DB, adminRole string, logger *slog.Logger) System {
	return &resolver{
		verifier:  verifier,
		db:        db,
		adminRole: adminRole,
		logger:    logger.With("system", "identity"),
	}
}

func (r *resolver) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting identity system")

	if v, ok := r.verifier.(*oidcVerifier); ok {
		lc.OnStartup(func() {
			if err := v.init(lc.Context()); err != nil {
				r.logger.Error("oidc provider discovery failed", "issuer", v.issuer, "error", err)
				return
			}
			r.logger.Info("oidc provider ready", "issuer", v.issuer)
		})
	}

	return nil
}

func (r *resolver) Resolve(ctx context.Context, rawToken string) (Actor, error) {
	if rawToken == "" {
		return Actor{}, ErrNoToken
	}

	claims, err := r.verifier.Verify(ctx, rawToken)
	if err != nil {
		return Actor{}, err
	}

	person, err := findPersonBySubject(ctx, r.db, claims.Subject)
	if err != nil {
		return Actor{}, err
	}

	return Actor{
		Person: person,
		Admin:  slices.Contains(claims.Roles, r.adminRole),
	}, nil
}

// oidcVerifier wraps go-oidc provider discovery and ID token verification.
// The provider is discovered once on startup; Verify fails with ErrNotReady
// until discovery completes.
type oidcVerifier struct {
	issuer   string
	clientID string

	mu       sync.RWMutex
	verifier *oidc.IDTokenVerifier
}

func (v *oidcVerifier) init(ctx context.Context) error {
	provider, err := oidc.NewProvider(ctx, v.issuer)
	if err != nil {
		return fmt.Errorf("discover provider %s: %w", v.issuer, err)
	}

	v.mu.Lock()
	v.verifier = provider.Verifier(&oidc.Config{ClientID: v.clientID})
	v.mu.Unlock()
	return nil
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (Claims, error) {
	v.mu.RLock()
	verifier := v.verifier
	v.mu.RUnlock()

	if verifier == nil {
		return Claims{}, ErrNotReady
	}

	token, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var payload struct {
		RealmAccess struct {
			Roles []string `json:"roles"`
		} `json:"realm_access"`
	}
	if err := token.Claims(&payload); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return Claims{
		Subject: token.Subject,
		Roles:   payload.RealmAccess.Roles,
	}, nil
}
