package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Sentinel errors for deterministic HTTP mapping.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUntrustedProvider  = errors.New("provider not trusted for account linking")
	ErrMissingProviderRef = errors.New("identity missing provider account id")
)

// Service encapsulates user orchestration.
type Service struct {
	repo      Repository
	accounts  AccountRepository
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
	trusted   map[string]struct{}
}

// NewService wires a Service. trustedProviders is the ordered list of
// providers allowed to link onto an existing email.
func NewService(repo Repository, accounts AccountRepository, logger *zap.Logger, trustedProviders []string) *Service {
	trusted := make(map[string]struct{}, len(trustedProviders))
	for _, p := range trustedProviders {
		trusted[p] = struct{}{}
	}
	return &Service{
		repo:      repo,
		accounts:  accounts,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
		trusted:   trusted,
	}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// GetByID loads one user.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// ResolveOAuthUser maps a completed OAuth exchange onto a persisted user:
// an existing provider link wins, then email-based linking across trusted
// providers, then account creation. A missing username never blocks
// creation; the field just stays unset.
func (s *Service) ResolveOAuthUser(ctx context.Context, identity OAuthIdentity) (*User, error) {
	if identity.ProviderAccountID == "" {
		return nil, ErrMissingProviderRef
	}
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	identity.Name = strings.TrimSpace(s.sanitizer.Sanitize(identity.Name))
	identity.Username = strings.TrimSpace(s.sanitizer.Sanitize(identity.Username))

	account, err := s.accounts.GetByProviderAccount(ctx, identity.Provider, identity.ProviderAccountID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		existing, err := s.repo.GetByID(ctx, account.UserID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrUserNotFound
		}
		return s.refreshUserInfo(ctx, existing, identity)
	}

	var existing *User
	if identity.Email != "" {
		existing, err = s.repo.GetByEmail(ctx, identity.Email)
		if err != nil {
			return nil, err
		}
	}

	if existing != nil {
		// Linking a new provider onto an existing email requires trust.
		if _, ok := s.trusted[identity.Provider]; !ok {
			return nil, ErrUntrustedProvider
		}
		if err := s.link(ctx, existing.ID, identity); err != nil {
			return nil, err
		}
		s.logger.Info("linked provider account",
			zap.String("provider", identity.Provider),
			zap.String("user_id", existing.ID.String()),
		)
		return s.refreshUserInfo(ctx, existing, identity)
	}

	now := time.Now().UTC()
	created := &User{
		ID:            uuid.New(),
		Email:         identity.Email,
		Name:          identity.Name,
		EmailVerified: identity.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if identity.Username != "" {
		created.Username = &identity.Username
	}
	if identity.Image != "" {
		created.Image = &identity.Image
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, err
	}
	if err := s.link(ctx, created.ID, identity); err != nil {
		return nil, err
	}
	s.logger.Info("created user from oauth profile",
		zap.String("provider", identity.Provider),
		zap.String("user_id", created.ID.String()),
	)
	return created, nil
}

func (s *Service) link(ctx context.Context, userID uuid.UUID, identity OAuthIdentity) error {
	now := time.Now().UTC()
	return s.accounts.Create(ctx, &Account{
		ID:                uuid.New(),
		UserID:            userID,
		Provider:          identity.Provider,
		ProviderAccountID: identity.ProviderAccountID,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
}

// refreshUserInfo applies update-on-link semantics: provider data refreshes
// the stored profile fields when the provider actually supplied them.
func (s *Service) refreshUserInfo(ctx context.Context, u *User, identity OAuthIdentity) (*User, error) {
	changed := false
	if identity.Name != "" && identity.Name != u.Name {
		u.Name = identity.Name
		changed = true
	}
	if identity.Username != "" && (u.Username == nil || *u.Username != identity.Username) {
		u.Username = &identity.Username
		changed = true
	}
	if identity.Image != "" && (u.Image == nil || *u.Image != identity.Image) {
		u.Image = &identity.Image
		changed = true
	}
	if identity.EmailVerified && !u.EmailVerified {
		u.EmailVerified = true
		changed = true
	}
	if !changed {
		return u, nil
	}
	u.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
