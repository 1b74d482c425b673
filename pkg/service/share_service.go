package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"imagehub/pkg/cache"
	"imagehub/pkg/logging"
	"imagehub/pkg/metrics"
	"imagehub/pkg/storage"

	"golang.org/x/crypto/bcrypt"
)

// MinValidity is the shortest accepted link lifetime.
const MinValidity = time.Second

type ShareConfig struct {
	// PublicOrigin prefixes redemption URLs: <origin>/share/<token>.
	PublicOrigin    string
	DefaultValidity time.Duration
	MaxValidity     time.Duration
	// CacheTTL caps how long a resolved record stays in the cache.
	CacheTTL time.Duration
}

type ShareService struct {
	shares   storage.ShareStorage
	images   storage.ImageStorage
	cache    cache.ShareCacheInterface
	logger   *logging.Logger
	cfg      ShareConfig
	now      func() time.Time
	newToken TokenGenerator
}

type ShareOption func(*ShareService)

func WithClock(now func() time.Time) ShareOption {
	return func(s *ShareService) { s.now = now }
}

func WithTokenGenerator(gen TokenGenerator) ShareOption {
	return func(s *ShareService) { s.newToken = gen }
}

func NewShareService(shares storage.ShareStorage, images storage.ImageStorage, cache cache.ShareCacheInterface, logger *logging.Logger, cfg ShareConfig, opts ...ShareOption) *ShareService {
	s := &ShareService{
		shares:   shares,
		images:   images,
		cache:    cache,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		newToken: GenerateToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type IssueShareRequest struct {
	// Zero selects the configured default.
	Validity time.Duration
	Passcode string
}

type ShareLink struct {
	Token       string    `json:"token"`
	URL         string    `json:"url"`
	ImageID     string    `json:"image_id"`
	HasPasscode bool      `json:"has_passcode"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	IsExpired   bool      `json:"is_expired"`
}

// SharedImage is what a share link displays.
type SharedImage struct {
	ImageURL    string    `json:"image_url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Issue creates a share link for an image owned by identity.
func (s *ShareService) Issue(ctx context.Context, identity Identity, imageID string, req IssueShareRequest) (*ShareLink, error) {
	validity, err := s.resolveValidity(req.Validity)
	if err != nil {
		return nil, err
	}

	if _, err := loadOwnedImage(ctx, s.images, identity, imageID); err != nil {
		if errors.Is(err, ErrTransient) {
			s.logger.Error(ctx, "share issuance: image lookup failed", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrIssuanceFailed, err)
		}
		return nil, err
	}

	var passcodeHash *string
	if req.Passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("%w: hash passcode: %w", ErrIssuanceFailed, err)
		}
		hashStr := string(hash)
		passcodeHash = &hashStr
	}

	// Postgres keeps microseconds; the returned expiry must match the stored one.
	now := s.now().UTC().Truncate(time.Microsecond)
	record := &storage.ShareRecord{
		Token:        s.newToken(),
		ImageID:      imageID,
		PasscodeHash: passcodeHash,
		ExpiresAt:    now.Add(validity),
		CreatedAt:    now,
		CreatedBy:    identity.UserID,
	}

	// A colliding token overwrites the earlier record.
	if err := s.shares.Create(ctx, record); err != nil {
		s.logger.LogShareOperation(ctx, "issue", record.Token, false)
		s.logger.Error(ctx, "share issuance: write failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrIssuanceFailed, err)
	}
	if err := s.cache.Delete(ctx, record.Token); err != nil {
		s.logger.Warn(ctx, "share issuance: cache invalidation failed", "error", err)
	}

	metrics.ShareIssued()
	s.logger.LogShareOperation(ctx, "issue", record.Token, true)

	return s.toLink(record, now), nil
}

// Redeem resolves token to the shared image. It never modifies the share.
func (s *ShareService) Redeem(ctx context.Context, token, passcode string) (*SharedImage, error) {
	shared, err := s.redeem(ctx, token, passcode)
	metrics.ShareRedeemed(redemptionOutcome(err))
	s.logger.LogShareOperation(ctx, "redeem", token, err == nil)
	if err != nil && errors.Is(err, ErrTransient) {
		s.logger.Error(ctx, "share redemption failed", "error", err)
	}
	return shared, err
}

func (s *ShareService) redeem(ctx context.Context, token, passcode string) (*SharedImage, error) {
	if !ValidateToken(token) {
		return nil, ErrInvalidLink
	}

	share, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	if !s.now().Before(share.ExpiresAt) {
		return nil, ErrExpiredLink
	}

	if share.HasPasscode {
		if err := s.checkPasscode(ctx, token, passcode); err != nil {
			return nil, err
		}
	}

	image, err := s.images.GetByID(ctx, share.ImageID)
	if err != nil {
		return nil, fmt.Errorf("%w: load image: %w", ErrTransient, err)
	}
	if image == nil {
		return nil, ErrResourceMissing
	}

	return &SharedImage{
		ImageURL:    image.ImageURL,
		Title:       image.Title,
		Description: image.Description,
		ExpiresAt:   share.ExpiresAt,
	}, nil
}

// resolve reads the share through the cache.
func (s *ShareService) resolve(ctx context.Context, token string) (*cache.CachedShare, error) {
	cached, err := s.cache.Get(ctx, token)
	if err != nil {
		s.logger.Warn(ctx, "share cache read failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	record, err := s.shares.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup share: %w", ErrTransient, err)
	}
	if record == nil {
		return nil, ErrInvalidLink
	}

	entry := &cache.CachedShare{
		ImageID:     record.ImageID,
		HasPasscode: record.PasscodeHash != nil,
		ExpiresAt:   record.ExpiresAt,
		CreatedAt:   record.CreatedAt,
	}

	ttl := s.cfg.CacheTTL
	if remaining := record.ExpiresAt.Sub(s.now()); remaining < ttl {
		ttl = remaining
	}
	if ttl > 0 {
		if err := s.cache.Set(ctx, token, entry, ttl); err != nil {
			s.logger.Warn(ctx, "share cache write failed", "error", err)
		}
	}

	return entry, nil
}

func (s *ShareService) checkPasscode(ctx context.Context, token, passcode string) error {
	if passcode == "" {
		return ErrPasscodeRequired
	}
	record, err := s.shares.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: lookup share: %w", ErrTransient, err)
	}
	if record == nil {
		return ErrInvalidLink
	}
	if record.PasscodeHash == nil {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*record.PasscodeHash), []byte(passcode)); err != nil {
		return ErrPasscodeRequired
	}
	return nil
}

// ListShares returns every link issued for an image owned by identity.
func (s *ShareService) ListShares(ctx context.Context, identity Identity, imageID string) ([]*ShareLink, error) {
	if _, err := loadOwnedImage(ctx, s.images, identity, imageID); err != nil {
		return nil, err
	}

	records, err := s.shares.ListByImage(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("%w: list shares: %w", ErrTransient, err)
	}

	now := s.now()
	links := make([]*ShareLink, 0, len(records))
	for _, record := range records {
		links = append(links, s.toLink(record, now))
	}
	return links, nil
}

// Revoke deletes a share issued by identity. Deletion is the only way to end
// a link before it expires.
func (s *ShareService) Revoke(ctx context.Context, identity Identity, token string) error {
	if identity.IsZero() {
		return ErrUnauthenticated
	}
	if !ValidateToken(token) {
		return ErrInvalidLink
	}

	record, err := s.shares.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: lookup share: %w", ErrTransient, err)
	}
	if record == nil {
		return ErrInvalidLink
	}
	if record.CreatedBy != identity.UserID {
		return ErrNotOwner
	}

	if err := s.shares.Delete(ctx, token); err != nil {
		s.logger.LogShareOperation(ctx, "revoke", token, false)
		return fmt.Errorf("%w: delete share: %w", ErrTransient, err)
	}
	if err := s.cache.Delete(ctx, token); err != nil {
		s.logger.Warn(ctx, "share revoke: cache invalidation failed", "error", err)
	}

	s.logger.LogShareOperation(ctx, "revoke", token, true)
	return nil
}

// PurgeExpired deletes records whose expiry has passed.
func (s *ShareService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.shares.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: purge shares: %w", ErrTransient, err)
	}
	s.logger.Info(ctx, "purged expired shares", "count", n)
	return n, nil
}

func (s *ShareService) resolveValidity(validity time.Duration) (time.Duration, error) {
	switch {
	case validity == 0:
		return s.cfg.DefaultValidity, nil
	case validity < MinValidity:
		return 0, ErrInvalidValidity
	case s.cfg.MaxValidity > 0 && validity > s.cfg.MaxValidity:
		return 0, ErrInvalidValidity
	}
	return validity, nil
}

func (s *ShareService) toLink(record *storage.ShareRecord, now time.Time) *ShareLink {
	return &ShareLink{
		Token:       record.Token,
		URL:         s.cfg.PublicOrigin + "/share/" + record.Token,
		ImageID:     record.ImageID,
		HasPasscode: record.PasscodeHash != nil,
		ExpiresAt:   record.ExpiresAt,
		CreatedAt:   record.CreatedAt,
		IsExpired:   !now.Before(record.ExpiresAt),
	}
}

func redemptionOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeRedeemed
	case errors.Is(err, ErrInvalidLink):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrExpiredLink):
		return metrics.OutcomeExpired
	case errors.Is(err, ErrResourceMissing):
		return metrics.OutcomeMissing
	case errors.Is(err, ErrPasscodeRequired):
		return metrics.OutcomePasscodeRequired
	default:
		return metrics.OutcomeError
	}
}
