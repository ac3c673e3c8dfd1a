package localization

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/merchantkit/payment-stripe/internal/domain/errors"
	"github.com/rs/zerolog"
)

// Repository persists locale string resources by name.
type Repository interface {
	Get(ctx context.Context, name string) (string, error)
	Upsert(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}

// Service resolves and manages locale string resources.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetResource returns the resource value, falling back to the name itself
// when the resource is missing so callers never render an empty string.
func (s *Service) GetResource(ctx context.Context, name string) string {
	value, err := s.repo.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrResourceNotFound) {
			s.logger.Warn().Err(err).Str("resource", name).Msg("locale resource lookup failed")
		}
		return name
	}
	return value
}

// AddOrUpdate installs or replaces one resource.
func (s *Service) AddOrUpdate(ctx context.Context, name, value string) error {
	if err := s.repo.Upsert(ctx, name, value); err != nil {
		return fmt.Errorf("upsert locale resource %s: %w", name, err)
	}
	return nil
}

// Delete removes one resource. Missing resources are not an error: uninstall
// must be idempotent.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil && !errors.Is(err, domainErrors.ErrResourceNotFound) {
		return fmt.Errorf("delete locale resource %s: %w", name, err)
	}
	return nil
}

// InstallResources installs a batch of resources.
func (s *Service) InstallResources(ctx context.Context, resources map[string]string) error {
	for name, value := range resources {
		if err := s.AddOrUpdate(ctx, name, value); err != nil {
			return err
		}
	}
	return nil
}

// DeleteResources removes a batch of resources.
func (s *Service) DeleteResources(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := s.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
