package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/osvaldn/indexer-gateway/internal/models"
	"github.com/osvaldn/indexer-gateway/internal/repository"
	"github.com/osvaldn/indexer-gateway/internal/storage"
)

// TenantService is the provisioning surface the control plane calls. Every
// mutation publishes on the redis invalidation channel so the directory
// refresher picks up the change immediately instead of on the next poll.
type TenantService struct {
	repo  *repository.TenantRepository
	redis *storage.RedisClient
}

func NewTenantService(repo *repository.TenantRepository, redis *storage.RedisClient) *TenantService {
	return &TenantService{
		repo:  repo,
		redis: redis,
	}
}

// Create mints a credential for a tenant and stores only its hash. The
// plaintext key is returned once and never recoverable afterwards.
func (s *TenantService) Create(ctx context.Context, name, network string, pruned bool, tier string) (string, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("failed to generate random key: %w", err)
	}

	key := "idx_" + base64.URLEncoding.EncodeToString(keyBytes)

	hash := sha256.Sum256([]byte(key))
	tenant := models.Tenant{
		Name:     name,
		KeyHash:  hex.EncodeToString(hash[:]),
		Network:  network,
		Pruned:   pruned,
		Tier:     tier,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, &tenant); err != nil {
		return "", fmt.Errorf("failed to create tenant: %w", err)
	}

	s.invalidate(ctx)

	return key, nil
}

func (s *TenantService) List(ctx context.Context) ([]models.Tenant, error) {
	return s.repo.List(ctx)
}

// Deactivate revokes a tenant's key. The row stays for audit.
func (s *TenantService) Deactivate(ctx context.Context, id string) error {
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tenant == nil {
		return fmt.Errorf("tenant %s not found", id)
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *TenantService) invalidate(ctx context.Context) {
	if err := s.redis.PublishInvalidation(ctx); err != nil {
		// The poll interval will pick the change up anyway.
		log.WithError(err).Warn("failed to publish tenant invalidation")
	}
}
