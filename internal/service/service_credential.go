package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// credentialService is the concrete implementation of [CredentialService].
// It keeps the metadata/reveal split: list and get never touch the vault,
// creation and reveal require a held key.
type credentialService struct {
	credentialRepository store.CredentialRepository
	vault                VaultService

	logger *logger.Logger
}

// NewCredentialService constructs a [CredentialService] over the given
// repository and vault.
func NewCredentialService(credentialRepository store.CredentialRepository, vault VaultService, logger *logger.Logger) CredentialService {
	return &credentialService{
		credentialRepository: credentialRepository,
		vault:                vault,
		logger:               logger,
	}
}

// CreateCredential seals payload under the vault key and persists the
// result. Fails [ErrVaultLocked] when the vault holds no key — a distinct
// failure from any not-found condition.
func (s *credentialService) CreateCredential(ctx context.Context, title, credentialType, projectID string, payload map[string]string) (models.Credential, error) {
	log := logger.FromContext(ctx)

	if title == "" || credentialType == "" || len(payload) == 0 {
		return models.Credential{}, ErrInvalidDataProvided
	}

	blob, err := s.vault.Seal(ctx, payload)
	if err != nil {
		return models.Credential{}, err
	}

	credential, err := s.credentialRepository.CreateCredential(ctx, models.Credential{
		CredentialID: uuid.NewString(),
		Title:        title,
		Type:         credentialType,
		ProjectID:    projectID,
		Ciphertext:   blob.Ciphertext,
		Nonce:        blob.Nonce,
		AuthTag:      blob.AuthTag,
	})
	if err != nil {
		log.Err(err).Str("title", title).Msg("credential creation failed")
		return models.Credential{}, fmt.Errorf("credential creation failed: %w", err)
	}

	return credential, nil
}

// ListCredentials returns metadata only; the sealed fields are stripped.
func (s *credentialService) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	credentials, err := s.credentialRepository.ListCredentials(ctx)
	if err != nil {
		return nil, err
	}

	for i := range credentials {
		stripSealedFields(&credentials[i])
	}
	return credentials, nil
}

// GetCredential returns one credential's metadata.
func (s *credentialService) GetCredential(ctx context.Context, credentialID string) (models.Credential, error) {
	credential, err := s.credentialRepository.FindCredentialByID(ctx, credentialID)
	if err != nil {
		return models.Credential{}, err
	}

	stripSealedFields(&credential)
	return credential, nil
}

// RevealCredential decrypts the payload on demand and returns it without
// caching. Fails [ErrVaultLocked] when no key is held, for known and
// unknown ids alike; the boundary maps that to a generic forbidden, so a
// locked vault never discloses which credentials exist.
func (s *credentialService) RevealCredential(ctx context.Context, credentialID string) (map[string]string, error) {
	// The vault gate comes before the row lookup: a locked vault answers
	// identically for known and unknown ids.
	if !s.vault.IsUnlocked() {
		return nil, ErrVaultLocked
	}

	credential, err := s.credentialRepository.FindCredentialByID(ctx, credentialID)
	if err != nil {
		return nil, err
	}

	var payload map[string]string
	err = s.vault.Open(ctx, models.SealedBlob{
		Ciphertext: credential.Ciphertext,
		Nonce:      credential.Nonce,
		AuthTag:    credential.AuthTag,
	}, &payload)
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// DeleteCredential removes the credential row.
func (s *credentialService) DeleteCredential(ctx context.Context, credentialID string) error {
	return s.credentialRepository.DeleteCredential(ctx, credentialID)
}

func stripSealedFields(c *models.Credential) {
	c.Ciphertext = ""
	c.Nonce = ""
	c.AuthTag = ""
}
