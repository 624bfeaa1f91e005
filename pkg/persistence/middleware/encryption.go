package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

var (
	// ErrInvalidKey is returned for keys that are not KeySize bytes long.
	ErrInvalidKey = errors.New("encryption key must be 32 bytes (AES-256)")
	// ErrNotSealed is returned when a stored state carries no encrypted payload.
	ErrNotSealed = errors.New("state is missing encrypted data envelope")
)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	ActiveKey []byte

	// FallbackKeys are tried, in order, when the active key cannot decrypt.
	// This enables key rotation without rewriting every session.
	FallbackKeys [][]byte
}

// sealer holds one AEAD per key. The first one seals; all of them are
// tried, in order, when opening.
type sealer struct {
	aeads []cipher.AEAD
}

func newSealer(config EncryptionConfig) (*sealer, error) {
	keys := append([][]byte{config.ActiveKey}, config.FallbackKeys...)
	s := &sealer{aeads: make([]cipher.AEAD, 0, len(keys))}
	for i, key := range keys {
		if len(key) != KeySize {
			if i == 0 {
				return nil, ErrInvalidKey
			}
			return nil, fmt.Errorf("fallback key %d: %w", i-1, ErrInvalidKey)
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		s.aeads = append(s.aeads, aead)
	}
	return s, nil
}

// seal returns nonce || ciphertext.
func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	aead := s.aeads[0]
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *sealer) open(sealed []byte) ([]byte, error) {
	for _, aead := range s.aeads {
		if len(sealed) < aead.NonceSize() {
			return nil, errors.New("ciphertext too short")
		}
		nonce, body := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
		if plain, err := aead.Open(nil, nonce, body, nil); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

type encryptedStore struct {
	next   ports.StateStore
	sealer *sealer
}

// NewEncryptionMiddleware creates a middleware that seals every state with
// AES-GCM. The underlying store only sees the session ID, the update time
// and the ciphertext.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	s, err := newSealer(config)
	if err != nil {
		return nil, err
	}
	return func(next ports.StateStore) ports.StateStore {
		return &encryptedStore{next: next, sealer: s}
	}, nil
}

func (m *encryptedStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	plain, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	sealed, err := m.sealer.seal(plain)
	if err != nil {
		return fmt.Errorf("failed to encrypt state: %w", err)
	}

	envelope := domain.NewState(state.SessionID)
	envelope.UpdatedAt = state.UpdatedAt
	envelope.Sealed = base64.StdEncoding.EncodeToString(sealed)
	return m.next.Save(ctx, sessionID, envelope)
}

func (m *encryptedStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	envelope, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if envelope.Sealed == "" {
		// Plain states written before encryption was enabled are refused.
		return nil, ErrNotSealed
	}

	sealed, err := base64.StdEncoding.DecodeString(envelope.Sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plain, err := m.sealer.open(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt state: %w", err)
	}

	var state domain.State
	if err := json.Unmarshal(plain, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted state: %w", err)
	}
	if state.History == nil {
		state.History = domain.History{}
	}
	return &state, nil
}

func (m *encryptedStore) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *encryptedStore) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// ParseKey decodes a base64 encoded AES-256 key.
func ParseKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}
