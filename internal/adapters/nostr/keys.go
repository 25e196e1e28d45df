package nostr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

const (
	secretKeyPrefix = "nsec"
	publicKeyPrefix = "npub"
)

type KeyResolver struct{}

var _ ports.IdentityResolver = KeyResolver{}

func NewKeyResolver() KeyResolver {
	return KeyResolver{}
}

// Resolve derives the identity of a private key given either as an nsec
// bech32 string or as 64 hex characters.
func (KeyResolver) Resolve(privateKey string) (domain.KeyPair, error) {
	secret, err := decodeSecretKey(strings.TrimSpace(privateKey))
	if err != nil {
		return domain.KeyPair{}, err
	}

	priv, _ := btcec.PrivKeyFromBytes(secret)
	pub := schnorr.SerializePubKey(priv.PubKey())

	npub, err := bech32.EncodeFromBase256(publicKeyPrefix, pub)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("failed to encode npub: %w", err)
	}

	return domain.KeyPair{
		Identity: domain.Identity(hex.EncodeToString(pub)),
		Npub:     npub,
	}, nil
}

// NewSecretKey returns a fresh nsec encoded private key.
func NewSecretKey() (string, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return bech32.EncodeFromBase256(secretKeyPrefix, priv.Serialize())
}

// DecodePublicKey returns the hex identity behind an npub string.
func DecodePublicKey(npub string) (domain.Identity, error) {
	hrp, data, err := bech32.DecodeToBase256(strings.TrimSpace(npub))
	if err != nil || hrp != publicKeyPrefix || len(data) != 32 {
		return "", fmt.Errorf("%w: not an npub", domain.ErrInvalidKey)
	}
	if _, err := schnorr.ParsePubKey(data); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidKey, err)
	}
	return domain.Identity(hex.EncodeToString(data)), nil
}

func decodeSecretKey(s string) ([]byte, error) {
	var (
		raw []byte
		err error
	)

	if strings.HasPrefix(strings.ToLower(s), secretKeyPrefix+"1") {
		var hrp string
		hrp, raw, err = bech32.DecodeToBase256(s)
		if err != nil || hrp != secretKeyPrefix {
			return nil, fmt.Errorf("%w: bad nsec encoding", domain.ErrInvalidKey)
		}
	} else {
		raw, err = hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: expected nsec or hex", domain.ErrInvalidKey)
		}
	}

	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: expected 32 bytes, got %d", domain.ErrInvalidKey, len(raw))
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: out of range", domain.ErrInvalidKey)
	}
	return raw, nil
}
