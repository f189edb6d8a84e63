// Package nips wraps the NIP-19 bech32 identifiers used for user input and links.
package nips

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

// ErrInvalidIdentity is returned when user input is not a usable public key identifier
var ErrInvalidIdentity = errors.New("invalid identity")

// DecodePubkey converts an npub (or nprofile, or raw 64-char hex key) into a hex pubkey.
// A leading "nostr:" URI scheme is ignored.
func DecodePubkey(encoded string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(encoded))
	s = strings.TrimPrefix(s, "nostr:")
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidIdentity)
	}

	if IsHexKey(s) {
		return s, nil
	}

	prefix, value, err := nip19.Decode(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}

	var pubkey string
	switch v := value.(type) {
	case string:
		if prefix != "npub" {
			return "", fmt.Errorf("%w: expected npub, got %s", ErrInvalidIdentity, prefix)
		}
		pubkey = v
	case nostr.ProfilePointer:
		pubkey = v.PublicKey
	case *nostr.ProfilePointer:
		pubkey = v.PublicKey
	default:
		return "", fmt.Errorf("%w: expected npub, got %s", ErrInvalidIdentity, prefix)
	}

	if !IsHexKey(pubkey) {
		return "", fmt.Errorf("%w: decoded key has wrong length", ErrInvalidIdentity)
	}
	return pubkey, nil
}

// EncodePubkey encodes a hex pubkey to npub format
func EncodePubkey(hexPubkey string) (string, error) {
	if !IsHexKey(hexPubkey) {
		return "", errors.New("invalid pubkey length")
	}
	return nip19.EncodePublicKey(hexPubkey)
}

// EncodeNote encodes a hex event ID to note format
func EncodeNote(hexEventID string) (string, error) {
	if !IsHexKey(hexEventID) {
		return "", errors.New("invalid event ID length")
	}
	return nip19.EncodeNote(hexEventID)
}

// IsHexKey reports whether s is a 32-byte value in lowercase or uppercase hex
func IsHexKey(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
