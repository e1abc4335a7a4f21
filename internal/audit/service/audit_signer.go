package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/docgate/internal/audit/domain"
)

type entrySigner struct{}

// NewEntrySigner creates a new HMAC-based audit entry signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation.
func NewEntrySigner() EntrySigner {
	return &entrySigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// configured key. Info parameter: "audit-entry-signing-v1" (versioned for
// future algorithm changes).
func (e *entrySigner) deriveSigningKey(key []byte) ([]byte, error) {
	info := []byte("audit-entry-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, key, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeEntry converts an audit entry to a canonical byte representation
// for signing. Format: id || actor_id || action || object_kind || object_id ||
// metadata || created_at. Uses length-prefixed encoding for variable-length
// fields to prevent ambiguity.
func (e *entrySigner) canonicalizeEntry(entry *auditDomain.AuditEntry) ([]byte, error) {
	buf := make([]byte, 0, 512)

	// UUIDs are fixed 16 bytes and need no prefix
	buf = append(buf, entry.ID[:]...)
	buf = append(buf, entry.ActorID[:]...)

	buf = appendLengthPrefixed(buf, []byte(entry.Action))
	buf = appendLengthPrefixed(buf, []byte(entry.ObjectKind))
	buf = appendLengthPrefixed(buf, []byte(entry.ObjectID))

	if entry.Metadata != nil {
		metadataBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(entry.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates an HMAC-SHA256 signature for the audit entry.
func (e *entrySigner) Sign(signingKey []byte, entry *auditDomain.AuditEntry) ([]byte, error) {
	derivedKey, err := e.deriveSigningKey(signingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(derivedKey)

	canonical, err := e.canonicalizeEntry(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize entry: %w", err)
	}

	mac := hmac.New(sha256.New, derivedKey)
	mac.Write(canonical)
	signature := mac.Sum(nil)

	return signature, nil
}

// Verify checks if the audit entry signature is valid.
// Returns nil if valid, ErrSignatureInvalid if tampered or invalid.
func (e *entrySigner) Verify(signingKey []byte, entry *auditDomain.AuditEntry) error {
	expectedSig, err := e.Sign(signingKey, entry)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(entry.Signature, expectedSig) {
		return auditDomain.ErrSignatureInvalid
	}

	return nil
}

// zero overwrites sensitive data in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
