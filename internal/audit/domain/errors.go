package domain

import (
	"github.com/allisson/docgate/internal/errors"
)

var (
	// ErrSignatureInvalid indicates an audit entry signature does not match its
	// content, meaning the entry was tampered with or signed under another key.
	ErrSignatureInvalid = errors.New("audit entry signature is invalid")
)
