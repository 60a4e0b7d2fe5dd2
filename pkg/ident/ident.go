package ident

import (
	"crypto/rand"
	"encoding/hex"
)

// New returns a prefixed random id, e.g. "book-9f3a61c2e0d4b875".
func New(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return prefix + "-" + hex.EncodeToString(b)
}
