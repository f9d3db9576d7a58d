// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidSecret   = errors.New("invalid cron secret")
)

// NewID returns a random UUID string used as a primary key
func NewID() string {
	return uuid.NewString()
}

// ValidateAdminKey checks the provided key against the configured one in
// constant time. An empty configured key never validates.
func ValidateAdminKey(provided, expected string) error {
	if expected == "" || !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// ValidateCronSecret accepts either the raw secret or "Bearer <secret>"
func ValidateCronSecret(provided, expected string) error {
	provided = strings.TrimSpace(strings.TrimPrefix(provided, "Bearer "))
	if expected == "" || !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidSecret
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}

// NormalizeEmail lowercases and trims an address for storage and comparison
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
