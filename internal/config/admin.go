// Package config - admin.go provides admin credential verification for the
// analytics endpoints.
package config

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// AdminConfig holds the bcrypt hash of the admin password.
type AdminConfig struct {
	PasswordHash string
}

// NewAdminConfig creates an admin configuration from environment variables.
// It reads ADMIN_PASSWORD_HASH, a bcrypt hash of the admin password.
func NewAdminConfig() (*AdminConfig, error) {
	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required but not set")
	}
	return &AdminConfig{PasswordHash: hash}, nil
}

// VerifyPassword checks a candidate password against the stored hash.
func (c *AdminConfig) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// HashPassword hashes a password for use as ADMIN_PASSWORD_HASH. Exposed for
// the hash-password CLI helper.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
