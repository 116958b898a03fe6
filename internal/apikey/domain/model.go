// Package domain defines API keys: the only credential the back
// office API accepts. Keys are stored hashed; the plaintext is shown
// once at creation.
package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// APIKey is one issued credential.
type APIKey struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index" json:"-"`

	Name    string `gorm:"type:text;not null" json:"name"`
	KeyHash string `gorm:"type:text;not null;uniqueIndex" json:"-"`
	// Prefix is the first 8 characters of the plaintext key, kept so
	// operators can tell keys apart in listings.
	Prefix string `gorm:"type:text;not null" json:"prefix"`

	IsActive  bool       `gorm:"not null;default:true" json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (APIKey) TableName() string { return "api_keys" }

// HashAPIKey derives the stored hash for a plaintext key.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// GeneratePlaintext returns a fresh random key with the wsl_ prefix.
func GeneratePlaintext() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "wsl_" + hex.EncodeToString(buf), nil
}

var (
	ErrInvalidName    = errors.New("invalid_api_key_name")
	ErrAPIKeyNotFound = errors.New("api_key_not_found")
)
