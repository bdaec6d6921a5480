package models

import (
	"time"

	"gorm.io/gorm"

	"rentalapp/internal/auth"
)

// AuthToken stores the digest of an issued bearer token. The plaintext
// token is returned to the client once and never persisted.
type AuthToken struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Digest    string    `gorm:"column:digest;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}

// Expired reports whether the token is past its validity window.
func (t *AuthToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// AuthTokenManager provides ORM methods for AuthToken
type AuthTokenManager struct {
	db *gorm.DB
}

func NewAuthTokenManager(db *gorm.DB) *AuthTokenManager {
	return &AuthTokenManager{db: db}
}

// Issue creates a token row for the user and returns the plaintext token
// alongside the stored record.
func (m *AuthTokenManager) Issue(user *User) (string, *AuthToken, error) {
	plain, digest, err := auth.GenerateToken()
	if err != nil {
		return "", nil, err
	}
	token := &AuthToken{
		UserID:    user.ID,
		Digest:    digest,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
	}
	if err := m.db.Create(token).Error; err != nil {
		return "", nil, err
	}
	return plain, token, nil
}

// Resolve maps a plaintext token to its user. Expired rows are deleted on
// sight and treated as missing.
func (m *AuthTokenManager) Resolve(plain string) (*User, *AuthToken, error) {
	var token AuthToken
	err := m.db.Preload("User").Where("digest = ?", auth.Digest(plain)).First(&token).Error
	if err != nil {
		return nil, nil, err
	}
	if token.Expired() {
		m.db.Delete(&AuthToken{}, token.ID)
		return nil, nil, gorm.ErrRecordNotFound
	}
	return &token.User, &token, nil
}

// Revoke deletes a single token row.
func (m *AuthTokenManager) Revoke(id int64) error {
	return m.db.Delete(&AuthToken{}, id).Error
}

// RevokeAll deletes every token held by the user.
func (m *AuthTokenManager) RevokeAll(userID int64) error {
	return m.db.Where("user_id = ?", userID).Delete(&AuthToken{}).Error
}
