package models

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents an account holder.
type User struct {
	ID           int64  `gorm:"primaryKey;column:id" json:"id"`
	Username     string `gorm:"column:username;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Email        string `gorm:"column:email;index" json:"email"`
	FirstName    string `gorm:"column:first_name" json:"first_name"`
	LastName     string `gorm:"column:last_name" json:"last_name"`
	TimeStamped
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// DisplayName renders the user as "username", "username | last",
// "username | first", or "username | first last" depending on which name
// parts are set.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.FirstName == "":
		return fmt.Sprintf("%s | %s", u.Username, u.LastName)
	case u.LastName == "":
		return fmt.Sprintf("%s | %s", u.Username, u.FirstName)
	}
	return fmt.Sprintf("%s | %s %s", u.Username, u.FirstName, u.LastName)
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserManager provides ORM methods for User
type UserManager struct {
	db *gorm.DB
}

// NewUserManager creates a new UserManager instance
func NewUserManager(db *gorm.DB) *UserManager {
	return &UserManager{db: db}
}

// Create creates a new user
func (m *UserManager) Create(user *User) error {
	return m.db.Create(user).Error
}

// Get retrieves a user by ID
func (m *UserManager) Get(id int64) (*User, error) {
	var user User
	err := m.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (m *UserManager) GetByUsername(username string) (*User, error) {
	var user User
	err := m.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (m *UserManager) GetByEmail(email string) (*User, error) {
	var user User
	err := m.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether a user already holds the username.
func (m *UserManager) UsernameTaken(username string) (bool, error) {
	var count int64
	err := m.db.Model(&User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Save saves the user instance
func (u *User) Save(db *gorm.DB) error {
	return db.Save(u).Error
}
