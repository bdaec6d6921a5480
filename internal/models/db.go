package models

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection and all model managers
type DB struct {
	*gorm.DB
	Users        *UserManager
	Tokens       *AuthTokenManager
	Addresses    *AddressManager
	Ledgers      *GeneralLedgerCodeManager
	Notes        *NoteManager
	Documents    *DocumentManager
	Companies    *CompanyManager
	Invites      *CompanyInviteManager
	Buildings    *BuildingManager
	ChangeLogs   *ChangeLogManager
}

// NewDB creates a new database connection and initializes all managers
func NewDB() (*DB, error) {
	dsn := os.Getenv("DB_STRING")
	if dsn == "" {
		return nil, fmt.Errorf("DB_STRING environment variable not set")
	}

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := Wrap(gormDB)

	if err := db.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}

	return db, nil
}

// Wrap builds a DB around an existing gorm connection. Tests use this
// with an in-memory sqlite handle.
func Wrap(gormDB *gorm.DB) *DB {
	return &DB{
		DB:         gormDB,
		Users:      NewUserManager(gormDB),
		Tokens:     NewAuthTokenManager(gormDB),
		Addresses:  NewAddressManager(gormDB),
		Ledgers:    NewGeneralLedgerCodeManager(gormDB),
		Notes:      NewNoteManager(gormDB),
		Documents:  NewDocumentManager(gormDB),
		Companies:  NewCompanyManager(gormDB),
		Invites:    NewCompanyInviteManager(gormDB),
		Buildings:  NewBuildingManager(gormDB),
		ChangeLogs: NewChangeLogManager(gormDB),
	}
}

// AutoMigrate runs GORM auto-migration for all models
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&User{},
		&AuthToken{},
		&Address{},
		&Contact{},
		&GeneralLedgerCode{},
		&Note{},
		&Document{},
		&Image{},
		&Company{},
		&CompanyInvite{},
		&Building{},
		&ChangeLog{},
	)
}

// Transaction runs a function within a database transaction
func (db *DB) Transaction(fn func(*DB) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(Wrap(tx))
	})
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Exists checks if a record matching the conditions exists.
func Exists[T any](db *gorm.DB, query interface{}, args ...interface{}) (bool, error) {
	var count int64
	err := db.Model(new(T)).Where(query, args...).Count(&count).Error
	return count > 0, err
}

// Count returns the count of records matching the conditions.
func Count[T any](db *gorm.DB, query interface{}, args ...interface{}) (int64, error) {
	var count int64
	err := db.Model(new(T)).Where(query, args...).Count(&count).Error
	return count, err
}
