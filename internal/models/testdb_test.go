package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database with the full schema.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	db := Wrap(gormDB)
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// createTestUser persists a user with a hashed password.
func createTestUser(t *testing.T, db *DB, username string) *User {
	t.Helper()

	user := &User{Username: username, Email: username + "@example.com"}
	if err := user.SetPassword("New_Password!"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Users.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// createTestCompany persists a company with its three ledgers, owned by
// the given admin.
func createTestCompany(t *testing.T, db *DB, name string, admin *User) *Company {
	t.Helper()

	receivable := &GeneralLedgerCode{Name: "Accounts Receivable"}
	payable := &GeneralLedgerCode{Name: "Accounts Payable"}
	companyGL := &GeneralLedgerCode{Name: name}
	for _, gl := range []*GeneralLedgerCode{receivable, payable, companyGL} {
		if err := db.Ledgers.Create(gl); err != nil {
			t.Fatalf("failed to create ledger: %v", err)
		}
	}

	company := &Company{
		BusinessName:           name,
		GLCodeID:               companyGL.ID,
		AccountsPayableGLID:    payable.ID,
		AccountsReceivableGLID: receivable.ID,
	}
	if err := db.Companies.Create(company); err != nil {
		t.Fatalf("failed to create company: %v", err)
	}
	if admin != nil {
		if err := db.Companies.AddAdmin(company, admin); err != nil {
			t.Fatalf("failed to add admin: %v", err)
		}
	}
	return company
}

// createTestBuilding persists a building with its own ledger inside the
// company.
func createTestBuilding(t *testing.T, db *DB, company *Company, name string) *Building {
	t.Helper()

	gl := &GeneralLedgerCode{Name: name, Description: name + " general ledger"}
	if err := db.Ledgers.Create(gl); err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}

	building := &Building{
		CompanyID: company.ID,
		Name:      name,
		GLCodeID:  gl.ID,
	}
	if err := db.Buildings.Create(building); err != nil {
		t.Fatalf("failed to create building: %v", err)
	}
	return building
}
