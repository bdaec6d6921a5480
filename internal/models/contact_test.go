package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressBlank(t *testing.T) {
	assert.True(t, (&Address{}).Blank())
	assert.False(t, (&Address{City: "Springfield"}).Blank())
}

func TestAddressNormalize(t *testing.T) {
	a := &Address{
		Address1: "  100   Main  St ",
		City:     " Springfield ",
		State:    "IL",
		Zipcode:  " 62701 ",
	}
	a.Normalize()
	assert.Equal(t, "100 Main St", a.Address1)
	assert.Equal(t, "Springfield", a.City)
	assert.Equal(t, "62701", a.Zipcode)
}

func TestAddressString(t *testing.T) {
	a := &Address{
		Address1: "100 Main St",
		City:     "Springfield",
		State:    "IL",
		Zipcode:  "62701",
	}
	// Zipcode follows the state with a space, not a comma.
	assert.Equal(t, "100 Main St, Springfield, IL 62701", a.String())

	partial := &Address{City: "Springfield"}
	assert.Equal(t, "Springfield", partial.String())
}

func TestContactNormalize(t *testing.T) {
	c := &Contact{
		NameFirst: "  Jane ",
		NameLast:  " Smith  ",
		Email:     " jane@example.com ",
	}
	c.Normalize()
	assert.Equal(t, "Jane", c.NameFirst)
	assert.Equal(t, "Smith", c.NameLast)
	assert.Equal(t, "jane@example.com", c.Email)
}

func TestCompanyName(t *testing.T) {
	co := &Company{BusinessName: "Rentals LLC"}
	assert.Equal(t, "Rentals LLC", co.CompanyName())

	co.LegalName = "Rentals Limited Liability Company"
	assert.Equal(t, "Rentals LLC | Rentals Limited Liability Company", co.CompanyName())
}

func TestCompanyAssociations(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin_user")
	viewer := createTestUser(t, db, "viewer_user")
	company := createTestCompany(t, db, "Rentals LLC", admin)

	require.NoError(t, db.Companies.AddViewer(company, viewer))

	isAdmin, err := db.Companies.IsAdmin(company.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = db.Companies.IsAdmin(company.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	isViewer, err := db.Companies.IsViewer(company.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, isViewer)

	contact := &Contact{NameFirst: "Jane", NameLast: "Smith"}
	require.NoError(t, db.Companies.AddContact(company, contact))

	note := &Note{Note: "onboarding call done", UserID: admin.ID}
	require.NoError(t, db.Notes.Create(note))
	require.NoError(t, db.Companies.AddNote(company, note))

	full, err := db.Companies.GetFull(company.ID)
	require.NoError(t, err)
	assert.Len(t, full.Contacts, 1)
	assert.Len(t, full.Notes, 1)
	assert.Equal(t, "admin_user", full.Notes[0].User.Username)
}

func TestBuildingMemberships(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin_user")
	company := createTestCompany(t, db, "Rentals LLC", admin)
	building := createTestBuilding(t, db, company, "Test")

	isAdmin, err := db.Buildings.IsAdmin(building.ID, admin.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin, "company admin is not implicitly in the building admin set")

	require.NoError(t, db.Buildings.AddAdmin(building, admin))
	isAdmin, err = db.Buildings.IsAdmin(building.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}
