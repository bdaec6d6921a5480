package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"rentalapp/internal/models"
)

func TestCreateBuildingNoCompany(t *testing.T) {
	r, db := setupRouter(t)
	user, token := registerUser(t, r, db, "New_User")

	code, body := doJSON(t, r, http.MethodPost, "/buildings/no-company/new-building", token, gin.H{
		"name":       "Test",
		"build_year": "1970-01-01",
		"notes":      []gin.H{{"note": "first walkthrough scheduled"}},
	})
	if code != http.StatusCreated {
		t.Fatalf("creation returned %d: %v", code, body)
	}
	if body["name"] != "Test" {
		t.Errorf("name = %v, want Test", body["name"])
	}
	if body["build_year"] != "1970-01-01" {
		t.Errorf("build_year = %v, want 1970-01-01", body["build_year"])
	}
	notes, _ := body["notes"].([]interface{})
	if len(notes) != 1 {
		t.Errorf("got %d notes, want 1", len(notes))
	}

	// A container company was created with the caller as admin.
	buildingID := int64(body["id"].(float64))
	building, err := db.Buildings.Get(buildingID)
	if err != nil {
		t.Fatalf("failed to load building: %v", err)
	}
	company, err := db.Companies.Get(building.CompanyID)
	if err != nil {
		t.Fatalf("failed to load container company: %v", err)
	}
	if company.BusinessName != "Rental Business" {
		t.Errorf("container company named %q, want Rental Business", company.BusinessName)
	}
	isAdmin, err := db.Companies.IsAdmin(company.ID, user.ID)
	if err != nil || !isAdmin {
		t.Errorf("caller is not admin of the container company (err=%v)", err)
	}
}

func TestCreateBuildingWithCompany(t *testing.T) {
	r, db := setupRouter(t)
	_, adminToken := registerUser(t, r, db, "New_User")
	_, strangerToken := registerUser(t, r, db, "Other_User")
	companyID := createCompanyFor(t, r, adminToken, "Rentals LLC")

	path := fmt.Sprintf("/buildings/%d/new-building", companyID)

	code, body := doJSON(t, r, http.MethodPost, path, adminToken, gin.H{"name": "Test"})
	if code != http.StatusCreated {
		t.Fatalf("creation returned %d: %v", code, body)
	}

	// Non-admins get the uniform rejection.
	code, body = doJSON(t, r, http.MethodPost, path, strangerToken, gin.H{"name": "Test"})
	if code != http.StatusBadRequest {
		t.Fatalf("stranger creation returned %d: %v", code, body)
	}
	if body["invite-error"] != "invalid invite permissions for requested company" {
		t.Errorf("unexpected rejection: %v", body)
	}

	// A missing company produces the exact same shape.
	code, missing := doJSON(t, r, http.MethodPost, "/buildings/99999/new-building", adminToken, gin.H{"name": "Test"})
	if code != http.StatusBadRequest {
		t.Fatalf("missing-company creation returned %d", code)
	}
	if missing["invite-error"] != body["invite-error"] {
		t.Errorf("missing company and missing role rejections differ: %v vs %v", missing, body)
	}
}

func TestCreateBuildingValidation(t *testing.T) {
	r, db := setupRouter(t)
	_, token := registerUser(t, r, db, "New_User")

	code, body := doJSON(t, r, http.MethodPost, "/buildings/no-company/new-building", token, gin.H{
		"name":       "",
		"build_year": "01/01/1970",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("invalid creation returned %d: %v", code, body)
	}
	errs, _ := body["building-errors"].(map[string]interface{})
	if _, ok := errs["name"]; !ok {
		t.Errorf("missing name error: %v", errs)
	}
	if _, ok := errs["build_year"]; !ok {
		t.Errorf("missing build_year error: %v", errs)
	}
}

func setupBuildingForUpdate(t *testing.T) (*gin.Engine, *models.DB, string, int64) {
	t.Helper()
	r, db := setupRouter(t)
	_, token := registerUser(t, r, db, "New_User")

	code, body := doJSON(t, r, http.MethodPost, "/buildings/no-company/new-building", token, gin.H{
		"name":       "Test",
		"build_year": "1970-01-01",
	})
	if code != http.StatusCreated {
		t.Fatalf("creation returned %d: %v", code, body)
	}
	return r, db, token, int64(body["id"].(float64))
}

func TestUpdateBuildingRecordsChanges(t *testing.T) {
	r, db, token, buildingID := setupBuildingForUpdate(t)

	path := fmt.Sprintf("/buildings/%d/update", buildingID)
	code, body := doRawJSON(t, r, http.MethodPatch, path, token,
		`{"name": "Testing", "build_year": "1950-01-01"}`)
	if code != http.StatusOK {
		t.Fatalf("update returned %d: %v", code, body)
	}
	if body["name"] != "Testing" || body["build_year"] != "1950-01-01" {
		t.Errorf("unexpected update response: %v", body)
	}

	rows, err := db.ChangeLogs.ForModel(models.RefBuildings, buildingID)
	if err != nil {
		t.Fatalf("ForModel: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d change-log rows, want 2", len(rows))
	}
	if rows[0].FieldName != "name" || rows[0].PreviousValue != "Test" {
		t.Errorf("row 0 = {%s %q}, want {name \"Test\"}", rows[0].FieldName, rows[0].PreviousValue)
	}
	if rows[1].FieldName != "build_year" || rows[1].PreviousValue != "1970-01-01" {
		t.Errorf("row 1 = {%s %q}, want {build_year \"1970-01-01\"}", rows[1].FieldName, rows[1].PreviousValue)
	}
}

// Submission order drives row order, so reversing the fields reverses
// the log.
func TestUpdateBuildingPreservesSubmissionOrder(t *testing.T) {
	r, db, token, buildingID := setupBuildingForUpdate(t)

	path := fmt.Sprintf("/buildings/%d/update", buildingID)
	code, body := doRawJSON(t, r, http.MethodPatch, path, token,
		`{"build_year": "1950-01-01", "name": "Testing"}`)
	if code != http.StatusOK {
		t.Fatalf("update returned %d: %v", code, body)
	}

	rows, err := db.ChangeLogs.ForModel(models.RefBuildings, buildingID)
	if err != nil {
		t.Fatalf("ForModel: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d change-log rows, want 2", len(rows))
	}
	if rows[0].FieldName != "build_year" || rows[1].FieldName != "name" {
		t.Errorf("rows ordered %s, %s; want build_year, name", rows[0].FieldName, rows[1].FieldName)
	}
}

func TestUpdateBuildingSkipsNoOps(t *testing.T) {
	r, db, token, buildingID := setupBuildingForUpdate(t)

	path := fmt.Sprintf("/buildings/%d/update", buildingID)
	code, body := doRawJSON(t, r, http.MethodPatch, path, token, `{"name": "Test"}`)
	if code != http.StatusOK {
		t.Fatalf("update returned %d: %v", code, body)
	}

	rows, err := db.ChangeLogs.ForModel(models.RefBuildings, buildingID)
	if err != nil {
		t.Fatalf("ForModel: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("no-op update produced %d change-log rows", len(rows))
	}
}

func TestUpdateBuildingPermissions(t *testing.T) {
	r, db, adminToken, buildingID := setupBuildingForUpdate(t)
	demoted, demotedToken := registerUser(t, r, db, "Demoted_User")

	building, err := db.Buildings.Get(buildingID)
	if err != nil {
		t.Fatalf("failed to load building: %v", err)
	}
	company, err := db.Companies.Get(building.CompanyID)
	if err != nil {
		t.Fatalf("failed to load company: %v", err)
	}

	// Company admin demoted to building viewer loses the inherited
	// mutation right.
	if err := db.Companies.AddAdmin(company, demoted); err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}
	if err := db.Buildings.AddViewer(building, demoted); err != nil {
		t.Fatalf("AddViewer: %v", err)
	}

	path := fmt.Sprintf("/buildings/%d/update", buildingID)
	code, body := doRawJSON(t, r, http.MethodPatch, path, demotedToken, `{"name": "Hijacked"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("demoted update returned %d: %v", code, body)
	}
	if body["invite-error"] != "invalid invite permissions for requested building" {
		t.Errorf("unexpected rejection: %v", body)
	}

	// An explicit building admin grant wins even for the demoted user.
	if err := db.Buildings.AddAdmin(building, demoted); err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}
	code, body = doRawJSON(t, r, http.MethodPatch, path, demotedToken, `{"name": "Renamed"}`)
	if code != http.StatusOK {
		t.Fatalf("building-admin update returned %d: %v", code, body)
	}

	// A missing building rejects with the same shape the demotion got.
	code, body = doRawJSON(t, r, http.MethodPatch, "/buildings/99999/update", adminToken, `{"name": "X"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("missing-building update returned %d: %v", code, body)
	}
	if body["invite-error"] != "invalid invite permissions for requested building" {
		t.Errorf("unexpected rejection: %v", body)
	}
}
