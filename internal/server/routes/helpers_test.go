package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rentalapp/internal/models"
	"rentalapp/internal/storage"
)

// testServer satisfies ServerInterface over an in-memory database. The
// blob store stays nil; handlers that touch it are exercised against a
// live bucket in the integration suite instead.
type testServer struct {
	db     *models.DB
	logger *zap.Logger
}

func (ts *testServer) GetDB() *models.DB              { return ts.db }
func (ts *testServer) GetStorage() *storage.S3Service { return nil }
func (ts *testServer) GetLogger() *zap.Logger         { return ts.logger }

func setupRouter(t *testing.T) (*gin.Engine, *models.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db := models.Wrap(gormDB)
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	server := &testServer{db: db, logger: zap.NewNop()}

	r := gin.New()
	NewAccountRoutes(server).RegisterRoutes(r)
	NewBuildingRoutes(server).RegisterRoutes(r)
	NewCompanyRoutes(server).RegisterRoutes(r)
	NewNoteRoutes(server).RegisterRoutes(r)

	return r, db
}

// doJSON performs a JSON request and decodes the response body into a
// generic map.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, decoded
}

// doRawJSON sends a raw JSON payload, for tests that depend on field
// ordering in the body.
func doRawJSON(t *testing.T, r *gin.Engine, method, path, token, payload string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, decoded
}

// registerUser creates an account through the registration endpoint and
// returns the user row and a live token.
func registerUser(t *testing.T, r *gin.Engine, db *models.DB, username string) (*models.User, string) {
	t.Helper()

	code, body := doJSON(t, r, http.MethodPost, "/accounts/registration", "", gin.H{
		"username": username,
		"password": "New_Password!",
	})
	if code != http.StatusOK {
		t.Fatalf("registration returned %d: %v", code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("registration returned no token")
	}

	user, err := db.Users.GetByUsername(username)
	if err != nil {
		t.Fatalf("failed to load registered user: %v", err)
	}
	// Tests address users by email when inviting.
	user.Email = username + "@example.com"
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("failed to set email: %v", err)
	}
	return user, token
}

// createCompanyFor creates a company through the API as the given token's
// user and returns its id.
func createCompanyFor(t *testing.T, r *gin.Engine, token, name string) int64 {
	t.Helper()

	code, body := doJSON(t, r, http.MethodPost, "/companies/create", token, gin.H{
		"business_name": name,
	})
	if code != http.StatusCreated {
		t.Fatalf("company creation returned %d: %v", code, body)
	}
	id, ok := body["id"].(float64)
	if !ok {
		t.Fatalf("company creation returned no id: %v", body)
	}
	return int64(id)
}
