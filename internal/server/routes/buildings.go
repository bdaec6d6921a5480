package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentalapp/internal/models"
	"rentalapp/internal/permissions"
	"rentalapp/internal/types"
	"rentalapp/internal/validators"
)

type BuildingRoutes struct {
	server ServerInterface
}

func NewBuildingRoutes(server ServerInterface) *BuildingRoutes {
	return &BuildingRoutes{server: server}
}

func (br *BuildingRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(br.server)

	r.POST("/buildings/no-company/new-building", middleware.TokenAuthMiddleware(), br.createNoCompanyHandler)
	r.POST("/buildings/:companyID/new-building", middleware.TokenAuthMiddleware(), br.createWithCompanyHandler)
	r.PATCH("/buildings/:id/update", middleware.TokenAuthMiddleware(), br.updateHandler)
}

type buildingCreateRequest struct {
	Name      string          `json:"name"`
	Address   *models.Address `json:"address"`
	BuildYear *string         `json:"build_year"`
	Notes     []noteRequest   `json:"notes"`
}

type noteRequest struct {
	Note string `json:"note"`
}

// validate checks the creation payload, returning the parsed build year
// alongside any field failures.
func (req *buildingCreateRequest) validate() (*types.Date, validators.FieldErrors) {
	errs := validators.FieldErrors{}

	if req.Name == "" {
		errs.Add("name", "This field may not be blank.", "blank")
	}
	if req.Address != nil {
		req.Address.Normalize()
		validators.Zipcode(req.Address.Zipcode, errs)
	}

	var buildYear *types.Date
	if req.BuildYear != nil && *req.BuildYear != "" {
		parsed, err := types.ParseDate(*req.BuildYear)
		if err != nil {
			errs.Add("build_year",
				"Date has wrong format. Use one of these formats instead: YYYY-MM-DD.",
				"invalid")
		} else {
			buildYear = &parsed
		}
	}

	for i := range req.Notes {
		if req.Notes[i].Note == "" {
			errs.Add("notes", "This field may not be blank.", "blank")
			break
		}
	}

	return buildYear, errs
}

// createNoCompanyHandler creates a building with no existing company to
// hang it on. A container company named "Rental Business" is created in
// the same transaction, with the caller as its only admin.
func (br *BuildingRoutes) createNoCompanyHandler(c *gin.Context) {
	user := currentUser(c)

	var req buildingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"building-errors": gin.H{
			"non_field_errors": []string{"Invalid request body."},
		}})
		return
	}

	buildYear, errs := req.validate()
	if !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"building-errors": errs})
		return
	}

	db := br.server.GetDB()

	var building *models.Building
	err := db.Transaction(func(tx *models.DB) error {
		receivableGL := &models.GeneralLedgerCode{
			Name:        "Accounts Receivable",
			Description: "Accounts Receivable ledger",
		}
		if err := tx.Ledgers.Create(receivableGL); err != nil {
			return err
		}
		payableGL := &models.GeneralLedgerCode{
			Name:        "Accounts Payable",
			Description: "Accounts Payable ledger",
		}
		if err := tx.Ledgers.Create(payableGL); err != nil {
			return err
		}
		companyGL := &models.GeneralLedgerCode{Name: "Rental Business"}
		if err := tx.Ledgers.Create(companyGL); err != nil {
			return err
		}

		company := &models.Company{
			BusinessName:           "Rental Business",
			GLCodeID:               companyGL.ID,
			AccountsPayableGLID:    payableGL.ID,
			AccountsReceivableGLID: receivableGL.ID,
		}
		if err := tx.Companies.Create(company); err != nil {
			return err
		}
		if err := tx.Companies.AddAdmin(company, user); err != nil {
			return err
		}

		created, err := createBuilding(tx, company, user, &req, buildYear)
		if err != nil {
			return err
		}
		building = created
		return nil
	})
	if err != nil {
		br.server.GetLogger().Error("building creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create building"})
		return
	}

	full, err := db.Buildings.GetFull(building.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load building"})
		return
	}
	c.JSON(http.StatusCreated, buildingPayload(full))
}

// createWithCompanyHandler creates a building inside an existing company.
// The caller must be a company admin; a missing company and a missing
// role produce the same rejection.
func (br *BuildingRoutes) createWithCompanyHandler(c *gin.Context) {
	user := currentUser(c)
	companyID, err := strconv.ParseInt(c.Param("companyID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, invalidPermissionResponse("company", c.Param("companyID")))
		return
	}

	db := br.server.GetDB()

	company, err := db.Companies.Get(companyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, invalidPermissionResponse("company", companyID))
		return
	}
	isAdmin, err := db.Companies.IsAdmin(company.ID, user.ID)
	if err != nil || !permissions.CanMutateCompany(isAdmin) {
		c.JSON(http.StatusBadRequest, invalidPermissionResponse("company", companyID))
		return
	}

	var req buildingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"building-errors": gin.H{
			"non_field_errors": []string{"Invalid request body."},
		}})
		return
	}

	buildYear, errs := req.validate()
	if !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"building-errors": errs})
		return
	}

	var building *models.Building
	err = db.Transaction(func(tx *models.DB) error {
		created, err := createBuilding(tx, company, user, &req, buildYear)
		if err != nil {
			return err
		}
		building = created
		return nil
	})
	if err != nil {
		br.server.GetLogger().Error("building creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create building"})
		return
	}

	full, err := db.Buildings.GetFull(building.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load building"})
		return
	}
	c.JSON(http.StatusCreated, buildingPayload(full))
}

// createBuilding persists the building, its own general ledger, an
// optional address, and any submitted notes. Runs inside the caller's
// transaction.
func createBuilding(tx *models.DB, company *models.Company, user *models.User, req *buildingCreateRequest, buildYear *types.Date) (*models.Building, error) {
	var addressID *int64
	if req.Address != nil && !req.Address.Blank() {
		if err := tx.Addresses.Create(req.Address); err != nil {
			return nil, err
		}
		addressID = &req.Address.ID
	}

	buildingGL := &models.GeneralLedgerCode{
		Name:        req.Name,
		Description: req.Name + " general ledger",
	}
	if err := tx.Ledgers.Create(buildingGL); err != nil {
		return nil, err
	}

	building := &models.Building{
		CompanyID: company.ID,
		Name:      req.Name,
		AddressID: addressID,
		GLCodeID:  buildingGL.ID,
		BuildYear: buildYear,
	}
	if err := tx.Buildings.Create(building); err != nil {
		return nil, err
	}

	for _, n := range req.Notes {
		note := &models.Note{Note: n.Note, UserID: user.ID}
		if err := tx.Notes.Create(note); err != nil {
			return nil, err
		}
		if err := tx.Buildings.AddNote(building, note); err != nil {
			return nil, err
		}
	}

	return building, nil
}

// updateHandler applies a partial update to a building, recording every
// changed field to the change log in the order the client submitted the
// fields.
func (br *BuildingRoutes) updateHandler(c *gin.Context) {
	user := currentUser(c)
	buildingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, invalidPermissionResponse("building", c.Param("id")))
		return
	}

	db := br.server.GetDB()

	building, err := db.Buildings.Get(buildingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, invalidPermissionResponse("building", buildingID))
		return
	}

	buildingAdmin, err := db.Buildings.IsAdmin(building.ID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve permissions"})
		return
	}
	companyAdmin, err := db.Companies.IsAdmin(building.CompanyID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve permissions"})
		return
	}
	buildingViewer, err := db.Buildings.IsViewer(building.ID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve permissions"})
		return
	}

	if !permissions.CanMutateBuilding(buildingAdmin, companyAdmin, buildingViewer) {
		c.JSON(http.StatusBadRequest, invalidPermissionResponse("building", buildingID))
		return
	}

	order, values, err := orderedFields(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"building-errors": gin.H{
			"non_field_errors": []string{"Invalid request body."},
		}})
		return
	}

	updates, errs := parseBuildingUpdates(order, values)
	if !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"building-errors": errs})
		return
	}

	err = db.Transaction(func(tx *models.DB) error {
		return models.RecordAndApply(tx.DB, building, updates, user)
	})
	if err != nil {
		br.server.GetLogger().Error("building update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update building"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         building.ID,
		"name":       building.Name,
		"build_year": building.BuildYear,
	})
}

// parseBuildingUpdates converts the raw JSON fields into typed updates,
// preserving submission order. Fields outside the updatable set are
// ignored, matching partial-update semantics.
func parseBuildingUpdates(order []string, values map[string]json.RawMessage) ([]models.FieldUpdate, validators.FieldErrors) {
	errs := validators.FieldErrors{}
	var updates []models.FieldUpdate

	for _, field := range order {
		raw := values[field]
		switch field {
		case "name":
			var name string
			if err := json.Unmarshal(raw, &name); err != nil || name == "" {
				errs.Add("name", "This field may not be blank.", "blank")
				continue
			}
			updates = append(updates, models.FieldUpdate{Name: "name", Value: name})
		case "build_year":
			var s *string
			if err := json.Unmarshal(raw, &s); err != nil {
				errs.Add("build_year",
					"Date has wrong format. Use one of these formats instead: YYYY-MM-DD.",
					"invalid")
				continue
			}
			if s == nil {
				updates = append(updates, models.FieldUpdate{Name: "build_year", Value: (*types.Date)(nil)})
				continue
			}
			parsed, err := types.ParseDate(*s)
			if err != nil {
				errs.Add("build_year",
					"Date has wrong format. Use one of these formats instead: YYYY-MM-DD.",
					"invalid")
				continue
			}
			updates = append(updates, models.FieldUpdate{Name: "build_year", Value: &parsed})
		}
	}

	return updates, errs
}
