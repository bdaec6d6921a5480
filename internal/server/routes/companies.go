package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentalapp/internal/models"
	"rentalapp/internal/permissions"
	"rentalapp/internal/validators"
)

type CompanyRoutes struct {
	server ServerInterface
}

func NewCompanyRoutes(server ServerInterface) *CompanyRoutes {
	return &CompanyRoutes{server: server}
}

func (cr *CompanyRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(cr.server)

	r.POST("/companies/create", middleware.TokenAuthMiddleware(), cr.createHandler)
	r.POST("/companies/invite/:companyID", middleware.TokenAuthMiddleware(), cr.inviteHandler)
	r.POST("/companies/:companyID/upload-document", middleware.TokenAuthMiddleware(), cr.uploadDocumentHandler)
}

type companyCreateRequest struct {
	BusinessName    string           `json:"business_name"`
	LegalName       string           `json:"legal_name"`
	BusinessAddress *models.Address  `json:"business_address"`
	MailingAddress  *models.Address  `json:"mailing_address"`
	Contacts        []models.Contact `json:"contacts"`
	Notes           []noteRequest    `json:"notes"`
}

func (req *companyCreateRequest) validate() validators.FieldErrors {
	errs := validators.FieldErrors{}

	if req.BusinessName == "" {
		errs.Add("business_name", "This field may not be blank.", "blank")
	}
	if req.BusinessAddress != nil {
		req.BusinessAddress.Normalize()
		validators.Zipcode(req.BusinessAddress.Zipcode, errs)
	}
	if req.MailingAddress != nil {
		req.MailingAddress.Normalize()
		validators.Zipcode(req.MailingAddress.Zipcode, errs)
	}
	for i := range req.Contacts {
		req.Contacts[i].Normalize()
		validators.Phone("phone_1", req.Contacts[i].Phone1, errs)
		validators.Phone("phone_2", req.Contacts[i].Phone2, errs)
		if req.Contacts[i].Email != "" {
			validators.Email("email", req.Contacts[i].Email, errs)
		}
	}
	for i := range req.Notes {
		if req.Notes[i].Note == "" {
			errs.Add("notes", "This field may not be blank.", "blank")
			break
		}
	}

	return errs
}

// createHandler creates a company along with its three general ledgers:
// accounts receivable, accounts payable, and a company-named ledger. The
// caller becomes the company's first admin.
func (cr *CompanyRoutes) createHandler(c *gin.Context) {
	user := currentUser(c)

	var req companyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"company-errors": gin.H{
			"non_field_errors": []string{"Invalid request body."},
		}})
		return
	}

	if errs := req.validate(); !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"company-errors": errs})
		return
	}

	db := cr.server.GetDB()

	var company *models.Company
	err := db.Transaction(func(tx *models.DB) error {
		var businessAddressID, mailingAddressID *int64
		if req.BusinessAddress != nil && !req.BusinessAddress.Blank() {
			if err := tx.Addresses.Create(req.BusinessAddress); err != nil {
				return err
			}
			businessAddressID = &req.BusinessAddress.ID
		}
		if req.MailingAddress != nil && !req.MailingAddress.Blank() {
			if err := tx.Addresses.Create(req.MailingAddress); err != nil {
				return err
			}
			mailingAddressID = &req.MailingAddress.ID
		}

		receivableGL := &models.GeneralLedgerCode{
			Name:        "Accounts Receivable",
			Description: fmt.Sprintf("Accounts Receivable ledger for %s", req.BusinessName),
		}
		if err := tx.Ledgers.Create(receivableGL); err != nil {
			return err
		}
		payableGL := &models.GeneralLedgerCode{
			Name:        "Accounts Payable",
			Description: fmt.Sprintf("Accounts Payable ledger for %s", req.BusinessName),
		}
		if err := tx.Ledgers.Create(payableGL); err != nil {
			return err
		}
		companyGL := &models.GeneralLedgerCode{
			Name:        req.BusinessName,
			Description: fmt.Sprintf("%s general ledger", req.BusinessName),
		}
		if err := tx.Ledgers.Create(companyGL); err != nil {
			return err
		}

		company = &models.Company{
			BusinessName:           req.BusinessName,
			LegalName:              req.LegalName,
			BusinessAddressID:      businessAddressID,
			MailingAddressID:       mailingAddressID,
			GLCodeID:               companyGL.ID,
			AccountsPayableGLID:    payableGL.ID,
			AccountsReceivableGLID: receivableGL.ID,
		}
		if err := tx.Companies.Create(company); err != nil {
			return err
		}

		for i := range req.Contacts {
			contact := req.Contacts[i]
			contact.ID = 0
			if err := tx.Companies.AddContact(company, &contact); err != nil {
				return err
			}
		}

		for _, n := range req.Notes {
			note := &models.Note{Note: n.Note, UserID: user.ID}
			if err := tx.Notes.Create(note); err != nil {
				return err
			}
			if err := tx.Companies.AddNote(company, note); err != nil {
				return err
			}
		}

		return tx.Companies.AddAdmin(company, user)
	})
	if err != nil {
		cr.server.GetLogger().Error("company creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create company"})
		return
	}

	full, err := db.Companies.GetFull(company.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load company"})
		return
	}
	c.JSON(http.StatusCreated, companyPayload(full))
}

type inviteRequest struct {
	Email    string `json:"email"`
	AdminIn  *bool  `json:"admin_in"`
	ViewerIn *bool  `json:"viewer_in"`
}

// inviteHandler records an emailed invitation of a user to the company as
// either an admin or a viewer. Expired invites across the whole table are
// swept first; inviting someone who is already a member short-circuits
// with a notice instead of an invite row.
func (cr *CompanyRoutes) inviteHandler(c *gin.Context) {
	user := currentUser(c)
	db := cr.server.GetDB()

	if err := db.Invites.SweepExpired(); err != nil {
		cr.server.GetLogger().Error("invite sweep failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process invite"})
		return
	}

	companyID, err := strconv.ParseInt(c.Param("companyID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, invalidPermissionResponse("company", c.Param("companyID")))
		return
	}

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

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"invite-error": gin.H{
			"non_field_errors": []string{"Invalid request body."},
		}})
		return
	}

	// Exactly one of admin_in/viewer_in must be true.
	adminIn := req.AdminIn != nil && *req.AdminIn
	viewerIn := req.ViewerIn != nil && *req.ViewerIn
	if adminIn == viewerIn {
		c.JSON(http.StatusBadRequest, gin.H{
			"invalid-invite": "clashing permission levels specified",
			"invalid-info": fmt.Sprintf("admin_in was '%s' & viewer_in was '%s'",
				boolWord(req.AdminIn), boolWord(req.ViewerIn)),
		})
		return
	}

	email := strings.TrimSpace(req.Email)
	errs := validators.FieldErrors{}
	validators.Email("email", email, errs)
	if !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"invite-error": errs})
		return
	}

	// If the email already maps to a registered member, report the
	// current role instead of writing an invite.
	if invitee, err := db.Users.GetByEmail(email); err == nil {
		existingAdmin, err := db.Companies.IsAdmin(company.ID, invitee.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process invite"})
			return
		}
		existingViewer, err := db.Companies.IsViewer(company.ID, invitee.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process invite"})
			return
		}

		if existingAdmin || existingViewer {
			c.JSON(http.StatusOK, existingMemberNotice(company, email, adminIn, existingAdmin))
			return
		}
	}

	invite, err := db.Invites.Upsert(email, company.ID, adminIn)
	if err != nil {
		cr.server.GetLogger().Error("invite upsert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process invite"})
		return
	}

	c.JSON(http.StatusCreated, invitePayload(invite))
}

// existingMemberNotice builds the no-op response for inviting someone who
// already holds a role in the company. Role changes go through the
// company parameters, not the invite flow.
func existingMemberNotice(company *models.Company, email string, adminRequested, existingAdmin bool) gin.H {
	if existingAdmin {
		notice := gin.H{
			"existing-admin": fmt.Sprintf(
				"Requested user with email '%s' is already set as an admin for '%s'",
				email, company.CompanyName()),
			"existing-email": email,
		}
		if !adminRequested {
			notice["no-change"] = "Admin status unchanged. Change permission levels in the company parameters."
		}
		return notice
	}

	notice := gin.H{
		"existing-viewer": fmt.Sprintf(
			"Requested user with email '%s' is already set as a viewer for '%s'",
			email, company.CompanyName()),
		"existing-email": email,
	}
	if adminRequested {
		notice["no-change"] = "Viewer status unchanged. Change permission levels in the company parameters."
	}
	return notice
}

func boolWord(b *bool) string {
	if b == nil {
		return "missing"
	}
	return strconv.FormatBool(*b)
}

// uploadDocumentHandler accepts multipart documents, stores the bytes in
// the blob store, and links the records to the company.
func (cr *CompanyRoutes) uploadDocumentHandler(c *gin.Context) {
	user := currentUser(c)
	db := cr.server.GetDB()

	companyID, err := strconv.ParseInt(c.Param("companyID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, invalidPermissionResponse("company", c.Param("companyID")))
		return
	}

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

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"document-upload-error": "No documents provided"})
		return
	}
	files := form.File["documents"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"document-upload-error": "No documents provided"})
		return
	}

	s3 := cr.server.GetStorage()

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"document-upload-error": "Could not read uploaded file"})
			return
		}

		result, err := s3.UploadDocument(c.Request.Context(), file, header, company.ID)
		file.Close()
		if err != nil {
			cr.server.GetLogger().Error("document upload failed",
				zap.String("filename", header.Filename), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"document-upload-error": err.Error()})
			return
		}

		err = db.Transaction(func(tx *models.DB) error {
			doc := &models.Document{
				Name:         header.Filename,
				StorageKey:   result.Key,
				UploadedByID: user.ID,
			}
			if err := tx.Documents.Create(doc); err != nil {
				return err
			}
			return tx.Companies.AddDocument(company, doc)
		})
		if err != nil {
			cr.server.GetLogger().Error("document record failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
			return
		}
	}

	full, err := db.Companies.GetFull(company.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load company"})
		return
	}
	c.JSON(http.StatusCreated, companyPayload(full))
}
