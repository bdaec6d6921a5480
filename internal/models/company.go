package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Company is the primary container for buildings and units. Users must be
// listed in allowed_admins or allowed_viewers before they may touch any of
// its information.
type Company struct {
	ID           int64  `gorm:"primaryKey;column:id" json:"id"`
	BusinessName string `gorm:"column:business_name;not null" json:"business_name"`
	LegalName    string `gorm:"column:legal_name" json:"legal_name"`

	BusinessAddressID *int64   `gorm:"column:business_address_id" json:"-"`
	BusinessAddress   *Address `gorm:"foreignKey:BusinessAddressID;constraint:OnDelete:SET NULL" json:"business_address"`
	MailingAddressID  *int64   `gorm:"column:mailing_address_id" json:"-"`
	MailingAddress    *Address `gorm:"foreignKey:MailingAddressID;constraint:OnDelete:SET NULL" json:"mailing_address"`

	GLCodeID             int64             `gorm:"column:gl_code_id;not null" json:"-"`
	GLCode               GeneralLedgerCode `gorm:"foreignKey:GLCodeID" json:"gl_code"`
	AccountsPayableGLID  int64             `gorm:"column:accounts_payable_gl_id;not null" json:"-"`
	AccountsPayableGL    GeneralLedgerCode `gorm:"foreignKey:AccountsPayableGLID" json:"accounts_payable_gl"`
	AccountsReceivableGLID int64           `gorm:"column:accounts_receivable_gl_id;not null" json:"-"`
	AccountsReceivableGL GeneralLedgerCode `gorm:"foreignKey:AccountsReceivableGLID" json:"accounts_receivable_gl"`

	// Package extensions
	AccountsPayableExtension    bool `gorm:"column:accounts_payable_extension;default:false" json:"accounts_payable_extension"`
	AccountsReceivableExtension bool `gorm:"column:accounts_receivable_extension;default:false" json:"accounts_receivable_extension"`
	MaintenanceExtension        bool `gorm:"column:maintenance_extension;default:false" json:"maintenance_extension"`

	Contacts       []Contact  `gorm:"many2many:company_contacts;" json:"contacts,omitempty"`
	AllowedAdmins  []User     `gorm:"many2many:company_allowed_admins;" json:"allowed_admins,omitempty"`
	AllowedViewers []User     `gorm:"many2many:company_allowed_viewers;" json:"allowed_viewers,omitempty"`
	Documents      []Document `gorm:"many2many:company_documents;" json:"documents,omitempty"`
	Images         []Image    `gorm:"many2many:company_images;" json:"images,omitempty"`
	Notes          []Note     `gorm:"many2many:company_notes;" json:"notes,omitempty"`

	TimeStamped
}

func (Company) TableName() string {
	return "companies"
}

// CompanyName returns the business name, with the legal name appended when
// one is set.
func (c *Company) CompanyName() string {
	if c.LegalName != "" {
		return fmt.Sprintf("%s | %s", c.BusinessName, c.LegalName)
	}
	return c.BusinessName
}

// CompanyManager provides ORM methods for Company
type CompanyManager struct {
	db *gorm.DB
}

func NewCompanyManager(db *gorm.DB) *CompanyManager {
	return &CompanyManager{db: db}
}

func (m *CompanyManager) Create(company *Company) error {
	return m.db.Create(company).Error
}

// Get retrieves a company by ID
func (m *CompanyManager) Get(id int64) (*Company, error) {
	var company Company
	err := m.db.First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetFull retrieves a company with all associations preloaded.
func (m *CompanyManager) GetFull(id int64) (*Company, error) {
	var company Company
	err := m.db.
		Preload("BusinessAddress").
		Preload("MailingAddress").
		Preload("GLCode").
		Preload("AccountsPayableGL").
		Preload("AccountsReceivableGL").
		Preload("Contacts").
		Preload("AllowedAdmins").
		Preload("AllowedViewers").
		Preload("Documents").
		Preload("Images").
		Preload("Notes.User").
		First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// IsAdmin reports whether the user is in the company's allowed_admins set.
func (m *CompanyManager) IsAdmin(companyID, userID int64) (bool, error) {
	var count int64
	err := m.db.Table("company_allowed_admins").
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsViewer reports whether the user is in the company's allowed_viewers set.
func (m *CompanyManager) IsViewer(companyID, userID int64) (bool, error) {
	var count int64
	err := m.db.Table("company_allowed_viewers").
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddAdmin appends a user to the company's allowed_admins set.
func (m *CompanyManager) AddAdmin(company *Company, user *User) error {
	return m.db.Model(company).Association("AllowedAdmins").Append(user)
}

// AddViewer appends a user to the company's allowed_viewers set.
func (m *CompanyManager) AddViewer(company *Company, user *User) error {
	return m.db.Model(company).Association("AllowedViewers").Append(user)
}

// AddDocument links an uploaded document to the company.
func (m *CompanyManager) AddDocument(company *Company, doc *Document) error {
	return m.db.Model(company).Association("Documents").Append(doc)
}

// AddNote links a note to the company.
func (m *CompanyManager) AddNote(company *Company, note *Note) error {
	return m.db.Model(company).Association("Notes").Append(note)
}

// AddContact links a contact to the company.
func (m *CompanyManager) AddContact(company *Company, contact *Contact) error {
	return m.db.Model(company).Association("Contacts").Append(contact)
}
