package models

import (
	"gorm.io/gorm"

	"rentalapp/internal/types"
)

// Building holds an individual building which may contain one to several
// units. It belongs to exactly one company but carries its own
// allowed_admins/allowed_viewers sets, which can override the company's.
type Building struct {
	ID        int64   `gorm:"primaryKey;column:id" json:"id"`
	CompanyID int64   `gorm:"column:company_id;not null" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT" json:"-"`
	Name      string  `gorm:"column:name;not null" json:"name"`

	AddressID *int64   `gorm:"column:address_id" json:"-"`
	Address   *Address `gorm:"foreignKey:AddressID;constraint:OnDelete:SET NULL" json:"address"`

	GLCodeID int64             `gorm:"column:gl_code_id;not null" json:"-"`
	GLCode   GeneralLedgerCode `gorm:"foreignKey:GLCodeID" json:"gl_code"`

	BuildYear *types.Date `gorm:"column:build_year" json:"build_year"`

	// Package extensions
	AccountsPayableExtension    bool `gorm:"column:accounts_payable_extension;default:false" json:"accounts_payable_extension"`
	AccountsReceivableExtension bool `gorm:"column:accounts_receivable_extension;default:false" json:"accounts_receivable_extension"`
	MaintenanceExtension        bool `gorm:"column:maintenance_extension;default:false" json:"maintenance_extension"`

	AllowedAdmins  []User     `gorm:"many2many:building_allowed_admins;" json:"allowed_admins,omitempty"`
	AllowedViewers []User     `gorm:"many2many:building_allowed_viewers;" json:"allowed_viewers,omitempty"`
	Documents      []Document `gorm:"many2many:building_documents;" json:"documents,omitempty"`
	Images         []Image    `gorm:"many2many:building_images;" json:"images,omitempty"`
	Notes          []Note     `gorm:"many2many:building_notes;" json:"notes,omitempty"`

	TimeStamped
}

func (Building) TableName() string {
	return "buildings"
}

// AuditModel implements Auditable.
func (b *Building) AuditModel() ReferenceModel { return RefBuildings }

// AuditID implements Auditable.
func (b *Building) AuditID() int64 { return b.ID }

// AuditValue implements Auditable.
func (b *Building) AuditValue(field string) (interface{}, ValueKind, bool) {
	switch field {
	case "name":
		return b.Name, KindStr, true
	case "build_year":
		return b.BuildYear, KindDate, true
	}
	return nil, "", false
}

// ApplyChange implements Auditable.
func (b *Building) ApplyChange(field string, value interface{}) bool {
	switch field {
	case "name":
		if s, ok := value.(string); ok {
			b.Name = s
			return true
		}
	case "build_year":
		switch d := value.(type) {
		case *types.Date:
			b.BuildYear = d
			return true
		case types.Date:
			b.BuildYear = &d
			return true
		}
	}
	return false
}

var _ Auditable = (*Building)(nil)

// BuildingManager provides ORM methods for Building
type BuildingManager struct {
	db *gorm.DB
}

func NewBuildingManager(db *gorm.DB) *BuildingManager {
	return &BuildingManager{db: db}
}

func (m *BuildingManager) Create(building *Building) error {
	return m.db.Create(building).Error
}

// Get retrieves a building by ID
func (m *BuildingManager) Get(id int64) (*Building, error) {
	var building Building
	err := m.db.First(&building, id).Error
	if err != nil {
		return nil, err
	}
	return &building, nil
}

// GetFull retrieves a building with all associations preloaded.
func (m *BuildingManager) GetFull(id int64) (*Building, error) {
	var building Building
	err := m.db.
		Preload("Address").
		Preload("GLCode").
		Preload("Documents").
		Preload("Images").
		Preload("Notes.User").
		First(&building, id).Error
	if err != nil {
		return nil, err
	}
	return &building, nil
}

// IsAdmin reports whether the user is in the building's allowed_admins set.
func (m *BuildingManager) IsAdmin(buildingID, userID int64) (bool, error) {
	var count int64
	err := m.db.Table("building_allowed_admins").
		Where("building_id = ? AND user_id = ?", buildingID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsViewer reports whether the user is in the building's allowed_viewers set.
func (m *BuildingManager) IsViewer(buildingID, userID int64) (bool, error) {
	var count int64
	err := m.db.Table("building_allowed_viewers").
		Where("building_id = ? AND user_id = ?", buildingID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddAdmin appends a user to the building's allowed_admins set.
func (m *BuildingManager) AddAdmin(building *Building, user *User) error {
	return m.db.Model(building).Association("AllowedAdmins").Append(user)
}

// AddViewer appends a user to the building's allowed_viewers set.
func (m *BuildingManager) AddViewer(building *Building, user *User) error {
	return m.db.Model(building).Association("AllowedViewers").Append(user)
}

// AddNote links a note to the building.
func (m *BuildingManager) AddNote(building *Building, note *Note) error {
	return m.db.Model(building).Association("Notes").Append(note)
}
