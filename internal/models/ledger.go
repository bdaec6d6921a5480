package models

import (
	"fmt"

	"gorm.io/gorm"
)

// GeneralLedgerCode stores a general ledger account. Every company is
// created with three of these, and every building carries its own.
type GeneralLedgerCode struct {
	ID          int64  `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"column:name;size:127;not null" json:"name"`
	Code        string `gorm:"column:code;size:15" json:"code"`
	Description string `gorm:"column:description;size:1023" json:"description"`
	TimeStamped

	Notes []Note `gorm:"many2many:general_ledger_notes;" json:"notes,omitempty"`
}

func (GeneralLedgerCode) TableName() string {
	return "general_ledger_codes"
}

func (g *GeneralLedgerCode) String() string {
	if g.Code != "" {
		return fmt.Sprintf("%s | %s", g.Name, g.Code)
	}
	return g.Name
}

// GeneralLedgerCodeManager provides ORM methods for GeneralLedgerCode
type GeneralLedgerCodeManager struct {
	db *gorm.DB
}

func NewGeneralLedgerCodeManager(db *gorm.DB) *GeneralLedgerCodeManager {
	return &GeneralLedgerCodeManager{db: db}
}

func (m *GeneralLedgerCodeManager) Create(code *GeneralLedgerCode) error {
	return m.db.Create(code).Error
}

func (m *GeneralLedgerCodeManager) Get(id int64) (*GeneralLedgerCode, error) {
	var code GeneralLedgerCode
	err := m.db.First(&code, id).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}
