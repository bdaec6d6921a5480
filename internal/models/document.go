package models

import (
	"gorm.io/gorm"
)

// Document records an uploaded file. The bytes themselves live in the
// blob store under StorageKey.
type Document struct {
	ID           int64  `gorm:"primaryKey;column:id" json:"id"`
	Name         string `gorm:"column:name" json:"name"`
	StorageKey   string `gorm:"column:storage_key;not null" json:"storage_key"`
	UploadedByID int64  `gorm:"column:uploaded_by_id;not null" json:"-"`
	UploadedBy   User   `gorm:"foreignKey:UploadedByID" json:"uploaded_by"`
	TimeStamped

	Notes []Note `gorm:"many2many:document_notes;" json:"notes,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// Image records an uploaded image, stored the same way as documents.
type Image struct {
	ID           int64  `gorm:"primaryKey;column:id" json:"id"`
	Name         string `gorm:"column:name" json:"name"`
	StorageKey   string `gorm:"column:storage_key;not null" json:"storage_key"`
	UploadedByID int64  `gorm:"column:uploaded_by_id;not null" json:"-"`
	UploadedBy   User   `gorm:"foreignKey:UploadedByID" json:"uploaded_by"`
	TimeStamped

	Notes []Note `gorm:"many2many:image_notes;" json:"notes,omitempty"`
}

func (Image) TableName() string {
	return "images"
}

// DocumentManager provides ORM methods for Document
type DocumentManager struct {
	db *gorm.DB
}

func NewDocumentManager(db *gorm.DB) *DocumentManager {
	return &DocumentManager{db: db}
}

func (m *DocumentManager) Create(doc *Document) error {
	return m.db.Create(doc).Error
}

func (m *DocumentManager) Get(id int64) (*Document, error) {
	var doc Document
	err := m.db.Preload("UploadedBy").First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
