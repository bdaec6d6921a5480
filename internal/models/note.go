package models

import (
	"gorm.io/gorm"
)

// Note is a free-text entry attached to other records through
// many-to-many relationships. Notes are never deleted; edits are applied
// in place and every changed field lands in the change log.
type Note struct {
	ID     int64  `gorm:"primaryKey;column:id" json:"id"`
	Note   string `gorm:"column:note;not null" json:"note"`
	UserID int64  `gorm:"column:user_id;not null" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	TimeStamped
}

func (Note) TableName() string {
	return "notes"
}

// AuditModel implements Auditable.
func (n *Note) AuditModel() ReferenceModel { return RefNotes }

// AuditID implements Auditable.
func (n *Note) AuditID() int64 { return n.ID }

// AuditValue implements Auditable.
func (n *Note) AuditValue(field string) (interface{}, ValueKind, bool) {
	if field == "note" {
		return n.Note, KindStr, true
	}
	return nil, "", false
}

// ApplyChange implements Auditable.
func (n *Note) ApplyChange(field string, value interface{}) bool {
	if field == "note" {
		if s, ok := value.(string); ok {
			n.Note = s
			return true
		}
	}
	return false
}

var _ Auditable = (*Note)(nil)

// NoteManager provides ORM methods for Note
type NoteManager struct {
	db *gorm.DB
}

func NewNoteManager(db *gorm.DB) *NoteManager {
	return &NoteManager{db: db}
}

func (m *NoteManager) Create(note *Note) error {
	return m.db.Create(note).Error
}

// Get retrieves a note with its author preloaded.
func (m *NoteManager) Get(id int64) (*Note, error) {
	var note Note
	err := m.db.Preload("User").First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}
