package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ChangeLog is the append-only audit record for field updates. One row is
// written per changed field per update call, holding the value the field
// carried before the change. Rows are never updated or deleted by
// application logic.
type ChangeLog struct {
	ID                int64          `gorm:"primaryKey;column:id" json:"id"`
	ReferenceModel    ReferenceModel `gorm:"column:reference_model;size:127;not null" json:"reference_model"`
	ModelID           int64          `gorm:"column:model_id;not null" json:"model_id"`
	FieldName         string         `gorm:"column:field_name;size:127;not null" json:"field_name"`
	PreviousValue     string         `gorm:"column:previous_value" json:"previous_value"`
	PreviousValueType ValueKind      `gorm:"column:previous_value_type;size:15;not null" json:"previous_value_type"`
	PreviousUserID    int64          `gorm:"column:previous_user_id;not null" json:"previous_user_id"`
	PreviousUser      User           `gorm:"foreignKey:PreviousUserID;constraint:OnDelete:CASCADE" json:"-"`
	ChangedOn         time.Time      `gorm:"column:changed_on;autoCreateTime" json:"changed_on"`
}

func (ChangeLog) TableName() string {
	return "change_log"
}

// FieldUpdate is one proposed field change, in the order the client
// submitted it.
type FieldUpdate struct {
	Name  string
	Value interface{}
}

// Auditable is implemented by models whose updates flow through the
// change log.
type Auditable interface {
	AuditModel() ReferenceModel
	AuditID() int64
	// AuditValue returns the current value and kind of a field, or
	// ok=false for a field the model does not audit.
	AuditValue(field string) (value interface{}, kind ValueKind, ok bool)
	// ApplyChange sets a field to a new value, reporting whether the
	// field and value type were accepted.
	ApplyChange(field string, value interface{}) bool
}

// RecordAndApply diffs the proposed updates against the instance, writes
// one change-log row per changed field in submission order, applies the
// updates, and saves the instance. The caller supplies the transaction;
// any failure rolls back both the log rows and the entity update.
//
// previousUser is the user attributed on the log rows. For most updates
// this is the acting user from the request context; note edits attribute
// the note's prior owner instead.
func RecordAndApply(tx *gorm.DB, instance Auditable, updates []FieldUpdate, previousUser *User) error {
	ref := instance.AuditModel()
	if !ref.Valid() {
		return fmt.Errorf("change log: unknown reference model %q", ref)
	}

	for _, update := range updates {
		oldValue, kind, ok := instance.AuditValue(update.Name)
		if !ok {
			return fmt.Errorf("change log: %s has no auditable field %q", ref, update.Name)
		}
		if !kind.Valid() {
			return fmt.Errorf("change log: invalid value kind %q for field %q", kind, update.Name)
		}

		// No-op fields are skipped so spurious rows never reach the log.
		previous := Stringify(oldValue, kind)
		if previous == Stringify(update.Value, kind) {
			continue
		}

		row := ChangeLog{
			ReferenceModel:    ref,
			ModelID:           instance.AuditID(),
			FieldName:         update.Name,
			PreviousValue:     previous,
			PreviousValueType: kind,
			PreviousUserID:    previousUser.ID,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if !instance.ApplyChange(update.Name, update.Value) {
			return fmt.Errorf("change log: could not apply %q to %s", update.Name, ref)
		}
	}

	return tx.Save(instance).Error
}

// ChangeLogManager provides ORM methods for ChangeLog
type ChangeLogManager struct {
	db *gorm.DB
}

func NewChangeLogManager(db *gorm.DB) *ChangeLogManager {
	return &ChangeLogManager{db: db}
}

// ForModel lists the log rows recorded against one entity, oldest first.
func (m *ChangeLogManager) ForModel(ref ReferenceModel, modelID int64) ([]ChangeLog, error) {
	var rows []ChangeLog
	err := m.db.
		Where("reference_model = ? AND model_id = ?", ref, modelID).
		Order("id").
		Find(&rows).Error
	return rows, err
}
