package models

import (
	"fmt"
	"strconv"
	"time"

	"rentalapp/internal/types"
)

// ReferenceModel tags a change-log row with the table it refers to.
type ReferenceModel string

const (
	RefUser               ReferenceModel = "User"
	RefCompanies          ReferenceModel = "Companies"
	RefCompanyInviteList  ReferenceModel = "CompanyInviteList"
	RefAddresses          ReferenceModel = "Addresses"
	RefContacts           ReferenceModel = "Contacts"
	RefDocuments          ReferenceModel = "Documents"
	RefImages             ReferenceModel = "Images"
	RefGeneralLedgerCodes ReferenceModel = "GeneralLedgerCodes"
	RefNotes              ReferenceModel = "Notes"
	RefBuildings          ReferenceModel = "Buildings"
)

// Valid reports whether the tag names a known table.
func (r ReferenceModel) Valid() bool {
	switch r {
	case RefUser, RefCompanies, RefCompanyInviteList, RefAddresses,
		RefContacts, RefDocuments, RefImages, RefGeneralLedgerCodes,
		RefNotes, RefBuildings:
		return true
	}
	return false
}

// ValueKind is the closed set of scalar kinds a change-log row may record
// as previous_value_type. Unknown kinds are rejected at write time.
type ValueKind string

const (
	KindStr     ValueKind = "str"
	KindInt     ValueKind = "int"
	KindDate    ValueKind = "date"
	KindBool    ValueKind = "bool"
	KindDecimal ValueKind = "decimal"
)

func (k ValueKind) Valid() bool {
	switch k {
	case KindStr, KindInt, KindDate, KindBool, KindDecimal:
		return true
	}
	return false
}

// Stringify converts a field value to its stored change-log form.
// Nil values stringify to the empty string.
func Stringify(v interface{}, kind ValueKind) string {
	if v == nil {
		return ""
	}
	switch kind {
	case KindStr:
		if s, ok := v.(string); ok {
			return s
		}
	case KindInt:
		switch n := v.(type) {
		case int:
			return strconv.Itoa(n)
		case int64:
			return strconv.FormatInt(n, 10)
		}
	case KindDate:
		switch d := v.(type) {
		case types.Date:
			return d.String()
		case *types.Date:
			if d == nil {
				return ""
			}
			return d.String()
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b)
		}
	case KindDecimal:
		if f, ok := v.(float64); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return fmt.Sprintf("%v", v)
}

// TimeStamped mirrors the created/updated timestamp pair carried by most
// tables.
type TimeStamped struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}
