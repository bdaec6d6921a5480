package models

import (
	"strings"

	"gorm.io/gorm"
)

// Address is the central model for storing street addresses. All fields
// are optional; a fully blank address is never persisted.
type Address struct {
	ID       int64  `gorm:"primaryKey;column:id" json:"id"`
	Address1 string `gorm:"column:address1" json:"address1"`
	Address2 string `gorm:"column:address2" json:"address2"`
	City     string `gorm:"column:city" json:"city"`
	State    string `gorm:"column:state;size:2" json:"state"`
	Zipcode  string `gorm:"column:zipcode;size:10" json:"zipcode"`
}

func (Address) TableName() string {
	return "addresses"
}

// Blank reports whether every field is empty.
func (a *Address) Blank() bool {
	return a.Address1 == "" && a.Address2 == "" && a.City == "" &&
		a.State == "" && a.Zipcode == ""
}

// Normalize collapses repeated whitespace in every field.
func (a *Address) Normalize() {
	a.Address1 = squeezeSpaces(a.Address1)
	a.Address2 = squeezeSpaces(a.Address2)
	a.City = squeezeSpaces(a.City)
	a.State = squeezeSpaces(a.State)
	a.Zipcode = squeezeSpaces(a.Zipcode)
}

// String assembles the populated fields into a single address line.
// Zipcode follows the state with a space rather than a comma.
func (a *Address) String() string {
	var b strings.Builder
	for _, part := range []string{a.Address1, a.Address2, a.City, a.State} {
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(part)
	}
	if a.Zipcode != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(a.Zipcode)
	}
	return b.String()
}

// Contact holds a person associated with a specific company. Contact rows
// are never shared between companies.
type Contact struct {
	ID         int64  `gorm:"primaryKey;column:id" json:"id"`
	NamePrefix string `gorm:"column:name_prefix;size:15" json:"name_prefix"`
	NameFirst  string `gorm:"column:name_first;size:31" json:"name_first"`
	NameMiddle string `gorm:"column:name_middle;size:31" json:"name_middle"`
	NameLast   string `gorm:"column:name_last;size:31" json:"name_last"`
	NameSuffix string `gorm:"column:name_suffix;size:15" json:"name_suffix"`
	Phone1     string `gorm:"column:phone_1;size:10" json:"phone_1"`
	Phone2     string `gorm:"column:phone_2;size:10" json:"phone_2"`
	Email      string `gorm:"column:email" json:"email"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Normalize collapses repeated whitespace in every name field.
func (c *Contact) Normalize() {
	c.NamePrefix = squeezeSpaces(c.NamePrefix)
	c.NameFirst = squeezeSpaces(c.NameFirst)
	c.NameMiddle = squeezeSpaces(c.NameMiddle)
	c.NameLast = squeezeSpaces(c.NameLast)
	c.NameSuffix = squeezeSpaces(c.NameSuffix)
	c.Phone1 = squeezeSpaces(c.Phone1)
	c.Phone2 = squeezeSpaces(c.Phone2)
	c.Email = squeezeSpaces(c.Email)
}

func squeezeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AddressManager provides ORM methods for Address
type AddressManager struct {
	db *gorm.DB
}

func NewAddressManager(db *gorm.DB) *AddressManager {
	return &AddressManager{db: db}
}

func (m *AddressManager) Create(address *Address) error {
	return m.db.Create(address).Error
}

func (m *AddressManager) Get(id int64) (*Address, error) {
	var address Address
	err := m.db.First(&address, id).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}
