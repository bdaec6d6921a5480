package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// InviteValidity is the window an invite stays live, measured from its
// last update.
const InviteValidity = 7 * 24 * time.Hour

// CompanyInvite holds a pending emailed invitation of an address to a
// company. Exactly one of AdminInID/ViewerInID is set; re-inviting the
// same email to the same company updates the row in place.
type CompanyInvite struct {
	ID        int64  `gorm:"primaryKey;column:id" json:"id"`
	Email     string `gorm:"column:email;not null;index" json:"email"`
	AdminInID  *int64 `gorm:"column:admin_in_id" json:"admin_in"`
	ViewerInID *int64 `gorm:"column:viewer_in_id" json:"viewer_in"`

	AdminIn  *Company `gorm:"foreignKey:AdminInID;constraint:OnDelete:CASCADE" json:"-"`
	ViewerIn *Company `gorm:"foreignKey:ViewerInID;constraint:OnDelete:CASCADE" json:"-"`

	TimeStamped
}

func (CompanyInvite) TableName() string {
	return "company_invite_list"
}

// Timeout reports whether the invite is past its seven day window.
func (ci *CompanyInvite) Timeout() bool {
	return ci.UpdatedAt.Add(InviteValidity).Before(time.Now())
}

// ValidUntil returns the moment the invite expires.
func (ci *CompanyInvite) ValidUntil() time.Time {
	return ci.UpdatedAt.Add(InviteValidity)
}

// CompanyID returns the company the invite targets, whichever role field
// carries it.
func (ci *CompanyInvite) CompanyID() int64 {
	if ci.AdminInID != nil {
		return *ci.AdminInID
	}
	if ci.ViewerInID != nil {
		return *ci.ViewerInID
	}
	return 0
}

func (ci *CompanyInvite) String() string {
	role := "Viewer"
	if ci.AdminInID != nil {
		role = "Admin"
	}
	return fmt.Sprintf("%s - %s Invitation - Valid until: %s",
		ci.Email, role, ci.ValidUntil().UTC().Format("Jan. 02, 2006 - 03:04 PM UTC"))
}

// CompanyInviteManager provides ORM methods for CompanyInvite
type CompanyInviteManager struct {
	db *gorm.DB
}

func NewCompanyInviteManager(db *gorm.DB) *CompanyInviteManager {
	return &CompanyInviteManager{db: db}
}

func (m *CompanyInviteManager) Create(invite *CompanyInvite) error {
	return m.db.Create(invite).Error
}

func (m *CompanyInviteManager) Get(id int64) (*CompanyInvite, error) {
	var invite CompanyInvite
	err := m.db.First(&invite, id).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// SweepExpired deletes every invite, repository wide, whose seven day
// window has lapsed. Runs inline on each invite call rather than from a
// background job; concurrent sweeps deleting the same rows are harmless.
func (m *CompanyInviteManager) SweepExpired() error {
	cutoff := time.Now().Add(-InviteValidity)
	return m.db.Where("updated_at < ?", cutoff).Delete(&CompanyInvite{}).Error
}

// ForEmailAndCompany finds existing invite rows for the (email, company)
// pair, regardless of which role they previously targeted.
func (m *CompanyInviteManager) ForEmailAndCompany(email string, companyID int64) ([]CompanyInvite, error) {
	var invites []CompanyInvite
	err := m.db.
		Where("email = ? AND (admin_in_id = ? OR viewer_in_id = ?)", email, companyID, companyID).
		Order("id").
		Find(&invites).Error
	return invites, err
}

// Upsert records an invitation of email to companyID at the requested
// level. An existing row for the pair is updated in place, refreshing
// updated_at; duplicate rows are collapsed to the first as a fail-safe.
func (m *CompanyInviteManager) Upsert(email string, companyID int64, admin bool) (*CompanyInvite, error) {
	existing, err := m.ForEmailAndCompany(email, companyID)
	if err != nil {
		return nil, err
	}

	var adminIn, viewerIn *int64
	if admin {
		adminIn = &companyID
	} else {
		viewerIn = &companyID
	}

	if len(existing) == 0 {
		invite := &CompanyInvite{Email: email, AdminInID: adminIn, ViewerInID: viewerIn}
		if err := m.db.Create(invite).Error; err != nil {
			return nil, err
		}
		return invite, nil
	}

	// Fail-safe: should never hold more than one row per (email, company).
	if len(existing) > 1 {
		var extras []int64
		for _, dup := range existing[1:] {
			extras = append(extras, dup.ID)
		}
		if err := m.db.Delete(&CompanyInvite{}, extras).Error; err != nil {
			return nil, err
		}
	}

	invite := existing[0]
	invite.AdminInID = adminIn
	invite.ViewerInID = viewerIn
	invite.UpdatedAt = time.Now()
	if err := m.db.Save(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}
