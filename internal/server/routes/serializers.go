package routes

import (
	"github.com/gin-gonic/gin"

	"rentalapp/internal/auth"
	"rentalapp/internal/models"
)

// userPayload renders a user as its id plus display string.
func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"get_name": u.DisplayName(),
	}
}

func userListPayload(users []models.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userPayload(&users[i]))
	}
	return out
}

func addressPayload(a *models.Address) gin.H {
	if a == nil {
		return nil
	}
	return gin.H{
		"id":       a.ID,
		"address1": a.Address1,
		"address2": a.Address2,
		"city":     a.City,
		"state":    a.State,
		"zipcode":  a.Zipcode,
	}
}

func ledgerPayload(g *models.GeneralLedgerCode) gin.H {
	return gin.H{
		"id":          g.ID,
		"name":        g.Name,
		"description": g.Description,
	}
}

func notePayload(n *models.Note) gin.H {
	return gin.H{
		"id":         n.ID,
		"note":       n.Note,
		"user":       userPayload(&n.User),
		"updated_at": n.UpdatedAt,
	}
}

func noteListPayload(notes []models.Note) []gin.H {
	out := make([]gin.H, 0, len(notes))
	for i := range notes {
		out = append(out, notePayload(&notes[i]))
	}
	return out
}

func documentPayload(d *models.Document) gin.H {
	return gin.H{
		"id":          d.ID,
		"name":        d.Name,
		"storage_key": d.StorageKey,
		"updated_at":  d.UpdatedAt,
	}
}

func documentListPayload(docs []models.Document) []gin.H {
	out := make([]gin.H, 0, len(docs))
	for i := range docs {
		out = append(out, documentPayload(&docs[i]))
	}
	return out
}

func imageListPayload(images []models.Image) []gin.H {
	out := make([]gin.H, 0, len(images))
	for i := range images {
		out = append(out, gin.H{
			"id":          images[i].ID,
			"name":        images[i].Name,
			"storage_key": images[i].StorageKey,
			"updated_at":  images[i].UpdatedAt,
		})
	}
	return out
}

func contactListPayload(contacts []models.Contact) []gin.H {
	out := make([]gin.H, 0, len(contacts))
	for i := range contacts {
		c := &contacts[i]
		out = append(out, gin.H{
			"id":          c.ID,
			"name_prefix": c.NamePrefix,
			"name_first":  c.NameFirst,
			"name_middle": c.NameMiddle,
			"name_last":   c.NameLast,
			"name_suffix": c.NameSuffix,
			"phone_1":     c.Phone1,
			"phone_2":     c.Phone2,
			"email":       c.Email,
		})
	}
	return out
}

// buildingPayload renders the full building response used by the
// creation endpoints. Expects associations preloaded.
func buildingPayload(b *models.Building) gin.H {
	return gin.H{
		"id":         b.ID,
		"name":       b.Name,
		"address":    addressPayload(b.Address),
		"build_year": b.BuildYear,
		"documents":  documentListPayload(b.Documents),
		"images":     imageListPayload(b.Images),
		"notes":      noteListPayload(b.Notes),
	}
}

// companyPayload renders the full company response used by the creation
// and upload endpoints. Expects associations preloaded.
func companyPayload(co *models.Company) gin.H {
	return gin.H{
		"id":                            co.ID,
		"business_name":                 co.BusinessName,
		"legal_name":                    co.LegalName,
		"business_address":              addressPayload(co.BusinessAddress),
		"mailing_address":               addressPayload(co.MailingAddress),
		"contacts":                      contactListPayload(co.Contacts),
		"gl_code":                       ledgerPayload(&co.GLCode),
		"accounts_payable_gl":           ledgerPayload(&co.AccountsPayableGL),
		"accounts_receivable_gl":        ledgerPayload(&co.AccountsReceivableGL),
		"allowed_admins":                userListPayload(co.AllowedAdmins),
		"allowed_viewers":               userListPayload(co.AllowedViewers),
		"documents":                     documentListPayload(co.Documents),
		"images":                        imageListPayload(co.Images),
		"notes":                         noteListPayload(co.Notes),
		"accounts_payable_extension":    co.AccountsPayableExtension,
		"accounts_receivable_extension": co.AccountsReceivableExtension,
		"maintenance_extension":         co.MaintenanceExtension,
	}
}

// invitePayload renders an active invite with its computed expiry.
func invitePayload(invite *models.CompanyInvite) gin.H {
	return gin.H{
		"id":          invite.ID,
		"email":       invite.Email,
		"admin_in":    invite.AdminInID,
		"viewer_in":   invite.ViewerInID,
		"valid_until": auth.FormatExpiry(invite.ValidUntil()),
	}
}
