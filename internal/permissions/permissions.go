// Package permissions holds the pure mutation-rights predicates for the
// two-tier admin/viewer model. The model layer supplies the membership
// facts; nothing here touches the database.
package permissions

// CanMutateCompany reports whether a user may mutate a company. Only the
// company's allowed_admins may; viewer-only membership is read access.
func CanMutateCompany(companyAdmin bool) bool {
	return companyAdmin
}

// CanMutateBuilding reports whether a user may mutate a building given
// the three membership facts. A building-level admin grant always wins.
// A company-level admin grant is inherited unless the user was explicitly
// demoted to building-level viewer, which overrides the inherited right.
func CanMutateBuilding(buildingAdmin, companyAdmin, buildingViewer bool) bool {
	return buildingAdmin || (companyAdmin && !buildingViewer)
}
