package constants

import pkgconstants "egdc-backend/internal/pkg/constants"

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ReviewCaseStudies:  {pkgconstants.Admin, pkgconstants.Custodian},
	ViewPendingQueue:   {pkgconstants.Admin, pkgconstants.Custodian},
	ViewCaseStudyLog:   {pkgconstants.Admin, pkgconstants.Custodian},
	DeleteAnyCaseStudy: {pkgconstants.Admin, pkgconstants.Custodian},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
