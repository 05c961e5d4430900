package constants

const (
	Admin     = "admin"
	Custodian = "custodian"
	DataOwner = "data_owner"
)

// ValidRoles is the set of allowed DB enum values for user role.
var ValidRoles = []string{Admin, Custodian, DataOwner}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsElevated returns true for roles allowed to publish, review and act on any case study.
func IsElevated(role string) bool {
	return role == Admin || role == Custodian
}
