package model

// Role identifies which staff passcode a caller proved.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLogistics Role = "logistics"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLogistics
}
