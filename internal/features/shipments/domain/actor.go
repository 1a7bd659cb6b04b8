package domain

// Role is the caller's account type as carried by the auth token.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleDriver Role = "driver"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	Role Role
	// ID is the internal account id. Senders and recipients are stored by it.
	ID string
	// UserID is the external user id. Drivers are assigned by it.
	UserID string
	Name   string
}

// DriverRef is the identifier a driver is assigned under, falling back to ID for tokens without userID.
func (a Actor) DriverRef() string {
	if a.UserID != "" {
		return a.UserID
	}
	return a.ID
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
