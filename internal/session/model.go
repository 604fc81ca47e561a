package session

// AdminSession mirrors what the backend returns on login, reduced to the
// fields the console persists between launches.
type AdminSession struct {
	Token        string
	AdminID      string
	Username     string
	Role         string
	IsSuperAdmin bool
	FirstName    string
	LastName     string
	StaySignedIn bool
}

// Storage keys. Values are plain strings; booleans are stored as the literal
// strings "true"/"false" for compatibility with the mobile app's storage.
const (
	KeyToken        = "admin_token"
	KeyAdminID      = "admin_id"
	KeyUsername     = "admin_username"
	KeyRole         = "admin_role"
	KeyIsSuperAdmin = "is_super_admin"
	KeyStaySignedIn = "admin_stay_signed_in"
	KeyFirstName    = "admin_first_name"
	KeyLastName     = "admin_last_name"
)

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
