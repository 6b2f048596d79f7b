package auth

// Role identifies which area of the site a session may use.
type Role string

const (
	RoleFamily   Role = "family"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Session is the authenticated identity for one request. It replaces the
// "current employee" and "current family" pointers: login creates it, the
// token carries it, and logout is the client discarding the token.
type Session struct {
	Role      Role   `json:"role"`
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
}

// IsStaff reports whether the session belongs to an employee or admin.
func (s Session) IsStaff() bool {
	return s.Role == RoleEmployee || s.Role == RoleAdmin
}
