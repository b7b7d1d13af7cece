package models

import "github.com/golang-jwt/jwt/v5"

// Role is the caller role carried in verified access tokens.
type Role string

const (
	RoleFaculty       Role = "FACULTY"
	RoleChair         Role = "CHAIR"
	RoleCentralOffice Role = "CENTRAL_OFFICE"
	RoleInstructor    Role = "INSTRUCTOR"
	RoleSuperAdmin    Role = "SUPERADMIN"
)

// FacultyLevel reports whether the role may perform faculty-wide actions.
func (r Role) FacultyLevel() bool {
	return r == RoleFaculty || r == RoleSuperAdmin
}

// ChairLevel reports whether the role acts on behalf of a chair or central office.
func (r Role) ChairLevel() bool {
	return r == RoleChair || r == RoleCentralOffice
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// Actor is the authenticated caller an engine operation runs on behalf of.
type Actor struct {
	ID   string
	Role Role
}
