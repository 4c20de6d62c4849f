package identity

import "time"

// Roles understood by handlers.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a stored credential record. PasswordHash always holds a bcrypt
// digest, never the plaintext.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Name         string
	Role         string
	CreatedAt    time.Time
}

// PublicUser is the view of a User that may leave the server.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Public strips credentials from the record.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Registration is the input for creating a user.
type Registration struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
