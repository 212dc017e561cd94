package identity

import "time"

// Roles assigned to registered users.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User statuses used by the admin console filters.
const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
)

// User represents a registered beneficiary or administrator.
type User struct {
	ID            string
	FullName      string
	Email         string
	Phone         string
	IDNumber      string
	PasswordHash  []byte
	Role          string
	Active        bool
	EmailVerified bool
	PhoneVerified bool
	TokenVersion  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Status reports the admin-console status string for the user.
func (u User) Status() string {
	if u.Active {
		return StatusActive
	}
	return StatusSuspended
}

// Verified reports whether at least one contact channel has been confirmed.
// Cash sends require this.
func (u User) Verified() bool {
	return u.EmailVerified || u.PhoneVerified
}

// Credentials carries a login or registration request.
type Credentials struct {
	FullName string
	Email    string
	Phone    string
	IDNumber string
	Password string
}

// Page is the normalized list shape every admin list endpoint returns,
// regardless of how the backing query shapes its results.
type Page struct {
	Items         []User `json:"items"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int    `json:"totalElements"`
}

// Stats summarizes the user base for the admin dashboard.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Suspended int `json:"suspended"`
	Verified  int `json:"verified"`
}

// Query filters and pages admin user listings.
type Query struct {
	Search string
	Status string
	Page   int
	Size   int
}
