package domain

// User roles
const (
	RoleUser       = "user"
	RoleSuperAdmin = "super_admin"
)

// User approval statuses
const (
	UserPending  = "pending"
	UserApproved = "approved"
	UserRejected = "rejected"
)

// User represents an account in the system. New registrations start in the
// pending status and must be approved by a super admin before they can log in.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	RegisteredAt string `json:"registeredAt"` // RFC3339
}

// GoogleUserInfo represents user information from Google OAuth
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
