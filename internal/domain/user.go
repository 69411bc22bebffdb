package domain

import "time"

// Role is the authorization level carried by a user record and by the
// session credential minted from it.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user record in the database.
type User struct {
	ID                 string    `json:"id"`
	Name               *string   `json:"name"`
	Email              string    `json:"email"`
	OAuthID            *string   `json:"oauth_id"`
	Role               Role      `json:"role"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Credential is the claims payload embedded in the session token. It is only
// ever produced by the token codec's Mint/Verify pair; once signed the claims
// are immutable and a role change requires minting a new credential.
type Credential struct {
	SubjectID string `json:"id"`
	Role      Role   `json:"role"`
}

// IsAdmin reports whether the credential carries the admin role.
func (c *Credential) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ProviderIdentity is the authenticated identity produced by the Google OAuth
// exchange. It proves that sign-in completed; it carries no application role.
type ProviderIdentity struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// OnboardingRequest is the body of POST /api/user.
type OnboardingRequest struct {
	Role Role `json:"role"`
}
