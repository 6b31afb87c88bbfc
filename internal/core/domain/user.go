package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// RoleUser is the baseline role. Every user carries it in the effective
	// role set regardless of what was explicitly assigned, and it cannot be
	// removed.
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is an account holder and the tenant that scopes all client and
// invoice queries.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLoginAt  time.Time `json:"last_login_at,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`

	// RoleSet is the explicitly assigned role set, persisted as given.
	// The baseline role is NOT stored here; Roles() adds it at every read.
	RoleSet []string `json:"roles"`

	// Clients owned by this user. Maintained by AddClient/RemoveClient;
	// persistence resolves the link through Client.OwnerID.
	Clients []*Client `json:"-"`
}

// NewUser returns a user with the active flag set and creation time stamped.
func NewUser() *User {
	return &User{IsActive: true, CreatedAt: time.Now().UTC()}
}

// SetEmail stores the email normalized to lowercase with surrounding
// whitespace removed.
func (u *User) SetEmail(email string) {
	u.Email = strings.ToLower(strings.TrimSpace(email))
}

func (u *User) SetFirstName(name string) {
	u.FirstName = capitalize(strings.TrimSpace(name))
}

func (u *User) SetLastName(name string) {
	u.LastName = capitalize(strings.TrimSpace(name))
}

// FullName joins first and last name, tolerating either being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initials returns the uppercased first letters of both name parts.
func (u *User) Initials() string {
	var b strings.Builder
	if u.FirstName != "" {
		r, _ := utf8.DecodeRuneInString(u.FirstName)
		b.WriteRune(unicode.ToUpper(r))
	}
	if u.LastName != "" {
		r, _ := utf8.DecodeRuneInString(u.LastName)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Roles returns the effective role set: the stored set plus the baseline
// role, deduplicated. Authorization checks must use this accessor, never
// RoleSet directly.
func (u *User) Roles() []string {
	roles := make([]string, 0, len(u.RoleSet)+1)
	seen := make(map[string]struct{}, len(u.RoleSet)+1)
	for _, r := range append([]string{RoleUser}, u.RoleSet...) {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	return roles
}

// SetRoles replaces the stored role set, dropping duplicates.
func (u *User) SetRoles(roles []string) {
	u.RoleSet = u.RoleSet[:0]
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		u.RoleSet = append(u.RoleSet, r)
	}
}

// AddRole appends a role unless already present.
func (u *User) AddRole(role string) {
	for _, r := range u.RoleSet {
		if r == role {
			return
		}
	}
	u.RoleSet = append(u.RoleSet, role)
}

// RemoveRole drops a role from the stored set. The baseline role is immune:
// it is re-added by Roles() even if a raw write sneaks it into RoleSet.
func (u *User) RemoveRole(role string) {
	if role == RoleUser {
		return
	}
	kept := u.RoleSet[:0]
	for _, r := range u.RoleSet {
		if r != role {
			kept = append(kept, r)
		}
	}
	u.RoleSet = kept
}

// HasRole checks membership in the effective role set.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// AddClient links a client to this user, keeping both sides of the
// relationship in step. Membership is identity-based: the same client
// pointer is never added twice.
func (u *User) AddClient(c *Client) {
	for _, existing := range u.Clients {
		if existing == c {
			return
		}
	}
	u.Clients = append(u.Clients, c)
	c.Owner = u
	c.OwnerID = u.ID
}

// RemoveClient unlinks a client. The back-reference is cleared only when it
// still points at this user, so a link reassigned elsewhere is not clobbered.
func (u *User) RemoveClient(c *Client) {
	for i, existing := range u.Clients {
		if existing != c {
			continue
		}
		u.Clients = append(u.Clients[:i], u.Clients[i+1:]...)
		if c.Owner == u {
			c.Owner = nil
			c.OwnerID = ""
		}
		return
	}
}

// ActiveClients filters the owned collection down to active clients.
func (u *User) ActiveClients() []*Client {
	var active []*Client
	for _, c := range u.Clients {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active
}

// Validate checks the user's own invariants. Relationship and uniqueness
// rules are enforced by the persistence layer.
func (u *User) Validate() error {
	if u.Email == "" {
		return validationErr("email", "email cannot be blank")
	}
	if !emailPattern.MatchString(u.Email) {
		return validationErr("email", "email must be a valid address")
	}
	if err := validateName("first_name", u.FirstName); err != nil {
		return err
	}
	if err := validateName("last_name", u.LastName); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return validationErr("password", "password cannot be blank")
	}
	return nil
}

func validateName(field, value string) error {
	if value == "" {
		return validationErr(field, "cannot be blank")
	}
	if utf8.RuneCountInString(value) < 2 {
		return validationErr(field, "must be at least 2 characters long")
	}
	if utf8.RuneCountInString(value) > 255 {
		return validationErr(field, "cannot be longer than 255 characters")
	}
	return nil
}

// capitalize uppercases the first rune, leaving the rest untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
