package domain

import (
	"regexp"
	"strings"
	"time"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Client is a customer record owned by exactly one user (the tenant).
// The manager contact name is stored split into first/last so the search
// engine can match either part or the joined full name.
type Client struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Owner is the in-memory side of the tenant link.
	Owner *User `json:"-"`

	// Invoices issued to this client. Maintained by AddInvoice/RemoveInvoice;
	// persistence resolves the link through Invoice.ClientID.
	Invoices []*Invoice `json:"-"`
}

// NewClient returns a client with the active flag set and creation time stamped.
func NewClient() *Client {
	return &Client{IsActive: true, CreatedAt: time.Now().UTC()}
}

func (c *Client) SetEmail(email string) {
	c.Email = strings.ToLower(strings.TrimSpace(email))
}

func (c *Client) SetFirstName(name string) {
	c.FirstName = capitalize(strings.TrimSpace(name))
}

func (c *Client) SetLastName(name string) {
	c.LastName = capitalize(strings.TrimSpace(name))
}

// FullName joins the manager contact's first and last name.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// AddInvoice links an invoice to this client and sets the back-reference.
// Membership is identity-based.
func (c *Client) AddInvoice(inv *Invoice) {
	for _, existing := range c.Invoices {
		if existing == inv {
			return
		}
	}
	c.Invoices = append(c.Invoices, inv)
	inv.Client = c
	inv.ClientID = c.ID
}

// RemoveInvoice detaches an invoice from this client. The invoice itself is
// not deleted: its client reference is cleared so the record survives for
// archival. The back-reference is cleared only when it still points here.
func (c *Client) RemoveInvoice(inv *Invoice) {
	for i, existing := range c.Invoices {
		if existing != inv {
			continue
		}
		c.Invoices = append(c.Invoices[:i], c.Invoices[i+1:]...)
		if inv.Client == c {
			inv.Client = nil
			inv.ClientID = ""
		}
		return
	}
}

// Validate checks the client's field invariants.
func (c *Client) Validate() error {
	if err := validateName("first_name", c.FirstName); err != nil {
		return err
	}
	if err := validateName("last_name", c.LastName); err != nil {
		return err
	}
	if c.CompanyName == "" {
		return validationErr("company_name", "company name cannot be blank")
	}
	if !phonePattern.MatchString(c.PhoneNumber) {
		return validationErr("phone_number", "phone number must contain exactly 10 digits")
	}
	if c.Address == "" {
		return validationErr("address", "address cannot be blank")
	}
	if c.Country == "" {
		return validationErr("country", "country cannot be blank")
	}
	if c.Email != "" && !emailPattern.MatchString(c.Email) {
		return validationErr("email", "email must be a valid address")
	}
	return nil
}
