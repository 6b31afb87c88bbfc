package domain

import (
	"time"
	"unicode/utf8"
)

// InvoiceStatus is the closed set of payment states an invoice can be in.
type InvoiceStatus string

const (
	InvoicePaid          InvoiceStatus = "paid"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceUnpaid        InvoiceStatus = "unpaid"
)

const maxNoteLength = 1000

// Valid reports whether the status is one of the closed enum values.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePaid, InvoicePartiallyPaid, InvoiceUnpaid:
		return true
	}
	return false
}

// Invoice belongs to exactly one client at creation time. Deleting the
// client detaches its invoices (ClientID cleared) rather than deleting them.
// OwnerID denormalizes the tenant so detached invoices stay queryable
// within their owner's scope.
type Invoice struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"owner_id"`
	ClientID      string        `json:"client_id,omitempty"`
	InvoiceNumber string        `json:"invoice_number"`
	BillingDate   time.Time     `json:"billing_date"`
	Amount        float64       `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	Note          string        `json:"note,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Client *Client `json:"-"`
}

// Validate checks the invoice's field invariants as they must hold at
// creation and update time. Detachment later clears ClientID without
// re-running this check; everything else stays enforced.
func (inv *Invoice) Validate() error {
	if inv.InvoiceNumber == "" {
		return validationErr("invoice_number", "invoice number cannot be blank")
	}
	if inv.BillingDate.IsZero() {
		return validationErr("billing_date", "billing date is required")
	}
	if inv.Amount <= 0 {
		return validationErr("amount", "amount must be greater than zero")
	}
	if !inv.Status.Valid() {
		return validationErr("status", "status must be paid, partially_paid or unpaid")
	}
	if utf8.RuneCountInString(inv.Note) > maxNoteLength {
		return validationErr("note", "note cannot be longer than 1000 characters")
	}
	if inv.ClientID == "" {
		return validationErr("client_id", "an invoice requires a client")
	}
	return nil
}
