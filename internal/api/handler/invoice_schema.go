package handler

import (
	"time"

	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
)

type invoiceRequest struct {
	ClientID      string  `json:"client_id"      validate:"required"`
	InvoiceNumber string  `json:"invoice_number" validate:"required"`
	BillingDate   string  `json:"billing_date"   validate:"required"`
	Amount        float64 `json:"amount"         validate:"required,gt=0"`
	Status        string  `json:"status"         validate:"required,oneof=paid partially_paid unpaid"`
	Note          string  `json:"note"           validate:"omitempty,max=1000"`
}

type invoiceResponse struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id,omitempty"`
	InvoiceNumber string    `json:"invoice_number"`
	BillingDate   time.Time `json:"billing_date"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type listInvoicesResponse struct {
	Data []invoiceResponse `json:"data"`
}

func toInvoiceInput(req invoiceRequest, billingDate time.Time) ports.InvoiceInput {
	return ports.InvoiceInput{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		BillingDate:   billingDate,
		Amount:        req.Amount,
		Status:        req.Status,
		Note:          req.Note,
	}
}

func toInvoiceResponse(inv *domain.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		BillingDate:   inv.BillingDate,
		Amount:        inv.Amount,
		Status:        string(inv.Status),
		Note:          inv.Note,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toInvoiceResponses(invoices []*domain.Invoice) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	return out
}
