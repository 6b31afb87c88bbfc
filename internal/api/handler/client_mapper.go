package handler

import (
	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
)

// --- Request → Service input ---

func toClientInput(req clientRequest) ports.ClientInput {
	return ports.ClientInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		IsActive:    req.IsActive,
	}
}

// --- Domain → Response ---

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		CompanyName: c.CompanyName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		City:        c.City,
		Country:     c.Country,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toClientResponses(clients []*domain.Client) []clientResponse {
	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out
}

func toMonthlyCounts(series []ports.MonthlyCount) []monthlyCount {
	out := make([]monthlyCount, 0, len(series))
	for _, mc := range series {
		out = append(out, monthlyCount{Month: mc.Month, Count: mc.Count})
	}
	return out
}
