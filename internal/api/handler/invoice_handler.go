package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
)

// InvoiceHandler handles HTTP requests for invoice operations.
type InvoiceHandler struct {
	service ports.InvoiceService
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Create handles POST /v1/invoices.
//
// @Summary      Create a new invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      invoiceRequest  true  "Invoice details"
// @Success      201   {object}  invoiceResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	_, input, err := h.bindInvoice(c)
	if err != nil {
		return err
	}

	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	invoice, err := h.service.Create(c.Request().Context(), ownerID, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toInvoiceResponse(invoice))
}

// Get handles GET /v1/invoices/:id.
//
// @Summary      Get an invoice by id
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  invoiceResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/invoices/{id} [get]
func (h *InvoiceHandler) Get(c echo.Context) error {
	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	invoice, err := h.service.Get(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// GetByNumber handles GET /v1/invoices/number/:number.
//
// @Summary      Get an invoice by its number
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string  true  "Invoice number"
// @Success      200     {object}  invoiceResponse
// @Failure      404     {object}  errorResponse
// @Router       /v1/invoices/number/{number} [get]
func (h *InvoiceHandler) GetByNumber(c echo.Context) error {
	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	invoice, err := h.service.GetByNumber(c.Request().Context(), ownerID, c.Param("number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// Update handles PUT /v1/invoices/:id.
//
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Invoice id"
// @Param        body  body      invoiceRequest  true  "Invoice details"
// @Success      200   {object}  invoiceResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/invoices/{id} [put]
func (h *InvoiceHandler) Update(c echo.Context) error {
	_, input, err := h.bindInvoice(c)
	if err != nil {
		return err
	}

	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	invoice, err := h.service.Update(c.Request().Context(), ownerID, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// Delete handles DELETE /v1/invoices/:id.
//
// @Summary      Delete an invoice
// @Tags         invoices
// @Security     BearerAuth
// @Param        id  path  string  true  "Invoice id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c echo.Context) error {
	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByClient handles GET /v1/clients/:id/invoices.
//
// @Summary      List invoices of a client
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  listInvoicesResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id}/invoices [get]
func (h *InvoiceHandler) ListByClient(c echo.Context) error {
	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	invoices, err := h.service.ListByClient(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listInvoicesResponse{Data: toInvoiceResponses(invoices)})
}

// MonthlyStats handles GET /v1/invoices/stats/monthly.
//
// @Summary      Invoices billed per month of a year
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     int  false  "Calendar year (defaults to current)"
// @Success      200   {object}  monthlyStatsResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/invoices/stats/monthly [get]
func (h *InvoiceHandler) MonthlyStats(c echo.Context) error {
	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	year := queryYear(c)
	series, err := h.service.MonthlyStats(c.Request().Context(), ownerID, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, monthlyStatsResponse{Year: year, Data: toMonthlyCounts(series)})
}

// bindInvoice decodes and validates an invoice payload, including the
// billing date which arrives as a string.
func (h *InvoiceHandler) bindInvoice(c echo.Context) (invoiceRequest, ports.InvoiceInput, error) {
	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return req, ports.InvoiceInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, ports.InvoiceInput{}, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	billingDate, ok := parseDate(req.BillingDate)
	if !ok {
		return req, ports.InvoiceInput{}, &domain.ValidationError{
			Field:   "billing_date",
			Message: "must be an RFC3339 timestamp or YYYY-MM-DD date",
		}
	}
	return req, toInvoiceInput(req, billingDate), nil
}
