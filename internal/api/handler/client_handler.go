package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/crm-system/internal/core/ports"
)

// ClientHandler handles HTTP requests for client operations.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create handles POST /v1/clients.
//
// @Summary      Create a new client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientRequest  true  "Client details"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	client, err := h.service.Create(c.Request().Context(), ownerID, toClientInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toClientResponse(client))
}

// List handles GET /v1/clients. Without page/limit parameters it returns
// every match (bulk/export); with either present it returns one page window
// plus a pagination envelope.
//
// @Summary      Search clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        name            query     string  false  "Name substring (first, last, or full name)"
// @Param        email           query     string  false  "Email substring"
// @Param        city            query     string  false  "City substring"
// @Param        active          query     bool    false  "Active flag"
// @Param        created_after   query     string  false  "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param        created_before  query     string  false  "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Param        sort            query     string  false  "Sort field (firstName, lastName, email, createdAt, city)"
// @Param        direction       query     string  false  "Sort direction (asc or desc)"
// @Param        page            query     int     false  "Page number (1-based)"
// @Param        limit           query     int     false  "Page size (max 100)"
// @Success      200             {object}  listClientsResponse
// @Failure      401             {object}  errorResponse
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	filter := ports.ClientFilter{
		OwnerID:   ownerID,
		Name:      c.QueryParam("name"),
		Email:     c.QueryParam("email"),
		City:      c.QueryParam("city"),
		SortField: c.QueryParam("sort"),
		SortDir:   c.QueryParam("direction"),
	}
	if raw := c.QueryParam("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	if t, ok := parseDate(c.QueryParam("created_after")); ok {
		filter.CreatedAfter = t
	}
	if t, ok := parseDate(c.QueryParam("created_before")); ok {
		filter.CreatedBefore = t
	}

	paged := c.QueryParam("page") != "" || c.QueryParam("limit") != ""
	if !paged {
		clients, err := h.service.Search(c.Request().Context(), filter)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, listClientsResponse{Data: toClientResponses(clients)})
	}

	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	page, err := h.service.SearchPage(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listClientsResponse{
		Data: toClientResponses(page.Items),
		Pagination: &paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /v1/clients/:id.
//
// @Summary      Get a client by id
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  clientResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	client, err := h.service.Get(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Update handles PUT /v1/clients/:id.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Client id"
// @Param        body  body      clientRequest  true  "Client details"
// @Success      200   {object}  clientResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	client, err := h.service.Update(c.Request().Context(), ownerID, c.Param("id"), toClientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Delete handles DELETE /v1/clients/:id. The client's invoices are detached,
// not deleted.
//
// @Summary      Delete a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	ownerID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MonthlyStats handles GET /v1/clients/stats/monthly.
//
// @Summary      Clients created per month of a year
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     int  false  "Calendar year (defaults to current)"
// @Success      200   {object}  monthlyStatsResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/clients/stats/monthly [get]
func (h *ClientHandler) MonthlyStats(c echo.Context) error {
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

// parseDate accepts RFC3339 timestamps or plain dates.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// queryYear reads the year parameter, defaulting to the current year.
func queryYear(c echo.Context) int {
	if year, err := strconv.Atoi(c.QueryParam("year")); err == nil && year > 0 {
		return year
	}
	return time.Now().UTC().Year()
}
