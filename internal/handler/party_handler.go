package handler

import (
	"net/http"
	"time"

	"bookerp/internal/middleware"
	"bookerp/internal/service"
	"bookerp/pkg/pagination"
	"bookerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type PartyHandler struct {
	partyService   service.PartyService
	invoiceService service.InvoiceService
}

func NewPartyHandler(partyService service.PartyService, invoiceService service.InvoiceService) *PartyHandler {
	return &PartyHandler{partyService: partyService, invoiceService: invoiceService}
}

func (h *PartyHandler) RegisterRoutes(router *gin.RouterGroup) {
	parties := router.Group("/api/parties")
	{
		parties.POST("", middleware.RequireCapability(middleware.CapManageParties), h.CreateParty)
		parties.GET("", middleware.RequireAuth(), h.ListParties)
		parties.GET("/:id", middleware.RequireAuth(), h.GetParty)
		parties.PUT("/:id", middleware.RequireCapability(middleware.CapManageParties), h.UpdateParty)
		parties.PUT("/:id/price", middleware.RequireCapability(middleware.CapManageParties), h.SetPrice)
		parties.GET("/:id/statement", middleware.RequireCapability(middleware.CapViewStatements), h.Statement)
	}
}

// CreateParty registers a distributor, school, or shop
// @Summary      Create party
// @Tags         parties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePartyRequest  true  "Create Party Payload"
// @Success      201      {object}  response.Response{data=service.PartyResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/parties [post]
func (h *PartyHandler) CreateParty(c *gin.Context) {
	var req service.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	party, err := h.partyService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, party))
}

// ListParties returns a paginated party list
// @Summary      List parties
// @Tags         parties
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Filter by name"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.PartyResponse}
// @Router       /api/parties [get]
func (h *PartyHandler) ListParties(c *gin.Context) {
	p := pagination.Parse(c)
	parties, total, err := h.partyService.List(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, parties, p.Page, p.Limit, total))
}

// GetParty returns one party
// @Summary      Get party
// @Tags         parties
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Party ID"
// @Success      200  {object}  response.Response{data=service.PartyResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/parties/{id} [get]
func (h *PartyHandler) GetParty(c *gin.Context) {
	party, err := h.partyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, party))
}

// UpdateParty edits party master data, credit limit, and block flag
// @Summary      Update party
// @Tags         parties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Party ID"
// @Param        payload  body      service.UpdatePartyRequest  true  "Update Party Payload"
// @Success      200      {object}  response.Response{data=service.PartyResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/parties/{id} [put]
func (h *PartyHandler) UpdateParty(c *gin.Context) {
	var req service.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	party, err := h.partyService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, party))
}

// SetPrice upserts the per-party discount for one item
// @Summary      Set party price
// @Description  Upserts the discount override for a (party, item) pair; the latest write wins
// @Tags         parties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Party ID"
// @Param        payload  body      service.SetPartyPriceRequest  true  "Party Price Payload"
// @Success      200      {object}  response.Response{data=service.PartyPriceResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/parties/{id}/price [put]
func (h *PartyHandler) SetPrice(c *gin.Context) {
	var req service.SetPartyPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	price, err := h.partyService.SetPrice(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, price))
}

// Statement returns month-bucketed invoice rows plus the party summary
// @Summary      Party statement
// @Tags         parties
// @Security     BearerAuth
// @Produce      json
// @Param        id    path      string  true   "Party ID"
// @Param        from  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=service.StatementResponse}
// @Failure      404   {object}  response.Response
// @Router       /api/parties/{id}/statement [get]
func (h *PartyHandler) Statement(c *gin.Context) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD"))
			return
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD"))
			return
		}
		to = &t
	}

	statement, err := h.invoiceService.Statement(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, statement))
}
