package handler

import (
	"net/http"

	"bookerp/internal/middleware"
	"bookerp/internal/service"
	"bookerp/pkg/pagination"
	"bookerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReturnHandler struct {
	returnService service.ReturnService
}

func NewReturnHandler(returnService service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

func (h *ReturnHandler) RegisterRoutes(router *gin.RouterGroup) {
	returns := router.Group("/api/returns")
	{
		returns.POST("", middleware.RequireCapability(middleware.CapPostReturns), h.CreateReturn)
		returns.GET("", middleware.RequireAuth(), h.ListReturns)
		returns.GET("/:id", middleware.RequireAuth(), h.GetReturn)
		returns.POST("/:id/lines", middleware.RequireCapability(middleware.CapPostReturns), h.AddLine)
		returns.PUT("/:id/post", middleware.RequireCapability(middleware.CapPostReturns), h.PostReturn)
	}
}

// CreateReturn opens a return note for unsold stock
// @Summary      Create return note
// @Tags         returns
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateReturnRequest  true  "Create Return Payload"
// @Success      201      {object}  response.Response{data=service.ReturnNoteResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/returns [post]
func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	var req service.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rn, err := h.returnService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rn))
}

// ListReturns returns a paginated return note list
// @Summary      List return notes
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (OPEN, POSTED)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.ReturnNoteResponse}
// @Router       /api/returns [get]
func (h *ReturnHandler) ListReturns(c *gin.Context) {
	p := pagination.Parse(c)
	returns, total, err := h.returnService.List(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, returns, p.Page, p.Limit, total))
}

// GetReturn returns one return note with its lines
// @Summary      Get return note
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Return Note ID"
// @Success      200  {object}  response.Response{data=service.ReturnNoteResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetReturn(c *gin.Context) {
	rn, err := h.returnService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rn))
}

// AddLine adds an item line to an OPEN return note
// @Summary      Add return line
// @Tags         returns
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Return Note ID"
// @Param        payload  body      service.AddReturnLineRequest  true  "Add Line Payload"
// @Success      200      {object}  response.Response{data=service.ReturnNoteResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/returns/{id}/lines [post]
func (h *ReturnHandler) AddLine(c *gin.Context) {
	var req service.AddReturnLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rn, err := h.returnService.AddLine(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rn))
}

// PostReturn posts an OPEN return note, adding stock back
// @Summary      Post return note
// @Description  Moves an OPEN return note to POSTED and adds every line's quantity back to warehouse stock
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Return Note ID"
// @Success      200  {object}  response.Response{data=service.ReturnNoteResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/returns/{id}/post [put]
func (h *ReturnHandler) PostReturn(c *gin.Context) {
	rn, err := h.returnService.Post(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rn))
}
