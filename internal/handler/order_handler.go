package handler

import (
	"net/http"

	"bookerp/internal/middleware"
	"bookerp/internal/service"
	"bookerp/pkg/pagination"
	"bookerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/sales-orders")
	{
		orders.POST("", middleware.RequireCapability(middleware.CapManageOrders), h.CreateSalesOrder)
		orders.GET("", middleware.RequireAuth(), h.ListSalesOrders)
		orders.GET("/:id", middleware.RequireAuth(), h.GetSalesOrder)
		orders.POST("/:id/lines", middleware.RequireCapability(middleware.CapManageOrders), h.AddLine)
		orders.PUT("/:id/approve", middleware.RequireCapability(middleware.CapManageOrders), h.Approve)
		orders.PUT("/:id/cancel", middleware.RequireCapability(middleware.CapManageOrders), h.Cancel)
	}

	challans := router.Group("/api/challans")
	{
		challans.POST("", middleware.RequireCapability(middleware.CapDispatch), h.CreateChallan)
		challans.GET("", middleware.RequireAuth(), h.ListChallans)
	}
}

// CreateSalesOrder opens a new sales order
// @Summary      Create sales order
// @Tags         sales-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSalesOrderRequest  true  "Create Sales Order Payload"
// @Success      201      {object}  response.Response{data=service.SalesOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/sales-orders [post]
func (h *OrderHandler) CreateSalesOrder(c *gin.Context) {
	var req service.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	so, err := h.orderService.CreateSalesOrder(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, so))
}

// ListSalesOrders returns a paginated order list
// @Summary      List sales orders
// @Tags         sales-orders
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (OPEN, APPROVED, DISPATCHED, CANCELLED)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.SalesOrderResponse}
// @Router       /api/sales-orders [get]
func (h *OrderHandler) ListSalesOrders(c *gin.Context) {
	p := pagination.Parse(c)
	orders, total, err := h.orderService.ListSalesOrders(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, p.Page, p.Limit, total))
}

// GetSalesOrder returns one order with its lines
// @Summary      Get sales order
// @Tags         sales-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sales Order ID"
// @Success      200  {object}  response.Response{data=service.SalesOrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/sales-orders/{id} [get]
func (h *OrderHandler) GetSalesOrder(c *gin.Context) {
	so, err := h.orderService.GetSalesOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, so))
}

// AddLine adds an item line to an OPEN order, snapshotting resolved pricing
// @Summary      Add order line
// @Tags         sales-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Sales Order ID"
// @Param        payload  body      service.AddOrderLineRequest  true  "Add Line Payload"
// @Success      200      {object}  response.Response{data=service.SalesOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/sales-orders/{id}/lines [post]
func (h *OrderHandler) AddLine(c *gin.Context) {
	var req service.AddOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	so, err := h.orderService.AddLine(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, so))
}

// Approve moves an OPEN order to APPROVED
// @Summary      Approve sales order
// @Tags         sales-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sales Order ID"
// @Success      200  {object}  response.Response{data=service.SalesOrderResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/sales-orders/{id}/approve [put]
func (h *OrderHandler) Approve(c *gin.Context) {
	so, err := h.orderService.Approve(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, so))
}

// Cancel moves an OPEN or APPROVED order to CANCELLED
// @Summary      Cancel sales order
// @Tags         sales-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sales Order ID"
// @Success      200  {object}  response.Response{data=service.SalesOrderResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/sales-orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c *gin.Context) {
	so, err := h.orderService.Cancel(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, so))
}

// CreateChallan dispatches an APPROVED order, deducting stock
// @Summary      Create challan
// @Description  Issues a delivery challan for an APPROVED sales order; stock is deducted atomically for every line
// @Tags         challans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateChallanRequest  true  "Create Challan Payload"
// @Success      201      {object}  response.Response{data=service.ChallanResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/challans [post]
func (h *OrderHandler) CreateChallan(c *gin.Context) {
	var req service.CreateChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	challan, err := h.orderService.CreateChallan(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, challan))
}

// ListChallans returns a paginated challan list
// @Summary      List challans
// @Tags         challans
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (OPEN, INVOICED)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.ChallanResponse}
// @Router       /api/challans [get]
func (h *OrderHandler) ListChallans(c *gin.Context) {
	p := pagination.Parse(c)
	challans, total, err := h.orderService.ListChallans(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, challans, p.Page, p.Limit, total))
}
