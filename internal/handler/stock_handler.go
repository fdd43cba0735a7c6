package handler

import (
	"net/http"

	"bookerp/internal/middleware"
	"bookerp/internal/service"
	"bookerp/pkg/pagination"
	"bookerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockService
}

func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	stock := router.Group("/api/stock")
	{
		stock.POST("/adjust", middleware.RequireCapability(middleware.CapAdjustStock), h.Adjust)
		stock.GET("", middleware.RequireCapability(middleware.CapViewStock), h.List)
	}
}

// Adjust applies a manual stock delta (receipt or correction)
// @Summary      Adjust stock
// @Description  Applies a signed quantity delta to one (warehouse, item) row; quantities never go negative
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AdjustStockRequest  true  "Adjust Stock Payload"
// @Success      200      {object}  response.Response{data=service.StockResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	stock, err := h.stockService.AdjustManual(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stock))
}

// List returns stock rows for one warehouse
// @Summary      List stock
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        warehouse_id  query     string  true   "Warehouse ID"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Items per page (default 20)"
// @Success      200           {object}  response.Response{data=[]service.StockResponse}
// @Failure      400           {object}  response.Response
// @Router       /api/stock [get]
func (h *StockHandler) List(c *gin.Context) {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "warehouse_id is required"))
		return
	}

	p := pagination.Parse(c)
	rows, total, err := h.stockService.ListByWarehouse(c.Request.Context(), warehouseID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, p.Page, p.Limit, total))
}
