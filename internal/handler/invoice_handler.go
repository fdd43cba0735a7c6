package handler

import (
	"net/http"
	"strconv"

	"bookerp/internal/middleware"
	"bookerp/internal/repository"
	"bookerp/internal/service"
	"bookerp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	notifyService  service.NotifyService
}

func NewInvoiceHandler(invoiceService service.InvoiceService, notifyService service.NotifyService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, notifyService: notifyService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.POST("", middleware.RequireCapability(middleware.CapInvoice), h.CreateInvoice)
		invoices.GET("", middleware.RequireAuth(), h.ListInvoices)
		invoices.GET("/:id", middleware.RequireAuth(), h.GetInvoice)
		invoices.POST("/:id/payments", middleware.RequireCapability(middleware.CapRecordPayment), h.RecordPayment)
		invoices.GET("/:id/pdf", middleware.RequireAuth(), h.DownloadPDF)
		invoices.POST("/:id/send-email", middleware.RequireCapability(middleware.CapInvoice), h.SendEmail)
		invoices.POST("/:id/send-whatsapp", middleware.RequireCapability(middleware.CapInvoice), h.SendWhatsApp)
	}
}

// CreateInvoice issues an invoice against an OPEN challan
// @Summary      Create invoice
// @Description  Issues a tax invoice for an OPEN challan. Credit control (block flag, overdue balance, credit limit) runs before anything is written.
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated, filterable invoice list
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        status      query     string  false  "Filter by status (OPEN, PARTIAL, PAID, CANCELLED)"
// @Param        invoice_no  query     string  false  "Filter by invoice number"
// @Param        party_id    query     string  false  "Filter by party"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=[]service.InvoiceResponse}
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := repository.InvoiceListFilter{
		Status:    c.Query("status"),
		InvoiceNo: c.Query("invoice_no"),
		Page:      page,
		Limit:     limit,
	}
	if raw := c.Query("party_id"); raw != "" {
		partyID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid party_id"))
			return
		}
		filter.PartyID = &partyID
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, invoices, page, limit, total))
}

// GetInvoice returns one invoice with lines, payments, and derived totals
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// RecordPayment records a payment against an invoice and re-derives its status
// @Summary      Record payment
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Invoice ID"
// @Param        payload  body      service.RecordPaymentRequest  true  "Payment Payload"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DownloadPDF renders the invoice as a PDF document
// @Summary      Invoice PDF
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id  path  string  true  "Invoice ID"
// @Success      200 {file} binary
// @Failure      404 {object} response.Response
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	data, filename, err := h.notifyService.RenderInvoicePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// SendEmail emails the invoice PDF to the party
// @Summary      Email invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /api/invoices/{id}/send-email [post]
func (h *InvoiceHandler) SendEmail(c *gin.Context) {
	if err := h.notifyService.SendInvoiceEmail(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "email sent"}))
}

// SendWhatsApp sends an invoice summary over WhatsApp
// @Summary      WhatsApp invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /api/invoices/{id}/send-whatsapp [post]
func (h *InvoiceHandler) SendWhatsApp(c *gin.Context) {
	if err := h.notifyService.SendInvoiceWhatsApp(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "whatsapp sent"}))
}
