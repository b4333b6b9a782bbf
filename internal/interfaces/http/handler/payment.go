package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	paymentsapp "github.com/hotelier/backend/internal/application/payments"
	"github.com/hotelier/backend/internal/domain/payments"
	"github.com/hotelier/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles incoming payment API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentsapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentsapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest represents a request to record an incoming payment
// @Description Request body for recording a payment
type RecordPaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"25000.00"`
	Currency    string  `json:"currency" binding:"omitempty,oneof=XOF EUR USD GNF MAD" example:"XOF"`
	Method      string  `json:"method" binding:"required,oneof=CASH BANK_TRANSFER MOBILE_MONEY CARD CHEQUE" example:"CASH"`
	RegisterID  *string `json:"register_id" binding:"omitempty,uuid"`
	PayerName   string  `json:"payer_name" binding:"required,min=1,max=200" example:"Aissatou Diallo"`
	Description string  `json:"description" binding:"max=500"`
	ReceivedAt  string  `json:"received_at" binding:"omitempty" example:"2026-08-28T10:30:00Z"`
}

// UpdatePaymentRequest represents a request to edit a pending payment
// @Description Request body for updating a payment
type UpdatePaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"omitempty,oneof=XOF EUR USD GNF MAD"`
	Method      string  `json:"method" binding:"required,oneof=CASH BANK_TRANSFER MOBILE_MONEY CARD CHEQUE"`
	PayerName   string  `json:"payer_name" binding:"required,min=1,max=200"`
	Description string  `json:"description" binding:"max=500"`
	ReceivedAt  string  `json:"received_at" binding:"omitempty"`
}

// RejectPaymentRequest carries the mandatory rejection reason
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CancelPaymentRequest carries the mandatory cancellation reason
type CancelPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ReassignRequest moves a record to another register, or detaches it when
// register_id is null.
type ReassignRequest struct {
	RegisterID *string `json:"register_id" binding:"omitempty,uuid"`
}

func parseOptionalTime(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseOptionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Record godoc
// @ID           recordPayment
// @Summary      Record an incoming payment
// @Description  The payment starts in pending status and does not affect any register balance until validated.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body RecordPaymentRequest true "Payment record request"
// @Success      201 {object} APIResponse[paymentsapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	registerID, err := parseOptionalUUID(req.RegisterID)
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}
	receivedAt, err := parseOptionalTime(req.ReceivedAt)
	if err != nil {
		h.BadRequest(c, "Invalid received_at timestamp, expected RFC3339")
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), paymentsapp.RecordPaymentRequest{
		Amount:      toDecimal(req.Amount),
		Currency:    req.Currency,
		Method:      req.Method,
		RegisterID:  registerID,
		PayerName:   req.PayerName,
		Description: req.Description,
		ReceivedAt:  receivedAt,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetByID godoc
// @ID           getPaymentById
// @Summary      Get a payment by ID
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[paymentsapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// List godoc
// @ID           listPayments
// @Summary      List incoming payments
// @Tags         payments
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Filter by status"
// @Param        method query string false "Filter by payment method"
// @Param        register_id query string false "Filter by register" format(uuid)
// @Param        search query string false "Search in number, payer and description"
// @Success      200 {object} APIResponse[[]paymentsapp.PaymentResponse]
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var listReq struct {
		Page       int     `form:"page" binding:"omitempty,min=1"`
		PageSize   int     `form:"page_size" binding:"omitempty,min=1,max=100"`
		OrderBy    string  `form:"order_by"`
		OrderDir   string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
		Search     string  `form:"search"`
		Status     string  `form:"status" binding:"omitempty,oneof=PENDING VALIDATED REJECTED CANCELLED"`
		Method     string  `form:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER MOBILE_MONEY CARD CHEQUE"`
		RegisterID *string `form:"register_id" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	registerID, err := parseOptionalUUID(listReq.RegisterID)
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	filter := payments.PaymentFilter{
		Status:     payments.PaymentStatus(listReq.Status),
		Method:     payments.PaymentMethod(listReq.Method),
		RegisterID: registerID,
	}
	filter.Page = listReq.Page
	filter.PageSize = listReq.PageSize
	filter.OrderBy = listReq.OrderBy
	filter.OrderDir = listReq.OrderDir
	filter.Search = listReq.Search

	result, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updatePayment
// @Summary      Edit a pending payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body UpdatePaymentRequest true "Payment update request"
// @Success      200 {object} APIResponse[paymentsapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	receivedAt, err := parseOptionalTime(req.ReceivedAt)
	if err != nil {
		h.BadRequest(c, "Invalid received_at timestamp, expected RFC3339")
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), paymentID, paymentsapp.UpdatePaymentRequest{
		Amount:      toDecimal(req.Amount),
		Currency:    req.Currency,
		Method:      req.Method,
		PayerName:   req.PayerName,
		Description: req.Description,
		ReceivedAt:  receivedAt,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Validate godoc
// @ID           validatePayment
// @Summary      Validate a pending payment
// @Description  A validated payment immediately counts as a credit on its register; the register balance is recomputed in the background.
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[paymentsapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payments/{id}/validate [post]
func (h *PaymentHandler) Validate(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Missing or invalid X-User-ID header")
		return
	}

	payment, err := h.paymentService.Validate(c.Request.Context(), paymentID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Reject godoc
// @ID           rejectPayment
// @Summary      Reject a pending payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body RejectPaymentRequest true "Rejection reason"
// @Success      200 {object} APIResponse[paymentsapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payments/{id}/reject [post]
func (h *PaymentHandler) Reject(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payment, err := h.paymentService.Reject(c.Request.Context(), paymentID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Cancel godoc
// @ID           cancelPayment
// @Summary      Cancel a validated payment
// @Description  Cancelling removes the credit from the register; the balance is recomputed in the background.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body CancelPaymentRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[paymentsapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payment, err := h.paymentService.Cancel(c.Request.Context(), paymentID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Reassign godoc
// @ID           reassignPayment
// @Summary      Move a payment to another register
// @Description  Both the old and the new register have their balances recomputed in the background.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body ReassignRequest true "Target register, or null to detach"
// @Success      200 {object} APIResponse[paymentsapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /payments/{id}/reassign [post]
func (h *PaymentHandler) Reassign(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	registerID, err := parseOptionalUUID(req.RegisterID)
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	payment, err := h.paymentService.Reassign(c.Request.Context(), paymentID, registerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Delete godoc
// @ID           deletePayment
// @Summary      Delete a payment
// @Tags         payments
// @Param        id path string true "Payment ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), paymentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/payments")
	{
		group.GET("", h.List)
		group.POST("", h.Record)
		group.GET("/:id", h.GetByID)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/validate", h.Validate)
		group.POST("/:id/reject", h.Reject)
		group.POST("/:id/cancel", h.Cancel)
		group.POST("/:id/reassign", h.Reassign)
	}
}
