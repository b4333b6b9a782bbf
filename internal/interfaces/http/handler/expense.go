package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	expensesapp "github.com/hotelier/backend/internal/application/expenses"
	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/hotelier/backend/internal/interfaces/http/middleware"
)

// ExpenseHandler handles expense and expense disbursement API endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *expensesapp.ExpenseService
	paymentService *expensesapp.ExpensePaymentService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *expensesapp.ExpenseService, paymentService *expensesapp.ExpensePaymentService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		paymentService: paymentService,
	}
}

// RecordExpenseRequest represents a request to record an expense
// @Description Request body for recording an expense
type RecordExpenseRequest struct {
	Label        string  `json:"label" binding:"required,min=1,max=200" example:"Linen restock"`
	Category     string  `json:"category" binding:"required,oneof=SUPPLIES MAINTENANCE UTILITIES PAYROLL FOOD_BEVERAGE OTHER" example:"SUPPLIES"`
	Amount       float64 `json:"amount" binding:"required,gt=0" example:"45000.00"`
	Currency     string  `json:"currency" binding:"omitempty,oneof=XOF EUR USD GNF MAD" example:"XOF"`
	RegisterID   *string `json:"register_id" binding:"omitempty,uuid"`
	SupplierName string  `json:"supplier_name" binding:"max=200"`
	IncurredAt   string  `json:"incurred_at" binding:"omitempty" example:"2026-08-27T00:00:00Z"`
}

// UpdateExpenseRequest represents a request to edit a pending expense
// @Description Request body for updating an expense
type UpdateExpenseRequest struct {
	Label        string  `json:"label" binding:"required,min=1,max=200"`
	Category     string  `json:"category" binding:"required,oneof=SUPPLIES MAINTENANCE UTILITIES PAYROLL FOOD_BEVERAGE OTHER"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Currency     string  `json:"currency" binding:"omitempty,oneof=XOF EUR USD GNF MAD"`
	SupplierName string  `json:"supplier_name" binding:"max=200"`
	IncurredAt   string  `json:"incurred_at" binding:"omitempty"`
}

// RejectExpenseRequest carries the mandatory rejection reason
type RejectExpenseRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RecordExpensePaymentRequest represents a partial disbursement against an expense
// @Description Request body for recording an expense disbursement
type RecordExpensePaymentRequest struct {
	RegisterID *string `json:"register_id" binding:"omitempty,uuid"`
	Amount     float64 `json:"amount" binding:"required,gt=0" example:"15000.00"`
	Currency   string  `json:"currency" binding:"omitempty,oneof=XOF EUR USD GNF MAD" example:"XOF"`
	PaidAt     string  `json:"paid_at" binding:"omitempty" example:"2026-08-28T14:00:00Z"`
	Note       string  `json:"note" binding:"max=500"`
}

// UpdateExpensePaymentRequest represents a request to edit a disbursement
// @Description Request body for updating an expense disbursement
type UpdateExpensePaymentRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"omitempty,oneof=XOF EUR USD GNF MAD"`
	PaidAt   string  `json:"paid_at" binding:"omitempty"`
	Note     string  `json:"note" binding:"max=500"`
}

// Record godoc
// @ID           recordExpense
// @Summary      Record an expense
// @Description  The expense starts in pending status and does not affect any register balance until approved or paid.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body RecordExpenseRequest true "Expense record request"
// @Success      201 {object} APIResponse[expensesapp.ExpenseResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /expenses [post]
func (h *ExpenseHandler) Record(c *gin.Context) {
	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	registerID, err := parseOptionalUUID(req.RegisterID)
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}
	incurredAt, err := parseOptionalTime(req.IncurredAt)
	if err != nil {
		h.BadRequest(c, "Invalid incurred_at timestamp, expected RFC3339")
		return
	}

	expense, err := h.expenseService.Record(c.Request.Context(), expensesapp.RecordExpenseRequest{
		Label:        req.Label,
		Category:     req.Category,
		Amount:       toDecimal(req.Amount),
		Currency:     req.Currency,
		RegisterID:   registerID,
		SupplierName: req.SupplierName,
		IncurredAt:   incurredAt,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, expense)
}

// GetByID godoc
// @ID           getExpenseById
// @Summary      Get an expense by ID
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[expensesapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), expenseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// List godoc
// @ID           listExpenses
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Filter by status"
// @Param        category query string false "Filter by category"
// @Param        register_id query string false "Filter by register" format(uuid)
// @Param        search query string false "Search in number, label and supplier"
// @Success      200 {object} APIResponse[[]expensesapp.ExpenseResponse]
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var listReq struct {
		Page       int     `form:"page" binding:"omitempty,min=1"`
		PageSize   int     `form:"page_size" binding:"omitempty,min=1,max=100"`
		OrderBy    string  `form:"order_by"`
		OrderDir   string  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
		Search     string  `form:"search"`
		Status     string  `form:"status" binding:"omitempty,oneof=PENDING APPROVED PAID REJECTED"`
		Category   string  `form:"category" binding:"omitempty,oneof=SUPPLIES MAINTENANCE UTILITIES PAYROLL FOOD_BEVERAGE OTHER"`
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

	filter := expenses.ExpenseFilter{
		Status:     expenses.ExpenseStatus(listReq.Status),
		Category:   expenses.ExpenseCategory(listReq.Category),
		RegisterID: registerID,
	}
	filter.Page = listReq.Page
	filter.PageSize = listReq.PageSize
	filter.OrderBy = listReq.OrderBy
	filter.OrderDir = listReq.OrderDir
	filter.Search = listReq.Search

	result, err := h.expenseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateExpense
// @Summary      Edit a pending expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body UpdateExpenseRequest true "Expense update request"
// @Success      200 {object} APIResponse[expensesapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	incurredAt, err := parseOptionalTime(req.IncurredAt)
	if err != nil {
		h.BadRequest(c, "Invalid incurred_at timestamp, expected RFC3339")
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), expenseID, expensesapp.UpdateExpenseRequest{
		Label:        req.Label,
		Category:     req.Category,
		Amount:       toDecimal(req.Amount),
		Currency:     req.Currency,
		SupplierName: req.SupplierName,
		IncurredAt:   incurredAt,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Approve godoc
// @ID           approveExpense
// @Summary      Approve a pending expense
// @Description  An approved expense immediately counts as a debit on its register; the register balance is recomputed in the background.
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[expensesapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /expenses/{id}/approve [post]
func (h *ExpenseHandler) Approve(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Missing or invalid X-User-ID header")
		return
	}

	expense, err := h.expenseService.Approve(c.Request.Context(), expenseID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// MarkPaid godoc
// @ID           markExpensePaid
// @Summary      Mark an approved expense as fully paid
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[expensesapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /expenses/{id}/pay [post]
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	expense, err := h.expenseService.MarkPaid(c.Request.Context(), expenseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Reject godoc
// @ID           rejectExpense
// @Summary      Reject a pending expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body RejectExpenseRequest true "Rejection reason"
// @Success      200 {object} APIResponse[expensesapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /expenses/{id}/reject [post]
func (h *ExpenseHandler) Reject(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	var req RejectExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	expense, err := h.expenseService.Reject(c.Request.Context(), expenseID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Reassign godoc
// @ID           reassignExpense
// @Summary      Move an expense to another register
// @Description  Both the old and the new register have their balances recomputed in the background.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body ReassignRequest true "Target register, or null to detach"
// @Success      200 {object} APIResponse[expensesapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /expenses/{id}/reassign [post]
func (h *ExpenseHandler) Reassign(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
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

	expense, err := h.expenseService.Reassign(c.Request.Context(), expenseID, registerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Delete godoc
// @ID           deleteExpense
// @Summary      Delete an expense
// @Tags         expenses
// @Param        id path string true "Expense ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), expenseID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListPayments godoc
// @ID           listExpensePayments
// @Summary      List the disbursements recorded against an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[[]expensesapp.ExpensePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /expenses/{id}/payments [get]
func (h *ExpenseHandler) ListPayments(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	result, err := h.paymentService.ListByExpense(c.Request.Context(), expenseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordPayment godoc
// @ID           recordExpensePayment
// @Summary      Record a partial disbursement against an expense
// @Description  A disbursement attached to a register immediately counts as a debit; the register balance is recomputed in the background.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body RecordExpensePaymentRequest true "Disbursement record request"
// @Success      201 {object} APIResponse[expensesapp.ExpensePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /expenses/{id}/payments [post]
func (h *ExpenseHandler) RecordPayment(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	var req RecordExpensePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	registerID, err := parseOptionalUUID(req.RegisterID)
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}
	paidAt, err := parseOptionalTime(req.PaidAt)
	if err != nil {
		h.BadRequest(c, "Invalid paid_at timestamp, expected RFC3339")
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), expensesapp.RecordExpensePaymentRequest{
		ExpenseID:  expenseID,
		RegisterID: registerID,
		Amount:     toDecimal(req.Amount),
		Currency:   req.Currency,
		PaidAt:     paidAt,
		Note:       req.Note,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetPayment godoc
// @ID           getExpensePaymentById
// @Summary      Get a disbursement by ID
// @Tags         expense-payments
// @Produce      json
// @Param        id path string true "Disbursement ID" format(uuid)
// @Success      200 {object} APIResponse[expensesapp.ExpensePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /expense-payments/{id} [get]
func (h *ExpenseHandler) GetPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// UpdatePayment godoc
// @ID           updateExpensePayment
// @Summary      Edit a disbursement
// @Tags         expense-payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Disbursement ID" format(uuid)
// @Param        request body UpdateExpensePaymentRequest true "Disbursement update request"
// @Success      200 {object} APIResponse[expensesapp.ExpensePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /expense-payments/{id} [put]
func (h *ExpenseHandler) UpdatePayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	var req UpdateExpensePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	paidAt, err := parseOptionalTime(req.PaidAt)
	if err != nil {
		h.BadRequest(c, "Invalid paid_at timestamp, expected RFC3339")
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), paymentID, expensesapp.UpdateExpensePaymentRequest{
		Amount:   toDecimal(req.Amount),
		Currency: req.Currency,
		PaidAt:   paidAt,
		Note:     req.Note,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// ReassignPayment godoc
// @ID           reassignExpensePayment
// @Summary      Move a disbursement to another register
// @Description  Both the old and the new register have their balances recomputed in the background.
// @Tags         expense-payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Disbursement ID" format(uuid)
// @Param        request body ReassignRequest true "Target register, or null to detach"
// @Success      200 {object} APIResponse[expensesapp.ExpensePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /expense-payments/{id}/reassign [post]
func (h *ExpenseHandler) ReassignPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
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

// DeletePayment godoc
// @ID           deleteExpensePayment
// @Summary      Delete a disbursement
// @Tags         expense-payments
// @Param        id path string true "Disbursement ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /expense-payments/{id} [delete]
func (h *ExpenseHandler) DeletePayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), paymentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers expense and disbursement routes
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/expenses")
	{
		group.GET("", h.List)
		group.POST("", h.Record)
		group.GET("/:id", h.GetByID)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/approve", h.Approve)
		group.POST("/:id/pay", h.MarkPaid)
		group.POST("/:id/reject", h.Reject)
		group.POST("/:id/reassign", h.Reassign)
		group.GET("/:id/payments", h.ListPayments)
		group.POST("/:id/payments", h.RecordPayment)
	}

	paymentGroup := rg.Group("/expense-payments")
	{
		paymentGroup.GET("/:id", h.GetPayment)
		paymentGroup.PUT("/:id", h.UpdatePayment)
		paymentGroup.POST("/:id/reassign", h.ReassignPayment)
		paymentGroup.DELETE("/:id", h.DeletePayment)
	}
}
