package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	treasuryapp "github.com/hotelier/backend/internal/application/treasury"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/hotelier/backend/internal/interfaces/http/middleware"
)

// CashRegisterHandler handles cash register API endpoints
type CashRegisterHandler struct {
	BaseHandler
	registerService *treasuryapp.CashRegisterService
	ledgerService   *treasuryapp.LedgerService
}

// NewCashRegisterHandler creates a new CashRegisterHandler
func NewCashRegisterHandler(registerService *treasuryapp.CashRegisterService, ledgerService *treasuryapp.LedgerService) *CashRegisterHandler {
	return &CashRegisterHandler{
		registerService: registerService,
		ledgerService:   ledgerService,
	}
}

// CreateCashRegisterRequest represents a request to open a new cash register
// @Description Request body for creating a cash register
type CreateCashRegisterRequest struct {
	Name           string   `json:"name" binding:"required,min=1,max=200" example:"Reception desk"`
	Code           string   `json:"code" binding:"required,min=1,max=50" example:"REG-001"`
	Currency       string   `json:"currency" binding:"omitempty,oneof=XOF EUR USD GNF MAD" example:"XOF"`
	InitialBalance *float64 `json:"initial_balance" binding:"omitempty,gte=0" example:"1000.00"`
	ManagerID      *string  `json:"manager_id" binding:"omitempty,uuid"`
	Description    string   `json:"description" binding:"max=500" example:"Front desk float"`
}

// UpdateCashRegisterRequest represents a request to edit a register's descriptive fields
// @Description Request body for updating a cash register
type UpdateCashRegisterRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Description string  `json:"description" binding:"max=500"`
	ManagerID   *string `json:"manager_id" binding:"omitempty,uuid"`
}

// AdjustInitialBalanceRequest represents a request to correct the opening float
// @Description Request body for adjusting the initial balance
type AdjustInitialBalanceRequest struct {
	InitialBalance float64 `json:"initial_balance" binding:"gte=0" example:"1500.00"`
}

// ChangeStatusRequest represents a request to change a register's lifecycle status
// @Description Request body for changing register status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE MAINTENANCE CLOSED" example:"INACTIVE"`
}

// ListTransactionsRequest carries the merged-ledger pagination parameters
type ListTransactionsRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// Create godoc
// @ID           createCashRegister
// @Summary      Open a new cash register
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Param        request body CreateCashRegisterRequest true "Register creation request"
// @Success      201 {object} APIResponse[treasuryapp.CashRegisterResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /cash-registers [post]
func (h *CashRegisterHandler) Create(c *gin.Context) {
	var req CreateCashRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	appReq := treasuryapp.CreateCashRegisterRequest{
		Name:        req.Name,
		Code:        req.Code,
		Currency:    req.Currency,
		Description: req.Description,
	}
	if req.InitialBalance != nil {
		appReq.InitialBalance = toDecimal(*req.InitialBalance)
	}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			h.BadRequest(c, "Invalid manager ID format")
			return
		}
		appReq.ManagerID = &managerID
	}

	register, err := h.registerService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, register)
}

// GetByID godoc
// @ID           getCashRegisterById
// @Summary      Get a cash register with a freshly computed balance
// @Description  Refreshes the register's balance from its three transaction stores before responding. If any store is unreachable the cached balance is served and flagged stale.
// @Tags         cash-registers
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Success      200 {object} APIResponse[treasuryapp.CashRegisterDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cash-registers/{id} [get]
func (h *CashRegisterHandler) GetByID(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	detail, err := h.registerService.GetDetail(c.Request.Context(), registerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, detail)
}

// List godoc
// @ID           listCashRegisters
// @Summary      List cash registers
// @Tags         cash-registers
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Filter by status"
// @Param        currency query string false "Filter by currency"
// @Param        search query string false "Search in code and name"
// @Success      200 {object} APIResponse[[]treasuryapp.CashRegisterResponse]
// @Router       /cash-registers [get]
func (h *CashRegisterHandler) List(c *gin.Context) {
	var listReq struct {
		Page     int    `form:"page" binding:"omitempty,min=1"`
		PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
		OrderBy  string `form:"order_by"`
		OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
		Search   string `form:"search"`
		Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE CLOSED"`
		Currency string `form:"currency" binding:"omitempty,oneof=XOF EUR USD GNF MAD"`
	}
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := treasury.CashRegisterFilter{}
	filter.Page = listReq.Page
	filter.PageSize = listReq.PageSize
	filter.OrderBy = listReq.OrderBy
	filter.OrderDir = listReq.OrderDir
	filter.Search = listReq.Search
	if listReq.Status != "" {
		status := treasury.CashRegisterStatus(listReq.Status)
		filter.Status = &status
	}
	if listReq.Currency != "" {
		currency := valueobject.Currency(listReq.Currency)
		filter.Currency = &currency
	}

	result, err := h.registerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateCashRegister
// @Summary      Update a cash register's descriptive fields
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Param        request body UpdateCashRegisterRequest true "Register update request"
// @Success      200 {object} APIResponse[treasuryapp.CashRegisterResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cash-registers/{id} [put]
func (h *CashRegisterHandler) Update(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	var req UpdateCashRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	appReq := treasuryapp.UpdateCashRegisterRequest{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			h.BadRequest(c, "Invalid manager ID format")
			return
		}
		appReq.ManagerID = &managerID
	}

	register, err := h.registerService.Update(c.Request.Context(), registerID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, register)
}

// AdjustInitialBalance godoc
// @ID           adjustCashRegisterInitialBalance
// @Summary      Correct a register's opening float
// @Description  Changes the initial balance and immediately recomputes the current balance.
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Param        request body AdjustInitialBalanceRequest true "New initial balance"
// @Success      200 {object} APIResponse[treasuryapp.CashRegisterResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cash-registers/{id}/initial-balance [put]
func (h *CashRegisterHandler) AdjustInitialBalance(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	var req AdjustInitialBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	register, err := h.registerService.AdjustInitialBalance(c.Request.Context(), registerID, toDecimal(req.InitialBalance))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, register)
}

// ChangeStatus godoc
// @ID           changeCashRegisterStatus
// @Summary      Change a register's lifecycle status
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Param        request body ChangeStatusRequest true "New status"
// @Success      200 {object} APIResponse[treasuryapp.CashRegisterResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cash-registers/{id}/status [patch]
func (h *CashRegisterHandler) ChangeStatus(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	register, err := h.registerService.ChangeStatus(c.Request.Context(), registerID, treasury.CashRegisterStatus(req.Status))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, register)
}

// Delete godoc
// @ID           deleteCashRegister
// @Summary      Delete a closed cash register
// @Tags         cash-registers
// @Param        id path string true "Register ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cash-registers/{id} [delete]
func (h *CashRegisterHandler) Delete(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	if err := h.registerService.Delete(c.Request.Context(), registerID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListTransactions godoc
// @ID           listCashRegisterTransactions
// @Summary      Page through a register's merged transaction ledger
// @Description  Interleaves validated payments, partial disbursements and settled expenses into one date-descending ledger. Totals in the summary always cover the full history, not the returned page.
// @Tags         cash-registers
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} APIResponse[treasuryapp.LedgerPageResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /cash-registers/{id}/transactions [get]
func (h *CashRegisterHandler) ListTransactions(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.ledgerService.History(c.Request.Context(), registerID, req.Page, req.Limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, page)
}

// ExportTransactions godoc
// @ID           exportCashRegisterTransactions
// @Summary      Export a register's complete merged ledger
// @Description  Returns the full unpaginated transaction history together with the balance summary.
// @Tags         cash-registers
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Success      200 {object} APIResponse[treasuryapp.LedgerExportResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /cash-registers/{id}/transactions/export [get]
func (h *CashRegisterHandler) ExportTransactions(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	entries, summary, err := h.ledgerService.FullHistory(c.Request.Context(), registerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, treasuryapp.LedgerExportResponse{
		Transactions: entries,
		Summary:      *summary,
	})
}

// RecalculateBalance godoc
// @ID           recalculateCashRegisterBalance
// @Summary      Force a synchronous balance recomputation
// @Tags         cash-registers
// @Produce      json
// @Param        id path string true "Register ID" format(uuid)
// @Success      200 {object} APIResponse[treasuryapp.BalanceSummaryResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /cash-registers/{id}/recalculate-balance [post]
func (h *CashRegisterHandler) RecalculateBalance(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID format")
		return
	}

	breakdown, err := h.registerService.ForceRecalculate(c.Request.Context(), registerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, treasuryapp.ToBalanceSummaryResponse(*breakdown))
}

// RegisterRoutes registers cash register routes
func (h *CashRegisterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	registers := rg.Group("/cash-registers")
	{
		registers.GET("", h.List)
		registers.POST("", h.Create)
		registers.GET("/:id", h.GetByID)
		registers.PUT("/:id", h.Update)
		registers.DELETE("/:id", h.Delete)
		registers.PUT("/:id/initial-balance", h.AdjustInitialBalance)
		registers.PATCH("/:id/status", h.ChangeStatus)
		registers.GET("/:id/transactions", h.ListTransactions)
		registers.GET("/:id/transactions/export", h.ExportTransactions)
		registers.POST("/:id/recalculate-balance", h.RecalculateBalance)
	}
}
