package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/bank_statements_svc/internal/apperrors"
	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	portssvc "github.com/SscSPs/bank_statements_svc/internal/core/ports/services"
	"github.com/SscSPs/bank_statements_svc/internal/dto"
	"github.com/SscSPs/bank_statements_svc/internal/middleware"
	"github.com/SscSPs/bank_statements_svc/internal/utils/aggregation"
)

// statementHandler handles HTTP requests related to bank statements.
type statementHandler struct {
	statementService  portssvc.StatementSvcFacade
	generationService portssvc.GenerationSvcFacade
}

func newStatementHandler(services *portssvc.ServiceContainer) *statementHandler {
	return &statementHandler{
		statementService:  services.Statement,
		generationService: services.Generation,
	}
}

// registerStatementRoutes registers all statement routes on the versioned group.
func registerStatementRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newStatementHandler(services)

	rg.GET("/by-iban/:iban", h.listMonthsByIBAN)
	rg.GET("/by-iban", h.getByIBANMonth)
	rg.POST("/generate", h.generate)
	rg.POST("/generate-current", middleware.RequireIBANClaims(), h.generateCurrent)
	rg.GET("/:id", h.getByID)
	rg.PUT("/:id", h.updateByID)
	rg.DELETE("/:id", h.deleteByID)
	rg.DELETE("/by-identifier", h.deleteByIdentifier)
	rg.PUT("/account/:iban/statements", h.replaceForAccount)
}

// respondError maps a service error onto the HTTP status and machine-readable
// error kind of the JSON failure contract.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var status int
	var kind string
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status, kind = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperrors.ErrMonthInProgress):
		status, kind = http.StatusBadRequest, "month_in_progress"
	case errors.Is(err, apperrors.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrNoTransactions):
		status, kind = http.StatusNotFound, "no_transactions_found"
	case errors.Is(err, apperrors.ErrForbidden):
		status, kind = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrDuplicate):
		status, kind = http.StatusConflict, "duplicate"
	case errors.Is(err, apperrors.ErrUpstreamFetch):
		status, kind = http.StatusBadGateway, "upstream_fetch_error"
	case errors.Is(err, apperrors.ErrPersistence):
		status, kind = http.StatusInternalServerError, "persistence_error"
	default:
		status, kind = http.StatusInternalServerError, "internal_error"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
		// Internal detail stays out of the response body.
		c.JSON(status, dto.ErrorResponse{Error: kind})
		return
	}
	logger.Warn("Request rejected", slog.String("error", err.Error()))
	c.JSON(status, dto.ErrorResponse{Error: kind, Message: err.Error()})
}

// enforceIBANScope rejects callers whose token carries an IBAN different from
// the one they are operating on. Anonymous requests pass: identity is
// enforced separately where it is mandatory.
func enforceIBANScope(c *gin.Context, iban string) bool {
	claims, ok := middleware.GetClaimsFromContext(c)
	if ok && claims.IBAN != "" && claims.IBAN != iban {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("IBAN scope violation",
			slog.String("claims_iban", claims.IBAN), slog.String("requested_iban", iban))
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "forbidden",
			Message: "token does not grant access to this IBAN",
		})
		return false
	}
	return true
}

// listMonthsByIBAN godoc
// @Summary List month summaries for an IBAN
// @Description Returns one summary per stored statement month, newest first, optionally filtered by an inclusive from/to period range
// @Tags statements
// @Produce json
// @Param iban path string true "Spanish IBAN (ES + 22 digits)"
// @Param from query string false "Inclusive start period (YYYY-MM)"
// @Param to query string false "Inclusive end period (YYYY-MM)"
// @Success 200 {array} dto.MonthSummaryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid IBAN or period"
// @Failure 403 {object} dto.ErrorResponse "IBAN outside token scope"
// @Router /by-iban/{iban} [get]
func (h *statementHandler) listMonthsByIBAN(c *gin.Context) {
	var path dto.IBANPathParams
	if err := c.ShouldBindUri(&path); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}
	var params dto.ListByIBANParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}
	if !enforceIBANScope(c, path.IBAN) {
		return
	}

	var rng domain.MonthRange
	if params.From != "" {
		from, err := aggregation.ParseMonth(params.From)
		if err != nil {
			respondError(c, err)
			return
		}
		rng.From = &from
	}
	if params.To != "" {
		to, err := aggregation.ParseMonth(params.To)
		if err != nil {
			respondError(c, err)
			return
		}
		rng.To = &to
	}

	statements, err := h.statementService.ListByIBAN(c.Request.Context(), path.IBAN, rng)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]dto.MonthSummaryResponse, len(statements))
	for i := range statements {
		summaries[i] = dto.ToMonthSummaryResponse(&statements[i])
	}
	c.JSON(http.StatusOK, summaries)
}

// getByIBANMonth godoc
// @Summary Get one statement by IBAN and month
// @Description Fetches the statement for one calendar month. A miss is 404 unless on-demand generation is enabled
// @Tags statements
// @Produce json
// @Param iban query string true "Spanish IBAN (ES + 22 digits)"
// @Param month query string true "Period (YYYY-MM)"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid IBAN or month"
// @Failure 403 {object} dto.ErrorResponse "IBAN outside token scope"
// @Failure 404 {object} dto.ErrorResponse "No statement for the period"
// @Router /by-iban [get]
func (h *statementHandler) getByIBANMonth(c *gin.Context) {
	var params dto.GetByIBANMonthParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}
	if !enforceIBANScope(c, params.IBAN) {
		return
	}

	period, err := aggregation.ParseMonth(params.Month)
	if err != nil {
		respondError(c, err)
		return
	}

	claims, _ := middleware.GetClaimsFromContext(c)
	token := middleware.GetBearerTokenFromContext(c)

	stmt, outcome, err := h.statementService.GetByIBANMonth(c.Request.Context(), params.IBAN, period, claims, token)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if outcome == domain.OutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ToStatementResponse(stmt))
}

// generate godoc
// @Summary Generate statements
// @Description With an empty body, runs bulk generation across the whole account directory. With accountId/month/transactions, generates one statement for a closed month
// @Tags statements
// @Accept json
// @Produce json
// @Param request body dto.GenerateStatementRequest false "Generation scope; omit for a bulk run"
// @Success 200 {object} dto.StatementResponse "Existing statement returned unchanged"
// @Success 201 {object} dto.StatementResponse "Statement created"
// @Failure 400 {object} dto.ErrorResponse "Missing fields or current month requested"
// @Router /generate [post]
func (h *statementHandler) generate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateStatementRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind generation request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
			return
		}
	}

	if req.IsBulkTrigger() {
		results := h.generationService.GenerateBulk(c.Request.Context())
		generated := 0
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				continue
			}
			generated++
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "bulk generation completed",
			"total":     len(results),
			"generated": generated,
			"failed":    failed,
		})
		return
	}

	claims, _ := middleware.GetClaimsFromContext(c)
	stmt, outcome, err := h.generationService.GenerateSingle(c.Request.Context(), req, claims)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if outcome == domain.OutcomeExisting {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToStatementResponse(stmt))
}

// generateCurrent godoc
// @Summary Refresh the live month's statement
// @Description Regenerates the caller's current-month statement from freshly fetched transactions. The IBAN comes from the bearer token; a body IBAN must match it
// @Tags statements
// @Accept json
// @Produce json
// @Param request body dto.GenerateCurrentRequest false "Optional IBAN pin"
// @Success 200 {object} dto.StatementResponse "Statement updated"
// @Success 201 {object} dto.StatementResponse "Statement created"
// @Failure 401 {object} dto.ErrorResponse "Missing or IBAN-less token"
// @Failure 403 {object} dto.ErrorResponse "Body IBAN differs from token IBAN"
// @Failure 404 {object} dto.ErrorResponse "No transactions this month"
// @Failure 502 {object} dto.ErrorResponse "Transactions service unavailable"
// @Security BearerAuth
// @Router /generate-current [post]
func (h *statementHandler) generateCurrent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateCurrentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind refresh request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
			return
		}
	}

	// RequireIBANClaims already guaranteed claims with an IBAN.
	claims, _ := middleware.GetClaimsFromContext(c)
	if req.IBAN != "" && req.IBAN != claims.IBAN {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "forbidden",
			Message: "token does not grant access to this IBAN",
		})
		return
	}

	token := middleware.GetBearerTokenFromContext(c)
	stmt, outcome, err := h.generationService.RefreshCurrentMonth(c.Request.Context(), claims.IBAN, claims, token)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if outcome == domain.OutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ToStatementResponse(stmt))
}

// getByID godoc
// @Summary Get a statement by id
// @Tags statements
// @Produce json
// @Param id path string true "Statement id (UUID)"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed id"
// @Failure 404 {object} dto.ErrorResponse "Statement not found"
// @Router /{id} [get]
func (h *statementHandler) getByID(c *gin.Context) {
	var path dto.StatementIDPathParams
	if err := c.ShouldBindUri(&path); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	stmt, err := h.statementService.GetByID(c.Request.Context(), path.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	// Legacy statements may carry only an opaque account id; the scope check
	// applies only when the stored snapshot names an IBAN.
	if stmt.Account.IBAN != "" && !enforceIBANScope(c, stmt.Account.IBAN) {
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponse(stmt))
}

// updateByID godoc
// @Summary Partially update a statement
// @Description Replaces the transaction list and/or totals; omitted fields are left untouched
// @Tags statements
// @Accept json
// @Produce json
// @Param id path string true "Statement id (UUID)"
// @Param request body dto.UpdateStatementRequest true "Fields to replace"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed id or body"
// @Failure 404 {object} dto.ErrorResponse "Statement not found"
// @Router /{id} [put]
func (h *statementHandler) updateByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var path dto.StatementIDPathParams
	if err := c.ShouldBindUri(&path); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	var req dto.UpdateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind update request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	stmt, err := h.statementService.UpdateByID(c.Request.Context(), path.ID, req.ToDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Statement updated", slog.String("statement_id", path.ID))
	c.JSON(http.StatusOK, dto.ToStatementResponse(stmt))
}

// deleteByID godoc
// @Summary Delete a statement by id
// @Tags statements
// @Produce json
// @Param id path string true "Statement id (UUID)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Malformed id"
// @Failure 404 {object} dto.ErrorResponse "Statement not found"
// @Router /{id} [delete]
func (h *statementHandler) deleteByID(c *gin.Context) {
	var path dto.StatementIDPathParams
	if err := c.ShouldBindUri(&path); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	if err := h.statementService.DeleteByID(c.Request.Context(), path.ID); err != nil {
		respondError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Statement deleted", slog.String("statement_id", path.ID))
	c.JSON(http.StatusOK, gin.H{"message": "statement deleted"})
}

// deleteByIdentifier godoc
// @Summary Delete a statement by flexible identifier
// @Description Deletes one statement named either by id or by an accountId or accountName together with a month
// @Tags statements
// @Accept json
// @Produce json
// @Param request body dto.DeleteByIdentifierRequest true "Statement identifier"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "No usable identifier"
// @Failure 404 {object} dto.ErrorResponse "Statement not found"
// @Router /by-identifier [delete]
func (h *statementHandler) deleteByIdentifier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DeleteByIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind delete request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	if err := h.statementService.DeleteByIdentifier(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Statement deleted by identifier")
	c.JSON(http.StatusOK, gin.H{"message": "statement deleted"})
}

// replaceForAccount godoc
// @Summary Replace an account's statement history
// @Description Atomically replaces every stored statement of the account with the supplied list
// @Tags statements
// @Accept json
// @Produce json
// @Param iban path string true "Spanish IBAN (ES + 22 digits)"
// @Param request body []dto.StatementPayload true "Replacement statements"
// @Success 200 {array} dto.StatementResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid IBAN or statement list"
// @Failure 403 {object} dto.ErrorResponse "IBAN outside token scope"
// @Router /account/{iban}/statements [put]
func (h *statementHandler) replaceForAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var path dto.IBANPathParams
	if err := c.ShouldBindUri(&path); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}
	if !enforceIBANScope(c, path.IBAN) {
		return
	}

	var payloads []dto.StatementPayload
	if err := c.ShouldBindJSON(&payloads); err != nil {
		logger.Warn("Failed to bind replacement statements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	statements := make([]domain.Statement, len(payloads))
	for i, p := range payloads {
		statements[i] = p.ToDomain()
	}

	replaced, err := h.statementService.ReplaceForAccount(c.Request.Context(), path.IBAN, statements)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Statement history replaced",
		slog.String("iban", path.IBAN), slog.Int("count", len(replaced)))
	responses := make([]dto.StatementResponse, len(replaced))
	for i := range replaced {
		responses[i] = dto.ToStatementResponse(&replaced[i])
	}
	c.JSON(http.StatusOK, responses)
}
