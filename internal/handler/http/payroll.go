package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/istmosoft/planilla-backend-go/internal/domain/payroll"
	"github.com/istmosoft/planilla-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	CreateRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetRunDetails(w http.ResponseWriter, r *http.Request)

	CalculateRun(w http.ResponseWriter, r *http.Request)
	ApproveRun(w http.ResponseWriter, r *http.Request)
	CancelRun(w http.ResponseWriter, r *http.Request)
	MarkRunPaid(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// Helper to get company_id and user_id from JWT context
func claimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func (h *payrollHandlerImpl) CreateRun(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req payroll.CreatePayrollRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateRun(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run created", result)
}

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRun(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := payroll.PayrollRunFilter{Page: 1, Limit: 20}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := payroll.PayrollStatus(status)
		filter.Status = &s
	}
	if year, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && year > 0 {
		filter.Year = &year
	}

	result, err := h.payrollService.ListRuns(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
	})
}

func (h *payrollHandlerImpl) GetRunDetails(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRunDetails(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CalculateRun(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	result, err := h.payrollService.CalculateRun(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ApproveRun(w http.ResponseWriter, r *http.Request) {
	companyID, userID, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	result, err := h.payrollService.ApproveRun(r.Context(), companyID, id, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CancelRun(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	result, err := h.payrollService.CancelRun(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) MarkRunPaid(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	result, err := h.payrollService.MarkRunPaid(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
