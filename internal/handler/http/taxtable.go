package http

import (
	"net/http"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/istmosoft/planilla-backend-go/internal/handler/http/response"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/validator"
)

type TaxTableHandler interface {
	GetTaxConfig(w http.ResponseWriter, r *http.Request)
	GetContributionRates(w http.ResponseWriter, r *http.Request)
}

type taxTableHandlerImpl struct {
	taxTables taxtable.Provider
}

func NewTaxTableHandler(taxTables taxtable.Provider) TaxTableHandler {
	return &taxTableHandlerImpl{taxTables: taxTables}
}

// asOfDate reads the optional as_of query param, defaulting to today.
func asOfDate(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Now(), true
	}
	return validator.IsValidDate(raw)
}

func (h *taxTableHandlerImpl) GetTaxConfig(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := claimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	asOf, ok := asOfDate(r)
	if !ok {
		response.BadRequest(w, "as_of must be a valid date (YYYY-MM-DD)", nil)
		return
	}

	cfg, err := h.taxTables.GetTaxConfig(r.Context(), companyID, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cfg)
}

func (h *taxTableHandlerImpl) GetContributionRates(w http.ResponseWriter, r *http.Request) {
	if _, _, err := claimsFromContext(r.Context()); err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	asOf, ok := asOfDate(r)
	if !ok {
		response.BadRequest(w, "as_of must be a valid date (YYYY-MM-DD)", nil)
		return
	}

	rates, err := h.taxTables.GetContributionRates(r.Context(), asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rates)
}
