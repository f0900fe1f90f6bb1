package wagehandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"laborcontract/internal/domain/validation"
	"laborcontract/internal/domain/wage"
	"laborcontract/internal/transport/http/api"
	"laborcontract/internal/transport/http/middleware"
	"laborcontract/internal/transport/http/shared"
)

type Handler struct {
	Wages wage.Schedule
}

func NewHandler(wages wage.Schedule) *Handler {
	if wages == nil {
		wages = wage.DefaultTable()
	}
	return &Handler{Wages: wages}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole())
		r.Post("/allowances/calculate", h.handleCalculate)
		r.Get("/wages/floor", h.handleFloor)
		r.Get("/wages/minimum", h.handleMinimumTable)
	})
}

type calculateRequest struct {
	Type           string          `json:"type"`
	HourlyWage     decimal.Decimal `json:"hourlyWage"`
	Hours          decimal.Decimal `json:"hours"`
	Days           decimal.Decimal `json:"days"`
	DailyWorkHours decimal.Decimal `json:"dailyWorkHours"`
	SmallWorkplace bool            `json:"smallWorkplace"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload calculateRequest
	if !shared.DecodeJSON(w, r, requestID, &payload) {
		return
	}
	req, err := wage.NewRequest(strings.TrimSpace(payload.Type), payload.Hours, payload.Days)
	if err != nil {
		shared.WriteError(w, requestID, err, "allowance_failed", "failed to calculate allowance")
		return
	}
	result, err := wage.Compute(wage.Params{
		HourlyWage:     payload.HourlyWage,
		DailyWorkHours: payload.DailyWorkHours,
		SmallWorkplace: payload.SmallWorkplace,
	}, req)
	if err != nil {
		shared.WriteError(w, requestID, err, "allowance_failed", "failed to calculate allowance")
		return
	}
	api.Success(w, result, requestID)
}

type floorResponse struct {
	Year                    int   `json:"year"`
	BaseMinimumWage         int64 `json:"baseMinimumWage"`
	IncludeWeeklyHolidayPay bool  `json:"includeWeeklyHolidayPay"`
	Floor                   int64 `json:"floor"`
	HourlyWage              int64 `json:"hourlyWage,omitempty"`
	Compliant               *bool `json:"compliant,omitempty"`
}

func (h *Handler) handleFloor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	v := validation.New()

	year := h.Wages.Latest().Year
	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1988 || parsed > 9999 {
			v.Add("year", "must be a calendar year")
		} else {
			year = parsed
		}
	}
	include := false
	if raw := strings.TrimSpace(query.Get("weeklyHolidayPay")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			v.Add("weeklyHolidayPay", "must be true or false")
		} else {
			include = parsed
		}
	}
	var hourly int64
	if raw := strings.TrimSpace(query.Get("hourlyWage")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			v.Add("hourlyWage", "must be a positive whole number of won")
		} else {
			hourly = parsed
		}
	}
	if shared.Reject(w, requestID, v) {
		return
	}

	base := h.Wages.BaseFor(year)
	out := floorResponse{
		Year:                    year,
		BaseMinimumWage:         base.Hourly,
		IncludeWeeklyHolidayPay: include,
		Floor:                   wage.EffectiveFloor(base.Hourly, include),
	}
	if hourly > 0 {
		compliant := wage.CheckCompliance(hourly, base.Hourly, include) == nil
		out.HourlyWage = hourly
		out.Compliant = &compliant
	}
	api.Success(w, out, requestID)
}

func (h *Handler) handleMinimumTable(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Wages.Entries(), middleware.GetRequestID(r.Context()))
}
