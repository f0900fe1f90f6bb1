package shared

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"laborcontract/internal/domain/advice"
	"laborcontract/internal/domain/contract"
	"laborcontract/internal/domain/validation"
	"laborcontract/internal/domain/wage"
	"laborcontract/internal/transport/http/api"
)

// WriteError maps a domain error onto the response envelope. Anything it
// does not recognise is logged and reported as fallbackCode with a 500.
func WriteError(w http.ResponseWriter, requestID string, err error, fallbackCode, fallbackMessage string) {
	var (
		invalid    *validation.Error
		compliance *wage.ComplianceError
		transition *contract.TransitionError
	)
	switch {
	case errors.As(err, &invalid):
		FailValidation(w, requestID, invalid.Issues)
	case errors.As(err, &compliance):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "compliance_error", compliance.Error(), map[string]any{
			"hourlyWage":               compliance.HourlyWage,
			"floor":                    compliance.Floor,
			"baseMinimumWage":          compliance.BaseMinimumWage,
			"includesWeeklyHolidayPay": compliance.IncludesWeeklyHolidayPay,
		}, requestID)
	case errors.Is(err, contract.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.As(err, &transition):
		api.FailWithDetails(w, http.StatusConflict, "invalid_transition", transition.Error(), map[string]any{
			"from": transition.From,
			"to":   transition.To,
		}, requestID)
	case errors.Is(err, contract.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, contract.ErrNotEditable):
		api.Fail(w, http.StatusConflict, "not_editable", err.Error(), requestID)
	case errors.Is(err, advice.ErrRateLimited):
		api.Fail(w, http.StatusTooManyRequests, "advice_rate_limited", "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.", requestID)
	case errors.Is(err, advice.ErrQuotaExceeded):
		api.Fail(w, http.StatusPaymentRequired, "advice_quota_exceeded", "AI 크레딧이 부족합니다.", requestID)
	case errors.Is(err, advice.ErrNotConfigured):
		api.Fail(w, http.StatusServiceUnavailable, "advice_unavailable", "advice provider is not configured", requestID)
	case errors.Is(err, advice.ErrUnavailable):
		api.Fail(w, http.StatusBadGateway, "advice_failed", "AI 서비스 오류", requestID)
	default:
		zap.L().Error(fallbackMessage, zap.String("request_id", requestID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
	}
}
