package wage

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"laborcontract/internal/domain/validation"
)

// AllowanceRequest is one of Overtime, Holiday or AnnualLeavePayout.
type AllowanceRequest interface {
	Kind() Kind
	check(v *validation.Validator)
}

type Overtime struct {
	Hours decimal.Decimal
}

type Holiday struct {
	Hours decimal.Decimal
}

type AnnualLeavePayout struct {
	Days decimal.Decimal
}

func (Overtime) Kind() Kind          { return KindOvertime }
func (Holiday) Kind() Kind           { return KindHoliday }
func (AnnualLeavePayout) Kind() Kind { return KindAnnualLeave }

func (o Overtime) check(v *validation.Validator) {
	if o.Hours.IsNegative() {
		v.Add("hours", "must not be negative")
	}
}

func (h Holiday) check(v *validation.Validator) {
	if h.Hours.IsNegative() {
		v.Add("hours", "must not be negative")
	}
}

func (a AnnualLeavePayout) check(v *validation.Validator) {
	if a.Days.IsNegative() {
		v.Add("days", "must not be negative")
	}
	if a.Days.GreaterThan(annualLeaveCap) {
		v.Add("days", fmt.Sprintf("must not exceed the statutory cap of %d days", AnnualLeaveCapDays))
	}
}

type Params struct {
	HourlyWage     decimal.Decimal
	DailyWorkHours decimal.Decimal
	// SmallWorkplace marks a workplace with fewer than five employees, where
	// overtime and holiday hours are paid without the 1.5 premium.
	SmallWorkplace bool
}

func (p Params) premium() decimal.Decimal {
	if p.SmallWorkplace {
		return decimal.NewFromInt(1)
	}
	return premiumMultiplier
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

type Result struct {
	Kind               Kind   `json:"type"`
	Amount             int64  `json:"amount"`
	FormulaDescription string `json:"formulaDescription"`
}

// Compute returns the allowance amount in whole won, rounded half away from
// zero. It has no side effects.
func Compute(params Params, req AllowanceRequest) (Result, error) {
	v := validation.New()
	if req == nil {
		v.Add("type", "must be one of overtime, holiday, annualLeave")
		return Result{}, v.Err()
	}
	if !params.HourlyWage.IsPositive() {
		v.Add("hourlyWage", "must be greater than zero")
	}
	if req.Kind() == KindAnnualLeave && params.DailyWorkHours.IsNegative() {
		v.Add("dailyWorkHours", "must not be negative")
	}
	req.check(v)
	if err := v.Err(); err != nil {
		return Result{}, err
	}

	wage := FormatWon(params.HourlyWage)
	premium := params.premium()
	var product decimal.Decimal
	var formula string
	switch r := req.(type) {
	case Overtime:
		product = params.HourlyWage.Mul(premium).Mul(r.Hours)
		formula = fmt.Sprintf("hourly wage (%s KRW) × %s × %s overtime hours", wage, premium.String(), r.Hours.String())
	case Holiday:
		product = params.HourlyWage.Mul(premium).Mul(r.Hours)
		formula = fmt.Sprintf("hourly wage (%s KRW) × %s × %s holiday work hours", wage, premium.String(), r.Hours.String())
	case AnnualLeavePayout:
		product = params.HourlyWage.Mul(params.DailyWorkHours).Mul(r.Days)
		formula = fmt.Sprintf("hourly wage (%s KRW) × %s hours/day × %s unused annual leave days", wage, params.DailyWorkHours.String(), r.Days.String())
	default:
		return Result{}, validation.Single("type", "unsupported allowance type")
	}

	amount := product.Round(0)
	if amount.GreaterThan(maxAmount) {
		return Result{}, validation.Single("hourlyWage", "produces an amount too large to represent")
	}
	return Result{
		Kind:               req.Kind(),
		Amount:             amount.IntPart(),
		FormulaDescription: formula,
	}, nil
}

// NewRequest builds the tagged request for a wire-level kind name.
func NewRequest(kind string, hours, days decimal.Decimal) (AllowanceRequest, error) {
	switch Kind(kind) {
	case KindOvertime:
		return Overtime{Hours: hours}, nil
	case KindHoliday:
		return Holiday{Hours: hours}, nil
	case KindAnnualLeave:
		return AnnualLeavePayout{Days: days}, nil
	}
	return nil, validation.Single("type", "must be one of overtime, holiday, annualLeave")
}
