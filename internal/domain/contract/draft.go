package contract

import (
	"fmt"
	"strings"
	"time"

	"laborcontract/internal/domain/validation"
)

// Draft is the flat input shape accepted from clients.
type Draft struct {
	EmployerName             string                    `json:"employerName"`
	WorkerName               string                    `json:"workerName"`
	WageType                 string                    `json:"wageType"`
	HourlyWage               int64                     `json:"hourlyWage"`
	MonthlyWage              *int64                    `json:"monthlyWage,omitempty"`
	StartDate                string                    `json:"startDate"`
	EndDate                  string                    `json:"endDate,omitempty"`
	NoEndDate                bool                      `json:"noEndDate,omitempty"`
	WorkDays                 []string                  `json:"workDays"`
	WorkDaysPerWeek          *int                      `json:"workDaysPerWeek,omitempty"`
	WorkStartTime            string                    `json:"workStartTime"`
	WorkEndTime              string                    `json:"workEndTime"`
	BreakTimeMinutes         *int                      `json:"breakTimeMinutes,omitempty"`
	WorkLocation             string                    `json:"workLocation"`
	BusinessName             string                    `json:"businessName,omitempty"`
	PaymentDay               *int                      `json:"paymentDay,omitempty"`
	PaymentMonth             string                    `json:"paymentMonth,omitempty"`
	PaymentEndOfMonth        bool                      `json:"paymentEndOfMonth,omitempty"`
	JobDescription           string                    `json:"jobDescription,omitempty"`
	IncludeWeeklyHolidayPay  bool                      `json:"includeWeeklyHolidayPay"`
	IsComprehensiveWage      bool                      `json:"isComprehensiveWage"`
	BusinessSize             string                    `json:"businessSize,omitempty"`
	ComprehensiveWageDetails *ComprehensiveWageDetails `json:"comprehensiveWageDetails,omitempty"`
}

// Record is the flat output shape of a stored contract.
type Record struct {
	ID         string `json:"id"`
	EmployerID string `json:"employerId"`
	WorkerID   string `json:"workerId,omitempty"`
	FolderID   string `json:"folderId,omitempty"`
	Draft
	Status            Status    `json:"status"`
	EmployerSignature string    `json:"employerSignature,omitempty"`
	WorkerSignature   string    `json:"workerSignature,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// FromDraft validates the flat shape and builds the contract terms. Status
// and ownership fields are left for the caller.
func FromDraft(d Draft) (Contract, error) {
	v := validation.New()

	v.Required("employerName", d.EmployerName, "is required")
	v.Required("workerName", d.WorkerName, "is required")
	v.Required("workLocation", d.WorkLocation, "is required")

	wageType := WageType(strings.ToLower(strings.TrimSpace(d.WageType)))
	if wageType == "" {
		wageType = WageHourly
	}
	v.Enum("wageType", string(wageType), wageTypeValues, "must be hourly or monthly")
	if d.HourlyWage <= 0 {
		v.Add("hourlyWage", "must be greater than zero")
	}

	terms := WageTerms{
		HourlyWage:              d.HourlyWage,
		IncludeWeeklyHolidayPay: d.IncludeWeeklyHolidayPay,
	}
	if wageType == WageMonthly {
		switch {
		case d.MonthlyWage == nil:
			v.Add("monthlyWage", "is required when wageType is monthly")
		case *d.MonthlyWage <= 0:
			v.Add("monthlyWage", "must be greater than zero")
		default:
			terms.Monthly = &MonthlyTerms{MonthlyWage: *d.MonthlyWage}
		}
	}
	if d.IsComprehensiveWage {
		size := BusinessSize(strings.ToLower(strings.TrimSpace(d.BusinessSize)))
		if size == "" {
			v.Add("businessSize", "is required for a comprehensive wage contract")
		} else {
			v.Enum("businessSize", string(size), businessSizeValues, "must be under5 or over5")
		}
		if d.ComprehensiveWageDetails == nil {
			v.Add("comprehensiveWageDetails", "is required for a comprehensive wage contract")
		} else {
			checkDetails(v, *d.ComprehensiveWageDetails)
			terms.Comprehensive = &ComprehensiveTerms{BusinessSize: size, Details: *d.ComprehensiveWageDetails}
		}
	}

	start, _ := v.Date("startDate", d.StartDate)
	endDate := strings.TrimSpace(d.EndDate)
	if endDate != "" {
		if d.NoEndDate {
			v.Add("endDate", "must be empty when noEndDate is set")
		}
		if end, ok := v.Date("endDate", endDate); ok {
			v.DateOrder("startDate", start, "endDate", end)
		}
	}

	days, err := normalizeWorkDays(d.WorkDays)
	if err != nil {
		v.Add("workDays", err.Error())
	}
	if d.WorkDaysPerWeek != nil {
		v.IntRange("workDaysPerWeek", *d.WorkDaysPerWeek, 1, 7, "must be between 1 and 7")
	}
	v.Clock("workStartTime", d.WorkStartTime)
	v.Clock("workEndTime", d.WorkEndTime)
	if d.BreakTimeMinutes != nil && *d.BreakTimeMinutes < 0 {
		v.Add("breakTimeMinutes", "must not be negative")
	}

	if d.PaymentDay != nil {
		v.IntRange("paymentDay", *d.PaymentDay, 1, MaxPaymentDay, fmt.Sprintf("must be between 1 and %d", MaxPaymentDay))
	}
	paymentMonth := PaymentMonth(strings.ToLower(strings.TrimSpace(d.PaymentMonth)))
	v.Enum("paymentMonth", string(paymentMonth), paymentMonthValues, "must be current or next")

	if err := v.Err(); err != nil {
		return Contract{}, err
	}

	return Contract{
		EmployerName:     strings.TrimSpace(d.EmployerName),
		WorkerName:       strings.TrimSpace(d.WorkerName),
		Wage:             terms,
		StartDate:        strings.TrimSpace(d.StartDate),
		EndDate:          endDate,
		NoEndDate:        d.NoEndDate,
		WorkDays:         days,
		WorkDaysPerWeek:  d.WorkDaysPerWeek,
		WorkStartTime:    strings.TrimSpace(d.WorkStartTime),
		WorkEndTime:      strings.TrimSpace(d.WorkEndTime),
		BreakTimeMinutes: d.BreakTimeMinutes,
		WorkLocation:     strings.TrimSpace(d.WorkLocation),
		BusinessName:     strings.TrimSpace(d.BusinessName),
		Payment: Payment{
			Day:        d.PaymentDay,
			Month:      paymentMonth,
			EndOfMonth: d.PaymentEndOfMonth,
		},
		JobDescription: strings.TrimSpace(d.JobDescription),
	}, nil
}

func checkDetails(v *validation.Validator, d ComprehensiveWageDetails) {
	rates := []struct {
		field string
		value *int64
	}{
		{"comprehensiveWageDetails.overtimePerHour", d.OvertimePerHour},
		{"comprehensiveWageDetails.nightAllowance", d.NightAllowance},
		{"comprehensiveWageDetails.holidayPerDay", d.HolidayPerDay},
		{"comprehensiveWageDetails.annualLeavePerDay", d.AnnualLeavePerDay},
	}
	for _, rate := range rates {
		if rate.value != nil && *rate.value < 0 {
			v.Add(rate.field, "must not be negative")
		}
	}
}

// normalizeWorkDays drops duplicates and returns the days in week order.
func normalizeWorkDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("must include at least one day")
	}
	picked := make(map[string]bool, len(days))
	for _, day := range days {
		day = strings.TrimSpace(day)
		if weekIndex(day) < 0 {
			return nil, fmt.Errorf("unknown work day %q", day)
		}
		picked[day] = true
	}
	out := make([]string, 0, len(picked))
	for _, day := range WeekDays {
		if picked[day] {
			out = append(out, day)
		}
	}
	return out, nil
}

func weekIndex(day string) int {
	for i, candidate := range WeekDays {
		if candidate == day {
			return i
		}
	}
	return -1
}

// ToDraft flattens the terms back into the client shape.
func (c Contract) ToDraft() Draft {
	d := Draft{
		EmployerName:            c.EmployerName,
		WorkerName:              c.WorkerName,
		WageType:                string(c.Wage.Type()),
		HourlyWage:              c.Wage.HourlyWage,
		StartDate:               c.StartDate,
		EndDate:                 c.EndDate,
		NoEndDate:               c.NoEndDate,
		WorkDays:                append([]string(nil), c.WorkDays...),
		WorkDaysPerWeek:         c.WorkDaysPerWeek,
		WorkStartTime:           c.WorkStartTime,
		WorkEndTime:             c.WorkEndTime,
		BreakTimeMinutes:        c.BreakTimeMinutes,
		WorkLocation:            c.WorkLocation,
		BusinessName:            c.BusinessName,
		PaymentDay:              c.Payment.Day,
		PaymentMonth:            string(c.Payment.Month),
		PaymentEndOfMonth:       c.Payment.EndOfMonth,
		JobDescription:          c.JobDescription,
		IncludeWeeklyHolidayPay: c.Wage.IncludeWeeklyHolidayPay,
	}
	if c.Wage.Monthly != nil {
		monthly := c.Wage.Monthly.MonthlyWage
		d.MonthlyWage = &monthly
	}
	if c.Wage.Comprehensive != nil {
		details := c.Wage.Comprehensive.Details
		d.IsComprehensiveWage = true
		d.BusinessSize = string(c.Wage.Comprehensive.BusinessSize)
		d.ComprehensiveWageDetails = &details
	}
	return d
}

func (c Contract) ToRecord() Record {
	return Record{
		ID:                c.ID,
		EmployerID:        c.EmployerID,
		WorkerID:          c.WorkerID,
		FolderID:          c.FolderID,
		Draft:             c.ToDraft(),
		Status:            c.Status,
		EmployerSignature: c.EmployerSignature,
		WorkerSignature:   c.WorkerSignature,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func Records(contracts []Contract) []Record {
	out := make([]Record, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, c.ToRecord())
	}
	return out
}
