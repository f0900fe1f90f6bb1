package contract

import (
	"time"

	"laborcontract/internal/domain/validation"
	"laborcontract/internal/domain/wage"
)

// ComprehensiveWageDetails holds flat per-unit rates bundled into the wage.
// A nil rate means that allowance is paid separately, not waived.
type ComprehensiveWageDetails struct {
	OvertimePerHour   *int64 `json:"overtimePerHour,omitempty"`
	NightAllowance    *int64 `json:"nightAllowance,omitempty"`
	HolidayPerDay     *int64 `json:"holidayPerDay,omitempty"`
	AnnualLeavePerDay *int64 `json:"annualLeavePerDay,omitempty"`
}

// Covers reports whether the bundle fixes a rate for the allowance kind.
func (d ComprehensiveWageDetails) Covers(kind wage.Kind) bool {
	switch kind {
	case wage.KindOvertime:
		return d.OvertimePerHour != nil
	case wage.KindHoliday:
		return d.HolidayPerDay != nil
	case wage.KindAnnualLeave:
		return d.AnnualLeavePerDay != nil
	}
	return false
}

type MonthlyTerms struct {
	MonthlyWage int64
}

type ComprehensiveTerms struct {
	BusinessSize BusinessSize
	Details      ComprehensiveWageDetails
}

// WageTerms separates the hourly, monthly and comprehensive modes. Monthly
// and Comprehensive are nil unless that mode applies.
type WageTerms struct {
	HourlyWage              int64
	IncludeWeeklyHolidayPay bool
	Monthly                 *MonthlyTerms
	Comprehensive           *ComprehensiveTerms
}

func (w WageTerms) Type() WageType {
	if w.Monthly != nil {
		return WageMonthly
	}
	return WageHourly
}

type Payment struct {
	Day        *int
	Month      PaymentMonth
	EndOfMonth bool
}

type Contract struct {
	ID         string
	EmployerID string
	WorkerID   string
	FolderID   string

	EmployerName     string
	WorkerName       string
	Wage             WageTerms
	StartDate        string
	EndDate          string
	NoEndDate        bool
	WorkDays         []string
	WorkDaysPerWeek  *int
	WorkStartTime    string
	WorkEndTime      string
	BreakTimeMinutes *int
	WorkLocation     string
	BusinessName     string
	Payment          Payment
	JobDescription   string

	Status            Status
	EmployerSignature string
	WorkerSignature   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartYear is the calendar year used for the minimum wage lookup.
func (c Contract) StartYear() int {
	start, err := time.Parse(validation.DateLayout, c.StartDate)
	if err != nil {
		return 0
	}
	return start.Year()
}

func (c Contract) FullySigned() bool {
	return c.EmployerSignature != "" && c.WorkerSignature != ""
}

type Folder struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"ownerId"`
	Name      string      `json:"name"`
	Color     FolderColor `json:"color"`
	CreatedAt time.Time   `json:"createdAt"`
}

type ListResult struct {
	Items []Record `json:"items"`
	Total int      `json:"total"`
}

type Dashboard struct {
	View      View     `json:"view"`
	Pending   []Record `json:"pending"`
	Completed []Record `json:"completed"`
	Folders   []Folder `json:"folders"`
	Folder    *Folder  `json:"folder,omitempty"`
	contracts []Contract
}

// Contracts returns every contract visible in the dashboard view.
func (d Dashboard) Contracts() []Contract {
	return d.contracts
}

type MoveResult struct {
	Count       int    `json:"count"`
	FolderID    string `json:"folderId,omitempty"`
	Destination string `json:"destination"`
	Message     string `json:"message"`
}

type FolderDeleteResult struct {
	Detached int  `json:"detached"`
	NextView View `json:"nextView"`
}
