package wage

import "github.com/shopspring/decimal"

type Kind string

const (
	KindOvertime    Kind = "overtime"
	KindHoliday     Kind = "holiday"
	KindAnnualLeave Kind = "annualLeave"
)

// AnnualLeaveCapDays is the statutory maximum of paid annual leave days.
const AnnualLeaveCapDays = 26

var (
	premiumMultiplier       = decimal.RequireFromString("1.5")
	weeklyHolidayMultiplier = decimal.RequireFromString("1.2")
	annualLeaveCap          = decimal.NewFromInt(AnnualLeaveCapDays)
)

var Kinds = []string{string(KindOvertime), string(KindHoliday), string(KindAnnualLeave)}
