package wage

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComplianceError reports an hourly wage under the statutory floor.
type ComplianceError struct {
	HourlyWage               int64
	Floor                    int64
	BaseMinimumWage          int64
	IncludesWeeklyHolidayPay bool
}

func (e *ComplianceError) Error() string {
	if e.IncludesWeeklyHolidayPay {
		return fmt.Sprintf("hourly wage %s is below the minimum %s including weekly holiday pay (base %s)",
			FormatAmount(e.HourlyWage), FormatAmount(e.Floor), FormatAmount(e.BaseMinimumWage))
	}
	return fmt.Sprintf("hourly wage %s is below the minimum wage %s", FormatAmount(e.HourlyWage), FormatAmount(e.Floor))
}

// EffectiveFloor is the lowest lawful quoted hourly wage. A wage that already
// bundles weekly holiday pay must clear base × 1.2.
func EffectiveFloor(baseMinimumWage int64, includeWeeklyHolidayPay bool) int64 {
	if !includeWeeklyHolidayPay {
		return baseMinimumWage
	}
	return decimal.NewFromInt(baseMinimumWage).Mul(weeklyHolidayMultiplier).Round(0).IntPart()
}

func CheckCompliance(hourlyWage, baseMinimumWage int64, includeWeeklyHolidayPay bool) error {
	floor := EffectiveFloor(baseMinimumWage, includeWeeklyHolidayPay)
	if hourlyWage < floor {
		return &ComplianceError{
			HourlyWage:               hourlyWage,
			Floor:                    floor,
			BaseMinimumWage:          baseMinimumWage,
			IncludesWeeklyHolidayPay: includeWeeklyHolidayPay,
		}
	}
	return nil
}
