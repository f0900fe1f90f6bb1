package advice

import (
	"fmt"
	"strings"

	"laborcontract/internal/domain/contract"
	"laborcontract/internal/domain/wage"
)

// Summary renders the contract as the plain-text field list sent to the
// advisor. The field order is fixed.
func Summary(c contract.Contract) string {
	var b strings.Builder
	b.WriteString("근로계약서 정보:\n")
	line := func(label, value string) {
		fmt.Fprintf(&b, "- %s: %s\n", label, value)
	}

	line("사업주", c.EmployerName)
	line("근로자", c.WorkerName)

	pay := wage.FormatAmount(c.Wage.HourlyWage) + "원"
	if c.Wage.IncludeWeeklyHolidayPay {
		pay += " (주휴수당 포함)"
	}
	line("시급", pay)

	end := "미정"
	switch {
	case c.NoEndDate:
		end = "(종료일 없음)"
	case c.EndDate != "":
		end = c.EndDate
	}
	line("근무 기간", c.StartDate+" ~ "+end)
	line("근무 시간", c.WorkStartTime+" ~ "+c.WorkEndTime)

	perWeek := "미정"
	if c.WorkDaysPerWeek != nil {
		perWeek = fmt.Sprintf("주 %d일", *c.WorkDaysPerWeek)
	}
	line("주당 근무일수", perWeek)
	line("근무 장소", c.WorkLocation)
	line("임금 지급일", PaymentText(c.Payment))

	job := c.JobDescription
	if strings.TrimSpace(job) == "" {
		job = "미기재"
	}
	line("업무 내용", job)
	return b.String()
}

// PaymentText renders the pay day, e.g. "익월 10일" or "당월 말일".
func PaymentText(p contract.Payment) string {
	month := "익월"
	if p.Month == contract.PaymentCurrentMonth {
		month = "당월"
	}
	switch {
	case p.EndOfMonth:
		return month + " 말일"
	case p.Day != nil:
		return fmt.Sprintf("%s %d일", month, *p.Day)
	}
	return "미정"
}
