package document

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"laborcontract/internal/domain/advice"
	"laborcontract/internal/domain/contract"
	"laborcontract/internal/domain/wage"
)

var contractTemplate = template.Must(template.New("contract").Parse(`근로계약서

1. 근로계약 당사자
   사용자(갑): {{.EmployerName}}{{if .BusinessName}} ({{.BusinessName}}){{end}}
   근로자(을): {{.WorkerName}}

2. 근로조건
   - 근무 장소: {{.WorkLocation}}
   - 업무 내용: {{.JobDescription}}
   - 근무 기간: {{.Period}}
   - 근무 시간: {{.Hours}}{{if .Break}} (휴게 {{.Break}}){{end}}
   - 근무 요일: {{.WorkDays}}{{if .PerWeek}} (주 {{.PerWeek}}일){{end}}

3. 임금
{{- range .WageLines}}
   - {{.}}
{{- end}}
   - 임금 지급일: {{.PayDay}}
   - 지급 방법: 근로자 명의 계좌 이체

4. 기타 사항
   - 본 계약서에 명시되지 않은 사항은 근로기준법에 따릅니다.
   - 근로자는 4대 보험에 가입됩니다.

본인은 위 근로조건을 충분히 이해하였으며, 이에 동의합니다.

사용자(갑) 서명: {{if .EmployerSigned}}서명 완료{{else}}_______________{{end}}
근로자(을) 서명: {{if .WorkerSigned}}서명 완료{{else}}_______________{{end}}

계약일: {{.CreatedAt}}
`))

type templateData struct {
	EmployerName   string
	BusinessName   string
	WorkerName     string
	WorkLocation   string
	JobDescription string
	Period         string
	Hours          string
	Break          string
	WorkDays       string
	PerWeek        int
	WageLines      []string
	PayDay         string
	EmployerSigned bool
	WorkerSigned   bool
	CreatedAt      string
}

func won(amount int64) string {
	return wage.FormatAmount(amount) + "원"
}

func wageLines(terms contract.WageTerms) []string {
	var lines []string
	hourly := "시급: " + won(terms.HourlyWage)
	if terms.IncludeWeeklyHolidayPay {
		hourly += " (주휴수당 포함)"
	}
	lines = append(lines, hourly)
	if terms.Monthly != nil {
		lines = append(lines, "월급: "+won(terms.Monthly.MonthlyWage))
	}
	if terms.Comprehensive != nil {
		size := "5인 이상 사업장"
		if terms.Comprehensive.BusinessSize == contract.BusinessUnder5 {
			size = "5인 미만 사업장"
		}
		lines = append(lines, "포괄임금 계약: "+size)
		d := terms.Comprehensive.Details
		rates := []struct {
			label string
			value *int64
		}{
			{"연장근로수당 (1시간당)", d.OvertimePerHour},
			{"야간근로수당", d.NightAllowance},
			{"휴일근로수당 (1일당)", d.HolidayPerDay},
			{"연차유급휴가 수당 (1일당)", d.AnnualLeavePerDay},
		}
		for _, rate := range rates {
			if rate.value != nil {
				lines = append(lines, rate.label+": "+won(*rate.value))
			}
		}
	}
	return lines
}

// RenderText fills the standard labor contract form.
func RenderText(c contract.Contract) (string, error) {
	data := templateData{
		EmployerName:   c.EmployerName,
		BusinessName:   c.BusinessName,
		WorkerName:     c.WorkerName,
		WorkLocation:   c.WorkLocation,
		JobDescription: c.JobDescription,
		Hours:          c.WorkStartTime + " ~ " + c.WorkEndTime,
		WorkDays:       strings.Join(c.WorkDays, ", "),
		WageLines:      wageLines(c.Wage),
		PayDay:         advice.PaymentText(c.Payment),
		EmployerSigned: c.EmployerSignature != "",
		WorkerSigned:   c.WorkerSignature != "",
	}
	if data.JobDescription == "" {
		data.JobDescription = "미기재"
	}
	switch {
	case c.NoEndDate:
		data.Period = c.StartDate + " ~ (기간의 정함이 없음)"
	case c.EndDate != "":
		data.Period = c.StartDate + " ~ " + c.EndDate
	default:
		data.Period = c.StartDate + " ~"
	}
	if c.BreakTimeMinutes != nil && *c.BreakTimeMinutes > 0 {
		data.Break = fmt.Sprintf("%d분", *c.BreakTimeMinutes)
	}
	if c.WorkDaysPerWeek != nil {
		data.PerWeek = *c.WorkDaysPerWeek
	}
	if !c.CreatedAt.IsZero() {
		data.CreatedAt = c.CreatedAt.Format("2006-01-02")
	}

	var buf bytes.Buffer
	if err := contractTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render contract: %w", err)
	}
	return buf.String(), nil
}
