package document

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"laborcontract/internal/domain/contract"
)

const exportSheet = "계약서"

var exportHeaders = []string{
	"계약 ID", "사업주", "근로자", "사업장", "임금 형태", "시급", "월급", "주휴수당 포함",
	"근무 시작일", "근무 종료일", "근무 요일", "근무 시간", "근무 장소", "상태", "폴더", "작성일",
}

// ExportXLSX writes one row per contract under a header row.
func ExportXLSX(contracts []contract.Contract, folderNames map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for r, c := range contracts {
		end := c.EndDate
		if c.NoEndDate {
			end = "없음"
		}
		var monthly any
		if c.Wage.Monthly != nil {
			monthly = c.Wage.Monthly.MonthlyWage
		}
		weekly := "아니오"
		if c.Wage.IncludeWeeklyHolidayPay {
			weekly = "예"
		}
		created := ""
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Format("2006-01-02")
		}
		row := []any{
			c.ID, c.EmployerName, c.WorkerName, c.BusinessName, string(c.Wage.Type()),
			c.Wage.HourlyWage, monthly, weekly,
			c.StartDate, end, strings.Join(c.WorkDays, ","), c.WorkStartTime + "~" + c.WorkEndTime,
			c.WorkLocation, string(c.Status), folderNames[c.FolderID], created,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
