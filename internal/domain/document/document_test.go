package document

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"laborcontract/internal/domain/contract"
)

func sample() contract.Contract {
	day := 25
	perWeek := 3
	breakMinutes := 30
	return contract.Contract{
		ID:               "c-3",
		EmployerName:     "정민재",
		WorkerName:       "박지훈",
		BusinessName:     "GS25 잠실역점",
		Wage:             contract.WageTerms{HourlyWage: 11000},
		StartDate:        "2026-01-20",
		WorkDays:         []string{"화", "목", "토"},
		WorkDaysPerWeek:  &perWeek,
		WorkStartTime:    "18:00",
		WorkEndTime:      "23:00",
		BreakTimeMinutes: &breakMinutes,
		WorkLocation:     "서울시 송파구 잠실동 178-3",
		Payment:          contract.Payment{Day: &day, Month: contract.PaymentCurrentMonth},
		JobDescription:   "계산 및 상품 진열, 재고 관리",
		Status:           contract.StatusDraft,
		CreatedAt:        time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderText(t *testing.T) {
	text, err := RenderText(sample())
	require.NoError(t, err)
	for _, want := range []string{
		"사용자(갑): 정민재 (GS25 잠실역점)",
		"근로자(을): 박지훈",
		"근무 시간: 18:00 ~ 23:00 (휴게 30분)",
		"근무 요일: 화, 목, 토 (주 3일)",
		"시급: 11,000원",
		"임금 지급일: 당월 25일",
		"근로자(을) 서명: _______________",
		"계약일: 2026-01-12",
	} {
		require.Contains(t, text, want)
	}
}

func TestRenderTextComprehensive(t *testing.T) {
	c := sample()
	overtime := int64(16500)
	c.Wage.Monthly = &contract.MonthlyTerms{MonthlyWage: 2200000}
	c.Wage.Comprehensive = &contract.ComprehensiveTerms{
		BusinessSize: contract.BusinessUnder5,
		Details:      contract.ComprehensiveWageDetails{OvertimePerHour: &overtime},
	}
	c.WorkerSignature = "sig"
	text, err := RenderText(c)
	require.NoError(t, err)
	require.Contains(t, text, "월급: 2,200,000원")
	require.Contains(t, text, "포괄임금 계약: 5인 미만 사업장")
	require.Contains(t, text, "연장근로수당 (1시간당): 16,500원")
	require.NotContains(t, text, "휴일근로수당")
	require.Contains(t, text, "근로자(을) 서명: 서명 완료")
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(sample(), PDFOptions{})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = RenderPDF(sample(), PDFOptions{FontPath: "/nonexistent/font.ttf"})
	require.Error(t, err)
}

func TestExportXLSX(t *testing.T) {
	filed := sample()
	filed.ID = "c-4"
	filed.FolderID = "f-1"
	filed.Status = contract.StatusCompleted
	filed.NoEndDate = true

	out, err := ExportXLSX([]contract.Contract{sample(), filed}, map[string]string{"f-1": "2026 알바"})
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, exportHeaders, rows[0])
	require.Equal(t, "c-3", rows[1][0])
	require.Equal(t, "11000", rows[1][5])
	require.Equal(t, "화,목,토", rows[1][10])
	require.Equal(t, "없음", rows[2][9])
	require.Equal(t, "completed", rows[2][13])
	require.Equal(t, "2026 알바", rows[2][14])
}

func TestShareQR(t *testing.T) {
	url := SigningURL("https://example.test/", "c-3")
	require.Equal(t, "https://example.test/worker/contract/c-3", url)

	out, err := ShareQR(url)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, qrSize, img.Bounds().Dx())
	require.True(t, strings.HasPrefix(string(out[1:4]), "PNG"))
}
