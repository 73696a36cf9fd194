package timecard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/engine"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `EMPLOYEE NAME,PAY BEGIN DATE,PAY END DATE,PAY DATE
LU HERNANDEZ,08/01/2026,08/14/2026,08/20/2026

DAY,TIME IN,LUNCH START,LUNCH END,TIME OUT,REGULAR HOURS,SICK LEAVE,OVER TIME,TOTAL HOURS
MONDAY,8:00 AM,12:00 PM,12:30 PM,4:30 PM,8,,,8
TUESDAY,,,,,,8,,8
,,,,TOTAL HOURS,16,8,0,24
注释,这一行在页脚之后
`

func TestReadCSV(t *testing.T) {
	sheet, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// 员工元数据来自表头行的下一行
	assert.Equal(t, "LU HERNANDEZ", sheet.EmployeeName)
	assert.Equal(t, "08/01/2026", sheet.PayBeginDate)
	assert.Equal(t, "08/14/2026", sheet.PayEndDate)
	assert.Equal(t, "08/20/2026", sheet.PayDate)

	assert.Equal(t, []string{
		"DAY", "TIME IN", "LUNCH START", "LUNCH END", "TIME OUT",
		"REGULAR HOURS", "SICK LEAVE", "OVER TIME", "TOTAL HOURS",
	}, sheet.Header)

	// 页脚行之后的内容不进入数据行
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "MONDAY", sheet.Rows[0][engine.ColumnDay])
	assert.Equal(t, "8:00 AM", sheet.Rows[0][engine.ColumnTimeIn])
	assert.Equal(t, "8", sheet.Rows[1][engine.ColumnSickLeave])
	assert.True(t, engine.IsFooterRow(sheet.Rows[2]))
}

func TestReadCSVPayrollTotals(t *testing.T) {
	sheet, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.NotNil(t, sheet.PayrollTotals.RegularHours)
	require.NotNil(t, sheet.PayrollTotals.SickHours)
	require.NotNil(t, sheet.PayrollTotals.OvertimeHours)
	require.NotNil(t, sheet.PayrollTotals.TotalHours)
	assert.InDelta(t, 16, *sheet.PayrollTotals.RegularHours, 1e-9)
	assert.InDelta(t, 8, *sheet.PayrollTotals.SickHours, 1e-9)
	assert.InDelta(t, 0, *sheet.PayrollTotals.OvertimeHours, 1e-9)
	assert.InDelta(t, 24, *sheet.PayrollTotals.TotalHours, 1e-9)
}

func TestReadCSVRaggedRows(t *testing.T) {
	input := `DAY,TIME IN,TIME OUT,SICK LEAVE,REGULAR HOURS,OVER TIME,TOTAL HOURS
MONDAY,9:00 AM,5:00 PM
`

	sheet, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	// 短行缺少的列按空单元格补齐
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "5:00 PM", sheet.Rows[0][engine.ColumnTimeOut])
	assert.Equal(t, "", sheet.Rows[0][engine.ColumnSickLeave])
	assert.Equal(t, "", sheet.Rows[0][engine.ColumnTotalHours])
}

func TestReadCSVHeaderNormalization(t *testing.T) {
	input := `  day , Time In , time out
monday,9:00 AM,5:00 PM
`

	sheet, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)

	// 列标签大小写和空白不敏感
	assert.Equal(t, "monday", sheet.Rows[0][engine.ColumnDay])
	assert.Equal(t, "9:00 AM", sheet.Rows[0][engine.ColumnTimeIn])
}

func TestReadCSVLoadFailures(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = ReadCSV(strings.NewReader(",,,\n,,,\n"))
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = ReadCSV(strings.NewReader("EMPLOYEE NAME\nLU HERNANDEZ\n"))
	assert.ErrorIs(t, err, ErrNoDataHeader)
}

func TestReadCSVFeedsEngine(t *testing.T) {
	sheet, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	ev, err := engine.Evaluate(sheet.Rows, domain.PolicyWeeklyOT)
	require.NoError(t, err)
	assert.False(t, ev.HasErrors())
}

func TestReadXLSX(t *testing.T) {
	file := excelize.NewFile()
	records := [][]string{
		{"EMPLOYEE NAME", "PAY BEGIN DATE", "PAY END DATE", "PAY DATE"},
		{"张三", "08/01/2026", "08/14/2026", "08/20/2026"},
		{"DAY", "TIME IN", "TIME OUT", "SICK LEAVE", "REGULAR HOURS", "OVER TIME", "TOTAL HOURS"},
		{"MONDAY", "9:00 AM", "5:00 PM", "", "8", "", "8"},
		{"", "", "TOTAL HOURS", "0", "8", "0", "8"},
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, file.SetSheetRow("Sheet1", cell, &record))
	}

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	sheet, err := ReadXLSX(&buf)
	require.NoError(t, err)

	assert.Equal(t, "张三", sheet.EmployeeName)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "MONDAY", sheet.Rows[0][engine.ColumnDay])
	assert.True(t, engine.IsFooterRow(sheet.Rows[1]))
}
