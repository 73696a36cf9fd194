package timecard

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/engine"
)

// 这两个是仅有的加载期失败，校验规则层面的问题都以逐行数据的形式返回
var (
	ErrEmptySheet   = errors.New("时卡内容为空")
	ErrNoDataHeader = errors.New("找不到同时包含 DAY 和 TIME IN 的数据表头")
)

// 员工元数据区的列标签
const (
	metaEmployeeName = "EMPLOYEE NAME"
	metaPayBeginDate = "PAY BEGIN DATE"
	metaPayEndDate   = "PAY END DATE"
	metaPayDate      = "PAY DATE"
)

// Sheet 是一份解析好的时卡：员工元数据、数据表头、
// 截止到页脚行（含）的数据行，以及表底的工资合计（仅用于对照展示）。
// 数据行是 "大写列标签 -> 去除空白的单元格" 的映射，引擎只消费这个形态
type Sheet struct {
	EmployeeName string
	PayBeginDate string
	PayEndDate   string
	PayDate      string
	Header       []string
	Rows         []map[string]string

	PayrollTotals domain.PayrollTotals
}

// buildSheet 把已经按行切好的表格组装成 Sheet，CSV 和 XLSX 共用这条路径
func buildSheet(records [][]string) (*Sheet, error) {
	// 去掉完全空白的行，和原始表格中的空行保持一致的语义
	lines := make([][]string, 0, len(records))
	for _, record := range records {
		if !isBlankRecord(record) {
			lines = append(lines, record)
		}
	}

	if len(lines) == 0 {
		return nil, ErrEmptySheet
	}

	sheet := &Sheet{}

	// 1) 员工元数据：表头行的下一行就是对应的值
	metaIndex := findRecord(lines, func(cells []string) bool {
		return hasCell(cells, metaEmployeeName)
	})
	if metaIndex != -1 && metaIndex+1 < len(lines) {
		meta := zipRecord(lines[metaIndex], lines[metaIndex+1])
		sheet.EmployeeName = meta[metaEmployeeName]
		sheet.PayBeginDate = meta[metaPayBeginDate]
		sheet.PayEndDate = meta[metaPayEndDate]
		sheet.PayDate = meta[metaPayDate]
	}

	// 2) 数据表头：必须同时包含 DAY 和 TIME IN 两列
	headerIndex := findRecord(lines, isDataHeader)
	if headerIndex == -1 {
		return nil, ErrNoDataHeader
	}

	sheet.Header = make([]string, len(lines[headerIndex]))
	for i, label := range lines[headerIndex] {
		sheet.Header[i] = strings.TrimSpace(label)
	}

	// 3) 表头之下的数据行，遇到合计页脚行后立刻停止
	for _, record := range lines[headerIndex+1:] {
		row := zipRecord(lines[headerIndex], record)
		sheet.Rows = append(sheet.Rows, row)

		if engine.IsFooterRow(row) {
			break
		}
	}

	// 4) 工资合计页脚，仅用于摘要展示
	sheet.detectPayrollTotals(lines[headerIndex+1:])

	return sheet, nil
}

// detectPayrollTotals 在数据表头之下寻找工资合计行：
// 含有 TOTAL HOURS 标签、既不是数据表头也不是日行的那一行，
// 标签之后依次是正常、病假、加班、合计四个数字
func (s *Sheet) detectPayrollTotals(records [][]string) {
	for _, cells := range records {
		if !hasCell(cells, engine.ColumnTotalHours) {
			continue
		}
		if isDataHeader(cells) {
			continue
		}
		if len(cells) > 0 && engine.IsDayName(cells[0]) {
			continue
		}

		labelIndex := -1
		for i, cell := range cells {
			if strings.ToUpper(strings.TrimSpace(cell)) == engine.ColumnTotalHours {
				labelIndex = i
				break
			}
		}
		if labelIndex == -1 {
			continue
		}

		s.PayrollTotals = domain.PayrollTotals{
			RegularHours:  numberAt(cells, labelIndex+1),
			SickHours:     numberAt(cells, labelIndex+2),
			OvertimeHours: numberAt(cells, labelIndex+3),
			TotalHours:    numberAt(cells, labelIndex+4),
		}
		return
	}
}

func isBlankRecord(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func findRecord(records [][]string, match func([]string) bool) int {
	for i, record := range records {
		if match(record) {
			return i
		}
	}
	return -1
}

func hasCell(cells []string, label string) bool {
	for _, cell := range cells {
		if strings.ToUpper(strings.TrimSpace(cell)) == label {
			return true
		}
	}
	return false
}

func isDataHeader(cells []string) bool {
	return hasCell(cells, engine.ColumnDay) && hasCell(cells, engine.ColumnTimeIn)
}

// zipRecord 按表头把一行值组装成 "大写列标签 -> 去除空白的值" 的映射
func zipRecord(header []string, values []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, label := range header {
		key := strings.ToUpper(strings.TrimSpace(label))
		if key == "" {
			continue
		}

		value := ""
		if i < len(values) {
			value = strings.TrimSpace(values[i])
		}
		row[key] = value
	}
	return row
}

func numberAt(cells []string, index int) *float64 {
	if index >= len(cells) {
		return nil
	}

	trimmed := strings.TrimSpace(cells[index])
	if trimmed == "" {
		return nil
	}

	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}

	return &n
}
