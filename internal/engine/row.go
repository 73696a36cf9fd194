package engine

import (
	"strconv"
	"strings"
)

// 时卡中引擎认识的列标签（已转大写、去掉首尾空白）
const (
	ColumnDay          = "DAY"
	ColumnTimeIn       = "TIME IN"
	ColumnTimeOut      = "TIME OUT"
	ColumnLunchStart   = "LUNCH START"
	ColumnLunchEnd     = "LUNCH END"
	ColumnSickLeave    = "SICK LEAVE"
	ColumnRegularHours = "REGULAR HOURS"
	ColumnOverTime     = "OVER TIME"
	ColumnTotalHours   = "TOTAL HOURS"
)

// Row 是一行时卡在引擎内部的形态：识别出来的列各占一个字段，
// 不认识的列原样放在 Extras 中，避免在每个使用点都按字符串查表
type Row struct {
	Day          string
	TimeIn       string
	TimeOut      string
	LunchStart   string
	LunchEnd     string
	SickLeave    string
	RegularHours string
	OverTime     string
	TotalHours   string
	Extras       map[string]string
	Cells        map[string]string // 原始单元格，给展示层回显用
}

// NewRow 把上游解析出来的 "列标签 -> 单元格" 映射转换成类型化的行，
// 转换只在摄入时做一次
func NewRow(cells map[string]string) Row {
	row := Row{
		Day:          cells[ColumnDay],
		TimeIn:       cells[ColumnTimeIn],
		TimeOut:      cells[ColumnTimeOut],
		LunchStart:   cells[ColumnLunchStart],
		LunchEnd:     cells[ColumnLunchEnd],
		SickLeave:    cells[ColumnSickLeave],
		RegularHours: cells[ColumnRegularHours],
		OverTime:     cells[ColumnOverTime],
		TotalHours:   cells[ColumnTotalHours],
		Extras:       make(map[string]string),
		Cells:        cells,
	}

	for label, value := range cells {
		switch label {
		case ColumnDay, ColumnTimeIn, ColumnTimeOut, ColumnLunchStart, ColumnLunchEnd,
			ColumnSickLeave, ColumnRegularHours, ColumnOverTime, ColumnTotalHours:
		default:
			row.Extras[label] = value
		}
	}

	return row
}

// parseNumber 把单元格解析成数字，空白或非法内容返回 nil，
// 和缺卡一样，空单元格不是错误
func parseNumber(text string) *float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}

	return &n
}

// numberOrZero 在解析失败时按 0 处理，用于病假、正常工时等数值列
func numberOrZero(text string) float64 {
	if n := parseNumber(text); n != nil {
		return *n
	}
	return 0
}
