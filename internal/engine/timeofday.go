package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeOfDay 表示一天中的某个时刻（从 0 点起的分钟数）。
// Valid 为 false 表示当格没有打卡，缺卡是一种合法状态而不是错误
type TimeOfDay struct {
	Minutes int
	Valid   bool
}

var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])?$`)

// ParseTimeOfDay 解析 "H:MM" 或 "H:MM AM/PM" 形式的打卡时间，
// 解析不了的内容一律按缺卡处理，由调用方决定缺卡的语义
func ParseTimeOfDay(text string) TimeOfDay {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return TimeOfDay{}
	}

	match := timePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return TimeOfDay{}
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	suffix := strings.ToUpper(match[3])

	// 12 小时制的回绕：12 AM 是 0 点，12 PM 是中午
	if suffix == "AM" && hours == 12 {
		hours = 0
	} else if suffix == "PM" && hours < 12 {
		hours += 12
	}

	if hours > 23 || minutes > 59 {
		return TimeOfDay{}
	}

	return TimeOfDay{Minutes: hours*60 + minutes, Valid: true}
}

// Format 按 12 小时制渲染时刻，与解析时的显示习惯保持一致
func (t TimeOfDay) Format() string {
	if !t.Valid {
		return ""
	}

	hours := t.Minutes / 60
	minutes := t.Minutes % 60
	suffix := "AM"

	switch {
	case hours == 0:
		hours = 12
	case hours == 12:
		suffix = "PM"
	case hours > 12:
		hours -= 12
		suffix = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", hours, minutes, suffix)
}
