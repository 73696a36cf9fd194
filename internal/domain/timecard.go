package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// FindingKind 标识一条校验问题的种类，
// 测试和前端都应该根据 kind 来判断问题类型，而不是解析渲染出来的文本
type FindingKind string

const (
	// 两种政策共用的逐日检查
	FindingTotalsMismatch       FindingKind = "TOTALS_MISMATCH"
	FindingRegularMismatch      FindingKind = "REGULAR_HOURS_MISMATCH"
	FindingHoursWithoutPunches  FindingKind = "HOURS_WITHOUT_PUNCHES"
	FindingSickDayWithWorkHours FindingKind = "SICK_DAY_WITH_WORK_HOURS"
	FindingSickDayOverLimit     FindingKind = "SICK_DAY_OVER_LIMIT"

	// 日加班制
	FindingDailySickWithOT       FindingKind = "DAILY_SICK_WITH_OVERTIME"
	FindingDailySickPlusWorkOver FindingKind = "DAILY_SICK_PLUS_WORK_OVER_LIMIT"
	FindingDailyOTOnSickDay      FindingKind = "DAILY_OVERTIME_ON_SICK_DAY"
	FindingDailyOTUnderThreshold FindingKind = "DAILY_OVERTIME_UNDER_THRESHOLD"
	FindingDailySplitMismatch    FindingKind = "DAILY_SPLIT_MISMATCH"
	FindingDailyOTWithoutPunches FindingKind = "DAILY_OVERTIME_WITHOUT_PUNCHES"

	// 周加班制
	FindingWeeklyOTWithoutWork    FindingKind = "WEEKLY_OVERTIME_WITHOUT_WORK"
	FindingWeeklyOTWithoutPunches FindingKind = "WEEKLY_OVERTIME_WITHOUT_PUNCHES"
	FindingWeeklySickForbidsOT    FindingKind = "WEEKLY_SICK_FORBIDS_OVERTIME"
	FindingWeeklyOTMismatch       FindingKind = "WEEKLY_OVERTIME_MISMATCH"
)

// Finding 是一条结构化的校验问题，Params 中保存渲染文本所需要的数值
type Finding struct {
	Kind   FindingKind        `json:"kind"`
	Params map[string]float64 `json:"params,omitempty"`
}

// Message 把结构化的问题渲染成给 HR 看的文本
func (f Finding) Message() string {
	p := func(key string) float64 { return f.Params[key] }

	switch f.Kind {
	case FindingTotalsMismatch:
		return fmt.Sprintf("时卡填写的总工时（%.2f）与打卡加病假推算的总工时（%.2f）不一致。", p("totalCell"), p("computedHours"))
	case FindingRegularMismatch:
		return fmt.Sprintf("填写的正常工时（%.2f）与打卡推算的工时（%.2f）不一致。", p("regHours"), p("timeHours"))
	case FindingHoursWithoutPunches:
		return "当天没有打卡记录，但填写了正常或加班工时。"
	case FindingSickDayWithWorkHours:
		return "纯病假日不应填写正常或加班工时。"
	case FindingSickDayOverLimit:
		return fmt.Sprintf("单日病假不能超过 8 小时（实际填写 %.2f）。", p("sickHours"))
	case FindingDailySickWithOT:
		return "日加班制：病假不能与加班同时填写。"
	case FindingDailySickPlusWorkOver:
		return fmt.Sprintf("日加班制：工作（%.2f）加病假（%.2f）超过单日 8 小时。", p("timeHours"), p("sickHours"))
	case FindingDailyOTOnSickDay:
		return "日加班制：有病假的工作日不允许填写加班。"
	case FindingDailyOTUnderThreshold:
		return "日加班制：工作不足 8 小时却填写了加班。"
	case FindingDailySplitMismatch:
		return fmt.Sprintf("日加班制：按打卡推算应为 8.00 正常工时和 %.2f 加班工时。", p("expectedOT"))
	case FindingDailyOTWithoutPunches:
		return "日加班制：没有打卡记录，不应填写加班。"
	case FindingWeeklyOTWithoutWork:
		return "填写了加班但当天没有对应的工作时长。"
	case FindingWeeklyOTWithoutPunches:
		return "当天没有打卡记录，但填写了加班工时。"
	case FindingWeeklySickForbidsOT:
		return fmt.Sprintf("周加班规则：第 %d 周存在病假（%.2f 小时），加班应为 0（实际填写 %.2f）。", int(p("weekIndex")), p("sickHours"), p("otHours"))
	case FindingWeeklyOTMismatch:
		return fmt.Sprintf("周加班规则：第 %d 周工作 %.2f 小时，应有加班 %.2f 小时（实际填写 %.2f）。", int(p("weekIndex")), p("workedHours"), p("expectedOT"), p("otHours"))
	default:
		return string(f.Kind)
	}
}

// 序列化时附带渲染好的文本，方便前端直接展示
func (f Finding) MarshalJSON() ([]byte, error) {
	type alias Finding
	return json.Marshal(struct {
		alias
		Message string `json:"message"`
	}{alias(f), f.Message()})
}

// RowResult 是引擎对一行时卡的评估结果
type RowResult struct {
	Day           string            `json:"day"` // 规范化的星期名，页脚行和无法识别的行为空
	IsFooter      bool              `json:"isFooter"`
	TimeHours     float64           `json:"timeHours"` // 从打卡推算出来的工作时长
	SickHours     float64           `json:"sickHours"`
	RegHours      float64           `json:"regHours"`
	OtHours       float64           `json:"otHours"`
	TotalCell     *float64          `json:"totalCell"`
	ComputedHours *float64          `json:"computedHours"` // 打卡 + 病假，页脚行为 null
	WeekIndex     *int              `json:"weekIndex"`     // 1 起始，页脚行和无法识别的行为 null
	HasError      bool              `json:"hasError"`
	Findings      []Finding         `json:"findings"`
	Cells         map[string]string `json:"cells"` // 原始单元格，用于还原展示
}

// ErrorMessages 返回渲染好的错误文本列表，顺序与发现问题的顺序一致
func (r *RowResult) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		msgs = append(msgs, f.Message())
	}
	return msgs
}

// WeekSummary 是按周汇总的结果，按 weekIndex 升序排列后交给展示层
type WeekSummary struct {
	WeekIndex   int     `json:"weekIndex"`
	WorkedHours float64 `json:"workedHours"`
	SickHours   float64 `json:"sickHours"`
	RegHours    float64 `json:"regHours"`
	OtHours     float64 `json:"otHours"`
	HasErrors   bool    `json:"hasErrors"`
}

// PayrollTotals 是表底工资汇总行中时卡自己填写的合计，仅用于展示对照
type PayrollTotals struct {
	RegularHours  *float64 `json:"regularHours"`
	SickHours     *float64 `json:"sickHours"`
	OvertimeHours *float64 `json:"overtimeHours"`
	TotalHours    *float64 `json:"totalHours"`
}

// TimecardReport 是一次完整校验的产物，缓存在 redis 中直到过期
type TimecardReport struct {
	ID            string        `json:"id"`
	EmployeeName  string        `json:"employeeName"`
	Policy        Policy        `json:"policy"`
	PayBeginDate  string        `json:"payBeginDate"`
	PayEndDate    string        `json:"payEndDate"`
	PayDate       string        `json:"payDate"`
	Header        []string      `json:"header"`
	PayrollTotals PayrollTotals `json:"payrollTotals"`
	Rows          []*RowResult  `json:"rows"`
	Weeks         []WeekSummary `json:"weeks"`
	HasErrors     bool          `json:"hasErrors"`
	Finalized     bool          `json:"finalized"`
	CreatedAt     time.Time     `json:"createdAt"`
}
