package engine

import "strings"

// RowKind 是行分类的结果
type RowKind int

const (
	RowKindMalformed RowKind = iota // 既不是日行也不是页脚行
	RowKindDay
	RowKindFooter
)

// dayOrder 给出七个星期名的规范顺序，周一为 1、周日为 7
var dayOrder = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

func canonicalDay(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}

// IsFooter 判断这一行是不是表底的合计页脚行。
// 页脚的判断必须先于星期名的判断，这样页脚行才能可靠地终止行摄入
func (r Row) IsFooter() bool {
	if _, isDay := dayOrder[canonicalDay(r.Day)]; isDay {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(r.TimeOut), ColumnTotalHours)
}

// Kind 对行进行分类
func (r Row) Kind() RowKind {
	if r.IsFooter() {
		return RowKindFooter
	}
	if _, isDay := dayOrder[canonicalDay(r.Day)]; isDay {
		return RowKindDay
	}
	return RowKindMalformed
}

// IsFooterRow 允许上游（比如 CSV 读取器）在不构造完整行的情况下判断页脚
func IsFooterRow(cells map[string]string) bool {
	return NewRow(cells).IsFooter()
}

// IsDayName 判断文本是不是七个规范星期名之一（大小写和首尾空白不敏感）
func IsDayName(text string) bool {
	_, ok := dayOrder[canonicalDay(text)]
	return ok
}

// weekCursor 维护周序号：星期顺序一旦回退（例如周日之后又出现周一）就进入新的一周。
// 无法识别的行不会经过 cursor，因此不会破坏回绕判断
type weekCursor struct {
	weekIndex int
	lastOrder int // 0 表示还没有遇到过日行
}

func (c *weekCursor) next(order int) int {
	if c.weekIndex == 0 {
		c.weekIndex = 1
	}
	if c.lastOrder != 0 && order < c.lastOrder {
		c.weekIndex++
	}
	c.lastOrder = order

	return c.weekIndex
}
