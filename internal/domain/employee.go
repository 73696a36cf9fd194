package domain

import (
	"strings"
	"time"
)

// Policy 表示员工适用的加班政策
type Policy string

const (
	// PolicyDailyOT 日加班制：单日工作超过 8 小时的部分算加班
	PolicyDailyOT Policy = "DAILY_OT"
	// PolicyWeeklyOT 周加班制：单周工作超过 40 小时且当周没有病假时才允许加班
	PolicyWeeklyOT Policy = "WEEKLY_OT"
)

// Employee 是工时卡对应的员工，注意和 User（系统的 HR 用户）区分
type Employee struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Policy    Policy    `json:"policy"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// PolicyForName 根据兜底名单判断某个员工名字适用的政策，
// 名单中查不到的员工一律使用周加班制
func PolicyForName(fullName string, dailyOTNames []string) Policy {
	name := strings.ToUpper(strings.TrimSpace(fullName))
	for _, n := range dailyOTNames {
		if strings.ToUpper(strings.TrimSpace(n)) == name {
			return PolicyDailyOT
		}
	}
	return PolicyWeeklyOT
}
