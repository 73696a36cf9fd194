package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindingMessage(t *testing.T) {
	f := Finding{
		Kind: FindingWeeklyOTMismatch,
		Params: map[string]float64{
			"weekIndex":   2,
			"workedHours": 44,
			"expectedOT":  4,
			"otHours":     0,
		},
	}
	assert.Equal(t, "周加班规则：第 2 周工作 44.00 小时，应有加班 4.00 小时（实际填写 0.00）。", f.Message())

	f = Finding{Kind: FindingDailySplitMismatch, Params: map[string]float64{"expectedOT": 1.5}}
	assert.Equal(t, "日加班制：按打卡推算应为 8.00 正常工时和 1.50 加班工时。", f.Message())

	// 未知种类退化为种类本身，保证不会渲染出空文本
	assert.Equal(t, "SOMETHING", Finding{Kind: FindingKind("SOMETHING")}.Message())
}

func TestFindingMarshalJSON(t *testing.T) {
	f := Finding{Kind: FindingSickDayOverLimit, Params: map[string]float64{"sickHours": 9}}

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	// 序列化结果同时带有结构化字段和渲染好的文本
	assert.Equal(t, string(FindingSickDayOverLimit), decoded["kind"])
	assert.Equal(t, "单日病假不能超过 8 小时（实际填写 9.00）。", decoded["message"])
}

func TestRowResultErrorMessages(t *testing.T) {
	row := RowResult{
		Findings: []Finding{
			{Kind: FindingHoursWithoutPunches},
			{Kind: FindingSickDayWithWorkHours},
		},
	}

	msgs := row.ErrorMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "当天没有打卡记录，但填写了正常或加班工时。", msgs[0])
	assert.Equal(t, "纯病假日不应填写正常或加班工时。", msgs[1])
}

func TestPolicyForName(t *testing.T) {
	names := []string{"LU HERNANDEZ", " 张三 "}

	assert.Equal(t, PolicyDailyOT, PolicyForName("LU HERNANDEZ", names))
	assert.Equal(t, PolicyDailyOT, PolicyForName("lu hernandez", names))
	assert.Equal(t, PolicyDailyOT, PolicyForName("  张三", names))
	assert.Equal(t, PolicyWeeklyOT, PolicyForName("李四", names))
	assert.Equal(t, PolicyWeeklyOT, PolicyForName("", nil))
}
