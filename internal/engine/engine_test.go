package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/domain"
)

// workRow 构造一个带打卡的日行，数值列按需填写
func workRow(day, timeIn, timeOut, lunchStart, lunchEnd, sick, reg, ot, total string) map[string]string {
	return map[string]string{
		ColumnDay:          day,
		ColumnTimeIn:       timeIn,
		ColumnTimeOut:      timeOut,
		ColumnLunchStart:   lunchStart,
		ColumnLunchEnd:     lunchEnd,
		ColumnSickLeave:    sick,
		ColumnRegularHours: reg,
		ColumnOverTime:     ot,
		ColumnTotalHours:   total,
	}
}

func footerRow(reg, sick, ot, total string) map[string]string {
	return map[string]string{
		ColumnDay:          "",
		ColumnTimeOut:      "TOTAL HOURS",
		ColumnSickLeave:    sick,
		ColumnRegularHours: reg,
		ColumnOverTime:     ot,
		ColumnTotalHours:   total,
	}
}

func findingKinds(row *domain.RowResult) []domain.FindingKind {
	kinds := make([]domain.FindingKind, 0, len(row.Findings))
	for _, f := range row.Findings {
		kinds = append(kinds, f.Kind)
	}
	return kinds
}

func TestWorkedHours(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
		want float64
	}{
		{
			name: "正常工作日扣除午休",
			row:  workRow("MONDAY", "8:00 AM", "4:30 PM", "12:00 PM", "12:30 PM", "", "8", "", "8"),
			want: 8,
		},
		{
			name: "没有午休",
			row:  workRow("MONDAY", "8:00 AM", "6:00 PM", "", "", "", "", "", ""),
			want: 10,
		},
		{
			name: "缺上班打卡按零处理",
			row:  workRow("MONDAY", "", "5:00 PM", "", "", "", "", "", ""),
			want: 0,
		},
		{
			name: "缺下班打卡按零处理",
			row:  workRow("MONDAY", "9:00 AM", "", "", "", "", "", "", ""),
			want: 0,
		},
		{
			name: "只打了一个午休卡不扣除",
			row:  workRow("MONDAY", "8:00 AM", "4:00 PM", "12:00 PM", "", "", "", "", ""),
			want: 8,
		},
		{
			name: "午休时间倒挂不产生负扣除",
			row:  workRow("MONDAY", "8:00 AM", "4:00 PM", "1:00 PM", "12:00 PM", "", "", "", ""),
			want: 8,
		},
		{
			name: "下班早于上班按零处理",
			row:  workRow("MONDAY", "5:00 PM", "9:00 AM", "", "", "", "", "", ""),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NewRow(tt.row).WorkedHours(), 1e-9)
		})
	}
}

func TestEvaluateNoRows(t *testing.T) {
	_, err := Evaluate(nil, domain.PolicyWeeklyOT)
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = Evaluate([]map[string]string{}, domain.PolicyDailyOT)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestEvaluateFooterHaltsIngestion(t *testing.T) {
	rows := []map[string]string{
		workRow("MONDAY", "8:00 AM", "4:30 PM", "12:00 PM", "12:30 PM", "", "8", "", "8"),
		footerRow("8", "", "", "8"),
		workRow("TUESDAY", "8:00 AM", "4:30 PM", "12:00 PM", "12:30 PM", "", "8", "", "8"),
	}

	ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
	require.NoError(t, err)

	// 页脚之后的行不再处理
	require.Len(t, ev.Rows, 2)
	assert.False(t, ev.Rows[0].IsFooter)
	assert.True(t, ev.Rows[1].IsFooter)
	assert.Nil(t, ev.Rows[1].WeekIndex)
	assert.Nil(t, ev.Rows[1].ComputedHours)
	assert.False(t, ev.HasErrors())
}

func TestEvaluateWeekIndex(t *testing.T) {
	days := []string{
		"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
		"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
	}

	rows := make([]map[string]string, 0, len(days))
	for _, day := range days {
		rows = append(rows, workRow(day, "9:00 AM", "5:00 PM", "", "", "", "8", "", "8"))
	}

	ev, err := Evaluate(rows, domain.PolicyDailyOT)
	require.NoError(t, err)
	require.Len(t, ev.Rows, 14)

	for i, row := range ev.Rows {
		require.NotNil(t, row.WeekIndex)
		if i < 7 {
			assert.Equal(t, 1, *row.WeekIndex)
		} else {
			assert.Equal(t, 2, *row.WeekIndex)
		}
	}
}

func TestEvaluateMalformedRowSkipsWeekCursor(t *testing.T) {
	rows := []map[string]string{
		workRow("MONDAY", "9:00 AM", "5:00 PM", "", "", "", "8", "", "8"),
		workRow("假期", "", "", "", "", "", "", "", ""),
		workRow("TUESDAY", "9:00 AM", "5:00 PM", "", "", "", "8", "", "8"),
	}

	ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
	require.NoError(t, err)
	require.Len(t, ev.Rows, 3)

	// 无法识别的行没有周序号，也不影响前后日行的周序号
	assert.Nil(t, ev.Rows[1].WeekIndex)
	assert.Equal(t, "", ev.Rows[1].Day)
	require.NotNil(t, ev.Rows[0].WeekIndex)
	require.NotNil(t, ev.Rows[2].WeekIndex)
	assert.Equal(t, 1, *ev.Rows[0].WeekIndex)
	assert.Equal(t, 1, *ev.Rows[2].WeekIndex)
}

func TestEvaluateCommonChecks(t *testing.T) {
	t.Run("总工时不一致", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "8:00 AM", "4:30 PM", "12:00 PM", "12:30 PM", "", "8", "", "9"),
		}

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)
		assert.Contains(t, findingKinds(ev.Rows[0]), domain.FindingTotalsMismatch)
		assert.True(t, ev.Rows[0].HasError)
	})

	t.Run("正常工时与打卡不一致", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "8:00 AM", "4:30 PM", "12:00 PM", "12:30 PM", "", "7.5", "", "8"),
		}

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)
		assert.Contains(t, findingKinds(ev.Rows[0]), domain.FindingRegularMismatch)
	})

	t.Run("没有打卡却填写了工时", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "", "", "", "", "", "8", "", "8"),
		}

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)
		assert.Contains(t, findingKinds(ev.Rows[0]), domain.FindingHoursWithoutPunches)
	})

	t.Run("合法的纯病假日", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "", "", "", "", "8", "", "", "8"),
		}

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)
		assert.Empty(t, ev.Rows[0].Findings)
		assert.False(t, ev.HasErrors())
	})

	t.Run("病假超过单日上限", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "", "", "", "", "9", "", "", "9"),
		}

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)
		assert.Contains(t, findingKinds(ev.Rows[0]), domain.FindingSickDayOverLimit)
	})

	t.Run("容差内的误差不报错", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "8:00 AM", "4:30 PM", "12:00 PM", "12:30 PM", "", "8.005", "", "8.005"),
		}

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)
		assert.Empty(t, ev.Rows[0].Findings)
	})
}

func TestEvaluateDailyOT(t *testing.T) {
	t.Run("超过八小时正确拆分", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "8:00 AM", "6:00 PM", "", "", "", "8", "2", "10"),
		}

		ev, err := Evaluate(rows, domain.PolicyDailyOT)
		require.NoError(t, err)
		assert.Empty(t, ev.Rows[0].Findings)
		assert.False(t, ev.HasErrors())
	})

	t.Run("超过八小时没有拆分", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "8:00 AM", "6:00 PM", "", "", "", "10", "", "10"),
		}

		ev, err := Evaluate(rows, domain.PolicyDailyOT)
		require.NoError(t, err)

		kinds := findingKinds(ev.Rows[0])
		require.Contains(t, kinds, domain.FindingDailySplitMismatch)

		// 问题中应带上推算出来的加班时长
		for _, f := range ev.Rows[0].Findings {
			if f.Kind == domain.FindingDailySplitMismatch {
				assert.InDelta(t, 2, f.Params["expectedOT"], 1e-9)
			}
		}
	})

	t.Run("不足八小时填写加班", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "9:00 AM", "5:00 PM", "", "", "", "8", "1", "8"),
		}

		ev, err := Evaluate(rows, domain.PolicyDailyOT)
		require.NoError(t, err)
		assert.Contains(t, findingKinds(ev.Rows[0]), domain.FindingDailyOTUnderThreshold)
	})

	t.Run("病假与加班同日", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "9:00 AM", "1:00 PM", "", "", "4", "4", "1", "8"),
		}

		ev, err := Evaluate(rows, domain.PolicyDailyOT)
		require.NoError(t, err)

		kinds := findingKinds(ev.Rows[0])
		assert.Contains(t, kinds, domain.FindingDailySickWithOT)
		assert.Contains(t, kinds, domain.FindingDailyOTOnSickDay)
	})

	t.Run("半天病假加上班超过八小时", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "9:00 AM", "2:00 PM", "", "", "4", "5", "", "9"),
		}

		ev, err := Evaluate(rows, domain.PolicyDailyOT)
		require.NoError(t, err)
		assert.Contains(t, findingKinds(ev.Rows[0]), domain.FindingDailySickPlusWorkOver)
	})

	t.Run("没有打卡却填写了加班", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "", "", "", "", "", "", "2", "2"),
		}

		ev, err := Evaluate(rows, domain.PolicyDailyOT)
		require.NoError(t, err)
		assert.Contains(t, findingKinds(ev.Rows[0]), domain.FindingDailyOTWithoutPunches)
	})
}

func TestEvaluateWeeklyOT(t *testing.T) {
	// 周一到周五每天 8.8 小时，全周 44 小时
	fortyFourHourWeek := func(otDay string, ot string) []map[string]string {
		days := []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}
		rows := make([]map[string]string, 0, len(days))
		for _, day := range days {
			dayOT := ""
			if day == otDay {
				dayOT = ot
			}
			rows = append(rows, workRow(day, "8:00 AM", "4:48 PM", "", "", "", "8.8", dayOT, "8.8"))
		}
		return rows
	}

	t.Run("加班等于超出四十小时的部分", func(t *testing.T) {
		ev, err := Evaluate(fortyFourHourWeek("FRIDAY", "4"), domain.PolicyWeeklyOT)
		require.NoError(t, err)
		assert.False(t, ev.HasErrors())
	})

	t.Run("没有填写应有的加班", func(t *testing.T) {
		ev, err := Evaluate(fortyFourHourWeek("", ""), domain.PolicyWeeklyOT)
		require.NoError(t, err)

		// 没有任何行填写加班时，问题标在该周的所有日行上
		for _, row := range ev.Rows {
			require.Contains(t, findingKinds(row), domain.FindingWeeklyOTMismatch)
			assert.True(t, row.HasError)
		}

		f := ev.Rows[0].Findings[0]
		assert.InDelta(t, 1, f.Params["weekIndex"], 1e-9)
		assert.InDelta(t, 44, f.Params["workedHours"], 1e-9)
		assert.InDelta(t, 4, f.Params["expectedOT"], 1e-9)
		assert.InDelta(t, 0, f.Params["otHours"], 1e-9)
	})

	t.Run("加班填写不足时只标有加班的行", func(t *testing.T) {
		ev, err := Evaluate(fortyFourHourWeek("FRIDAY", "2"), domain.PolicyWeeklyOT)
		require.NoError(t, err)

		for i, row := range ev.Rows {
			if i == 4 {
				assert.Contains(t, findingKinds(row), domain.FindingWeeklyOTMismatch)
			} else {
				assert.Empty(t, row.Findings)
			}
		}
	})

	t.Run("当周有病假则不允许加班", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "", "", "", "", "8", "", "", "8"),
			workRow("TUESDAY", "8:00 AM", "4:00 PM", "", "", "", "8", "", "8"),
			workRow("WEDNESDAY", "8:00 AM", "4:00 PM", "", "", "", "8", "1", "8"),
		}

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)

		// 问题只标在填写了加班的周三
		assert.Empty(t, ev.Rows[0].Findings)
		assert.Empty(t, ev.Rows[1].Findings)
		assert.Contains(t, findingKinds(ev.Rows[2]), domain.FindingWeeklySickForbidsOT)
	})

	t.Run("不满四十小时不需要加班", func(t *testing.T) {
		rows := []map[string]string{
			workRow("MONDAY", "8:00 AM", "4:00 PM", "", "", "", "8", "", "8"),
			workRow("TUESDAY", "8:00 AM", "4:00 PM", "", "", "", "8", "", "8"),
		}

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)
		assert.False(t, ev.HasErrors())
	})

	t.Run("逐周独立判断", func(t *testing.T) {
		rows := append(fortyFourHourWeek("FRIDAY", "4"), fortyFourHourWeek("", "")...)

		ev, err := Evaluate(rows, domain.PolicyWeeklyOT)
		require.NoError(t, err)

		// 第一周合法，第二周缺加班
		for i, row := range ev.Rows {
			if i < 5 {
				assert.Empty(t, row.Findings)
			} else {
				assert.Contains(t, findingKinds(row), domain.FindingWeeklyOTMismatch)
			}
		}
	})
}

func TestWeeklySummary(t *testing.T) {
	rows := []map[string]string{
		workRow("MONDAY", "8:00 AM", "4:00 PM", "", "", "", "8", "", "8"),
		workRow("SUNDAY", "", "", "", "", "8", "", "", "8"),
		workRow("MONDAY", "8:00 AM", "6:00 PM", "", "", "", "9", "1", "10"),
		footerRow("17", "8", "1", "26"),
	}

	ev, err := Evaluate(rows, domain.PolicyDailyOT)
	require.NoError(t, err)

	summaries := ev.WeeklySummary()
	require.Len(t, summaries, 2)

	assert.Equal(t, 1, summaries[0].WeekIndex)
	assert.InDelta(t, 8, summaries[0].WorkedHours, 1e-9)
	assert.InDelta(t, 8, summaries[0].SickHours, 1e-9)
	assert.False(t, summaries[0].HasErrors)

	assert.Equal(t, 2, summaries[1].WeekIndex)
	assert.InDelta(t, 10, summaries[1].WorkedHours, 1e-9)
	assert.InDelta(t, 1, summaries[1].OtHours, 1e-9)
	// 第二周的行拆分错误，周汇总要把问题冒泡上来
	assert.True(t, summaries[1].HasErrors)
}

func TestEvaluateIdempotent(t *testing.T) {
	rows := []map[string]string{
		workRow("MONDAY", "8:00 AM", "6:00 PM", "", "", "", "10", "", "10"),
		footerRow("10", "", "", "10"),
	}

	first, err := Evaluate(rows, domain.PolicyDailyOT)
	require.NoError(t, err)
	second, err := Evaluate(rows, domain.PolicyDailyOT)
	require.NoError(t, err)

	// 两次评估互不影响，结果完全一致
	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		assert.Equal(t, findingKinds(first.Rows[i]), findingKinds(second.Rows[i]))
	}
}
