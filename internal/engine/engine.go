package engine

import (
	"errors"
	"math"
	"sort"

	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/domain"
)

// ErrNoRows 表示传入的时卡没有任何数据行，这是仅有的两类加载期失败之一
// （另一类是上游找不到数据表头，由摄入层负责返回）
var ErrNoRows = errors.New("时卡中没有任何数据行")

// Evaluation 持有一次校验运行的全部状态。
// 每次加载新的时卡都会从头构建一个新的 Evaluation，不存在跨运行的共享状态
type Evaluation struct {
	Policy domain.Policy
	Rows   []*domain.RowResult
}

// Evaluate 对一份时卡执行完整校验：逐行推算真实工时并做逐日检查，
// 周加班制员工再做一遍按周聚合的检查。页脚行会立刻终止行摄入，
// 页脚之后的行不再处理
func Evaluate(rows []map[string]string, policy domain.Policy) (*Evaluation, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	ev := &Evaluation{
		Policy: policy,
		Rows:   make([]*domain.RowResult, 0, len(rows)),
	}

	cursor := weekCursor{}

	// 第一遍：逐行分类、推算真实工时、做逐日检查
	for _, cells := range rows {
		row := NewRow(cells)

		if row.IsFooter() {
			// 页脚只保留时卡自己填写的合计用于对照展示，不参与校验和汇总
			ev.Rows = append(ev.Rows, &domain.RowResult{
				IsFooter:  true,
				SickHours: numberOrZero(row.SickLeave),
				RegHours:  numberOrZero(row.RegularHours),
				OtHours:   numberOrZero(row.OverTime),
				TotalCell: parseNumber(row.TotalHours),
				Findings:  []domain.Finding{},
				Cells:     row.Cells,
			})
			break
		}

		facts := dayFacts{
			timeHours: row.WorkedHours(),
			sickHours: numberOrZero(row.SickLeave),
			regHours:  numberOrZero(row.RegularHours),
			otHours:   numberOrZero(row.OverTime),
			totalCell: parseNumber(row.TotalHours),
		}

		result := &domain.RowResult{
			TimeHours: facts.timeHours,
			SickHours: facts.sickHours,
			RegHours:  facts.regHours,
			OtHours:   facts.otHours,
			TotalCell: facts.totalCell,
			Findings:  []domain.Finding{},
			Cells:     row.Cells,
		}

		computed := facts.timeHours + facts.sickHours
		result.ComputedHours = &computed

		// 只有日行才推进周序号，无法识别的行不允许破坏回绕判断
		if row.Kind() == RowKindDay {
			result.Day = canonicalDay(row.Day)
			weekIndex := cursor.next(dayOrder[result.Day])
			result.WeekIndex = &weekIndex
		}

		result.Findings = append(result.Findings, commonChecks(facts, policy)...)
		switch policy {
		case domain.PolicyDailyOT:
			result.Findings = append(result.Findings, dailyOTChecks(facts)...)
		default:
			result.Findings = append(result.Findings, weeklyDailyChecks(facts)...)
		}
		result.HasError = len(result.Findings) > 0

		ev.Rows = append(ev.Rows, result)
	}

	// 第二遍：周加班制的按周聚合检查
	if policy == domain.PolicyWeeklyOT {
		ev.applyWeeklyOTChecks()
	}

	return ev, nil
}

// weeklyBucket 汇集一周内所有日行的工时以及行本身（用于把问题归因到行上）
type weeklyBucket struct {
	workedHours float64
	sickHours   float64
	otHours     float64
	rows        []*domain.RowResult
}

// applyWeeklyOTChecks 执行周加班制的实质性规则：
// 当周有任何病假则整周不允许加班，否则加班应等于超出 40 小时的部分。
// 不一致时把问题标在填写了加班的行上；如果没有任何行填写加班，
// 则标在该周的所有日行上，保证问题一定可见
func (ev *Evaluation) applyWeeklyOTChecks() {
	buckets := make(map[int]*weeklyBucket)

	for _, row := range ev.Rows {
		if row.IsFooter || row.WeekIndex == nil {
			continue
		}

		bucket, exists := buckets[*row.WeekIndex]
		if !exists {
			bucket = &weeklyBucket{}
			buckets[*row.WeekIndex] = bucket
		}

		bucket.workedHours += row.TimeHours
		bucket.sickHours += row.SickHours
		bucket.otHours += row.OtHours
		bucket.rows = append(bucket.rows, row)
	}

	for weekIndex, bucket := range buckets {
		expectedOT := 0.0
		if bucket.sickHours == 0 {
			expectedOT = max(bucket.workedHours-40, 0)
		}

		if math.Abs(bucket.otHours-expectedOT) > Epsilon {
			var f domain.Finding
			if bucket.sickHours > 0 {
				f = finding(domain.FindingWeeklySickForbidsOT, map[string]float64{
					"weekIndex": float64(weekIndex),
					"sickHours": bucket.sickHours,
					"otHours":   bucket.otHours,
				})
			} else {
				f = finding(domain.FindingWeeklyOTMismatch, map[string]float64{
					"weekIndex":   float64(weekIndex),
					"workedHours": bucket.workedHours,
					"expectedOT":  expectedOT,
					"otHours":     bucket.otHours,
				})
			}

			rowsToFlag := bucket.rows
			if bucket.otHours > 0 {
				rowsToFlag = nil
				for _, row := range bucket.rows {
					if row.OtHours > 0 {
						rowsToFlag = append(rowsToFlag, row)
					}
				}
			}

			for _, row := range rowsToFlag {
				row.HasError = true
				row.Findings = append(row.Findings, f)
			}
		}
	}
}

// WeeklySummary 按周汇总工时，输出按 weekIndex 升序，
// 页脚行和无法识别的行不参与汇总
func (ev *Evaluation) WeeklySummary() []domain.WeekSummary {
	buckets := make(map[int]*domain.WeekSummary)

	for _, row := range ev.Rows {
		if row.IsFooter || row.WeekIndex == nil {
			continue
		}

		summary, exists := buckets[*row.WeekIndex]
		if !exists {
			summary = &domain.WeekSummary{WeekIndex: *row.WeekIndex}
			buckets[*row.WeekIndex] = summary
		}

		summary.WorkedHours += row.TimeHours
		summary.SickHours += row.SickHours
		summary.RegHours += row.RegHours
		summary.OtHours += row.OtHours
		if row.HasError {
			summary.HasErrors = true
		}
	}

	summaries := make([]domain.WeekSummary, 0, len(buckets))
	for _, summary := range buckets {
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].WeekIndex < summaries[j].WeekIndex
	})

	return summaries
}

// HasErrors 判断是否存在任何有问题的非页脚行，导出、定稿等动作都要先过这一关
func (ev *Evaluation) HasErrors() bool {
	for _, row := range ev.Rows {
		if !row.IsFooter && row.HasError {
			return true
		}
	}
	return false
}
