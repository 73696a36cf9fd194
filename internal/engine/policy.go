package engine

import (
	"math"

	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/domain"
)

// dayFacts 汇集逐日检查需要的全部数值，真实工时来自打卡，其余来自时卡填写
type dayFacts struct {
	timeHours float64
	sickHours float64
	regHours  float64
	otHours   float64
	totalCell *float64
}

func (f dayFacts) hasPunches() bool {
	return f.timeHours > 0
}

func finding(kind domain.FindingKind, params map[string]float64) domain.Finding {
	return domain.Finding{Kind: kind, Params: params}
}

// commonChecks 是两种政策共用的逐日检查。
// 日加班制下单日超过 8 小时的正常工时由拆分检查负责，这里不再重复比较
func commonChecks(f dayFacts, policy domain.Policy) []domain.Finding {
	var findings []domain.Finding

	// 时卡填写的总工时要和打卡加病假推算出来的一致
	computed := f.timeHours + f.sickHours
	if f.totalCell != nil && math.Abs(*f.totalCell-computed) > Epsilon {
		findings = append(findings, finding(domain.FindingTotalsMismatch, map[string]float64{
			"totalCell":     *f.totalCell,
			"computedHours": computed,
		}))
	}

	if f.hasPunches() {
		splitOwnsRegular := policy == domain.PolicyDailyOT && f.timeHours > 8+Epsilon
		// 有打卡时正常工时必须等于打卡推算的工时
		if !splitOwnsRegular && math.Abs(f.regHours-f.timeHours) > Epsilon {
			findings = append(findings, finding(domain.FindingRegularMismatch, map[string]float64{
				"regHours":  f.regHours,
				"timeHours": f.timeHours,
			}))
		}
	} else if f.regHours > 0 || f.otHours > 0 {
		findings = append(findings, finding(domain.FindingHoursWithoutPunches, nil))
	}

	// 纯病假日：不允许出现正常或加班工时，且病假上限 8 小时
	if !f.hasPunches() && f.sickHours > 0 {
		if f.regHours > 0 || f.otHours > 0 {
			findings = append(findings, finding(domain.FindingSickDayWithWorkHours, nil))
		}
		if f.sickHours > 8+Epsilon {
			findings = append(findings, finding(domain.FindingSickDayOverLimit, map[string]float64{
				"sickHours": f.sickHours,
			}))
		}
	}

	return findings
}

// dailyOTChecks 是日加班制专属的逐日检查：单日超过 8 小时的部分才算加班，
// 并且病假和加班不能出现在同一天
func dailyOTChecks(f dayFacts) []domain.Finding {
	var findings []domain.Finding

	if !f.hasPunches() {
		// 没有打卡时病假的合法性由公共检查负责，这里只拦加班
		if f.otHours > 0 {
			findings = append(findings, finding(domain.FindingDailyOTWithoutPunches, nil))
		}
		return findings
	}

	if f.otHours > 0 && f.sickHours > 0 {
		findings = append(findings, finding(domain.FindingDailySickWithOT, nil))
	}

	if f.sickHours > 0 {
		// 半天病假加上班：两者之和不能超过 8 小时，也不允许加班
		if f.timeHours+f.sickHours > 8+Epsilon {
			findings = append(findings, finding(domain.FindingDailySickPlusWorkOver, map[string]float64{
				"timeHours": f.timeHours,
				"sickHours": f.sickHours,
			}))
		}
		if f.otHours > 0 {
			findings = append(findings, finding(domain.FindingDailyOTOnSickDay, nil))
		}
		return findings
	}

	if f.timeHours <= 8+Epsilon {
		if f.otHours > 0 {
			findings = append(findings, finding(domain.FindingDailyOTUnderThreshold, map[string]float64{
				"otHours": f.otHours,
			}))
		}
		return findings
	}

	// 超过 8 小时：正常工时应该恰好是 8，剩下的全部记为加班
	expectedOT := f.timeHours - 8
	if math.Abs(f.regHours-8) > Epsilon || math.Abs(f.otHours-expectedOT) > Epsilon {
		findings = append(findings, finding(domain.FindingDailySplitMismatch, map[string]float64{
			"expectedOT": expectedOT,
			"regHours":   f.regHours,
			"otHours":    f.otHours,
		}))
	}

	return findings
}

// weeklyDailyChecks 是周加班制员工的轻量逐日检查，按周的实质性检查在第二遍做
func weeklyDailyChecks(f dayFacts) []domain.Finding {
	var findings []domain.Finding

	if f.hasPunches() {
		if f.timeHours <= Epsilon && f.otHours > 0 {
			findings = append(findings, finding(domain.FindingWeeklyOTWithoutWork, nil))
		}
	} else if f.otHours > 0 {
		findings = append(findings, finding(domain.FindingWeeklyOTWithoutPunches, nil))
	}

	return findings
}
