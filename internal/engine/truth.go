package engine

// Epsilon 是全引擎统一的工时比较容差，用来吸收四舍五入带来的误差
const Epsilon = 0.01

// WorkedHours 从打卡推算当天的真实工作时长。
// 上下班缺任何一个打卡都按 0 处理；午休只有在两个打卡都存在时才扣除
func (r Row) WorkedHours() float64 {
	in := ParseTimeOfDay(r.TimeIn)
	out := ParseTimeOfDay(r.TimeOut)
	if !in.Valid || !out.Valid {
		return 0
	}

	breakMinutes := 0
	lunchStart := ParseTimeOfDay(r.LunchStart)
	lunchEnd := ParseTimeOfDay(r.LunchEnd)
	if lunchStart.Valid && lunchEnd.Valid {
		breakMinutes = max(0, lunchEnd.Minutes-lunchStart.Minutes)
	}

	rawMinutes := out.Minutes - in.Minutes - breakMinutes
	if rawMinutes <= 0 {
		return 0
	}

	return float64(rawMinutes) / 60
}
