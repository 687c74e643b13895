package attendance

// ── 排期展开（Schedule Expander）──────────────────────────
//
// 将课程日期范围 [start, end]（双端含）逐日展开，按星期名分桶。
// 同一套迭代也用于统计器的"每个星期几在范围内出现多少天"直方图。
// 纯函数，无副作用。
// ─────────────────────────────────────────────────────────────

// ExpandRange 展开日期范围为 星期名 → 该星期的全部日期（升序）。
// 范围内没有出现的星期不会出现在结果中。
// start > end 时返回 ErrInvalidRange。
func ExpandRange(start, end Date) (map[Weekday][]Date, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	out := make(map[Weekday][]Date, 7)
	for d := start; !d.After(end); d = d.Next() {
		w := d.Weekday()
		out[w] = append(out[w], d)
	}
	return out, nil
}

// CountByWeekday 展开日期范围为 星期名 → 出现天数 直方图。
// 与 ExpandRange 同一迭代，只计数不收集。
func CountByWeekday(start, end Date) (map[Weekday]int, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	out := make(map[Weekday]int, 7)
	for d := start; !d.After(end); d = d.Next() {
		out[d.Weekday()]++
	}
	return out, nil
}
