package attendance

import "errors"

// ── 考勤核心错误 ──
//
// 核心的所有失败都以错误值返回给调用方，由外层映射为 HTTP 状态；
// 数据质量问题（悬空引用、未知出勤标记等）不作为错误，而是以
// Warning 列表随结果返回。

var (
	// ErrInvalidRange 课程结束日期早于开始日期
	ErrInvalidRange = errors.New("课程日期范围无效：结束日期早于开始日期")

	// ErrInvalidParameter 预测函数的数值参数超出定义域
	ErrInvalidParameter = errors.New("参数超出取值范围")

	// ErrRecordNotFound 目标日期尚未生成考勤记录
	ErrRecordNotFound = errors.New("指定日期的考勤记录不存在")

	// ErrOccurrenceNotFound 删除目标（slotId+courseId）不在当日记录中
	ErrOccurrenceNotFound = errors.New("当日记录中不存在匹配的课程条目")
)
