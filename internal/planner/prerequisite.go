package planner

// PrerequisiteResult 先修课程检查结果
type PrerequisiteResult struct {
	CourseCode   string
	CourseExists bool
	Met          bool
	Missing      []string
	All          []string
}

// CheckPrerequisites 检查学生是否满足课程的先修要求。
// 在修课程视为已满足；未知课程返回 Met=false 且 Missing 为空，
// 调用方通过 CourseExists 区分“课程不存在”与“缺少先修”。
func (s *Snapshot) CheckPrerequisites(code string) PrerequisiteResult {
	res := PrerequisiteResult{CourseCode: CanonicalCode(code), Missing: []string{}, All: []string{}}
	course, ok := s.FindCourse(code)
	if !ok {
		return res
	}
	res.CourseExists = true
	res.CourseCode = course.Code
	res.All = append(res.All, course.Prerequisites...)

	taken := s.takenSet()
	for _, p := range course.Prerequisites {
		if !taken[CanonicalCode(p)] {
			res.Missing = append(res.Missing, p)
		}
	}
	res.Met = len(res.Missing) == 0
	return res
}
