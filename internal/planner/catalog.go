package planner

import "strings"

// Filter 目录筛选条件
type Filter string

const (
	FilterAll      Filter = "all"
	FilterEligible Filter = "eligible"
	FilterCS       Filter = "cs"
	FilterMath     Filter = "math"
	FilterOther    Filter = "other"
)

const (
	departmentCS   = "Computer Science"
	departmentMath = "Mathematics"
)

// Valid 是否为已知筛选条件
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterEligible, FilterCS, FilterMath, FilterOther:
		return true
	}
	return false
}

// Search 在代码、名称、院系、标签、教师、描述中做忽略大小写的子串匹配。
// 空查询返回全部课程。
func (s *Snapshot) Search(query string) []Course {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Course{}
	for _, c := range s.Catalog {
		if q == "" || courseMatches(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func courseMatches(c Course, q string) bool {
	fields := []string{c.Code, c.Name, c.Department, c.Instructor, c.Description}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// FilterCourses 对给定课程列表应用筛选条件，未知条件视为 all
func (s *Snapshot) FilterCourses(courses []Course, f Filter) []Course {
	out := []Course{}
	for _, c := range courses {
		keep := true
		switch f {
		case FilterEligible:
			keep = s.CheckPrerequisites(c.Code).Met
		case FilterCS:
			keep = c.Department == departmentCS
		case FilterMath:
			keep = c.Department == departmentMath
		case FilterOther:
			keep = c.Department != departmentCS && c.Department != departmentMath
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

// FilterCatalog 对整个目录应用筛选条件
func (s *Snapshot) FilterCatalog(f Filter) []Course {
	return s.FilterCourses(s.Catalog, f)
}
