package planner

import "math"

// Requirements 剩余毕业要求
type Requirements struct {
	Major                    string
	RemainingCore            []RequiredCourse
	CompletedCore            []RequiredCourse
	CompletedElectives       []RequiredCourse
	RemainingElectivesNeeded int // 可能为负（选修超额）
	ElectiveOptions          []RequiredCourse
	RemainingMath            []RequiredCourse
	CompletedMath            []RequiredCourse
	GeneralEducation         []GeneralEducation
	TotalCredits             int
	RequiredCredits          int
	CreditProgress           int // 百分比
}

// RemainingRequirements 按培养方案计算剩余要求，已修与在修均计为已完成
func (s *Snapshot) RemainingRequirements() Requirements {
	taken := s.takenSet()
	remainingCore, completedCore := partition(s.Degree.Core, taken)
	electiveOptions, completedElectives := partition(s.Degree.ElectivePool, taken)
	remainingMath, completedMath := partition(s.Degree.Math, taken)

	general := make([]GeneralEducation, len(s.Degree.GeneralEducation))
	copy(general, s.Degree.GeneralEducation)

	return Requirements{
		Major:                    s.Degree.Major,
		RemainingCore:            remainingCore,
		CompletedCore:            completedCore,
		CompletedElectives:       completedElectives,
		RemainingElectivesNeeded: s.Degree.ElectiveRequired - len(completedElectives),
		ElectiveOptions:          electiveOptions,
		RemainingMath:            remainingMath,
		CompletedMath:            completedMath,
		GeneralEducation:         general,
		TotalCredits:             s.Profile.TotalCredits,
		RequiredCredits:          s.Profile.RequiredCredits,
		CreditProgress:           CreditProgress(s.Profile.TotalCredits, s.Profile.RequiredCredits),
	}
}

// CreditProgress 学分完成百分比（四舍五入），required 为 0 时返回 0
func CreditProgress(total, required int) int {
	if required <= 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(required) * 100))
}

// partition 按模板顺序拆分为 (未完成, 已完成)
func partition(list []RequiredCourse, taken map[string]bool) (remaining, done []RequiredCourse) {
	remaining = []RequiredCourse{}
	done = []RequiredCourse{}
	for _, c := range list {
		if taken[CanonicalCode(c.Code)] {
			done = append(done, c)
		} else {
			remaining = append(remaining, c)
		}
	}
	return remaining, done
}
