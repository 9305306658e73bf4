package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Student       StudentRepository
	Course        CourseRepository
	Review        ReviewRepository
	CalendarEvent CalendarEventRepository
	Degree        DegreeRequirementRepository
	CourseSkill   CourseSkillRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Student:       NewStudentRepo(db),
		Course:        NewCourseRepo(db),
		Review:        NewReviewRepo(db),
		CalendarEvent: NewCalendarEventRepo(db),
		Degree:        NewDegreeRequirementRepo(db),
		CourseSkill:   NewCourseSkillRepo(db),
	}
}
