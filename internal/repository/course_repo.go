package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aryamanr26/course-flow-hackathon/internal/model"
)

// CourseRepository 课程目录数据访问接口
type CourseRepository interface {
	// List 按目录存储顺序（position）返回全部课程
	List(ctx context.Context) ([]model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	Count(ctx context.Context) (int64, error)
	BatchCreate(ctx context.Context, courses []model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).Count(&n).Error
	return n, err
}

func (r *courseRepo) BatchCreate(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&courses).Error)
}

// ── 技能映射 ──

// CourseSkillRepository 课程技能映射数据访问接口
type CourseSkillRepository interface {
	List(ctx context.Context) ([]model.CourseSkill, error)
	BatchCreate(ctx context.Context, skills []model.CourseSkill) error
}

type courseSkillRepo struct {
	db *gorm.DB
}

// NewCourseSkillRepo 创建 CourseSkillRepository 实例
func NewCourseSkillRepo(db *gorm.DB) CourseSkillRepository {
	return &courseSkillRepo{db: db}
}

func (r *courseSkillRepo) List(ctx context.Context) ([]model.CourseSkill, error) {
	var skills []model.CourseSkill
	err := r.db.WithContext(ctx).
		Order("course_code ASC, position ASC").
		Find(&skills).Error
	return skills, err
}

func (r *courseSkillRepo) BatchCreate(ctx context.Context, skills []model.CourseSkill) error {
	if len(skills) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&skills).Error)
}

// ── 培养方案 ──

// DegreeRequirementRepository 培养方案数据访问接口
type DegreeRequirementRepository interface {
	GetByMajor(ctx context.Context, major string) (*model.DegreeRequirement, error)
	Create(ctx context.Context, req *model.DegreeRequirement) error
}

type degreeRequirementRepo struct {
	db *gorm.DB
}

// NewDegreeRequirementRepo 创建 DegreeRequirementRepository 实例
func NewDegreeRequirementRepo(db *gorm.DB) DegreeRequirementRepository {
	return &degreeRequirementRepo{db: db}
}

func (r *degreeRequirementRepo) GetByMajor(ctx context.Context, major string) (*model.DegreeRequirement, error) {
	var req model.DegreeRequirement
	err := r.db.WithContext(ctx).
		Where("major = ?", major).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *degreeRequirementRepo) Create(ctx context.Context, req *model.DegreeRequirement) error {
	return translate(r.db.WithContext(ctx).Create(req).Error)
}
