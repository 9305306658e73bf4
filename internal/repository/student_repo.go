package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aryamanr26/course-flow-hackathon/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByStudentNo(ctx context.Context, studentNo string) (*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	// ListCourses 按 position 返回学生的修课记录（已修与在修）
	ListCourses(ctx context.Context, studentID string) ([]model.StudentCourse, error)
	BatchCreateCourses(ctx context.Context, courses []model.StudentCourse) error
}

// studentRepo StudentRepository 的 GORM 实现
type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return translate(r.db.WithContext(ctx).Omit("Courses").Create(student).Error)
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByStudentNo(ctx context.Context, studentNo string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("student_no = ?", studentNo).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Omit("Courses").Save(student).Error
}

func (r *studentRepo) ListCourses(ctx context.Context, studentID string) ([]model.StudentCourse, error) {
	var courses []model.StudentCourse
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("position ASC").
		Find(&courses).Error
	return courses, err
}

func (r *studentRepo) BatchCreateCourses(ctx context.Context, courses []model.StudentCourse) error {
	if len(courses) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&courses).Error)
}
