package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aryamanr26/course-flow-hackathon/internal/model"
)

// ReviewRepository 课程评价数据访问接口（只追加）
type ReviewRepository interface {
	// List 按存储顺序返回评价；courseCode 为空时返回全部
	List(ctx context.Context, courseCode string) ([]model.CourseReview, error)
	// Create 追加一条评价，position 取当前最大值 + 1
	Create(ctx context.Context, review *model.CourseReview) error
	BatchCreate(ctx context.Context, reviews []model.CourseReview) error
}

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo 创建 ReviewRepository 实例
func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) List(ctx context.Context, courseCode string) ([]model.CourseReview, error) {
	var reviews []model.CourseReview
	db := r.db.WithContext(ctx)
	if courseCode != "" {
		db = db.Where("course_code = ?", courseCode)
	}
	err := db.Order("position ASC").Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) Create(ctx context.Context, review *model.CourseReview) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&model.CourseReview{}).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		review.Position = maxPos + 1
		return tx.Create(review).Error
	}))
}

func (r *reviewRepo) BatchCreate(ctx context.Context, reviews []model.CourseReview) error {
	if len(reviews) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&reviews).Error)
}
