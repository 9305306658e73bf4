package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aryamanr26/course-flow-hackathon/internal/model"
	pkgerrors "github.com/aryamanr26/course-flow-hackathon/pkg/errors"
)

// CalendarEventRepository 日历事件数据访问接口
// 日历只追加，不提供更新与删除
type CalendarEventRepository interface {
	// ListByStudent 按插入顺序（seq）返回学生的全部事件
	ListByStudent(ctx context.Context, studentID string) ([]model.CalendarEvent, error)
	// AppendBatch 在一个事务中追加一批事件并分配连续 seq：要么全部可见，要么全部不可见
	AppendBatch(ctx context.Context, studentID string, events []model.CalendarEvent) error
}

type calendarEventRepo struct {
	db *gorm.DB
}

// NewCalendarEventRepo 创建 CalendarEventRepository 实例
func NewCalendarEventRepo(db *gorm.DB) CalendarEventRepository {
	return &calendarEventRepo{db: db}
}

func (r *calendarEventRepo) ListByStudent(ctx context.Context, studentID string) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("seq ASC").
		Find(&events).Error
	return events, err
}

func (r *calendarEventRepo) AppendBatch(ctx context.Context, studentID string, events []model.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&model.CalendarEvent{}).
			Where("student_id = ?", studentID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		for i := range events {
			events[i].StudentID = studentID
			events[i].Seq = maxSeq + int64(i) + 1
		}
		return tx.Create(&events).Error
	}))
}

// translate 将唯一约束冲突统一为 ErrDuplicateKey
func translate(err error) error {
	if pkgerrors.IsUniqueViolation(err) {
		return pkgerrors.ErrDuplicateKey
	}
	return err
}
