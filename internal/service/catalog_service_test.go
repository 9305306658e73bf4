package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
)

func setupTestCatalogService(t *testing.T) (CatalogService, string) {
	t.Helper()
	snapshots, _, _, studentID := setupTestSnapshots(t, nil)
	return NewCatalogService(snapshots, zap.NewNop()), studentID
}

func TestCatalogService_List_All(t *testing.T) {
	svc, studentID := setupTestCatalogService(t)

	resp, err := svc.List(context.Background(), studentID, &dto.CourseListQuery{})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if resp.Total != 15 || len(resp.Courses) != 15 {
		t.Fatalf("期望 15 门课程，实际 %d", resp.Total)
	}
	if resp.Filter != "all" {
		t.Errorf("默认筛选期望 all，实际 %s", resp.Filter)
	}
	if resp.Courses[0].Code != "CS 370" {
		t.Errorf("应保持目录顺序，首门期望 CS 370，实际 %s", resp.Courses[0].Code)
	}
	first := resp.Courses[0]
	if first.SeatsLeft != 5 {
		t.Errorf("CS 370 剩余名额期望 5，实际 %d", first.SeatsLeft)
	}
	if first.AverageRating != 4.5 || first.ReviewCount != 3 {
		t.Errorf("CS 370 期望均分 4.5/3 条评价，实际 %.1f/%d", first.AverageRating, first.ReviewCount)
	}
}

func TestCatalogService_List_SearchAndFilter(t *testing.T) {
	svc, studentID := setupTestCatalogService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		query  dto.CourseListQuery
		expect int
	}{
		{"按教师搜索", dto.CourseListQuery{Q: "sarah chen"}, 2},
		{"按代码搜索", dto.CourseListQuery{Q: "math 3"}, 2},
		{"数学筛选", dto.CourseListQuery{Filter: "math"}, 2},
		{"其他院系", dto.CourseListQuery{Filter: "OTHER"}, 2},
		{"搜索与筛选组合", dto.CourseListQuery{Q: "Dr. Sarah", Filter: "cs"}, 2},
		{"无匹配", dto.CourseListQuery{Q: "underwater basket weaving"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.List(ctx, studentID, &tt.query)
			if err != nil {
				t.Fatalf("List 失败: %v", err)
			}
			if resp.Total != tt.expect {
				t.Errorf("期望 %d 门，实际 %d", tt.expect, resp.Total)
			}
		})
	}
}

func TestCatalogService_List_Eligible(t *testing.T) {
	svc, studentID := setupTestCatalogService(t)

	resp, err := svc.List(context.Background(), studentID, &dto.CourseListQuery{Filter: "eligible"})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	for _, c := range resp.Courses {
		if c.Code == "CS 440" || c.Code == "CS 470" || c.Code == "CS 490" {
			t.Errorf("%s 缺少先修课程，不应出现在 eligible 结果中", c.Code)
		}
	}
	if resp.Total != 12 {
		t.Errorf("期望 12 门可选课程，实际 %d", resp.Total)
	}
}

func TestCatalogService_List_InvalidFilter(t *testing.T) {
	svc, studentID := setupTestCatalogService(t)

	_, err := svc.List(context.Background(), studentID, &dto.CourseListQuery{Filter: "popular"})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("期望 ErrInvalidFilter，实际 %v", err)
	}
}

func TestCatalogService_Get(t *testing.T) {
	svc, studentID := setupTestCatalogService(t)
	ctx := context.Background()

	course, err := svc.Get(ctx, studentID, "cs410")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if course.Code != "CS 410" || course.Name != "Machine Learning" {
		t.Errorf("期望 CS 410 Machine Learning，实际 %s %s", course.Code, course.Name)
	}
	if len(course.Meetings) != 1 || len(course.Meetings[0].Days) != 3 {
		t.Errorf("CS 410 期望 1 组 3 天的上课时间，实际 %+v", course.Meetings)
	}

	if _, err := svc.Get(ctx, studentID, "CS 999"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际 %v", err)
	}
}

func TestCatalogService_Prerequisites(t *testing.T) {
	svc, studentID := setupTestCatalogService(t)
	ctx := context.Background()

	tests := []struct {
		code    string
		exists  bool
		met     bool
		missing []string
	}{
		{"CS 370", true, true, nil},
		// CS 350 在修，视为已满足
		{"CS 380", true, true, nil},
		{"CS 440", true, false, []string{"CS 380"}},
		{"CS 470", true, false, []string{"CS 380"}},
		{"CS 999", false, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			res, err := svc.Prerequisites(ctx, studentID, tt.code)
			if err != nil {
				t.Fatalf("Prerequisites 失败: %v", err)
			}
			if res.CourseExists != tt.exists || res.Met != tt.met {
				t.Errorf("期望 exists=%v met=%v，实际 exists=%v met=%v", tt.exists, tt.met, res.CourseExists, res.Met)
			}
			if len(res.Missing) != len(tt.missing) {
				t.Fatalf("期望缺少 %v，实际 %v", tt.missing, res.Missing)
			}
			for i := range tt.missing {
				if res.Missing[i] != tt.missing[i] {
					t.Errorf("期望缺少 %v，实际 %v", tt.missing, res.Missing)
				}
			}
		})
	}
}

func TestCatalogService_Conflicts(t *testing.T) {
	svc, studentID := setupTestCatalogService(t)
	ctx := context.Background()

	// CS 460 周一/周三 09:00-10:15 与咖啡店兼职 07:00-10:00 重叠
	res, err := svc.Conflicts(ctx, studentID, "CS 460")
	if err != nil {
		t.Fatalf("Conflicts 失败: %v", err)
	}
	if !res.HasConflicts || len(res.Conflicts) != 2 {
		t.Fatalf("期望 2 个冲突，实际 %d", len(res.Conflicts))
	}
	if res.Conflicts[0].Event.ID != "cal-1" || res.Conflicts[1].Event.ID != "cal-2" {
		t.Errorf("冲突应按日历顺序，实际 %s, %s", res.Conflicts[0].Event.ID, res.Conflicts[1].Event.ID)
	}

	// CS 370 周一/周三 10:30 开始，与 10:00 结束的兼职不冲突
	res, err = svc.Conflicts(ctx, studentID, "CS 370")
	if err != nil {
		t.Fatalf("Conflicts 失败: %v", err)
	}
	if res.HasConflicts {
		t.Errorf("CS 370 不应有冲突，实际 %+v", res.Conflicts)
	}

	if _, err := svc.Conflicts(ctx, studentID, "CS 999"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际 %v", err)
	}
}

func TestCatalogService_UnknownStudent(t *testing.T) {
	svc, _ := setupTestCatalogService(t)

	_, err := svc.List(context.Background(), "missing", &dto.CourseListQuery{})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际 %v", err)
	}
}
