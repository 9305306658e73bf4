package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func setupTestPlannerService(t *testing.T) (PlannerService, string) {
	t.Helper()
	snapshots, _, _, studentID := setupTestSnapshots(t, nil)
	return NewPlannerService(snapshots, zap.NewNop()), studentID
}

func TestPlannerService_Requirements(t *testing.T) {
	svc, studentID := setupTestPlannerService(t)

	resp, err := svc.Requirements(context.Background(), studentID)
	if err != nil {
		t.Fatalf("Requirements 失败: %v", err)
	}
	if resp.Major != "Computer Science" {
		t.Errorf("期望专业 Computer Science，实际 %s", resp.Major)
	}
	want := []string{"CS 370", "CS 380", "CS 490"}
	if len(resp.RemainingCore) != len(want) {
		t.Fatalf("期望剩余核心课 %v，实际 %+v", want, resp.RemainingCore)
	}
	for i, code := range want {
		if resp.RemainingCore[i].Code != code {
			t.Errorf("剩余核心课第 %d 门期望 %s，实际 %s", i, code, resp.RemainingCore[i].Code)
		}
	}
	if len(resp.CompletedCore) != 7 {
		t.Errorf("在修课程计入已完成，期望 7 门，实际 %d", len(resp.CompletedCore))
	}
	if resp.RemainingElectivesNeeded != 4 || len(resp.ElectiveOptions) != 8 {
		t.Errorf("期望仍需 4 门选修、8 个可选，实际 %d / %d", resp.RemainingElectivesNeeded, len(resp.ElectiveOptions))
	}
	if len(resp.RemainingMath) != 0 || len(resp.CompletedMath) != 4 {
		t.Errorf("数学要求应已全部完成，实际剩余 %d", len(resp.RemainingMath))
	}
	if len(resp.GeneralEducation) != 4 {
		t.Errorf("期望 4 个通识类别，实际 %d", len(resp.GeneralEducation))
	}
	if resp.CreditProgress != 43 {
		t.Errorf("期望学分进度 43，实际 %d", resp.CreditProgress)
	}
}

func TestPlannerService_Skills(t *testing.T) {
	svc, studentID := setupTestPlannerService(t)

	resp, err := svc.Skills(context.Background(), studentID)
	if err != nil {
		t.Fatalf("Skills 失败: %v", err)
	}
	if resp.Total != 29 || len(resp.Badges) != 29 {
		t.Errorf("期望 29 个技能，实际 %d", resp.Total)
	}

	tests := []struct {
		skill string
		tier  string
		count int
	}{
		{"Mathematical Reasoning", "platinum", 5},
		{"Problem Solving", "gold", 4},
		{"Calculus", "silver", 3},
		{"Systems Thinking", "silver", 3},
	}
	for i, tt := range tests {
		b := resp.Badges[i]
		if b.Skill != tt.skill || b.Tier != tt.tier || b.CourseCount != tt.count {
			t.Errorf("第 %d 个徽章期望 %s/%s/%d，实际 %s/%s/%d", i, tt.skill, tt.tier, tt.count, b.Skill, b.Tier, b.CourseCount)
		}
	}
	if got := resp.Badges[0].Courses; got[0] != "MATH 151" || got[4] != "MATH 310" {
		t.Errorf("贡献课程应按已修、在修顺序排列，实际 %v", got)
	}
}

func TestPlannerService_BuildWeek(t *testing.T) {
	svc, studentID := setupTestPlannerService(t)

	resp, err := svc.BuildWeek(context.Background(), studentID, []string{"cs460", "MATH 310", "CS 999"})
	if err != nil {
		t.Fatalf("BuildWeek 失败: %v", err)
	}
	if len(resp.Days) != 7 {
		t.Fatalf("周视图应包含 7 天，实际 %d", len(resp.Days))
	}
	if len(resp.Selected) != 2 || resp.SelectedCredits != 6 {
		t.Errorf("期望选中 2 门 / 6 学分，实际 %d / %d", len(resp.Selected), resp.SelectedCredits)
	}
	if resp.TotalCredits != 15 {
		t.Errorf("总学分 = 拟选 6 + 在修 9，期望 15，实际 %d", resp.TotalCredits)
	}
	if len(resp.UnknownCodes) != 1 || resp.UnknownCodes[0] != "CS 999" {
		t.Errorf("期望未知课程 [CS 999]，实际 %v", resp.UnknownCodes)
	}

	monday := resp.Days[0]
	if len(monday.Entries) != 4 {
		t.Fatalf("周一期望 4 个条目，实际 %d", len(monday.Entries))
	}
	if monday.Entries[0].StartTime != "07:00" || monday.Entries[1].Title != "CS 460: Mobile App Development" {
		t.Errorf("周一条目应按开始时间稳定排序，实际 %+v", monday.Entries)
	}
	if monday.Entries[1].Kind != "course" || monday.Entries[0].Kind != "work" {
		t.Errorf("条目类型不符: %+v", monday.Entries[:2])
	}
	if len(resp.Days[6].Entries) != 0 {
		t.Errorf("周日应为空，实际 %d", len(resp.Days[6].Entries))
	}

	if !resp.HasConflicts || len(resp.CalendarConflicts) != 2 {
		t.Fatalf("期望 2 组日历冲突，实际 %d", len(resp.CalendarConflicts))
	}
	if len(resp.CalendarConflicts[0].Events) != 2 || len(resp.CalendarConflicts[1].Events) != 3 {
		t.Errorf("CS 460 应冲突 2 次、MATH 310 应冲突 3 次，实际 %d / %d",
			len(resp.CalendarConflicts[0].Events), len(resp.CalendarConflicts[1].Events))
	}
	if len(resp.CourseConflicts) != 1 {
		t.Fatalf("期望 1 组课程间冲突，实际 %d", len(resp.CourseConflicts))
	}
	pc := resp.CourseConflicts[0]
	if pc.First != "CS 460" || pc.Second != "MATH 310" || len(pc.Days) != 2 {
		t.Errorf("课程冲突不符: %+v", pc)
	}
}

func TestPlannerService_BuildWeek_EmptySelection(t *testing.T) {
	svc, studentID := setupTestPlannerService(t)

	if _, err := svc.BuildWeek(context.Background(), studentID, []string{" ", ""}); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("期望 ErrEmptySelection，实际 %v", err)
	}
	if _, _, err := svc.ExportWeek(context.Background(), studentID, nil); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("期望 ErrEmptySelection，实际 %v", err)
	}
}

// ── Excel 导出测试 ──

func findRow(rows [][]string, first string) []string {
	for _, r := range rows {
		if len(r) > 0 && r[0] == first {
			return r
		}
	}
	return nil
}

func TestPlannerService_ExportWeek(t *testing.T) {
	svc, studentID := setupTestPlannerService(t)

	buf, filename, err := svc.ExportWeek(context.Background(), studentID, []string{"CS 460", "MATH 310"})
	if err != nil {
		t.Fatalf("ExportWeek 失败: %v", err)
	}
	if filename != "week_CS460_MATH310.xlsx" {
		t.Errorf("期望文件名 week_CS460_MATH310.xlsx，实际 %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法读取导出的 Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Week" || sheets[1] != "Conflicts" {
		t.Fatalf("期望 Sheet [Week Conflicts]，实际 %v", sheets)
	}

	rows, err := f.GetRows("Week")
	if err != nil {
		t.Fatalf("读取 Week 失败: %v", err)
	}
	if rows[0][0] != "Day" || rows[0][3] != "Kind" {
		t.Errorf("表头不符: %v", rows[0])
	}
	if rows[1][0] != "Monday" || rows[1][1] != "07:00-10:00" {
		t.Errorf("首行期望周一 07:00-10:00，实际 %v", rows[1])
	}
	if r := findRow(rows, "Selected credits"); r == nil || r[1] != "6" {
		t.Errorf("期望拟选学分 6，实际 %v", r)
	}
	if r := findRow(rows, "Total credits"); r == nil || r[1] != "15" {
		t.Errorf("期望总学分 15，实际 %v", r)
	}

	conflicts, err := f.GetRows("Conflicts")
	if err != nil {
		t.Fatalf("读取 Conflicts 失败: %v", err)
	}
	// 表头 + 2 组日历冲突 + 1 组课程冲突
	if len(conflicts) != 4 {
		t.Fatalf("期望 4 行，实际 %d", len(conflicts))
	}
	if conflicts[1][0] != "CS 460" || conflicts[3][3] != "MATH 310 (09:00-09:50)" {
		t.Errorf("冲突明细不符: %v", conflicts)
	}
}

func TestPlannerService_ExportWeek_NoConflicts(t *testing.T) {
	svc, studentID := setupTestPlannerService(t)

	buf, filename, err := svc.ExportWeek(context.Background(), studentID, []string{"CS 370"})
	if err != nil {
		t.Fatalf("ExportWeek 失败: %v", err)
	}
	if filename != "week_CS370.xlsx" {
		t.Errorf("期望文件名 week_CS370.xlsx，实际 %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法读取导出的 Excel: %v", err)
	}
	defer f.Close()

	conflicts, _ := f.GetRows("Conflicts")
	if len(conflicts) != 2 || conflicts[1][0] != "No conflicts detected!" {
		t.Errorf("无冲突时应写一行提示，实际 %v", conflicts)
	}
	rows, _ := f.GetRows("Week")
	if r := findRow(rows, "Total credits"); r == nil || r[1] != "12" {
		t.Errorf("期望总学分 12，实际 %v", r)
	}
}

func TestPlannerService_UnknownStudent(t *testing.T) {
	svc, _ := setupTestPlannerService(t)

	if _, err := svc.Requirements(context.Background(), "missing"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际 %v", err)
	}
}
