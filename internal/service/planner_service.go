package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
)

// ── 选课规划模块业务错误 ──

var (
	ErrEmptySelection     = errors.New("请至少选择一门课程")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// PlannerService 选课规划业务接口
type PlannerService interface {
	// Requirements 剩余毕业要求
	Requirements(ctx context.Context, studentID string) (*dto.RequirementsResponse, error)
	// Skills 已修与在修课程派生的技能徽章
	Skills(ctx context.Context, studentID string) (*dto.SkillsResponse, error)
	// BuildWeek 拟选课程与现有日历合成一周安排
	BuildWeek(ctx context.Context, studentID string, codes []string) (*dto.WeekResponse, error)
	// ExportWeek 导出周视图为 Excel，返回内容与建议文件名
	ExportWeek(ctx context.Context, studentID string, codes []string) (*bytes.Buffer, string, error)
}

type plannerService struct {
	snapshots *SnapshotBuilder
	logger    *zap.Logger
}

// NewPlannerService 创建 PlannerService 实例
func NewPlannerService(snapshots *SnapshotBuilder, logger *zap.Logger) PlannerService {
	return &plannerService{snapshots: snapshots, logger: logger}
}

func (s *plannerService) Requirements(ctx context.Context, studentID string) (*dto.RequirementsResponse, error) {
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	resp := toRequirementsResponse(snap.RemainingRequirements())
	return &resp, nil
}

func (s *plannerService) Skills(ctx context.Context, studentID string) (*dto.SkillsResponse, error) {
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	resp := toSkillsResponse(snap.StudentSkills())
	return &resp, nil
}

func (s *plannerService) BuildWeek(ctx context.Context, studentID string, codes []string) (*dto.WeekResponse, error) {
	week, err := s.week(ctx, studentID, codes)
	if err != nil {
		return nil, err
	}
	resp := toWeekResponse(week)
	return &resp, nil
}

// ═══════════════════════════════════════════════════════════
// ExportWeek — 导出周视图为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Week"：星期 | 时间 | 标题 | 类型，按星期再按开始时间排列
//   - Sheet "Conflicts"：课程与日历冲突、课程之间冲突，无冲突时写一行提示
//   - 末尾汇总拟选学分与总学分

func (s *plannerService) ExportWeek(ctx context.Context, studentID string, codes []string) (*bytes.Buffer, string, error) {
	week, err := s.week(ctx, studentID, codes)
	if err != nil {
		return nil, "", err
	}
	resp := toWeekResponse(week)

	f := excelize.NewFile()
	defer f.Close()

	const weekSheet, conflictSheet = "Week", "Conflicts"
	idx, err := f.NewSheet(weekSheet)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	if _, err := f.NewSheet(conflictSheet); err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	courseStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})

	// ── Week ──
	f.SetColWidth(weekSheet, "A", "A", 12)
	f.SetColWidth(weekSheet, "B", "B", 14)
	f.SetColWidth(weekSheet, "C", "C", 48)
	f.SetColWidth(weekSheet, "D", "D", 12)
	writeRow(f, weekSheet, 1, "Day", "Time", "Title", "Kind")
	f.SetCellStyle(weekSheet, "A1", "D1", headerStyle)

	row := 2
	for _, day := range resp.Days {
		for _, e := range day.Entries {
			writeRow(f, weekSheet, row, day.Day, e.StartTime+"-"+e.EndTime, e.Title, e.Kind)
			if e.Kind == planner.EntryKindCourse {
				f.SetCellStyle(weekSheet, cell("A", row), cell("D", row), courseStyle)
			}
			row++
		}
	}
	row++
	writeRow(f, weekSheet, row, "Selected credits", resp.SelectedCredits)
	writeRow(f, weekSheet, row+1, "Total credits", resp.TotalCredits)
	if len(resp.UnknownCodes) > 0 {
		writeRow(f, weekSheet, row+2, "Unknown courses", strings.Join(resp.UnknownCodes, ", "))
	}

	// ── Conflicts ──
	f.SetColWidth(conflictSheet, "A", "A", 12)
	f.SetColWidth(conflictSheet, "B", "C", 24)
	f.SetColWidth(conflictSheet, "D", "D", 36)
	writeRow(f, conflictSheet, 1, "Course", "Days", "Time", "Conflicts with")
	f.SetCellStyle(conflictSheet, "A1", "D1", headerStyle)

	row = 2
	for _, cc := range resp.CalendarConflicts {
		titles := make([]string, 0, len(cc.Events))
		for _, ev := range cc.Events {
			titles = append(titles, fmt.Sprintf("%s (%s %s-%s)", ev.Title, ev.Day, ev.StartTime, ev.EndTime))
		}
		writeRow(f, conflictSheet, row, cc.CourseCode,
			strings.Join(cc.Meeting.Days, ", "),
			cc.Meeting.StartTime+"-"+cc.Meeting.EndTime,
			strings.Join(titles, "; "))
		row++
	}
	for _, pc := range resp.CourseConflicts {
		writeRow(f, conflictSheet, row, pc.First,
			strings.Join(pc.Days, ", "),
			pc.FirstTime,
			fmt.Sprintf("%s (%s)", pc.Second, pc.SecondTime))
		row++
	}
	if !resp.HasConflicts {
		writeRow(f, conflictSheet, row, "No conflicts detected!")
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	codesPart := "schedule"
	if len(resp.Selected) > 0 {
		parts := make([]string, 0, len(resp.Selected))
		for _, c := range resp.Selected {
			parts = append(parts, strings.ReplaceAll(c.Code, " ", ""))
		}
		codesPart = strings.Join(parts, "_")
	}
	return buf, fmt.Sprintf("week_%s.xlsx", codesPart), nil
}

// ── 内部方法 ──

func (s *plannerService) week(ctx context.Context, studentID string, codes []string) (planner.Week, error) {
	cleaned := make([]string, 0, len(codes))
	for _, c := range codes {
		if strings.TrimSpace(c) != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return planner.Week{}, ErrEmptySelection
	}
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return planner.Week{}, err
	}
	return snap.BuildWeek(cleaned), nil
}

// ── 辅助函数 ──

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		name, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, name, v)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
