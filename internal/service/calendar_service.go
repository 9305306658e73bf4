package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/model"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
	"github.com/aryamanr26/course-flow-hackathon/internal/repository"
	pkgerrors "github.com/aryamanr26/course-flow-hackathon/pkg/errors"
)

// ── 日历模块业务错误 ──

var (
	ErrICSFileRequired  = errors.New("请上传 .ics 文件")
	ErrICSFileExtension = errors.New("文件必须为 .ics 格式")
	ErrICSTooLarge      = errors.New("ICS 文件超过大小限制")
	ErrICSParseFailed   = errors.New("ICS 文件解析失败")
	ErrICSFetchFailed   = errors.New("获取 ICS 订阅失败")
	ErrICSURLInvalid    = errors.New("ICS 链接必须为 http(s):// 或 webcal://")
	ErrICSURLDisabled   = errors.New("未开启通过链接导入日历")
	ErrICSHostForbidden = errors.New("不允许从内网或本机地址导入日历")
	ErrCalendarIDClash  = errors.New("日历事件 ID 冲突，请重试")
	ErrInvalidSlot      = errors.New("无效的时间段")
	ErrEmptyEventBatch  = errors.New("至少需要一条日历事件")
	ErrInvalidTimezone  = errors.New("无效的时区配置")
)

// ── CalendarService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 日历只追加：手动添加与 ICS 导入都走 append，已有事件不修改不删除
//   - 每条记录独立校验，非法记录单独拒绝；合法记录在一个事务中整体追加
//   - 未指定分类的事件由 Classifier 按标题推断
// ─────────────────────────────────────────────────────────────

// CalendarService 日历模块业务接口
type CalendarService interface {
	// Get 按星期分组返回学生日历
	Get(ctx context.Context, studentID string) (*dto.CalendarResponse, error)
	// Append 手动追加一批事件
	Append(ctx context.Context, studentID string, req *dto.AppendEventsRequest) (*dto.ImportResponse, error)
	// ImportICS 从上传文件导入
	ImportICS(ctx context.Context, studentID, filename string, reader io.Reader) (*dto.ImportResponse, error)
	// ImportURL 从订阅链接导入
	ImportURL(ctx context.Context, studentID, rawURL string) (*dto.ImportResponse, error)
	// CheckSlot 检查时间段与日历的冲突
	CheckSlot(ctx context.Context, studentID string, req *dto.SlotCheckRequest) (*dto.SlotCheckResponse, error)
}

type calendarService struct {
	repo       *repository.Repository
	snapshots  *SnapshotBuilder
	classifier planner.Classifier
	importCfg  config.ImportConfig
	timezone   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.Config, repo *repository.Repository, snapshots *SnapshotBuilder, logger *zap.Logger) CalendarService {
	return &calendarService{
		repo:       repo,
		snapshots:  snapshots,
		classifier: planner.KeywordClassifier{},
		importCfg:  cfg.Import,
		timezone:   cfg.Planner.Timezone,
		httpClient: NewICSHTTPClient(cfg.Import.FetchTimeout, cfg.Import.AllowPrivateHosts),
		logger:     logger,
	}
}

// ════════════════════════════════════════════════════════════
// Get — 查询日历
// ════════════════════════════════════════════════════════════

func (s *calendarService) Get(ctx context.Context, studentID string) (*dto.CalendarResponse, error) {
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	groups := planner.GroupByDay(snap.Calendar)
	resp := &dto.CalendarResponse{
		Total: len(snap.Calendar),
		Days:  make([]dto.DayEventsResponse, 0, len(groups)),
	}
	for _, g := range groups {
		resp.Days = append(resp.Days, dto.DayEventsResponse{
			Day:    g.Day.String(),
			Events: toEventResponses(g.Events),
		})
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// Append — 手动追加
// ════════════════════════════════════════════════════════════

func (s *calendarService) Append(ctx context.Context, studentID string, req *dto.AppendEventsRequest) (*dto.ImportResponse, error) {
	if len(req.Events) == 0 {
		return nil, ErrEmptyEventBatch
	}
	records := make([]ICSRecord, 0, len(req.Events))
	for _, e := range req.Events {
		recurring := true
		if e.Recurring != nil {
			recurring = *e.Recurring
		}
		records = append(records, ICSRecord{Input: planner.EventInput{
			ID:        e.ID,
			Title:     e.Title,
			Day:       e.Day,
			Start:     e.StartTime,
			End:       e.EndTime,
			Recurring: recurring,
			Category:  e.Category,
		}})
	}
	return s.appendRecords(ctx, studentID, records, model.EventSourceManual)
}

// ════════════════════════════════════════════════════════════
// ImportICS / ImportURL — ICS 导入
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 读取内容（文件或 URL，均受大小限制）
//   2. 解析为记录，无法导入的 VEVENT 直接记为拒绝
//   3. 其余记录校验后在一个事务中追加

func (s *calendarService) ImportICS(ctx context.Context, studentID, filename string, reader io.Reader) (*dto.ImportResponse, error) {
	if reader == nil || strings.TrimSpace(filename) == "" {
		return nil, ErrICSFileRequired
	}
	if !strings.EqualFold(filepath.Ext(filename), ".ics") {
		return nil, ErrICSFileExtension
	}
	return s.importFrom(ctx, studentID, reader)
}

func (s *calendarService) ImportURL(ctx context.Context, studentID, rawURL string) (*dto.ImportResponse, error) {
	if !s.importCfg.URLEnabled {
		return nil, ErrICSURLDisabled
	}
	body, err := FetchICSContent(s.httpClient, rawURL, s.importCfg.MaxBytes+1)
	if err != nil {
		if errors.Is(err, ErrICSURLInvalid) {
			return nil, err
		}
		if errors.Is(err, ErrICSHostForbidden) {
			s.logger.Warn("拒绝拉取非公网 ICS 地址", zap.String("url", rawURL))
			return nil, ErrICSHostForbidden
		}
		s.logger.Warn("获取 ICS 订阅失败", zap.String("url", rawURL), zap.Error(err))
		return nil, ErrICSFetchFailed
	}
	defer body.Close()
	return s.importFrom(ctx, studentID, body)
}

func (s *calendarService) importFrom(ctx context.Context, studentID string, reader io.Reader) (*dto.ImportResponse, error) {
	content, err := io.ReadAll(io.LimitReader(reader, s.importCfg.MaxBytes+1))
	if err != nil {
		s.logger.Warn("读取 ICS 内容失败", zap.Error(err))
		return nil, ErrICSParseFailed
	}
	if int64(len(content)) > s.importCfg.MaxBytes {
		return nil, ErrICSTooLarge
	}

	loc, err := time.LoadLocation(s.timezone)
	if err != nil {
		s.logger.Error("加载时区失败", zap.String("timezone", s.timezone), zap.Error(err))
		return nil, ErrInvalidTimezone
	}

	records, err := ParseICS(strings.NewReader(string(content)), loc)
	if err != nil {
		s.logger.Info("ICS 解析失败", zap.Error(err))
		return nil, ErrICSParseFailed
	}
	return s.appendRecords(ctx, studentID, records, model.EventSourceICS)
}

// ════════════════════════════════════════════════════════════
// CheckSlot — 时间段冲突检查
// ════════════════════════════════════════════════════════════

func (s *calendarService) CheckSlot(ctx context.Context, studentID string, req *dto.SlotCheckRequest) (*dto.SlotCheckResponse, error) {
	days, err := planner.ParseWeekdays(req.Days)
	if err != nil {
		return nil, errors.Join(ErrInvalidSlot, err)
	}
	span, err := planner.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, errors.Join(ErrInvalidSlot, err)
	}

	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	hits := planner.FindConflicts(days, span, snap.Calendar)
	return &dto.SlotCheckResponse{
		HasConflicts: len(hits) > 0,
		Conflicts:    toEventResponses(hits),
	}, nil
}

// ── 内部方法 ──

// appendRecords 校验记录并整体追加；records 中已带原因的记录直接拒绝
func (s *calendarService) appendRecords(ctx context.Context, studentID string, records []ICSRecord, source string) (*dto.ImportResponse, error) {
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportResponse{
		Events:     []dto.EventResponse{},
		Rejections: []dto.RejectionResponse{},
	}

	// 先拒绝解析阶段失败的记录，其余记录保留原始序号
	var (
		batch     []planner.EventInput
		positions []int
	)
	for i, r := range records {
		if r.Reason != "" {
			resp.Rejections = append(resp.Rejections, dto.RejectionResponse{Index: i, Title: r.Input.Title, Reason: r.Reason})
			continue
		}
		batch = append(batch, r.Input)
		positions = append(positions, i)
	}

	result := planner.PrepareImport(snap.Calendar, batch, s.classifier, uuid.NewString)
	for _, rej := range result.Rejected {
		resp.Rejections = append(resp.Rejections, dto.RejectionResponse{
			Index:  positions[rej.Index],
			Title:  rej.Input.Title,
			Reason: rej.Reason,
		})
	}
	sortRejections(resp.Rejections)

	if len(result.Accepted) > 0 {
		events := make([]model.CalendarEvent, 0, len(result.Accepted))
		for _, ev := range result.Accepted {
			events = append(events, model.CalendarEvent{
				EventID:   ev.ID,
				Title:     ev.Title,
				DayOfWeek: int(ev.Day),
				StartTime: ev.Span.Start.String(),
				EndTime:   ev.Span.End.String(),
				Recurring: ev.Recurring,
				Category:  string(ev.Category),
				Source:    source,
			})
		}
		if err := s.repo.CalendarEvent.AppendBatch(ctx, studentID, events); err != nil {
			if errors.Is(err, pkgerrors.ErrDuplicateKey) {
				return nil, ErrCalendarIDClash
			}
			s.logger.Error("追加日历事件失败", zap.String("student_id", studentID), zap.Error(err))
			return nil, err
		}
	}

	resp.Accepted = len(result.Accepted)
	resp.Rejected = len(resp.Rejections)
	resp.Events = toEventResponses(result.Accepted)

	s.logger.Info("日历事件已追加",
		zap.String("student_id", studentID),
		zap.String("source", source),
		zap.Int("accepted", resp.Accepted),
		zap.Int("rejected", resp.Rejected),
	)
	return resp, nil
}

// sortRejections 按原始序号排列
func sortRejections(rs []dto.RejectionResponse) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Index < rs[j].Index })
}
