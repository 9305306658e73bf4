package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/model"
	"github.com/aryamanr26/course-flow-hackathon/internal/repository"
	"github.com/aryamanr26/course-flow-hackathon/internal/seed"
	pkgerrors "github.com/aryamanr26/course-flow-hackathon/pkg/errors"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	courses  []model.StudentCourse
	getErr   error
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	for _, s := range m.students {
		if s.StudentNo == student.StudentNo {
			return pkgerrors.ErrDuplicateKey
		}
	}
	if student.StudentID == "" {
		student.StudentID = "sid-" + student.StudentNo
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByStudentNo(_ context.Context, studentNo string) (*model.Student, error) {
	for _, s := range m.students {
		if s.StudentNo == studentNo {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) ListCourses(_ context.Context, studentID string) ([]model.StudentCourse, error) {
	var result []model.StudentCourse
	for _, c := range m.courses {
		if c.StudentID == studentID {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockStudentRepo) BatchCreateCourses(_ context.Context, courses []model.StudentCourse) error {
	m.courses = append(m.courses, courses...)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses []model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{}
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	result := append([]model.Course{}, m.courses...)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for i := range m.courses {
		if m.courses[i].Code == code {
			return &m.courses[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.courses)), nil
}

func (m *mockCourseRepo) BatchCreate(_ context.Context, courses []model.Course) error {
	m.courses = append(m.courses, courses...)
	return nil
}

// ── Mock ReviewRepository ──

type mockReviewRepo struct {
	reviews   []model.CourseReview
	listCalls int
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{}
}

func (m *mockReviewRepo) List(_ context.Context, courseCode string) ([]model.CourseReview, error) {
	m.listCalls++
	var result []model.CourseReview
	for _, r := range m.reviews {
		if courseCode == "" || r.CourseCode == courseCode {
			result = append(result, r)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockReviewRepo) Create(_ context.Context, review *model.CourseReview) error {
	maxPos := 0
	for _, r := range m.reviews {
		if r.Position > maxPos {
			maxPos = r.Position
		}
	}
	review.Position = maxPos + 1
	if review.ReviewID == "" {
		review.ReviewID = fmt.Sprintf("rev-%d", review.Position)
	}
	if review.ExternalID == "" {
		review.ExternalID = review.ReviewID
	}
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *mockReviewRepo) BatchCreate(_ context.Context, reviews []model.CourseReview) error {
	m.reviews = append(m.reviews, reviews...)
	return nil
}

// ── Mock CalendarEventRepository ──

type mockCalendarEventRepo struct {
	events    map[string][]model.CalendarEvent
	appendErr error
}

func newMockCalendarEventRepo() *mockCalendarEventRepo {
	return &mockCalendarEventRepo{events: make(map[string][]model.CalendarEvent)}
}

func (m *mockCalendarEventRepo) ListByStudent(_ context.Context, studentID string) ([]model.CalendarEvent, error) {
	return append([]model.CalendarEvent{}, m.events[studentID]...), nil
}

// AppendBatch 与真实实现一致：任何一条 event_id 重复则整批不写入
func (m *mockCalendarEventRepo) AppendBatch(_ context.Context, studentID string, events []model.CalendarEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	seen := make(map[string]bool)
	for _, e := range m.events[studentID] {
		seen[e.EventID] = true
	}
	for _, e := range events {
		if seen[e.EventID] {
			return pkgerrors.ErrDuplicateKey
		}
		seen[e.EventID] = true
	}

	seq := int64(len(m.events[studentID]))
	for _, e := range events {
		seq++
		e.StudentID = studentID
		e.Seq = seq
		if e.CalendarEventID == "" {
			e.CalendarEventID = fmt.Sprintf("ce-%s-%d", studentID, seq)
		}
		m.events[studentID] = append(m.events[studentID], e)
	}
	return nil
}

// ── Mock DegreeRequirementRepository ──

type mockDegreeRepo struct {
	degrees map[string]*model.DegreeRequirement
}

func newMockDegreeRepo() *mockDegreeRepo {
	return &mockDegreeRepo{degrees: make(map[string]*model.DegreeRequirement)}
}

func (m *mockDegreeRepo) GetByMajor(_ context.Context, major string) (*model.DegreeRequirement, error) {
	if d, ok := m.degrees[major]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDegreeRepo) Create(_ context.Context, req *model.DegreeRequirement) error {
	if _, ok := m.degrees[req.Major]; ok {
		return pkgerrors.ErrDuplicateKey
	}
	m.degrees[req.Major] = req
	return nil
}

// ── Mock CourseSkillRepository ──

type mockCourseSkillRepo struct {
	skills []model.CourseSkill
}

func newMockCourseSkillRepo() *mockCourseSkillRepo {
	return &mockCourseSkillRepo{}
}

func (m *mockCourseSkillRepo) List(_ context.Context) ([]model.CourseSkill, error) {
	result := append([]model.CourseSkill{}, m.skills...)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CourseCode != result[j].CourseCode {
			return result[i].CourseCode < result[j].CourseCode
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (m *mockCourseSkillRepo) BatchCreate(_ context.Context, skills []model.CourseSkill) error {
	m.skills = append(m.skills, skills...)
	return nil
}

// ── Mock Cache / TokenStore ──

type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
	m.sets++
	return nil
}

func (m *mockCache) Invalidate(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

type mockTokenStore struct {
	revoked   map[string]time.Duration
	lookupErr error
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{revoked: make(map[string]time.Duration)}
}

func (m *mockTokenStore) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *mockTokenStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if m.lookupErr != nil {
		return false, m.lookupErr
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── 测试环境 ──

const testPassword = "courseflow-demo"

type testRepos struct {
	student  *mockStudentRepo
	course   *mockCourseRepo
	review   *mockReviewRepo
	calendar *mockCalendarEventRepo
	degree   *mockDegreeRepo
	skill    *mockCourseSkillRepo
}

func newTestConfig() *config.Config {
	return &config.Config{
		Redis: config.RedisConfig{CacheTTL: time.Minute},
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Planner: config.PlannerConfig{
			DefaultMajor:    "Computer Science",
			Timezone:        "UTC",
			RequiredCredits: 120,
		},
		Import: config.ImportConfig{
			MaxBytes:     64 * 1024,
			FetchTimeout: 5 * time.Second,
			URLEnabled:   true,
		},
	}
}

func newTestRepository() (*repository.Repository, *testRepos) {
	repos := &testRepos{
		student:  newMockStudentRepo(),
		course:   newMockCourseRepo(),
		review:   newMockReviewRepo(),
		calendar: newMockCalendarEventRepo(),
		degree:   newMockDegreeRepo(),
		skill:    newMockCourseSkillRepo(),
	}
	repo := &repository.Repository{
		Student:       repos.student,
		Course:        repos.course,
		Review:        repos.review,
		CalendarEvent: repos.calendar,
		Degree:        repos.degree,
		CourseSkill:   repos.skill,
	}
	return repo, repos
}

// seedTestRepository 写入内置演示数据，返回演示学生 ID
func seedTestRepository(t *testing.T, repo *repository.Repository) string {
	t.Helper()
	doc, err := seed.Default()
	if err != nil {
		t.Fatalf("读取种子数据失败: %v", err)
	}
	if err := seed.Load(context.Background(), repo, doc, testPassword); err != nil {
		t.Fatalf("写入种子数据失败: %v", err)
	}
	student, err := repo.Student.GetByStudentNo(context.Background(), "stu-001")
	if err != nil {
		t.Fatalf("查询演示学生失败: %v", err)
	}
	return student.StudentID
}

// setupTestSnapshots 带种子数据的 SnapshotBuilder；cache 可为 nil
func setupTestSnapshots(t *testing.T, cache Cache) (*SnapshotBuilder, *repository.Repository, *testRepos, string) {
	t.Helper()
	repo, repos := newTestRepository()
	studentID := seedTestRepository(t, repo)
	snapshots := NewSnapshotBuilder(newTestConfig(), repo, cache, zap.NewNop())
	return snapshots, repo, repos, studentID
}
