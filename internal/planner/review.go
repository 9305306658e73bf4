package planner

import "sort"

// SortKey 评价排序键
type SortKey string

const (
	SortRecent     SortKey = "recent"
	SortRating     SortKey = "rating"
	SortUpvotes    SortKey = "upvotes"
	SortDifficulty SortKey = "difficulty"
)

// Valid 是否为已知排序键
func (k SortKey) Valid() bool {
	switch k {
	case SortRecent, SortRating, SortUpvotes, SortDifficulty:
		return true
	}
	return false
}

// ReviewsFor 返回课程的全部评价，保持存储顺序
func (s *Snapshot) ReviewsFor(code string) []Review {
	key := CanonicalCode(code)
	out := []Review{}
	for _, r := range s.Reviews {
		if CanonicalCode(r.CourseCode) == key {
			out = append(out, r)
		}
	}
	return out
}

// AverageRating 课程平均评分，无评价时为 0
func (s *Snapshot) AverageRating(code string) float64 {
	return averageRating(s.ReviewsFor(code))
}

func averageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}

// SortReviews 按指定键稳定降序排序，返回新切片；未知键保持原顺序
func SortReviews(reviews []Review, key SortKey) []Review {
	out := make([]Review, len(reviews))
	copy(out, reviews)

	var less func(a, b Review) bool
	switch key {
	case SortRecent:
		less = func(a, b Review) bool { return a.CreatedAt > b.CreatedAt }
	case SortRating:
		less = func(a, b Review) bool { return a.Rating > b.Rating }
	case SortUpvotes:
		less = func(a, b Review) bool { return a.Upvotes > b.Upvotes }
	case SortDifficulty:
		less = func(a, b Review) bool { return a.Difficulty > b.Difficulty }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ReviewSummary 单门课程的评价汇总
type ReviewSummary struct {
	CourseCode    string
	CourseName    string
	AverageRating float64
	ReviewCount   int
}

// ReviewSummaries 每个被评价的课程一行，按平均分降序（同分保持首次出现顺序）。
// 目录中不存在的课程名称记为 "Unknown"。
func (s *Snapshot) ReviewSummaries() []ReviewSummary {
	var order []string
	grouped := make(map[string][]Review)
	for _, r := range s.Reviews {
		key := CanonicalCode(r.CourseCode)
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], r)
	}

	out := make([]ReviewSummary, 0, len(order))
	for _, code := range order {
		name := "Unknown"
		if c, ok := s.FindCourse(code); ok {
			name = c.Name
		}
		out = append(out, ReviewSummary{
			CourseCode:    code,
			CourseName:    name,
			AverageRating: averageRating(grouped[code]),
			ReviewCount:   len(grouped[code]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageRating > out[j].AverageRating })
	return out
}

// ReviewStats 评价总览
type ReviewStats struct {
	Count             int
	AverageRating     float64
	AverageDifficulty float64
}

// SummarizeReviews 计算一组评价的平均评分与平均难度
func SummarizeReviews(reviews []Review) ReviewStats {
	st := ReviewStats{Count: len(reviews)}
	if len(reviews) == 0 {
		return st
	}
	var difficulty float64
	for _, r := range reviews {
		difficulty += r.Difficulty
	}
	st.AverageRating = averageRating(reviews)
	st.AverageDifficulty = difficulty / float64(len(reviews))
	return st
}
