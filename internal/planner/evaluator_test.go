package planner

import (
	"math"
	"reflect"
	"testing"
)

// ── 先修课程 ──

func TestCheckPrerequisites_Met(t *testing.T) {
	snap := newFixtureSnapshot(t)

	res := snap.CheckPrerequisites("CS 410")
	if !res.CourseExists || !res.Met {
		t.Fatalf("CS 410 先修应满足, 实际 %+v", res)
	}
	if len(res.Missing) != 0 {
		t.Errorf("Missing 应为空, 实际 %v", res.Missing)
	}
	if !reflect.DeepEqual(res.All, []string{"CS 301", "MATH 251", "MATH 253"}) {
		t.Errorf("All 不符: %v", res.All)
	}
}

func TestCheckPrerequisites_CurrentCountsAsTaken(t *testing.T) {
	snap := newFixtureSnapshot(t)

	// CS 380 需要 CS 210（已修）与 CS 350（在修）
	if res := snap.CheckPrerequisites("cs380"); !res.Met {
		t.Errorf("在修课程应视为满足, 实际 %+v", res)
	}
}

func TestCheckPrerequisites_MissingAndMonotonic(t *testing.T) {
	snap := newFixtureSnapshot(t)

	res := snap.CheckPrerequisites("CS 440")
	if res.Met || !reflect.DeepEqual(res.Missing, []string{"CS 380"}) {
		t.Fatalf("CS 440 应缺少 CS 380, 实际 %+v", res)
	}
	again := snap.CheckPrerequisites("CS 440")
	if !reflect.DeepEqual(res, again) {
		t.Error("CheckPrerequisites 应幂等")
	}

	snap.Profile.Completed = append(snap.Profile.Completed, CompletedCourse{Code: "CS 380"})
	if res := snap.CheckPrerequisites("CS 440"); !res.Met {
		t.Errorf("补修 CS 380 后应满足, 实际 %+v", res)
	}
}

func TestCheckPrerequisites_UnknownCourse(t *testing.T) {
	snap := newFixtureSnapshot(t)

	res := snap.CheckPrerequisites("CS 999")
	if res.CourseExists || res.Met {
		t.Errorf("未知课程应为 exists=false met=false, 实际 %+v", res)
	}
	if res.Missing == nil || len(res.Missing) != 0 {
		t.Errorf("未知课程 Missing 应为空列表, 实际 %v", res.Missing)
	}
}

// ── 毕业要求 ──

func TestRemainingRequirements(t *testing.T) {
	snap := newFixtureSnapshot(t)
	req := snap.RemainingRequirements()

	codes := func(list []RequiredCourse) []string {
		out := []string{}
		for _, c := range list {
			out = append(out, c.Code)
		}
		return out
	}

	if got := codes(req.RemainingCore); !reflect.DeepEqual(got, []string{"CS 370", "CS 380", "CS 490"}) {
		t.Errorf("RemainingCore 不符: %v", got)
	}
	if len(req.RemainingCore)+len(req.CompletedCore) != len(snap.Degree.Core) {
		t.Error("RemainingCore 与 CompletedCore 应构成核心课划分")
	}
	seen := map[string]bool{}
	for _, c := range append(codes(req.RemainingCore), codes(req.CompletedCore)...) {
		if seen[c] {
			t.Errorf("核心课 %s 重复出现", c)
		}
		seen[c] = true
	}

	if req.RemainingElectivesNeeded != 4 {
		t.Errorf("RemainingElectivesNeeded 期望 4, 实际 %d", req.RemainingElectivesNeeded)
	}
	if len(req.ElectiveOptions) != 8 {
		t.Errorf("ElectiveOptions 期望 8 门, 实际 %d", len(req.ElectiveOptions))
	}
	if len(req.RemainingMath) != 0 || len(req.CompletedMath) != 4 {
		t.Errorf("数学课应全部完成, 实际剩余 %d", len(req.RemainingMath))
	}
	if req.CreditProgress != 43 {
		t.Errorf("CreditProgress 期望 43, 实际 %d", req.CreditProgress)
	}
}

func TestRemainingRequirements_ElectiveCount(t *testing.T) {
	snap := newFixtureSnapshot(t)
	snap.Profile.Completed = append(snap.Profile.Completed, CompletedCourse{Code: "CS 410"})
	snap.Profile.Current = append(snap.Profile.Current, CurrentCourse{Code: "CS 460"})

	req := snap.RemainingRequirements()
	if req.RemainingElectivesNeeded != 2 {
		t.Errorf("RemainingElectivesNeeded 期望 2, 实际 %d", req.RemainingElectivesNeeded)
	}
	if len(req.ElectiveOptions) != 6 {
		t.Errorf("ElectiveOptions 期望 6 门, 实际 %d", len(req.ElectiveOptions))
	}
	for _, c := range req.ElectiveOptions {
		if c.Code == "CS 410" || c.Code == "CS 460" {
			t.Errorf("已修/在修选修课 %s 不应出现在 ElectiveOptions", c.Code)
		}
	}
}

func TestRemainingRequirements_OverSatisfied(t *testing.T) {
	snap := newFixtureSnapshot(t)
	snap.Degree.ElectiveRequired = 1
	snap.Profile.Completed = append(snap.Profile.Completed,
		CompletedCourse{Code: "CS 410"}, CompletedCourse{Code: "CS 420"}, CompletedCourse{Code: "CS 430"})

	if got := snap.RemainingRequirements().RemainingElectivesNeeded; got != -2 {
		t.Errorf("超额选修应得到负数 -2, 实际 %d", got)
	}
}

func TestCreditProgress(t *testing.T) {
	tests := []struct {
		total, required, expect int
	}{
		{52, 120, 43},
		{0, 120, 0},
		{120, 120, 100},
		{10, 0, 0},
		{1, 3, 33},
	}
	for _, tt := range tests {
		if got := CreditProgress(tt.total, tt.required); got != tt.expect {
			t.Errorf("CreditProgress(%d, %d) 期望 %d, 实际 %d", tt.total, tt.required, tt.expect, got)
		}
	}
}

// ── 评价 ──

func TestAverageRating(t *testing.T) {
	snap := newFixtureSnapshot(t)

	if got := snap.AverageRating("CS 380"); got != 0 {
		t.Errorf("无评价时平均分应为 0, 实际 %v", got)
	}
	if got := snap.AverageRating("cs410"); got != 4.8 {
		t.Errorf("单条评价平均分应为 4.8, 实际 %v", got)
	}
	if got := snap.AverageRating("CS 370"); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("CS 370 平均分期望 4.5, 实际 %v", got)
	}
}

func TestSortReviews(t *testing.T) {
	snap := newFixtureSnapshot(t)
	reviews := snap.ReviewsFor("CS 370")
	original := append([]Review(nil), reviews...)

	ids := func(rs []Review) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		key    SortKey
		expect []string
	}{
		{SortRecent, []string{"r-002", "r-001", "r-003"}},
		{SortRating, []string{"r-003", "r-001", "r-002"}},
		{SortUpvotes, []string{"r-003", "r-001", "r-002"}},
		{SortDifficulty, []string{"r-002", "r-001", "r-003"}},
		{SortKey("bogus"), []string{"r-001", "r-002", "r-003"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := ids(SortReviews(reviews, tt.key))
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("期望 %v, 实际 %v", tt.expect, got)
			}
		})
	}
	if !reflect.DeepEqual(reviews, original) {
		t.Error("SortReviews 不应修改输入切片")
	}
}

func TestReviewSummaries(t *testing.T) {
	snap := newFixtureSnapshot(t)
	rows := snap.ReviewSummaries()

	if len(rows) != 3 {
		t.Fatalf("期望 3 行汇总, 实际 %d", len(rows))
	}
	if rows[0].CourseCode != "CS 410" || rows[1].CourseCode != "CS 370" {
		t.Errorf("应按平均分降序, 实际 %s, %s", rows[0].CourseCode, rows[1].CourseCode)
	}
	if rows[2].CourseName != "Unknown" || rows[2].ReviewCount != 1 {
		t.Errorf("孤立评价应标记为 Unknown, 实际 %+v", rows[2])
	}

	st := SummarizeReviews(snap.ReviewsFor("CS 370"))
	if st.Count != 3 || math.Abs(st.AverageDifficulty-10.0/3) > 1e-9 {
		t.Errorf("统计不符: %+v", st)
	}
}

// ── 技能徽章 ──

func TestBadgeTier_Monotonic(t *testing.T) {
	tests := []struct {
		n      int
		expect Tier
	}{
		{0, TierBronze}, {1, TierBronze}, {2, TierBronze}, {3, TierSilver},
		{4, TierGold}, {5, TierPlatinum}, {9, TierPlatinum},
	}
	prev := TierBronze.rank()
	for _, tt := range tests {
		got := BadgeTier(tt.n)
		if got != tt.expect {
			t.Errorf("BadgeTier(%d) 期望 %s, 实际 %s", tt.n, tt.expect, got)
		}
		if got.rank() > prev {
			t.Errorf("BadgeTier 应单调: n=%d", tt.n)
		}
		prev = got.rank()
	}
}

func TestStudentSkills(t *testing.T) {
	snap := newFixtureSnapshot(t)
	badges := snap.StudentSkills()

	if len(badges) == 0 {
		t.Fatal("应至少有一个徽章")
	}
	// Calculus: MATH 151, MATH 152, MATH 310 → silver
	// Problem Solving: CS 101, CS 201, CS 301 → silver
	// Systems Thinking: CS 210, CS 350, CS 360 → silver
	want := []string{"Calculus", "Problem Solving", "Systems Thinking", "Data Structures", "Programming Fundamentals", "SQL"}
	var got []string
	for _, b := range badges {
		got = append(got, b.Skill)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("排序期望 %v, 实际 %v", want, got)
	}
	if badges[0].Tier != TierSilver || badges[0].CourseCount != 3 {
		t.Errorf("Calculus 应为 silver/3, 实际 %+v", badges[0])
	}
	if !reflect.DeepEqual(badges[2].Courses, []string{"CS 210", "CS 350", "CS 360"}) {
		t.Errorf("应保持课程首次出现顺序, 实际 %v", badges[2].Courses)
	}
}

func TestStudentSkills_UnmappedCourse(t *testing.T) {
	snap := &Snapshot{
		Profile: Profile{Completed: []CompletedCourse{{Code: "ART 100"}}},
		Skills:  map[string][]string{"CS 101": {"Programming Fundamentals"}},
	}
	if got := snap.StudentSkills(); len(got) != 0 {
		t.Errorf("未映射课程不应产生徽章, 实际 %+v", got)
	}
}
