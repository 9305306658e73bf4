package service

import (
	"math"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
)

// ── planner → dto 转换 ──

func dayNames(days []planner.Weekday) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}

func toMeetingResponse(m planner.Meeting) dto.MeetingResponse {
	return dto.MeetingResponse{
		Days:      dayNames(m.Days),
		StartTime: m.Span.Start.String(),
		EndTime:   m.Span.End.String(),
	}
}

func toMeetingResponses(meetings []planner.Meeting) []dto.MeetingResponse {
	out := make([]dto.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, toMeetingResponse(m))
	}
	return out
}

func toEventResponse(e planner.CalendarEvent) dto.EventResponse {
	return dto.EventResponse{
		ID:        e.ID,
		Title:     e.Title,
		Day:       e.Day.String(),
		StartTime: e.Span.Start.String(),
		EndTime:   e.Span.End.String(),
		Recurring: e.Recurring,
		Category:  string(e.Category),
	}
}

func toEventResponses(events []planner.CalendarEvent) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

func toCourseResponse(snap *planner.Snapshot, c planner.Course) dto.CourseResponse {
	reviews := snap.ReviewsFor(c.Code)
	seats := c.Capacity - c.Enrolled
	if seats < 0 {
		seats = 0
	}
	return dto.CourseResponse{
		Code:          c.Code,
		Name:          c.Name,
		Department:    c.Department,
		Credits:       c.Credits,
		Description:   c.Description,
		Prerequisites: append([]string{}, c.Prerequisites...),
		Meetings:      toMeetingResponses(c.Meetings),
		Instructor:    c.Instructor,
		Capacity:      c.Capacity,
		Enrolled:      c.Enrolled,
		SeatsLeft:     seats,
		Term:          c.Term,
		Tags:          append([]string{}, c.Tags...),
		AverageRating: roundTenth(snap.AverageRating(c.Code)),
		ReviewCount:   len(reviews),
	}
}

func toReviewResponse(r planner.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:            r.ID,
		CourseCode:    r.CourseCode,
		Rating:        r.Rating,
		Difficulty:    r.Difficulty,
		Workload:      r.Workload,
		TeachingStyle: r.TeachingStyle,
		Comment:       r.Comment,
		Grade:         r.Grade,
		Term:          r.Term,
		Anonymous:     r.Anonymous,
		Upvotes:       r.Upvotes,
		CreatedAt:     r.CreatedAt,
	}
}

func toReviewResponses(reviews []planner.Review) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	return out
}

func toRequirementResponses(items []planner.RequiredCourse) []dto.RequirementCourseResponse {
	out := make([]dto.RequirementCourseResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.RequirementCourseResponse{Code: it.Code, Name: it.Name, Credits: it.Credits})
	}
	return out
}

func toRequirementsResponse(r planner.Requirements) dto.RequirementsResponse {
	general := make([]dto.GeneralEducationResponse, 0, len(r.GeneralEducation))
	for _, g := range r.GeneralEducation {
		general = append(general, dto.GeneralEducationResponse{Category: g.Category, Count: g.Count})
	}
	return dto.RequirementsResponse{
		Major:                    r.Major,
		RemainingCore:            toRequirementResponses(r.RemainingCore),
		CompletedCore:            toRequirementResponses(r.CompletedCore),
		CompletedElectives:       toRequirementResponses(r.CompletedElectives),
		RemainingElectivesNeeded: r.RemainingElectivesNeeded,
		ElectiveOptions:          toRequirementResponses(r.ElectiveOptions),
		RemainingMath:            toRequirementResponses(r.RemainingMath),
		CompletedMath:            toRequirementResponses(r.CompletedMath),
		GeneralEducation:         general,
		TotalCredits:             r.TotalCredits,
		RequiredCredits:          r.RequiredCredits,
		CreditProgress:           r.CreditProgress,
	}
}

func toSkillsResponse(badges []planner.SkillBadge) dto.SkillsResponse {
	out := dto.SkillsResponse{Total: len(badges), Badges: make([]dto.SkillBadgeResponse, 0, len(badges))}
	for _, b := range badges {
		out.Badges = append(out.Badges, dto.SkillBadgeResponse{
			Skill:       b.Skill,
			Tier:        string(b.Tier),
			CourseCount: b.CourseCount,
			Courses:     append([]string{}, b.Courses...),
		})
	}
	return out
}

func toWeekResponse(w planner.Week) dto.WeekResponse {
	resp := dto.WeekResponse{
		Days:              make([]dto.WeekDayResponse, 0, len(planner.AllWeekdays)),
		Selected:          make([]dto.SelectedCourseResponse, 0, len(w.Selected)),
		UnknownCodes:      append([]string{}, w.UnknownCodes...),
		CalendarConflicts: make([]dto.CalendarConflictResponse, 0, len(w.CalendarConflicts)),
		CourseConflicts:   make([]dto.CoursePairConflictResponse, 0, len(w.CourseConflicts)),
		HasConflicts:      w.HasConflicts(),
		TotalCredits:      w.TotalCredits,
	}
	for _, d := range planner.AllWeekdays {
		entries := make([]dto.WeekEntryResponse, 0, len(w.Days[d]))
		for _, e := range w.Days[d] {
			entries = append(entries, dto.WeekEntryResponse{
				Title:     e.Title,
				StartTime: e.Span.Start.String(),
				EndTime:   e.Span.End.String(),
				Kind:      e.Kind,
			})
		}
		resp.Days = append(resp.Days, dto.WeekDayResponse{Day: d.String(), Entries: entries})
	}
	for _, c := range w.Selected {
		resp.Selected = append(resp.Selected, dto.SelectedCourseResponse{
			Code:       c.Code,
			Name:       c.Name,
			Credits:    c.Credits,
			Instructor: c.Instructor,
			Meetings:   toMeetingResponses(c.Meetings),
		})
		resp.SelectedCredits += c.Credits
	}
	for _, cc := range w.CalendarConflicts {
		resp.CalendarConflicts = append(resp.CalendarConflicts, dto.CalendarConflictResponse{
			CourseCode: cc.CourseCode,
			Meeting:    toMeetingResponse(cc.Meeting),
			Events:     toEventResponses(cc.Events),
		})
	}
	for _, pc := range w.CourseConflicts {
		resp.CourseConflicts = append(resp.CourseConflicts, dto.CoursePairConflictResponse{
			First:      pc.First,
			Second:     pc.Second,
			Days:       dayNames(pc.Days),
			FirstTime:  pc.FirstSpan.String(),
			SecondTime: pc.SecondSpan.String(),
		})
	}
	return resp
}

// roundTenth 保留一位小数
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
