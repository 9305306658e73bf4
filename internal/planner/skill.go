package planner

import "sort"

// Tier 技能徽章等级
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// rank 排序名次，platinum 最靠前
func (t Tier) rank() int {
	switch t {
	case TierPlatinum:
		return 0
	case TierGold:
		return 1
	case TierSilver:
		return 2
	default:
		return 3
	}
}

// BadgeTier 按贡献课程数确定徽章等级
func BadgeTier(courseCount int) Tier {
	switch {
	case courseCount >= 5:
		return TierPlatinum
	case courseCount >= 4:
		return TierGold
	case courseCount >= 3:
		return TierSilver
	default:
		return TierBronze
	}
}

// SkillBadge 派生的技能徽章
type SkillBadge struct {
	Skill       string
	Tier        Tier
	CourseCount int
	Courses     []string
}

// StudentSkills 将已修与在修课程映射为技能徽章。
// 每个技能保留课程首次出现顺序；结果按等级再按技能名（字节序）排序。
func (s *Snapshot) StudentSkills() []SkillBadge {
	codes := make([]string, 0, len(s.Profile.Completed)+len(s.Profile.Current))
	for _, c := range s.Profile.Completed {
		codes = append(codes, c.Code)
	}
	for _, c := range s.Profile.Current {
		codes = append(codes, c.Code)
	}

	table := make(map[string][]string, len(s.Skills))
	for code, skills := range s.Skills {
		table[CanonicalCode(code)] = skills
	}

	var order []string
	bySkill := make(map[string][]string)
	for _, code := range codes {
		for _, skill := range table[CanonicalCode(code)] {
			if _, ok := bySkill[skill]; !ok {
				order = append(order, skill)
			}
			bySkill[skill] = append(bySkill[skill], code)
		}
	}

	badges := make([]SkillBadge, 0, len(order))
	for _, skill := range order {
		courses := bySkill[skill]
		badges = append(badges, SkillBadge{
			Skill:       skill,
			Tier:        BadgeTier(len(courses)),
			CourseCount: len(courses),
			Courses:     courses,
		})
	}
	sort.SliceStable(badges, func(i, j int) bool {
		ri, rj := badges[i].Tier.rank(), badges[j].Tier.rank()
		if ri != rj {
			return ri < rj
		}
		return badges[i].Skill < badges[j].Skill
	})
	return badges
}
