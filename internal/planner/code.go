package planner

import (
	"regexp"
	"strings"
)

var (
	canonicalCodePattern = regexp.MustCompile(`^([A-Za-z]+)\s*(\d{3,4})$`)
	mentionCodePattern   = regexp.MustCompile(`\b([A-Za-z]{2,5})\s?(\d{3,4})\b`)
)

// CanonicalCode 规范化课程代码："cs370" / " cs  370 " → "CS 370"
// 不符合 "DEPT NNN" 形态的输入仅做去空白与大写处理
func CanonicalCode(code string) string {
	v := strings.TrimSpace(code)
	if m := canonicalCodePattern.FindStringSubmatch(v); m != nil {
		return strings.ToUpper(m[1]) + " " + m[2]
	}
	return strings.ToUpper(strings.Join(strings.Fields(v), " "))
}

// ExtractCourseCodes 从自由文本中提取课程代码（按出现顺序去重）
func ExtractCourseCodes(text string) []string {
	matches := mentionCodePattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	var codes []string
	for _, m := range matches {
		code := strings.ToUpper(m[1]) + " " + m[2]
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
