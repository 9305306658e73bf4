package service

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为待追加的日历记录。
//
// 设计决策：
//   - DTSTART 确定星期几与开始时间（换算到配置时区）
//   - DTEND 确定结束时间；缺失时使用 DURATION，二者皆无默认 1 小时
//   - 存在 RRULE 即视为每周重复
//   - 合并 title+day+start+end 相同的事件（ICS 可能以多个单次事件表示同一事务），
//     重复出现的事件标记为 recurring
//   - 缺少 SUMMARY / DTSTART 或为全天事件的 VEVENT 作为拒绝记录返回，不静默丢弃
//   - 分类留空，由导入流程的分类器按标题推断
// ─────────────────────────────────────────────────────────────

const icsDefaultDuration = time.Hour

// ICSRecord 解析出的一条记录；Reason 非空表示该 VEVENT 无法导入
type ICSRecord struct {
	Input  planner.EventInput
	Reason string
}

// NewICSHTTPClient 创建订阅拉取客户端
// allowPrivate 为 false 时，拨号阶段拒绝回环、内网、链路本地等非公网地址（含重定向）
func NewICSHTTPClient(timeout time.Duration, allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: timeout}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !allowPrivate {
		dialer.Control = refuseNonPublicAddr
		// 经代理时校验的是代理地址，因此禁用代理
		transport.Proxy = nil
	}
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

func refuseNonPublicAddr(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("%w: %s", ErrICSHostForbidden, host)
	}
	return nil
}

// sharedAddressSpace 运营商级 NAT 地址段 100.64.0.0/10
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func isPublicIP(ip net.IP) bool {
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast():
		return false
	case sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// FetchICSContent 从 URL 获取 ICS 内容
// webcal:// 改写为 https://，响应体最多读取 maxBytes 字节
func FetchICSContent(client *http.Client, rawURL string, maxBytes int64) (io.ReadCloser, error) {
	u := strings.TrimSpace(rawURL)
	if strings.HasPrefix(strings.ToLower(u), "webcal://") {
		u = "https://" + u[len("webcal://"):]
	}
	if !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		return nil, ErrICSURLInvalid
	}

	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, maxBytes),
		Closer: resp.Body,
	}, nil
}

// ParseICS 解析 ICS 内容，按 VEVENT 出现顺序返回记录（合并后保留首次出现位置）
func ParseICS(reader io.Reader, loc *time.Location) ([]ICSRecord, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	type key struct {
		title, day, start, end string
	}
	var records []ICSRecord
	index := make(map[key]int)

	for i, evt := range cal.Events() {
		in, reason := parseVEvent(evt, loc)
		if reason != "" {
			if in.Title == "" {
				in.Title = fmt.Sprintf("VEVENT #%d", i+1)
			}
			records = append(records, ICSRecord{Input: in, Reason: reason})
			continue
		}

		k := key{in.Title, in.Day, in.Start, in.End}
		if pos, ok := index[k]; ok {
			records[pos].Input.Recurring = true
			continue
		}
		index[k] = len(records)
		records = append(records, ICSRecord{Input: in})
	}
	return records, nil
}

// parseVEvent 解析单个 VEVENT；返回非空原因表示拒绝
func parseVEvent(evt *ics.VEvent, loc *time.Location) (planner.EventInput, string) {
	var in planner.EventInput
	if summary := evt.GetProperty(ics.ComponentPropertySummary); summary != nil {
		in.Title = strings.TrimSpace(summary.Value)
	}
	if in.Title == "" {
		return in, "missing SUMMARY"
	}

	startProp := evt.GetProperty(ics.ComponentPropertyDtStart)
	if startProp == nil || strings.TrimSpace(startProp.Value) == "" {
		return in, "missing DTSTART"
	}
	if isDateOnly(startProp) {
		return in, "all-day events are not supported"
	}
	dtStart, err := parseICSDateTime(startProp, loc)
	if err != nil {
		return in, fmt.Sprintf("malformed DTSTART %q", startProp.Value)
	}

	dtEnd := dtStart.Add(icsDefaultDuration)
	if endProp := evt.GetProperty(ics.ComponentPropertyDtEnd); endProp != nil {
		dtEnd, err = parseICSDateTime(endProp, loc)
		if err != nil {
			return in, fmt.Sprintf("malformed DTEND %q", endProp.Value)
		}
	} else if durProp := evt.GetProperty(ics.ComponentPropertyDuration); durProp != nil {
		d, err := parseICSDuration(durProp.Value)
		if err != nil {
			return in, fmt.Sprintf("malformed DURATION %q", durProp.Value)
		}
		dtEnd = dtStart.Add(d)
	}

	if dtEnd.YearDay() != dtStart.YearDay() || dtEnd.Year() != dtStart.Year() {
		if !(dtEnd.Hour() == 0 && dtEnd.Minute() == 0 && dtEnd.Sub(dtStart) <= 24*time.Hour) {
			return in, "event spans multiple days"
		}
		// 结束于次日零点：截至当天 23:59
		dtEnd = dtEnd.Add(-time.Minute)
	}

	in.Day = planner.WeekdayFromTime(dtStart.Weekday()).String()
	in.Start = dtStart.Format("15:04")
	in.End = dtEnd.Format("15:04")
	in.Recurring = evt.GetProperty(ics.ComponentPropertyRrule) != nil
	return in, ""
}

// isDateOnly VALUE=DATE 或 8 位日期值表示全天事件
func isDateOnly(prop *ics.IANAProperty) bool {
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "VALUE") && len(v) > 0 && strings.EqualFold(v[0], "DATE") {
			return true
		}
	}
	return len(strings.TrimSpace(prop.Value)) == len("20060102")
}

// parseICSDateTime 解析日期时间属性：UTC (Z 后缀)、带 TZID 或浮动时间
func parseICSDateTime(prop *ics.IANAProperty, loc *time.Location) (time.Time, error) {
	val := strings.TrimSpace(prop.Value)

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.In(loc), nil
	}

	t, err := time.Parse("20060102T150405", val)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
	}

	// 检查 TZID 参数
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			if tzLoc, err := time.LoadLocation(v[0]); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

var icsDurationRe = regexp.MustCompile(`^([+-])?P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseICSDuration 解析 RFC 5545 DURATION（如 PT1H30M、P1D）
func parseICSDuration(value string) (time.Duration, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	m := icsDurationRe.FindStringSubmatch(v)
	if m == nil || v == "P" || v == "PT" || strings.HasSuffix(v, "T") {
		return 0, fmt.Errorf("无法解析 DURATION: %s", value)
	}

	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, unit := range units {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return 0, err
		}
		d += time.Duration(n) * unit
	}
	if m[1] == "-" {
		d = -d
	}
	if d <= 0 {
		return 0, fmt.Errorf("DURATION 必须为正: %s", value)
	}
	return d, nil
}
