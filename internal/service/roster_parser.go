package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/j4v3l/Duty-Tracker/internal/model"
)

// ═══════════════════════════════════════════════════════════
// 群聊名册解析
// 纯函数：不访问存储，不写日志，诊断信息通过 Trace 返回
// ═══════════════════════════════════════════════════════════

// RosterSection 段落标记 → 目标岗位
type RosterSection struct {
	Marker   string // 行内出现即切换段落，区分大小写
	Key      string
	PostType string
	Post     string
}

// rosterSections 按顺序检测，命中第一个即停止
var rosterSections = []RosterSection{
	{Marker: "SOG:", Key: "SOG", PostType: "SOG", Post: "SOG"},
	{Marker: "CQ:", Key: "CQ", PostType: "CQ", Post: "CQ"},
	{Marker: "ECP1:", Key: "ECP1", PostType: "ECP", Post: "ECP1"},
	{Marker: "ECP2:", Key: "ECP2", PostType: "ECP", Post: "ECP2"},
	{Marker: "ECP3:", Key: "ECP3", PostType: "ECP", Post: "ECP3"},
	{Marker: "VCP:", Key: "VCP", PostType: "VCP", Post: "VCP"},
	{Marker: "ROVER:", Key: "ROVER", PostType: "ROVER", Post: "ROVER"},
	{Marker: "Stand by:", Key: "Stand by", PostType: model.StandbyPostTypeName, Post: "Stand by"},
}

// noisePrefixes 装饰行前缀（车辆/设备表情、集合地点、着装说明），跳过但不结束当前段落
var noisePrefixes = []string{"🚐", "💻", "🚧", "🛺", "Meet at", "OCP"}

// rankNamePattern 军衔 + 姓名（字母与连字符）
var rankNamePattern = regexp.MustCompile(`(PV2|PFC|SPC|CPL|SGT|SSG|SFC|MSG|SGM)\s+([A-Za-z][A-Za-z-]*)`)

// 解析诊断事件类型
const (
	TraceSection   = "section"    // 切换段落
	TraceNoise     = "noise"      // 装饰行跳过
	TraceNoSection = "no_section" // 尚未出现段落标记
	TraceMatched   = "matched"
	TraceUnmatched = "unmatched"
)

// 身份匹配规则
const (
	MatchFullName = "full_name" // "军衔 姓名" 与全名一致
	MatchName     = "name"      // 姓名（或多词姓名的末词）一致
	MatchFuzzy    = "fuzzy"     // 全名同时包含姓名与军衔
)

// RosterCandidate 解析出的一条候选分配
type RosterCandidate struct {
	Line      int
	Section   RosterSection
	Rank      string
	NameToken string
	Person    *model.Personnel // nil 表示未匹配
	MatchRule string
}

// RosterTraceEvent 逐行诊断事件
type RosterTraceEvent struct {
	Line   int
	Kind   string
	Detail string
}

// RosterParseResult 解析结果：按出现顺序的已匹配候选、未匹配军衔姓名对与诊断轨迹
type RosterParseResult struct {
	Candidates []RosterCandidate
	Unmatched  []RosterCandidate
	Trace      []RosterTraceEvent
}

// ParseRoster 将群聊文本解析为候选分配。
// personnel 的顺序即匹配扫描顺序，调用方应传入确定性排序的在岗人员。
// 段落标记所在行中标记之后的文本按人员行处理。
func ParseRoster(text string, personnel []model.Personnel) *RosterParseResult {
	result := &RosterParseResult{}
	resolver := personnelResolver{personnel: personnel}

	var current *RosterSection
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if sec, rest, ok := detectSection(line); ok {
			current = sec
			result.trace(lineNo, TraceSection, sec.Key)
			line = rest
			if line == "" {
				continue
			}
		}

		if current == nil {
			result.trace(lineNo, TraceNoSection, line)
			continue
		}
		if hasNoisePrefix(line) {
			result.trace(lineNo, TraceNoise, line)
			continue
		}

		for _, m := range rankNamePattern.FindAllStringSubmatch(line, -1) {
			c := RosterCandidate{Line: lineNo, Section: *current, Rank: m[1], NameToken: m[2]}
			c.Person, c.MatchRule = resolver.resolve(c.Rank, c.NameToken)
			if c.Person == nil {
				result.Unmatched = append(result.Unmatched, c)
				result.trace(lineNo, TraceUnmatched, c.Rank+" "+c.NameToken)
				continue
			}
			result.Candidates = append(result.Candidates, c)
			result.trace(lineNo, TraceMatched, c.Rank+" "+c.NameToken+" → "+c.Person.FullName()+" ("+c.MatchRule+")")
		}
	}
	return result
}

func (r *RosterParseResult) trace(line int, kind, detail string) {
	r.Trace = append(r.Trace, RosterTraceEvent{Line: line, Kind: kind, Detail: detail})
}

// detectSection 返回行内第一个命中的段落及标记之后的剩余文本
func detectSection(line string) (*RosterSection, string, bool) {
	for i := range rosterSections {
		sec := &rosterSections[i]
		if idx := strings.Index(line, sec.Marker); idx >= 0 {
			return sec, strings.TrimSpace(line[idx+len(sec.Marker):]), true
		}
	}
	return nil, "", false
}

func hasNoisePrefix(line string) bool {
	for _, p := range noisePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// ── 身份匹配 ──

type personnelResolver struct {
	personnel []model.Personnel
}

// resolve 依次尝试：全名精确 → 姓名精确 → 模糊包含。均不区分大小写。
func (r personnelResolver) resolve(rank, token string) (*model.Personnel, string) {
	full := rank + " " + token
	for i := range r.personnel {
		if strings.EqualFold(r.personnel[i].FullName(), full) {
			return &r.personnel[i], MatchFullName
		}
	}

	for i := range r.personnel {
		name := r.personnel[i].Name
		if strings.EqualFold(name, token) || strings.EqualFold(lastWord(name), token) {
			return &r.personnel[i], MatchName
		}
	}

	upToken, upRank := strings.ToUpper(token), strings.ToUpper(rank)
	for i := range r.personnel {
		upFull := strings.ToUpper(r.personnel[i].FullName())
		if strings.Contains(upFull, upToken) && strings.Contains(upFull, upRank) {
			return &r.personnel[i], MatchFuzzy
		}
	}
	return nil, ""
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// ── 值班日期 ──

// ParseDutyDate 解析 YYYY-MM-DD 或 RFC3339；无法解析时回退为 now 当天，fallback=true
func ParseDutyDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return model.DateOnly(t), false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return model.DateOnly(t), false
	}
	return model.DateOnly(now.UTC()), true
}
