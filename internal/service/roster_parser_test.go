package service

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/j4v3l/Duty-Tracker/internal/model"
)

// testRoster 名册顺序即匹配扫描顺序
func testRoster() []model.Personnel {
	return []model.Personnel{
		{PersonnelID: "p1", Rank: "SGT", Name: "Lastre", IsActive: true},
		{PersonnelID: "p2", Rank: "SPC", Name: "Miller", IsActive: true},
		{PersonnelID: "p3", Rank: "PFC", Name: "De La Cruz", IsActive: true},
		{PersonnelID: "p4", Rank: "SPC", Name: "Smith-Jones", IsActive: true},
		{PersonnelID: "p5", Rank: "SSG", Name: "Okafor", IsActive: true},
	}
}

// pairs 提取 (段落, 人员ID) 便于比较
func pairs(res *RosterParseResult) [][2]string {
	out := make([][2]string, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		out = append(out, [2]string{c.Section.Post, c.Person.PersonnelID})
	}
	return out
}

func TestParseRoster_HeaderWithName(t *testing.T) {
	res := ParseRoster("SOG: SGT Lastre\n\nCQ: SPC Miller", testRoster())

	want := [][2]string{{"SOG", "p1"}, {"CQ", "p2"}}
	if diff := cmp.Diff(want, pairs(res)); diff != "" {
		t.Errorf("候选不符 (-want +got):\n%s", diff)
	}
	if res.Candidates[0].Section.PostType != "SOG" || res.Candidates[1].Section.PostType != "CQ" {
		t.Error("段落应映射到同名岗位类型")
	}
}

func TestParseRoster_SectionsAndNoise(t *testing.T) {
	text := `Guard mount for tomorrow
🚐 ECP1:
🚐 Vehicle 12 departs 0530
SGT Lastre SPC Miller
Meet at the motor pool
OCP's, ACH, IOTV
PFC Cruz
Stand by:
SSG Okafor`

	res := ParseRoster(text, testRoster())

	want := [][2]string{{"ECP1", "p1"}, {"ECP1", "p2"}, {"ECP1", "p3"}, {"Stand by", "p5"}}
	if diff := cmp.Diff(want, pairs(res)); diff != "" {
		t.Errorf("候选不符 (-want +got):\n%s", diff)
	}

	kinds := map[string]int{}
	for _, ev := range res.Trace {
		kinds[ev.Kind]++
	}
	if kinds[TraceNoSection] != 1 {
		t.Errorf("段落前的行应记为 no_section，实际 %d 条", kinds[TraceNoSection])
	}
	if kinds[TraceNoise] != 3 {
		t.Errorf("期望 3 条装饰行，实际 %d 条", kinds[TraceNoise])
	}
	if kinds[TraceSection] != 2 {
		t.Errorf("期望 2 次段落切换，实际 %d 次", kinds[TraceSection])
	}
}

func TestParseRoster_NoiseLineKeepsSection(t *testing.T) {
	text := "VCP:\n🛺 SGT Lastre\nSPC Miller"
	res := ParseRoster(text, testRoster())

	want := [][2]string{{"VCP", "p2"}}
	if diff := cmp.Diff(want, pairs(res)); diff != "" {
		t.Errorf("装饰行不应产生候选，也不应结束段落 (-want +got):\n%s", diff)
	}
}

func TestParseRoster_MatchRules(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		wantID   string
		wantRule string
	}{
		{"全名精确", "SGT Lastre", "p1", MatchFullName},
		{"全名不区分大小写", "SGT lastre", "p1", MatchFullName},
		{"军衔不同按姓名", "SSG Miller", "p2", MatchName},
		{"多词姓名末词", "PFC Cruz", "p3", MatchName},
		{"连字符姓名", "SPC Smith-Jones", "p4", MatchFullName},
		{"模糊包含", "SPC Smith", "p4", MatchFuzzy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ParseRoster("ROVER:\n"+tc.line, testRoster())
			if len(res.Candidates) != 1 {
				t.Fatalf("期望 1 个候选，实际 %d（未匹配 %d）", len(res.Candidates), len(res.Unmatched))
			}
			c := res.Candidates[0]
			if c.Person.PersonnelID != tc.wantID || c.MatchRule != tc.wantRule {
				t.Errorf("期望 %s/%s，实际 %s/%s", tc.wantID, tc.wantRule, c.Person.PersonnelID, c.MatchRule)
			}
		})
	}
}

func TestParseRoster_FuzzyRespectsRosterOrder(t *testing.T) {
	roster := []model.Personnel{
		{PersonnelID: "b", Rank: "SPC", Name: "Anderson"},
		{PersonnelID: "a", Rank: "SPC", Name: "Sanderson"},
	}
	res := ParseRoster("CQ: SPC Nders", roster)
	if len(res.Candidates) != 1 || res.Candidates[0].Person.PersonnelID != "b" {
		t.Errorf("模糊匹配应取名册顺序中的第一个，实际 %+v", pairs(res))
	}
}

func TestParseRoster_Unmatched(t *testing.T) {
	res := ParseRoster("SOG:\nSGT Nobody, SPC Miller\nlooks good", testRoster())

	if len(res.Candidates) != 1 {
		t.Fatalf("期望 1 个候选，实际 %d", len(res.Candidates))
	}
	if len(res.Unmatched) != 1 {
		t.Fatalf("期望 1 个未匹配，实际 %d", len(res.Unmatched))
	}
	u := res.Unmatched[0]
	if u.Rank != "SGT" || u.NameToken != "Nobody" || u.Line != 2 || u.Section.Key != "SOG" {
		t.Errorf("未匹配项不符: %+v", u)
	}
}

func TestParseRoster_NoSection(t *testing.T) {
	res := ParseRoster("SGT Lastre\nSPC Miller", testRoster())
	if len(res.Candidates) != 0 {
		t.Errorf("没有段落标记时不应产生候选，实际 %d", len(res.Candidates))
	}
}

func TestParseRoster_MarkerOrderAndCase(t *testing.T) {
	res := ParseRoster("stand by: SGT Lastre\nECP3: SPC Miller\nsog: SSG Okafor", testRoster())

	// 小写标记不识别，沿用上一段落
	want := [][2]string{{"ECP3", "p2"}, {"ECP3", "p5"}}
	if diff := cmp.Diff(want, pairs(res)); diff != "" {
		t.Errorf("候选不符 (-want +got):\n%s", diff)
	}
}

func TestParseRoster_CRLF(t *testing.T) {
	res := ParseRoster("CQ:\r\nSPC Miller\r\n", testRoster())
	if len(res.Candidates) != 1 || res.Candidates[0].Line != 2 {
		t.Errorf("CRLF 换行应正常解析，实际 %+v", res.Candidates)
	}
}

// ── ParseDutyDate ──

func TestParseDutyDate(t *testing.T) {
	now := time.Date(2024, 7, 4, 15, 30, 0, 0, time.UTC)
	today := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		raw          string
		want         time.Time
		wantFallback bool
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{" 2024-01-15 ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"2024-01-15T23:30:00-05:00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"01/15/2024", today, true},
		{"", today, true},
		{"2024-13-40", today, true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, fallback := ParseDutyDate(tc.raw, now)
			if !got.Equal(tc.want) || fallback != tc.wantFallback {
				t.Errorf("期望 %v/%v，实际 %v/%v", tc.want, tc.wantFallback, got, fallback)
			}
		})
	}
}
