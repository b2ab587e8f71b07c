package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/j4v3l/Duty-Tracker/internal/model"
)

func setupTestExportService() (*exportService, *testRepos) {
	repos := newTestRepos()
	repos.seedStandardPosts()
	svc := NewExportService(testRosterConfig(), repos.toRepository(), testLogger).(*exportService)
	svc.now = fixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return svc, repos
}

// ── ExportDistribution 测试 ──

func TestExportService_ExportDistribution(t *testing.T) {
	svc, repos := setupTestExportService()
	a := repos.addPerson("SGT", "Lastre")
	b := repos.addPerson("SPC", "Miller")
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repos.assign(a, "CQ", day)
	repos.assign(a, "CQ", day.AddDate(0, 0, 1))
	repos.assign(b, "SOG", day)

	buf, filename, err := svc.ExportDistribution(context.Background())
	if err != nil {
		t.Fatalf("ExportDistribution 应成功: %v", err)
	}
	if filename != "post_distribution_20240601.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件应可被解析: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "Distribution" {
		t.Errorf("工作表不符: %v", sheets)
	}

	// 类型列按总次数降序：CQ(2) 在 SOG(1) 之前
	if v, _ := f.GetCellValue("Distribution", "B1"); v != "CQ" {
		t.Errorf("B1 期望 CQ，实际 %s", v)
	}
	if v, _ := f.GetCellValue("Distribution", "A2"); v != "SGT Lastre" {
		t.Errorf("A2 期望 SGT Lastre，实际 %s", v)
	}
	if v, _ := f.GetCellValue("Distribution", "D2"); v != "2" {
		t.Errorf("Lastre 合计期望 2，实际 %s", v)
	}
	if v, _ := f.GetCellValue("Distribution", "C2"); v != "0" {
		t.Errorf("未值过的类型应填 0，实际 %s", v)
	}
	if v, _ := f.GetCellValue("Post Types", "B4"); v != "3" {
		t.Errorf("总计期望 3，实际 %s", v)
	}
}

// ── ExportCalendar 测试 ──

func TestExportService_ExportCalendar(t *testing.T) {
	svc, repos := setupTestExportService()
	p := repos.addPerson("PFC", "De La Cruz")
	ecp, _ := repos.postType.GetByName(context.Background(), "ECP")
	ecp.MeetingLocation = "Front of C10"
	ecp.EquipmentRequired = model.StringArray{"OCP's", "IOTV"}

	_ = repos.assignment.Create(context.Background(), &model.Assignment{
		PersonID:  p.PersonnelID,
		PostID:    repos.postID("ECP1"),
		DutyDate:  time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		StartTime: "18:00",
		EndTime:   "06:00",
	})

	buf, filename, err := svc.ExportCalendar(context.Background(), p.PersonnelID)
	if err != nil {
		t.Fatalf("ExportCalendar 应成功: %v", err)
	}
	if filename != "duty_pfc_de_la_cruz.ics" {
		t.Errorf("文件名不符: %s", filename)
	}

	out := buf.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:Duty: ECP1",
		"LOCATION:Front of C10",
		"DTSTART:20240503T180000Z",
		"DTEND:20240504T060000Z", // 跨夜
	} {
		if !strings.Contains(out, want) {
			t.Errorf("日历中缺少 %q", want)
		}
	}
}

func TestExportService_ExportCalendar_NotFound(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportCalendar(context.Background(), "missing")
	if !errors.Is(err, ErrPersonnelNotFound) {
		t.Errorf("期望 ErrPersonnelNotFound，实际: %v", err)
	}
}

func TestShiftBounds_Defaults(t *testing.T) {
	svc, _ := setupTestExportService()
	a := &model.Assignment{DutyDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)}

	start, end := svc.shiftBounds(a)
	if start.Hour() != 6 || end.Hour() != 18 || !end.After(start) {
		t.Errorf("缺省起止应为 06:00-18:00，实际 %v - %v", start, end)
	}
}
