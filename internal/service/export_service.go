package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/model"
	"github.com/j4v3l/Duty-Tracker/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 分布统计导出为 Excel (.xlsx)，与 PostDistribution 口径一致
//   - 个人值班日历导出为 iCalendar (.ics)，每条分配一个 VEVENT
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	ExportDistribution(ctx context.Context) (*bytes.Buffer, string, error)
	ExportCalendar(ctx context.Context, personID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	cfg    *config.RosterConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.RosterConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportDistribution 岗位分布导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Distribution"：人员 × 岗位类型 次数矩阵，末列为合计
//   - Sheet "Breakdown"：每人每类型的次数及两种占比
//   - Sheet "Post Types"：岗位类型合计

func (s *exportService) ExportDistribution(ctx context.Context) (*bytes.Buffer, string, error) {
	personnel, err := s.repo.Personnel.ListActive(ctx)
	if err != nil {
		s.logger.Error("读取在岗人员失败", zap.Error(err))
		return nil, "", err
	}
	assignments, err := s.repo.Assignment.ListForActivePersonnel(ctx)
	if err != nil {
		s.logger.Error("读取值班分配失败", zap.Error(err))
		return nil, "", err
	}
	dist := buildDistribution(personnel, assignments)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── Sheet 1：矩阵 ──
	matrix := "Distribution"
	idx, _ := f.NewSheet(matrix)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	typeCols := make(map[string]int, len(dist.PostTypeTotals))
	f.SetCellValue(matrix, cell("A", 1), "Personnel")
	for i, pt := range dist.PostTypeTotals {
		typeCols[pt.Name] = i + 1
		f.SetCellValue(matrix, cell(colName(i+1), 1), pt.Name)
	}
	totalCol := colName(len(dist.PostTypeTotals) + 1)
	f.SetCellValue(matrix, cell(totalCol, 1), "Total")
	f.SetCellStyle(matrix, "A1", cell(totalCol, 1), headerStyle)
	f.SetColWidth(matrix, "A", "A", 24)

	row := 2
	for _, p := range dist.Personnel {
		f.SetCellValue(matrix, cell("A", row), p.Personnel.FullName)
		for i := range dist.PostTypeTotals {
			f.SetCellValue(matrix, cell(colName(i+1), row), 0)
		}
		for _, b := range p.Breakdown {
			f.SetCellValue(matrix, cell(colName(typeCols[b.PostType]), row), b.Count)
		}
		f.SetCellValue(matrix, cell(totalCol, row), p.TotalAssignments)
		row++
	}

	// ── Sheet 2：明细占比 ──
	breakdown := "Breakdown"
	f.NewSheet(breakdown)
	headers := []string{"Personnel", "Post Type", "Count", "% of Post Type", "% of Person"}
	for i, h := range headers {
		f.SetCellValue(breakdown, cell(colName(i), 1), h)
	}
	f.SetCellStyle(breakdown, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(breakdown, "A", "B", 24)
	f.SetColWidth(breakdown, "C", "E", 16)

	row = 2
	for _, p := range dist.Personnel {
		for _, b := range p.Breakdown {
			f.SetCellValue(breakdown, cell("A", row), p.Personnel.FullName)
			f.SetCellValue(breakdown, cell("B", row), b.PostType)
			f.SetCellValue(breakdown, cell("C", row), b.Count)
			f.SetCellValue(breakdown, cell("D", row), b.PercentageOfTotal)
			f.SetCellValue(breakdown, cell("E", row), b.PercentageOfPerson)
			row++
		}
	}

	// ── Sheet 3：类型合计 ──
	totals := "Post Types"
	f.NewSheet(totals)
	f.SetCellValue(totals, "A1", "Post Type")
	f.SetCellValue(totals, "B1", "Assignments")
	f.SetCellStyle(totals, "A1", "B1", headerStyle)
	f.SetColWidth(totals, "A", "B", 18)
	row = 2
	for _, pt := range dist.PostTypeTotals {
		f.SetCellValue(totals, cell("A", row), pt.Name)
		f.SetCellValue(totals, cell("B", row), pt.Count)
		row++
	}
	f.SetCellValue(totals, cell("A", row), "Total")
	f.SetCellValue(totals, cell("B", row), dist.GrandTotal)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("post_distribution_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar 个人值班日历导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, personID string) (*bytes.Buffer, string, error) {
	person, err := s.repo.Personnel.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrPersonnelNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", personID), zap.Error(err))
		return nil, "", err
	}

	history, err := s.repo.Assignment.ListByPerson(ctx, personID)
	if err != nil {
		s.logger.Error("读取人员值班记录失败", zap.String("id", personID), zap.Error(err))
		return nil, "", err
	}

	stamp := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Duty Tracker//Duty Calendar//EN")
	cal.SetXWRCalName("Duty - " + person.FullName())

	for i := range history {
		a := &history[i]
		start, end := s.shiftBounds(a)

		event := cal.AddEvent(a.AssignmentID + "@duty-tracker")
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(a.CreatedAt.UTC())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(calendarSummary(a))
		if a.Post != nil && a.Post.PostType != nil {
			pt := a.Post.PostType
			if pt.MeetingLocation != "" {
				event.SetLocation(pt.MeetingLocation)
			}
			event.SetDescription(calendarDescription(a, pt))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("duty_%s_%s.ics", strings.ToLower(person.Rank), strings.ToLower(strings.ReplaceAll(person.Name, " ", "_")))
	return buf, filename, nil
}

// shiftBounds 值班日期 + HH:MM 起止时间（UTC）；结束早于开始视为跨夜
func (s *exportService) shiftBounds(a *model.Assignment) (time.Time, time.Time) {
	start := atClock(a.DutyDate, orDefault(a.StartTime, s.cfg.DefaultStartTime))
	end := atClock(a.DutyDate, orDefault(a.EndTime, s.cfg.DefaultEndTime))
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// atClock 解析失败时取当日零点
func atClock(day time.Time, hhmm string) time.Time {
	base := model.DateOnly(day)
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return base
	}
	return base.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

func calendarSummary(a *model.Assignment) string {
	if a.Post == nil {
		return "Duty"
	}
	return "Duty: " + a.Post.Name
}

func calendarDescription(a *model.Assignment, pt *model.PostType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Post type: %s\nStatus: %s", pt.Name, a.Status)
	if pt.MeetingTime != "" {
		fmt.Fprintf(&b, "\nMeeting time: %s", pt.MeetingTime)
	}
	if len(pt.EquipmentRequired) > 0 {
		fmt.Fprintf(&b, "\nEquipment: %s", strings.Join(pt.EquipmentRequired, ", "))
	}
	if a.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", a.Notes)
	}
	return b.String()
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
