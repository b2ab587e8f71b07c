package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#4472C4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C6370"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
)

// newTable 统一边框与表头样式；numericFrom 之后的列右对齐
func newTable(headers []string, numericFrom int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= numericFrom:
				return numStyle
			default:
				return cellStyle
			}
		})
}

func renderRanking(items []dto.FairnessRankItem) string {
	t := newTable([]string{"#", "Personnel", "Score", "Assignments", "Points", "Days Since", "Standby Streak"}, 2)
	for _, it := range items {
		assignments, points, streak := "0", "0", "0"
		if it.Tracking != nil {
			assignments = strconv.Itoa(it.Tracking.TotalAssignments)
			points = strconv.Itoa(it.Tracking.TotalDifficultyPoints)
			streak = strconv.Itoa(it.Tracking.ConsecutiveStandby)
		}
		days := "-"
		if it.DaysSince != nil {
			days = strconv.Itoa(*it.DaysSince)
		}
		t.Row(strconv.Itoa(it.Rank), it.Personnel.FullName, fmt.Sprintf("%.1f", it.Score), assignments, points, days, streak)
	}
	return titleStyle.Render("Fairness ranking") + "\n" + t.String()
}

func renderDistribution(dist *dto.PostDistributionResponse) string {
	headers := []string{"Personnel"}
	for _, pt := range dist.PostTypeTotals {
		headers = append(headers, pt.Name)
	}
	headers = append(headers, "Total")

	t := newTable(headers, 1)
	for _, p := range dist.Personnel {
		counts := make(map[string]dto.PostTypeShare, len(p.Breakdown))
		for _, b := range p.Breakdown {
			counts[b.PostType] = b
		}
		row := []string{p.Personnel.FullName}
		for _, pt := range dist.PostTypeTotals {
			share, ok := counts[pt.Name]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%d (%.1f%%)", share.Count, share.PercentageOfPerson))
		}
		row = append(row, strconv.Itoa(p.TotalAssignments))
		t.Row(row...)
	}

	totals := []string{"Total"}
	for _, pt := range dist.PostTypeTotals {
		totals = append(totals, strconv.Itoa(pt.Count))
	}
	totals = append(totals, strconv.Itoa(dist.GrandTotal))
	t.Row(totals...)

	title := fmt.Sprintf("Post distribution (%d personnel, %d assignments)", dist.PersonnelCount, dist.GrandTotal)
	return titleStyle.Render(title) + "\n" + t.String()
}

func printImport(w io.Writer, r *dto.ImportRosterResponse) {
	fmt.Fprintf(w, "duty date: %s", r.DutyDate)
	if r.DateFallback {
		fmt.Fprint(w, warnStyle.Render(" (date not recognised, used today)"))
	}
	fmt.Fprintf(w, "\ncreated: %d\nduplicates: %d\n", r.Created, r.Duplicates)
	printUnmatched(w, r.Unmatched)
	if len(r.UnresolvedPosts) > 0 {
		fmt.Fprintln(w, warnStyle.Render("posts not found (run setup-posts): "+strings.Join(r.UnresolvedPosts, ", ")))
	}
}

func printPreview(w io.Writer, r *dto.RosterPreviewResponse) {
	fmt.Fprintf(w, "duty date: %s\n", r.DutyDate)

	t := newTable([]string{"Line", "Post", "Token", "Personnel", "Rule"}, 99)
	for _, c := range r.Candidates {
		t.Row(strconv.Itoa(c.Line), c.Post, c.Rank+" "+c.Name, c.FullName, c.MatchRule)
	}
	fmt.Fprintln(w, t.String())
	printUnmatched(w, r.Unmatched)

	if verbose {
		for _, ev := range r.Trace {
			fmt.Fprintf(w, "%4d  %-12s %s\n", ev.Line, ev.Kind, ev.Detail)
		}
	}
}

func printUnmatched(w io.Writer, tokens []dto.UnmatchedToken) {
	for _, u := range tokens {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("unmatched: line %d [%s] %s %s", u.Line, u.Section, u.Rank, u.Name)))
	}
}

func printDetail(w io.Writer, d *dto.PersonnelDetailResponse) {
	fmt.Fprintln(w, titleStyle.Render(d.Personnel.FullName))
	fmt.Fprintf(w, "assignments: %d  points: %d  average difficulty: %.2f\n",
		d.TotalAssignments, d.TotalDifficultyPoints, d.AverageDifficulty)
	fmt.Fprintf(w, "fairness score: %.1f  recency weighted: %.2f\n", d.FairnessScore, d.RecencyWeightedScore)
	if d.LastDutyDate != "" && d.DaysSinceLastDuty != nil {
		fmt.Fprintf(w, "last duty: %s (%d days ago)\n", d.LastDutyDate, *d.DaysSinceLastDuty)
	}
	if d.MostFrequentPostType != "" {
		fmt.Fprintf(w, "most frequent: %s / %s\n", d.MostFrequentPostType, d.MostFrequentPost)
	}

	if len(d.RecentAssignments) == 0 {
		return
	}
	t := newTable([]string{"Date", "Post", "Type", "Shift", "Status"}, 99)
	for _, a := range d.RecentAssignments {
		t.Row(a.DutyDate, a.PostName, a.PostTypeName, a.StartTime+"-"+a.EndTime, a.Status)
	}
	fmt.Fprintln(w, t.String())
}
