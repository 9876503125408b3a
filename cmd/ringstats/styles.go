package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ringstats-backend/models"
	"ringstats-backend/wrestlers"
)

var (
	accentColor = lipgloss.Color("#D29922")
	goodColor   = lipgloss.Color("#2DA44E")
	badColor    = lipgloss.Color("#CF222E")
	dimColor    = lipgloss.Color("#6E7681")

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	nameStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(dimColor)
	goodStyle    = lipgloss.NewStyle().Foreground(goodColor).Bold(true)
	badStyle     = lipgloss.NewStyle().Foreground(badColor).Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(accentColor)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

const barWidth = 30

func header(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
}

func wrestlerLine(w models.Wrestler) string {
	label := nameStyle.Render(w.Name)
	if w.Nickname != "" {
		label += dimStyle.Render(fmt.Sprintf(" %q", w.Nickname))
	}
	promo := w.Promotion
	if w.Brand != "" {
		promo += " / " + w.Brand
	}
	return fmt.Sprintf("%-6s %s  %s  rating %.2f", w.ID, label, dimStyle.Render(promo), w.AverageRating)
}

func renderWrestlers(out io.Writer, ws []models.Wrestler) {
	if len(ws) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No wrestlers found."))
		return
	}
	for _, w := range ws {
		fmt.Fprintln(out, wrestlerLine(w))
	}
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d wrestlers", len(ws))))
}

func renderWrestler(out io.Writer, w models.Wrestler, stats wrestlers.WrestlerStats) {
	header(out, w.Name)
	rows := [][2]string{
		{"Nickname", w.Nickname},
		{"Promotion", w.Promotion},
		{"Brand", w.Brand},
		{"Age", fmt.Sprint(w.Age)},
		{"Height", w.Height},
		{"Weight", w.Weight},
		{"Hometown", w.Hometown},
		{"Style", w.WrestlingStyle},
		{"Experience", w.Experience},
		{"Rating", fmt.Sprintf("%.2f (%d votes)", w.AverageRating, w.TotalVotes)},
		{"Momentum", fmt.Sprint(stats.MomentumScore)},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(out, "%-11s %s\n", dimStyle.Render(r[0]), r[1])
	}

	cs := stats.CareerStats
	fmt.Fprintf(out, "%-11s %s / %s / %d draws (%.1f%% of %d)\n",
		dimStyle.Render("Record"),
		goodStyle.Render(fmt.Sprint(cs.Wins)),
		badStyle.Render(fmt.Sprint(cs.Losses)),
		cs.Draws, cs.WinPercentage, cs.TotalMatches)

	if len(stats.YearlyRatings) > 0 {
		fmt.Fprintln(out, sectionStyle.Render("Ratings by year"))
		for _, y := range stats.YearlyRatings {
			fmt.Fprintf(out, "  %s  %.2f  %s\n", y.Year, y.Rating, dimStyle.Render(fmt.Sprintf("%d votes", y.Votes)))
		}
	}
	if len(w.RecentMatches) > 0 {
		fmt.Fprintln(out, sectionStyle.Render("Recent matches"))
		for _, m := range w.RecentMatches {
			fmt.Fprintf(out, "  %-4s vs %s  %s\n", resultLabel(m), m.Opponent, dimStyle.Render(strings.TrimSpace(m.Date+" "+m.Event)))
		}
	}
	if w.Bio != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, w.Bio)
	}
}

func resultLabel(m models.Match) string {
	switch m.Outcome() {
	case models.OutcomeWin:
		return goodStyle.Render("W")
	case models.OutcomeLoss:
		return badStyle.Render("L")
	case models.OutcomeDraw:
		return "D"
	default:
		return dimStyle.Render("?")
	}
}

func renderDashboard(out io.Writer, d *wrestlers.Dashboard) {
	if d == nil {
		fmt.Fprintln(out, dimStyle.Render("No wrestlers in the collection."))
		return
	}
	header(out, "Dashboard")
	fmt.Fprintf(out, "%s %d\n", dimStyle.Render("Wrestlers"), d.TotalWrestlers)
	fmt.Fprintf(out, "%s %.2f\n", dimStyle.Render("Average rating"), d.AverageRating)
	if d.TopRatedWrestler != nil {
		fmt.Fprintf(out, "%s %s (%.2f)\n", dimStyle.Render("Top rated"), nameStyle.Render(d.TopRatedWrestler.Name), d.TopRatedWrestler.AverageRating)
	}

	renderBuckets(out, "Rating distribution", d.RatingDistribution, d.TotalWrestlers)
	renderBuckets(out, "Age distribution", d.AgeDistribution, d.TotalWrestlers)
	renderBreakdown(out, "Promotions", d.PromotionBreakdown, d.TotalWrestlers)
	renderBreakdown(out, "Experience", d.ExperienceBreakdown, d.TotalWrestlers)
	renderBreakdown(out, "Wrestling styles", d.WrestlingStyleBreakdown, d.TotalWrestlers)
	renderBreakdown(out, "Hometowns", d.HometownBreakdown, d.TotalWrestlers)
}

func renderBuckets(out io.Writer, title string, buckets []wrestlers.Bucket, total int) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render(title))
	for _, b := range buckets {
		fmt.Fprintf(out, "  %-8s %s %d\n", b.Range, bar(b.Count, total), b.Count)
	}
}

func renderBreakdown(out io.Writer, title string, rows []wrestlers.Breakdown, total int) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render(title))
	for _, r := range rows {
		fmt.Fprintf(out, "  %-28s %s %d\n", r.Value, bar(r.Count, total), r.Count)
	}
}

func bar(n, total int) string {
	if total <= 0 || n <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	width := n * barWidth / total
	if width == 0 {
		width = 1
	}
	return barStyle.Render(strings.Repeat("█", width)) + strings.Repeat(" ", barWidth-width)
}

func renderArticles(out io.Writer, arts []models.Article) {
	if len(arts) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No articles."))
		return
	}
	for _, a := range arts {
		label := string(a.CredibilityLabel)
		switch a.CredibilityLabel {
		case models.LabelConfirmed:
			label = goodStyle.Render(label)
		case models.LabelRumor:
			label = badStyle.Render(label)
		}
		fmt.Fprintf(out, "%s %s\n", nameStyle.Render(a.Title), dimStyle.Render("["+a.SourceName+"]"))
		fmt.Fprintf(out, "  %s %.2f  +%d/-%d  %s\n", label, a.CredibilityScore, a.Upvotes, a.Downvotes, dimStyle.Render(a.CanonicalURL))
	}
}
