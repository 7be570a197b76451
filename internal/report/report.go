package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielpatrickdp/fatafat-forecast/internal/frequency"
	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
)

// #region types

// YearSummary aggregates the draws of one calendar year.
type YearSummary struct {
	Year       int                  `json:"year"`
	Draws      int                  `json:"draws"`
	AvgDigit   float64              `json:"avg_digit"`
	MostCommon frequency.DigitCount `json:"most_common"`
}

// Report is the data behind the text analysis report.
type Report struct {
	GeneratedAt   time.Time              `json:"generated_at"`
	Total         int                    `json:"total"`
	Unique        int                    `json:"unique"`
	MostFrequent  []frequency.DigitCount `json:"most_frequent"`
	LeastFrequent []frequency.DigitCount `json:"least_frequent"`
	Even          int                    `json:"even"`
	Odd           int                    `json:"odd"`
	Years         []YearSummary          `json:"years"`
	Hot           []int                  `json:"hot"`
	Cold          []int                  `json:"cold"`
}

// #endregion types

// #region build

// listSize is how many digits the most and least frequent lists show.
const listSize = 5

// Build analyzes obs. Observations with an unparseable date are left out of
// the yearly summary only.
func Build(obs []history.Observation, cfg frequency.Config, now time.Time) Report {
	digits := make([]int, len(obs))
	for i, o := range obs {
		digits[i] = o.Digit
	}
	stats := frequency.Analyze(digits, cfg)
	even, odd := stats.EvenOdd()

	return Report{
		GeneratedAt:   now,
		Total:         stats.Total,
		Unique:        len(stats.Ranking),
		MostFrequent:  stats.MostFrequent(listSize),
		LeastFrequent: stats.LeastFrequent(listSize),
		Even:          even,
		Odd:           odd,
		Years:         yearly(obs, cfg),
		Hot:           stats.Hot,
		Cold:          stats.Cold,
	}
}

func yearly(obs []history.Observation, cfg frequency.Config) []YearSummary {
	byYear := make(map[int][]int)
	for _, o := range obs {
		day, err := time.Parse(time.DateOnly, o.Date)
		if err != nil {
			continue
		}
		byYear[day.Year()] = append(byYear[day.Year()], o.Digit)
	}

	out := make([]YearSummary, 0, len(byYear))
	for year, digits := range byYear {
		var sum int
		for _, d := range digits {
			sum += d
		}
		ys := YearSummary{
			Year:     year,
			Draws:    len(digits),
			AvgDigit: float64(sum) / float64(len(digits)),
		}
		if top := frequency.Analyze(digits, cfg).MostFrequent(1); len(top) == 1 {
			ys.MostCommon = top[0]
		}
		out = append(out, ys)
	}
	slices.SortFunc(out, func(a, b YearSummary) int { return cmp.Compare(a.Year, b.Year) })
	return out
}

// #endregion build

// #region render

var styles = struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Hot     lipgloss.Style
	Cold    lipgloss.Style
	Warning lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
	Section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4")),
	Hot:     lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")),
	Cold:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5DADE2")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
}

// Render writes the report as text. styled selects terminal colors.
func Render(w io.Writer, r Report, styled bool) error {
	paint := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	rule := strings.Repeat("=", 60)
	b.WriteString(rule + "\n")
	b.WriteString(paint(styles.Title, "FATAFAT HISTORICAL RESULTS ANALYSIS") + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Analysis Date: %s\n", r.GeneratedAt.Format(time.DateTime))
	fmt.Fprintf(&b, "Total Results Analyzed: %d\n\n", r.Total)

	section(&b, paint(styles.Section, "NUMBER FREQUENCY ANALYSIS"), 30)
	fmt.Fprintf(&b, "Total Numbers Drawn: %d\n", r.Total)
	fmt.Fprintf(&b, "Unique Numbers: %d\n\n", r.Unique)
	b.WriteString("Most Frequent Numbers:\n")
	writeCounts(&b, r.MostFrequent, r.Total)
	b.WriteString("\nLeast Frequent Numbers:\n")
	writeCounts(&b, r.LeastFrequent, r.Total)
	b.WriteString("\n")

	section(&b, paint(styles.Section, "PATTERN ANALYSIS"), 20)
	if n := r.Even + r.Odd; n > 0 {
		fmt.Fprintf(&b, "Even Numbers: %d (%.1f%%)\n", r.Even, float64(r.Even)/float64(n)*100)
		fmt.Fprintf(&b, "Odd Numbers: %d (%.1f%%)\n", r.Odd, float64(r.Odd)/float64(n)*100)
	}
	b.WriteString("\n")

	if len(r.Years) > 0 {
		section(&b, paint(styles.Section, "TIME-BASED TRENDS"), 20)
		for _, y := range r.Years {
			fmt.Fprintf(&b, "Year %d:\n", y.Year)
			fmt.Fprintf(&b, "  Total Draws: %d\n", y.Draws)
			fmt.Fprintf(&b, "  Average Number: %.2f\n", y.AvgDigit)
			fmt.Fprintf(&b, "  Most Common Number: %d (%d times)\n\n", y.MostCommon.Digit, y.MostCommon.Count)
		}
	}

	section(&b, paint(styles.Section, "INSIGHTS"), 35)
	if len(r.Hot) > 0 {
		b.WriteString(paint(styles.Hot, "Hot Numbers (Most Frequent): "+joinDigits(r.Hot)) + "\n")
		b.WriteString(paint(styles.Cold, "Cold Numbers (Least Frequent): "+joinDigits(r.Cold)) + "\n\n")
	}

	b.WriteString(paint(styles.Warning, "DISCLAIMER:") + "\n")
	b.WriteString("This analysis is for educational purposes only.\n")
	b.WriteString("Past results do not guarantee future outcomes.\n")
	b.WriteString("Lottery games involve risk - play responsibly.\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, title string, width int) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", width) + "\n")
}

func writeCounts(b *strings.Builder, counts []frequency.DigitCount, total int) {
	for i, dc := range counts {
		pct := 0.0
		if total > 0 {
			pct = float64(dc.Count) / float64(total) * 100
		}
		fmt.Fprintf(b, "%d. Number %d: %d times (%.2f%%)\n", i+1, dc.Digit, dc.Count, pct)
	}
}

func joinDigits(ds []int) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, ", ")
}

// #endregion render
