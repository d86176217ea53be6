package plotter

import (
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// rankedEntry is one bar or pie slice after sorting
type rankedEntry struct {
	key   string
	count int
}

// rankTop returns the n highest-count entries, count descending with ties
// broken alphabetically. Chart output stays byte-stable across runs.
func rankTop(counts map[string]int, n int) []rankedEntry {
	entries := make([]rankedEntry, 0, len(counts))
	for k, v := range counts {
		entries = append(entries, rankedEntry{key: k, count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// chronological returns all entries sorted by key ascending, which for
// YYYY-MM-DD date buckets is chronological order.
func chronological(counts map[string]int) []rankedEntry {
	entries := make([]rankedEntry, 0, len(counts))
	for k, v := range counts {
		entries = append(entries, rankedEntry{key: k, count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	return entries
}

func (p *Plotter) barChart(title, seriesName string, entries []rankedEntry) renderer {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: p.theme}),
	)

	x := make([]string, 0, len(entries))
	y := make([]opts.BarData, 0, len(entries))
	for _, entry := range entries {
		x = append(x, entry.key)
		y = append(y, opts.BarData{Value: entry.count})
	}
	bar.SetXAxis(x).AddSeries(seriesName, y)
	return bar
}

func (p *Plotter) lineChart(title, seriesName string, entries []rankedEntry) renderer {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: p.theme}),
	)

	x := make([]string, 0, len(entries))
	y := make([]opts.LineData, 0, len(entries))
	for _, entry := range entries {
		x = append(x, entry.key)
		y = append(y, opts.LineData{Value: entry.count})
	}
	line.SetXAxis(x).AddSeries(seriesName, y)
	return line
}

func (p *Plotter) pieChart(title, seriesName string, entries []rankedEntry) renderer {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: p.theme}),
	)

	items := make([]opts.PieData, 0, len(entries))
	for _, entry := range entries {
		items = append(items, opts.PieData{Name: entry.key, Value: entry.count})
	}
	pie.AddSeries(seriesName, items)
	return pie
}

// themes maps the configurable theme names to echarts theme identifiers
var themes = map[string]string{
	"westeros":    types.ThemeWesteros,
	"walden":      types.ThemeWalden,
	"chalk":       types.ThemeChalk,
	"essos":       types.ThemeEssos,
	"infographic": types.ThemeInfographic,
	"macarons":    types.ThemeMacarons,
	"purple":      types.ThemePurplePassion,
	"roma":        types.ThemeRoma,
	"shine":       types.ThemeShine,
	"vintage":     types.ThemeVintage,
}
