package plotter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetpeek/pkg/errors"
	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/models"
	"tweetpeek/pkg/storage"
)

var fixedTime = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestPlotter(opts Options) *Plotter {
	if opts.Logger == nil {
		opts.Logger = logger.NewTestLogger()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedTime }
	}
	return New(opts)
}

func sampleAggregate() *models.Aggregate {
	agg := models.NewAggregate("golang", "en")
	agg.PostCount = 5
	agg.Dates["2026-08-19"] = 2
	agg.Dates["2026-08-18"] = 3
	agg.Hashtags["#go"] = 4
	agg.Hashtags["#rust"] = 1
	agg.Terms["hello"] = 3
	agg.Terms["world"] = 2
	agg.Languages["en"] = 4
	agg.Languages["pt"] = 1
	agg.Authors["alice"] = 3
	agg.Authors["bob"] = 2
	return agg
}

func TestRenderWritesOneFilePerChart(t *testing.T) {
	dir := t.TempDir()
	p := newTestPlotter(Options{})

	written, err := p.Render(sampleAggregate(), dir, []string{ChartDates, ChartHashtags})
	require.NoError(t, err)
	require.Len(t, written, 2)

	assert.Equal(t, filepath.Join(dir, "golang_dates_20260820T120000.html"), written[0])
	assert.Equal(t, filepath.Join(dir, "golang_hashtags_20260820T120000.html"), written[1])

	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestRenderDefaultCharts(t *testing.T) {
	dir := t.TempDir()
	p := newTestPlotter(Options{})

	written, err := p.Render(sampleAggregate(), dir, nil)
	require.NoError(t, err)
	assert.Len(t, written, 3) // dates, hashtags, terms
}

func TestRenderAllKnownCharts(t *testing.T) {
	dir := t.TempDir()
	p := newTestPlotter(Options{Theme: "chalk", TopN: 5})

	written, err := p.Render(sampleAggregate(), dir, KnownCharts)
	require.NoError(t, err)
	assert.Len(t, written, len(KnownCharts))
}

func TestRenderAppliesTheme(t *testing.T) {
	dir := t.TempDir()
	p := newTestPlotter(Options{Theme: "chalk"})

	written, err := p.Render(sampleAggregate(), dir, []string{ChartDates})
	require.NoError(t, err)
	require.Len(t, written, 1)

	html, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Contains(t, string(html), "chalk")
}

func TestNewFallsBackToDefaultTheme(t *testing.T) {
	p := newTestPlotter(Options{Theme: "neon"})
	assert.Equal(t, themes["westeros"], p.theme)
}

func TestRenderSinglePage(t *testing.T) {
	dir := t.TempDir()
	p := newTestPlotter(Options{SinglePage: true})

	written, err := p.Render(sampleAggregate(), dir, []string{ChartDates, ChartTerms, ChartLanguages})
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, filepath.Join(dir, "golang_charts_20260820T120000.html"), written[0])
}

func TestRenderMissingFieldIsFatal(t *testing.T) {
	// an aggregate loaded from a file that predates the hashtags statistic
	agg := &models.Aggregate{
		Keyword: "golang",
		Dates:   map[string]int{"2026-08-18": 1},
	}

	p := newTestPlotter(Options{})
	_, err := p.Render(agg, t.TempDir(), []string{ChartHashtags})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindMissingField))
}

func TestRenderEmptyMapIsNotAnError(t *testing.T) {
	agg := models.NewAggregate("golang", "en")

	p := newTestPlotter(Options{})
	written, err := p.Render(agg, t.TempDir(), []string{ChartHashtags, ChartDates})
	require.NoError(t, err)
	assert.Len(t, written, 2)
}

func TestRenderUnknownChart(t *testing.T) {
	p := newTestPlotter(Options{})

	_, err := p.Render(sampleAggregate(), t.TempDir(), []string{"sparkline"})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInputFormat))
}

func TestRunReadsAggregateFile(t *testing.T) {
	dir := t.TempDir()
	aggPath := filepath.Join(dir, "golang_en.json")
	require.NoError(t, storage.WriteAggregate(aggPath, sampleAggregate()))

	p := newTestPlotter(Options{})
	written, err := p.Run(aggPath, filepath.Join(dir, "plots"), []string{ChartDates})
	require.NoError(t, err)
	assert.Len(t, written, 1)
}

func TestRunMissingAggregateFile(t *testing.T) {
	p := newTestPlotter(Options{})

	_, err := p.Run(filepath.Join(t.TempDir(), "nope.json"), t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInputFormat))
}

func TestRankTop(t *testing.T) {
	counts := map[string]int{"zulu": 2, "alpha": 2, "mike": 5, "kilo": 1}

	ranked := rankTop(counts, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, rankedEntry{key: "mike", count: 5}, ranked[0])
	assert.Equal(t, rankedEntry{key: "alpha", count: 2}, ranked[1])
	assert.Equal(t, rankedEntry{key: "zulu", count: 2}, ranked[2])
}

func TestChronological(t *testing.T) {
	counts := map[string]int{"2026-08-19": 1, "2026-08-01": 2, "2026-08-10": 3}

	ordered := chronological(counts)
	require.Len(t, ordered, 3)
	assert.Equal(t, "2026-08-01", ordered[0].key)
	assert.Equal(t, "2026-08-10", ordered[1].key)
	assert.Equal(t, "2026-08-19", ordered[2].key)
}
