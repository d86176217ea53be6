package plotter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/types"

	"tweetpeek/pkg/errors"
	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/models"
	"tweetpeek/pkg/storage"
)

// Chart names accepted by the plotter
const (
	ChartDates     = "dates"
	ChartTimeline  = "timeline"
	ChartHashtags  = "hashtags"
	ChartTerms     = "terms"
	ChartAuthors   = "authors"
	ChartLanguages = "languages"
)

// KnownCharts lists every chart the plotter can render, in render order
var KnownCharts = []string{
	ChartDates, ChartTimeline, ChartHashtags, ChartTerms, ChartAuthors, ChartLanguages,
}

// Plotter renders aggregate statistics as HTML charts
type Plotter struct {
	theme      string
	topN       int
	singlePage bool
	logger     logger.Logger
	now        func() time.Time
}

// Options configures a Plotter
type Options struct {
	// Theme is one of the echarts theme names; unknown names fall back to
	// westeros
	Theme string
	// TopN bounds the hashtag, term and author charts
	TopN int
	// SinglePage renders all requested charts into one HTML file
	SinglePage bool
	Logger     logger.Logger
	// Now is used for output file naming; tests inject a fixed clock
	Now func() time.Time
}

// New creates a plotter
func New(opts Options) *Plotter {
	theme, ok := themes[opts.Theme]
	if !ok {
		theme = types.ThemeWesteros
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Plotter{
		theme:      theme,
		topN:       opts.TopN,
		singlePage: opts.SinglePage,
		logger:     opts.Logger,
		now:        opts.Now,
	}
}

// Run reads an aggregate file and renders the requested charts into
// outputDir, returning the paths of the files written. An empty chart list
// renders dates, hashtags and terms.
func (p *Plotter) Run(aggPath, outputDir string, chartNames []string) ([]string, error) {
	agg, err := storage.ReadAggregate(aggPath)
	if err != nil {
		return nil, err
	}
	return p.Render(agg, outputDir, chartNames)
}

// Render draws charts from an already-loaded aggregate.
func (p *Plotter) Render(agg *models.Aggregate, outputDir string, chartNames []string) ([]string, error) {
	if len(chartNames) == 0 {
		chartNames = []string{ChartDates, ChartHashtags, ChartTerms}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plots directory: %w", err)
	}

	renderers := make([]renderer, 0, len(chartNames))
	for _, name := range chartNames {
		r, err := p.build(agg, name)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, r)
	}

	if p.singlePage {
		path, err := p.renderPage(agg.Keyword, outputDir, renderers)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	stamp := p.now().UTC().Format("20060102T150405")
	written := make([]string, 0, len(renderers))
	for i, r := range renderers {
		path := filepath.Join(outputDir,
			fmt.Sprintf("%s_%s_%s.html", agg.Keyword, chartNames[i], stamp))
		if err := renderToFile(r, path); err != nil {
			return written, err
		}
		p.logger.InfoWithFields("chart written", map[string]interface{}{
			"chart": chartNames[i],
			"path":  path,
		})
		written = append(written, path)
	}
	return written, nil
}

// build creates one chart. A statistic that is absent from the aggregate
// file entirely is a missing-field error; a present-but-empty one renders
// an empty chart.
func (p *Plotter) build(agg *models.Aggregate, name string) (renderer, error) {
	title := fmt.Sprintf("%s: %s", agg.Keyword, name)

	switch name {
	case ChartDates:
		if agg.Dates == nil {
			return nil, missingField(name, "dates")
		}
		return p.barChart(title, "posts", chronological(agg.Dates)), nil
	case ChartTimeline:
		if agg.Dates == nil {
			return nil, missingField(name, "dates")
		}
		return p.lineChart(title, "posts", chronological(agg.Dates)), nil
	case ChartHashtags:
		if agg.Hashtags == nil {
			return nil, missingField(name, "hashtags")
		}
		return p.pieChart(title, "mentions", rankTop(agg.Hashtags, p.topN)), nil
	case ChartTerms:
		if agg.Terms == nil {
			return nil, missingField(name, "terms")
		}
		return p.barChart(title, "mentions", rankTop(agg.Terms, p.topN)), nil
	case ChartAuthors:
		if agg.Authors == nil {
			return nil, missingField(name, "authors")
		}
		return p.barChart(title, "posts", rankTop(agg.Authors, p.topN)), nil
	case ChartLanguages:
		if agg.Languages == nil {
			return nil, missingField(name, "languages")
		}
		return p.pieChart(title, "posts", rankTop(agg.Languages, 0)), nil
	default:
		return nil, errors.Newf(errors.KindInputFormat, "unknown chart %q", name)
	}
}

// renderPage writes all charts into a single HTML page
func (p *Plotter) renderPage(keyword, outputDir string, renderers []renderer) (string, error) {
	page := components.NewPage()
	for _, r := range renderers {
		if c, ok := r.(components.Charter); ok {
			page.AddCharts(c)
		}
	}

	stamp := p.now().UTC().Format("20060102T150405")
	path := filepath.Join(outputDir, fmt.Sprintf("%s_charts_%s.html", keyword, stamp))
	if err := renderToFile(page, path); err != nil {
		return "", err
	}

	p.logger.InfoWithFields("chart page written", map[string]interface{}{
		"charts": len(renderers),
		"path":   path,
	})
	return path, nil
}

type renderer interface {
	Render(w io.Writer) error
}

func renderToFile(r renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := r.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func missingField(chart, field string) error {
	return errors.Newf(errors.KindMissingField,
		"aggregate file has no %q field required by the %s chart", field, chart)
}
