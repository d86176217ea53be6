package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tweetpeek/pkg/plotter"
)

var (
	// Plot command flags
	plotInput      string
	plotOutputDir  string
	plotCharts     []string
	plotTheme      string
	plotSinglePage bool
)

// plotCmd represents the plot command
var plotCmd = &cobra.Command{
	Use:   "plot [keyword...]",
	Short: "Render aggregate statistics as HTML charts",
	Long: `Read aggregate files produced by 'tweetpeek analyze' and render them
as self-contained HTML charts.

Available charts: ` + strings.Join(plotter.KnownCharts, ", ") + `.
Dates render as a bar chart in chronological order (timeline is the line
variant), hashtags and languages as pies, terms and authors as bars of the
top entries.

Each chart becomes one HTML file under the plots directory, or one combined
page with --single-page.`,
	Example: `  # Default charts (dates, hashtags, terms) for one topic
  tweetpeek plot golang

  # Pick charts and theme
  tweetpeek plot golang --charts dates,authors,languages --theme chalk

  # One self-contained page for every followed topic
  tweetpeek plot --single-page`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runPlot(args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringVarP(&plotInput, "input", "i", "", "aggregate file (default: <analyses-dir>/<keyword>_<lang>.json)")
	plotCmd.Flags().StringVar(&plotOutputDir, "output-dir", "", "directory for chart files (default: plots)")
	plotCmd.Flags().StringSliceVar(&plotCharts, "charts", nil, "comma-separated charts to render")
	plotCmd.Flags().StringVar(&plotTheme, "theme", "", "chart color theme (default westeros)")
	plotCmd.Flags().BoolVar(&plotSinglePage, "single-page", false, "render all charts into one HTML file")
}

func runPlot(args []string) {
	flags := make(map[string]interface{})
	if plotTheme != "" {
		flags["theme"] = plotTheme
	}
	if plotOutputDir != "" {
		flags["plots-dir"] = plotOutputDir
	}

	cfg, log, err := setup(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	keywords, err := resolveKeywords(args, cfg)
	if err != nil {
		log.WithError(err).Error("No keywords to plot")
		os.Exit(1)
	}

	if plotInput != "" && len(keywords) > 1 {
		log.Error("--input requires exactly one keyword")
		os.Exit(1)
	}

	charts := plotCharts
	if len(charts) == 0 {
		charts = cfg.Plot.Charts
	}

	p := plotter.New(plotter.Options{
		Theme:      cfg.Plot.Theme,
		TopN:       cfg.Analysis.TopN,
		SinglePage: plotSinglePage || cfg.Plot.SinglePage,
		Logger:     log,
	})

	failed := 0
	for _, keyword := range keywords {
		aggPath := plotInput
		if aggPath == "" {
			aggPath = filepath.Join(cfg.Output.AnalysesDir,
				fmt.Sprintf("%s_%s.json", keyword, cfg.Analysis.Language))
		}

		written, err := p.Run(aggPath, cfg.Output.PlotsDir, charts)
		if err != nil {
			log.WithError(err).WithField("keyword", keyword).Error("Plotting failed")
			failed++
			continue
		}

		for _, path := range written {
			fmt.Printf("%s: %s\n", keyword, path)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
