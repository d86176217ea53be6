package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tweetpeek/pkg/analyzer"
	"tweetpeek/pkg/auth"
	"tweetpeek/pkg/collector"
	"tweetpeek/pkg/config"
	"tweetpeek/pkg/errors"
	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/models"
	"tweetpeek/pkg/topics"
)

var (
	// Collect command flags
	collectSince     string
	collectUntil     string
	collectLimit     int
	collectLang      string
	collectOutput    string
	collectOverwrite bool
	collectDryRun    bool
	collectAnalyze   bool
	collectProfile   string
	bearerToken      string
	rateLimit        int
	maxRetries       int
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [keyword...]",
	Short: "Fetch posts matching keywords and save them as NDJSON",
	Long: `Fetch recent posts matching one or more keywords and append them to
per-keyword NDJSON files (one post per line).

Keywords passed as arguments are also recorded in the followed-topic list,
so later runs of collect/analyze/plot without arguments cover them too.
Use --dry-run to skip recording. With no arguments the topic list supplies
the keywords.

Re-running with an overlapping date range is safe: posts already present in
the output file are skipped by ID. Use --overwrite to replace the file
instead.

Credentials are resolved from, in order: the --bearer-token flag, the
TWEETPEEK_BEARER_TOKEN environment variable or config file, and accounts
stored with 'tweetpeek auth login'.`,
	Example: `  # Fetch recent posts about a topic
  tweetpeek collect golang

  # Bounded date range, at most 500 posts
  tweetpeek collect golang --since 2026-08-01 --until 2026-08-20 --limit 500

  # Refresh every followed topic, then analyze immediately
  tweetpeek collect --analyze

  # Replace the output file instead of appending
  tweetpeek collect golang --overwrite`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCollect(args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVar(&collectSince, "since", "", "oldest post date (YYYY-MM-DD or RFC3339)")
	collectCmd.Flags().StringVar(&collectUntil, "until", "", "newest post date (YYYY-MM-DD or RFC3339)")
	collectCmd.Flags().IntVar(&collectLimit, "limit", 0, "maximum number of posts to fetch (0 = no limit)")
	collectCmd.Flags().StringVar(&collectLang, "lang", "", "only fetch posts in this language")
	collectCmd.Flags().StringVarP(&collectOutput, "output", "o", "", "output file (default: <posts-dir>/<keyword>.ndjson)")
	collectCmd.Flags().BoolVar(&collectOverwrite, "overwrite", false, "replace the output file instead of appending")
	collectCmd.Flags().BoolVarP(&collectDryRun, "dry-run", "d", false, "do not record keywords in the topic list")
	collectCmd.Flags().BoolVarP(&collectAnalyze, "analyze", "a", false, "run the analyzer after fetching")
	collectCmd.Flags().StringVar(&collectProfile, "profile", "", "use a specific stored credential profile")
	collectCmd.Flags().StringVar(&bearerToken, "bearer-token", "", "API bearer token (overrides stored credentials)")
	collectCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "API requests per minute")
	collectCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "maximum retry attempts for transient failures")
}

func runCollect(args []string) {
	flags := make(map[string]interface{})
	if bearerToken != "" {
		flags["bearer-token"] = bearerToken
	}
	if rateLimit > 0 {
		flags["rate-limit"] = rateLimit
	}
	if maxRetries > 0 {
		flags["max-retries"] = maxRetries
	}
	if collectOverwrite {
		flags["overwrite"] = true
	}

	cfg, log, err := setup(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	since, until, err := parseDateRange(collectSince, collectUntil)
	if err != nil {
		log.WithError(err).Error("Invalid date range")
		os.Exit(1)
	}

	keywords, err := resolveKeywords(args, cfg)
	if err != nil {
		log.WithError(err).Error("No keywords to collect")
		os.Exit(1)
	}

	if collectOutput != "" && len(keywords) > 1 {
		log.Error("--output requires exactly one keyword")
		os.Exit(1)
	}

	token, err := resolveBearerToken(cfg, collectProfile)
	if err != nil {
		log.WithError(err).Error("No API credentials found")
		fmt.Fprintln(os.Stderr, "\nTo store credentials securely, run:")
		fmt.Fprintln(os.Stderr, "  tweetpeek auth login")
		fmt.Fprintln(os.Stderr, "\nOr set the environment variable:")
		fmt.Fprintln(os.Stderr, "  export TWEETPEEK_BEARER_TOKEN=your_token")
		os.Exit(1)
	}

	if len(args) > 0 && !collectDryRun {
		if added, err := topics.Add(cfg.Output.TopicsFile, args); err != nil {
			log.WithError(err).Warn("Could not update topic list")
		} else if len(added) > 0 {
			log.WithField("topics", strings.Join(added, ", ")).Info("Added to followed topics")
		}
	}

	ctx := context.Background()
	c := collector.NewFromConfig(ctx, cfg, token, log)

	failed := 0
	for _, keyword := range keywords {
		query := models.Query{
			Keyword: keyword,
			Since:   since,
			Until:   until,
			Limit:   collectLimit,
			Lang:    collectLang,
		}

		outputPath := collectOutput
		if outputPath == "" {
			outputPath = filepath.Join(cfg.Output.PostsDir, keyword+".ndjson")
		}

		result, err := c.Run(ctx, query, outputPath)
		if err != nil {
			if errors.IsKind(err, errors.KindEmptyResult) {
				log.WithField("keyword", keyword).Warn(err.Error())
			} else {
				log.WithError(err).WithField("keyword", keyword).Error("Collection failed")
				failed++
				continue
			}
		}

		fmt.Printf("%s: %d fetched, %d written, %d duplicate, %d dropped -> %s\n",
			keyword, result.Fetched, result.Written, result.Duplicates,
			result.Dropped, result.OutputPath)

		if collectAnalyze {
			if err := analyzeKeyword(cfg, log, keyword, outputPath, ""); err != nil {
				log.WithError(err).WithField("keyword", keyword).Error("Analysis failed")
				failed++
			}
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// resolveBearerToken finds a usable token: explicit config/env/flag first,
// then stored credential profiles.
func resolveBearerToken(cfg *config.Config, profile string) (string, error) {
	if cfg.Twitter.BearerToken != "" {
		return cfg.Twitter.BearerToken, nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return "", err
	}

	if profile == "" {
		profile = auth.DefaultProfile
	}
	account, err := manager.Retrieve(profile)
	if err != nil {
		return "", errors.New(errors.KindAuth, "no bearer token configured and no stored credentials")
	}
	return account.BearerToken, nil
}

// analyzeKeyword runs the analyzer over one collected file, shared by
// 'collect --analyze' and the analyze command.
func analyzeKeyword(cfg *config.Config, log logger.Logger, keyword, inputPath, outputPath string) error {
	blacklist, err := analyzer.LoadBlacklist(cfg.Analysis.BlacklistFile)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = filepath.Join(cfg.Output.AnalysesDir,
			fmt.Sprintf("%s_%s.json", keyword, cfg.Analysis.Language))
	}

	a := analyzer.New(analyzer.Options{
		Lang:      cfg.Analysis.Language,
		TopN:      cfg.Analysis.TopN,
		Blacklist: blacklist,
		Logger:    log,
	})

	agg, err := a.Run(inputPath, outputPath, keyword)
	if err != nil {
		return err
	}

	analyzer.WriteSummary(os.Stdout, agg)
	return nil
}

// parseDateRange parses the --since/--until flags, accepting plain dates or
// full RFC3339 timestamps.
func parseDateRange(sinceStr, untilStr string) (since, until time.Time, err error) {
	parse := func(s string) (time.Time, error) {
		if s == "" {
			return time.Time{}, nil
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, nil
		}
		return time.Parse(time.RFC3339, s)
	}

	if since, err = parse(sinceStr); err != nil {
		return since, until, fmt.Errorf("invalid --since value %q: %w", sinceStr, err)
	}
	if until, err = parse(untilStr); err != nil {
		return since, until, fmt.Errorf("invalid --until value %q: %w", untilStr, err)
	}
	if !since.IsZero() && !until.IsZero() && until.Before(since) {
		return since, until, fmt.Errorf("--until %s is before --since %s", untilStr, sinceStr)
	}
	return since, until, nil
}
