package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	// Analyze command flags
	analyzeInput  string
	analyzeOutput string
	analyzeLang   string
	analyzeTopN   int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [keyword...]",
	Short: "Compute aggregate statistics over collected posts",
	Long: `Read collected NDJSON post files and compute per-keyword statistics:
term and hashtag frequencies, posting dates, languages, most active authors,
follower reach and a trending list.

Term analysis covers posts in the analysis language (--lang, default en);
author, date and language statistics cover every post. Words listed in the
blacklist file are removed from the term map.

The aggregate is written as indented JSON to <analyses-dir>/<keyword>_<lang>.json
and a trending summary is printed.`,
	Example: `  # Analyze one collected topic
  tweetpeek analyze golang

  # Analyze every followed topic in Portuguese
  tweetpeek analyze --lang pt

  # Explicit input and output files
  tweetpeek analyze golang --input outputs/golang.ndjson --output golang.json`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runAnalyze(args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "posts file (default: <posts-dir>/<keyword>.ndjson)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "aggregate file (default: <analyses-dir>/<keyword>_<lang>.json)")
	analyzeCmd.Flags().StringVarP(&analyzeLang, "lang", "l", "", "content-analysis language (default en)")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top", 0, "trending list size per category")
}

func runAnalyze(args []string) {
	flags := make(map[string]interface{})
	if analyzeLang != "" {
		flags["lang"] = analyzeLang
	}
	if analyzeTopN > 0 {
		flags["top"] = analyzeTopN
	}

	cfg, log, err := setup(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	keywords, err := resolveKeywords(args, cfg)
	if err != nil {
		log.WithError(err).Error("No keywords to analyze")
		os.Exit(1)
	}

	if analyzeInput != "" && len(keywords) > 1 {
		log.Error("--input requires exactly one keyword")
		os.Exit(1)
	}

	failed := 0
	for _, keyword := range keywords {
		inputPath := analyzeInput
		if inputPath == "" {
			inputPath = filepath.Join(cfg.Output.PostsDir, keyword+".ndjson")
		}

		if err := analyzeKeyword(cfg, log, keyword, inputPath, analyzeOutput); err != nil {
			log.WithError(err).WithField("keyword", keyword).Error("Analysis failed")
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
