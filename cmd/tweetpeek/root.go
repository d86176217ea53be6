package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"tweetpeek/pkg/config"
	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/topics"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tweetpeek",
	Short: "Collect, analyze and chart social-media posts by keyword",
	Long: `tweetpeek is a three-stage pipeline over the Twitter search API.

The stages are independent commands coupled only through files on disk:

  collect   query the API for posts matching a keyword, save them as NDJSON
  analyze   compute term, hashtag, author, date and language statistics
  plot      render the statistics as HTML charts

Keywords can be passed as arguments or managed as a followed-topic list
('tweetpeek topics'). API credentials are stored securely with
'tweetpeek auth login' or supplied via TWEETPEEK_BEARER_TOKEN.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .tweetpeek.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`tweetpeek {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags builds the flag map for config.Load from the persistent flags
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if quiet {
		flags["quiet"] = true
	}
	return flags
}

// setup loads configuration and initializes the logger. Every subcommand
// goes through here first.
func setup(flags map[string]interface{}) (*config.Config, logger.Logger, error) {
	for k, v := range globalFlags() {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, nil, err
	}

	if err := logger.Initialize(logger.Options{
		Level: cfg.Logging.Level,
		Quiet: cfg.Logging.Quiet,
	}); err != nil {
		return nil, nil, err
	}

	return cfg, logger.GetLogger(), nil
}

// resolveKeywords returns the command-line keywords, or the followed-topic
// list when none are given.
func resolveKeywords(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	list, err := topics.List(cfg.Output.TopicsFile)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no keywords given and the topic list %s is empty", cfg.Output.TopicsFile)
	}
	return list, nil
}
