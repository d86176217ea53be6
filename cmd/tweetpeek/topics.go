package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tweetpeek/pkg/topics"
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage the followed-topic list",
	Long: `Manage the followed-topic list file.

Topics in the list are used by collect, analyze and plot when no keywords
are given on the command line. Keywords passed to 'tweetpeek collect' are
added automatically unless --dry-run is set.`,
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all followed topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runTopicsList()
		return nil
	},
}

var topicsAddCmd = &cobra.Command{
	Use:   "add <topic>...",
	Short: "Add topics to the followed list",
	Example: `  tweetpeek topics add golang kubernetes
  tweetpeek topics add "machine learning"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runTopicsAdd(args)
		return nil
	},
}

var topicsRemoveCmd = &cobra.Command{
	Use:     "remove <topic>...",
	Aliases: []string{"rm"},
	Short:   "Remove topics from the followed list",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runTopicsRemove(args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsAddCmd)
	topicsCmd.AddCommand(topicsRemoveCmd)
}

func runTopicsList() {
	cfg, log, err := setup(map[string]interface{}{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	list, err := topics.List(cfg.Output.TopicsFile)
	if err != nil {
		log.WithError(err).Error("Could not read topic list")
		os.Exit(1)
	}

	if len(list) == 0 {
		fmt.Println("No followed topics. Add one with 'tweetpeek topics add <topic>'.")
		return
	}

	for _, topic := range list {
		fmt.Println(topic)
	}
}

func runTopicsAdd(args []string) {
	cfg, log, err := setup(map[string]interface{}{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	added, err := topics.Add(cfg.Output.TopicsFile, args)
	if err != nil {
		log.WithError(err).Error("Could not update topic list")
		os.Exit(1)
	}

	if len(added) == 0 {
		fmt.Println("All topics already followed.")
		return
	}
	fmt.Printf("Added: %s\n", strings.Join(added, ", "))
}

func runTopicsRemove(args []string) {
	cfg, log, err := setup(map[string]interface{}{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	removed, err := topics.Remove(cfg.Output.TopicsFile, args)
	if err != nil {
		log.WithError(err).Error("Could not update topic list")
		os.Exit(1)
	}

	if len(removed) == 0 {
		fmt.Println("No matching topics in the list.")
		return
	}
	fmt.Printf("Removed: %s\n", strings.Join(removed, ", "))
}
