package analyzer

import (
	"bufio"
	"os"
	"sort"
	"strings"
	"time"

	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/models"
	"tweetpeek/pkg/storage"
)

// Analyzer derives aggregate statistics from collected posts
type Analyzer struct {
	lang      string
	topN      int
	blacklist map[string]bool
	logger    logger.Logger
	now       func() time.Time
}

// Options configures an Analyzer
type Options struct {
	// Lang selects which posts get content analysis (terms, hashtags).
	// Author, date and language stats cover every post regardless.
	Lang string
	// TopN bounds the trending list: top N hashtags plus top N terms
	TopN int
	// Blacklist removes overly generic terms from the term map
	Blacklist map[string]bool
	Logger    logger.Logger
	// Now stamps GeneratedAt; tests inject a fixed clock
	Now func() time.Time
}

// New creates an analyzer
func New(opts Options) *Analyzer {
	if opts.Lang == "" {
		opts.Lang = "en"
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
	return &Analyzer{
		lang:      opts.Lang,
		topN:      opts.TopN,
		blacklist: opts.Blacklist,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// Run reads a posts file, analyzes it and writes the aggregate to outputPath.
func (a *Analyzer) Run(inputPath, outputPath, keyword string) (*models.Aggregate, error) {
	posts, skipped, err := storage.ReadPosts(inputPath)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		a.logger.WarnWithFields("skipped malformed post records", map[string]interface{}{
			"path":    inputPath,
			"skipped": skipped,
		})
	}

	agg := a.Analyze(posts, keyword)
	agg.SkippedCount += skipped

	if err := storage.WriteAggregate(outputPath, agg); err != nil {
		return nil, err
	}

	a.logger.InfoWithFields("analysis written", map[string]interface{}{
		"keyword":  keyword,
		"posts":    agg.PostCount,
		"analyzed": agg.AnalyzedCount,
		"path":     outputPath,
	})
	return agg, nil
}

// Analyze computes statistics over posts. Every post contributes to the
// author, date and language distributions; only posts in the configured
// analysis language contribute terms and hashtags. Posts from bot handles
// are skipped entirely.
func (a *Analyzer) Analyze(posts []models.Post, keyword string) *models.Aggregate {
	agg := models.NewAggregate(keyword, a.lang)
	agg.PostCount = len(posts)
	agg.GeneratedAt = a.now().UTC()

	keywordLower := strings.ToLower(keyword)

	for _, post := range posts {
		if isBotHandle(post.Author) {
			agg.SkippedCount++
			continue
		}

		if _, seen := agg.Authors[post.Author]; !seen {
			agg.FollowersReach += post.Followers
		}
		agg.Authors[post.Author]++

		agg.Dates[post.CreatedAt.UTC().Format("2006-01-02")]++

		lang := post.Lang
		if lang == "" {
			lang = "und"
		}
		agg.Languages[lang]++

		if lang == a.lang {
			a.analyzeContent(agg, post.Text, keywordLower)
			agg.AnalyzedCount++
		}
	}

	for word := range a.blacklist {
		delete(agg.Terms, word)
	}

	agg.Trending = trending(agg.Hashtags, agg.Terms, a.topN)
	return agg
}

// analyzeContent counts terms and hashtags from one post body. The search
// keyword itself and URLs carry no information and are excluded.
func (a *Analyzer) analyzeContent(agg *models.Aggregate, text, keywordLower string) {
	for _, token := range tokenize(text) {
		if len(token) < 2 || isURL(token) {
			continue
		}
		if keywordLower != "" && strings.Contains(keywordLower, token) {
			continue
		}
		if isHashtag(token) {
			agg.Hashtags[token]++
			continue
		}
		agg.Terms[token]++
	}
}

// trending ranks the top N hashtags followed by the top N terms, ordered by
// count descending with ties broken alphabetically so the output is stable.
func trending(hashtags, terms map[string]int, topN int) []models.TrendingEntry {
	ranked := make([]models.TrendingEntry, 0, 2*topN)
	ranked = append(ranked, topEntries(hashtags, topN)...)
	ranked = append(ranked, topEntries(terms, topN)...)
	return ranked
}

func topEntries(counts map[string]int, n int) []models.TrendingEntry {
	entries := make([]models.TrendingEntry, 0, len(counts))
	for term, count := range counts {
		entries = append(entries, models.TrendingEntry{Term: term, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Term < entries[j].Term
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// LoadBlacklist reads a whitespace-separated word list. A missing file is
// not an error; the analysis simply runs unfiltered.
func LoadBlacklist(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	words := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words[strings.ToLower(scanner.Text())] = true
	}
	return words, scanner.Err()
}
