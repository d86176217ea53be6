package analyzer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/models"
	"tweetpeek/pkg/storage"
)

var fixedTime = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(opts Options) *Analyzer {
	if opts.Logger == nil {
		opts.Logger = logger.NewTestLogger()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedTime }
	}
	return New(opts)
}

func post(id, author, text string, opts ...func(*models.Post)) models.Post {
	p := models.Post{
		ID:        id,
		Author:    author,
		CreatedAt: fixedTime,
		Text:      text,
		Lang:      "en",
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func TestAnalyzeTermFrequencies(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	posts := []models.Post{
		post("1", "alice", "hello world"),
		post("2", "bob", "hello there"),
		post("3", "carol", "goodbye world"),
	}

	agg := a.Analyze(posts, "testing")

	assert.Equal(t, map[string]int{
		"hello":   2,
		"world":   2,
		"there":   1,
		"goodbye": 1,
	}, agg.Terms)
	assert.Equal(t, 3, agg.PostCount)
	assert.Equal(t, 3, agg.AnalyzedCount)
}

func TestAnalyzeTokenNormalization(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	posts := []models.Post{
		post("1", "alice", "Hello, HELLO! hello?"),
	}

	agg := a.Analyze(posts, "testing")

	assert.Equal(t, 3, agg.Terms["hello"])
}

func TestAnalyzeExcludesKeywordAndURLs(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	posts := []models.Post{
		post("1", "alice", "golang rocks https://example.com/golang check it"),
	}

	agg := a.Analyze(posts, "golang")

	assert.NotContains(t, agg.Terms, "golang")
	assert.NotContains(t, agg.Terms, "https://example.com/golang")
	assert.Equal(t, 1, agg.Terms["rocks"])
	assert.Equal(t, 1, agg.Terms["check"])
	// single-letter tokens carry no signal
	assert.NotContains(t, agg.Terms, "i")
}

func TestAnalyzeHashtagsCountedSeparately(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	posts := []models.Post{
		post("1", "alice", "loving #golang today"),
		post("2", "bob", "#Golang all the way"),
	}

	agg := a.Analyze(posts, "testing")

	assert.Equal(t, 2, agg.Hashtags["#golang"])
	assert.NotContains(t, agg.Terms, "#golang")
	assert.NotContains(t, agg.Terms, "golang")
}

func TestAnalyzeLanguageFilter(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	posts := []models.Post{
		post("1", "alice", "hello world"),
		post("2", "bob", "ola mundo", func(p *models.Post) { p.Lang = "pt" }),
	}

	agg := a.Analyze(posts, "testing")

	// Portuguese post counts toward distributions but not term analysis
	assert.Equal(t, 2, agg.PostCount)
	assert.Equal(t, 1, agg.AnalyzedCount)
	assert.NotContains(t, agg.Terms, "mundo")
	assert.Equal(t, map[string]int{"en": 1, "pt": 1}, agg.Languages)
}

func TestAnalyzeSkipsBotHandles(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	posts := []models.Post{
		post("1", "alice", "hello world"),
		post("2", "weatherbot", "hello world"),
		post("3", "bot_news_42", "hello world"),
		post("4", "iembot7", "hello world"),
		post("5", "abbott", "real person here"), // "bot" inside a name is fine
	}

	agg := a.Analyze(posts, "testing")

	assert.Equal(t, 1, agg.Terms["hello"])
	assert.Equal(t, 3, agg.SkippedCount)
	assert.Contains(t, agg.Authors, "alice")
	assert.Contains(t, agg.Authors, "abbott")
	assert.NotContains(t, agg.Authors, "weatherbot")
	assert.NotContains(t, agg.Authors, "bot_news_42")
	assert.NotContains(t, agg.Authors, "iembot7")
}

func TestAnalyzeFollowersReachCountedOncePerAuthor(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	posts := []models.Post{
		post("1", "alice", "first post", func(p *models.Post) { p.Followers = 100 }),
		post("2", "alice", "second post", func(p *models.Post) { p.Followers = 100 }),
		post("3", "bob", "another post", func(p *models.Post) { p.Followers = 50 }),
	}

	agg := a.Analyze(posts, "testing")

	assert.Equal(t, 150, agg.FollowersReach)
	assert.Equal(t, 2, agg.Authors["alice"])
	assert.Equal(t, 1, agg.Authors["bob"])
}

func TestAnalyzeDateBuckets(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	day1 := time.Date(2026, 8, 18, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 19, 23, 59, 0, 0, time.UTC)

	posts := []models.Post{
		post("1", "alice", "one", func(p *models.Post) { p.CreatedAt = day1 }),
		post("2", "bob", "two", func(p *models.Post) { p.CreatedAt = day1 }),
		post("3", "carol", "three", func(p *models.Post) { p.CreatedAt = day2 }),
	}

	agg := a.Analyze(posts, "testing")

	assert.Equal(t, map[string]int{
		"2026-08-18": 2,
		"2026-08-19": 1,
	}, agg.Dates)
}

func TestAnalyzeBlacklistRemovesTerms(t *testing.T) {
	a := newTestAnalyzer(Options{
		Lang:      "en",
		Blacklist: map[string]bool{"the": true, "and": true},
	})

	posts := []models.Post{
		post("1", "alice", "the quick and the dead"),
	}

	agg := a.Analyze(posts, "testing")

	assert.NotContains(t, agg.Terms, "the")
	assert.NotContains(t, agg.Terms, "and")
	assert.Equal(t, 1, agg.Terms["quick"])
	assert.Equal(t, 1, agg.Terms["dead"])
}

func TestAnalyzeTrendingOrder(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en", TopN: 2})

	posts := []models.Post{
		post("1", "alice", "#go #go #rust alpha alpha beta"),
		post("2", "bob", "#rust #zig alpha gamma"),
	}

	agg := a.Analyze(posts, "testing")

	// top 2 hashtags then top 2 terms, count desc, ties alphabetical
	require.Len(t, agg.Trending, 4)
	assert.Equal(t, models.TrendingEntry{Term: "#go", Count: 2}, agg.Trending[0])
	assert.Equal(t, models.TrendingEntry{Term: "#rust", Count: 2}, agg.Trending[1])
	assert.Equal(t, models.TrendingEntry{Term: "alpha", Count: 3}, agg.Trending[2])
	assert.Equal(t, models.TrendingEntry{Term: "beta", Count: 1}, agg.Trending[3])
}

func TestAnalyzeEmptyInput(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	agg := a.Analyze(nil, "testing")

	assert.Equal(t, 0, agg.PostCount)
	assert.NotNil(t, agg.Terms)
	assert.NotNil(t, agg.Hashtags)
	assert.NotNil(t, agg.Dates)
	assert.Empty(t, agg.Trending)
	assert.Equal(t, fixedTime, agg.GeneratedAt)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := newTestAnalyzer(Options{Lang: "en"})

	posts := []models.Post{
		post("1", "alice", "#go #rust alpha beta alpha"),
		post("2", "bob", "gamma beta #go"),
	}

	first := a.Analyze(posts, "testing")
	second := a.Analyze(posts, "testing")

	assert.Equal(t, first, second)
}

func TestRunWritesAggregate(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "golang.ndjson")
	outputPath := filepath.Join(dir, "golang_en.json")

	posts := []models.Post{
		post("1", "alice", "hello world"),
		post("2", "bob", "hello there"),
	}
	require.NoError(t, storage.AppendPosts(inputPath, posts))

	a := newTestAnalyzer(Options{Lang: "en"})
	agg, err := a.Run(inputPath, outputPath, "golang")
	require.NoError(t, err)
	assert.Equal(t, 2, agg.PostCount)

	loaded, err := storage.ReadAggregate(outputPath)
	require.NoError(t, err)
	assert.Equal(t, agg.Terms, loaded.Terms)
	assert.Equal(t, "golang", loaded.Keyword)
}

func TestRunCountsSkippedLines(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "golang.ndjson")

	content := `{"id":"1","author":"alice","created_at":"2026-08-18T09:30:00Z","text":"hello world","lang":"en"}
not json at all
{"id":"2","author":"bob","created_at":"2026-08-19T10:00:00Z","text":"hello there","lang":"en"}
`
	require.NoError(t, os.WriteFile(inputPath, []byte(content), 0644))

	a := newTestAnalyzer(Options{Lang: "en"})
	agg, err := a.Run(inputPath, filepath.Join(dir, "out.json"), "golang")
	require.NoError(t, err)

	assert.Equal(t, 2, agg.PostCount)
	assert.Equal(t, 1, agg.SkippedCount)
}

func TestLoadBlacklist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blacklist.txt")
	require.NoError(t, os.WriteFile(path, []byte("the AND\nor\n"), 0644))

	words, err := LoadBlacklist(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"the": true, "and": true, "or": true}, words)
}

func TestLoadBlacklistMissingFile(t *testing.T) {
	words, err := LoadBlacklist(filepath.Join(t.TempDir(), "nope.txt"))
	assert.NoError(t, err)
	assert.Nil(t, words)
}

func TestWriteSummary(t *testing.T) {
	agg := models.NewAggregate("golang", "en")
	agg.PostCount = 3
	agg.AnalyzedCount = 3
	agg.Trending = []models.TrendingEntry{
		{Term: "#go", Count: 5},
		{Term: "concurrency", Count: 2},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, agg)

	out := buf.String()
	assert.Contains(t, out, "golang")
	assert.Contains(t, out, "#go")
	assert.Contains(t, out, "concurrency")
	assert.Contains(t, out, "TRENDING")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain words", "Hello World", []string{"hello", "world"}},
		{"punctuation stripped", "wait... what?!", []string{"wait", "what"}},
		{"hashtag survives", "try #GoLang now", []string{"try", "#golang", "now"}},
		{"empty after trim", "... --- !!!", []string{}},
		{"apostrophe kept inside", "don't stop", []string{"don't", "stop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.input))
		})
	}
}

func TestIsBotHandle(t *testing.T) {
	assert.True(t, isBotHandle("weatherbot"))
	assert.True(t, isBotHandle("bot12345"))
	assert.True(t, isBotHandle("iembot_tx"))
	assert.True(t, isBotHandle("NewsBot99"))
	assert.False(t, isBotHandle("abbott"))
	assert.False(t, isBotHandle("alice"))
	assert.False(t, isBotHandle(""))
}
