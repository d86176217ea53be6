package models

import "time"

// Post is one social-media post as returned by the search API.
// Posts are written once by the collector and never mutated afterwards.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
	Likes     int       `json:"likes"`
	Reshares  int       `json:"reshares"`
	Followers int       `json:"followers"`
	Lang      string    `json:"lang,omitempty"`
}

// Query describes one collector search. It lives only for the duration of a
// single invocation and is never persisted.
type Query struct {
	Keyword string
	Since   time.Time // zero value means no lower bound
	Until   time.Time // zero value means no upper bound
	Limit   int       // 0 means fetch everything the API returns
	Lang    string    // optional language filter
}

// Aggregate holds the statistics the analyzer derives from a set of posts.
type Aggregate struct {
	Keyword        string `json:"keyword"`
	Lang           string `json:"lang"`
	PostCount      int    `json:"post_count"`
	AnalyzedCount  int    `json:"analyzed_count"`
	SkippedCount   int    `json:"skipped_count"`
	FollowersReach int    `json:"followers_reach"`

	Terms     map[string]int `json:"terms"`
	Hashtags  map[string]int `json:"hashtags"`
	Dates     map[string]int `json:"dates"`
	Languages map[string]int `json:"languages"`
	Authors   map[string]int `json:"authors"`

	// Trending lists the top hashtags and terms in rank order. Maps lose
	// ordering in JSON, so the ranking is kept as a slice.
	Trending []TrendingEntry `json:"trending"`

	GeneratedAt time.Time `json:"generated_at"`
}

// TrendingEntry is one ranked item in the trending list.
type TrendingEntry struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// NewAggregate returns an Aggregate with all maps initialized, so an empty
// input produces zero counts rather than null fields in the output file.
func NewAggregate(keyword, lang string) *Aggregate {
	return &Aggregate{
		Keyword:   keyword,
		Lang:      lang,
		Terms:     make(map[string]int),
		Hashtags:  make(map[string]int),
		Dates:     make(map[string]int),
		Languages: make(map[string]int),
		Authors:   make(map[string]int),
		Trending:  []TrendingEntry{},
	}
}
