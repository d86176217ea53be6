package twitter

import (
	"net/url"
	"strconv"
	"time"
)

const (
	// BaseURL is the Twitter API v2 base URL
	BaseURL = "https://api.twitter.com"

	// searchPath is the recent-search endpoint (last 7 days only on the
	// free tier)
	searchPath = "/2/tweets/search/recent"

	// excludeFilters drops retweets and replies from search results
	excludeFilters = " -is:retweet -is:reply"

	// minPageSize and maxPageSize are the page bounds the API accepts
	minPageSize = 10
	maxPageSize = 100
)

// searchURL builds the full recent-search request URL for one page.
func searchURL(baseURL, keyword, lang string, since, until time.Time, pageSize int, nextToken string) string {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if pageSize < minPageSize {
		pageSize = minPageSize
	}

	query := keyword + excludeFilters
	if lang != "" {
		query += " lang:" + lang
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(pageSize))
	params.Set("tweet.fields", "created_at,lang,public_metrics,author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username,public_metrics")
	if !since.IsZero() {
		params.Set("start_time", since.UTC().Format(time.RFC3339))
	}
	if !until.IsZero() {
		params.Set("end_time", until.UTC().Format(time.RFC3339))
	}
	if nextToken != "" {
		params.Set("next_token", nextToken)
	}

	return baseURL + searchPath + "?" + params.Encode()
}
