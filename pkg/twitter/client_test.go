package twitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetpeek/pkg/errors"
	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/models"
)

const searchBody = `{
	"data": [
		{
			"id": "100",
			"text": "loving #golang today",
			"created_at": "2026-08-18T09:30:00Z",
			"author_id": "u1",
			"lang": "en",
			"public_metrics": {"retweet_count": 3, "like_count": 10}
		},
		{
			"id": "101",
			"text": "hello world",
			"created_at": "2026-08-18T10:00:00Z",
			"author_id": "u2",
			"lang": "en",
			"public_metrics": {"retweet_count": 0, "like_count": 1}
		}
	],
	"includes": {
		"users": [
			{"id": "u1", "username": "alice", "public_metrics": {"followers_count": 1000}},
			{"id": "u2", "username": "bob", "public_metrics": {"followers_count": 50}}
		]
	},
	"meta": {"result_count": 2, "next_token": "abc123"}
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-token", "tweetpeek-test", 5*time.Second, logger.NewTestLogger())
	client.SetBaseURL(server.URL)
	return server, client
}

func TestSearchParsesPosts(t *testing.T) {
	var gotURL string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(searchBody))
	})

	page, err := client.Search(context.Background(), models.Query{Keyword: "golang"}, "")
	require.NoError(t, err)

	require.Len(t, page.Posts, 2)
	assert.Equal(t, "abc123", page.NextToken)
	assert.Zero(t, page.Dropped)

	first := page.Posts[0]
	assert.Equal(t, "100", first.ID)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, 1000, first.Followers)
	assert.Equal(t, 10, first.Likes)
	assert.Equal(t, 3, first.Reshares)
	assert.Equal(t, time.Date(2026, 8, 18, 9, 30, 0, 0, time.UTC), first.CreatedAt)

	// retweets and replies are filtered in the query itself
	assert.Contains(t, gotURL, "-is%3Aretweet")
	assert.Contains(t, gotURL, "-is%3Areply")
}

func TestSearchBuildsQueryParameters(t *testing.T) {
	var gotQuery map[string][]string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data": [], "meta": {"result_count": 0}}`))
	})

	query := models.Query{
		Keyword: "golang",
		Since:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Until:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Limit:   50,
	}
	_, err := client.Search(context.Background(), query, "cursor-1")
	require.NoError(t, err)

	assert.Equal(t, "golang -is:retweet -is:reply", gotQuery["query"][0])
	assert.Equal(t, "50", gotQuery["max_results"][0])
	assert.Equal(t, "2026-08-01T00:00:00Z", gotQuery["start_time"][0])
	assert.Equal(t, "2026-08-20T00:00:00Z", gotQuery["end_time"][0])
	assert.Equal(t, "cursor-1", gotQuery["next_token"][0])
}

func TestSearchAddsLanguageFilter(t *testing.T) {
	var gotQuery map[string][]string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data": [], "meta": {"result_count": 0}}`))
	})

	_, err := client.Search(context.Background(), models.Query{Keyword: "golang", Lang: "de"}, "")
	require.NoError(t, err)
	assert.Equal(t, "golang -is:retweet -is:reply lang:de", gotQuery["query"][0])
}

func TestSearchClampsPageSize(t *testing.T) {
	var gotQuery map[string][]string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data": [], "meta": {"result_count": 0}}`))
	})

	// below the API minimum of 10
	_, err := client.Search(context.Background(), models.Query{Keyword: "golang", Limit: 3}, "")
	require.NoError(t, err)
	assert.Equal(t, "10", gotQuery["max_results"][0])

	// above the API maximum of 100
	_, err = client.Search(context.Background(), models.Query{Keyword: "golang", Limit: 5000}, "")
	require.NoError(t, err)
	assert.Equal(t, "100", gotQuery["max_results"][0])
}

func TestSearchDropsMalformedRecords(t *testing.T) {
	body := `{
		"data": [
			{"id": "100", "text": "valid", "created_at": "2026-08-18T09:30:00Z"},
			{"id": "101", "text": "", "created_at": "2026-08-18T09:31:00Z"},
			{"id": "102", "text": "bad timestamp", "created_at": "yesterday"}
		],
		"meta": {"result_count": 3}
	}`
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	page, err := client.Search(context.Background(), models.Query{Keyword: "golang"}, "")
	require.NoError(t, err)
	assert.Len(t, page.Posts, 1)
	assert.Equal(t, 2, page.Dropped)
}

func TestSearchNoToken(t *testing.T) {
	client := NewClient("", "tweetpeek-test", 5*time.Second, logger.NewTestLogger())

	_, err := client.Search(context.Background(), models.Query{Keyword: "golang"}, "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindAuth))
}

func TestSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantKind   errors.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"title": "Unauthorized"}`, errors.KindAuth},
		{"forbidden", http.StatusForbidden, `{"title": "Forbidden"}`, errors.KindAuth},
		{"rate limited", http.StatusTooManyRequests, `{"title": "Too Many Requests"}`, errors.KindRateLimit},
		{"server error", http.StatusInternalServerError, ``, errors.KindServerError},
		{"bad gateway", http.StatusBadGateway, ``, errors.KindServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			})

			_, err := client.Search(context.Background(), models.Query{Keyword: "golang"}, "")
			require.Error(t, err)

			var apiErr *errors.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.statusCode, apiErr.Code)
		})
	}
}

func TestSearchNetworkError(t *testing.T) {
	client := NewClient("test-token", "tweetpeek-test", 5*time.Second, logger.NewTestLogger())
	client.SetBaseURL("http://127.0.0.1:1") // nothing listens here

	_, err := client.Search(context.Background(), models.Query{Keyword: "golang"}, "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNetwork))
}

func TestSearchErrorDetailFromBody(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"title": "Unauthorized", "detail": "token expired"}`))
	})

	_, err := client.Search(context.Background(), models.Query{Keyword: "golang"}, "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "token expired"))
}
