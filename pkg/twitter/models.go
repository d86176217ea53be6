package twitter

import (
	"time"

	"tweetpeek/pkg/models"
)

// searchResponse is the wire shape of a recent-search page
type searchResponse struct {
	Data     []tweetObject `json:"data"`
	Includes struct {
		Users []userObject `json:"users"`
	} `json:"includes"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
	Errors []apiError `json:"errors"`
	Title  string     `json:"title"`
	Detail string     `json:"detail"`
}

// tweetObject is one tweet as returned by the API
type tweetObject struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	CreatedAt     string `json:"created_at"`
	AuthorID      string `json:"author_id"`
	Lang          string `json:"lang"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		LikeCount    int `json:"like_count"`
	} `json:"public_metrics"`
}

// userObject is one expanded author record
type userObject struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	PublicMetrics struct {
		FollowersCount int `json:"followers_count"`
	} `json:"public_metrics"`
}

// apiError is one entry of the API's partial-error list
type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// toPosts converts a decoded page into posts. Records missing any required
// field (id, text, created_at) or carrying an unparseable timestamp are
// dropped; the count of dropped records is returned alongside.
func (r *searchResponse) toPosts() ([]models.Post, int) {
	users := make(map[string]userObject, len(r.Includes.Users))
	for _, u := range r.Includes.Users {
		users[u.ID] = u
	}

	var posts []models.Post
	dropped := 0
	for _, t := range r.Data {
		if t.ID == "" || t.Text == "" || t.CreatedAt == "" {
			dropped++
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, t.CreatedAt)
		if err != nil {
			dropped++
			continue
		}

		post := models.Post{
			ID:        t.ID,
			CreatedAt: createdAt.UTC(),
			Text:      t.Text,
			Likes:     t.PublicMetrics.LikeCount,
			Reshares:  t.PublicMetrics.RetweetCount,
			Lang:      t.Lang,
		}
		if u, ok := users[t.AuthorID]; ok {
			post.Author = u.Username
			post.Followers = u.PublicMetrics.FollowersCount
		}
		posts = append(posts, post)
	}

	return posts, dropped
}
