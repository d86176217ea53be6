package collector

import (
	"context"
	"time"

	"tweetpeek/pkg/config"
	"tweetpeek/pkg/errors"
	"tweetpeek/pkg/logger"
	"tweetpeek/pkg/models"
	"tweetpeek/pkg/ratelimit"
	"tweetpeek/pkg/retry"
	"tweetpeek/pkg/storage"
	"tweetpeek/pkg/twitter"
)

// SearchClient is the API surface the collector needs. *twitter.Client
// satisfies it; tests supply a stub.
type SearchClient interface {
	Search(ctx context.Context, query models.Query, nextToken string) (*twitter.Page, error)
}

// Result summarizes one collector run
type Result struct {
	// Fetched is the number of posts returned by the API across all pages
	Fetched int
	// Written is the number of posts persisted to the output file
	Written int
	// Duplicates counts posts already present in the output file
	Duplicates int
	// Dropped counts malformed API records rejected during validation
	Dropped int
	// OutputPath is the file the posts were written to
	OutputPath string
}

// Collector fetches posts for one query and persists them. It is built per
// invocation; there is no shared process-wide state.
type Collector struct {
	client    SearchClient
	limiter   ratelimit.Limiter
	retryCfg  *retry.Config
	logger    logger.Logger
	overwrite bool
}

// Options configures a Collector
type Options struct {
	Client    SearchClient
	Limiter   ratelimit.Limiter
	RetryCfg  *retry.Config
	Logger    logger.Logger
	Overwrite bool
}

// New creates a collector from explicit collaborators
func New(opts Options) *Collector {
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.RetryCfg == nil {
		opts.RetryCfg = retry.DefaultConfig()
	}
	return &Collector{
		client:    opts.Client,
		limiter:   opts.Limiter,
		retryCfg:  opts.RetryCfg,
		logger:    opts.Logger,
		overwrite: opts.Overwrite,
	}
}

// NewFromConfig wires a collector from configuration and a resolved bearer
// token.
func NewFromConfig(ctx context.Context, cfg *config.Config, bearerToken string, log logger.Logger) *Collector {
	client := twitter.NewClient(bearerToken, cfg.Twitter.UserAgent, cfg.Twitter.Timeout, log)
	return New(Options{
		Client:  client,
		Limiter: ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize),
		RetryCfg: retry.NewConfig(ctx, cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay,
			cfg.Retry.MaxDelay, cfg.Retry.Multiplier, log),
		Logger:    log,
		Overwrite: cfg.Output.Overwrite,
	})
}

// Run executes the query and persists matching posts to outputPath.
//
// Append is the default: posts whose IDs already exist in the file are
// skipped, so re-running with an overlapping date range never duplicates
// records. With Overwrite the file is atomically replaced instead.
//
// A query that matches nothing is not fatal: the output file is still
// created (empty) and the returned error has kind empty_result so the
// caller can log it and exit cleanly.
func (c *Collector) Run(ctx context.Context, query models.Query, outputPath string) (*Result, error) {
	result := &Result{OutputPath: outputPath}

	existing := make(map[string]bool)
	if !c.overwrite {
		var err error
		existing, err = storage.ReadPostIDs(outputPath)
		if err != nil {
			return result, errors.Newf(errors.KindInputFormat, "reading existing output: %v", err)
		}
		if len(existing) > 0 {
			c.logger.InfoWithFields("resuming into existing output file", map[string]interface{}{
				"path":     outputPath,
				"existing": len(existing),
			})
		}
	}

	var collected []models.Post
	nextToken := ""
	start := time.Now()

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			// Wait only fails when the context is done; report that as-is
			return result, err
		}

		page, err := retry.DoWithResult(func() (*twitter.Page, error) {
			return c.client.Search(ctx, query, nextToken)
		}, c.retryCfg)
		if err != nil {
			return result, err
		}

		result.Fetched += len(page.Posts)
		result.Dropped += page.Dropped

		for _, post := range page.Posts {
			if existing[post.ID] {
				result.Duplicates++
				continue
			}
			existing[post.ID] = true
			collected = append(collected, post)
			if query.Limit > 0 && len(collected) >= query.Limit {
				break
			}
		}

		c.logger.DebugWithFields("fetched page", map[string]interface{}{
			"keyword": query.Keyword,
			"posts":   len(page.Posts),
			"total":   len(collected),
		})

		if page.NextToken == "" || (query.Limit > 0 && len(collected) >= query.Limit) {
			break
		}
		nextToken = page.NextToken
	}

	if err := c.persist(collected, outputPath); err != nil {
		return result, err
	}
	result.Written = len(collected)

	c.logger.InfoWithFields("collection finished", map[string]interface{}{
		"keyword":    query.Keyword,
		"fetched":    result.Fetched,
		"written":    result.Written,
		"duplicates": result.Duplicates,
		"duration":   time.Since(start),
	})

	if result.Fetched == 0 {
		return result, errors.Newf(errors.KindEmptyResult,
			"no posts found for keyword %q", query.Keyword)
	}

	return result, nil
}

// persist writes the collected posts, creating an empty file when nothing
// matched so downstream stages always have an input to read.
func (c *Collector) persist(posts []models.Post, outputPath string) error {
	if c.overwrite {
		if err := storage.OverwritePosts(outputPath, posts); err != nil {
			return errors.Newf(errors.KindUnknown, "writing output: %v", err)
		}
		return nil
	}
	if err := storage.AppendPosts(outputPath, posts); err != nil {
		return errors.Newf(errors.KindUnknown, "writing output: %v", err)
	}
	return nil
}
