package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tweetpeek/pkg/errors"
	"tweetpeek/pkg/models"
)

// maxLineSize bounds a single NDJSON line; posts are small but text bodies
// can carry long URLs and unicode.
const maxLineSize = 1 << 20

// AppendPosts appends posts to an NDJSON file, one post per line, creating
// the file and its directory if needed.
func AppendPosts(path string, posts []models.Post) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open posts file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, post := range posts {
		if err := enc.Encode(post); err != nil {
			return fmt.Errorf("failed to write post %s: %w", post.ID, err)
		}
	}

	return f.Sync()
}

// OverwritePosts atomically replaces the NDJSON file with the given posts.
// The file is written next to the target and renamed into place so a crash
// never leaves a half-written file behind.
func OverwritePosts(path string, posts []models.Post) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	enc := json.NewEncoder(f)
	for _, post := range posts {
		if err := enc.Encode(post); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to write post %s: %w", post.ID, err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	return os.Rename(tmp, path)
}

// ReadPosts reads an NDJSON posts file. Malformed lines are skipped and
// counted rather than failing the whole read; a file that contains data but
// yields no parseable posts at all is an input-format error.
func ReadPosts(path string) ([]models.Post, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Newf(errors.KindInputFormat, "cannot open posts file: %v", err)
	}
	defer f.Close()

	var posts []models.Post
	skipped := 0
	nonEmptyLines := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		nonEmptyLines++

		var post models.Post
		if err := json.Unmarshal(line, &post); err != nil || post.ID == "" || post.Text == "" {
			skipped++
			continue
		}
		posts = append(posts, post)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, errors.Newf(errors.KindInputFormat, "reading posts file: %v", err)
	}

	if nonEmptyLines > 0 && len(posts) == 0 {
		return nil, skipped, errors.Newf(errors.KindInputFormat,
			"no parseable post records in %s (%d lines skipped)", path, skipped)
	}

	return posts, skipped, nil
}

// ReadPostIDs returns the set of post IDs already present in the file.
// A missing file yields an empty set, not an error.
func ReadPostIDs(path string) (map[string]bool, error) {
	ids := make(map[string]bool)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("failed to open posts file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		var post models.Post
		if err := json.Unmarshal(scanner.Bytes(), &post); err == nil && post.ID != "" {
			ids[post.ID] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan posts file: %w", err)
	}

	return ids, nil
}
