// Package topics manages the followed-topics file: one keyword per line,
// used by collect, analyze and plot when no keywords are given on the
// command line.
package topics

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// List reads the topics file. A missing file yields an empty list.
func List(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open topics file: %w", err)
	}
	defer f.Close()

	var topics []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		topic := normalize(scanner.Text())
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, topic)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read topics file: %w", err)
	}

	return topics, nil
}

// Add appends topics that are not already present. It returns the topics
// actually added.
func Add(path string, newTopics []string) ([]string, error) {
	existing, err := List(path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for _, topic := range existing {
		seen[topic] = true
	}

	var added []string
	for _, topic := range newTopics {
		topic = normalize(topic)
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		existing = append(existing, topic)
		added = append(added, topic)
	}

	if len(added) == 0 {
		return nil, nil
	}
	return added, write(path, existing)
}

// Remove deletes topics from the file, returning the ones actually removed.
func Remove(path string, oldTopics []string) ([]string, error) {
	existing, err := List(path)
	if err != nil {
		return nil, err
	}

	drop := make(map[string]bool, len(oldTopics))
	for _, topic := range oldTopics {
		drop[normalize(topic)] = true
	}

	var kept, removed []string
	for _, topic := range existing {
		if drop[topic] {
			removed = append(removed, topic)
			continue
		}
		kept = append(kept, topic)
	}

	if len(removed) == 0 {
		return nil, nil
	}
	return removed, write(path, kept)
}

// write replaces the topics file atomically
func write(path string, topics []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create topics directory: %w", err)
	}

	var sb strings.Builder
	for _, topic := range topics {
		sb.WriteString(topic)
		sb.WriteByte('\n')
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write topics file: %w", err)
	}
	return os.Rename(tmp, path)
}

// normalize lowercases and trims a topic so lookups are case-insensitive
func normalize(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
