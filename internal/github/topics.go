package github

import (
	"context"
	"sort"

	"github.com/jonathan/ecosystem-mapper/internal/types"
)

// TopicCount pairs a repository topic with its frequency across search results.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// TrendingTopics extracts topic frequencies from repositories matching the
// keyword, sorted by frequency descending.
func (c *Collector) TrendingTopics(ctx context.Context, keyword string, maxRepos int) ([]TopicCount, error) {
	repos, err := c.Search(ctx, SearchOptions{Keyword: keyword, MaxResults: maxRepos})
	if err != nil {
		return nil, err
	}
	return CountTopics(repos), nil
}

// CountTopics tallies topic frequencies for a set of repositories. Ties are
// broken alphabetically so the ordering is deterministic.
func CountTopics(repos []types.RepositoryRecord) []TopicCount {
	counts := make(map[string]int)
	for _, repo := range repos {
		for _, topic := range repo.Topics {
			counts[topic]++
		}
	}

	topics := make([]TopicCount, 0, len(counts))
	for topic, count := range counts {
		topics = append(topics, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Topic < topics[j].Topic
	})
	return topics
}
