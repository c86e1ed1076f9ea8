package discovery

import (
	"fmt"

	"github.com/hanulkim/blog-discovery/app/content"
	"github.com/hanulkim/blog-discovery/app/database"
)

// Service is the engine facade the API and tasks work against. Every method
// recomputes from the stores on each call; there is no shared mutable state,
// so concurrent calls are independent.
type Service struct {
	contents database.ContentStore
	scorer   *RelevanceScorer
	pop      *PopularityAggregator
	mixer    *MixedRanker
}

func NewService(contents database.ContentStore, stats database.ViewStatsStore) *Service {
	pop := NewPopularityAggregator(stats)
	return &Service{
		contents: contents,
		scorer:   NewRelevanceScorer(),
		pop:      pop,
		mixer:    NewMixedRanker(contents, pop),
	}
}

// Aggregator exposes the popularity aggregator for callers that build their
// own rankings, such as document regeneration.
func (s *Service) Aggregator() *PopularityAggregator {
	return s.pop
}

// GetRelated returns up to limit published items of targetType sharing at
// least one tag with sourceTags, best match first. exclude may be nil.
func (s *Service) GetRelated(sourceTags []string, exclude *content.Identity, targetType content.Type, limit int) ([]content.Item, error) {
	if len(sourceTags) == 0 {
		return nil, nil
	}

	candidates, err := s.contents.GetPublishedWithTags(targetType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s candidates: %w", targetType, err)
	}

	return s.scorer.Rank(sourceTags, exclude, candidates, limit), nil
}

// GetRelatedTo resolves the tags of an existing item and ranks targetType
// items against them, excluding the source item itself. A missing or
// unpublished source yields an empty result.
func (s *Service) GetRelatedTo(source content.Identity, targetType content.Type, limit int) ([]content.Item, error) {
	item, err := s.contents.GetByID(source.Type, source.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source item: %w", err)
	}
	if item == nil || !item.Published {
		return nil, nil
	}

	tags, err := s.contents.GetTagsFor(source.Type, source.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source tags: %w", err)
	}

	return s.GetRelated(tags, &source, targetType, limit)
}

// GetTrendingMixed returns the cross-type trending list with an even
// per-type quota split.
func (s *Service) GetTrendingMixed(windowDays, totalLimit int) ([]content.Item, error) {
	return s.mixer.Trending(windowDays, totalLimit, nil)
}

// GetPopularOfType returns the top limit items of one type by windowed views.
func (s *Service) GetPopularOfType(t content.Type, windowDays, limit int) ([]content.Item, error) {
	return s.mixer.PopularOfType(t, windowDays, limit)
}
