package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"

	"friendfinder/backend/internal/cache"
	"friendfinder/backend/internal/match"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultSuggestionLimit = 10
	maxSuggestionLimit     = 50
)

// Suggestion pairs a candidate with its compatibility score.
type Suggestion struct {
	UserID       uint    `json:"user_id"`
	Username     string  `json:"username"`
	Score        float64 `json:"score"`
	Location     string  `json:"location,omitempty"`
	Interests    string  `json:"interests,omitempty"`
	Availability string  `json:"availability,omitempty"`
}

// MatchService computes friend suggestions and manages stored match edges.
type MatchService struct {
	users   *repository.UserRepository
	matches *repository.MatchRepository
	cache   *cache.RedisCache
	log     *slog.Logger
}

// NewMatchService wires the match service. The cache may be nil.
func NewMatchService(users *repository.UserRepository, matches *repository.MatchRepository, c *cache.RedisCache, log *slog.Logger) *MatchService {
	return &MatchService{users: users, matches: matches, cache: c, log: log}
}

// Suggestions scores every candidate matching the filter and returns the top
// results, best first. Unfiltered queries are served cache-first.
func (s *MatchService) Suggestions(ctx context.Context, userID uint, f repository.UserFilter, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}

	unfiltered := f == (repository.UserFilter{})
	if unfiltered && s.cache != nil {
		if cached, err := s.cache.GetSuggestions(ctx, userID); err == nil && cached != "" {
			var suggestions []Suggestion
			if json.Unmarshal([]byte(cached), &suggestions) == nil {
				if len(suggestions) > limit {
					suggestions = suggestions[:limit]
				}
				return suggestions, nil
			}
		}
	}

	self, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// distance filtering needs an origin
	if f.MaxDistanceKM != nil {
		f.OriginLat = self.Latitude
		f.OriginLon = self.Longitude
		if f.OriginLat == nil || f.OriginLon == nil {
			f.MaxDistanceKM = nil
		}
	}

	candidates, err := s.users.Search(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		suggestions = append(suggestions, Suggestion{
			UserID:       c.ID,
			Username:     c.Username,
			Score:        match.Score(self, c),
			Location:     visibleString(c.Location, c.PrivacySettings.LocationVisible),
			Interests:    visibleString(c.Interests, c.PrivacySettings.InterestsVisible),
			Availability: visibleString(c.Availability, c.PrivacySettings.AvailabilityVisible),
		})
	}

	// stable: ties keep store order
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	// Cache the full list (up to the hard cap) so the entry serves any
	// later limit; truncation to the caller's limit happens below.
	if len(suggestions) > maxSuggestionLimit {
		suggestions = suggestions[:maxSuggestionLimit]
	}
	if unfiltered && s.cache != nil {
		if payload, err := json.Marshal(suggestions); err == nil {
			if err := s.cache.SetSuggestions(ctx, userID, string(payload)); err != nil {
				s.log.Warn("failed to cache suggestions", "user", userID, "err", err)
			}
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// SaveMatch persists a directed match edge scored against the current
// profiles. Returns false when the edge already exists.
func (s *MatchService) SaveMatch(ctx context.Context, userID, matchedUserID uint) (*models.UserMatch, bool, error) {
	if userID == matchedUserID {
		return nil, false, ErrSelfRequest
	}

	self, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	other, err := s.users.GetByID(ctx, matchedUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	m := models.UserMatch{
		UserID:        userID,
		MatchedUserID: matchedUserID,
		Score:         match.Score(self, other),
		Status:        models.MatchPending,
	}
	created, err := s.matches.Create(ctx, &m)
	if err != nil {
		return nil, false, err
	}
	return &m, created, nil
}

// ListMatches returns the user's stored matches.
func (s *MatchService) ListMatches(ctx context.Context, userID uint) ([]models.UserMatch, error) {
	return s.matches.ListForUser(ctx, userID)
}

// RespondToMatch accepts or rejects a stored match. Only the owning user may
// act.
func (s *MatchService) RespondToMatch(ctx context.Context, matchID, userID uint, action string) error {
	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return ErrNotFound
	}
	if m.UserID != userID {
		return ErrUnauthorized
	}

	switch action {
	case "accept":
		return s.matches.UpdateStatus(ctx, m, models.MatchAccepted)
	case "reject":
		return s.matches.UpdateStatus(ctx, m, models.MatchRejected)
	default:
		return ErrInvalidAction
	}
}

// InvalidateSuggestions drops the cached list after a profile change.
func (s *MatchService) InvalidateSuggestions(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSuggestions(ctx, userID); err != nil {
		s.log.Warn("failed to invalidate suggestion cache", "user", userID, "err", err)
	}
}

func visibleString(s string, visible bool) string {
	if !visible {
		return ""
	}
	return s
}
