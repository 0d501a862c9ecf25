package services

import (
	"context"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Effective bounds on leaderboard queries. Requests beyond the cap are
// clamped, not rejected.
const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
)

// LeaderboardEntry is one ranked row of a leaderboard view.
type LeaderboardEntry struct {
	Rank                int                `json:"rank"`
	UserID              primitive.ObjectID `json:"userId"`
	Firstname           string             `json:"firstname,omitempty"`
	Lastname            string             `json:"lastname,omitempty"`
	Login               string             `json:"login,omitempty"`
	TotalPoints         int                `json:"totalPoints"`
	ChallengesCompleted int                `json:"challengesCompleted"`
	TotalParticipations int                `json:"totalParticipations,omitempty"`
	LastCompletedAt     *time.Time         `json:"lastCompletedAt,omitempty"`
	BadgesEarned        int                `json:"badgesEarned,omitempty"`
	CompletionRate      int                `json:"completionRate,omitempty"`
}

// UserRankResult is a single user's standing.
type UserRankResult struct {
	UserID              primitive.ObjectID `json:"userId"`
	Firstname           string             `json:"firstname,omitempty"`
	Lastname            string             `json:"lastname,omitempty"`
	Login               string             `json:"login,omitempty"`
	Rank                int                `json:"rank"`
	TotalPoints         int                `json:"totalPoints"`
	CompletedChallenges int                `json:"completedChallenges"`
	TotalParticipations int                `json:"totalParticipations"`
	BadgesEarned        int                `json:"badgesEarned"`
	CompletionRate      int                `json:"completionRate"`
}

// LeaderboardService computes ranked views over the participation
// collection. Every call is a full re-aggregation; no ranking structure is
// cached between queries.
type LeaderboardService struct {
	participations ParticipationStore
	badges         BadgeStore
	users          UserStore
}

func NewLeaderboardService(participations ParticipationStore, badges BadgeStore, users UserStore) *LeaderboardService {
	return &LeaderboardService{participations: participations, badges: badges, users: users}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}

func completionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// fillUser resolves display fields for an entry; a missing user record is
// not an error, the entry just stays anonymous.
func (s *LeaderboardService) fillUser(ctx context.Context, entry *LeaderboardEntry) {
	user, err := s.users.FindPublic(ctx, entry.UserID)
	if err != nil || user == nil {
		return
	}
	entry.Firstname = user.Firstname
	entry.Lastname = user.Lastname
	entry.Login = user.Login
}

// TopByPoints ranks users by summed points over completed participations.
// Ties keep the aggregation's order; no secondary sort key is applied.
func (s *LeaderboardService) TopByPoints(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	stats, err := s.participations.UserTotals(ctx)
	if err != nil {
		return nil, err
	}

	var completedOnly []UserActivityStat
	for _, st := range stats {
		if st.CompletedChallenges > 0 {
			completedOnly = append(completedOnly, st)
		}
	}

	sort.SliceStable(completedOnly, func(i, j int) bool {
		return completedOnly[i].TotalPoints > completedOnly[j].TotalPoints
	})

	limit = clampLimit(limit)
	if len(completedOnly) > limit {
		completedOnly = completedOnly[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(completedOnly))
	for i, st := range completedOnly {
		entry := LeaderboardEntry{
			Rank:                i + 1,
			UserID:              st.UserID,
			TotalPoints:         st.TotalPoints,
			ChallengesCompleted: st.CompletedChallenges,
		}
		s.fillUser(ctx, &entry)
		entries = append(entries, entry)
	}
	return entries, nil
}

// TopByChallenges ranks users by completion count, most recent completion
// first among equals.
func (s *LeaderboardService) TopByChallenges(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	stats, err := s.participations.UserTotals(ctx)
	if err != nil {
		return nil, err
	}

	var completedOnly []UserActivityStat
	for _, st := range stats {
		if st.CompletedChallenges > 0 {
			completedOnly = append(completedOnly, st)
		}
	}

	sort.SliceStable(completedOnly, func(i, j int) bool {
		if completedOnly[i].CompletedChallenges != completedOnly[j].CompletedChallenges {
			return completedOnly[i].CompletedChallenges > completedOnly[j].CompletedChallenges
		}
		return completedOnly[i].LastCompletedAt.After(completedOnly[j].LastCompletedAt)
	})

	limit = clampLimit(limit)
	if len(completedOnly) > limit {
		completedOnly = completedOnly[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(completedOnly))
	for i, st := range completedOnly {
		last := st.LastCompletedAt
		entry := LeaderboardEntry{
			Rank:                i + 1,
			UserID:              st.UserID,
			TotalPoints:         st.TotalPoints,
			ChallengesCompleted: st.CompletedChallenges,
			LastCompletedAt:     &last,
		}
		s.fillUser(ctx, &entry)
		entries = append(entries, entry)
	}
	return entries, nil
}

// MostActive ranks users over all participations, completed or not, by
// participation count then completion count, and reports each user's
// completion rate and badge count.
func (s *LeaderboardService) MostActive(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	stats, err := s.participations.UserTotals(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalParticipations != stats[j].TotalParticipations {
			return stats[i].TotalParticipations > stats[j].TotalParticipations
		}
		return stats[i].CompletedChallenges > stats[j].CompletedChallenges
	})

	limit = clampLimit(limit)
	if len(stats) > limit {
		stats = stats[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(stats))
	for i, st := range stats {
		badgeCount, err := s.badges.CountByUser(ctx, st.UserID)
		if err != nil {
			return nil, err
		}
		entry := LeaderboardEntry{
			Rank:                i + 1,
			UserID:              st.UserID,
			TotalPoints:         st.TotalPoints,
			ChallengesCompleted: st.CompletedChallenges,
			TotalParticipations: st.TotalParticipations,
			BadgesEarned:        badgeCount,
			CompletionRate:      completionRate(st.CompletedChallenges, st.TotalParticipations),
		}
		s.fillUser(ctx, &entry)
		entries = append(entries, entry)
	}
	return entries, nil
}

// UserRank computes one user's competition rank: users with strictly more
// points rank above, equal totals share the same number. It returns nil
// for a user with no completed participations, which callers must not
// conflate with rank zero.
func (s *LeaderboardService) UserRank(ctx context.Context, userID primitive.ObjectID) (*UserRankResult, error) {
	stats, err := s.participations.UserTotals(ctx)
	if err != nil {
		return nil, err
	}

	var own *UserActivityStat
	for i := range stats {
		if stats[i].UserID == userID {
			own = &stats[i]
			break
		}
	}
	if own == nil || own.CompletedChallenges == 0 {
		return nil, nil
	}

	rank := 1
	for _, st := range stats {
		if st.CompletedChallenges > 0 && st.TotalPoints > own.TotalPoints {
			rank++
		}
	}

	badgeCount, err := s.badges.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &UserRankResult{
		UserID:              userID,
		Rank:                rank,
		TotalPoints:         own.TotalPoints,
		CompletedChallenges: own.CompletedChallenges,
		TotalParticipations: own.TotalParticipations,
		BadgesEarned:        badgeCount,
		CompletionRate:      completionRate(own.CompletedChallenges, own.TotalParticipations),
	}

	if user, err := s.users.FindPublic(ctx, userID); err == nil && user != nil {
		result.Firstname = user.Firstname
		result.Lastname = user.Lastname
		result.Login = user.Login
	}

	return result, nil
}
