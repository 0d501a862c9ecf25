package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
)

// In-memory store fakes mirroring the Mongo stores' semantics, so the
// services can be exercised without a database.

type fakeParticipationStore struct {
	records []*models.Participation
}

func (f *fakeParticipationStore) find(userID, challengeID primitive.ObjectID) *models.Participation {
	for _, p := range f.records {
		if p.UserID == userID && p.ChallengeID == challengeID {
			return p
		}
	}
	return nil
}

func (f *fakeParticipationStore) Insert(_ context.Context, p *models.Participation) error {
	if f.find(p.UserID, p.ChallengeID) != nil {
		return ErrAlreadyParticipating
	}
	p.ID = primitive.NewObjectID()
	clone := *p
	f.records = append(f.records, &clone)
	return nil
}

func (f *fakeParticipationStore) FindOne(_ context.Context, userID, challengeID primitive.ObjectID) (*models.Participation, error) {
	p := f.find(userID, challengeID)
	if p == nil {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakeParticipationStore) CompleteIfOpen(_ context.Context, userID, challengeID primitive.ObjectID, points int, now time.Time) (*models.Participation, error) {
	p := f.find(userID, challengeID)
	if p == nil || p.CompletedAt != nil {
		return nil, nil
	}
	completedAt := now
	p.CompletedAt = &completedAt
	p.PointsEarned = points
	clone := *p
	return &clone, nil
}

func (f *fakeParticipationStore) Delete(_ context.Context, userID, challengeID primitive.ObjectID) (bool, error) {
	for i, p := range f.records {
		if p.UserID == userID && p.ChallengeID == challengeID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeParticipationStore) ByUser(_ context.Context, userID primitive.ObjectID, completed *bool) ([]models.Participation, error) {
	var out []models.Participation
	for _, p := range f.records {
		if p.UserID != userID {
			continue
		}
		if completed != nil && *completed != (p.CompletedAt != nil) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeParticipationStore) CompletedByUser(_ context.Context, userID primitive.ObjectID, limit int) ([]models.Participation, error) {
	var out []models.Participation
	for _, p := range f.records {
		if p.UserID == userID && p.CompletedAt != nil {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(*out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeParticipationStore) ByChallenge(_ context.Context, challengeID primitive.ObjectID) ([]models.Participation, error) {
	var out []models.Participation
	for _, p := range f.records {
		if p.ChallengeID == challengeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeParticipationStore) SumPointsByUser(_ context.Context, userID primitive.ObjectID) (int, error) {
	total := 0
	for _, p := range f.records {
		if p.UserID == userID && p.CompletedAt != nil {
			total += p.PointsEarned
		}
	}
	return total, nil
}

func (f *fakeParticipationStore) UserTotals(_ context.Context) ([]UserActivityStat, error) {
	grouped := make(map[primitive.ObjectID]*UserActivityStat)
	var order []primitive.ObjectID
	for _, p := range f.records {
		stat, ok := grouped[p.UserID]
		if !ok {
			stat = &UserActivityStat{UserID: p.UserID}
			grouped[p.UserID] = stat
			order = append(order, p.UserID)
		}
		stat.TotalParticipations++
		stat.TotalPoints += p.PointsEarned
		if p.CompletedAt != nil {
			stat.CompletedChallenges++
			if p.CompletedAt.After(stat.LastCompletedAt) {
				stat.LastCompletedAt = *p.CompletedAt
			}
		}
	}
	stats := make([]UserActivityStat, 0, len(order))
	for _, id := range order {
		stats = append(stats, *grouped[id])
	}
	return stats, nil
}

type fakeBadgeStore struct {
	badges []models.Badge
	earned []models.UserBadge
}

func (f *fakeBadgeStore) ActiveBadges(_ context.Context) ([]models.Badge, error) {
	var out []models.Badge
	for _, b := range f.badges {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBadgeStore) FindByID(_ context.Context, badgeID primitive.ObjectID) (*models.Badge, error) {
	for _, b := range f.badges {
		if b.ID == badgeID {
			clone := b
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeBadgeStore) EarnedCount(_ context.Context, userID, badgeID primitive.ObjectID) (int, error) {
	count := 0
	for _, ub := range f.earned {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBadgeStore) InsertUserBadge(_ context.Context, ub *models.UserBadge) error {
	ub.ID = primitive.NewObjectID()
	f.earned = append(f.earned, *ub)
	return nil
}

func (f *fakeBadgeStore) UserBadges(_ context.Context, userID primitive.ObjectID) ([]models.UserBadge, error) {
	var out []models.UserBadge
	for _, ub := range f.earned {
		if ub.UserID == userID {
			out = append(out, ub)
		}
	}
	return out, nil
}

func (f *fakeBadgeStore) CountByUser(_ context.Context, userID primitive.ObjectID) (int, error) {
	count := 0
	for _, ub := range f.earned {
		if ub.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBadgeStore) DeleteUserBadge(_ context.Context, userID, badgeID primitive.ObjectID) (bool, error) {
	for i, ub := range f.earned {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			f.earned = append(f.earned[:i], f.earned[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeRewardStore struct {
	rewards []models.Reward
	claims  []models.UserReward
}

func (f *fakeRewardStore) FindByID(_ context.Context, rewardID primitive.ObjectID) (*models.Reward, error) {
	for _, r := range f.rewards {
		if r.ID == rewardID {
			clone := r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRewardStore) ClaimCount(_ context.Context, userID, rewardID primitive.ObjectID) (int, error) {
	count := 0
	for _, ur := range f.claims {
		if ur.UserID == userID && ur.RewardID == rewardID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRewardStore) InsertUserReward(_ context.Context, ur *models.UserReward) error {
	ur.ID = primitive.NewObjectID()
	f.claims = append(f.claims, *ur)
	return nil
}

func (f *fakeRewardStore) IncrementClaimed(_ context.Context, rewardID primitive.ObjectID) error {
	for i := range f.rewards {
		if f.rewards[i].ID == rewardID {
			f.rewards[i].ClaimedCount++
		}
	}
	return nil
}

func (f *fakeRewardStore) MarkUsed(_ context.Context, userRewardID primitive.ObjectID, now time.Time) (*models.UserReward, error) {
	for i := range f.claims {
		if f.claims[i].ID == userRewardID {
			usedAt := now
			f.claims[i].UsedAt = &usedAt
			clone := f.claims[i]
			return &clone, nil
		}
	}
	return nil, nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]models.PublicUser
}

func (f *fakeUserStore) FindPublic(_ context.Context, userID primitive.ObjectID) (*models.PublicUser, error) {
	if u, ok := f.users[userID]; ok {
		clone := u
		return &clone, nil
	}
	return nil, nil
}
