package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
	"fitquest/rules"
)

// BadgeService evaluates badge rules against user metrics and records
// earnings. Assignment is additive only: a badge is never revoked when the
// user's metrics later regress below its threshold.
type BadgeService struct {
	store   BadgeStore
	metrics *MetricsCollector
}

func NewBadgeService(store BadgeStore, metrics *MetricsCollector) *BadgeService {
	return &BadgeService{store: store, metrics: metrics}
}

// underCap reports whether the user may still earn the badge.
// MaxEarnings of -1 means unlimited.
func (s *BadgeService) underCap(ctx context.Context, userID primitive.ObjectID, badge *models.Badge) (bool, error) {
	if badge.MaxEarnings == -1 {
		return true, nil
	}
	count, err := s.store.EarnedCount(ctx, userID, badge.ID)
	if err != nil {
		return false, err
	}
	return count < badge.MaxEarnings, nil
}

// AssignEligibleBadges computes the user's metrics once and awards every
// active badge whose rules the snapshot satisfies and whose earning cap is
// not yet reached. A badge at its cap is a normal skip, not a failure.
// The returned slice holds the newly created earnings.
func (s *BadgeService) AssignEligibleBadges(ctx context.Context, userID primitive.ObjectID, earnedFrom *models.EarnedFrom) ([]models.UserBadge, error) {
	badges, err := s.store.ActiveBadges(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.metrics.Collect(ctx, userID)
	if err != nil {
		return nil, err
	}

	var awarded []models.UserBadge
	for i := range badges {
		badge := &badges[i]
		if !rules.EvaluateBadge(badge, snapshot) {
			continue
		}

		ok, err := s.underCap(ctx, userID, badge)
		if err != nil {
			return awarded, err
		}
		if !ok {
			continue
		}

		ub := models.UserBadge{
			UserID:      userID,
			BadgeID:     badge.ID,
			EarnedAt:    time.Now(),
			EarnedCount: 1,
			EarnedFrom:  earnedFrom,
		}
		if err := s.store.InsertUserBadge(ctx, &ub); err != nil {
			return awarded, err
		}
		awarded = append(awarded, ub)
	}

	return awarded, nil
}

// AssignBadgeToUser grants one badge directly, bypassing rule evaluation
// (the admin's manual path). The earning cap still applies.
func (s *BadgeService) AssignBadgeToUser(ctx context.Context, userID, badgeID primitive.ObjectID, earnedFrom *models.EarnedFrom) (*models.UserBadge, error) {
	badge, err := s.store.FindByID(ctx, badgeID)
	if err != nil {
		return nil, err
	}
	if badge == nil {
		return nil, ErrBadgeNotFound
	}

	ok, err := s.underCap(ctx, userID, badge)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEarningCapReached
	}

	ub := &models.UserBadge{
		UserID:      userID,
		BadgeID:     badgeID,
		EarnedAt:    time.Now(),
		EarnedCount: 1,
		EarnedFrom:  earnedFrom,
	}
	if err := s.store.InsertUserBadge(ctx, ub); err != nil {
		return nil, err
	}
	return ub, nil
}

// Badge looks up a badge definition. Returns (nil, nil) when absent.
func (s *BadgeService) Badge(ctx context.Context, badgeID primitive.ObjectID) (*models.Badge, error) {
	return s.store.FindByID(ctx, badgeID)
}

// RemoveBadgeFromUser deletes one earning of a badge.
func (s *BadgeService) RemoveBadgeFromUser(ctx context.Context, userID, badgeID primitive.ObjectID) error {
	deleted, err := s.store.DeleteUserBadge(ctx, userID, badgeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBadgeNotFound
	}
	return nil
}

// UserBadges lists every badge earning of a user.
func (s *BadgeService) UserBadges(ctx context.Context, userID primitive.ObjectID) ([]models.UserBadge, error) {
	return s.store.UserBadges(ctx, userID)
}

// UserBadgeCount counts a user's badge earnings.
func (s *BadgeService) UserBadgeCount(ctx context.Context, userID primitive.ObjectID) (int, error) {
	return s.store.CountByUser(ctx, userID)
}
