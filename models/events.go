package models

import "time"

// GamificationEvent is broadcast over the WebSocket hub when a user earns
// points, a badge or a reward.
type GamificationEvent struct {
	Type        string    `json:"type"` // "badge_awarded", "challenge_completed", "reward_claimed"
	UserID      string    `json:"userId"`
	BadgeName   string    `json:"badgeName,omitempty"`
	RewardName  string    `json:"rewardName,omitempty"`
	ChallengeID string    `json:"challengeId,omitempty"`
	Points      int       `json:"points,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
