package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
)

// ParticipationService governs a user's relationship to a challenge:
// absent -> joined -> completed, or joined -> left. Every transition is a
// single store write.
type ParticipationService struct {
	store ParticipationStore
}

func NewParticipationService(store ParticipationStore) *ParticipationService {
	return &ParticipationService{store: store}
}

// Join enrolls the user in a challenge. The participation starts with zero
// points earned; points are only snapshotted at completion.
func (s *ParticipationService) Join(ctx context.Context, userID, challengeID primitive.ObjectID) (*models.Participation, error) {
	p := &models.Participation{
		UserID:       userID,
		ChallengeID:  challengeID,
		PointsEarned: 0,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Complete marks the participation completed, snapshotting the points the
// caller read from the challenge at call time. The value is never re-read
// later, so changing a challenge's points does not rewrite history.
// Completing twice fails with ErrAlreadyCompleted; the conditional write
// makes the transition single-shot even under concurrent requests.
func (s *ParticipationService) Complete(ctx context.Context, userID, challengeID primitive.ObjectID, points int) (*models.Participation, error) {
	p, err := s.store.CompleteIfOpen(ctx, userID, challengeID, points, time.Now())
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	// No open record matched: either the user never joined, or the
	// participation was already completed.
	existing, err := s.store.FindOne(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotParticipating
	}
	return nil, ErrAlreadyCompleted
}

// Leave removes the participation. Leaving a completed challenge is
// rejected: the points history behind badges and leaderboards must
// survive.
func (s *ParticipationService) Leave(ctx context.Context, userID, challengeID primitive.ObjectID) error {
	existing, err := s.store.FindOne(ctx, userID, challengeID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotParticipating
	}
	if existing.Completed() {
		return ErrAlreadyCompleted
	}

	deleted, err := s.store.Delete(ctx, userID, challengeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotParticipating
	}
	return nil
}

// IsParticipating reports whether the user has a participation record for
// the challenge, completed or not.
func (s *ParticipationService) IsParticipating(ctx context.Context, userID, challengeID primitive.ObjectID) (bool, error) {
	p, err := s.store.FindOne(ctx, userID, challengeID)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// UserTotalPoints sums the points snapshot of every completed
// participation.
func (s *ParticipationService) UserTotalPoints(ctx context.Context, userID primitive.ObjectID) (int, error) {
	return s.store.SumPointsByUser(ctx, userID)
}

// ActiveChallenges lists the user's joined-but-uncompleted participations.
func (s *ParticipationService) ActiveChallenges(ctx context.Context, userID primitive.ObjectID) ([]models.Participation, error) {
	completed := false
	return s.store.ByUser(ctx, userID, &completed)
}

// CompletedChallenges lists the user's completed participations.
func (s *ParticipationService) CompletedChallenges(ctx context.Context, userID primitive.ObjectID) ([]models.Participation, error) {
	completed := true
	return s.store.ByUser(ctx, userID, &completed)
}

// Participants lists every participation in a challenge.
func (s *ParticipationService) Participants(ctx context.Context, challengeID primitive.ObjectID) ([]models.Participation, error) {
	return s.store.ByChallenge(ctx, challengeID)
}
