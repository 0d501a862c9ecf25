package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitquest/models"
	"fitquest/services"
)

// Mongo-backed implementations of the service store interfaces. Each store
// wraps one or two collections; the services never see the driver.

type MongoParticipationStore struct {
	coll *mongo.Collection
}

type MongoBadgeStore struct {
	badges     *mongo.Collection
	userBadges *mongo.Collection
}

type MongoRewardStore struct {
	rewards     *mongo.Collection
	userRewards *mongo.Collection
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewParticipationStore(database *mongo.Database) *MongoParticipationStore {
	return &MongoParticipationStore{coll: database.Collection(ParticipationsCollection)}
}

func NewBadgeStore(database *mongo.Database) *MongoBadgeStore {
	return &MongoBadgeStore{
		badges:     database.Collection(BadgesCollection),
		userBadges: database.Collection(UserBadgesCollection),
	}
}

func NewRewardStore(database *mongo.Database) *MongoRewardStore {
	return &MongoRewardStore{
		rewards:     database.Collection(RewardsCollection),
		userRewards: database.Collection(UserRewardsCollection),
	}
}

func NewUserStore(database *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: database.Collection(UsersCollection)}
}

func (s *MongoParticipationStore) Insert(ctx context.Context, p *models.Participation) error {
	result, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return services.ErrAlreadyParticipating
		}
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (s *MongoParticipationStore) FindOne(ctx context.Context, userID, challengeID primitive.ObjectID) (*models.Participation, error) {
	var p models.Participation
	err := s.coll.FindOne(ctx, bson.M{"userId": userID, "challengeId": challengeID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoParticipationStore) CompleteIfOpen(ctx context.Context, userID, challengeID primitive.ObjectID, points int, now time.Time) (*models.Participation, error) {
	filter := bson.M{"userId": userID, "challengeId": challengeID, "completedAt": nil}
	update := bson.M{"$set": bson.M{"completedAt": now, "pointsEarned": points}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Participation
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoParticipationStore) Delete(ctx context.Context, userID, challengeID primitive.ObjectID) (bool, error) {
	result, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID, "challengeId": challengeID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoParticipationStore) ByUser(ctx context.Context, userID primitive.ObjectID, completed *bool) ([]models.Participation, error) {
	filter := bson.M{"userId": userID}
	if completed != nil {
		if *completed {
			filter["completedAt"] = bson.M{"$ne": nil}
		} else {
			filter["completedAt"] = nil
		}
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participations []models.Participation
	if err := cursor.All(ctx, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

func (s *MongoParticipationStore) CompletedByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Participation, error) {
	filter := bson.M{"userId": userID, "completedAt": bson.M{"$ne": nil}}
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participations []models.Participation
	if err := cursor.All(ctx, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

func (s *MongoParticipationStore) ByChallenge(ctx context.Context, challengeID primitive.ObjectID) ([]models.Participation, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"challengeId": challengeID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participations []models.Participation
	if err := cursor.All(ctx, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

func (s *MongoParticipationStore) SumPointsByUser(ctx context.Context, userID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "completedAt": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "totalPoints": bson.M{"$sum": "$pointsEarned"}}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalPoints int `bson:"totalPoints"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalPoints, nil
}

func (s *MongoParticipationStore) UserTotals(ctx context.Context) ([]services.UserActivityStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":                 "$userId",
			"totalParticipations": bson.M{"$sum": 1},
			"completedChallenges": bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$ne": bson.A{"$completedAt", nil}}, 1, 0}}},
			"totalPoints":         bson.M{"$sum": "$pointsEarned"},
			"lastCompletedAt":     bson.M{"$max": "$completedAt"},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []services.UserActivityStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *MongoBadgeStore) ActiveBadges(ctx context.Context) ([]models.Badge, error) {
	cursor, err := s.badges.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var badges []models.Badge
	if err := cursor.All(ctx, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}

func (s *MongoBadgeStore) FindByID(ctx context.Context, badgeID primitive.ObjectID) (*models.Badge, error) {
	var badge models.Badge
	err := s.badges.FindOne(ctx, bson.M{"_id": badgeID}).Decode(&badge)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (s *MongoBadgeStore) EarnedCount(ctx context.Context, userID, badgeID primitive.ObjectID) (int, error) {
	count, err := s.userBadges.CountDocuments(ctx, bson.M{"userId": userID, "badgeId": badgeID})
	return int(count), err
}

func (s *MongoBadgeStore) InsertUserBadge(ctx context.Context, ub *models.UserBadge) error {
	result, err := s.userBadges.InsertOne(ctx, ub)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ub.ID = oid
	}
	return nil
}

func (s *MongoBadgeStore) UserBadges(ctx context.Context, userID primitive.ObjectID) ([]models.UserBadge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "earnedAt", Value: -1}})
	cursor, err := s.userBadges.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var earned []models.UserBadge
	if err := cursor.All(ctx, &earned); err != nil {
		return nil, err
	}
	return earned, nil
}

func (s *MongoBadgeStore) CountByUser(ctx context.Context, userID primitive.ObjectID) (int, error) {
	count, err := s.userBadges.CountDocuments(ctx, bson.M{"userId": userID})
	return int(count), err
}

func (s *MongoBadgeStore) DeleteUserBadge(ctx context.Context, userID, badgeID primitive.ObjectID) (bool, error) {
	result, err := s.userBadges.DeleteOne(ctx, bson.M{"userId": userID, "badgeId": badgeID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoRewardStore) FindByID(ctx context.Context, rewardID primitive.ObjectID) (*models.Reward, error) {
	var reward models.Reward
	err := s.rewards.FindOne(ctx, bson.M{"_id": rewardID}).Decode(&reward)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func (s *MongoRewardStore) ClaimCount(ctx context.Context, userID, rewardID primitive.ObjectID) (int, error) {
	count, err := s.userRewards.CountDocuments(ctx, bson.M{"userId": userID, "rewardId": rewardID})
	return int(count), err
}

func (s *MongoRewardStore) InsertUserReward(ctx context.Context, ur *models.UserReward) error {
	result, err := s.userRewards.InsertOne(ctx, ur)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ur.ID = oid
	}
	return nil
}

func (s *MongoRewardStore) IncrementClaimed(ctx context.Context, rewardID primitive.ObjectID) error {
	_, err := s.rewards.UpdateByID(ctx, rewardID, bson.M{"$inc": bson.M{"claimedCount": 1}})
	return err
}

func (s *MongoRewardStore) MarkUsed(ctx context.Context, userRewardID primitive.ObjectID, now time.Time) (*models.UserReward, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ur models.UserReward
	err := s.userRewards.FindOneAndUpdate(ctx, bson.M{"_id": userRewardID}, bson.M{"$set": bson.M{"usedAt": now}}, opts).Decode(&ur)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ur, nil
}

func (s *MongoUserStore) FindPublic(ctx context.Context, userID primitive.ObjectID) (*models.PublicUser, error) {
	opts := options.FindOne().SetProjection(bson.M{"firstname": 1, "lastname": 1, "login": 1})
	var user models.PublicUser
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
