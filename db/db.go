package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

// Collection names
const (
	UsersCollection            = "users"
	GymsCollection             = "gyms"
	ExercisesCollection        = "exercises"
	ChallengesCollection       = "challenges"
	ParticipationsCollection   = "userChallenges"
	SharedChallengesCollection = "sharedChallenges"
	BadgesCollection           = "badges"
	UserBadgesCollection       = "userBadges"
	RewardsCollection          = "rewards"
	UserRewardsCollection      = "userRewards"
)

// GetCollection returns a collection by name
func GetCollection(collectionName string) *mongo.Collection {
	return MongoDatabase.Collection(collectionName)
}

// extractDBName parses the database name from the URI, defaulting to "fitquest"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "fitquest"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "fitquest"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	return nil
}

// EnsureIndexes creates the unique indexes the services rely on. Joining a
// challenge twice is rejected by the (userId, challengeId) index rather
// than a check-then-write, so concurrent joins cannot both succeed.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		collection string
		keys       bson.D
	}{
		{ParticipationsCollection, bson.D{{Key: "userId", Value: 1}, {Key: "challengeId", Value: 1}}},
		{UsersCollection, bson.D{{Key: "login", Value: 1}}},
		{BadgesCollection, bson.D{{Key: "name", Value: 1}}},
		{GymsCollection, bson.D{{Key: "name", Value: 1}}},
		{ExercisesCollection, bson.D{{Key: "name", Value: 1}}},
	}

	for _, idx := range indexes {
		_, err := MongoDatabase.Collection(idx.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    idx.keys,
			Options: unique,
		})
		if err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.collection, err)
		}
	}

	// Non-unique indexes backing the leaderboard aggregations and the
	// per-user metrics scans.
	_, err := MongoDatabase.Collection(ParticipationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create participation scan index: %w", err)
	}

	_, err = MongoDatabase.Collection(UserBadgesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "badgeId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create user badge index: %w", err)
	}

	return nil
}
