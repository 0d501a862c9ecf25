package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"fitquest/db"
	"fitquest/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateExerciseRequest is the exercise catalog payload
type CreateExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscleGroup" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=Beginner Intermediate Advanced"`
}

// CreateExercise adds an exercise to the catalog. Admin only.
func CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	now := time.Now()
	exercise := models.Exercise{
		Name:        req.Name,
		Description: req.Description,
		MuscleGroup: req.MuscleGroup,
		Difficulty:  req.Difficulty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.ExercisesCollection).InsertOne(ctx, exercise)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "An exercise with this name already exists"})
			return
		}
		log.Printf("Error creating exercise: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exercise"})
		return
	}

	exercise.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, exercise)
}

// ListExercises returns the catalog, optionally filtered by muscle group
// or difficulty.
func ListExercises(c *gin.Context) {
	filter := bson.M{}
	if mg := c.Query("muscleGroup"); mg != "" {
		filter["muscleGroup"] = mg
	}
	if d := c.Query("difficulty"); d != "" {
		filter["difficulty"] = d
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.GetCollection(db.ExercisesCollection).Find(ctx, filter)
	if err != nil {
		log.Printf("Error listing exercises: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exercises"})
		return
	}
	defer cursor.Close(ctx)

	var exercises []models.Exercise
	if err := cursor.All(ctx, &exercises); err != nil {
		log.Printf("Error decoding exercises: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode exercises"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exercises": exercises, "total": len(exercises)})
}

// GetExercise returns a single exercise by id.
func GetExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var exercise models.Exercise
	if err := db.GetCollection(db.ExercisesCollection).FindOne(ctx, bson.M{"_id": exerciseID}).Decode(&exercise); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise replaces the mutable fields of an exercise. Admin only.
func UpdateExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise ID"})
		return
	}

	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"name":        req.Name,
		"description": req.Description,
		"muscleGroup": req.MuscleGroup,
		"difficulty":  req.Difficulty,
		"updatedAt":   time.Now(),
	}
	result, err := db.GetCollection(db.ExercisesCollection).UpdateOne(ctx, bson.M{"_id": exerciseID}, bson.M{"$set": update})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "An exercise with this name already exists"})
			return
		}
		log.Printf("Error updating exercise: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update exercise"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exercise updated successfully"})
}

// DeleteExercise removes an exercise from the catalog. Admin only.
func DeleteExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.ExercisesCollection).DeleteOne(ctx, bson.M{"_id": exerciseID})
	if err != nil {
		log.Printf("Error deleting exercise: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete exercise"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exercise deleted successfully"})
}
