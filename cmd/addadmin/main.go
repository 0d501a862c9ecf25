package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fitquest/config"
	"fitquest/db"
	"fitquest/models"
	"fitquest/utils"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	login := flag.String("login", "", "Admin login (required)")
	password := flag.String("password", "", "Admin password (required)")
	firstname := flag.String("firstname", "", "Admin first name (required)")
	lastname := flag.String("lastname", "", "Admin last name (required)")
	configPath := flag.String("config", "config/config.yml", "Path to config file")
	flag.Parse()

	if *login == "" || *password == "" || *firstname == "" || *lastname == "" {
		fmt.Println("Error: login, password, firstname and lastname are required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.MongoClient.Disconnect(context.Background())

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var existing models.User
	err = db.GetCollection(db.UsersCollection).FindOne(dbCtx, bson.M{"login": *login}).Decode(&existing)
	if err == nil {
		log.Fatalf("User with login %s already exists", *login)
	}
	if err != mongo.ErrNoDocuments {
		log.Fatalf("Database error: %v", err)
	}

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	admin := models.User{
		Firstname: *firstname,
		Lastname:  *lastname,
		Login:     *login,
		Password:  hashed,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := db.GetCollection(db.UsersCollection).InsertOne(dbCtx, admin)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin created successfully!\n")
	fmt.Printf("   ID: %s\n", result.InsertedID)
	fmt.Printf("   Login: %s\n", *login)
	fmt.Printf("   Name: %s %s\n", *firstname, *lastname)
}
