package main

import (
	"calsnap/database"
	"calsnap/internal/config"
	"calsnap/internal/repository"
	"calsnap/internal/utils"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file from project root
	if err := godotenv.Load(); err != nil {
		// Try loading from parent directory (in case running from cmd/seed/)
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found: %v", err)
		}
	}
}

func main() {
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	userID := seedCmd.String("user", "", "User ID (UUID) to seed meals for")
	email := seedCmd.String("email", "", "Email stored on the user's profile")
	days := seedCmd.Int("days", utils.DefaultSeedDays, "Number of days of meals to create, ending today")
	goal := seedCmd.Int("goal", 0, "Daily calorie goal to set (0 keeps the current goal)")

	clearCmd := flag.NewFlagSet("clear", flag.ExitOnError)
	clearUser := clearCmd.String("user", "", "User ID (UUID) whose meals are deleted")

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("DB_HOST: %s", cfg.Database.Host)
	log.Printf("DB_PORT: %s", cfg.Database.Port)
	log.Printf("DB_NAME: %s", cfg.Database.Name)

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])

		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Error connecting to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Error running migrations: %v", err)
		}

		log.Printf("Seeding %d days of meals for user %s", *days, *userID)
		_, err = utils.SeedMeals(repository.NewMealRepository(db), repository.NewProfileRepository(db), utils.SeedOptions{
			UserID: *userID,
			Email:  *email,
			Days:   *days,
			Goal:   *goal,
		})
		if err != nil {
			log.Fatalf("Error seeding meals: %v", err)
		}

	case "clear":
		clearCmd.Parse(os.Args[2:])

		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Error connecting to database: %v", err)
		}
		if _, err := utils.ClearMeals(repository.NewMealRepository(db), *clearUser); err != nil {
			log.Fatalf("Error clearing meals: %v", err)
		}

	case "help":
		printHelp()

	default:
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage:")
	fmt.Println("  seed seed -user <uuid> [-email addr] [-days 7] [-goal 2000]")
	fmt.Println("      Create a profile and demo meals for the last N days")
	fmt.Println("  seed clear -user <uuid>")
	fmt.Println("      Delete every meal of the user")
}
