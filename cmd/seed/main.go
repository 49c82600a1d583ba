package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gainboard/database"
	"gainboard/internal/config"
	"gainboard/internal/evaluation"
	"gainboard/internal/models"
	"gainboard/internal/repository"

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
	configPath := seedCmd.String("config", "competition.json", "Competition config JSON path")
	teacherPassword := seedCmd.String("teacher-password", "", "Initial password for teacher accounts (default: SEED_TEACHER_PASSWORD env)")

	clearCmd := flag.NewFlagSet("clear", flag.ExitOnError)
	clearAll := clearCmd.Bool("all", false, "Also remove competitions and users, not just submissions")

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])
		database.ConnectDatabase()
		if err := database.MigrateDatabase(); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
		if err := seedCompetition(*configPath, *teacherPassword); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}

	case "clear":
		clearCmd.Parse(os.Args[2:])
		database.ConnectDatabase()
		if err := clearData(*clearAll); err != nil {
			log.Fatalf("Clearing failed: %v", err)
		}

	default:
		printHelp()
		os.Exit(1)
	}
}

func seedCompetition(configPath, teacherPassword string) error {
	cfg, err := config.LoadCompetitionConfig(configPath)
	if err != nil {
		return err
	}

	deadline, err := config.ParseFlexibleTime(cfg.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	revealAt, err := config.ParseFlexibleTime(cfg.ResultsRevealDate)
	if err != nil {
		return fmt.Errorf("invalid results reveal date: %w", err)
	}

	raw, err := os.ReadFile(cfg.MasterDataPath)
	if err != nil {
		return fmt.Errorf("reading master data %s: %w", cfg.MasterDataPath, err)
	}
	master, err := evaluation.LoadMasterDataset(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parsing master data: %w", err)
	}
	log.Printf("Master dataset loaded: %d records, %d positives", master.Size(), master.PositiveCount())

	if cfg.GainMatrix.IsZero() {
		return fmt.Errorf("gain matrix is empty")
	}

	gainMatrixJSON, err := json.Marshal(cfg.GainMatrix)
	if err != nil {
		return err
	}
	thresholdsJSON, err := json.Marshal(cfg.GainThresholds)
	if err != nil {
		return err
	}

	competitionRepo := repository.NewCompetitionRepository(database.DB)
	competition := &models.Competition{
		Name:            cfg.Name,
		Description:     cfg.Description,
		Deadline:        deadline,
		ResultsRevealAt: revealAt,
		DatasetVersion:  evaluation.DatasetVersion(raw),
		MasterData:      raw,
		GainMatrix:      string(gainMatrixJSON),
		Thresholds:      string(thresholdsJSON),
	}
	if err := competitionRepo.CreateCompetition(competition); err != nil {
		return fmt.Errorf("creating competition: %w", err)
	}
	log.Printf("Competition %q created with ID %d (dataset version %s)", competition.Name, competition.ID, competition.DatasetVersion[:16])

	if teacherPassword == "" {
		teacherPassword = os.Getenv("SEED_TEACHER_PASSWORD")
	}
	if teacherPassword == "" {
		teacherPassword = "changeme"
	}

	userRepo := repository.NewUserRepository(database.DB)
	for _, email := range cfg.Teachers {
		if _, err := userRepo.GetUserByEmail(email); err == nil {
			log.Printf("Teacher %s already exists, skipping", email)
			continue
		}
		teacher := &models.User{
			Name:     email,
			Email:    email,
			Password: teacherPassword,
			Role:     models.RoleTeacher,
		}
		if err := userRepo.CreateUser(teacher); err != nil {
			return fmt.Errorf("creating teacher %s: %w", email, err)
		}
		log.Printf("Teacher account created for %s", email)
	}

	return nil
}

func clearData(all bool) error {
	if err := database.DB.Exec("DELETE FROM submissions").Error; err != nil {
		return err
	}
	log.Println("Submissions cleared")

	if all {
		if err := database.DB.Exec("DELETE FROM competitions").Error; err != nil {
			return err
		}
		if err := database.DB.Exec("DELETE FROM users").Error; err != nil {
			return err
		}
		log.Println("Competitions and users cleared")
	}

	return nil
}

func printHelp() {
	fmt.Println("Usage:")
	fmt.Println("  seed  -config <competition.json> [-teacher-password <pw>]   Create a competition and its teacher accounts")
	fmt.Println("  clear [-all]                                                Remove submissions (and everything with -all)")
}
