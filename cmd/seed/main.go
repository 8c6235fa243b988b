package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"leadpanel/internal/config"
	"leadpanel/internal/database"
	"leadpanel/internal/domain/auth"
	"leadpanel/internal/domain/lead"
	jwtsvc "leadpanel/internal/pkg/jwt"
)

// Seeds one operator account and a spread of sample leads for local
// development. Safe to run once against an empty database.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.Server.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&auth.User{}, &lead.Lead{}); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	j := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(auth.NewRepository(db), j)

	if _, err := authService.CreateUser(ctx, "operator@example.com", "changeme123", "Operator"); err != nil {
		if err != auth.ErrEmailExists {
			log.Fatal(err)
		}
		log.Println("operator account already exists, skipping")
	} else {
		log.Println("created operator@example.com / changeme123")
	}

	leadRepo := lead.NewRepository(db)

	now := time.Now().UTC()
	samples := []struct {
		name      string
		phone     string
		source    string
		utmSource string
		status    lead.Status
		daysAgo   int
	}{
		{"Alice Martin", "+1 555 0101", "google-ads", "go-ads", lead.StatusHot, 0},
		{"Bruno Costa", "+1 555 0102", "", "meta-ads", lead.StatusWarm, 1},
		{"Carla Gomez", "+1 555 0103", "linkedin", "", lead.StatusNew, 2},
		{"Derek Jones", "+1 555 0104", "website", "", lead.StatusCold, 3},
		{"Elena Souza", "+1 555 0105", "referral", "", lead.StatusWon, 5},
		{"Felix Braun", "+1 555 0106", "email", "", lead.StatusWarm, 8},
		{"Gina Torres", "+1 555 0107", "", "", lead.StatusNew, 13},
		{"Hugo Lima", "+1 555 0108", "billboard", "", lead.StatusCold, 21},
		{"Iris Chen", "+1 555 0109", "google-ads", "", lead.StatusHot, 34},
		{"Jonas Petit", "+1 555 0110", "website", "", lead.StatusWon, 40},
	}

	// Inserted straight through the repository so the backdated timestamp
	// and status land in one write, with no change events published.
	for _, s := range samples {
		l := &lead.Lead{
			CreatedAt: now.AddDate(0, 0, -s.daysAgo),
			Name:      opt(s.name),
			Phone:     opt(s.phone),
			Source:    opt(s.source),
			UTMSource: opt(s.utmSource),
			Status:    s.status,
		}
		if err := leadRepo.Create(ctx, l); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("seeded %d leads", len(samples))
}

func opt(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
