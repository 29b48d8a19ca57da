package main

import (
	"context"
	"log"

	"github.com/cirrusops/conversation-miner/internal/adapter/repository"
	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/database"
	"github.com/cirrusops/conversation-miner/internal/usecase/mining"
	"github.com/cirrusops/conversation-miner/pkg/config"
)

func main() {
	log.Println("🚀 Seeding default mining profile...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	ctx := context.Background()
	profileRepo := repository.NewMiningProfileRepository(db)

	existing, err := profileRepo.FindByOrgAndName(ctx, cfg.Auth.DefaultOrg, mining.DefaultProfileName)
	if err != nil {
		log.Fatalf("Failed to check for existing profile: %v", err)
	}
	if existing != nil {
		log.Printf("✅ Default profile already exists (id=%s), nothing to do", existing.ID)
		return
	}

	profile := entities.NewMiningProfile(cfg.Auth.DefaultOrg, mining.DefaultProfileName)
	profile.Description = "Standard customer story mining and content generation"
	profile.ExtractionSystemPrompt = mining.DefaultExtractionSystemPrompt
	profile.ExtractionUserPrompt = mining.DefaultExtractionUserPrompt
	profile.GenerationSystemPrompt = mining.DefaultGenerationSystemPrompt
	profile.Themes = []string{
		"pricing", "onboarding", "support", "product-feedback",
		"success-story", "pain-point", "competitive", "integration",
	}

	profile.ContentTypes = []entities.ContentTypeDefinition{
		{
			ProfileID:      profile.ID,
			Name:           "linkedin_post",
			PromptTemplate: mining.LinkedInPostTemplate,
			MaxTokens:      1024,
		},
		{
			ProfileID:      profile.ID,
			Name:           "blog_post",
			PromptTemplate: mining.BlogPostTemplate,
			MaxTokens:      4096,
		},
		{
			ProfileID:      profile.ID,
			Name:           "tweet",
			PromptTemplate: mining.TweetTemplate,
			MaxTokens:      512,
		},
		{
			ProfileID:      profile.ID,
			Name:           "book_excerpt",
			PromptTemplate: mining.BookExcerptTemplate,
			MaxTokens:      8192,
		},
	}

	if err := profileRepo.Create(ctx, profile); err != nil {
		log.Fatalf("Failed to create default profile: %v", err)
	}

	log.Printf("✅ Default profile seeded (id=%s, org=%s, %d content types)",
		profile.ID, profile.OrgID, len(profile.ContentTypes))
}
