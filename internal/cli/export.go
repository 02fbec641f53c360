package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-nutrition/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/services"
)

// localUser owns everything loaded from an export; user IDs in the file are ignored.
const localUser = "local"

// Export is the file format read by the analyze command.
type Export struct {
	Profile  *domain.UserProfile   `json:"profile"`
	Products []domain.Product      `json:"products"`
	Recipes  []domain.Recipe       `json:"recipes"`
	Entries  []domain.FoodLogEntry `json:"entries"`
}

func decodeExport(r io.Reader) (*Export, error) {
	var export Export
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("invalid export: %w", err)
	}
	return &export, nil
}

// engine is an analytics service over the contents of one export.
type engine struct {
	analytics *services.AnalyticsService
	// lastDay is the UTC day of the most recent entry, zero without entries.
	lastDay time.Time
}

func (e *Export) load(ctx context.Context, cfg domain.AnalyticsConfig) (*engine, error) {
	profiles := repository.NewInMemoryProfileRepository()
	products := repository.NewInMemoryProductRepository()
	recipes := repository.NewInMemoryRecipeRepository()
	entries := repository.NewInMemoryFoodLogRepository()

	profile, err := normalizeProfile(e.Profile)
	if err != nil {
		return nil, err
	}
	if err := profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	for i := range e.Products {
		p := e.Products[i]
		if p.ID == "" {
			return nil, fmt.Errorf("product %d: id is required", i)
		}
		if err := p.Nutrients.Validate(); err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		if err := products.Create(ctx, &p); err != nil {
			return nil, err
		}
	}

	for i := range e.Recipes {
		r := e.Recipes[i]
		if r.ID == "" {
			return nil, fmt.Errorf("recipe %d: id is required", i)
		}
		r.UserID = localUser
		if err := recipes.Create(ctx, &r); err != nil {
			return nil, err
		}
	}

	var lastDay time.Time
	for i := range e.Entries {
		entry := e.Entries[i]
		entry.UserID = localUser
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.ConsumedAt = entry.ConsumedAt.UTC()
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := entries.Create(ctx, &entry); err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
		}
		if day := entry.Date(); day.After(lastDay) {
			lastDay = day
		}
	}

	svc := services.NewAnalyticsService(
		entries,
		services.NewProfileService(profiles, cfg),
		services.NewNutrientResolver(products, recipes),
		cfg,
	)
	return &engine{analytics: svc, lastDay: lastDay}, nil
}

// normalizeProfile re-parses the enum fields so labels from the file are
// checked the same way the API checks them.
func normalizeProfile(in *domain.UserProfile) (*domain.UserProfile, error) {
	if in == nil {
		return domain.NewUserProfile(localUser), nil
	}

	p := *in
	p.UserID = localUser
	if p.Gender != nil {
		g, err := domain.ParseGender(string(*p.Gender))
		if err != nil {
			return nil, err
		}
		p.Gender = &g
	}
	if p.ActivityLevel != nil {
		a, err := domain.ParseActivityLevel(string(*p.ActivityLevel))
		if err != nil {
			return nil, err
		}
		p.ActivityLevel = &a
	}
	if p.FitnessGoal != nil {
		f, err := domain.ParseFitnessGoal(string(*p.FitnessGoal))
		if err != nil {
			return nil, err
		}
		p.FitnessGoal = &f
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
