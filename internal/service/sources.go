package service

import (
	"context"
	"fmt"

	"ecostudy/internal/models"
	"ecostudy/internal/repository"
)

// SeedSources is the study material installed by Seed.
func SeedSources() []models.Source {
	return []models.Source{
		{Title: "Oligopoly Theory PDF", Type: models.SourcePDF},
		{Title: "Kinked Demand Visuals", Type: models.SourceVideo},
	}
}

type SourceService struct {
	sources repository.Sources
}

func NewSourceService(sources repository.Sources) *SourceService {
	return &SourceService{sources: sources}
}

func (s *SourceService) ListSources(ctx context.Context) ([]models.Source, error) {
	list, err := s.sources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if list == nil {
		list = []models.Source{}
	}
	return list, nil
}

// Seed replaces every stored source with SeedSources.
func (s *SourceService) Seed(ctx context.Context) error {
	seed := SeedSources()
	for i := range seed {
		if err := seed[i].Validate(); err != nil {
			return err
		}
	}
	if err := s.sources.Replace(ctx, seed); err != nil {
		return fmt.Errorf("seed sources: %w", err)
	}
	return nil
}
