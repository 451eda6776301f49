package services

import (
	"context"
	"strings"
	"time"

	"MediCareHMS/cache"
	"MediCareHMS/models"
	"MediCareHMS/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCatalog seeds both specializations and departments.
var DefaultCatalog = []string{"Cardiology", "Neurology", "Orthopedics", "Pediatrics", "Dermatology", "ENT"}

// CatalogService manages one named list, specializations or departments.
type CatalogService struct {
	Name  string
	Store CatalogStore
	Cache cache.Cache
	TTL   time.Duration
	Now   func() time.Time
}

func (s *CatalogService) key() string {
	return cache.CatalogKey + s.Name
}

func (s *CatalogService) List(ctx context.Context) ([]models.CatalogItem, error) {
	if s.Cache != nil {
		var cached []models.CatalogItem
		if ok, err := s.Cache.GetCache(ctx, s.key(), &cached); err == nil && ok {
			return cached, nil
		}
	}
	items, err := s.Store.List(ctx)
	if err != nil {
		log.Error().Err(err).Str("catalog", s.Name).Msg("Error listing catalog")
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.SetCache(ctx, s.key(), items, s.TTL); err != nil {
			log.Warn().Err(err).Msg("Error caching catalog")
		}
	}
	return items, nil
}

func (s *CatalogService) Create(ctx context.Context, name string) (*models.CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.Validation(util.NAME_REQUIRED)
	}
	ts := now(s.Now)
	item := &models.CatalogItem{Name: name, CreatedAt: ts, UpdatedAt: ts}
	if err := s.Store.Create(ctx, item); err != nil {
		log.Error().Err(err).Str("catalog", s.Name).Msg("Error creating catalog item")
		return nil, err
	}
	s.forget(ctx)
	return item, nil
}

func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("catalog", s.Name).Msg("Error deleting catalog item")
		return err
	}
	s.forget(ctx)
	return nil
}

// Seed makes sure every name exists without touching existing entries.
func (s *CatalogService) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := s.Store.Ensure(ctx, name); err != nil {
			log.Error().Err(err).Str("catalog", s.Name).Str("name", name).Msg("Error seeding catalog")
			return err
		}
	}
	s.forget(ctx)
	return nil
}

func (s *CatalogService) forget(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeleteCache(ctx, s.key()); err != nil {
		log.Warn().Err(err).Msg("Error dropping catalog cache")
	}
}
