package repository

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store holds the DB pool and the repositories for the five memory
// collections.
type Store struct {
	db           *gorm.DB
	Facts        *FactsRepo
	Emotions     *EmotionRepo
	Episodes     *EpisodeRepo
	Interactions *InteractionRepo
}

// NewStore initializes the PostgreSQL pool and repositories.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{
		db:           db,
		Facts:        NewFactsRepo(db),
		Emotions:     NewEmotionRepo(db),
		Episodes:     NewEpisodeRepo(db),
		Interactions: NewInteractionRepo(db),
	}
	return store, nil
}

// Migrate provisions the five collections and the vector extension. It is
// invoked only by the offline migration binary, never at request time.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}
	if err := db.AutoMigrate(
		&userFactsModel{},
		&emotionalStateModel{},
		&episodeModel{},
		&interactionModel{},
		&anonymousInteractionModel{},
		&legacyMessageModel{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate memory tables: %w", err)
	}
	return nil
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() {
	if s.db == nil {
		return
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
