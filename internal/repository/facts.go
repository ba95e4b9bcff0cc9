package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/companion-memory/internal/types"
)

// userFactsModel maps to the user_facts table.
type userFactsModel struct {
	UserID       string `gorm:"primaryKey"`
	CharacterKey string `gorm:"primaryKey"`
	DisplayName  string
	Birthday     string
	Occupation   string
	// Favorites/Tags are stored as JSONB so categories stay schemaless.
	Favorites      json.RawMessage `gorm:"type:jsonb"`
	Tags           json.RawMessage `gorm:"type:jsonb"`
	Notes          string
	ReinforceCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userFactsModel) TableName() string {
	return "user_facts"
}

// FactsRepo accesses the long-term user profile rows.
type FactsRepo struct {
	db *gorm.DB
}

// NewFactsRepo returns a FactsRepo.
func NewFactsRepo(db *gorm.DB) *FactsRepo {
	return &FactsRepo{db: db}
}

// Get returns the facts row for the pair, or nil when none exists.
func (r *FactsRepo) Get(ctx context.Context, userID, characterKey string) (*types.UserFacts, error) {
	var record userFactsModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND character_key = ?", userID, characterKey).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user facts: %w", err)
	}
	facts := factsFromModel(record)
	return &facts, nil
}

// Upsert writes the merged facts row, creating it on first write.
// created_at is preserved for existing rows; updated_at always refreshes.
func (r *FactsRepo) Upsert(ctx context.Context, facts types.UserFacts) error {
	record, err := factsToModel(facts)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing userFactsModel
		findErr := tx.
			Where("user_id = ? AND character_key = ?", facts.UserID, facts.CharacterKey).
			First(&existing).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			record.CreatedAt = time.Now()
			record.UpdatedAt = record.CreatedAt
			return tx.Create(&record).Error
		}
		if findErr != nil {
			return findErr
		}
		return tx.Model(&userFactsModel{}).
			Where("user_id = ? AND character_key = ?", facts.UserID, facts.CharacterKey).
			Updates(map[string]any{
				"display_name":    record.DisplayName,
				"birthday":        record.Birthday,
				"occupation":      record.Occupation,
				"favorites":       record.Favorites,
				"tags":            record.Tags,
				"notes":           record.Notes,
				"reinforce_count": existing.ReinforceCount + 1,
				"updated_at":      time.Now(),
			}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert user facts: %w", err)
	}
	return nil
}

func factsToModel(facts types.UserFacts) (userFactsModel, error) {
	favorites, err := marshalJSON(facts.Favorites)
	if err != nil {
		return userFactsModel{}, fmt.Errorf("failed to encode favorites: %w", err)
	}
	tags, err := marshalJSON(facts.Tags)
	if err != nil {
		return userFactsModel{}, fmt.Errorf("failed to encode tags: %w", err)
	}
	return userFactsModel{
		UserID:         facts.UserID,
		CharacterKey:   facts.CharacterKey,
		DisplayName:    facts.DisplayName,
		Birthday:       facts.Birthday,
		Occupation:     facts.Occupation,
		Favorites:      favorites,
		Tags:           tags,
		Notes:          facts.Notes,
		ReinforceCount: facts.ReinforceCount,
		CreatedAt:      facts.CreatedAt,
		UpdatedAt:      facts.UpdatedAt,
	}, nil
}

func factsFromModel(model userFactsModel) types.UserFacts {
	var favorites map[string][]string
	var tags []string
	// An unparseable JSONB field degrades to empty rather than failing the read.
	if err := unmarshalJSON(model.Favorites, &favorites); err != nil {
		slog.Warn("failed to decode favorites, treating as empty", "error", err.Error())
	}
	if err := unmarshalJSON(model.Tags, &tags); err != nil {
		slog.Warn("failed to decode tags, treating as empty", "error", err.Error())
	}
	return types.UserFacts{
		UserID:         model.UserID,
		CharacterKey:   model.CharacterKey,
		DisplayName:    model.DisplayName,
		Birthday:       model.Birthday,
		Occupation:     model.Occupation,
		Favorites:      favorites,
		Tags:           tags,
		Notes:          model.Notes,
		ReinforceCount: model.ReinforceCount,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
