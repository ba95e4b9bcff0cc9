package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/companion-memory/internal/types"
)

// interactionModel maps to the authenticated interaction_log table.
type interactionModel struct {
	ID            int
	UserID        string
	Role          string
	Content       string
	CharacterKey  string
	Topics        json.RawMessage `gorm:"type:jsonb"`
	EmotionalTone string
	NSFW          bool            `gorm:"column:nsfw"`
	Metadata      json.RawMessage `gorm:"type:jsonb"`
	SessionID     string
	CreatedAt     time.Time
}

func (interactionModel) TableName() string {
	return "interaction_log"
}

// anonymousInteractionModel maps to the anonymous_interactions table. The
// two partitions are separate tables on purpose: anonymous traffic must
// never join into authenticated relationship state, and authenticated turns
// must never leak into anonymous analytics.
type anonymousInteractionModel struct {
	ID            int
	AnonymousID   string
	Role          string
	Content       string
	CharacterKey  string
	Topics        json.RawMessage `gorm:"type:jsonb"`
	EmotionalTone string
	NSFW          bool            `gorm:"column:nsfw"`
	Metadata      json.RawMessage `gorm:"type:jsonb"`
	SessionID     string
	CreatedAt     time.Time
}

func (anonymousInteractionModel) TableName() string {
	return "anonymous_interactions"
}

// legacyMessageModel is the pre-partitioning message shape still consumed by
// older readers. Authenticated logging write-throughs to it best-effort.
type legacyMessageModel struct {
	ID           int
	UserID       string
	Role         string
	Content      string
	CharacterKey string
	CreatedAt    time.Time
}

func (legacyMessageModel) TableName() string {
	return "messages"
}

// InteractionRepo appends to the two interaction log partitions.
type InteractionRepo struct {
	db *gorm.DB
}

// NewInteractionRepo returns an InteractionRepo.
func NewInteractionRepo(db *gorm.DB) *InteractionRepo {
	return &InteractionRepo{db: db}
}

// Append writes one turn to the authenticated partition.
func (r *InteractionRepo) Append(ctx context.Context, interaction types.Interaction) error {
	topics, metadata, err := encodeInteractionFields(interaction)
	if err != nil {
		return err
	}
	record := interactionModel{
		UserID:        interaction.Identifier,
		Role:          interaction.Role,
		Content:       interaction.Content,
		CharacterKey:  interaction.CharacterKey,
		Topics:        topics,
		EmotionalTone: interaction.EmotionalTone,
		NSFW:          interaction.NSFW,
		Metadata:      metadata,
		SessionID:     interaction.SessionID,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// AppendAnonymous writes one turn to the anonymous partition.
func (r *InteractionRepo) AppendAnonymous(ctx context.Context, interaction types.Interaction) error {
	topics, metadata, err := encodeInteractionFields(interaction)
	if err != nil {
		return err
	}
	record := anonymousInteractionModel{
		AnonymousID:   interaction.Identifier,
		Role:          interaction.Role,
		Content:       interaction.Content,
		CharacterKey:  interaction.CharacterKey,
		Topics:        topics,
		EmotionalTone: interaction.EmotionalTone,
		NSFW:          interaction.NSFW,
		Metadata:      metadata,
		SessionID:     interaction.SessionID,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert anonymous interaction: %w", err)
	}
	return nil
}

// AppendLegacy writes the legacy-compatible row. Callers treat failures as
// non-fatal; the canonical write has already happened.
func (r *InteractionRepo) AppendLegacy(ctx context.Context, interaction types.Interaction) error {
	record := legacyMessageModel{
		UserID:       interaction.Identifier,
		Role:         interaction.Role,
		Content:      interaction.Content,
		CharacterKey: interaction.CharacterKey,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert legacy message: %w", err)
	}
	return nil
}

func encodeInteractionFields(interaction types.Interaction) (topics, metadata json.RawMessage, err error) {
	topics, err = marshalJSON(interaction.Topics)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode interaction topics: %w", err)
	}
	metadata, err = marshalJSON(interaction.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode interaction metadata: %w", err)
	}
	return topics, metadata, nil
}
