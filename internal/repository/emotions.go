package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/companion-memory/internal/types"
)

// emotionalStateModel maps to the emotional_states table.
type emotionalStateModel struct {
	UserID             string `gorm:"primaryKey"`
	CharacterKey       string `gorm:"primaryKey"`
	Affection          int
	Trust              int
	Jealousy           int
	Playfulness        int
	Clinginess         int
	StreakDays         int
	TotalConversations int
	LastVisitAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (emotionalStateModel) TableName() string {
	return "emotional_states"
}

// Axis baselines for a freshly created relationship.
const (
	defaultAffection   = 50
	defaultTrust       = 50
	defaultPlayfulness = 50
)

// EmotionRepo accesses the bounded per-relationship emotion rows.
type EmotionRepo struct {
	db *gorm.DB
}

// NewEmotionRepo returns an EmotionRepo.
func NewEmotionRepo(db *gorm.DB) *EmotionRepo {
	return &EmotionRepo{db: db}
}

// Ensure lazily creates the state row for the pair. Safe to call on every
// update path; an existing row is left untouched.
func (r *EmotionRepo) Ensure(ctx context.Context, userID, characterKey string) error {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO emotional_states
			(user_id, character_key, affection, trust, jealousy, playfulness, clinginess,
			 streak_days, total_conversations, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, 0, 0, 0, NOW(), NOW())
		ON CONFLICT (user_id, character_key) DO NOTHING`,
		userID, characterKey, defaultAffection, defaultTrust, defaultPlayfulness,
	).Error
	if err != nil {
		return fmt.Errorf("failed to ensure emotional state: %w", err)
	}
	return nil
}

// Get returns the state row for the pair, or nil when none exists.
func (r *EmotionRepo) Get(ctx context.Context, userID, characterKey string) (*types.EmotionalState, error) {
	var record emotionalStateModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND character_key = ?", userID, characterKey).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query emotional state: %w", err)
	}
	state := stateFromModel(record)
	return &state, nil
}

// ApplyDeltas adds the signed deltas to their axes and clamps each result to
// [0,100] inside a single UPDATE statement. The clamp and the addition
// execute atomically in the database, so concurrent deltas for the same key
// serialize on the row instead of clobbering each other. Axes absent from
// deltas are untouched.
func (r *EmotionRepo) ApplyDeltas(ctx context.Context, userID, characterKey string, deltas types.EmotionDeltas) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 8)
	appendAxis := func(column string, delta *int) {
		if delta == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = LEAST(100, GREATEST(0, %s + ?))", column, column))
		args = append(args, *delta)
	}
	appendAxis("affection", deltas.Affection)
	appendAxis("trust", deltas.Trust)
	appendAxis("jealousy", deltas.Jealousy)
	appendAxis("playfulness", deltas.Playfulness)
	appendAxis("clinginess", deltas.Clinginess)
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, userID, characterKey)

	query := fmt.Sprintf(
		"UPDATE emotional_states SET %s WHERE user_id = ? AND character_key = ?",
		strings.Join(sets, ", "),
	)
	if err := r.db.WithContext(ctx).Exec(query, args...).Error; err != nil {
		return fmt.Errorf("failed to apply emotion deltas: %w", err)
	}
	return nil
}

// IncrementConversations bumps total_conversations by one.
func (r *EmotionRepo) IncrementConversations(ctx context.Context, userID, characterKey string) error {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE emotional_states
		SET total_conversations = total_conversations + 1, updated_at = NOW()
		WHERE user_id = ? AND character_key = ?`,
		userID, characterKey,
	).Error
	if err != nil {
		return fmt.Errorf("failed to increment conversations: %w", err)
	}
	return nil
}

// SetVisit writes the recomputed streak and the new visit timestamp.
func (r *EmotionRepo) SetVisit(ctx context.Context, userID, characterKey string, streakDays int, visitAt time.Time) error {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE emotional_states
		SET streak_days = ?, last_visit_at = ?, updated_at = NOW()
		WHERE user_id = ? AND character_key = ?`,
		streakDays, visitAt, userID, characterKey,
	).Error
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

func stateFromModel(model emotionalStateModel) types.EmotionalState {
	return types.EmotionalState{
		UserID:             model.UserID,
		CharacterKey:       model.CharacterKey,
		Affection:          model.Affection,
		Trust:              model.Trust,
		Jealousy:           model.Jealousy,
		Playfulness:        model.Playfulness,
		Clinginess:         model.Clinginess,
		StreakDays:         model.StreakDays,
		TotalConversations: model.TotalConversations,
		LastVisitAt:        model.LastVisitAt,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}
