package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/easeaico/companion-memory/internal/types"
)

// episodeModel maps to the episodic_memories table.
type episodeModel struct {
	ID           int
	UserID       string
	CharacterKey string
	HappenedAt   time.Time
	Title        string
	Summary      string
	// Topics/TriggerKeywords are stored as JSONB for retrieval filters.
	Topics          json.RawMessage `gorm:"type:jsonb"`
	TriggerKeywords json.RawMessage `gorm:"type:jsonb"`
	// Salience is a 0-1 importance score, used in ranking.
	Salience         float64 `gorm:"column:salience"`
	EmotionalImpact  int
	ReinforceCount   int
	LastReferencedAt *time.Time
	// Embedding stores a vector representation for similarity search.
	Embedding *pgvector.Vector `gorm:"type:vector"`
	CreatedAt time.Time
}

func (episodeModel) TableName() string {
	return "episodic_memories"
}

// EpisodeRepo accesses episodic memory data.
type EpisodeRepo struct {
	db *gorm.DB
}

// NewEpisodeRepo returns an EpisodeRepo.
func NewEpisodeRepo(db *gorm.DB) *EpisodeRepo {
	return &EpisodeRepo{db: db}
}

// Insert stores one episode.
func (r *EpisodeRepo) Insert(ctx context.Context, episode types.Episode) error {
	var vector *pgvector.Vector
	if len(episode.Embedding) > 0 {
		v := pgvector.NewVector(episode.Embedding)
		vector = &v
	}
	topics, err := marshalJSON(episode.Topics)
	if err != nil {
		return fmt.Errorf("failed to encode episode topics: %w", err)
	}
	keywords, err := marshalJSON(episode.TriggerKeywords)
	if err != nil {
		return fmt.Errorf("failed to encode episode trigger keywords: %w", err)
	}
	record := episodeModel{
		UserID:          episode.UserID,
		CharacterKey:    episode.CharacterKey,
		HappenedAt:      episode.HappenedAt,
		Title:           episode.Title,
		Summary:         episode.Summary,
		Topics:          topics,
		TriggerKeywords: keywords,
		Salience:        episode.Salience,
		EmotionalImpact: episode.EmotionalImpact,
	}
	record.Embedding = vector
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert episode: %w", err)
	}
	return nil
}

// Recent returns up to limit episodes for the pair, most recent first.
// Recency is the default sort: what just happened dominates conversational
// relevance; salience-weighted selection is available via SearchSimilar.
func (r *EpisodeRepo) Recent(ctx context.Context, userID, characterKey string, limit int) ([]types.Episode, error) {
	var records []episodeModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND character_key = ?", userID, characterKey).
		Order("happened_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	results := make([]types.Episode, 0, len(records))
	for _, record := range records {
		results = append(results, episodeFromModel(record))
	}
	return results, nil
}

// SearchSimilar returns episodes ranked by a blend of cosine similarity and
// salience. Episodes stored without an embedding never match.
func (r *EpisodeRepo) SearchSimilar(ctx context.Context, userID, characterKey string, embedding []float32, topK int, threshold float64) ([]types.RetrievedEpisode, error) {
	if len(embedding) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, user_id, character_key, happened_at, title, summary,
		       salience, emotional_impact, reinforce_count, created_at,
		       1 - (embedding <=> $1) AS similarity
		FROM episodic_memories
		WHERE user_id = $2 AND character_key = $3
		  AND embedding IS NOT NULL AND 1 - (embedding <=> $1) > $4
		ORDER BY (0.85 * (1 - (embedding <=> $1)) + 0.15 * COALESCE(salience, 0)) DESC
		LIMIT $5`

	var results []types.RetrievedEpisode
	if err := r.db.WithContext(ctx).
		Raw(query, pgvector.NewVector(embedding), userID, characterKey, threshold, topK).
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to search similar episodes: %w", err)
	}
	return results, nil
}

// Reinforce bumps the episode's reinforce count and stamps the reference
// time in one update.
func (r *EpisodeRepo) Reinforce(ctx context.Context, episodeID int) error {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE episodic_memories
		SET reinforce_count = reinforce_count + 1, last_referenced_at = NOW()
		WHERE id = ?`,
		episodeID,
	).Error
	if err != nil {
		return fmt.Errorf("failed to reinforce episode: %w", err)
	}
	return nil
}

func episodeFromModel(model episodeModel) types.Episode {
	var topics []string
	var keywords []string
	if err := unmarshalJSON(model.Topics, &topics); err != nil {
		slog.Warn("failed to decode episode topics, treating as empty", "error", err.Error())
	}
	if err := unmarshalJSON(model.TriggerKeywords, &keywords); err != nil {
		slog.Warn("failed to decode episode trigger keywords, treating as empty", "error", err.Error())
	}
	return types.Episode{
		ID:               model.ID,
		UserID:           model.UserID,
		CharacterKey:     model.CharacterKey,
		HappenedAt:       model.HappenedAt,
		Title:            model.Title,
		Summary:          model.Summary,
		Topics:           topics,
		TriggerKeywords:  keywords,
		Salience:         model.Salience,
		EmotionalImpact:  model.EmotionalImpact,
		ReinforceCount:   model.ReinforceCount,
		LastReferencedAt: model.LastReferencedAt,
		CreatedAt:        model.CreatedAt,
	}
}
