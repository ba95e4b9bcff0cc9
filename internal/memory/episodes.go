package memory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/easeaico/companion-memory/internal/identity"
	"github.com/easeaico/companion-memory/internal/types"
)

// EpisodeRepo defines episodic memory persistence behavior.
type EpisodeRepo interface {
	Insert(ctx context.Context, episode types.Episode) error
	Recent(ctx context.Context, userID, characterKey string, limit int) ([]types.Episode, error)
	SearchSimilar(ctx context.Context, userID, characterKey string, embedding []float32, topK int, threshold float64) ([]types.RetrievedEpisode, error)
	Reinforce(ctx context.Context, episodeID int) error
}

// DefaultEpisodeLimit bounds the default retrieval path.
const DefaultEpisodeLimit = 5

const defaultEmotionalImpact = 5

// EpisodeParams carries the optional fields of CreateEpisode.
type EpisodeParams struct {
	Title           string
	EmotionalImpact int
	TriggerKeywords []string
}

// EpisodeService owns the salience-scored episodic memories.
type EpisodeService struct {
	episodes  EpisodeRepo
	embedder  Embedder
	topK      int
	threshold float64
	now       func() time.Time
}

// NewEpisodeService returns an EpisodeService. embedder may be nil, in
// which case episodes are stored without vectors and similarity search is
// unavailable.
func NewEpisodeService(episodes EpisodeRepo, embedder Embedder, topK int, threshold float64) *EpisodeService {
	return &EpisodeService{
		episodes:  episodes,
		embedder:  embedder,
		topK:      topK,
		threshold: threshold,
		now:       time.Now,
	}
}

// Create stores one episode. Anonymous callers are a silent no-op. salience
// is caller-supplied and stored as-is after clamping to [0,1]: the decision
// of what is significant belongs to the caller, not this store. Embedding is
// best-effort; an embed failure stores the episode without a vector.
func (s *EpisodeService) Create(ctx context.Context, userID, characterKey, summary string, topics []string, salience float64, params EpisodeParams) error {
	if !identity.IsAuthenticated(userID) {
		return nil
	}
	impact := params.EmotionalImpact
	if impact == 0 {
		impact = defaultEmotionalImpact
	}
	episode := types.Episode{
		UserID:          userID,
		CharacterKey:    characterKey,
		HappenedAt:      s.now(),
		Title:           params.Title,
		Summary:         summary,
		Topics:          topics,
		Salience:        clampScore(salience),
		EmotionalImpact: impact,
		TriggerKeywords: params.TriggerKeywords,
	}
	if s.embedder != nil {
		vec, err := s.embedder.EmbedDocument(ctx, summary)
		if err != nil {
			slog.Warn("failed to embed episode, storing without vector", "error", err.Error())
		} else {
			episode.Embedding = vec
		}
	}
	if err := s.episodes.Insert(ctx, episode); err != nil {
		return fmt.Errorf("failed to create episode: %w", err)
	}
	return nil
}

// Retrieve returns up to limit episodes for the pair, most recent first.
// Anonymous identifiers retrieve nothing without touching storage.
func (s *EpisodeService) Retrieve(ctx context.Context, userID, characterKey string, limit int) ([]types.Episode, error) {
	if !identity.IsAuthenticated(userID) {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultEpisodeLimit
	}
	return s.episodes.Recent(ctx, userID, characterKey, limit)
}

// Search returns episodes ranked by similarity to the query blended with
// salience. Requires a configured embedder.
func (s *EpisodeService) Search(ctx context.Context, userID, characterKey, query string) ([]types.RetrievedEpisode, error) {
	if !identity.IsAuthenticated(userID) {
		return nil, nil
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("episode search requires an embedder")
	}
	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed episode query: %w", err)
	}
	return s.episodes.SearchSimilar(ctx, userID, characterKey, vec, s.topK, s.threshold)
}

// Reinforce marks the episode as referenced again.
func (s *EpisodeService) Reinforce(ctx context.Context, episodeID int) error {
	return s.episodes.Reinforce(ctx, episodeID)
}
