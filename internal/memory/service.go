package memory

import (
	"context"
	"log/slog"

	"github.com/easeaico/companion-memory/internal/config"
	"github.com/easeaico/companion-memory/internal/repository"
	"github.com/easeaico/companion-memory/internal/types"
)

// Service is the facade the chat request handler talks to. It bundles the
// engine's entry points behind one constructor so callers never touch the
// repositories directly.
type Service struct {
	Logger    *Logger
	Facts     *FactsService
	Emotions  *EmotionService
	Episodes  *EpisodeService
	Assembler *Assembler
}

// NewService wires the memory engine onto the store. The embedder is
// optional: without an API key episodes stay un-vectored and similarity
// search is disabled, which only degrades retrieval, never logging.
func NewService(store *repository.Store, cfg config.Config) *Service {
	var embedder Embedder
	if cfg.OpenAIAPIKey != "" {
		openaiEmbedder, err := NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		if err != nil {
			slog.Warn("failed to create embedder, similarity search disabled", "error", err.Error())
		} else {
			embedder = openaiEmbedder
		}
	}

	facts := NewFactsService(store.Facts)
	emotions := NewEmotionService(store.Emotions)
	episodes := NewEpisodeService(store.Episodes, embedder, cfg.TopK, cfg.SimilarityThreshold)

	return &Service{
		Logger:    NewLogger(store.Interactions),
		Facts:     facts,
		Emotions:  emotions,
		Episodes:  episodes,
		Assembler: NewAssembler(facts, emotions, episodes),
	}
}

// LogInteraction appends one chat turn, log-and-continue.
func (s *Service) LogInteraction(ctx context.Context, identifier, role, content, characterKey string, params LogParams) {
	s.Logger.Log(ctx, identifier, role, content, characterKey, params)
}

// GetContext returns the rendered memory context for the pair.
func (s *Service) GetContext(ctx context.Context, userID, characterKey, characterDisplayName string, episodeLimit int) string {
	return s.Assembler.GetContext(ctx, userID, characterKey, characterDisplayName, episodeLimit)
}

// MergeFacts folds a fact patch into the pair's long-term profile.
func (s *Service) MergeFacts(ctx context.Context, userID, characterKey string, patch types.FactsPatch) error {
	return s.Facts.Merge(ctx, userID, characterKey, patch)
}

// ApplyDelta adjusts the pair's emotional axes.
func (s *Service) ApplyDelta(ctx context.Context, userID, characterKey string, deltas types.EmotionDeltas) error {
	return s.Emotions.ApplyDelta(ctx, userID, characterKey, deltas)
}

// RecordVisit updates streak and absence state for a new session.
func (s *Service) RecordVisit(ctx context.Context, userID, characterKey string) error {
	return s.Emotions.RecordVisit(ctx, userID, characterKey)
}

// CreateEpisode stores one salience-scored memory.
func (s *Service) CreateEpisode(ctx context.Context, userID, characterKey, summary string, topics []string, salience float64, params EpisodeParams) error {
	return s.Episodes.Create(ctx, userID, characterKey, summary, topics, salience, params)
}
