package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/easeaico/companion-memory/internal/identity"
	"github.com/easeaico/companion-memory/internal/interpreter"
	"github.com/easeaico/companion-memory/internal/types"
)

// Assembler fetches the memory bundle for a pair and renders it into the
// context block injected into the prompt. It is the single chokepoint
// keeping anonymous sessions away from persistent relationship state.
type Assembler struct {
	facts    *FactsService
	emotions *EmotionService
	episodes *EpisodeService
}

// NewAssembler returns an Assembler.
func NewAssembler(facts *FactsService, emotions *EmotionService, episodes *EpisodeService) *Assembler {
	return &Assembler{facts: facts, emotions: emotions, episodes: episodes}
}

// Bundle fetches facts, emotional state, and recent episodes concurrently.
// The three reads are independent, so added latency stays near one round
// trip. Each sub-fetch failure degrades that field to absent with a warning;
// the bundle is never an error.
func (a *Assembler) Bundle(ctx context.Context, userID, characterKey string, episodeLimit int) types.MemoryBundle {
	var bundle types.MemoryBundle
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		facts, err := a.facts.Read(ctx, userID, characterKey)
		if err != nil {
			slog.Warn("failed to fetch user facts", "character", characterKey, "error", err.Error())
			return
		}
		bundle.Facts = facts
	}()
	go func() {
		defer wg.Done()
		emotions, err := a.emotions.Read(ctx, userID, characterKey)
		if err != nil {
			slog.Warn("failed to fetch emotional state", "character", characterKey, "error", err.Error())
			return
		}
		bundle.Emotions = emotions
	}()
	go func() {
		defer wg.Done()
		episodes, err := a.episodes.Retrieve(ctx, userID, characterKey, episodeLimit)
		if err != nil {
			slog.Warn("failed to fetch episodes", "character", characterKey, "error", err.Error())
			return
		}
		bundle.Episodes = episodes
	}()

	wg.Wait()
	return bundle
}

// GetContext returns the rendered memory context for the pair, or the
// empty string for anonymous principals and empty bundles. Anonymous
// identifiers short-circuit before any store read.
func (a *Assembler) GetContext(ctx context.Context, userID, characterKey, characterDisplayName string, episodeLimit int) string {
	if identity.Classify(userID) == identity.Anonymous {
		return ""
	}
	bundle := a.Bundle(ctx, userID, characterKey, episodeLimit)
	return interpreter.Render(bundle, characterKey, characterDisplayName)
}
