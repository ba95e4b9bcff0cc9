package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/easeaico/companion-memory/internal/types"
)

func newTestAssembler(facts *mockFactsRepo, emotions *mockEmotionRepo, episodes *mockEpisodeRepo) *Assembler {
	return NewAssembler(
		NewFactsService(facts),
		NewEmotionService(emotions),
		NewEpisodeService(episodes, nil, 5, 0.7),
	)
}

func TestGetContextAnonymousReturnsEmptyWithoutReads(t *testing.T) {
	facts := &mockFactsRepo{getErr: fmt.Errorf("must not be called")}
	emotions := &mockEmotionRepo{getErr: fmt.Errorf("must not be called")}
	episodes := &mockEpisodeRepo{recentErr: fmt.Errorf("must not be called")}
	assembler := newTestAssembler(facts, emotions, episodes)

	if got := assembler.GetContext(context.Background(), "anon_xyz123", "lexi", "Lexi", 5); got != "" {
		t.Fatalf("expected empty context for anonymous principal, got %q", got)
	}
}

func TestGetContextEmptyBundleReturnsEmpty(t *testing.T) {
	assembler := newTestAssembler(&mockFactsRepo{}, &mockEmotionRepo{}, &mockEpisodeRepo{})
	if got := assembler.GetContext(context.Background(), testUserID, "lexi", "Lexi", 5); got != "" {
		t.Fatalf("expected empty context for empty bundle, got %q", got)
	}
}

func TestGetContextRendersAvailableFields(t *testing.T) {
	facts := &mockFactsRepo{stored: map[string]*types.UserFacts{
		factsKey(testUserID, "nyx"): {
			UserID:       testUserID,
			CharacterKey: "nyx",
			DisplayName:  "Alex",
			Occupation:   "night-shift nurse",
		},
	}}
	emotions := &mockEmotionRepo{}
	_ = emotions.Ensure(context.Background(), testUserID, "nyx")
	emotions.states[factsKey(testUserID, "nyx")].Trust = 56
	episodes := &mockEpisodeRepo{recent: []types.Episode{{
		ID:         1,
		Summary:    "they opened up about work stress",
		HappenedAt: time.Now(),
	}}}
	assembler := newTestAssembler(facts, emotions, episodes)

	got := assembler.GetContext(context.Background(), testUserID, "nyx", "Nyx", 5)
	if got == "" {
		t.Fatal("expected non-empty context")
	}
	if !strings.Contains(got, "night-shift nurse") {
		t.Fatalf("expected occupation in context, got %q", got)
	}
	if !strings.Contains(got, "trust=56") {
		t.Fatalf("expected trust value in context, got %q", got)
	}
	if !strings.Contains(got, "work stress") {
		t.Fatalf("expected episode summary in context, got %q", got)
	}
}

func TestGetContextDegradesOnPartialFailure(t *testing.T) {
	facts := &mockFactsRepo{getErr: fmt.Errorf("user_facts not provisioned")}
	emotions := &mockEmotionRepo{}
	_ = emotions.Ensure(context.Background(), testUserID, "lexi")
	episodes := &mockEpisodeRepo{recentErr: fmt.Errorf("episodic_memories not provisioned")}
	assembler := newTestAssembler(facts, emotions, episodes)

	got := assembler.GetContext(context.Background(), testUserID, "lexi", "Lexi", 5)
	if got == "" {
		t.Fatal("expected partial context when only emotions are readable")
	}
	if !strings.Contains(got, "affection=50") {
		t.Fatalf("expected emotion axes in partial context, got %q", got)
	}
}

func TestBundleFetchesAllThreeFields(t *testing.T) {
	facts := &mockFactsRepo{stored: map[string]*types.UserFacts{
		factsKey(testUserID, testCharacter): {UserID: testUserID, CharacterKey: testCharacter, DisplayName: "Alex"},
	}}
	emotions := &mockEmotionRepo{}
	_ = emotions.Ensure(context.Background(), testUserID, testCharacter)
	episodes := &mockEpisodeRepo{recent: []types.Episode{{ID: 1, Summary: "beach day"}}}
	assembler := newTestAssembler(facts, emotions, episodes)

	bundle := assembler.Bundle(context.Background(), testUserID, testCharacter, 5)
	if bundle.Facts == nil || bundle.Emotions == nil || len(bundle.Episodes) != 1 {
		t.Fatalf("incomplete bundle: %+v", bundle)
	}
}
