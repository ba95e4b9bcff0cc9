package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/easeaico/companion-memory/internal/types"
)

type mockFactsRepo struct {
	stored  map[string]*types.UserFacts
	getErr  error
	upserts int
}

func factsKey(userID, characterKey string) string {
	return userID + "/" + characterKey
}

func (m *mockFactsRepo) Get(_ context.Context, userID, characterKey string) (*types.UserFacts, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	facts, ok := m.stored[factsKey(userID, characterKey)]
	if !ok {
		return nil, nil
	}
	copied := *facts
	return &copied, nil
}

func (m *mockFactsRepo) Upsert(_ context.Context, facts types.UserFacts) error {
	if m.stored == nil {
		m.stored = make(map[string]*types.UserFacts)
	}
	m.upserts++
	copied := facts
	m.stored[factsKey(facts.UserID, facts.CharacterKey)] = &copied
	return nil
}

type mockEmotionRepo struct {
	states     map[string]*types.EmotionalState
	applied    []types.EmotionDeltas
	ensures    int
	increments int
	getErr     error
}

func (m *mockEmotionRepo) Ensure(_ context.Context, userID, characterKey string) error {
	if m.states == nil {
		m.states = make(map[string]*types.EmotionalState)
	}
	m.ensures++
	key := factsKey(userID, characterKey)
	if _, ok := m.states[key]; !ok {
		m.states[key] = &types.EmotionalState{
			UserID:       userID,
			CharacterKey: characterKey,
			Affection:    50,
			Trust:        50,
			Playfulness:  50,
		}
	}
	return nil
}

func (m *mockEmotionRepo) Get(_ context.Context, userID, characterKey string) (*types.EmotionalState, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	state, ok := m.states[factsKey(userID, characterKey)]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func clampAxis(value int) int {
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return value
	}
}

func (m *mockEmotionRepo) ApplyDeltas(_ context.Context, userID, characterKey string, deltas types.EmotionDeltas) error {
	m.applied = append(m.applied, deltas)
	state, ok := m.states[factsKey(userID, characterKey)]
	if !ok {
		return fmt.Errorf("state row missing")
	}
	if deltas.Affection != nil {
		state.Affection = clampAxis(state.Affection + *deltas.Affection)
	}
	if deltas.Trust != nil {
		state.Trust = clampAxis(state.Trust + *deltas.Trust)
	}
	if deltas.Jealousy != nil {
		state.Jealousy = clampAxis(state.Jealousy + *deltas.Jealousy)
	}
	if deltas.Playfulness != nil {
		state.Playfulness = clampAxis(state.Playfulness + *deltas.Playfulness)
	}
	if deltas.Clinginess != nil {
		state.Clinginess = clampAxis(state.Clinginess + *deltas.Clinginess)
	}
	return nil
}

func (m *mockEmotionRepo) IncrementConversations(_ context.Context, userID, characterKey string) error {
	m.increments++
	if state, ok := m.states[factsKey(userID, characterKey)]; ok {
		state.TotalConversations++
	}
	return nil
}

func (m *mockEmotionRepo) SetVisit(_ context.Context, userID, characterKey string, streakDays int, visitAt time.Time) error {
	state, ok := m.states[factsKey(userID, characterKey)]
	if !ok {
		return fmt.Errorf("state row missing")
	}
	state.StreakDays = streakDays
	state.LastVisitAt = &visitAt
	return nil
}

type mockEpisodeRepo struct {
	inserted   []types.Episode
	recent     []types.Episode
	recentErr  error
	reinforced []int
}

func (m *mockEpisodeRepo) Insert(_ context.Context, episode types.Episode) error {
	m.inserted = append(m.inserted, episode)
	return nil
}

func (m *mockEpisodeRepo) Recent(_ context.Context, _, _ string, limit int) ([]types.Episode, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	if limit < len(m.recent) {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

func (m *mockEpisodeRepo) SearchSimilar(_ context.Context, _, _ string, _ []float32, _ int, _ float64) ([]types.RetrievedEpisode, error) {
	return nil, nil
}

func (m *mockEpisodeRepo) Reinforce(_ context.Context, episodeID int) error {
	m.reinforced = append(m.reinforced, episodeID)
	return nil
}

type mockInteractionRepo struct {
	canonical []types.Interaction
	anonymous []types.Interaction
	legacy    []types.Interaction
	appendErr error
	legacyErr error
}

func (m *mockInteractionRepo) Append(_ context.Context, interaction types.Interaction) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.canonical = append(m.canonical, interaction)
	return nil
}

func (m *mockInteractionRepo) AppendAnonymous(_ context.Context, interaction types.Interaction) error {
	m.anonymous = append(m.anonymous, interaction)
	return nil
}

func (m *mockInteractionRepo) AppendLegacy(_ context.Context, interaction types.Interaction) error {
	if m.legacyErr != nil {
		return m.legacyErr
	}
	m.legacy = append(m.legacy, interaction)
	return nil
}

type mockEmbedder struct {
	vec      []float32
	embedErr error
	calls    int
}

func (m *mockEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	return m.vec, m.embedErr
}

func (m *mockEmbedder) EmbedDocument(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	return m.vec, m.embedErr
}
