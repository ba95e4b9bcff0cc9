package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/easeaico/companion-memory/internal/types"
)

func TestCreateEpisodeRejectsAnonymous(t *testing.T) {
	repo := &mockEpisodeRepo{}
	svc := NewEpisodeService(repo, nil, 5, 0.7)

	err := svc.Create(context.Background(), "anon_xyz123", testCharacter, "we talked", []string{"work"}, 0.5, EpisodeParams{})
	if err != nil {
		t.Fatalf("anonymous create should be a silent no-op, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("anonymous create reached the store: %d inserts", len(repo.inserted))
	}
}

func TestCreateEpisodeDefaultsAndClamps(t *testing.T) {
	repo := &mockEpisodeRepo{}
	svc := NewEpisodeService(repo, nil, 5, 0.7)

	if err := svc.Create(context.Background(), testUserID, testCharacter, "first date story", []string{"relationship"}, 1.7, EpisodeParams{}); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	episode := repo.inserted[0]
	if episode.EmotionalImpact != 5 {
		t.Fatalf("expected default emotional impact 5, got %d", episode.EmotionalImpact)
	}
	if episode.Salience != 1.0 {
		t.Fatalf("expected salience clamped to 1.0, got %v", episode.Salience)
	}
	if episode.HappenedAt.IsZero() {
		t.Fatal("expected happened_at to be stamped")
	}
}

func TestCreateEpisodeStoresWithoutVectorOnEmbedFailure(t *testing.T) {
	repo := &mockEpisodeRepo{}
	embedder := &mockEmbedder{embedErr: fmt.Errorf("api down")}
	svc := NewEpisodeService(repo, embedder, 5, 0.7)

	if err := svc.Create(context.Background(), testUserID, testCharacter, "summary", nil, 0.4, EpisodeParams{}); err != nil {
		t.Fatalf("embed failure must not fail create: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Embedding != nil {
		t.Fatalf("expected un-vectored episode, got %+v", repo.inserted)
	}
}

func TestRetrieveDefaultsLimit(t *testing.T) {
	now := time.Now()
	repo := &mockEpisodeRepo{}
	for i := 0; i < 8; i++ {
		repo.recent = append(repo.recent, types.Episode{
			ID:         i + 1,
			HappenedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	svc := NewEpisodeService(repo, nil, 5, 0.7)

	episodes, err := svc.Retrieve(context.Background(), testUserID, testCharacter, 0)
	if err != nil {
		t.Fatalf("retrieve returned error: %v", err)
	}
	if len(episodes) != DefaultEpisodeLimit {
		t.Fatalf("expected %d episodes, got %d", DefaultEpisodeLimit, len(episodes))
	}
	// Most recent first.
	if episodes[0].ID != 1 {
		t.Fatalf("expected newest episode first, got id %d", episodes[0].ID)
	}
}

func TestRetrieveRejectsAnonymous(t *testing.T) {
	repo := &mockEpisodeRepo{recent: []types.Episode{{ID: 1}}}
	svc := NewEpisodeService(repo, nil, 5, 0.7)

	episodes, err := svc.Retrieve(context.Background(), "anon_xyz123", testCharacter, 5)
	if err != nil || episodes != nil {
		t.Fatalf("anonymous retrieve should return nil, nil; got %v, %v", episodes, err)
	}
}

func TestSearchRequiresEmbedder(t *testing.T) {
	svc := NewEpisodeService(&mockEpisodeRepo{}, nil, 5, 0.7)
	if _, err := svc.Search(context.Background(), testUserID, testCharacter, "our first chat"); err == nil {
		t.Fatal("expected error when searching without an embedder")
	}
}

func TestComputeSalienceBounds(t *testing.T) {
	low := ComputeSalience("", nil, 0, nil)
	if low != 0 {
		t.Fatalf("expected empty signals to score 0, got %v", low)
	}
	state := &types.EmotionalState{Affection: 10, Jealousy: 70}
	long := make([]byte, 0, 220)
	for i := 0; i < 220; i++ {
		long = append(long, 'a')
	}
	high := ComputeSalience(string(long), []string{"work", "family", "emotions", "social"}, 9, state)
	if high <= 0.5 || high > 1 {
		t.Fatalf("expected strong signals to score high within bounds, got %v", high)
	}
}
