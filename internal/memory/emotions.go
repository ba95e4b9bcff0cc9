package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/easeaico/companion-memory/internal/identity"
	"github.com/easeaico/companion-memory/internal/types"
)

// EmotionRepo defines emotional-state persistence behavior. ApplyDeltas must
// clamp each axis to [0,100] atomically with the addition; the engine relies
// on that guarantee for correctness under concurrent writers.
type EmotionRepo interface {
	Ensure(ctx context.Context, userID, characterKey string) error
	Get(ctx context.Context, userID, characterKey string) (*types.EmotionalState, error)
	ApplyDeltas(ctx context.Context, userID, characterKey string, deltas types.EmotionDeltas) error
	IncrementConversations(ctx context.Context, userID, characterKey string) error
	SetVisit(ctx context.Context, userID, characterKey string, streakDays int, visitAt time.Time) error
}

// Gap thresholds for the visit model, in hours.
const (
	streakKeepHours    = 24
	missingBeyondHours = 48
	maxClinginessDelta = 10
)

// EmotionService owns the bounded relationship axes per user×character pair.
type EmotionService struct {
	emotions EmotionRepo
	now      func() time.Time
}

// NewEmotionService returns an EmotionService.
func NewEmotionService(emotions EmotionRepo) *EmotionService {
	return &EmotionService{emotions: emotions, now: time.Now}
}

// ApplyDelta adds the signed deltas to the pair's axes, creating the state
// row lazily. Anonymous callers are a silent no-op.
func (s *EmotionService) ApplyDelta(ctx context.Context, userID, characterKey string, deltas types.EmotionDeltas) error {
	if !identity.IsAuthenticated(userID) {
		return nil
	}
	if err := s.emotions.Ensure(ctx, userID, characterKey); err != nil {
		return err
	}
	if err := s.emotions.ApplyDeltas(ctx, userID, characterKey, deltas); err != nil {
		return fmt.Errorf("failed to apply emotion delta: %w", err)
	}
	return nil
}

// MarkConversation bumps total_conversations for one logged turn. The cadence
// is caller-driven: one increment per turn the caller decides to count.
func (s *EmotionService) MarkConversation(ctx context.Context, userID, characterKey string) error {
	if !identity.IsAuthenticated(userID) {
		return nil
	}
	if err := s.emotions.Ensure(ctx, userID, characterKey); err != nil {
		return err
	}
	return s.emotions.IncrementConversations(ctx, userID, characterKey)
}

// RecordVisit recomputes the visit streak from the gap since the previous
// visit and models "missing the user" as a clinginess bump after long
// absences. last_visit_at is written only after the old value has fed the
// computation.
func (s *EmotionService) RecordVisit(ctx context.Context, userID, characterKey string) error {
	if !identity.IsAuthenticated(userID) {
		return nil
	}
	if err := s.emotions.Ensure(ctx, userID, characterKey); err != nil {
		return err
	}
	state, err := s.emotions.Get(ctx, userID, characterKey)
	if err != nil {
		return fmt.Errorf("failed to load state for visit: %w", err)
	}
	if state == nil {
		return fmt.Errorf("emotional state missing after ensure")
	}

	now := s.now()
	streak := 1
	if state.LastVisitAt != nil {
		hoursSince := now.Sub(*state.LastVisitAt).Hours()
		if hoursSince <= streakKeepHours {
			streak = state.StreakDays + 1
		}
		if hoursSince > missingBeyondHours {
			delta := int(hoursSince / 24)
			if delta > maxClinginessDelta {
				delta = maxClinginessDelta
			}
			if err := s.emotions.ApplyDeltas(ctx, userID, characterKey, types.EmotionDeltas{Clinginess: &delta}); err != nil {
				return fmt.Errorf("failed to apply absence clinginess: %w", err)
			}
		}
	}

	if err := s.emotions.SetVisit(ctx, userID, characterKey, streak, now); err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// Read returns the state for the pair, or nil when none exists. Anonymous
// identifiers read as nil without touching storage.
func (s *EmotionService) Read(ctx context.Context, userID, characterKey string) (*types.EmotionalState, error) {
	if !identity.IsAuthenticated(userID) {
		return nil, nil
	}
	return s.emotions.Get(ctx, userID, characterKey)
}
