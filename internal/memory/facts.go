package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/easeaico/companion-memory/internal/identity"
	"github.com/easeaico/companion-memory/internal/types"
)

// FactsRepo defines fact persistence behavior.
type FactsRepo interface {
	Get(ctx context.Context, userID, characterKey string) (*types.UserFacts, error)
	Upsert(ctx context.Context, facts types.UserFacts) error
}

// unknownSentinels are patch values that mean "nothing learned"; they never
// overwrite a stored scalar.
var unknownSentinels = map[string]bool{
	"unknown":       true,
	"n/a":           true,
	"not specified": true,
}

// FactsService owns the long-term user profile per user×character pair.
type FactsService struct {
	facts FactsRepo
}

// NewFactsService returns a FactsService.
func NewFactsService(facts FactsRepo) *FactsService {
	return &FactsService{facts: facts}
}

// Merge folds patch into the stored facts for the pair. Anonymous callers
// are a silent no-op: anonymous identifiers are not valid keys for this
// store. Scalars overwrite only when the patch value is meaningful;
// favorites and tags union and de-duplicate; notes append.
func (s *FactsService) Merge(ctx context.Context, userID, characterKey string, patch types.FactsPatch) error {
	if !identity.IsAuthenticated(userID) {
		return nil
	}
	existing, err := s.facts.Get(ctx, userID, characterKey)
	if err != nil {
		return fmt.Errorf("failed to load facts for merge: %w", err)
	}
	merged := MergeFacts(existing, userID, characterKey, patch)
	if err := s.facts.Upsert(ctx, merged); err != nil {
		return fmt.Errorf("failed to store merged facts: %w", err)
	}
	return nil
}

// Read returns the facts for the pair, or nil when none exist. Anonymous
// identifiers read as nil without touching storage.
func (s *FactsService) Read(ctx context.Context, userID, characterKey string) (*types.UserFacts, error) {
	if !identity.IsAuthenticated(userID) {
		return nil, nil
	}
	return s.facts.Get(ctx, userID, characterKey)
}

// MergeFacts applies the merge semantics as a pure function. existing may be
// nil for a first write.
func MergeFacts(existing *types.UserFacts, userID, characterKey string, patch types.FactsPatch) types.UserFacts {
	merged := types.UserFacts{UserID: userID, CharacterKey: characterKey}
	if existing != nil {
		merged = *existing
	}

	if meaningful(patch.DisplayName) {
		merged.DisplayName = strings.TrimSpace(patch.DisplayName)
	}
	if meaningful(patch.Birthday) {
		merged.Birthday = strings.TrimSpace(patch.Birthday)
	}
	if meaningful(patch.Occupation) {
		merged.Occupation = strings.TrimSpace(patch.Occupation)
	}

	if len(patch.Favorites) > 0 {
		if merged.Favorites == nil {
			merged.Favorites = make(map[string][]string, len(patch.Favorites))
		}
		for category, values := range patch.Favorites {
			merged.Favorites[category] = unionStrings(merged.Favorites[category], values)
		}
	}
	if len(patch.Tags) > 0 {
		merged.Tags = unionStrings(merged.Tags, patch.Tags)
	}

	if note := strings.TrimSpace(patch.Notes); meaningful(note) {
		if merged.Notes == "" {
			merged.Notes = note
		} else if !strings.Contains(merged.Notes, note) {
			merged.Notes = merged.Notes + " | " + note
		}
	}
	return merged
}

func meaningful(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	return !unknownSentinels[strings.ToLower(trimmed)]
}

// unionStrings appends the new values not already present, preserving order.
func unionStrings(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	result := make([]string, 0, len(existing)+len(incoming))
	for _, v := range existing {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	for _, v := range incoming {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}
