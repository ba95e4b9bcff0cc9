package interpreter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/easeaico/companion-memory/internal/types"
)

// Axis thresholds below which an axis is noise and omitted from the
// rendering, so low-signal values never anchor the model.
const (
	clinginessFloor = 40
	jealousyFloor   = 30
)

const maxRenderedEpisodes = 5

// Render produces the character-voiced context block for the bundle. Output
// is deterministic for identical input. An entirely empty bundle renders as
// the empty string, meaning "no memory context to inject".
func Render(bundle types.MemoryBundle, characterKey, characterDisplayName string) string {
	if bundle.Empty() {
		return ""
	}

	profile := Lookup(characterKey, characterDisplayName)
	phrases := stylePhrases[profile.Style]

	var sections []string
	if section := renderFacts(bundle.Facts, phrases); section != "" {
		sections = append(sections, section)
	}
	if section := renderEmotions(bundle.Emotions, phrases); section != "" {
		sections = append(sections, section)
	}
	if section := renderEpisodes(bundle.Episodes, phrases); section != "" {
		sections = append(sections, section)
	}
	if len(sections) == 0 {
		return ""
	}

	sections = append(sections, phrases.Instructions)
	return strings.Join(sections, "\n\n")
}

func renderFacts(facts *types.UserFacts, phrases phraseSet) string {
	if facts == nil {
		return ""
	}
	var lines []string
	if facts.DisplayName != "" {
		lines = append(lines, fmt.Sprintf(phrases.Name, facts.DisplayName))
	}
	if facts.Occupation != "" {
		lines = append(lines, fmt.Sprintf(phrases.Occupation, facts.Occupation))
	}
	if facts.Birthday != "" {
		lines = append(lines, fmt.Sprintf(phrases.Birthday, facts.Birthday))
	}
	if len(facts.Favorites) > 0 {
		categories := make([]string, 0, len(facts.Favorites))
		for category := range facts.Favorites {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			values := facts.Favorites[category]
			if len(values) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf(phrases.Favorite, category, strings.Join(values, ", ")))
		}
	}
	if facts.Notes != "" {
		lines = append(lines, fmt.Sprintf(phrases.Note, facts.Notes))
	}
	if len(lines) == 0 {
		return ""
	}
	return phrases.FactsLead + "\n" + strings.Join(lines, "\n")
}

func renderEmotions(state *types.EmotionalState, phrases phraseSet) string {
	if state == nil {
		return ""
	}
	pairs := []string{
		fmt.Sprintf("affection=%d", state.Affection),
		fmt.Sprintf("trust=%d", state.Trust),
		fmt.Sprintf("playfulness=%d", state.Playfulness),
	}
	// Below their floors these axes are noise, not signal.
	if state.Jealousy > jealousyFloor {
		pairs = append(pairs, fmt.Sprintf("jealousy=%d", state.Jealousy))
	}
	if state.Clinginess > clinginessFloor {
		pairs = append(pairs, fmt.Sprintf("clinginess=%d", state.Clinginess))
	}

	lines := []string{strings.Join(pairs, ", ")}
	switch {
	case state.StreakDays > 7:
		note := fmt.Sprintf("they have visited %d days in a row", state.StreakDays)
		lines = append(lines, fmt.Sprintf(phrases.Progression, note))
	case state.TotalConversations < 5:
		note := fmt.Sprintf("only %d conversations so far, you are still getting to know each other", state.TotalConversations)
		lines = append(lines, fmt.Sprintf(phrases.Progression, note))
	}
	return phrases.EmotionsLead + "\n" + strings.Join(lines, "\n")
}

func renderEpisodes(episodes []types.Episode, phrases phraseSet) string {
	if len(episodes) == 0 {
		return ""
	}
	if len(episodes) > maxRenderedEpisodes {
		episodes = episodes[:maxRenderedEpisodes]
	}
	lines := make([]string, 0, len(episodes))
	for _, episode := range episodes {
		summary := episode.Summary
		if episode.Title != "" {
			summary = episode.Title + ": " + summary
		}
		lines = append(lines, fmt.Sprintf(phrases.Episode, episode.HappenedAt.Format("Jan 2, 2006"), summary))
	}
	return phrases.EpisodesLead + "\n" + strings.Join(lines, "\n")
}
