package memory

import (
	"unicode/utf8"

	"github.com/easeaico/companion-memory/internal/types"
)

// ComputeSalience calculates a deterministic salience score in [0,1] from
// key episode signals and optional emotional state. Callers of CreateEpisode
// may use it when their own significance heuristic has nothing better; the
// store itself never decides significance.
func ComputeSalience(summary string, topics []string, emotionalImpact int, state *types.EmotionalState) float64 {
	score := 0.0

	if summary != "" {
		score += 0.15
	}

	topicCount := len(topics)
	if topicCount > 3 {
		topicCount = 3
	}
	score += float64(topicCount) * 0.10

	switch {
	case emotionalImpact >= 8:
		score += 0.30
	case emotionalImpact >= 5:
		score += 0.15
	case emotionalImpact >= 3:
		score += 0.05
	}

	summaryLen := utf8.RuneCountInString(summary)
	if summaryLen >= 200 {
		score += 0.10
	} else if summaryLen >= 100 {
		score += 0.05
	}

	if state != nil {
		switch {
		case state.Affection <= 20:
			score += 0.10
		case state.Affection >= 80:
			score += 0.05
		}
		if state.Jealousy >= 60 {
			score += 0.05
		}
	}

	return clampScore(score)
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
