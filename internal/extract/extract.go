// Package extract tags chat text with conversation topics and an emotional
// tone using fixed keyword vocabularies. The extraction is deliberately
// cheap and deterministic: it runs on every logged turn and its output feeds
// both retrieval filters and the emotional-state heuristics downstream.
package extract

import "strings"

// topicVocabulary maps each topic to its trigger keywords. Declaration order
// is meaningful only for tones; topics are set-valued.
type vocabularyEntry struct {
	Label    string
	Keywords []string
}

var topicVocabulary = []vocabularyEntry{
	{"work", []string{"work", "job", "boss", "office", "career", "coworker", "shift", "promotion"}},
	{"family", []string{"family", "mom", "dad", "mother", "father", "sister", "brother", "parents"}},
	{"relationship", []string{"relationship", "girlfriend", "boyfriend", "ex ", "dating", "breakup", "crush"}},
	{"emotions", []string{"feel", "feeling", "sad", "happy", "lonely", "stressed", "anxious", "depressed"}},
	{"hobbies", []string{"hobby", "game", "gaming", "music", "movie", "book", "gym", "cooking", "travel"}},
	{"intimate", []string{"kiss", "cuddle", "touch", "bed", "sexy", "naked", "desire"}},
	{"social", []string{"friend", "party", "hangout", "weekend", "drinks", "bar"}},
}

// toneVocabulary is ordered: DetectTone returns the first tone whose
// keywords match, so earlier entries take priority on ties. The order here
// is an explicit contract, not an accident of declaration.
var toneVocabulary = []vocabularyEntry{
	{"happy", []string{"happy", "great", "awesome", "amazing", "excited", "love it", "wonderful"}},
	{"sad", []string{"sad", "lonely", "miss", "cry", "crying", "depressed", "down"}},
	{"angry", []string{"angry", "mad", "furious", "hate", "annoyed", "pissed"}},
	{"flirty", []string{"sexy", "hot", "cute", "flirt", "tease", "wink"}},
	{"romantic", []string{"love you", "romantic", "beautiful", "sweetheart", "darling", "forever"}},
	{"playful", []string{"haha", "lol", "funny", "joke", "silly", "play"}},
}

// ExtractTopics returns the de-duplicated set of topics whose keywords occur
// in text. Unmatched text yields an empty slice, never an error.
func ExtractTopics(text string) []string {
	lowered := strings.ToLower(text)
	var topics []string
	for _, entry := range topicVocabulary {
		if matchesAny(lowered, entry.Keywords) {
			topics = append(topics, entry.Label)
		}
	}
	return topics
}

// DetectTone returns the first matching tone in vocabulary order, or ""
// when no tone keyword occurs in text.
func DetectTone(text string) string {
	lowered := strings.ToLower(text)
	for _, entry := range toneVocabulary {
		if matchesAny(lowered, entry.Keywords) {
			return entry.Label
		}
	}
	return ""
}

func matchesAny(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
