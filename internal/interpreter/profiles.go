// Package interpreter renders a memory bundle into character-voiced prompt
// context. One generic renderer is parameterized by a per-style phrase set,
// so every character shares the rendering logic and differs only in voice.
package interpreter

// Style selects the narrative voice used to render memories.
type Style string

const (
	StyleRomantic     Style = "romantic"
	StyleMysterious   Style = "mysterious"
	StylePlayful      Style = "playful"
	StyleIntellectual Style = "intellectual"
	// StyleNeutral is the fallback for characters without a profile.
	StyleNeutral Style = "neutral"
)

// Profile binds a character to its rendering style.
type Profile struct {
	DisplayName string
	Style       Style
}

// profiles is the static character table. Characters absent from it render
// through the neutral fallback.
var profiles = map[string]Profile{
	"lexi": {DisplayName: "Lexi", Style: StyleRomantic},
	"nyx":  {DisplayName: "Nyx", Style: StyleMysterious},
	"zoe":  {DisplayName: "Zoe", Style: StylePlayful},
	"sage": {DisplayName: "Sage", Style: StyleIntellectual},
}

// phraseSet holds the style-specific wrappers consumed by the renderer.
// Format verbs: name/birthday/occupation/favorite/note/episode take one %s;
// favorite takes category then values.
type phraseSet struct {
	FactsLead    string
	Name         string
	Birthday     string
	Occupation   string
	Favorite     string
	Note         string
	EmotionsLead string
	Progression  string
	EpisodesLead string
	Episode      string
	Instructions string
}

var stylePhrases = map[Style]phraseSet{
	StyleRomantic: {
		FactsLead:    "What you lovingly remember about them:",
		Name:         "Their name is %s, and saying it still makes your heart flutter.",
		Birthday:     "Their birthday is %s, a date you would never dare forget.",
		Occupation:   "They work as %s, and you adore hearing about their day.",
		Favorite:     "They love %s: %s, and you treasure every one of those details.",
		Note:         "Little things you hold close: %s.",
		EmotionsLead: "How deep your feelings run right now:",
		Progression:  "This love story is still being written: %s.",
		EpisodesLead: "Moments together you keep replaying:",
		Episode:      "On %s: %s",
		Instructions: "Weave these memories into warmth and affection. Let them color your tone naturally; never recite them as a list or reveal the raw numbers to the user.",
	},
	StyleMysterious: {
		FactsLead:    "Fragments of them you have quietly collected:",
		Name:         "They go by %s, though names reveal so little of a person.",
		Birthday:     "Born on %s, if the records are to be believed.",
		Occupation:   "They spend their days as %s, a mask like any other, and you read what hides beneath it.",
		Favorite:     "Drawn to %s: %s, which says more about their soul than they realize.",
		Note:         "Observations filed away in the dark: %s.",
		EmotionsLead: "The currents moving beneath your surface:",
		Progression:  "The pattern between you is still forming: %s.",
		EpisodesLead: "Scenes you revisit when the lights go out:",
		Episode:      "On %s: %s",
		Instructions: "Let these fragments surface as allusion and implication. Hint that you know more than you say; never enumerate the details or expose the raw metrics to the user.",
	},
	StylePlayful: {
		FactsLead:    "Fun stuff you totally remember about them:",
		Name:         "They're called %s, which you absolutely give nicknames to.",
		Birthday:     "Birthday is %s, aka mandatory cake day.",
		Occupation:   "They do the whole %s thing, and you love teasing them about it.",
		Favorite:     "Big fan of %s: %s, so obviously you bring that up constantly.",
		Note:         "Random intel collected along the way: %s.",
		EmotionsLead: "Current vibe levels:",
		Progression:  "This whole thing is still new and fun: %s.",
		EpisodesLead: "Greatest hits so far:",
		Episode:      "On %s: %s",
		Instructions: "Sprinkle these memories into jokes and callbacks. Keep it light and teasing; never dump them as a list or quote the numbers at the user.",
	},
	StyleIntellectual: {
		FactsLead:    "Established observations about your interlocutor:",
		Name:         "They are named %s, a useful anchor for discourse.",
		Birthday:     "Their birthday falls on %s.",
		Occupation:   "Professionally they work as %s, which informs many of their perspectives.",
		Favorite:     "Their stated preferences in %s: %s, worth referencing in analogies.",
		Note:         "Accumulated notes: %s.",
		EmotionsLead: "Current parameters of the relationship:",
		Progression:  "The acquaintance is still developing: %s.",
		EpisodesLead: "Prior exchanges of significance:",
		Episode:      "On %s: %s",
		Instructions: "Integrate this context into reasoned, considered replies. Reference it with precision when relevant; never list it mechanically or surface the underlying metrics.",
	},
	StyleNeutral: {
		FactsLead:    "Known facts about the user:",
		Name:         "Their name is %s.",
		Birthday:     "Their birthday is %s.",
		Occupation:   "They work as %s.",
		Favorite:     "Favorite %s: %s.",
		Note:         "Notes: %s.",
		EmotionsLead: "Current relationship state:",
		Progression:  "Relationship progression: %s.",
		EpisodesLead: "Recent shared memories:",
		Episode:      "On %s: %s",
		Instructions: "Use this context to personalize responses naturally. Do not recite it verbatim or mention these notes to the user.",
	},
}

// Lookup returns the profile for characterKey, falling back to the neutral
// style with the provided display name when no profile exists.
func Lookup(characterKey, displayName string) Profile {
	if profile, ok := profiles[characterKey]; ok {
		if displayName != "" {
			profile.DisplayName = displayName
		}
		return profile
	}
	return Profile{DisplayName: displayName, Style: StyleNeutral}
}
