package types

import "time"

// Role identifies the author of an interaction turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UserFacts is the long-term profile for one user×character pair.
// Rows are never deleted; they are only ever merged.
type UserFacts struct {
	UserID       string `json:"user_id"`
	CharacterKey string `json:"character_key"`
	DisplayName  string `json:"display_name,omitempty"`
	Birthday     string `json:"birthday,omitempty"`
	Occupation   string `json:"occupation,omitempty"`
	// Favorites maps a category (food, music, ...) to one or more liked things.
	Favorites map[string][]string `json:"favorites,omitempty"`
	Tags      []string            `json:"tags,omitempty"`
	// Notes accumulates free text; merges append rather than replace.
	Notes          string    `json:"notes,omitempty"`
	ReinforceCount int       `json:"reinforce_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FactsPatch is a partial UserFacts applied through the merge operation.
// Zero-valued scalar fields leave the stored value untouched.
type FactsPatch struct {
	DisplayName string
	Birthday    string
	Occupation  string
	Favorites   map[string][]string
	Tags        []string
	Notes       string
}

// EmotionalState holds the bounded relationship axes for one user×character
// pair. Every axis stays within [0,100] after every update.
type EmotionalState struct {
	UserID             string     `json:"user_id"`
	CharacterKey       string     `json:"character_key"`
	Affection          int        `json:"affection"`
	Trust              int        `json:"trust"`
	Jealousy           int        `json:"jealousy"`
	Playfulness        int        `json:"playfulness"`
	Clinginess         int        `json:"clinginess"`
	StreakDays         int        `json:"streak_days"`
	TotalConversations int        `json:"total_conversations"`
	LastVisitAt        *time.Time `json:"last_visit_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// EmotionDeltas carries signed adjustments for the emotional axes. A nil
// field means the axis is untouched.
type EmotionDeltas struct {
	Affection   *int
	Trust       *int
	Jealousy    *int
	Playfulness *int
	Clinginess  *int
}

// Episode is a discrete, salience-scored recollection of a past
// conversational event.
type Episode struct {
	ID           int       `json:"id"`
	UserID       string    `json:"user_id"`
	CharacterKey string    `json:"character_key"`
	HappenedAt   time.Time `json:"happened_at"`
	Title        string    `json:"title,omitempty"`
	Summary      string    `json:"summary"`
	Topics       []string  `json:"topics,omitempty"`
	// Salience is a 0-1 score indicating how memorable the episode is.
	Salience         float64    `json:"salience"`
	EmotionalImpact  int        `json:"emotional_impact"`
	TriggerKeywords  []string   `json:"trigger_keywords,omitempty"`
	ReinforceCount   int        `json:"reinforce_count"`
	LastReferencedAt *time.Time `json:"last_referenced_at,omitempty"`
	Embedding        []float32  `json:"-"` // embedding vector, not serialized
	CreatedAt        time.Time  `json:"created_at"`
}

// RetrievedEpisode is an episode ranked by a similarity search.
type RetrievedEpisode struct {
	Episode
	Similarity float64 `json:"similarity"`
}

// Interaction is one append-only chat log entry. The same shape backs both
// the authenticated and the anonymous partitions; Identifier holds a user id
// in the first case and an ephemeral session-scoped string in the second.
type Interaction struct {
	ID            int               `json:"id"`
	Identifier    string            `json:"identifier"`
	Role          string            `json:"role"`
	Content       string            `json:"content"`
	CharacterKey  string            `json:"character_key"`
	Topics        []string          `json:"topics,omitempty"`
	EmotionalTone string            `json:"emotional_tone,omitempty"`
	NSFW          bool              `json:"nsfw"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	SessionID     string            `json:"session_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// MemoryBundle is the combined facts+emotions+episodes snapshot for one
// user×character pair. It is assembled at read time and never persisted.
type MemoryBundle struct {
	Facts    *UserFacts
	Emotions *EmotionalState
	Episodes []Episode
}

// Empty reports whether the bundle carries no memory at all.
func (b MemoryBundle) Empty() bool {
	return b.Facts == nil && b.Emotions == nil && len(b.Episodes) == 0
}
