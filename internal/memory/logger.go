package memory

import (
	"context"
	"log/slog"

	"github.com/easeaico/companion-memory/internal/extract"
	"github.com/easeaico/companion-memory/internal/identity"
	"github.com/easeaico/companion-memory/internal/types"
)

// InteractionRepo defines append behavior for the two log partitions.
type InteractionRepo interface {
	Append(ctx context.Context, interaction types.Interaction) error
	AppendAnonymous(ctx context.Context, interaction types.Interaction) error
	AppendLegacy(ctx context.Context, interaction types.Interaction) error
}

// LogParams carries the optional fields of a logged turn.
type LogParams struct {
	Topics    []string
	NSFW      bool
	Metadata  map[string]string
	SessionID string
}

// Logger appends chat turns to the partition matching the principal's
// identity. Logging is strictly log-and-continue: a chat turn must never
// fail because memory logging failed, so every error resolves to a warning.
type Logger struct {
	interactions InteractionRepo
}

// NewLogger returns a Logger.
func NewLogger(interactions InteractionRepo) *Logger {
	return &Logger{interactions: interactions}
}

// Log appends one turn. Anonymous principals write only to the anonymous
// partition; authenticated turns land in the canonical log with a
// best-effort write-through to the legacy shape, whose failure never blocks
// the canonical write.
func (l *Logger) Log(ctx context.Context, identifier, role, content, characterKey string, params LogParams) {
	topics := params.Topics
	if topics == nil {
		topics = extract.ExtractTopics(content)
	}
	interaction := types.Interaction{
		Identifier:    identifier,
		Role:          role,
		Content:       content,
		CharacterKey:  characterKey,
		Topics:        topics,
		EmotionalTone: extract.DetectTone(content),
		NSFW:          params.NSFW,
		Metadata:      params.Metadata,
		SessionID:     params.SessionID,
	}

	if identity.Classify(identifier) == identity.Anonymous {
		if err := l.interactions.AppendAnonymous(ctx, interaction); err != nil {
			slog.Warn("failed to log anonymous interaction", "character", characterKey, "error", err.Error())
		}
		return
	}

	if err := l.interactions.Append(ctx, interaction); err != nil {
		slog.Warn("failed to log interaction", "character", characterKey, "error", err.Error())
		return
	}
	if err := l.interactions.AppendLegacy(ctx, interaction); err != nil {
		slog.Warn("failed to write legacy interaction shape", "character", characterKey, "error", err.Error())
	}
}
