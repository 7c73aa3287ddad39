package chatbot

import (
	"context"
	"log/slog"
)

// ChatTurnResult is the outcome of one completed exchange.
type ChatTurnResult struct {
	// Identity is the resolved owner of the turn.
	Identity Identity `json:"identity"`

	// Visualization carries the response text plus an optional chart
	// or table. Only the text is ever persisted.
	Visualization VisualizationResult `json:"visualization"`

	// Turn is the persisted record, nil when persistence failed.
	Turn *ConversationTurn `json:"turn,omitempty"`

	// PersistenceFailed is set when the store could not be reached.
	// The exchange is still usable in-session; callers surface this
	// as a muted notice.
	PersistenceFailed bool `json:"persistenceFailed,omitempty"`
}

// ProcessTurnFn runs one full exchange: resolve identity, call the
// model, augment the response, append to the log.
type ProcessTurnFn func(ctx context.Context, session *Session, userInput string) (*ChatTurnResult, error)

// NewChatService wires the resolver, generator, pipeline and store
// into the turn processing function.
//
// The identity resolution and the visualization pass are independent
// of each other; both results are handed to the store append.
func NewChatService(
	resolver *IdentityResolver,
	generator Generator,
	pipeline *VisualizationPipeline,
	store ConversationStore,
	logger *slog.Logger,
) ProcessTurnFn {
	return func(ctx context.Context, session *Session, userInput string) (*ChatTurnResult, error) {
		identity := resolver.Resolve(session)

		assistantText, err := generator.Generate(ctx, userInput)
		if err != nil {
			// Upstream failures are surfaced as a visible error turn;
			// the conversation continues and nothing is persisted.
			logger.Warn("inference failed",
				slog.String("owner", identity.Key),
				slog.String("error", err.Error()),
			)
			return nil, err
		}

		viz := pipeline.Process(userInput, assistantText)

		result := &ChatTurnResult{
			Identity:      identity,
			Visualization: viz,
		}

		turn, err := store.Append(ctx, identity.Key, userInput, assistantText)
		if err != nil {
			logger.Warn("failed to persist turn",
				slog.String("owner", identity.Key),
				slog.String("error", err.Error()),
			)
			result.PersistenceFailed = true
			return result, nil
		}
		result.Turn = turn

		logger.Debug("turn completed",
			slog.String("owner", identity.Key),
			slog.Int64("turn_id", turn.ID),
			slog.String("family", string(viz.Family)),
		)

		return result, nil
	}
}
