package nodes

import (
	"context"
	"fmt"

	"mindguard/internal/core"
	"mindguard/internal/storage"

	"github.com/rs/zerolog"
)

// MoodNode records the message's mood bucket. It runs on every path,
// including escalation, and a failed write never blocks the reply.
type MoodNode struct {
	store storage.MoodStore
	log   zerolog.Logger
}

// NewMoodNode creates a mood logging node
func NewMoodNode(store storage.MoodStore, log zerolog.Logger) *MoodNode {
	return &MoodNode{store: store, log: log}
}

// Execute increments today's counter for input.Bucket
func (m *MoodNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	if m.store == nil {
		return core.NodeOutput{
			Data:  map[string]any{core.KeyMoodLogged: false},
			Error: fmt.Errorf("no mood store configured"),
		}, nil
	}

	// the count belongs to a message already accepted; a client disconnect must not drop it
	if err := m.store.RecordMood(context.WithoutCancel(ctx), input.Bucket); err != nil {
		m.log.Error().Err(err).Str("bucket", string(input.Bucket)).Msg("failed to record mood")
		return core.NodeOutput{
			Data:  map[string]any{core.KeyMoodLogged: false},
			Error: fmt.Errorf("record mood: %w", err),
		}, nil
	}

	return core.NodeOutput{
		Data: map[string]any{core.KeyMoodLogged: true},
	}, nil
}

// GetName returns the node name
func (m *MoodNode) GetName() string {
	return core.NodeMood
}

// GetType returns the node type
func (m *MoodNode) GetType() core.NodeType {
	return core.NodeTypeStorage
}
