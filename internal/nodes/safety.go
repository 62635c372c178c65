package nodes

import (
	"context"

	"mindguard/internal/core"
	"mindguard/internal/safety"

	"github.com/rs/zerolog"
)

// SafetyNode decides between escalation and a normal reply.
// Routing is left to the flow edges keyed on core.KeyDistress.
type SafetyNode struct {
	log zerolog.Logger
}

func NewSafetyNode(log zerolog.Logger) *SafetyNode {
	return &SafetyNode{log: log}
}

func (s *SafetyNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	verdict := safety.Check(input.Message, input.Emotion)

	if verdict.Distress {
		s.log.Warn().
			Str("rule", string(verdict.Rule)).
			Str("emotion", string(input.Emotion)).
			Msg("distress detected, escalating")
	}

	return core.NodeOutput{
		Data: map[string]any{
			core.KeyDistress:     verdict.Distress,
			core.KeyDistressRule: string(verdict.Rule),
		},
	}, nil
}

func (s *SafetyNode) GetName() string {
	return core.NodeSafety
}

func (s *SafetyNode) GetType() core.NodeType {
	return core.NodeTypeSafety
}
