package nodes

import (
	"context"

	"mindguard/internal/core"
	"mindguard/internal/safety"
)

// OutcomeEscalated marks replies replaced by the safety message
const OutcomeEscalated = "escalated"

// EscalateNode answers with the fixed safety message; the reply generator is never consulted
type EscalateNode struct{}

func NewEscalateNode() *EscalateNode {
	return &EscalateNode{}
}

func (e *EscalateNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	return core.NodeOutput{
		Data: map[string]any{
			core.KeyReply:        safety.Message,
			core.KeyReplyOutcome: OutcomeEscalated,
		},
		NextNode: core.Complete,
		Complete: true,
	}, nil
}

func (e *EscalateNode) GetName() string {
	return core.NodeEscalate
}

func (e *EscalateNode) GetType() core.NodeType {
	return core.NodeTypeResponse
}
