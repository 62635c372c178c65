package nodes

import (
	"context"

	"mindguard/internal/core"
	"mindguard/internal/reply"

	"github.com/rs/zerolog"
)

// ResponseNode produces the supportive reply for non-distress messages
type ResponseNode struct {
	generator *reply.Generator
	log       zerolog.Logger
}

// NewResponseNode creates a new response generation node
func NewResponseNode(generator *reply.Generator, log zerolog.Logger) *ResponseNode {
	return &ResponseNode{generator: generator, log: log}
}

// Execute asks the generator for a reply. Generator failures are already
// folded into a fallback text, so the node always completes; the failure is
// reported as a non-fatal error.
func (r *ResponseNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	res := r.generator.Generate(ctx, input.Message, input.Emotion, input.History)

	r.log.Debug().
		Str("outcome", string(res.Outcome)).
		Int("reply_length", len(res.Text)).
		Msg("response generated")

	return core.NodeOutput{
		Data: map[string]any{
			core.KeyReply:        res.Text,
			core.KeyReplyOutcome: string(res.Outcome),
		},
		Error:    res.Err,
		NextNode: core.Complete,
		Complete: true,
	}, nil
}

// GetName returns the node name
func (r *ResponseNode) GetName() string {
	return core.NodeReply
}

// GetType returns the node type
func (r *ResponseNode) GetType() core.NodeType {
	return core.NodeTypeResponse
}
