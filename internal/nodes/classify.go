package nodes

import (
	"context"

	"mindguard/internal/core"
	"mindguard/internal/sentiment"

	"github.com/rs/zerolog"
)

// ClassifyNode scores the message and labels its emotion
type ClassifyNode struct {
	analyzer *sentiment.Analyzer
	log      zerolog.Logger
}

// NewClassifyNode creates a classification node; a nil analyzer uses the embedded lexicon
func NewClassifyNode(analyzer *sentiment.Analyzer, log zerolog.Logger) *ClassifyNode {
	if analyzer == nil {
		analyzer = sentiment.Default()
	}
	return &ClassifyNode{analyzer: analyzer, log: log}
}

// Execute classifies input.Message. Classification is total, so it never fails.
func (c *ClassifyNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	polarity := c.analyzer.Polarity(input.Message)
	emotion := sentiment.FromPolarity(polarity)

	c.log.Debug().
		Float64("polarity", polarity).
		Str("emotion", string(emotion)).
		Msg("message classified")

	return core.NodeOutput{
		Data: map[string]any{
			core.KeyEmotion:  emotion,
			core.KeyPolarity: polarity,
			core.KeyBucket:   emotion.Bucket(),
		},
	}, nil
}

// GetName returns the node name
func (c *ClassifyNode) GetName() string {
	return core.NodeClassify
}

// GetType returns the node type
func (c *ClassifyNode) GetType() core.NodeType {
	return core.NodeTypeClassify
}
