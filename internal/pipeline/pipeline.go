package pipeline

import (
	"context"
	"fmt"

	"mindguard/internal/core"
	"mindguard/internal/nodes"
	"mindguard/internal/reply"
	"mindguard/internal/sentiment"
	"mindguard/internal/storage"
	"mindguard/pkg"

	"github.com/rs/zerolog"
)

// Pipeline is the single entry point for handling a user message:
// classify, log mood, check distress, then escalate or reply.
type Pipeline struct {
	processor    core.GraphProcessor
	moods        storage.MoodStore
	historyTurns int
	log          zerolog.Logger
}

// Deps are the collaborators a Pipeline is built from
type Deps struct {
	Analyzer  *sentiment.Analyzer
	Moods     storage.MoodStore
	Generator *reply.Generator
	// HistoryTurns bounds the snapshot handed to the reply node
	HistoryTurns int
	Logger       zerolog.Logger
}

// New wires the message flow
func New(deps Deps) (*Pipeline, error) {
	if deps.Moods == nil {
		return nil, fmt.Errorf("mood store is required")
	}
	if deps.Generator == nil {
		return nil, fmt.Errorf("reply generator is required")
	}
	if deps.HistoryTurns <= 0 {
		deps.HistoryTurns = reply.DefaultHistoryTurns
	}

	processor := core.NewGraphProcessor(core.MessageFlow(), deps.Logger.With().Str("component", "graph").Logger())
	for _, node := range []core.Node{
		nodes.NewClassifyNode(deps.Analyzer, deps.Logger),
		nodes.NewMoodNode(deps.Moods, deps.Logger),
		nodes.NewSafetyNode(deps.Logger),
		nodes.NewEscalateNode(),
		nodes.NewResponseNode(deps.Generator, deps.Logger),
	} {
		if err := processor.AddNode(node); err != nil {
			return nil, fmt.Errorf("failed to add node: %w", err)
		}
	}
	if err := processor.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message flow: %w", err)
	}

	return &Pipeline{
		processor:    processor,
		moods:        deps.Moods,
		historyTurns: deps.HistoryTurns,
		log:          deps.Logger,
	}, nil
}

// HandleMessage runs one message through the flow and appends the user turn
// and the reply to conv. The reply sees conv as it was before this message.
// Errors are returned only for wiring faults; remote and storage failures are
// absorbed and listed in the output.
func (p *Pipeline) HandleMessage(ctx context.Context, conv *pkg.Conversation, text string) (*core.ProcessorOutput, error) {
	if conv == nil {
		conv = &pkg.Conversation{}
	}

	out, err := p.processor.Execute(ctx, core.ProcessorInput{
		Message: text,
		History: conv.Last(p.historyTurns),
	})
	if err != nil {
		return nil, err
	}

	conv.Append(pkg.RoleUser, text)
	conv.Append(pkg.RoleAssistant, out.Reply)

	p.log.Info().
		Str("emotion", string(out.Emotion)).
		Bool("distress", out.Distress).
		Str("reply_outcome", out.ReplyOutcome).
		Bool("mood_logged", out.MoodLogged).
		Int64("elapsed_ms", out.ProcessingTime).
		Msg("message handled")

	return out, nil
}

// LoadMoods returns the full mood log
func (p *Pipeline) LoadMoods(ctx context.Context) (pkg.MoodLog, error) {
	return p.moods.LoadAll(ctx)
}
