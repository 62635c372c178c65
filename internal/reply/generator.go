package reply

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"mindguard/pkg"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

// DefaultHistoryTurns is how many recent turns the model sees
const DefaultHistoryTurns = 4

// ErrEmptyResponse means the model answered with no usable text
var ErrEmptyResponse = errors.New("empty response from chat model")

// Outcome tells how a reply was produced
type Outcome string

const (
	OutcomeGenerated      Outcome = "generated"
	OutcomeUnavailable    Outcome = "unavailable"
	OutcomeTimeout        Outcome = "timeout"
	OutcomeCanceled       Outcome = "canceled"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeEmptyResponse  Outcome = "empty_response"
)

// Result is the reply text plus how it was obtained. Text is never empty;
// every outcome other than generated carries the fallback reply.
type Result struct {
	Text    string
	Outcome Outcome
	Err     error
}

// Fallback reports whether the text came from the fixed templates
func (r Result) Fallback() bool {
	return r.Outcome != OutcomeGenerated
}

// Generator produces supportive replies from a chat model, falling back to
// fixed templates whenever the model is missing or fails.
type Generator struct {
	chain        compose.Runnable[map[string]any, *schema.Message]
	historyTurns int
	log          zerolog.Logger
}

// Option customizes a Generator
type Option func(*Generator)

// WithHistoryTurns sets how many recent turns are embedded in the prompt
func WithHistoryTurns(n int) Option {
	return func(g *Generator) { g.historyTurns = n }
}

// WithLogger attaches a logger
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// NewGenerator compiles the Template → ChatModel chain. A nil chat model
// is valid and means every reply comes from the fallback templates.
func NewGenerator(ctx context.Context, chatModel model.BaseChatModel, opts ...Option) (*Generator, error) {
	g := &Generator{
		historyTurns: DefaultHistoryTurns,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if chatModel == nil {
		return g, nil
	}

	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(createReplyTemplate()).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating Eino chain: %w", err)
	}
	g.chain = chain
	return g, nil
}

// Available reports whether a chat model is configured
func (g *Generator) Available() bool {
	return g.chain != nil
}

// Reply returns only the text of Generate
func (g *Generator) Reply(ctx context.Context, text string, emotion pkg.Emotion, history []pkg.ConversationTurn) string {
	return g.Generate(ctx, text, emotion, history).Text
}

// Generate makes a single model attempt and never returns an empty text.
// Failures are reported through Result.Outcome, not as errors.
func (g *Generator) Generate(ctx context.Context, text string, emotion pkg.Emotion, history []pkg.ConversationTurn) (res Result) {
	fallback := Fallback(text, emotion)

	if g.chain == nil {
		return Result{Text: fallback, Outcome: OutcomeUnavailable}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Result{Text: fallback, Outcome: OutcomeTransportError, Err: fmt.Errorf("chat model panic: %v", r)}
		}
		g.log.Debug().
			Str("outcome", string(res.Outcome)).
			Str("emotion", string(emotion)).
			Int("reply_length", len(res.Text)).
			Dur("elapsed", time.Since(start)).
			Msg("reply generated")
	}()

	vars := templateVariables(text, emotion, FormatHistory(history, g.historyTurns))
	msg, err := g.chain.Invoke(ctx, vars)
	if err != nil {
		outcome := classifyError(ctx, err)
		g.log.Warn().Err(err).Str("outcome", string(outcome)).Msg("chat model call failed, using fallback")
		return Result{Text: fallback, Outcome: outcome, Err: err}
	}

	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return Result{Text: fallback, Outcome: OutcomeEmptyResponse, Err: ErrEmptyResponse}
	}

	return Result{Text: strings.TrimSpace(msg.Content), Outcome: OutcomeGenerated}
}

func classifyError(ctx context.Context, err error) Outcome {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		return OutcomeCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return OutcomeTimeout
	}
	return OutcomeTransportError
}
