package core

import (
	"context"

	"mindguard/pkg"
)

// Node represents a single processing unit in the graph flow
type Node interface {
	Execute(ctx context.Context, input NodeInput) (NodeOutput, error)
	GetName() string
	GetType() NodeType
}

// NodeType defines the different types of nodes in the graph
type NodeType string

const (
	NodeTypeClassify NodeType = "classify"
	NodeTypeStorage  NodeType = "storage"
	NodeTypeSafety   NodeType = "safety"
	NodeTypeResponse NodeType = "response"
)

// Node names of the message flow
const (
	NodeClassify = "classify"
	NodeMood     = "mood"
	NodeSafety   = "safety"
	NodeEscalate = "escalate"
	NodeReply    = "reply"

	// Complete ends the flow
	Complete = "complete"
)

// Keys nodes use in NodeOutput.Data
const (
	KeyEmotion      = "emotion"
	KeyPolarity     = "polarity"
	KeyBucket       = "bucket"
	KeyMoodLogged   = "mood_logged"
	KeyDistress     = "distress"
	KeyDistressRule = "distress_rule"
	KeyReply        = "reply"
	KeyReplyOutcome = "reply_outcome"
)

// NodeInput carries the message and everything earlier nodes learned about it
type NodeInput struct {
	Message  string                 `json:"-"`
	History  []pkg.ConversationTurn `json:"-"`
	Emotion  pkg.Emotion            `json:"emotion,omitempty"`
	Polarity float64                `json:"polarity"`
	Bucket   pkg.MoodBucket         `json:"bucket,omitempty"`
	Distress bool                   `json:"distress"`
	Metadata map[string]any         `json:"metadata"`
}

// NodeOutput contains the output data from a node.
// Error is non-fatal: it is recorded and the flow continues.
type NodeOutput struct {
	Data     map[string]any `json:"data"`
	NextNode string         `json:"next_node,omitempty"`
	Error    error          `json:"error,omitempty"`
	Complete bool           `json:"complete"`
}

// GraphProcessor orchestrates the execution of nodes in a graph flow
type GraphProcessor interface {
	Execute(ctx context.Context, input ProcessorInput) (*ProcessorOutput, error)
	AddNode(node Node) error
	GetNode(name string) (Node, error)
	SetFlow(flow GraphFlow) error
}

// ProcessorInput is the main input for the graph processor
type ProcessorInput struct {
	Message string
	// History is the conversation before this message
	History []pkg.ConversationTurn
}

// ProcessorOutput is the main output from the graph processor. It never
// contains the message text.
type ProcessorOutput struct {
	Reply          string         `json:"reply"`
	Emotion        pkg.Emotion    `json:"emotion"`
	Polarity       float64        `json:"polarity"`
	Bucket         pkg.MoodBucket `json:"bucket"`
	MoodLogged     bool           `json:"mood_logged"`
	Distress       bool           `json:"distress"`
	DistressRule   string         `json:"distress_rule,omitempty"`
	ReplyOutcome   string         `json:"reply_outcome"`
	Errors         []string       `json:"errors,omitempty"`
	Path           []string       `json:"path"`
	ProcessingTime int64          `json:"processing_time_ms"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// GraphFlow defines the execution flow between nodes
type GraphFlow struct {
	StartNode string                 `json:"start_node"`
	Edges     map[string][]GraphEdge `json:"edges"` // node_name -> possible next nodes
}

// GraphEdge represents a connection between two nodes with conditions
type GraphEdge struct {
	To        string         `json:"to"`
	Condition map[string]any `json:"condition,omitempty"`
	Priority  int            `json:"priority"`
}

// MessageFlow routes classify → mood → safety, then to escalate on distress or reply otherwise
func MessageFlow() GraphFlow {
	return GraphFlow{
		StartNode: NodeClassify,
		Edges: map[string][]GraphEdge{
			NodeClassify: {
				{To: NodeMood, Priority: 1},
			},
			NodeMood: {
				{To: NodeSafety, Priority: 1},
			},
			NodeSafety: {
				{To: NodeEscalate, Condition: map[string]any{KeyDistress: true}, Priority: 1},
				{To: NodeReply, Priority: 2},
			},
			NodeEscalate: {
				{To: Complete, Priority: 1},
			},
			NodeReply: {
				{To: Complete, Priority: 1},
			},
		},
	}
}
