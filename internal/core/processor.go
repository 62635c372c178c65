package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mindguard/pkg"

	"github.com/rs/zerolog"
)

// maxSteps bounds a run so a cyclic flow cannot spin forever
const maxSteps = 32

// DefaultGraphProcessor implements the GraphProcessor interface
type DefaultGraphProcessor struct {
	nodes map[string]Node
	flow  GraphFlow
	log   zerolog.Logger
}

// NewGraphProcessor creates a new graph processor
func NewGraphProcessor(flow GraphFlow, log zerolog.Logger) *DefaultGraphProcessor {
	return &DefaultGraphProcessor{
		nodes: make(map[string]Node),
		flow:  flow,
		log:   log,
	}
}

// Execute runs the graph flow with the given input
func (g *DefaultGraphProcessor) Execute(ctx context.Context, input ProcessorInput) (*ProcessorOutput, error) {
	startTime := time.Now()

	nodeInput := NodeInput{
		Message:  input.Message,
		History:  input.History,
		Metadata: make(map[string]any),
	}
	output := &ProcessorOutput{
		Metadata: make(map[string]any),
	}

	g.log.Debug().
		Int("message_length", len(input.Message)).
		Int("history_turns", len(input.History)).
		Msg("starting graph execution")

	currentNode := g.flow.StartNode
	for currentNode != "" && currentNode != Complete {
		if len(output.Path) >= maxSteps {
			return nil, fmt.Errorf("graph exceeded %d steps, last node: %s", maxSteps, currentNode)
		}
		output.Path = append(output.Path, currentNode)

		node, exists := g.nodes[currentNode]
		if !exists {
			return nil, fmt.Errorf("node not found: %s", currentNode)
		}

		nodeOutput, err := node.Execute(ctx, nodeInput)
		if err != nil {
			g.log.Error().Err(err).Str("node", currentNode).Msg("node execution failed")
			return nil, fmt.Errorf("error executing node %s: %w", currentNode, err)
		}

		if nodeOutput.Error != nil {
			g.log.Warn().Err(nodeOutput.Error).Str("node", currentNode).Msg("node returned error")
			output.Errors = append(output.Errors, fmt.Sprintf("%s: %v", currentNode, nodeOutput.Error))
		}

		g.processNodeOutput(currentNode, nodeOutput, output, &nodeInput)

		if nodeOutput.Complete {
			break
		}

		nextNode := nodeOutput.NextNode
		if nextNode == "" {
			nextNode = g.getNextNode(currentNode, nodeOutput)
		}
		currentNode = nextNode
	}

	processingTime := time.Since(startTime)
	output.ProcessingTime = processingTime.Milliseconds()

	g.log.Debug().
		Strs("path", output.Path).
		Dur("elapsed", processingTime).
		Msg("graph execution completed")

	return output, nil
}

// AddNode adds a node to the processor
func (g *DefaultGraphProcessor) AddNode(node Node) error {
	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	nodeName := node.GetName()
	if nodeName == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	g.nodes[nodeName] = node
	return nil
}

// GetNode retrieves a node by name
func (g *DefaultGraphProcessor) GetNode(name string) (Node, error) {
	node, exists := g.nodes[name]
	if !exists {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return node, nil
}

// SetFlow sets the execution flow
func (g *DefaultGraphProcessor) SetFlow(flow GraphFlow) error {
	if flow.StartNode == "" {
		return fmt.Errorf("start node cannot be empty")
	}
	g.flow = flow
	return nil
}

// Validate checks that every node referenced by the flow is registered
func (g *DefaultGraphProcessor) Validate() error {
	if _, ok := g.nodes[g.flow.StartNode]; !ok {
		return fmt.Errorf("start node not registered: %s", g.flow.StartNode)
	}
	for from, edges := range g.flow.Edges {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("edge source not registered: %s", from)
		}
		for _, e := range edges {
			if e.To == Complete {
				continue
			}
			if _, ok := g.nodes[e.To]; !ok {
				return fmt.Errorf("edge target not registered: %s -> %s", from, e.To)
			}
		}
	}
	return nil
}

// processNodeOutput merges node data into the run output and the next node's input
func (g *DefaultGraphProcessor) processNodeOutput(nodeName string, nodeOutput NodeOutput, globalOutput *ProcessorOutput, nodeInput *NodeInput) {
	for key, value := range nodeOutput.Data {
		switch key {
		case KeyEmotion:
			if v, ok := value.(pkg.Emotion); ok {
				globalOutput.Emotion = v
				nodeInput.Emotion = v
			}
		case KeyPolarity:
			if v, ok := value.(float64); ok {
				globalOutput.Polarity = v
				nodeInput.Polarity = v
			}
		case KeyBucket:
			if v, ok := value.(pkg.MoodBucket); ok {
				globalOutput.Bucket = v
				nodeInput.Bucket = v
			}
		case KeyMoodLogged:
			if v, ok := value.(bool); ok {
				globalOutput.MoodLogged = v
			}
		case KeyDistress:
			if v, ok := value.(bool); ok {
				globalOutput.Distress = v
				nodeInput.Distress = v
			}
		case KeyDistressRule:
			if v, ok := value.(string); ok {
				globalOutput.DistressRule = v
			}
		case KeyReply:
			if v, ok := value.(string); ok {
				globalOutput.Reply = v
			}
		case KeyReplyOutcome:
			if v, ok := value.(string); ok {
				globalOutput.ReplyOutcome = v
			}
		default:
			globalOutput.Metadata[fmt.Sprintf("%s_%s", nodeName, key)] = value
			nodeInput.Metadata[key] = value
		}
	}
}

// getNextNode determines the next node based on flow edges and conditions
func (g *DefaultGraphProcessor) getNextNode(currentNode string, nodeOutput NodeOutput) string {
	edges, exists := g.flow.Edges[currentNode]
	if !exists || len(edges) == 0 {
		return Complete
	}

	for _, edge := range sortEdgesByPriority(edges) {
		if evaluateCondition(edge.Condition, nodeOutput) {
			return edge.To
		}
	}
	return Complete
}

// sortEdgesByPriority sorts edges by priority (lower number = higher priority)
func sortEdgesByPriority(edges []GraphEdge) []GraphEdge {
	sorted := make([]GraphEdge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// evaluateCondition is true when every condition key equals the node's output value
func evaluateCondition(condition map[string]any, nodeOutput NodeOutput) bool {
	for key, expectedValue := range condition {
		actualValue, exists := nodeOutput.Data[key]
		if !exists || actualValue != expectedValue {
			return false
		}
	}
	return true
}
