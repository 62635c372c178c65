package cli

import (
	"bytes"
	"context"
	"testing"

	"mindguard/internal/config"
	"mindguard/internal/safety"
	"mindguard/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app {
	t.Helper()

	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Mood.DataDir = t.TempDir()
	cfg.LLM.APIKey = ""

	a, err := newAppFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := buildRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["chat"])
	assert.True(t, names["serve"])
	assert.True(t, names["moods"])
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestRootHelpPointsToTrustedAdult(t *testing.T) {
	long := buildRootCommand().Long
	assert.Contains(t, long, "trusted adult")
	assert.NotContains(t, long, "emergency")
}

func TestRootCommandRequiresSubcommand(t *testing.T) {
	root := buildRootCommand()
	root.SetArgs([]string{})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	assert.EqualError(t, err, "a subcommand is required")
}

func TestQuickFeelings(t *testing.T) {
	assert.Equal(t, "I am feeling happy today.", quickFeelings["/happy"])
	assert.Equal(t, "I am feeling sad.", quickFeelings["/sad"])
	assert.Equal(t, "I am feeling angry.", quickFeelings["/angry"])
	assert.Equal(t, "I am feeling stressed about my life and studies.", quickFeelings["/stressed"])
}

func TestHandleLineQuickFeeling(t *testing.T) {
	a := newTestApp(t)
	conv := &pkg.Conversation{}
	var out bytes.Buffer

	exit, err := a.handleLine(context.Background(), conv, "/happy", &out)
	require.NoError(t, err)
	assert.False(t, exit)

	require.Equal(t, 2, conv.Len())
	assert.Equal(t, "I am feeling happy today.", conv.Turns[0].Text)
	assert.Contains(t, out.String(), "You: I am feeling happy today.")
	assert.Contains(t, out.String(), "MindGuard AI (positive):")

	moods, err := a.pipeline.LoadMoods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, moods.Totals().Positive)
}

func TestHandleLineDistress(t *testing.T) {
	a := newTestApp(t)
	var out bytes.Buffer

	_, err := a.handleLine(context.Background(), &pkg.Conversation{}, "I want to end my life", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), safety.Message)
}

func TestHandleLineCommands(t *testing.T) {
	a := newTestApp(t)
	conv := &pkg.Conversation{}
	var out bytes.Buffer

	exit, err := a.handleLine(context.Background(), conv, "   ", &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, 0, conv.Len())

	_, err = a.handleLine(context.Background(), conv, "/sad", &out)
	require.NoError(t, err)

	out.Reset()
	_, err = a.handleLine(context.Background(), conv, "/moods", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Latest recorded day:")

	_, err = a.handleLine(context.Background(), conv, "/clear", &out)
	require.NoError(t, err)
	assert.Equal(t, 0, conv.Len())

	exit, err = a.handleLine(context.Background(), conv, "/exit", &out)
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestPrintMoods(t *testing.T) {
	var out bytes.Buffer
	printMoods(&out, pkg.MoodLog{})
	assert.Contains(t, out.String(), "No mood data yet")

	out.Reset()
	printMoods(&out, pkg.MoodLog{
		"2025-03-14": {Positive: 2},
		"2025-03-15": {Neutral: 1, Negative: 3},
	})
	s := out.String()
	assert.Contains(t, s, "Latest recorded day: 2025-03-15")
	assert.Contains(t, s, "positive: 0  neutral: 1  negative: 3")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("2025-03-14")), bytes.LastIndex(out.Bytes(), []byte("2025-03-15")))
	assert.Contains(t, s, "Total: 2 positive, 1 neutral, 3 negative")
}
