package nodes

import (
	"context"
	"errors"
	"testing"

	"mindguard/internal/core"
	"mindguard/internal/reply"
	"mindguard/internal/safety"
	"mindguard/pkg"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	buckets []pkg.MoodBucket
	err     error
}

func (s *recordingStore) RecordMood(ctx context.Context, bucket pkg.MoodBucket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.err != nil {
		return s.err
	}
	s.buckets = append(s.buckets, bucket)
	return nil
}

func (s *recordingStore) LoadAll(context.Context) (pkg.MoodLog, error) { return pkg.MoodLog{}, nil }

func (s *recordingStore) Close() error { return nil }

func TestClassifyNode(t *testing.T) {
	node := NewClassifyNode(nil, zerolog.Nop())
	assert.Equal(t, core.NodeClassify, node.GetName())
	assert.Equal(t, core.NodeTypeClassify, node.GetType())

	tests := []struct {
		message string
		emotion pkg.Emotion
		bucket  pkg.MoodBucket
	}{
		{"I am feeling happy today", pkg.EmotionPositive, pkg.MoodPositive},
		{"I am feeling sad", pkg.EmotionNegative, pkg.MoodNegative},
		{"The bus leaves at noon", pkg.EmotionNeutral, pkg.MoodNeutral},
		{"Everything is terrible", pkg.EmotionVeryNegative, pkg.MoodNegative},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			out, err := node.Execute(context.Background(), core.NodeInput{Message: tt.message})
			require.NoError(t, err)
			assert.Equal(t, tt.emotion, out.Data[core.KeyEmotion])
			assert.Equal(t, tt.bucket, out.Data[core.KeyBucket])
			assert.IsType(t, float64(0), out.Data[core.KeyPolarity])
			assert.False(t, out.Complete)
		})
	}
}

func TestMoodNodeRecordsBucket(t *testing.T) {
	store := &recordingStore{}
	node := NewMoodNode(store, zerolog.Nop())

	out, err := node.Execute(context.Background(), core.NodeInput{Bucket: pkg.MoodNegative})
	require.NoError(t, err)
	assert.NoError(t, out.Error)
	assert.Equal(t, true, out.Data[core.KeyMoodLogged])
	assert.Equal(t, []pkg.MoodBucket{pkg.MoodNegative}, store.buckets)
}

func TestMoodNodeRecordsAfterCancel(t *testing.T) {
	store := &recordingStore{}
	node := NewMoodNode(store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := node.Execute(ctx, core.NodeInput{Bucket: pkg.MoodPositive})
	require.NoError(t, err)
	assert.NoError(t, out.Error)
	assert.Equal(t, []pkg.MoodBucket{pkg.MoodPositive}, store.buckets)
}

func TestMoodNodeFailureIsNonFatal(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	node := NewMoodNode(store, zerolog.Nop())

	out, err := node.Execute(context.Background(), core.NodeInput{Bucket: pkg.MoodPositive})
	require.NoError(t, err)
	require.Error(t, out.Error)
	assert.Contains(t, out.Error.Error(), "disk full")
	assert.Equal(t, false, out.Data[core.KeyMoodLogged])

	out, err = NewMoodNode(nil, zerolog.Nop()).Execute(context.Background(), core.NodeInput{Bucket: pkg.MoodPositive})
	require.NoError(t, err)
	assert.Error(t, out.Error)
}

func TestSafetyNode(t *testing.T) {
	node := NewSafetyNode(zerolog.Nop())

	out, err := node.Execute(context.Background(), core.NodeInput{
		Message: "I want to end my life",
		Emotion: pkg.EmotionNegative,
	})
	require.NoError(t, err)
	assert.Equal(t, true, out.Data[core.KeyDistress])
	assert.Equal(t, string(safety.RuleSelfHarm), out.Data[core.KeyDistressRule])

	out, err = node.Execute(context.Background(), core.NodeInput{
		Message: "I am feeling happy today",
		Emotion: pkg.EmotionPositive,
	})
	require.NoError(t, err)
	assert.Equal(t, false, out.Data[core.KeyDistress])
	assert.Empty(t, out.NextNode)
}

func TestEscalateNode(t *testing.T) {
	out, err := NewEscalateNode().Execute(context.Background(), core.NodeInput{Message: "anything"})
	require.NoError(t, err)
	assert.True(t, out.Complete)
	assert.Equal(t, safety.Message, out.Data[core.KeyReply])
	assert.Equal(t, OutcomeEscalated, out.Data[core.KeyReplyOutcome])
}

func TestResponseNodeWithoutModel(t *testing.T) {
	gen, err := reply.NewGenerator(context.Background(), nil)
	require.NoError(t, err)

	node := NewResponseNode(gen, zerolog.Nop())
	out, err := node.Execute(context.Background(), core.NodeInput{
		Message: "I am feeling sad",
		Emotion: pkg.EmotionNegative,
	})
	require.NoError(t, err)
	assert.True(t, out.Complete)
	assert.NoError(t, out.Error)
	assert.Equal(t, reply.Fallback("I am feeling sad", pkg.EmotionNegative), out.Data[core.KeyReply])
	assert.Equal(t, string(reply.OutcomeUnavailable), out.Data[core.KeyReplyOutcome])
}
