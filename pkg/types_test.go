package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmotionBucket(t *testing.T) {
	assert.Equal(t, MoodNegative, EmotionVeryNegative.Bucket())
	assert.Equal(t, MoodNegative, EmotionNegative.Bucket())
	assert.Equal(t, MoodNeutral, EmotionNeutral.Bucket())
	assert.Equal(t, MoodPositive, EmotionPositive.Bucket())
}

func TestDailyMoodRecordIncrement(t *testing.T) {
	var r DailyMoodRecord
	r.Increment(MoodPositive)
	r.Increment(MoodNegative)
	r.Increment(MoodNegative)

	assert.Equal(t, DailyMoodRecord{Positive: 1, Neutral: 0, Negative: 2}, r)
	assert.Equal(t, 3, r.Total())
	assert.Equal(t, 2, r.Count(MoodNegative))
}

func TestMoodLogLatestAndTotals(t *testing.T) {
	log := MoodLog{
		"2025-02-11": {Positive: 1},
		"2025-02-09": {Neutral: 2},
		"2025-02-10": {Negative: 3},
	}

	assert.Equal(t, []string{"2025-02-09", "2025-02-10", "2025-02-11"}, log.Dates())

	date, rec, ok := log.Latest()
	assert.True(t, ok)
	assert.Equal(t, "2025-02-11", date)
	assert.Equal(t, 1, rec.Positive)

	assert.Equal(t, DailyMoodRecord{Positive: 1, Neutral: 2, Negative: 3}, log.Totals())

	_, _, ok = MoodLog{}.Latest()
	assert.False(t, ok)
}

func TestConversationLast(t *testing.T) {
	var c Conversation
	assert.Nil(t, c.Last(4))

	for _, text := range []string{"a", "b", "c", "d", "e", "f"} {
		c.Append(RoleUser, text)
	}
	last := c.Last(4)
	assert.Len(t, last, 4)
	assert.Equal(t, "c", last[0].Text)
	assert.Equal(t, "f", last[3].Text)

	last[0].Text = "changed"
	assert.Equal(t, "c", c.Turns[2].Text)
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "You", RoleUser.Label())
	assert.Equal(t, "MindGuard AI", RoleAssistant.Label())
}
