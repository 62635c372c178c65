package pkg

import (
	"sort"
)

// Emotion is the four-level polarity label produced by the classifier
type Emotion string

const (
	EmotionVeryNegative Emotion = "very_negative"
	EmotionNegative     Emotion = "negative"
	EmotionNeutral      Emotion = "neutral"
	EmotionPositive     Emotion = "positive"
)

// Bucket folds very_negative into negative; the mood log keeps three counters only.
func (e Emotion) Bucket() MoodBucket {
	switch e {
	case EmotionPositive:
		return MoodPositive
	case EmotionNegative, EmotionVeryNegative:
		return MoodNegative
	default:
		return MoodNeutral
	}
}

// IsNegative reports whether the emotion leans negative
func (e Emotion) IsNegative() bool {
	return e == EmotionNegative || e == EmotionVeryNegative
}

// MoodBucket is the coarse label used for daily mood counting
type MoodBucket string

const (
	MoodPositive MoodBucket = "positive"
	MoodNeutral  MoodBucket = "neutral"
	MoodNegative MoodBucket = "negative"
)

// MoodBuckets lists every bucket in display order
var MoodBuckets = []MoodBucket{MoodPositive, MoodNeutral, MoodNegative}

// Valid reports whether b is one of the three known buckets
func (b MoodBucket) Valid() bool {
	switch b {
	case MoodPositive, MoodNeutral, MoodNegative:
		return true
	}
	return false
}

// DailyMoodRecord holds the per-day counters
type DailyMoodRecord struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Increment bumps the counter matching bucket by one
func (r *DailyMoodRecord) Increment(bucket MoodBucket) {
	switch bucket {
	case MoodPositive:
		r.Positive++
	case MoodNeutral:
		r.Neutral++
	case MoodNegative:
		r.Negative++
	}
}

// Count returns the counter for bucket
func (r DailyMoodRecord) Count(bucket MoodBucket) int {
	switch bucket {
	case MoodPositive:
		return r.Positive
	case MoodNeutral:
		return r.Neutral
	case MoodNegative:
		return r.Negative
	}
	return 0
}

// Total is the number of messages recorded for the day
func (r DailyMoodRecord) Total() int {
	return r.Positive + r.Neutral + r.Negative
}

// MoodLog maps an ISO calendar date (YYYY-MM-DD) to that day's counters
type MoodLog map[string]DailyMoodRecord

// Dates returns the recorded dates in ascending order.
// ISO dates sort lexically in calendar order.
func (m MoodLog) Dates() []string {
	dates := make([]string, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Latest returns the most recent recorded day
func (m MoodLog) Latest() (string, DailyMoodRecord, bool) {
	if len(m) == 0 {
		return "", DailyMoodRecord{}, false
	}
	dates := m.Dates()
	last := dates[len(dates)-1]
	return last, m[last], true
}

// Totals sums the counters across all days
func (m MoodLog) Totals() DailyMoodRecord {
	var total DailyMoodRecord
	for _, r := range m {
		total.Positive += r.Positive
		total.Neutral += r.Neutral
		total.Negative += r.Negative
	}
	return total
}

// Role identifies who produced a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label is the speaker name shown in transcripts and prompts
func (r Role) Label() string {
	if r == RoleAssistant {
		return "MindGuard AI"
	}
	return "You"
}

// ConversationTurn is one message in a session transcript
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Conversation is the in-memory transcript of one session. It is never persisted.
type Conversation struct {
	Turns []ConversationTurn `json:"turns"`
}

// Append adds a turn at the end of the transcript
func (c *Conversation) Append(role Role, text string) {
	c.Turns = append(c.Turns, ConversationTurn{Role: role, Text: text})
}

// Last returns a copy of the last n turns (all turns when fewer exist)
func (c *Conversation) Last(n int) []ConversationTurn {
	if c == nil || n <= 0 || len(c.Turns) == 0 {
		return nil
	}
	turns := c.Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// Len returns the number of turns
func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Turns)
}

// Reset clears the transcript
func (c *Conversation) Reset() {
	c.Turns = nil
}
