package safety

import (
	"strings"

	"mindguard/pkg"
)

// Message is shown instead of a generated reply whenever distress is detected
const Message = "I am really sorry that you are feeling this much pain. " +
	"Please talk to a parent, teacher, or counsellor right now. " +
	"You do not have to face this alone — someone you trust can " +
	"support you immediately."

// Rule names which check flagged a message
type Rule string

const (
	RuleNone         Rule = ""
	RuleSelfHarm     Rule = "self_harm"
	RuleVeryNegative Rule = "very_negative"
	RuleDespair      Rule = "despair"
)

// selfHarmPhrases are checked before anything else
var selfHarmPhrases = []string{
	"kill myself",
	"hurt myself",
	"end my life",
	"suicide",
	"i want to die",
	"i dont want to live",
	"i don't want to live",
}

var despairPhrases = []string{
	"i can't take it anymore",
	"i cant take it anymore",
	"i can't handle anything",
	"i cant handle anything",
	"i hate myself",
	"nothing matters anymore",
	"i feel completely hopeless",
	"i feel empty inside",
}

// Verdict is the outcome of a distress check. It is never stored.
type Verdict struct {
	Distress bool `json:"distress"`
	Rule     Rule `json:"rule,omitempty"`
}

// Check runs the distress rules in order and reports the first that fires
func Check(text string, emotion pkg.Emotion) Verdict {
	normalized := normalize(text)

	if containsAny(normalized, selfHarmPhrases) {
		return Verdict{Distress: true, Rule: RuleSelfHarm}
	}
	if emotion == pkg.EmotionVeryNegative {
		return Verdict{Distress: true, Rule: RuleVeryNegative}
	}
	if containsAny(normalized, despairPhrases) {
		return Verdict{Distress: true, Rule: RuleDespair}
	}
	return Verdict{}
}

// IsDistress reports whether the message must be escalated
func IsDistress(text string, emotion pkg.Emotion) bool {
	return Check(text, emotion).Distress
}

// normalize lowercases and folds typographic apostrophes so "can’t" matches "can't"
func normalize(text string) string {
	return strings.ReplaceAll(strings.ToLower(text), "’", "'")
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
