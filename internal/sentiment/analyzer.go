package sentiment

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"mindguard/pkg"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Classification thresholds on the polarity scale
const (
	VeryNegativeThreshold = -0.7
	PositiveThreshold     = 0.2

	negationScale = -0.5
)

// Lexicon is the scoring table used by the analyzer
type Lexicon struct {
	Words        map[string]float64 `yaml:"words"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`
}

// Analyzer scores free text on a [-1, 1] polarity scale
type Analyzer struct {
	words        map[string]float64
	intensifiers map[string]float64
	negations    map[string]bool
}

var (
	defaultOnce     sync.Once
	defaultAnalyzer *Analyzer
)

// Default returns the analyzer built from the embedded lexicon
func Default() *Analyzer {
	defaultOnce.Do(func() {
		a, err := parse(defaultLexicon)
		if err != nil {
			panic(fmt.Sprintf("embedded lexicon is invalid: %v", err))
		}
		defaultAnalyzer = a
	})
	return defaultAnalyzer
}

// New builds an analyzer from a lexicon file, or the embedded lexicon when path is empty
func New(path string) (*Analyzer, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading lexicon file: %w", err)
	}
	return parse(data)
}

// NewFromLexicon builds an analyzer from an in-memory lexicon
func NewFromLexicon(lex Lexicon) (*Analyzer, error) {
	a := &Analyzer{
		words:        make(map[string]float64, len(lex.Words)),
		intensifiers: make(map[string]float64, len(lex.Intensifiers)),
		negations:    make(map[string]bool, len(lex.Negations)),
	}
	for w, p := range lex.Words {
		if p < -1 || p > 1 {
			return nil, fmt.Errorf("polarity for %q out of range: %v", w, p)
		}
		a.words[strings.ToLower(w)] = p
	}
	for w, f := range lex.Intensifiers {
		if f <= 0 {
			return nil, fmt.Errorf("intensifier %q must be positive: %v", w, f)
		}
		a.intensifiers[strings.ToLower(w)] = f
	}
	for _, w := range lex.Negations {
		a.negations[strings.ToLower(w)] = true
	}
	return a, nil
}

func parse(data []byte) (*Analyzer, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("error parsing lexicon: %w", err)
	}
	return NewFromLexicon(lex)
}

// Polarity returns the mean polarity of the scored words in text.
// Text with no scored words is 0.
func (a *Analyzer) Polarity(text string) float64 {
	var scores []float64

	intensity := 1.0
	negated := false
	for _, tok := range tokenize(text) {
		if tok == boundary {
			intensity, negated = 1.0, false
			continue
		}
		if a.negations[tok] {
			negated = true
			continue
		}
		if f, ok := a.intensifiers[tok]; ok {
			intensity *= f
			continue
		}
		p, ok := a.words[tok]
		if !ok {
			continue
		}
		score := clamp(p * intensity)
		if negated {
			score *= negationScale
		}
		scores = append(scores, score)
		intensity, negated = 1.0, false
	}

	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return clamp(sum / float64(len(scores)))
}

// Classify maps text to one of the four emotion labels
func (a *Analyzer) Classify(text string) pkg.Emotion {
	return FromPolarity(a.Polarity(text))
}

// FromPolarity applies the thresholds in order; the first match wins
func FromPolarity(p float64) pkg.Emotion {
	switch {
	case p <= VeryNegativeThreshold:
		return pkg.EmotionVeryNegative
	case p < 0:
		return pkg.EmotionNegative
	case p > PositiveThreshold:
		return pkg.EmotionPositive
	default:
		return pkg.EmotionNeutral
	}
}

const boundary = "."

// tokenize lowercases text and splits it into words, emitting boundary at clause punctuation
func tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")

	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, strings.Trim(b.String(), "'"))
			b.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || r == '\'':
			b.WriteRune(r)
		case r == '.' || r == '!' || r == '?' || r == ';' || r == ',':
			flush()
			tokens = append(tokens, boundary)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
