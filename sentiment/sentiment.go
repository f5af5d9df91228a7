package sentiment

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/scipunch/newspulse/normalizer"
)

// Label is the classification outcome, rendered in the dashboard language
type Label string

const (
	Positive Label = "Positivo"
	Negative Label = "Negativo"
	Neutral  Label = "Neutro"
)

// Labels lists every label in display order
var Labels = []Label{Positive, Negative, Neutral}

// Polarity is the contribution of a matched keyword to the score
type Polarity int

const (
	Pos Polarity = 1
	Neg Polarity = -1
)

var (
	DefaultPositive = []string{"avanço", "benefício", "positivo", "inovação", "melhoria", "progresso"}
	DefaultNegative = []string{"problema", "risco", "falha", "crítico", "ameaça", "preocupação"}
)

// word runes are letters, combining marks, digits and underscore
const wordClass = `\p{L}\p{M}\p{N}_`

// Lexicon maps keywords to their polarity
type Lexicon struct {
	words    map[string]Polarity
	patterns map[string]*regexp.Regexp
}

// NewLexicon builds a lexicon from keyword lists. Keywords are normalized
// the same way feed text is, so matching is case-insensitive.
func NewLexicon(positive, negative []string) (*Lexicon, error) {
	lx := &Lexicon{
		words:    make(map[string]Polarity, len(positive)+len(negative)),
		patterns: make(map[string]*regexp.Regexp, len(positive)+len(negative)),
	}
	if err := lx.add(positive, Pos); err != nil {
		return nil, err
	}
	if err := lx.add(negative, Neg); err != nil {
		return nil, err
	}
	return lx, nil
}

// Default returns the built-in Portuguese lexicon
func Default() *Lexicon {
	lx, err := NewLexicon(DefaultPositive, DefaultNegative)
	if err != nil {
		panic(err)
	}
	return lx
}

func (lx *Lexicon) add(words []string, p Polarity) error {
	for _, w := range words {
		key := normalizer.Normalize(w)
		if key == "" {
			slog.Warn("empty keyword in lexicon, skipping", "raw", w)
			continue
		}
		if existing, ok := lx.words[key]; ok && existing != p {
			return fmt.Errorf("keyword '%s' is both positive and negative", key)
		}
		lx.words[key] = p
		lx.patterns[key] = regexp.MustCompile(
			`(?:^|[^` + wordClass + `])` + regexp.QuoteMeta(key) + `(?:$|[^` + wordClass + `])`)
	}
	return nil
}

// Len returns the number of keywords
func (lx *Lexicon) Len() int {
	return len(lx.words)
}

// Score returns matched positive keywords minus matched negative keywords.
// A keyword counts once no matter how often it occurs.
func (lx *Lexicon) Score(text string) int {
	if text == "" {
		return 0
	}
	score := 0
	for word, polarity := range lx.words {
		if lx.patterns[word].MatchString(text) {
			score += int(polarity)
		}
	}
	return score
}

// Classify maps the score of normalized text to a label
func (lx *Lexicon) Classify(text string) Label {
	score := lx.Score(text)
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}
