package report

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/scipunch/newspulse/pipeline"
)

const (
	minWordLen  = 3
	minFontSize = 12
	maxFontSize = 48
)

var stopwords = toSet(
	// pt
	"para", "com", "não", "uma", "uns", "umas", "por", "mais", "das", "dos", "nas", "nos", "como",
	"mas", "foi", "que", "pelo", "pela", "pelos", "pelas", "sobre", "entre", "após", "até", "sem",
	"seu", "sua", "seus", "suas", "ele", "ela", "eles", "elas", "este", "esta", "esse", "essa",
	"isso", "isto", "aos", "são", "ser", "está", "estão", "tem", "têm", "também", "quando", "onde",
	"muito", "já", "ou", "há", "às", "num", "numa", "nem", "ao", "do", "da", "de", "em", "no", "na",
	// en
	"the", "and", "for", "with", "that", "this", "from", "are", "was", "were", "has", "have", "not",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// WordCount is one entry of the word cloud
type WordCount struct {
	Word     string
	Count    int
	FontSize int
}

// WordFrequencies counts the words of all normalized texts and returns the
// n most frequent ones, ties broken alphabetically. n <= 0 returns all.
func WordFrequencies(items []pipeline.ClassifiedItem, n int) ([]WordCount, error) {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.NormalizedText)
	}
	joined := strings.Join(texts, " ")
	if strings.TrimSpace(joined) == "" {
		return nil, ErrNoCloudText
	}

	counts := make(map[string]int)
	for _, word := range tokenize(joined) {
		counts[word]++
	}
	if len(counts) == 0 {
		return nil, ErrNoCloudText
	}

	words := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		words = append(words, WordCount{Word: w, Count: c})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if n > 0 && len(words) > n {
		words = words[:n]
	}

	scaleFonts(words)
	return words, nil
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minWordLen || stopwords[f] {
			continue
		}
		words = append(words, f)
	}
	return words
}

// scaleFonts sizes words linearly between the least and most frequent
func scaleFonts(words []WordCount) {
	lo, hi := words[len(words)-1].Count, words[0].Count
	for i := range words {
		if hi == lo {
			words[i].FontSize = (minFontSize + maxFontSize) / 2
			continue
		}
		words[i].FontSize = minFontSize + (words[i].Count-lo)*(maxFontSize-minFontSize)/(hi-lo)
	}
}
