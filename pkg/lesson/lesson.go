// Package lesson builds scripted vocabulary lessons.
//
// A lesson walks the same word across French, English and Arabic, wrapped
// in BUMA's owl patter, and is handed to the synthesizer as plain text.
package lesson

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MaxWords caps the number of word triples per lesson. Five keeps the
// audio short enough for a young child's attention span.
const MaxWords = 5

// ErrUnknownCategory is returned for categories not in the vocabulary.
var ErrUnknownCategory = errors.New("lesson: unknown category")

// wordSet holds parallel word lists, index-aligned across languages.
type wordSet struct {
	fr []string
	en []string
	ar []string
}

// vocabulary is the static lesson material, loaded once at startup.
var vocabulary = map[string]wordSet{
	"animals": {
		fr: []string{"chat", "chien", "oiseau", "poisson", "lapin"},
		en: []string{"cat", "dog", "bird", "fish", "rabbit"},
		ar: []string{"قط", "كلب", "طائر", "سمكة", "أرنب"},
	},
	"colors": {
		fr: []string{"rouge", "bleu", "vert", "jaune", "orange"},
		en: []string{"red", "blue", "green", "yellow", "orange"},
		ar: []string{"أحمر", "أزرق", "أخضر", "أصفر", "برتقالي"},
	},
}

// Categories returns the known category names, sorted.
func Categories() []string {
	names := make([]string, 0, len(vocabulary))
	for name := range vocabulary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build produces the lesson script for a category. count is clamped to
// MaxWords; zero or negative counts yield just the intro and outro.
func Build(category string, count int) (string, error) {
	words, ok := vocabulary[category]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	if count > MaxWords {
		count = MaxWords
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hoot hoot! Today we learn %s! ", category)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "Number %d: %s in English, %s in French, %s in Arabic. ",
			i+1, words.en[i], words.fr[i], words.ar[i])
	}
	b.WriteString("Can you repeat them? Peux-tu répéter?")

	return b.String(), nil
}
