package analyzer

import (
	"math"
	"regexp"
	"strings"
)

var reSentenceEnd = regexp.MustCompile(`[.!?]+`)

// Readability is a simplified Flesch Reading Ease, clamped to 0-100.
// Text without any sentence terminator scores 0.
func Readability(text string) int {
	if !reSentenceEnd.MatchString(text) {
		return 0
	}
	sentences := 0
	for _, s := range reSentenceEnd.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		return 0
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}

	wps := float64(len(words)) / float64(sentences)
	spw := float64(syllables) / float64(len(words))
	score := 206.835 - 1.015*wps - 84.6*spw

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// CountSyllables counts vowel groups, dropping a trailing silent e.
func CountSyllables(word string) int {
	w := []rune(Lower(word))
	if len(w) <= 3 {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range w {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if w[len(w)-1] == 'e' {
		count--
	}
	return max(1, count)
}
