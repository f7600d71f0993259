package analyzer

import (
	"regexp"
	"sort"
	"unicode/utf8"
)

const DefaultKeywordLimit = 20

var (
	reWord   = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	reNumber = regexp.MustCompile(`^\d+$`)
)

// ExtractKeywords returns the most frequent content words of text, ties broken
// by first occurrence.
func ExtractKeywords(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	freq := map[string]int{}
	var order []string
	for _, tok := range reWord.FindAllString(Lower(text), -1) {
		if utf8.RuneCountInString(tok) <= 3 || reNumber.MatchString(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if freq[tok] == 0 {
			order = append(order, tok)
		}
		freq[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}

var stopWords = toSet([]string{
	"about", "above", "after", "again", "against", "all", "also", "am", "an", "and",
	"any", "are", "aren't", "as", "at", "be", "because", "been", "before", "being",
	"below", "between", "both", "but", "by", "can", "cannot", "could", "did", "do",
	"does", "doing", "down", "during", "each", "else", "ever", "every", "few", "for",
	"from", "further", "get", "had", "has", "have", "having", "he", "her", "here",
	"hers", "herself", "him", "himself", "his", "how", "however", "i", "if", "in",
	"into", "is", "it", "its", "itself", "just", "least", "less", "like", "made",
	"make", "many", "may", "me", "might", "more", "most", "much", "must", "my",
	"myself", "neither", "never", "no", "nor", "not", "now", "of", "off", "often",
	"on", "once", "only", "or", "other", "ought", "our", "ours", "ourselves", "out",
	"over", "own", "per", "perhaps", "rather", "same", "shall", "she", "should",
	"since", "so", "some", "such", "than", "that", "the", "their", "theirs", "them",
	"themselves", "then", "there", "these", "they", "this", "those", "through", "thus",
	"to", "too", "under", "until", "up", "upon", "us", "very", "was", "we", "well",
	"were", "what", "whatever", "when", "where", "whether", "which", "while", "who",
	"whom", "whose", "why", "will", "with", "within", "without", "would", "yet", "you",
	"your", "yours", "yourself", "yourselves", "able", "across", "already", "along",
	"although", "always", "among", "another", "around", "away", "become", "becomes",
	"enough", "etc", "even", "later", "next", "nothing", "onto", "others", "otherwise",
	"please", "seem", "several", "still", "therefore", "though", "together", "toward",
	"towards", "unless", "whereas", "wherever", "whole",
})
