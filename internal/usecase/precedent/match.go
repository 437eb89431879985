package precedent

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lexyai/drafter/internal/entity"
)

// MinMatchScore is the number of shared tokens needed to tie a document to a contract type.
const MinMatchScore = 2

var (
	tokenSplitRe = regexp.MustCompile(`[^a-z0-9]+`)
	slugSplitRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Tokenize lowercases text and returns its alphanumeric words longer than two characters.
func Tokenize(text string) []string {
	var tokens []string
	for _, token := range tokenSplitRe.Split(strings.ToLower(text), -1) {
		if len(token) > 2 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// TokenSet is the union of the tokens of all texts.
func TokenSet(texts ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, text := range texts {
		for _, token := range Tokenize(text) {
			set[token] = struct{}{}
		}
	}
	return set
}

// SortedTokens flattens a token set in lexical order.
func SortedTokens(set map[string]struct{}) []string {
	tokens := make([]string, 0, len(set))
	for token := range set {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

func overlap(a, b map[string]struct{}) int {
	score := 0
	for token := range a {
		if _, ok := b[token]; ok {
			score++
		}
	}
	return score
}

// MatchContractType returns the contract type sharing the most tokens with
// docTokens. The first best candidate wins ties; scores below MinMatchScore
// are no match.
func MatchContractType(types []entity.ContractType, docTokens map[string]struct{}) (entity.ContractType, bool) {
	idx := bestMatch(len(types), func(i int) map[string]struct{} {
		return TokenSet(types[i].Name, types[i].Slug)
	}, docTokens)
	if idx < 0 {
		return entity.ContractType{}, false
	}
	return types[idx], true
}

func bestMatch(n int, candidate func(i int) map[string]struct{}, docTokens map[string]struct{}) int {
	best, bestScore := -1, -1
	for i := 0; i < n; i++ {
		tokens := candidate(i)
		if len(tokens) == 0 {
			continue
		}
		if score := overlap(docTokens, tokens); score > bestScore {
			best, bestScore = i, score
		}
	}
	if bestScore < MinMatchScore {
		return -1
	}
	return best
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	return strings.Trim(slugSplitRe.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
