package insights

import (
	"sort"
	"strings"
	"unicode"

	"feedback-backend/internal/models"
)

type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the and for are but not you all any can had her was one our out has him his how its
		may new now old see way who did get let put say she too use this that with have from
		they will would there their what about which when make like than them then these
		some could been were into more very just also only your yours because really much
		over such here after before most other should being while where does doing each
		few own same both again further once off why whom those itself myself ours
		yourself themselves whats dont didnt doesnt isnt wasnt cant wont`) {
		stopWords[w] = struct{}{}
	}
}

// tokenize lower-cases text, drops every character that is neither a letter
// nor whitespace, and splits on whitespace.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)
	return strings.Fields(cleaned)
}

func isKeyword(tok string) bool {
	if len([]rune(tok)) <= 2 {
		return false
	}
	_, stop := stopWords[tok]
	return !stop
}

// Keywords returns the most frequent review words, highest count first.
// Ties keep the order in which words were first seen.
func Keywords(subs []models.Submission, limit int) []KeywordCount {
	counts := map[string]int{}
	var order []string
	for _, s := range subs {
		for _, tok := range tokenize(s.Review) {
			if !isKeyword(tok) {
				continue
			}
			if _, ok := counts[tok]; !ok {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	out := make([]KeywordCount, 0, len(order))
	for _, w := range order {
		out = append(out, KeywordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
