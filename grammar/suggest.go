package grammar

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MaxSuggestions bounds the names offered for an unknown rule.
const MaxSuggestions = 3

// Suggest returns up to [MaxSuggestions] candidates resembling name, best
// match first.
func Suggest(name string, candidates []string) []string {
	if name == "" {
		return nil
	}

	matches := fuzzy.Find(name, candidates)

	// Names that are a prefix of the unknown name do not fuzzy-match it, but
	// are the likely target of a typo past their end.
	if len(matches) == 0 {
		var out []string

		for _, c := range candidates {
			if c != "" && strings.HasPrefix(name, c) {
				out = append(out, c)
			}
		}

		return out[:min(len(out), MaxSuggestions)]
	}

	out := make([]string, 0, min(len(matches), MaxSuggestions))
	for _, m := range matches[:min(len(matches), MaxSuggestions)] {
		out = append(out, m.Str)
	}

	return out
}
