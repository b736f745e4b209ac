package resolver

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/albapepper/homerlab/internal/provider/mlb"
)

// MatchThreshold is the score a candidate must exceed to be accepted.
const MatchThreshold = 70

var nameSuffixes = map[string]bool{"jr": true, "sr": true, "ii": true, "iii": true}

// Match is the best fuzzy candidate for a search.
type Match struct {
	Person mlb.Person `json:"person"`
	Score  int        `json:"score"`
}

// SearchPlayers returns the league player whose name is closest to name.
// Candidates scoring MatchThreshold or less are discarded; ties go to the
// first candidate in API order.
func (r *Resolver) SearchPlayers(ctx context.Context, name string) (*Match, error) {
	query := normalizeName(name)
	if query == "" {
		return nil, fmt.Errorf("search: empty name: %w", ErrInvalidArgument)
	}

	people, err := observe(r, "mlb", "players", func() ([]mlb.Person, error) {
		return r.stats.Players(ctx, 0)
	})
	if err != nil {
		return nil, classify("player list", err)
	}

	var best *Match
	for i := range people {
		score := nameScore(query, people[i].FullName)
		if score <= MatchThreshold {
			continue
		}
		if best == nil || score > best.Score {
			best = &Match{Person: people[i], Score: score}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no player matching %q: %w", name, ErrNotFound)
	}
	return best, nil
}

// nameScore compares a normalized query against a candidate full name,
// also trying the candidate without a generational suffix.
func nameScore(query, fullName string) int {
	candidate := normalizeName(fullName)
	score := Ratio(query, candidate)

	parts := strings.Fields(candidate)
	if len(parts) > 2 && nameSuffixes[parts[len(parts)-1]] {
		score = max(score, Ratio(query, strings.Join(parts[:len(parts)-1], " ")))
	}
	return score
}

func normalizeName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), ".", ""))
}

// Ratio is the 0-100 similarity of a and b: twice the matched characters
// over the total length, as computed by difflib's SequenceMatcher, rounded
// half to even.
func Ratio(a, b string) int {
	m := difflib.NewMatcher(chars(a), chars(b))
	return int(math.RoundToEven(100 * m.Ratio()))
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, c := range s {
		out = append(out, string(c))
	}
	return out
}
