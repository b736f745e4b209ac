package dataset

import (
	"regexp"
	"strings"
)

// MatchPlayer returns the player's home runs in dataset order.
//
// A title matches when it starts with the full name and later mentions
// "homers" or "home run". If nothing matches that way, titles containing
// both the first and last name tokens anywhere are accepted instead.
func (s *Snapshot) MatchPlayer(playerName string) []Row {
	name := strings.ToLower(strings.TrimSpace(playerName))
	if name == "" {
		return nil
	}

	pattern := regexp.MustCompile(`^(` + regexp.QuoteMeta(name) + `).*?(homers|home run)`)

	var matched []Row
	for _, r := range s.rows {
		if pattern.MatchString(strings.ToLower(r.Title)) {
			matched = append(matched, r)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return nil
	}
	first, last := tokens[0], tokens[len(tokens)-1]
	for _, r := range s.rows {
		title := strings.ToLower(r.Title)
		if strings.Contains(title, first) && strings.Contains(title, last) {
			matched = append(matched, r)
		}
	}
	return matched
}
