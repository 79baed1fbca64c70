package conversation

import "strings"

// consensusKeywords is the canonical agreement vocabulary. The detection is
// deliberately crude substring matching, not semantic agreement; false
// positives and negatives are acceptable.
var consensusKeywords = []string{
	"agree",
	"consensus",
	"concluded",
	"final",
	"nothing new",
	"settled",
	"aligned",
}

// consensusWindow is how many trailing turns the detector examines.
const consensusWindow = 3

// consensusQuorum is how many turns in the window must contain an agreement
// keyword for the dialogue to count as converged.
const consensusQuorum = 2

// HasConverged reports whether the trailing turns of a conversation show
// agreement. It requires at least three turns; it then scans the last three,
// case-insensitively, and converges when at least two of them contain an
// agreement keyword.
func HasConverged(turns []Turn) bool {
	if len(turns) < consensusWindow {
		return false
	}

	recent := turns[len(turns)-consensusWindow:]

	matches := 0
	for _, turn := range recent {
		content := strings.ToLower(turn.Content)
		for _, keyword := range consensusKeywords {
			if strings.Contains(content, keyword) {
				matches++
				break
			}
		}
	}

	return matches >= consensusQuorum
}
