package conversation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Confidence is a coarse quality label for a consensus result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Perspective captures one speaker's contribution to the analysis.
type Perspective struct {
	Speaker       string   `json:"speaker"`
	Approach      string   `json:"approach"`
	KeyPoints     []string `json:"key_points"`
	FinalPosition string   `json:"final_position"`
}

// ConsensusResult is the derived summary of a finished conversation.
type ConsensusResult struct {
	ConsensusReached      bool        `json:"consensus_reached"`
	TotalIterations       int         `json:"total_iterations"`
	PerspectiveA          Perspective `json:"perspective_a"`
	PerspectiveB          Perspective `json:"perspective_b"`
	AreasOfAgreement      []string    `json:"areas_of_agreement"`
	AreasOfDebate         []string    `json:"areas_of_debate"`
	UnifiedRecommendation string      `json:"unified_recommendation"`
	Confidence            Confidence  `json:"confidence_level"`
}

// commonThemes are the domain topics scanned for cross-speaker agreement.
var commonThemes = []string{
	"evidence", "timeline", "damages", "liability",
	"settlement", "strategy", "risk",
}

// disagreementMarkers flag turns that push back on the other speaker.
var disagreementMarkers = []string{
	"however", "but", "disagree", "alternatively",
	"on the other hand", "different perspective",
}

const (
	maxKeyPoints       = 5
	maxAgreementAreas  = 5
	maxDebateAreas     = 3
	finalPositionLimit = 200
)

// speakerApproaches maps known role names to a one-line description of their
// analytical style.
var speakerApproaches = map[string]string{
	"docu":     "Logical, evidence-based analysis",
	"sherlock": "Strategic, pattern-based analysis",
}

// Summarize condenses a finished conversation into a ConsensusResult. All
// extraction is pure and deterministic; repeated runs over the same
// transcript produce identical results.
func Summarize(conv *Conversation) *ConsensusResult {
	turnsA := turnsBySpeaker(conv.Turns, conv.SpeakerA)
	turnsB := turnsBySpeaker(conv.Turns, conv.SpeakerB)

	confidence := calculateConfidence(conv.ConsensusReached, len(conv.Turns))

	return &ConsensusResult{
		ConsensusReached: conv.ConsensusReached,
		TotalIterations:  len(conv.Turns),
		PerspectiveA: Perspective{
			Speaker:       conv.SpeakerA,
			Approach:      approachFor(conv.SpeakerA),
			KeyPoints:     extractKeyPoints(turnsA),
			FinalPosition: finalPosition(turnsA),
		},
		PerspectiveB: Perspective{
			Speaker:       conv.SpeakerB,
			Approach:      approachFor(conv.SpeakerB),
			KeyPoints:     extractKeyPoints(turnsB),
			FinalPosition: finalPosition(turnsB),
		},
		AreasOfAgreement:      findAgreementAreas(turnsA, turnsB),
		AreasOfDebate:         findDebateAreas(conv.Turns),
		UnifiedRecommendation: unifiedRecommendation(conv, turnsA, turnsB, confidence),
		Confidence:            confidence,
	}
}

func turnsBySpeaker(turns []Turn, speaker string) []Turn {
	var out []Turn
	for _, t := range turns {
		if t.Speaker == speaker {
			out = append(out, t)
		}
	}
	return out
}

func approachFor(speaker string) string {
	if approach, ok := speakerApproaches[speaker]; ok {
		return approach
	}
	return "Collaborative analysis"
}

// extractKeyPoints takes the first sentence of each turn, capped at five.
func extractKeyPoints(turns []Turn) []string {
	points := make([]string, 0, maxKeyPoints)
	for _, t := range turns {
		if t.Content == "" {
			continue
		}
		sentence, _, _ := strings.Cut(t.Content, ".")
		sentence = strings.TrimSpace(sentence)
		if sentence != "" {
			points = append(points, sentence)
		}
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}

func finalPosition(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}
	return turns[len(turns)-1].Content
}

// findAgreementAreas marks a theme as agreed when both speakers mention it.
func findAgreementAreas(turnsA, turnsB []Turn) []string {
	agreements := make([]string, 0, maxAgreementAreas)
	for _, theme := range commonThemes {
		if mentionsTheme(turnsA, theme) && mentionsTheme(turnsB, theme) {
			agreements = append(agreements, fmt.Sprintf("Both analysts emphasize %s", theme))
			if len(agreements) == maxAgreementAreas {
				break
			}
		}
	}
	return agreements
}

func mentionsTheme(turns []Turn, theme string) bool {
	for _, t := range turns {
		if strings.Contains(strings.ToLower(t.Content), theme) {
			return true
		}
	}
	return false
}

// findDebateAreas records which speaker raised a pushback, in turn order.
func findDebateAreas(turns []Turn) []string {
	debates := make([]string, 0, maxDebateAreas)
	for _, t := range turns {
		content := strings.ToLower(t.Content)
		for _, marker := range disagreementMarkers {
			if strings.Contains(content, marker) {
				debates = append(debates, fmt.Sprintf("%s raised alternative view", t.Speaker))
				break
			}
		}
		if len(debates) == maxDebateAreas {
			break
		}
	}
	return debates
}

func unifiedRecommendation(conv *Conversation, turnsA, turnsB []Turn, confidence Confidence) string {
	if len(turnsA) == 0 || len(turnsB) == 0 {
		return "Insufficient data for unified recommendation"
	}

	finalA := truncate(finalPosition(turnsA), finalPositionLimit)
	finalB := truncate(finalPosition(turnsB), finalPositionLimit)

	return strings.TrimSpace(fmt.Sprintf(`UNIFIED RECOMMENDATION:

After %d iterations of collaborative analysis, combining logical
evidence-based review with strategic pattern recognition:

%s (logical perspective):
%s

%s (strategic perspective):
%s

CONSENSUS:
Both analytical approaches converge on a comprehensive strategy that balances
factual evidence with strategic considerations.

Confidence Level: %s`,
		len(conv.Turns),
		strings.ToUpper(conv.SpeakerA), finalA,
		strings.ToUpper(conv.SpeakerB), finalB,
		confidence))
}

// truncate cuts on a rune boundary so a multi-byte character is never split.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "..."
}

// calculateConfidence is monotonic in (consensusReached, turn count): more
// turns and explicit agreement only ever raise the label.
func calculateConfidence(consensusReached bool, turns int) Confidence {
	switch {
	case consensusReached && turns >= 5:
		return ConfidenceHigh
	case consensusReached || turns >= 7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
