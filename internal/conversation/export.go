package conversation

import (
	"encoding/json"
	"time"
)

// ExportMetadata describes the dialogue run in an export dump.
type ExportMetadata struct {
	MaxIterations    int       `json:"max_iterations"`
	TotalIterations  int       `json:"total_iterations"`
	ConsensusReached bool      `json:"consensus_reached"`
	Timestamp        time.Time `json:"timestamp"`
}

// ExportDump is a convenience serialization of a conversation for audit or
// export. It is not a contract other components depend on.
type ExportDump struct {
	Metadata         ExportMetadata   `json:"metadata"`
	Turns            []Turn           `json:"turns"`
	ConsensusSummary *ConsensusResult `json:"consensus_summary"`
}

// Export serializes the conversation with its summary as indented JSON.
func (s *Store) Export(id string) ([]byte, error) {
	conv, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	dump := ExportDump{
		Metadata: ExportMetadata{
			MaxIterations:    conv.MaxIterations,
			TotalIterations:  len(conv.Turns),
			ConsensusReached: conv.ConsensusReached,
			Timestamp:        time.Now(),
		},
		Turns:            conv.Turns,
		ConsensusSummary: Summarize(conv),
	}

	return json.MarshalIndent(dump, "", "  ")
}
