package ledger

import "github.com/luca-patrignani/crapsim/domain/craps"

// Block records one completed run in the ledger
type Block struct {
	Index     int       `json:"index"`
	Timestamp int64     `json:"timestamp"`
	PrevHash  string    `json:"prev_hash"`
	Hash      string    `json:"hash"`
	Run       RunRecord `json:"run"`
	Metadata  Metadata  `json:"metadata"`
}

// RunRecord is the result of one run for every strategy at the table.
type RunRecord struct {
	Run      int                `json:"run"`
	Rolls    int                `json:"rolls"`
	Outcomes []craps.RunOutcome `json:"outcomes"`
}

type Metadata struct {
	SimulationID string            `json:"simulation_id"`
	Worker       int               `json:"worker"`
	Extra        map[string]string `json:"extra,omitempty"`
}
