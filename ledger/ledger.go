package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrInvalidBlock is returned when a block does not extend the chain.
	ErrInvalidBlock = errors.New("invalid block")
	// ErrEmptyLedger is returned by operations that need at least the
	// genesis block.
	ErrEmptyLedger = errors.New("ledger is empty")
)

const genesisPrevHash = "0"

// Ledger is the chain of run blocks of one simulation.
type Ledger struct {
	mu           sync.RWMutex
	simulationID string
	blocks       []Block
	now          func() time.Time
}

// NewLedger creates a ledger for simulationID with an initialized genesis
// block. The genesis block has index 0, previous hash "0" and no run.
func NewLedger(simulationID string) *Ledger {
	l := &Ledger{simulationID: simulationID, now: time.Now}
	genesis := Block{
		Index:     0,
		Timestamp: l.now().Unix(),
		PrevHash:  genesisPrevHash,
		Run:       RunRecord{Run: -1},
		Metadata:  Metadata{SimulationID: simulationID, Worker: -1},
	}
	genesis.Hash = calculateHash(genesis)
	l.blocks = append(l.blocks, genesis)
	return l
}

// FromBlocks rebuilds a ledger from blocks read back from storage. The
// chain is verified before it is returned.
func FromBlocks(blocks []Block) (*Ledger, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyLedger
	}
	l := &Ledger{
		simulationID: blocks[0].Metadata.SimulationID,
		blocks:       append([]Block(nil), blocks...),
		now:          time.Now,
	}
	if err := l.Verify(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) SimulationID() string { return l.simulationID }

// Append adds a block for a completed run, linked to the latest block. The
// extra parameter can optionally carry additional metadata.
func (l *Ledger) Append(run RunRecord, worker int, extra ...map[string]string) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}
	var extraMeta map[string]string
	if len(extra) > 0 {
		extraMeta = extra[0]
	}
	latest := l.blocks[len(l.blocks)-1]

	b := Block{
		Index:     latest.Index + 1,
		Timestamp: l.now().Unix(),
		PrevHash:  latest.Hash,
		Run:       run,
		Metadata: Metadata{
			SimulationID: l.simulationID,
			Worker:       worker,
			Extra:        extraMeta,
		},
	}
	b.Hash = calculateHash(b)

	if err := validateBlock(b, latest); err != nil {
		return Block{}, err
	}
	l.blocks = append(l.blocks, b)
	return b, nil
}

// GetLatest returns the most recently added block.
func (l *Ledger) GetLatest() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}
	return l.blocks[len(l.blocks)-1], nil
}

// GetByIndex retrieves a block by its index in the chain.
func (l *Ledger) GetByIndex(index int) (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.blocks) {
		return Block{}, fmt.Errorf("block index %d out of range [0, %d)", index, len(l.blocks))
	}
	return l.blocks[index], nil
}

// Len returns the number of blocks, genesis included.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// Blocks returns a copy of the chain.
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Block(nil), l.blocks...)
}

// Verify validates the integrity of the entire chain by checking the genesis
// block and each block's index, previous hash link and hash.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return ErrEmptyLedger
	}

	genesis := l.blocks[0]
	if genesis.Index != 0 || genesis.PrevHash != genesisPrevHash {
		return fmt.Errorf("%w: genesis block", ErrInvalidBlock)
	}
	if h := calculateHash(genesis); genesis.Hash != h {
		return fmt.Errorf("%w: genesis hash: expected %s, got %s", ErrInvalidBlock, h, genesis.Hash)
	}

	for i := 1; i < len(l.blocks); i++ {
		if err := validateBlock(l.blocks[i], l.blocks[i-1]); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

// validateBlock checks that current extends previous.
func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("%w: index: expected %d, got %d", ErrInvalidBlock, previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("%w: prev hash: expected %s, got %s", ErrInvalidBlock, previous.Hash, current.PrevHash)
	}
	if current.Metadata.SimulationID != previous.Metadata.SimulationID {
		return fmt.Errorf("%w: simulation %q in a ledger of %q", ErrInvalidBlock, current.Metadata.SimulationID, previous.Metadata.SimulationID)
	}
	if h := calculateHash(current); current.Hash != h {
		return fmt.Errorf("%w: hash: expected %s, got %s", ErrInvalidBlock, h, current.Hash)
	}
	return nil
}

// calculateHash computes the SHA256 hash of a block over its index,
// timestamp, previous hash, run record and metadata. The run and metadata
// are JSON marshaled before hashing.
func calculateHash(b Block) string {
	runBytes, _ := json.Marshal(b.Run)
	metaBytes, _ := json.Marshal(b.Metadata)

	data := fmt.Sprintf("%d%d%s%s%s",
		b.Index,
		b.Timestamp,
		b.PrevHash,
		string(runBytes),
		string(metaBytes),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
