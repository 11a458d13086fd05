package staking

// snapshot.go provides a hashable record of the coordinator's full state at
// an epoch boundary: the epoch schedule, the aggregate pending gons, and
// every warmup entry. Snapshots let deployments cross-check state the same
// way epoch records fingerprint consensus state.

import (
	"bytes"
	"crypto/sha256"
	"math/big"
	"sort"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// SnapshotEntry is one warmup position inside a snapshot.
type SnapshotEntry struct {
	Account common.Address
	Deposit *big.Int
	Gons    *big.Int
	Expiry  idx.Epoch
	Lock    bool
}

// Snapshot is the coordinator state record for one point in time.
type Snapshot struct {
	Epoch        Epoch
	GonsInWarmup *big.Int
	Entries      []SnapshotEntry
}

// Snapshot captures the current coordinator state. Entries are ordered by
// account so the encoding, and therefore the hash, is deterministic.
func (c *Coordinator) Snapshot() Snapshot {
	entries := make([]SnapshotEntry, 0, len(c.warmup))
	for account, claim := range c.warmup {
		entries = append(entries, SnapshotEntry{
			Account: account,
			Deposit: new(big.Int).Set(claim.Deposit),
			Gons:    new(big.Int).Set(claim.Gons),
			Expiry:  claim.Expiry,
			Lock:    claim.Lock,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Account.Bytes(), entries[j].Account.Bytes()) < 0
	})
	return Snapshot{
		Epoch:        c.epoch.Copy(),
		GonsInWarmup: new(big.Int).Set(c.gonsInWarmup),
		Entries:      entries,
	}
}

// Hash calculates the SHA256 of the RLP-encoded snapshot.
func (s Snapshot) Hash() hash.Hash {
	hasher := sha256.New()
	err := rlp.Encode(hasher, &s)
	if err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

// Copy creates a deep copy of the snapshot.
func (s Snapshot) Copy() Snapshot {
	cp := s
	cp.Epoch = s.Epoch.Copy()
	cp.GonsInWarmup = new(big.Int).Set(s.GonsInWarmup)
	cp.Entries = make([]SnapshotEntry, len(s.Entries))
	for i, e := range s.Entries {
		cp.Entries[i] = e
		cp.Entries[i].Deposit = new(big.Int).Set(e.Deposit)
		cp.Entries[i].Gons = new(big.Int).Set(e.Gons)
	}
	return cp
}
