package ledger

// rebase.go implements the supply-growth engine: the staking coordinator
// feeds in each epoch's profit, the ledger grows the total supply in
// proportion to the circulating share, recomputes the scaling factor, and
// appends an immutable history record.

import (
	"crypto/sha256"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-opera-staking/protocol"
)

// RebaseRecord captures one executed supply expansion. Records are
// append-only: once stored they are never mutated or deleted.
type RebaseRecord struct {
	// Epoch is the distribution epoch the profit belongs to.
	Epoch idx.Epoch

	// Rate is the growth applied to circulating supply, as an 18-decimal
	// fixed-point fraction (profit * 1e18 / circulating-before).
	Rate *big.Int

	// TotalStakedBefore is the circulating supply before the expansion.
	TotalStakedBefore *big.Int

	// TotalStakedAfter is the circulating supply after the expansion.
	TotalStakedAfter *big.Int

	// Amount is the profit that drove the expansion, in visible units.
	Amount *big.Int

	// Index is the ledger index immediately after the expansion.
	Index *big.Int

	// Height is the chain height the expansion was executed at.
	Height idx.Block
}

// Hash calculates a deterministic fingerprint of the record: the SHA256 of
// its RLP encoding. Used to cross-check history between deployments.
func (r RebaseRecord) Hash() hash.Hash {
	hasher := sha256.New()
	err := rlp.Encode(hasher, &r)
	if err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

// Copy creates a deep copy of the record.
func (r RebaseRecord) Copy() RebaseRecord {
	cp := r
	cp.Rate = new(big.Int).Set(r.Rate)
	cp.TotalStakedBefore = new(big.Int).Set(r.TotalStakedBefore)
	cp.TotalStakedAfter = new(big.Int).Set(r.TotalStakedAfter)
	cp.Amount = new(big.Int).Set(r.Amount)
	cp.Index = new(big.Int).Set(r.Index)
	return cp
}

// Rebase grows the total supply by profit's share of circulating supply.
// Only the staking coordinator may call it, and only after the genesis
// index has been set.
//
// A zero profit is a heartbeat: it is logged for observability but appends
// no history record, so the history remains a list of actual growth events.
//
// The expansion saturates at the configured supply ceiling instead of
// failing; the scaling factor is recomputed in the same call, before any
// balance read can observe the new supply. Returns the new total supply.
func (l *Ledger) Rebase(caller common.Address, profit *big.Int, epoch idx.Epoch) (*big.Int, error) {
	if caller != l.stakingAddr {
		return nil, ErrNotStakingContract
	}
	if l.genesisIndexGons == nil {
		return nil, ErrIndexNotSet
	}
	if err := checkAmount(profit); err != nil {
		return nil, err
	}

	if profit.Sign() == 0 {
		log.WithFields(map[string]interface{}{
			"epoch":  epoch,
			"supply": l.totalSupply,
		}).Info("rebase heartbeat, zero profit")
		return l.TotalSupply(), nil
	}

	circBefore := l.CirculatingSupply()

	// Scale profit to the whole supply: holders outside the staking float
	// grow by profit/circ, so the total grows by profit*total/circ.
	var rebaseAmount *big.Int
	if circBefore.Sign() > 0 {
		rebaseAmount = new(big.Int).Mul(profit, l.totalSupply)
		rebaseAmount.Div(rebaseAmount, circBefore)
	} else {
		rebaseAmount = new(big.Int).Set(profit)
	}

	l.totalSupply.Add(l.totalSupply, rebaseAmount)
	if l.totalSupply.Cmp(l.maxSupply) > 0 {
		l.totalSupply.Set(l.maxSupply)
	}

	// Invariant: the scaling factor tracks the new supply before any other
	// observable read.
	l.gonsPerFragment = new(big.Int).Div(l.totalGons, l.totalSupply)

	l.storeRebase(circBefore, profit, epoch)
	return l.TotalSupply(), nil
}

// History returns a deep copy of the rebase history.
func (l *Ledger) History() []RebaseRecord {
	cp := make([]RebaseRecord, len(l.history))
	for i, r := range l.history {
		cp[i] = r.Copy()
	}
	return cp
}

// RecordCount reports the number of stored growth events.
func (l *Ledger) RecordCount() int {
	return len(l.history)
}

// LastRecord returns a copy of the most recent growth event, or false when
// no rebase has executed yet.
func (l *Ledger) LastRecord() (RebaseRecord, bool) {
	if len(l.history) == 0 {
		return RebaseRecord{}, false
	}
	return l.history[len(l.history)-1].Copy(), true
}

func (l *Ledger) storeRebase(circBefore, profit *big.Int, epoch idx.Epoch) {
	rate := new(big.Int)
	if circBefore.Sign() > 0 {
		rate.Mul(profit, protocol.RebasePrecision)
		rate.Div(rate, circBefore)
	}

	index, _ := l.Index()

	var height idx.Block
	if l.height != nil {
		height = l.height()
	}

	record := RebaseRecord{
		Epoch:             epoch,
		Rate:              rate,
		TotalStakedBefore: circBefore,
		TotalStakedAfter:  l.CirculatingSupply(),
		Amount:            new(big.Int).Set(profit),
		Index:             index,
		Height:            height,
	}
	l.history = append(l.history, record)

	log.WithFields(map[string]interface{}{
		"epoch":  epoch,
		"profit": profit,
		"rate":   rate,
		"supply": l.totalSupply,
		"index":  index,
		"height": height,
	}).Info("rebase executed")
}
