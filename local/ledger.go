package local

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/btcsuite/btcutil/base58"

	"github.com/coralledger/coral-go/types"
)

// GasCoinType is the coin type the ledger treats as gas.
const GasCoinType = "0x2::coral::CORAL"

// systemStateV2MinProtocolVersion is the first protocol version whose
// backends serve the V2 system-state shape.
const systemStateV2MinProtocolVersion = 5

// Ledger is a deterministic in-memory chain state. It backs the
// in-process transport: checkpoints form a valid digest chain,
// executed transactions land in the latest checkpoint, and coin
// balances are recomputed from live coin objects on every query.
//
// All methods are safe for concurrent use.
type Ledger struct {
	mu sync.RWMutex

	chainID         string
	protocolVersion uint64
	referenceGas    string
	epoch           uint64

	objects     map[types.ObjectID]*types.ObjectData
	ownedBy     map[types.Address][]types.ObjectID
	coins       map[types.Address][]types.Coin
	checkpoints []types.Checkpoint
	txs         map[types.Digest]*types.TransactionBlock
	txOrder     []types.Digest
	txSenders   map[types.Digest]types.Address
	events      []types.Event

	validators []types.ValidatorSummary
	committee  []int // indices into validators

	subMu   sync.Mutex
	nextSub uint64
	subs    map[uint64]func(any)

	seq uint64 // digest derivation counter
}

// Option seeds or tunes a Ledger.
type Option func(*Ledger)

// WithProtocolVersion pins the protocol version the ledger reports.
// Versions below the V2 threshold make the ledger behave like a
// legacy backend.
func WithProtocolVersion(v uint64) Option {
	return func(l *Ledger) { l.protocolVersion = v }
}

// WithValidators seeds the active validator set. The committee
// defaults to every seeded validator.
func WithValidators(vs []types.ValidatorSummary) Option {
	return func(l *Ledger) {
		l.validators = vs
		l.committee = make([]int, len(vs))
		for i := range vs {
			l.committee[i] = i
		}
	}
}

// WithCommittee restricts the consensus committee to the given
// indices into the validator set.
func WithCommittee(indices []int) Option {
	return func(l *Ledger) { l.committee = indices }
}

// NewLedger creates a ledger with a genesis checkpoint.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		chainID:         "35834a8a",
		protocolVersion: 6,
		referenceGas:    "1000",
		epoch:           0,
		objects:         make(map[types.ObjectID]*types.ObjectData),
		ownedBy:         make(map[types.Address][]types.ObjectID),
		coins:           make(map[types.Address][]types.Coin),
		txs:             make(map[types.Digest]*types.TransactionBlock),
		txSenders:       make(map[types.Digest]types.Address),
		subs:            make(map[uint64]func(any)),
	}
	for _, opt := range opts {
		opt(l)
	}
	// Genesis checkpoint: sequence 0, no previous digest.
	l.checkpoints = append(l.checkpoints, types.Checkpoint{
		Epoch:                    "0",
		SequenceNumber:           "0",
		Digest:                   l.nextDigest(),
		NetworkTotalTransactions: "0",
		TimestampMs:              strconv.FormatInt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), 10),
		Transactions:             []types.Digest{},
		CheckpointCommitments:    []string{},
		EpochRollingGasCostSummary: types.GasCostSummary{
			ComputationCost: "0", StorageCost: "0", StorageRebate: "0", NonRefundableStorageFee: "0",
		},
	})
	return l
}

// nextDigest derives a fresh deterministic 32-byte digest.
func (l *Ledger) nextDigest() types.Digest {
	l.seq++
	var raw [32]byte
	binary.BigEndian.PutUint64(raw[24:], l.seq)
	raw[0] = 0xc0 // keep leading byte non-zero so base58 round-trips 32 bytes
	return types.Digest(base58.Encode(raw[:]))
}

// nextObjectID derives a fresh deterministic object id.
func (l *Ledger) nextObjectID() types.ObjectID {
	l.seq++
	return types.ObjectID(fmt.Sprintf("0x%064x", l.seq))
}

// --- Seeding ---

// SeedObject creates an address-owned object and returns it.
func (l *Ledger) SeedObject(owner types.Address, objType string, content []byte) *types.ObjectData {
	l.mu.Lock()
	defer l.mu.Unlock()
	o := owner
	obj := &types.ObjectData{
		ObjectID: l.nextObjectID(),
		Version:  "1",
		Digest:   l.nextDigest(),
		Type:     &objType,
		Owner:    &types.ObjectOwner{AddressOwner: &o},
		Content:  content,
	}
	l.objects[obj.ObjectID] = obj
	l.ownedBy[owner] = append(l.ownedBy[owner], obj.ObjectID)
	return obj
}

// SeedCoin mints a coin object for an owner.
func (l *Ledger) SeedCoin(owner types.Address, coinType string, balance uint64) types.Coin {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := types.Coin{
		CoinType:     coinType,
		CoinObjectID: l.nextObjectID(),
		Version:      "1",
		Digest:       l.nextDigest(),
		Balance:      strconv.FormatUint(balance, 10),
	}
	l.coins[owner] = append(l.coins[owner], c)
	return c
}

// SealCheckpoint commits all pending transactions into a new
// checkpoint and returns it. The new checkpoint links to its
// predecessor's digest.
func (l *Ledger) SealCheckpoint() types.Checkpoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sealLocked(nil)
}

// SealEpochBoundary seals a checkpoint carrying end-of-epoch data
// and advances the epoch.
func (l *Ledger) SealEpochBoundary(nextProtocolVersion uint64) types.Checkpoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	committee := make([]types.CommitteeMember, 0, len(l.committee))
	for _, i := range l.committee {
		if i >= 0 && i < len(l.validators) {
			committee = append(committee, types.CommitteeMember{
				AuthorityName: l.validators[i].ProtocolPubkeyBytes,
				StakeUnit:     l.validators[i].VotingPower,
			})
		}
	}
	eoe := &types.EndOfEpochData{
		NextEpochCommittee:       committee,
		NextEpochProtocolVersion: strconv.FormatUint(nextProtocolVersion, 10),
		EpochCommitments:         []string{},
	}
	cp := l.sealLocked(eoe)
	l.epoch++
	return cp
}

func (l *Ledger) sealLocked(eoe *types.EndOfEpochData) types.Checkpoint {
	prev := l.checkpoints[len(l.checkpoints)-1]
	prevDigest := prev.Digest

	var pending []types.Digest
	committed := make(map[types.Digest]bool)
	for _, cp := range l.checkpoints {
		for _, d := range cp.Transactions {
			committed[d] = true
		}
	}
	for _, d := range l.txOrder {
		if !committed[d] {
			pending = append(pending, d)
		}
	}

	seq := uint64(len(l.checkpoints))
	cp := types.Checkpoint{
		Epoch:                    strconv.FormatUint(l.epoch, 10),
		SequenceNumber:           strconv.FormatUint(seq, 10),
		Digest:                   l.nextDigest(),
		PreviousDigest:           &prevDigest,
		NetworkTotalTransactions: strconv.Itoa(len(l.txOrder)),
		TimestampMs:              strconv.FormatInt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq)*10*time.Second).UnixMilli(), 10),
		Transactions:             pending,
		CheckpointCommitments:    []string{},
		EndOfEpochData:           eoe,
		EpochRollingGasCostSummary: types.GasCostSummary{
			ComputationCost: "0", StorageCost: "0", StorageRebate: "0", NonRefundableStorageFee: "0",
		},
	}
	l.checkpoints = append(l.checkpoints, cp)
	seqStr := cp.SequenceNumber
	for _, d := range pending {
		if tx := l.txs[d]; tx != nil {
			tx.Checkpoint = &seqStr
			tx.TimestampMs = &cp.TimestampMs
		}
	}
	return cp
}

// RecordTransaction registers an executed transaction. It becomes
// visible to lookups immediately and is committed to a checkpoint by
// the next Seal call. Transaction subscribers are notified with its
// effects.
func (l *Ledger) RecordTransaction(sender types.Address, rawTx string, events []types.Event) *types.TransactionBlock {
	l.mu.Lock()
	digest := l.nextDigest()
	tb := &types.TransactionBlock{
		Digest:         digest,
		RawTransaction: rawTx,
		Effects: &types.TransactionEffects{
			Status:            types.ExecutionStatus{Status: "success"},
			ExecutedEpoch:     strconv.FormatUint(l.epoch, 10),
			TransactionDigest: digest,
			GasUsed: types.GasCostSummary{
				ComputationCost: "1000", StorageCost: "2280", StorageRebate: "0", NonRefundableStorageFee: "0",
			},
		},
	}
	for i := range events {
		events[i].ID = types.EventID{TxDigest: digest, EventSeq: strconv.Itoa(i)}
		events[i].Sender = sender
		l.events = append(l.events, events[i])
		tb.Events = append(tb.Events, events[i])
	}
	l.txs[digest] = tb
	l.txOrder = append(l.txOrder, digest)
	l.txSenders[digest] = sender
	l.mu.Unlock()

	l.notify(*tb.Effects)
	for _, ev := range tb.Events {
		l.notify(ev)
	}
	return tb
}

// --- Subscriptions ---

func (l *Ledger) subscribe(fn func(any)) uint64 {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.nextSub++
	l.subs[l.nextSub] = fn
	return l.nextSub
}

func (l *Ledger) unsubscribe(id uint64) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	delete(l.subs, id)
}

func (l *Ledger) notify(msg any) {
	l.subMu.Lock()
	fns := make([]func(any), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.subMu.Unlock()
	for _, fn := range fns {
		fn(msg)
	}
}
