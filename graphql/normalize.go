package graphql

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coralledger/coral-go/types"
)

// Raw backend node shapes. These mirror the query documents in
// queries.go and never leave this package.

type pageInfoNode struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type gasSummaryNode struct {
	ComputationCost         string `json:"computationCost"`
	StorageCost             string `json:"storageCost"`
	StorageRebate           string `json:"storageRebate"`
	NonRefundableStorageFee string `json:"nonRefundableStorageFee"`
}

type checkpointNode struct {
	Digest                   string  `json:"digest"`
	SequenceNumber           uint64  `json:"sequenceNumber"`
	Timestamp                string  `json:"timestamp"`
	PreviousCheckpointDigest *string `json:"previousCheckpointDigest"`
	NetworkTotalTransactions uint64  `json:"networkTotalTransactions"`
	ValidatorSignatures      string  `json:"validatorSignatures"`
	Epoch                    struct {
		EpochID uint64 `json:"epochId"`
	} `json:"epoch"`
	RollingGasSummary gasSummaryNode `json:"rollingGasSummary"`
	TransactionBlocks struct {
		Nodes []struct {
			Digest string `json:"digest"`
		} `json:"nodes"`
	} `json:"transactionBlocks"`
	EndOfEpochTx struct {
		Nodes []endOfEpochTxNode `json:"nodes"`
	} `json:"endOfEpochTx"`
}

type endOfEpochTxNode struct {
	Kind struct {
		Typename     string `json:"__typename"`
		Transactions struct {
			Nodes []changeEpochNode `json:"nodes"`
		} `json:"transactions"`
	} `json:"kind"`
}

type changeEpochNode struct {
	Typename        string `json:"__typename"`
	ProtocolVersion uint64 `json:"protocolVersion"`
	Epoch           struct {
		ValidatorSet struct {
			ActiveValidators struct {
				Nodes []struct {
					Credentials struct {
						ProtocolPubKey string `json:"protocolPubKey"`
					} `json:"credentials"`
					VotingPower uint64 `json:"votingPower"`
				} `json:"nodes"`
			} `json:"activeValidators"`
		} `json:"validatorSet"`
	} `json:"epoch"`
}

type balanceNode struct {
	CoinType struct {
		Repr string `json:"repr"`
	} `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    string `json:"totalBalance"`
}

type coinNode struct {
	CoinBalance string `json:"coinBalance"`
	Contents    struct {
		Type struct {
			Repr string `json:"repr"`
		} `json:"type"`
	} `json:"contents"`
	Address                  string `json:"address"`
	Version                  uint64 `json:"version"`
	Digest                   string `json:"digest"`
	PreviousTransactionBlock *struct {
		Digest string `json:"digest"`
	} `json:"previousTransactionBlock"`
}

type objectNode struct {
	Address       string  `json:"address"`
	Version       uint64  `json:"version"`
	Digest        string  `json:"digest"`
	StorageRebate *string `json:"storageRebate"`
	PreviousTransactionBlock *struct {
		Digest string `json:"digest"`
	} `json:"previousTransactionBlock"`
	Owner *struct {
		Typename string `json:"__typename"`
		Owner    *struct {
			Address string `json:"address"`
		} `json:"owner"`
		Parent *struct {
			Address string `json:"address"`
		} `json:"parent"`
		InitialSharedVersion *uint64 `json:"initialSharedVersion"`
	} `json:"owner"`
	Contents *struct {
		Type struct {
			Repr string `json:"repr"`
		} `json:"type"`
		JSON jsonRaw `json:"json"`
	} `json:"contents"`
}

type transactionBlockNode struct {
	Digest  string `json:"digest"`
	BCS     string `json:"bcs"`
	Effects *struct {
		Status    string  `json:"status"`
		Errors    *string `json:"errors"`
		Timestamp string  `json:"timestamp"`
		Epoch     *struct {
			EpochID uint64 `json:"epochId"`
		} `json:"epoch"`
		Checkpoint *struct {
			SequenceNumber uint64 `json:"sequenceNumber"`
		} `json:"checkpoint"`
		GasEffects *struct {
			GasSummary gasSummaryNode `json:"gasSummary"`
		} `json:"gasEffects"`
		BalanceChanges struct {
			Nodes []balanceChangeNode `json:"nodes"`
		} `json:"balanceChanges"`
		Events struct {
			Nodes []eventNode `json:"nodes"`
		} `json:"events"`
	} `json:"effects"`
}

type balanceChangeNode struct {
	Owner *struct {
		Address string `json:"address"`
	} `json:"owner"`
	CoinType struct {
		Repr string `json:"repr"`
	} `json:"coinType"`
	Amount string `json:"amount"`
}

type dynamicFieldNode struct {
	Name struct {
		Type struct {
			Repr string `json:"repr"`
		} `json:"type"`
		JSON jsonRaw `json:"json"`
		BCS  string  `json:"bcs"`
	} `json:"name"`
	Value *struct {
		Typename string `json:"__typename"`
		Address  string `json:"address"`
		Version  uint64 `json:"version"`
		Digest   string `json:"digest"`
		Contents *struct {
			Type struct {
				Repr string `json:"repr"`
			} `json:"type"`
		} `json:"contents"`
		Type *struct {
			Repr string `json:"repr"`
		} `json:"type"`
	} `json:"value"`
}

type eventNode struct {
	SendingModule *struct {
		Package struct {
			Address string `json:"address"`
		} `json:"package"`
		Name string `json:"name"`
	} `json:"sendingModule"`
	Sender *struct {
		Address string `json:"address"`
	} `json:"sender"`
	Type struct {
		Repr string `json:"repr"`
	} `json:"type"`
	Timestamp string `json:"timestamp"`
	Contents  struct {
		JSON jsonRaw `json:"json"`
		BCS  string  `json:"bcs"`
	} `json:"contents"`
	TransactionBlock *struct {
		Digest string `json:"digest"`
	} `json:"transactionBlock"`
}

type jsonRaw = json.RawMessage

// --- Mapping functions ---

// mapCheckpoint normalizes one GraphQL checkpoint node into the
// canonical Checkpoint. The end-of-epoch payload is advisory: when
// its transaction is present but not of the expected kind, the
// lenient default omits the field; strict mode reports a shape error
// instead.
func mapCheckpoint(n *checkpointNode, strict bool) (*types.Checkpoint, error) {
	cp := &types.Checkpoint{
		Epoch:                      strconv.FormatUint(n.Epoch.EpochID, 10),
		SequenceNumber:             strconv.FormatUint(n.SequenceNumber, 10),
		Digest:                     types.Digest(n.Digest),
		NetworkTotalTransactions:   strconv.FormatUint(n.NetworkTotalTransactions, 10),
		TimestampMs:                isoToMs(n.Timestamp),
		ValidatorSignature:         n.ValidatorSignatures,
		EpochRollingGasCostSummary: types.GasCostSummary(n.RollingGasSummary),
		CheckpointCommitments:      []string{},
	}
	// The genesis checkpoint has no predecessor; the field is
	// omitted, never an empty string.
	if n.PreviousCheckpointDigest != nil && *n.PreviousCheckpointDigest != "" {
		d := types.Digest(*n.PreviousCheckpointDigest)
		cp.PreviousDigest = &d
	}
	cp.Transactions = make([]types.Digest, len(n.TransactionBlocks.Nodes))
	for i, tx := range n.TransactionBlocks.Nodes {
		cp.Transactions[i] = types.Digest(tx.Digest)
	}

	eoe, err := mapEndOfEpoch(n, strict)
	if err != nil {
		return nil, err
	}
	cp.EndOfEpochData = eoe
	return cp, nil
}

func mapEndOfEpoch(n *checkpointNode, strict bool) (*types.EndOfEpochData, error) {
	if len(n.EndOfEpochTx.Nodes) == 0 {
		return nil, nil
	}
	kind := n.EndOfEpochTx.Nodes[0].Kind
	if kind.Typename != "EndOfEpochTransaction" {
		if strict {
			return nil, fmt.Errorf("checkpoint %s: unexpected end-of-epoch transaction kind %q", n.Digest, kind.Typename)
		}
		return nil, nil
	}
	if len(kind.Transactions.Nodes) == 0 {
		return nil, nil
	}
	change := kind.Transactions.Nodes[0]
	if change.Typename != "ChangeEpochTransaction" {
		if strict {
			return nil, fmt.Errorf("checkpoint %s: unexpected epoch-change transaction kind %q", n.Digest, change.Typename)
		}
		return nil, nil
	}

	validators := change.Epoch.ValidatorSet.ActiveValidators.Nodes
	committee := make([]types.CommitteeMember, len(validators))
	for i, v := range validators {
		committee[i] = types.CommitteeMember{
			AuthorityName: v.Credentials.ProtocolPubKey,
			StakeUnit:     strconv.FormatUint(v.VotingPower, 10),
		}
	}
	return &types.EndOfEpochData{
		NextEpochCommittee:       committee,
		NextEpochProtocolVersion: strconv.FormatUint(change.ProtocolVersion, 10),
		EpochCommitments:         []string{},
	}, nil
}

func mapBalance(n *balanceNode) types.CoinBalance {
	return types.CoinBalance{
		CoinType:        n.CoinType.Repr,
		CoinObjectCount: n.CoinObjectCount,
		TotalBalance:    n.TotalBalance,
	}
}

func mapCoin(n *coinNode) types.Coin {
	c := types.Coin{
		CoinType:     n.Contents.Type.Repr,
		CoinObjectID: types.ObjectID(n.Address),
		Version:      strconv.FormatUint(n.Version, 10),
		Digest:       types.Digest(n.Digest),
		Balance:      n.CoinBalance,
	}
	if n.PreviousTransactionBlock != nil {
		c.PreviousTransaction = types.Digest(n.PreviousTransactionBlock.Digest)
	}
	return c
}

func mapObject(n *objectNode) types.ObjectResponse {
	data := &types.ObjectData{
		ObjectID: types.ObjectID(n.Address),
		Version:  strconv.FormatUint(n.Version, 10),
		Digest:   types.Digest(n.Digest),
	}
	if n.StorageRebate != nil {
		data.StorageRebate = n.StorageRebate
	}
	if n.PreviousTransactionBlock != nil {
		d := types.Digest(n.PreviousTransactionBlock.Digest)
		data.PreviousTransaction = &d
	}
	if n.Contents != nil {
		t := n.Contents.Type.Repr
		data.Type = &t
		data.Content = append([]byte(nil), n.Contents.JSON...)
	}
	if n.Owner != nil {
		owner := &types.ObjectOwner{}
		switch n.Owner.Typename {
		case "AddressOwner":
			if n.Owner.Owner != nil {
				a := types.Address(n.Owner.Owner.Address)
				owner.AddressOwner = &a
			}
		case "Parent":
			if n.Owner.Parent != nil {
				p := types.ObjectID(n.Owner.Parent.Address)
				owner.ObjectOwner = &p
			}
		case "Shared":
			if n.Owner.InitialSharedVersion != nil {
				owner.Shared = &types.SharedOwner{
					InitialSharedVersion: strconv.FormatUint(*n.Owner.InitialSharedVersion, 10),
				}
			}
		case "Immutable":
			owner.Immutable = true
		}
		data.Owner = owner
	}
	return types.ObjectResponse{Data: data}
}

// mapTransactionBlock normalizes one GraphQL transaction node. A
// transaction looked up before finality has no effects; the canonical
// shape leaves the Effects field nil in that case.
func mapTransactionBlock(n *transactionBlockNode) *types.TransactionBlock {
	tb := &types.TransactionBlock{
		Digest:         types.Digest(n.Digest),
		RawTransaction: n.BCS,
	}
	if n.Effects == nil {
		return tb
	}
	eff := &types.TransactionEffects{
		Status:            types.ExecutionStatus{Status: strings.ToLower(n.Effects.Status)},
		TransactionDigest: types.Digest(n.Digest),
	}
	if n.Effects.Errors != nil {
		eff.Status.Error = *n.Effects.Errors
	}
	if n.Effects.Epoch != nil {
		eff.ExecutedEpoch = strconv.FormatUint(n.Effects.Epoch.EpochID, 10)
	}
	if n.Effects.GasEffects != nil {
		eff.GasUsed = types.GasCostSummary(n.Effects.GasEffects.GasSummary)
	}
	tb.Effects = eff

	if n.Effects.Checkpoint != nil {
		seq := strconv.FormatUint(n.Effects.Checkpoint.SequenceNumber, 10)
		tb.Checkpoint = &seq
	}
	if n.Effects.Timestamp != "" {
		ms := isoToMs(n.Effects.Timestamp)
		tb.TimestampMs = &ms
	}
	for i := range n.Effects.Events.Nodes {
		tb.Events = append(tb.Events, mapEvent(&n.Effects.Events.Nodes[i], i))
	}
	for _, bc := range n.Effects.BalanceChanges.Nodes {
		change := types.BalanceChange{CoinType: bc.CoinType.Repr, Amount: bc.Amount}
		if bc.Owner != nil {
			a := types.Address(bc.Owner.Address)
			change.Owner = types.ObjectOwner{AddressOwner: &a}
		}
		tb.BalanceChanges = append(tb.BalanceChanges, change)
	}
	return tb
}

func mapDynamicField(n *dynamicFieldNode) types.DynamicFieldInfo {
	info := types.DynamicFieldInfo{
		Name: types.DynamicFieldName{
			Type:  n.Name.Type.Repr,
			Value: append([]byte(nil), n.Name.JSON...),
		},
		BcsName: n.Name.BCS,
		Type:    "DynamicField",
	}
	if n.Value == nil {
		return info
	}
	if n.Value.Typename == "MoveObject" {
		info.Type = "DynamicObject"
		info.ObjectID = types.ObjectID(n.Value.Address)
		info.Version = strconv.FormatUint(n.Value.Version, 10)
		info.Digest = types.Digest(n.Value.Digest)
		if n.Value.Contents != nil {
			info.ObjectType = n.Value.Contents.Type.Repr
		}
		return info
	}
	if n.Value.Type != nil {
		info.ObjectType = n.Value.Type.Repr
	}
	return info
}

func mapEvent(n *eventNode, txSeq int) types.Event {
	ev := types.Event{
		Type: n.Type.Repr,
		BCS:  n.Contents.BCS,
	}
	if len(n.Contents.JSON) > 0 {
		ev.ParsedJSON = append([]byte(nil), n.Contents.JSON...)
	}
	if n.Sender != nil {
		ev.Sender = types.Address(n.Sender.Address)
	}
	if n.SendingModule != nil {
		ev.PackageID = types.ObjectID(n.SendingModule.Package.Address)
		ev.TransactionModule = n.SendingModule.Name
	}
	if n.TransactionBlock != nil {
		ev.ID = types.EventID{
			TxDigest: types.Digest(n.TransactionBlock.Digest),
			EventSeq: strconv.Itoa(txSeq),
		}
	}
	if n.Timestamp != "" {
		ms := isoToMs(n.Timestamp)
		ev.TimestampMs = &ms
	}
	return ev
}

func mapPageInfo[T any](data []T, pi pageInfoNode) *types.Page[T] {
	return &types.Page[T]{
		Data:        data,
		NextCursor:  pi.EndCursor,
		HasNextPage: pi.HasNextPage,
	}
}

// isoToMs converts a backend ISO-8601 timestamp to the canonical
// milliseconds-since-epoch decimal string. Unparseable input maps to
// "0" — timestamps are advisory display data.
func isoToMs(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "0"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}
