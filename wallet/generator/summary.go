package generator

import (
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/multiset"
)

// GeneratorSummary aggregates every transaction a Generator has emitted.
type GeneratorSummary struct {
	TransactionCount         uint64
	CompoundTransactionCount uint64
	TotalFees                uint64
	UTXOsConsumed            uint64

	// FinalAmount is the value delivered by the final transaction: the sum of
	// the requested outputs, or the swept amount when sweeping.
	FinalAmount        uint64
	FinalTransactionID *externalapi.DomainTransactionID
	TotalMass          uint64

	// ConsumedUTXOsCommitment commits to the set of caller supplied outpoints
	// spent so far, regardless of the order they were spent in.
	ConsumedUTXOsCommitment *externalapi.DomainHash
}

type summaryAggregator struct {
	summary    GeneratorSummary
	commitment multiset.Multiset
}

func newSummaryAggregator() *summaryAggregator {
	return &summaryAggregator{commitment: multiset.New()}
}

// record accounts for an emitted transaction. Outputs of compound transactions
// are removed from the commitment as they are created, so once they are spent
// only caller supplied outpoints remain.
func (a *summaryAggregator) record(pending *PendingTransaction) {
	a.summary.TransactionCount++
	a.summary.UTXOsConsumed += uint64(len(pending.entries))
	a.summary.TotalFees += pending.Fee()
	a.summary.TotalMass += pending.Mass()

	for _, entry := range pending.entries {
		a.commitment.Add(SerializeOutpoint(&entry.Outpoint))
	}

	switch pending.kind {
	case TransactionKindCompound:
		a.summary.CompoundTransactionCount++
		a.commitment.Remove(SerializeOutpoint(&pending.outputEntry.Outpoint))
	case TransactionKindFinal:
		a.summary.FinalAmount = pending.paymentAmount
		a.summary.FinalTransactionID = pending.id.Clone()
	}
}

func (a *summaryAggregator) snapshot() GeneratorSummary {
	summary := a.summary
	if summary.FinalTransactionID != nil {
		summary.FinalTransactionID = summary.FinalTransactionID.Clone()
	}
	summary.ConsumedUTXOsCommitment = a.commitment.Hash()
	return summary
}
