package journal

import (
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
)

// TransactionRecord is the journal entry of a submitted transaction.
type TransactionRecord struct {
	Sequence      uint64   `json:"sequence"`
	TransactionID string   `json:"transactionId"`
	SubmittedID   string   `json:"submittedId"`
	Kind          string   `json:"kind"`
	Fee           uint64   `json:"fee"`
	Mass          uint64   `json:"mass"`
	Inputs        []string `json:"inputs"`
}

type summaryRecord struct {
	TransactionCount         uint64 `json:"transactionCount"`
	CompoundTransactionCount uint64 `json:"compoundTransactionCount"`
	TotalFees                uint64 `json:"totalFees"`
	UTXOsConsumed            uint64 `json:"utxosConsumed"`
	FinalAmount              uint64 `json:"finalAmount"`
	FinalTransactionID       string `json:"finalTransactionId,omitempty"`
	TotalMass                uint64 `json:"totalMass"`
	ConsumedUTXOsCommitment  string `json:"consumedUtxosCommitment,omitempty"`
}

func newTransactionRecord(sequence uint64, pending *generator.PendingTransaction, submittedID string) *TransactionRecord {
	entries := pending.Entries()
	inputs := make([]string, len(entries))
	for i, entry := range entries {
		inputs[i] = entry.Outpoint.String()
	}
	return &TransactionRecord{
		Sequence:      sequence,
		TransactionID: pending.ID().String(),
		SubmittedID:   submittedID,
		Kind:          pending.Kind().String(),
		Fee:           pending.Fee(),
		Mass:          pending.Mass(),
		Inputs:        inputs,
	}
}

func summaryToRecord(summary *generator.GeneratorSummary) *summaryRecord {
	record := &summaryRecord{
		TransactionCount:         summary.TransactionCount,
		CompoundTransactionCount: summary.CompoundTransactionCount,
		TotalFees:                summary.TotalFees,
		UTXOsConsumed:            summary.UTXOsConsumed,
		FinalAmount:              summary.FinalAmount,
		TotalMass:                summary.TotalMass,
	}
	if summary.FinalTransactionID != nil {
		record.FinalTransactionID = summary.FinalTransactionID.String()
	}
	if summary.ConsumedUTXOsCommitment != nil {
		record.ConsumedUTXOsCommitment = summary.ConsumedUTXOsCommitment.String()
	}
	return record
}

func recordToSummary(record *summaryRecord) (*generator.GeneratorSummary, error) {
	summary := &generator.GeneratorSummary{
		TransactionCount:         record.TransactionCount,
		CompoundTransactionCount: record.CompoundTransactionCount,
		TotalFees:                record.TotalFees,
		UTXOsConsumed:            record.UTXOsConsumed,
		FinalAmount:              record.FinalAmount,
		TotalMass:                record.TotalMass,
	}
	if record.FinalTransactionID != "" {
		transactionID, err := externalapi.NewDomainTransactionIDFromString(record.FinalTransactionID)
		if err != nil {
			return nil, errors.Wrap(err, "malformed final transaction ID")
		}
		summary.FinalTransactionID = transactionID
	}
	if record.ConsumedUTXOsCommitment != "" {
		commitment, err := externalapi.NewDomainHashFromString(record.ConsumedUTXOsCommitment)
		if err != nil {
			return nil, errors.Wrap(err, "malformed commitment")
		}
		summary.ConsumedUTXOsCommitment = commitment
	}
	return summary, nil
}
