package generator

import (
	"context"
	"fmt"
	"sync"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/pkg/errors"
)

// TransactionKind tells compound transactions apart from the final one.
type TransactionKind uint8

const (
	// TransactionKindCompound merges entries into a single output to the
	// change address, to be spent by a later transaction of the same run.
	TransactionKindCompound TransactionKind = iota

	// TransactionKindFinal pays the requested outputs and the priority fee.
	TransactionKindFinal
)

func (kind TransactionKind) String() string {
	switch kind {
	case TransactionKindCompound:
		return "compound"
	case TransactionKindFinal:
		return "final"
	default:
		return fmt.Sprintf("unknown transaction kind %d", kind)
	}
}

// SubmissionChannel delivers signed transactions to the network.
// Implementations wrap their failures in ErrNetwork.
type SubmissionChannel interface {
	SubmitTransaction(ctx context.Context, transaction *externalapi.DomainTransaction) (string, error)
}

// SignedTransaction is a signed copy of a pending transaction.
type SignedTransaction struct {
	Transaction *externalapi.DomainTransaction
	ID          *externalapi.DomainTransactionID
	Kind        TransactionKind
}

// PendingTransaction is an unsigned transaction emitted by the Generator.
// Its sign and submit bookkeeping is safe for concurrent use.
type PendingTransaction struct {
	transaction   *externalapi.DomainTransaction
	id            *externalapi.DomainTransactionID
	kind          TransactionKind
	entries       []*UTXOEntryReference
	outputEntry   *UTXOEntryReference
	inputAmount   uint64
	paymentAmount uint64
	params        *dagconfig.Params

	mtx         sync.Mutex
	signed      *SignedTransaction
	isSubmitted bool
}

func newPendingTransaction(transaction *externalapi.DomainTransaction, kind TransactionKind,
	entries []*UTXOEntryReference, paymentAmount uint64, params *dagconfig.Params) (*PendingTransaction, error) {

	inputAmount, err := sumEntries(entries)
	if err != nil {
		return nil, err
	}
	consumedEntries := make([]*UTXOEntryReference, len(entries))
	copy(consumedEntries, entries)

	return &PendingTransaction{
		transaction:   transaction,
		id:            consensushashing.TransactionID(transaction),
		kind:          kind,
		entries:       consumedEntries,
		inputAmount:   inputAmount,
		paymentAmount: paymentAmount,
		params:        params,
	}, nil
}

// ID returns the transaction ID. It does not change once the transaction is signed.
func (p *PendingTransaction) ID() *externalapi.DomainTransactionID {
	return p.id
}

// Kind returns whether this is a compound or the final transaction.
func (p *PendingTransaction) Kind() TransactionKind {
	return p.kind
}

// IsFinal returns whether this is the final transaction of the run.
func (p *PendingTransaction) IsFinal() bool {
	return p.kind == TransactionKindFinal
}

// Transaction returns a copy of the unsigned transaction.
func (p *PendingTransaction) Transaction() *externalapi.DomainTransaction {
	return p.transaction.Clone()
}

// Entries returns the entries spent by the transaction, in input order.
func (p *PendingTransaction) Entries() []*UTXOEntryReference {
	entries := make([]*UTXOEntryReference, len(p.entries))
	copy(entries, p.entries)
	return entries
}

// OutputEntry returns the entry created by a compound transaction, or nil
// for the final transaction.
func (p *PendingTransaction) OutputEntry() *UTXOEntryReference {
	return p.outputEntry
}

// Fee returns the fee paid by the transaction.
func (p *PendingTransaction) Fee() uint64 {
	return p.transaction.Fee
}

// Mass returns the estimated mass of the signed transaction.
func (p *PendingTransaction) Mass() uint64 {
	return p.transaction.Mass
}

// InputAmount returns the sum of the spent entries.
func (p *PendingTransaction) InputAmount() uint64 {
	return p.inputAmount
}

// PaymentAmount returns the value the final transaction delivers to its
// destination. It is zero for compound transactions.
func (p *PendingTransaction) PaymentAmount() uint64 {
	return p.paymentAmount
}

// Sign signs every input with the key that owns it. The pending transaction
// itself stays unsigned.
func (p *PendingTransaction) Sign(keys []*PrivateKey) (*SignedTransaction, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.isSubmitted {
		return p.signed, nil
	}

	signedTransaction, err := sign(p.params, p.transaction, p.entries, keys)
	if err != nil {
		return nil, errors.Wrapf(err, "failed signing %s transaction %s", p.kind, p.id)
	}
	p.signed = &SignedTransaction{
		Transaction: signedTransaction,
		ID:          p.id,
		Kind:        p.kind,
	}
	return p.signed, nil
}

// Submit hands the signed transaction to channel. It may be called only
// once, after a successful Sign. Errors of channel are returned as is.
func (p *PendingTransaction) Submit(ctx context.Context, channel SubmissionChannel) (string, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.isSubmitted {
		return "", errors.Wrapf(ErrAlreadySubmitted, "transaction %s", p.id)
	}
	if p.signed == nil {
		return "", errors.Wrapf(ErrNotSigned, "transaction %s", p.id)
	}
	p.isSubmitted = true

	log.Debugf("Submitting %s transaction %s", p.kind, p.id)
	return channel.SubmitTransaction(ctx, p.signed.Transaction)
}
