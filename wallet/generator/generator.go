package generator

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/constants"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/txscript"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/infrastructure/logger"
	"github.com/kaspanet/txgenerator/util"
	"github.com/kaspanet/txgenerator/util/txmass"
	"github.com/looplab/fsm"
	"github.com/pkg/errors"
)

const (
	stateAccumulating = "accumulating"
	stateCompounding  = "compounding"
	stateDone         = "done"

	eventAccumulate = "accumulate"
	eventCompound   = "compound"
	eventFinalize   = "finalize"
)

// Settings configure a generation run.
type Settings struct {
	// Entries are the spendable entries, in the order they should be
	// considered. See SortEntriesByAmount.
	Entries     []*UTXOEntryReference
	Destination PaymentDestination
	PriorityFee uint64

	// ChangeAddress receives change, compound outputs and, when sweeping,
	// the swept value.
	ChangeAddress util.Address

	// Payload is carried by the final transaction only.
	Payload []byte
	Params  *dagconfig.Params
}

// Generator turns a set of entries and requested payments into a sequence of
// transactions. Every transaction but the last compounds entries into a
// single output to the change address; the last one pays the requested
// outputs. A Generator is not safe for concurrent use.
type Generator struct {
	params        *dagconfig.Params
	destination   PaymentDestination
	priorityFee   uint64
	changeAddress util.Address
	payload       []byte

	assembler      *assembler
	accumulator    *accumulator
	paymentOutputs []*externalapi.DomainTransactionOutput

	// pool holds the outputs of compound transactions that were not spent yet.
	pool []*UTXOEntryReference

	paymentAmount  uint64
	requiredAmount uint64

	stateMachine *fsm.FSM
	aggregator   *summaryAggregator

	// err is the error that stopped the run, returned by every later Next
	err error
}

// New validates settings and returns a Generator ready to emit transactions.
// It fails without emitting anything when the entries cannot fund the
// requested payments or when no transaction of the required shape fits the
// mass limit.
func New(settings *Settings) (*Generator, error) {
	params := settings.Params
	if params == nil {
		return nil, errors.New("missing network parameters")
	}
	if settings.ChangeAddress == nil {
		return nil, ErrMissingChangeAddress
	}
	if !settings.ChangeAddress.IsForPrefix(params.Prefix) {
		return nil, errors.Wrapf(ErrAddressNetworkMismatch, "change address %s is not a %s address",
			settings.ChangeAddress, params.Name)
	}
	changeScriptPublicKey, err := txscript.PayToAddrScript(settings.ChangeAddress)
	if err != nil {
		return nil, err
	}

	paymentOutputs, err := paymentTransactionOutputs(settings.Destination, params)
	if err != nil {
		return nil, err
	}
	paymentAmount, err := sumOutputs(paymentOutputs)
	if err != nil {
		return nil, err
	}
	requiredAmount, err := addAmounts(paymentAmount, settings.PriorityFee)
	if err != nil {
		return nil, errors.Wrapf(err, "outputs and priority fee")
	}

	err = checkDuplicateEntries(settings.Entries)
	if err != nil {
		return nil, err
	}
	entries, err := resolveEntryAddresses(settings.Entries, params)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		params:        params,
		destination:   settings.Destination,
		priorityFee:   settings.PriorityFee,
		changeAddress: settings.ChangeAddress,
		payload:       settings.Payload,
		assembler: &assembler{
			calculator:            txmass.NewCalculatorFromParams(params),
			changeScriptPublicKey: changeScriptPublicKey,
		},
		accumulator:    newAccumulator(entries),
		paymentOutputs: paymentOutputs,
		paymentAmount:  paymentAmount,
		requiredAmount: requiredAmount,
		aggregator:     newSummaryAggregator(),
	}

	err = g.checkFeasibility(entries)
	if err != nil {
		return nil, err
	}

	g.stateMachine = fsm.NewFSM(
		stateAccumulating,
		fsm.Events{
			{Name: eventCompound, Src: []string{stateAccumulating}, Dst: stateCompounding},
			{Name: eventAccumulate, Src: []string{stateCompounding}, Dst: stateAccumulating},
			{Name: eventFinalize, Src: []string{stateAccumulating}, Dst: stateDone},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Tracef("Generator moved from %s to %s", e.Src, e.Dst)
			},
		},
	)

	return g, nil
}

func paymentTransactionOutputs(destination PaymentDestination,
	params *dagconfig.Params) ([]*externalapi.DomainTransactionOutput, error) {

	if destination.IsChange() {
		return nil, nil
	}

	outputs := destination.Outputs()
	if len(outputs) == 0 {
		return nil, ErrNoOutputs
	}

	transactionOutputs := make([]*externalapi.DomainTransactionOutput, len(outputs))
	for i, output := range outputs {
		if output.Amount == 0 {
			return nil, errors.Wrapf(ErrZeroOutput, "output %d to %s", i, output.Address)
		}
		if output.Amount > constants.MaxSompi {
			return nil, errors.Wrapf(ErrAmountOverflow, "output %d to %s of %d sompi",
				i, output.Address, output.Amount)
		}
		if !output.Address.IsForPrefix(params.Prefix) {
			return nil, errors.Wrapf(ErrAddressNetworkMismatch, "output %d address %s is not a %s address",
				i, output.Address, params.Name)
		}
		scriptPublicKey, err := txscript.PayToAddrScript(output.Address)
		if err != nil {
			return nil, err
		}
		transactionOutputs[i] = &externalapi.DomainTransactionOutput{
			Value:           output.Amount,
			ScriptPublicKey: scriptPublicKey,
		}
	}
	return transactionOutputs, nil
}

func checkDuplicateEntries(entries []*UTXOEntryReference) error {
	seen := make(map[externalapi.DomainOutpoint]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Outpoint]; ok {
			return errors.Wrapf(ErrDuplicateEntry, "outpoint %s", entry.Outpoint)
		}
		seen[entry.Outpoint] = struct{}{}
	}
	return nil
}

// resolveEntryAddresses fills in missing owner addresses from the script
// public keys of the entries.
func resolveEntryAddresses(entries []*UTXOEntryReference, params *dagconfig.Params) ([]*UTXOEntryReference, error) {
	resolved := make([]*UTXOEntryReference, len(entries))
	for i, entry := range entries {
		if entry.Address != nil {
			resolved[i] = entry
			continue
		}
		_, address, err := txscript.ExtractScriptPubKeyAddress(entry.Entry.ScriptPublicKey(), params)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot resolve the owner of entry %s", entry.Outpoint)
		}
		if address == nil {
			return nil, errors.Errorf("entry %s has a nonstandard script public key "+
				"and no owner address", entry.Outpoint)
		}
		entryCopy := *entry
		entryCopy.Address = address
		resolved[i] = &entryCopy
	}
	return resolved, nil
}

func (g *Generator) checkFeasibility(entries []*UTXOEntryReference) error {
	total, err := sumEntries(entries)
	if err != nil {
		return err
	}
	if g.destination.IsChange() {
		if total <= g.priorityFee {
			return errors.Wrapf(ErrInsufficientFunds, "entries of %d sompi cannot pay "+
				"a priority fee of %d sompi", total, g.priorityFee)
		}
	} else if total < g.requiredAmount {
		return errors.Wrapf(ErrInsufficientFunds, "entries of %d sompi cannot cover "+
			"outputs of %d sompi and a priority fee of %d sompi", total, g.paymentAmount, g.priorityFee)
	}

	calculator := g.assembler.calculator
	finalMass := g.assembler.estimateComputeMass(1, g.finalShapeOutputs(), g.payload)
	if calculator.ExceedsMaxMass(finalMass) {
		return errors.Wrapf(ErrOutputsExceedMass, "a final transaction with a single input "+
			"has mass %d, above the limit of %d", finalMass, calculator.MaxMass())
	}
	if len(entries) > 1 {
		compoundMass := g.assembler.estimateComputeMass(2,
			[]*externalapi.DomainTransactionOutput{g.assembler.changeOutput()}, nil)
		if calculator.ExceedsMaxMass(compoundMass) {
			return errors.Wrapf(ErrMassLimitTooLow, "a compound transaction with two inputs "+
				"has mass %d, above the limit of %d", compoundMass, calculator.MaxMass())
		}
	}
	return nil
}

// finalShapeOutputs returns the outputs of the final transaction as used for
// mass estimations, assuming it carries change.
func (g *Generator) finalShapeOutputs() []*externalapi.DomainTransactionOutput {
	outputs := make([]*externalapi.DomainTransactionOutput, 0, len(g.paymentOutputs)+1)
	outputs = append(outputs, g.paymentOutputs...)
	return append(outputs, g.assembler.changeOutput())
}

// Next returns the next transaction of the run, or nil once the final
// transaction was returned. Once Next fails, it keeps returning the same error.
func (g *Generator) Next() (*PendingTransaction, error) {
	if g.err != nil {
		return nil, g.err
	}
	pending, err := g.next()
	if err != nil {
		g.err = err
		return nil, err
	}
	return pending, nil
}

func (g *Generator) next() (*PendingTransaction, error) {
	if g.stateMachine.Is(stateDone) {
		return nil, nil
	}

	ctx := context.Background()
	if g.stateMachine.Is(stateCompounding) {
		err := g.stateMachine.Event(ctx, eventAccumulate)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	finalShapeOutputs := g.finalShapeOutputs()
	fresh, stop := g.accumulator.Accumulate(g.pool, g.covers,
		func(selection []*UTXOEntryReference) bool {
			mass := g.assembler.estimateComputeMass(len(selection), finalShapeOutputs, g.payload)
			return !g.assembler.calculator.ExceedsMaxMass(mass)
		})

	candidates := make([]*UTXOEntryReference, 0, len(g.pool)+len(fresh))
	candidates = append(candidates, g.pool...)
	candidates = append(candidates, fresh...)
	log.Tracef("Accumulated %d entries (%d pending) and stopped: %s", len(candidates), len(g.pool), stop)

	if stop != stopMassExceeded {
		pending, err := g.finalize(ctx, candidates)
		if err == nil {
			return pending, nil
		}
		if !errors.Is(err, errMassExceeded) {
			return nil, err
		}
		log.Debugf("Final transaction does not fit, compounding instead: %s", err)
	}
	return g.compound(ctx, candidates)
}

func (g *Generator) covers(total uint64) bool {
	if g.destination.IsChange() {
		return false
	}
	return total >= g.requiredAmount
}

func (g *Generator) finalize(ctx context.Context, candidates []*UTXOEntryReference) (*PendingTransaction, error) {
	transaction, err := g.assembler.assemble(candidates, g.paymentOutputs, g.priorityFee, g.payload)
	if err != nil {
		return nil, err
	}

	paymentAmount := g.paymentAmount
	if g.destination.IsChange() {
		paymentAmount, err = sumOutputs(transaction.Outputs)
		if err != nil {
			return nil, err
		}
	}
	pending, err := newPendingTransaction(transaction, TransactionKindFinal, candidates, paymentAmount, g.params)
	if err != nil {
		return nil, err
	}

	err = g.stateMachine.Event(ctx, eventFinalize)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	g.pool = nil
	g.aggregator.record(pending)
	g.logEmitted(pending)
	return pending, nil
}

// compound merges the longest prefix of candidates that fits the mass limit.
// Candidates past that prefix go back to where they came from.
func (g *Generator) compound(ctx context.Context, candidates []*UTXOEntryReference) (*PendingTransaction, error) {
	var transaction *externalapi.DomainTransaction
	inputCount := 0
	for i := 2; i <= len(candidates); i++ {
		candidate, err := g.assembler.assemble(candidates[:i], nil, 0, nil)
		if err != nil {
			if errors.Is(err, errMassExceeded) {
				break
			}
			return nil, err
		}
		transaction, inputCount = candidate, i
	}
	if transaction == nil {
		return nil, errors.Wrapf(ErrMassLimitTooLow, "no compound transaction over %d "+
			"candidate entries fits the mass limit of %d", len(candidates), g.assembler.calculator.MaxMass())
	}

	var unusedPool, unusedFresh []*UTXOEntryReference
	for _, entry := range candidates[inputCount:] {
		if entry.Source == EntrySourcePendingFromSelf {
			unusedPool = append(unusedPool, entry)
		} else {
			unusedFresh = append(unusedFresh, entry)
		}
	}

	pending, err := newPendingTransaction(transaction, TransactionKindCompound, candidates[:inputCount], 0, g.params)
	if err != nil {
		return nil, err
	}
	pending.outputEntry = newPendingFromSelfEntry(pending.id, transaction.Outputs[0], g.changeAddress)

	err = g.stateMachine.Event(ctx, eventCompound)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	g.accumulator.PushBack(unusedFresh...)
	g.pool = append([]*UTXOEntryReference{pending.outputEntry}, unusedPool...)
	g.aggregator.record(pending)
	g.logEmitted(pending)
	return pending, nil
}

func (g *Generator) logEmitted(pending *PendingTransaction) {
	log.Debugf("Generated %s transaction %s with %d inputs, fee %d and mass %d",
		pending.kind, pending.id, len(pending.entries), pending.Fee(), pending.Mass())
	log.Tracef("Transaction %s: %s", pending.id, logger.NewLogClosure(func() string {
		return spew.Sdump(pending.transaction)
	}))
}

// Generate drains the generator and returns every remaining transaction.
func (g *Generator) Generate() ([]*PendingTransaction, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "Generator.Generate")
	defer onEnd()

	var pendings []*PendingTransaction
	for {
		pending, err := g.Next()
		if err != nil {
			return nil, err
		}
		if pending == nil {
			return pendings, nil
		}
		pendings = append(pendings, pending)
	}
}

// Summary returns a snapshot of the aggregate of every emitted transaction.
func (g *Generator) Summary() GeneratorSummary {
	return g.aggregator.snapshot()
}

// IsDone returns whether the final transaction was emitted.
func (g *Generator) IsDone() bool {
	return g.stateMachine.Is(stateDone)
}

// State returns the current state of the generator.
func (g *Generator) State() string {
	return g.stateMachine.Current()
}

// RemainingEntries returns the caller supplied entries that were not
// considered yet.
func (g *Generator) RemainingEntries() []*UTXOEntryReference {
	return g.accumulator.Remaining()
}
