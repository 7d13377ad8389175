package generator

import (
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/constants"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/transactionhelper"
	"github.com/kaspanet/txgenerator/util/txmass"
	"github.com/pkg/errors"
)

// assembler builds unsigned transactions that send whatever their inputs do
// not pay out or leave as fee to a single change script.
type assembler struct {
	calculator            *txmass.Calculator
	changeScriptPublicKey *externalapi.ScriptPublicKey
}

// assemble builds a transaction spending inputs into outputs plus change. It
// returns errMassExceeded if the estimated signed compute mass is above the
// limit, and ErrStorageMassExceeded if only the storage mass is.
func (a *assembler) assemble(inputs []*UTXOEntryReference, outputs []*externalapi.DomainTransactionOutput,
	fee uint64, payload []byte) (*externalapi.DomainTransaction, error) {

	inputAmount, err := sumEntries(inputs)
	if err != nil {
		return nil, err
	}
	outputAmount, err := sumOutputs(outputs)
	if err != nil {
		return nil, err
	}
	requiredAmount, err := addAmounts(outputAmount, fee)
	if err != nil {
		return nil, err
	}
	if inputAmount < requiredAmount {
		return nil, errors.Wrapf(ErrAssemblyInvariantViolation, "inputs of %d sompi cannot "+
			"cover outputs of %d sompi and a fee of %d sompi", inputAmount, outputAmount, fee)
	}

	transactionOutputs := make([]*externalapi.DomainTransactionOutput, 0, len(outputs)+1)
	for _, output := range outputs {
		transactionOutputs = append(transactionOutputs, output.Clone())
	}
	change := inputAmount - requiredAmount
	if change > 0 {
		changeOutput := &externalapi.DomainTransactionOutput{
			Value:           change,
			ScriptPublicKey: a.changeScriptPublicKey,
		}
		transactionOutputs = append(transactionOutputs, changeOutput.Clone())
	}

	transaction := transactionhelper.NewNativeTransaction(constants.MaxTransactionVersion,
		transactionInputs(inputs), transactionOutputs, payload)
	transaction.Fee = fee
	computeMass := a.calculator.EstimateSignedTransactionComputeMass(transaction, txmass.SignatureScriptSizeP2PK)
	if a.calculator.ExceedsMaxMass(computeMass) {
		return nil, errors.Wrapf(errMassExceeded, "transaction with %d inputs and %d outputs "+
			"has mass %d, above the limit of %d", len(inputs), len(transactionOutputs),
			computeMass, a.calculator.MaxMass())
	}
	transaction.Mass = a.calculator.EstimateSignedTransactionMass(transaction, txmass.SignatureScriptSizeP2PK)
	if a.calculator.ExceedsMaxMass(transaction.Mass) {
		return nil, errors.Wrapf(ErrStorageMassExceeded, "transaction with %d inputs and %d outputs "+
			"has storage mass %d, above the limit of %d", len(inputs), len(transactionOutputs),
			transaction.Mass, a.calculator.MaxMass())
	}
	return transaction, nil
}

// estimateComputeMass returns the signed compute mass of a transaction with
// inputCount inputs and the given outputs, regardless of amounts.
func (a *assembler) estimateComputeMass(inputCount int, outputs []*externalapi.DomainTransactionOutput,
	payload []byte) uint64 {

	inputs := make([]*externalapi.DomainTransactionInput, inputCount)
	for i := range inputs {
		inputs[i] = &externalapi.DomainTransactionInput{SigOpCount: 1}
	}
	transaction := transactionhelper.NewNativeTransaction(constants.MaxTransactionVersion, inputs, outputs, payload)
	return a.calculator.EstimateSignedTransactionComputeMass(transaction, txmass.SignatureScriptSizeP2PK)
}

// changeOutput returns a placeholder change output, used for mass estimations.
func (a *assembler) changeOutput() *externalapi.DomainTransactionOutput {
	return &externalapi.DomainTransactionOutput{ScriptPublicKey: a.changeScriptPublicKey}
}

func transactionInputs(entries []*UTXOEntryReference) []*externalapi.DomainTransactionInput {
	inputs := make([]*externalapi.DomainTransactionInput, len(entries))
	for i, entry := range entries {
		inputs[i] = &externalapi.DomainTransactionInput{
			PreviousOutpoint: entry.Outpoint,
			SignatureScript:  []byte{},
			Sequence:         0,
			SigOpCount:       1,
			UTXOEntry:        entry.Entry,
		}
	}
	return inputs
}

func sumOutputs(outputs []*externalapi.DomainTransactionOutput) (uint64, error) {
	sum := uint64(0)
	for i, output := range outputs {
		var err error
		sum, err = addAmounts(sum, output.Value)
		if err != nil {
			return 0, errors.Wrapf(err, "output %d", i)
		}
	}
	return sum, nil
}
