package txmass

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/transactionhelper"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
)

// SignatureScriptSizeP2PK is the size of the signature script spending a
// pay-to-pubkey output: OP_DATA_65 <64-byte signature> <sighash type>.
// Schnorr and ECDSA signatures serialize to the same size.
const SignatureScriptSizeP2PK = 1 + secp256k1.SerializedSchnorrSignatureSize + 1

// Calculator exposes methods to calculate the mass of a transaction
type Calculator struct {
	massPerTxByte           uint64
	massPerScriptPubKeyByte uint64
	massPerSigOp            uint64
	maxMass                 uint64

	// The parameter for scaling inverse KAS value to mass units (KIP-0009).
	// Zero disables storage mass.
	storageMassParameter uint64
}

// NewCalculator creates a new instance of Calculator
func NewCalculator(massPerTxByte, massPerScriptPubKeyByte, massPerSigOp, storageMassParameter, maxMass uint64) *Calculator {
	return &Calculator{
		massPerTxByte:           massPerTxByte,
		massPerScriptPubKeyByte: massPerScriptPubKeyByte,
		massPerSigOp:            massPerSigOp,
		storageMassParameter:    storageMassParameter,
		maxMass:                 maxMass,
	}
}

// NewCalculatorFromParams creates a Calculator with the mass weights and
// limit of the given network.
func NewCalculatorFromParams(params *dagconfig.Params) *Calculator {
	return NewCalculator(params.MassPerTxByte, params.MassPerScriptPubKeyByte, params.MassPerSigOp,
		params.StorageMassParameter, params.MaxTransactionMass)
}

// MassPerTxByte returns the mass per transaction byte configured for this Calculator
func (c *Calculator) MassPerTxByte() uint64 { return c.massPerTxByte }

// MassPerScriptPubKeyByte returns the mass per ScriptPublicKey byte configured for this Calculator
func (c *Calculator) MassPerScriptPubKeyByte() uint64 { return c.massPerScriptPubKeyByte }

// MassPerSigOp returns the mass per SigOp byte configured for this Calculator
func (c *Calculator) MassPerSigOp() uint64 { return c.massPerSigOp }

// MaxMass returns the maximum mass a single transaction may have
func (c *Calculator) MaxMass() uint64 { return c.maxMass }

// CalculateTransactionMass calculates the mass of the given transaction
func (c *Calculator) CalculateTransactionMass(transaction *externalapi.DomainTransaction) uint64 {
	if transactionhelper.IsCoinBase(transaction) {
		return 0
	}

	// calculate mass for size
	size := transactionEstimatedSerializedSize(transaction)
	massForSize := size * c.massPerTxByte

	// calculate mass for scriptPubKey
	totalScriptPubKeySize := uint64(0)
	for _, output := range transaction.Outputs {
		totalScriptPubKeySize += 2 //output.ScriptPublicKey.Version (uint16)
		totalScriptPubKeySize += uint64(len(output.ScriptPublicKey.Script))
	}
	massForScriptPubKey := totalScriptPubKeySize * c.massPerScriptPubKeyByte

	// calculate mass for SigOps
	totalSigOpCount := uint64(0)
	for _, input := range transaction.Inputs {
		totalSigOpCount += uint64(input.SigOpCount)
	}
	massForSigOps := totalSigOpCount * c.massPerSigOp

	// Sum all components of mass
	return massForSize + massForScriptPubKey + massForSigOps
}

// CalculateTransactionStorageMass calculates the storage mass of the given transaction (see KIP-0009)
func (c *Calculator) CalculateTransactionStorageMass(transaction *externalapi.DomainTransaction) uint64 {
	if c.storageMassParameter == 0 || transactionhelper.IsCoinBase(transaction) {
		return 0
	}

	outsLen := uint64(len(transaction.Outputs))
	insLen := uint64(len(transaction.Inputs))

	if insLen == 0 {
		panic("Storage mass calculation expects at least one input")
	}

	harmonicOuts := uint64(0)
	for _, output := range transaction.Outputs {
		inverseOut := c.inverse(output.Value)
		if harmonicOuts+inverseOut < harmonicOuts {
			// Overflow detected. This requires 10^7 outputs so is unrealistic for wallet usages.
			// If this method is ever used for consensus, this case should be handled by returning an err
			panic("Unexpected overflow in storage mass calculation")
		}
		harmonicOuts += inverseOut
	}

	if outsLen == 1 || insLen == 1 || (outsLen == 2 && insLen == 2) {
		harmonicDiff := harmonicOuts
		for _, input := range transaction.Inputs {
			if input.UTXOEntry == nil {
				panic("Storage mass calculation expects a fully populated transaction")
			}
			inverseIn := c.inverse(input.UTXOEntry.Amount())
			if harmonicDiff < inverseIn {
				harmonicDiff = 0
			} else {
				harmonicDiff -= inverseIn
			}
		}
		return harmonicDiff
	}

	sumIns := uint64(0)
	for _, input := range transaction.Inputs {
		if input.UTXOEntry == nil {
			panic("Storage mass calculation expects a fully populated transaction")
		}
		// Total supply is bounded, so a sum of existing UTXO entries cannot overflow (nor can it be zero)
		sumIns += input.UTXOEntry.Amount()
	}
	meanIns := sumIns / insLen
	inverseMeanIns := c.inverse(meanIns)
	arithmeticIns := insLen * inverseMeanIns

	if arithmeticIns < inverseMeanIns {
		// overflow (so subtraction would be negative)
		return 0
	}
	if harmonicOuts < arithmeticIns {
		// underflow
		return 0
	} else {
		return harmonicOuts - arithmeticIns
	}
}

// inverse scales the inverse of a sompi value to mass units. A zero value
// is treated as a single sompi.
func (c *Calculator) inverse(value uint64) uint64 {
	if value == 0 {
		return c.storageMassParameter
	}
	return c.storageMassParameter / value
}

// CalculateTransactionOverallMass calculates the overall mass of the transaction including compute and storage mass components (see KIP-0009)
func (c *Calculator) CalculateTransactionOverallMass(transaction *externalapi.DomainTransaction) uint64 {
	return max(c.CalculateTransactionMass(transaction), c.CalculateTransactionStorageMass(transaction))
}

// EstimateSignedTransactionMass returns the overall mass the transaction will
// have once every input carries a signature script of signatureScriptSize
// bytes. The given transaction is not modified.
func (c *Calculator) EstimateSignedTransactionMass(transaction *externalapi.DomainTransaction,
	signatureScriptSize uint64) uint64 {

	return c.CalculateTransactionOverallMass(withSignatureScripts(transaction, signatureScriptSize))
}

// EstimateSignedTransactionComputeMass is EstimateSignedTransactionMass without
// the storage mass term. It depends only on the shape of the transaction and not
// on the amounts it moves.
func (c *Calculator) EstimateSignedTransactionComputeMass(transaction *externalapi.DomainTransaction,
	signatureScriptSize uint64) uint64 {

	return c.CalculateTransactionMass(withSignatureScripts(transaction, signatureScriptSize))
}

func withSignatureScripts(transaction *externalapi.DomainTransaction, signatureScriptSize uint64) *externalapi.DomainTransaction {
	transactionWithSignatures := transaction.Clone()
	for _, input := range transactionWithSignatures.Inputs {
		input.SignatureScript = make([]byte, signatureScriptSize)
	}
	return transactionWithSignatures
}

// ExceedsMaxMass returns whether the given mass is above the limit of this Calculator
func (c *Calculator) ExceedsMaxMass(mass uint64) bool {
	return mass > c.maxMass
}

// transactionEstimatedSerializedSize is the estimated size of a transaction in some
// serialization. This has to be deterministic, but not necessarily accurate, since
// it's only used as the size component in the transaction and block mass limit
// calculation.
func transactionEstimatedSerializedSize(tx *externalapi.DomainTransaction) uint64 {
	if transactionhelper.IsCoinBase(tx) {
		return 0
	}
	size := uint64(0)
	size += 2 // Txn Version
	size += 8 // number of inputs (uint64)
	for _, input := range tx.Inputs {
		size += transactionInputEstimatedSerializedSize(input)
	}

	size += 8 // number of outputs (uint64)
	for _, output := range tx.Outputs {
		size += TransactionOutputEstimatedSerializedSize(output)
	}

	size += 8 // lock time (uint64)
	size += externalapi.DomainSubnetworkIDSize
	size += 8                          // gas (uint64)
	size += externalapi.DomainHashSize // payload hash

	size += 8 // length of the payload (uint64)
	size += uint64(len(tx.Payload))

	return size
}

func transactionInputEstimatedSerializedSize(input *externalapi.DomainTransactionInput) uint64 {
	size := uint64(0)
	size += outpointEstimatedSerializedSize()

	size += 8 // length of signature script (uint64)
	size += uint64(len(input.SignatureScript))

	size += 8 // sequence (uint64)
	return size
}

func outpointEstimatedSerializedSize() uint64 {
	size := uint64(0)
	size += externalapi.DomainHashSize // ID
	size += 4                          // index (uint32)
	return size
}

// TransactionOutputEstimatedSerializedSize is the same as transactionEstimatedSerializedSize but for outputs only
func TransactionOutputEstimatedSerializedSize(output *externalapi.DomainTransactionOutput) uint64 {
	size := uint64(0)
	size += 8 // value (uint64)
	size += 2 // output.ScriptPublicKey.Version (uint 16)
	size += 8 // length of script public key (uint64)
	size += uint64(len(output.ScriptPublicKey.Script))
	return size
}
