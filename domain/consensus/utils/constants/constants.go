package constants

import "math"

const (
	// MaxTransactionVersion is the current latest supported transaction version.
	MaxTransactionVersion uint16 = 0

	// MaxScriptPublicKeyVersion is the current latest supported public key script version.
	MaxScriptPublicKeyVersion uint16 = 0

	// SompiPerKaspa is the number of sompi in one kaspa (1 KAS).
	SompiPerKaspa = 100_000_000

	// MaxSompi is the maximum transaction amount allowed in sompi.
	MaxSompi = uint64(29_000_000_000 * SompiPerKaspa)

	// MaxTxInSequenceNum is the maximum sequence number the sequence field
	// of a transaction input can be.
	MaxTxInSequenceNum uint64 = math.MaxUint64

	// UnacceptedDAAScore is used to for UTXOEntries that were created by
	// transactions in the mempool, or otherwise not-yet-accepted transactions.
	UnacceptedDAAScore = math.MaxUint64
)
