package generator

import "github.com/pkg/errors"

var (
	// ErrInsufficientFunds indicates that the supplied entries cannot cover
	// the requested outputs together with the priority fee.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoOutputs indicates that no payment outputs were requested while
	// the destination is not a sweep to the change address.
	ErrNoOutputs = errors.New("no payment outputs")

	// ErrZeroOutput indicates a payment output of zero sompi.
	ErrZeroOutput = errors.New("payment output of zero value")

	// ErrMissingChangeAddress indicates that the settings lack a change address.
	ErrMissingChangeAddress = errors.New("missing change address")

	// ErrAddressNetworkMismatch indicates an address that belongs to a
	// different network than the one the generator runs on.
	ErrAddressNetworkMismatch = errors.New("address belongs to a different network")

	// ErrAmountOverflow indicates an amount, or a sum of amounts, above the
	// maximum supply of sompi.
	ErrAmountOverflow = errors.New("amount exceeds the maximum supply")

	// ErrDuplicateEntry indicates an outpoint supplied more than once.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrOutputsExceedMass indicates that even a single-input final
	// transaction carrying the requested outputs exceeds the mass limit.
	ErrOutputsExceedMass = errors.New("requested outputs exceed the transaction mass limit")

	// ErrMassLimitTooLow indicates that a compound transaction of two inputs
	// does not fit the mass limit, so entries can never be merged.
	ErrMassLimitTooLow = errors.New("mass limit is too low to compound entries")

	// ErrStorageMassExceeded indicates a final transaction whose compute mass
	// fits the limit while its storage mass does not. Compounding cannot lower
	// storage mass, so the run stops.
	ErrStorageMassExceeded = errors.New("storage mass exceeds the transaction mass limit")

	// ErrAssemblyInvariantViolation indicates that the inputs of a transaction
	// under construction do not cover its outputs and fee.
	ErrAssemblyInvariantViolation = errors.New("transaction inputs do not cover outputs and fee")

	// ErrMissingKey indicates that none of the supplied keys owns an input.
	ErrMissingKey = errors.New("missing private key")

	// ErrSigning indicates a cryptographic failure while signing an input.
	ErrSigning = errors.New("failed signing transaction")

	// ErrNotSigned indicates an attempt to submit a transaction that had not
	// been signed successfully.
	ErrNotSigned = errors.New("transaction is not signed")

	// ErrAlreadySubmitted indicates a second submission of the same transaction.
	ErrAlreadySubmitted = errors.New("transaction was already submitted")

	// ErrNetwork is the error family submission channels wrap their failures in.
	ErrNetwork = errors.New("failed submitting transaction")

	errMassExceeded = errors.New("transaction mass exceeds the maximum allowed")
)
