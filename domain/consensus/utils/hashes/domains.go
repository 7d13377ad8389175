package hashes

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	transactionHashDomain    = "TransactionHash"
	transactionIDDomain      = "TransactionID"
	transactionSigningDomain = "TransactionSigningHash"
	payloadDomain            = "PayloadHash"
	scriptHashDomain         = "ScriptHash"
)

func newKeyedWriter(domain string) HashWriter {
	// blake2b.New256 only fails on keys longer than 64 bytes
	blake, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", domain))
	}
	return HashWriter{blake}
}

// NewTransactionHashWriter Returns a new HashWriter used for transaction hashes
func NewTransactionHashWriter() HashWriter {
	return newKeyedWriter(transactionHashDomain)
}

// NewTransactionIDWriter Returns a new HashWriter used for transaction IDs
func NewTransactionIDWriter() HashWriter {
	return newKeyedWriter(transactionIDDomain)
}

// NewTransactionSigningHashWriter Returns a new HashWriter used for signing on a transaction
func NewTransactionSigningHashWriter() HashWriter {
	return newKeyedWriter(transactionSigningDomain)
}

// NewPayloadHashWriter Returns a new HashWriter used for hashing a transaction payload
func NewPayloadHashWriter() HashWriter {
	return newKeyedWriter(payloadDomain)
}

// NewScriptHashWriter Returns a new HashWriter used for pay-to-script-hash scripts
func NewScriptHashWriter() HashWriter {
	return newKeyedWriter(scriptHashDomain)
}
