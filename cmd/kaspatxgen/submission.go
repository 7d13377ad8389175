package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"os"
	"sync"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
	"go.uber.org/ratelimit"
)

type transactionJSON struct {
	TransactionID string                   `json:"transactionId"`
	Version       uint16                   `json:"version"`
	Inputs        []*transactionInputJSON  `json:"inputs"`
	Outputs       []*transactionOutputJSON `json:"outputs"`
	LockTime      uint64                   `json:"lockTime"`
	SubnetworkID  string                   `json:"subnetworkId"`
	Gas           uint64                   `json:"gas"`
	Payload       string                   `json:"payload"`
	Mass          uint64                   `json:"mass"`
}

type transactionInputJSON struct {
	PreviousTransactionID string `json:"previousTransactionId"`
	PreviousIndex         uint32 `json:"previousIndex"`
	SignatureScript       string `json:"signatureScript"`
	Sequence              uint64 `json:"sequence"`
	SigOpCount            byte   `json:"sigOpCount"`
}

type transactionOutputJSON struct {
	Amount                 uint64 `json:"amount"`
	ScriptPublicKey        string `json:"scriptPublicKey"`
	ScriptPublicKeyVersion uint16 `json:"scriptPublicKeyVersion"`
}

func newTransactionJSON(transaction *externalapi.DomainTransaction) *transactionJSON {
	inputs := make([]*transactionInputJSON, len(transaction.Inputs))
	for i, input := range transaction.Inputs {
		inputs[i] = &transactionInputJSON{
			PreviousTransactionID: input.PreviousOutpoint.TransactionID.String(),
			PreviousIndex:         input.PreviousOutpoint.Index,
			SignatureScript:       hex.EncodeToString(input.SignatureScript),
			Sequence:              input.Sequence,
			SigOpCount:            input.SigOpCount,
		}
	}
	outputs := make([]*transactionOutputJSON, len(transaction.Outputs))
	for i, output := range transaction.Outputs {
		outputs[i] = &transactionOutputJSON{
			Amount:                 output.Value,
			ScriptPublicKey:        hex.EncodeToString(output.ScriptPublicKey.Script),
			ScriptPublicKeyVersion: output.ScriptPublicKey.Version,
		}
	}
	return &transactionJSON{
		TransactionID: consensushashing.TransactionID(transaction).String(),
		Version:       transaction.Version,
		Inputs:        inputs,
		Outputs:       outputs,
		LockTime:      transaction.LockTime,
		SubnetworkID:  hex.EncodeToString(transaction.SubnetworkID[:]),
		Gas:           transaction.Gas,
		Payload:       hex.EncodeToString(transaction.Payload),
		Mass:          transaction.Mass,
	}
}

// fileSubmissionChannel appends every submitted transaction to a file as a
// single line of JSON. Submissions are paced by a rate limiter.
type fileSubmissionChannel struct {
	mtx     sync.Mutex
	file    *os.File
	writer  *bufio.Writer
	limiter ratelimit.Limiter
}

var _ generator.SubmissionChannel = (*fileSubmissionChannel)(nil)

func newFileSubmissionChannel(path string, submissionsPerSecond int) (*fileSubmissionChannel, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &fileSubmissionChannel{
		file:    file,
		writer:  bufio.NewWriter(file),
		limiter: ratelimit.New(submissionsPerSecond),
	}, nil
}

func (c *fileSubmissionChannel) SubmitTransaction(ctx context.Context,
	transaction *externalapi.DomainTransaction) (string, error) {

	c.mtx.Lock()
	defer c.mtx.Unlock()

	err := ctx.Err()
	if err != nil {
		return "", errors.Wrap(generator.ErrNetwork, err.Error())
	}
	c.limiter.Take()

	encoded := newTransactionJSON(transaction)
	line, err := json.Marshal(encoded)
	if err != nil {
		return "", errors.Wrapf(generator.ErrNetwork, "error encoding transaction %s: %s", encoded.TransactionID, err)
	}
	_, err = c.writer.Write(append(line, '\n'))
	if err != nil {
		return "", errors.Wrapf(generator.ErrNetwork, "error writing transaction %s: %s", encoded.TransactionID, err)
	}
	// The journal records a transaction only after its line is flushed
	err = c.writer.Flush()
	if err != nil {
		return "", errors.Wrapf(generator.ErrNetwork, "error writing transaction %s: %s", encoded.TransactionID, err)
	}

	log.Debugf("Wrote transaction %s", encoded.TransactionID)
	return encoded.TransactionID, nil
}

func (c *fileSubmissionChannel) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	err := c.writer.Flush()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.file.Close())
}
