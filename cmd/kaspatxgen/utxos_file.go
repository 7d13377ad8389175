package main

import (
	"encoding/hex"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/txscript"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/utxo"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/util"
	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type utxoFileEntry struct {
	TransactionID          string `json:"transactionId"`
	Index                  uint32 `json:"index"`
	Amount                 uint64 `json:"amount"`
	ScriptPublicKey        string `json:"scriptPublicKey"`
	ScriptPublicKeyVersion uint16 `json:"scriptPublicKeyVersion"`
	BlockDAAScore          uint64 `json:"blockDaaScore"`
	IsCoinbase             bool   `json:"isCoinbase"`

	// Address is optional. Entries without one are attributed by their script.
	Address string `json:"address,omitempty"`
}

func readUTXOsFile(path string, params *dagconfig.Params) ([]*generator.UTXOEntryReference, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return parseUTXOs(content, params)
}

func parseUTXOs(content []byte, params *dagconfig.Params) ([]*generator.UTXOEntryReference, error) {
	var fileEntries []*utxoFileEntry
	err := json.Unmarshal(content, &fileEntries)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing the UTXOs file")
	}

	entries := make([]*generator.UTXOEntryReference, len(fileEntries))
	for i, fileEntry := range fileEntries {
		entry, err := fileEntry.toEntryReference(params)
		if err != nil {
			return nil, errors.Wrapf(err, "UTXO #%d", i)
		}
		entries[i] = entry
	}
	return entries, nil
}

func (e *utxoFileEntry) toEntryReference(params *dagconfig.Params) (*generator.UTXOEntryReference, error) {
	transactionID, err := externalapi.NewDomainTransactionIDFromString(e.TransactionID)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid transaction ID %s", e.TransactionID)
	}
	script, err := hex.DecodeString(e.ScriptPublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "the script public key is not valid hex")
	}
	scriptPublicKey := &externalapi.ScriptPublicKey{Script: script, Version: e.ScriptPublicKeyVersion}

	var address util.Address
	if e.Address != "" {
		address, err = util.DecodeAddress(e.Address, params.Prefix)
		if err != nil {
			return nil, err
		}
		_, scriptAddress, err := txscript.ExtractScriptPubKeyAddress(scriptPublicKey, params)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot check that %s owns the script public key", address)
		}
		if scriptAddress == nil {
			return nil, errors.Errorf("the script public key has no address to compare with %s", address)
		}
		if scriptAddress.EncodeAddress() != address.EncodeAddress() {
			return nil, errors.Errorf("the script public key pays to %s, not to %s", scriptAddress, address)
		}
	}

	return generator.NewUTXOEntryReference(externalapi.NewDomainOutpoint(transactionID, e.Index),
		utxo.NewUTXOEntry(e.Amount, scriptPublicKey, e.IsCoinbase, e.BlockDAAScore), address), nil
}
