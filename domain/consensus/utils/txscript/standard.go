// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/constants"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/util"
	"github.com/pkg/errors"
)

// ScriptClass is an enumeration for the list of standard types of script.
type ScriptClass byte

// Classes of script payment known about in the blockDAG.
const (
	NonStandardTy ScriptClass = iota // None of the recognized forms.
	PubKeyTy                         // Pay to pubkey.
	PubKeyECDSATy                    // Pay to pubkey ECDSA.
	ScriptHashTy                     // Pay to script hash.
)

// scriptClassToName houses the human-readable strings which describe each
// script class.
var scriptClassToName = []string{
	NonStandardTy: "nonstandard",
	PubKeyTy:      "pubkey",
	PubKeyECDSATy: "pubkeyecdsa",
	ScriptHashTy:  "scripthash",
}

// String implements the Stringer interface by returning the name of
// the enum script class. If the enum is invalid then "Invalid" will be
// returned.
func (t ScriptClass) String() string {
	if int(t) >= len(scriptClassToName) {
		return "Invalid"
	}
	return scriptClassToName[t]
}

// isPayToPubkey returns true if the script is in the standard
// pay-to-pubkey (P2PK) format, false otherwise.
func isPayToPubkey(script []byte) bool {
	return len(script) == 34 &&
		script[0] == OpData32 &&
		script[33] == OpCheckSig
}

// isPayToPubkeyECDSA returns true if the script is in the standard
// ECDSA pay-to-pubkey (P2PK) format, false otherwise.
func isPayToPubkeyECDSA(script []byte) bool {
	return len(script) == 35 &&
		script[0] == OpData33 &&
		script[34] == OpCheckSigECDSA
}

// isPayToScriptHash returns true if the script is in the standard
// pay-to-script-hash (P2SH) format, false otherwise.
func isPayToScriptHash(script []byte) bool {
	return len(script) == 35 &&
		script[0] == OpBlake2b &&
		script[1] == OpData32 &&
		script[34] == OpEqual
}

// GetScriptClass returns the class of the script passed.
//
// NonStandardTy will be returned when the script does not parse.
func GetScriptClass(script []byte) ScriptClass {
	switch {
	case isPayToPubkey(script):
		return PubKeyTy
	case isPayToPubkeyECDSA(script):
		return PubKeyECDSATy
	case isPayToScriptHash(script):
		return ScriptHashTy
	default:
		return NonStandardTy
	}
}

// payToPubKeyScript creates a new script to pay a transaction
// output to a 32-byte pubkey.
func payToPubKeyScript(pubKey []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddData(pubKey).
		AddOp(OpCheckSig).
		Script()
}

// payToPubKeyScriptECDSA creates a new script to pay a transaction
// output to a 33-byte pubkey.
func payToPubKeyScriptECDSA(pubKey []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddData(pubKey).
		AddOp(OpCheckSigECDSA).
		Script()
}

// payToScriptHashScript creates a new script to pay a transaction output to a
// script hash. It is expected that the input is a valid hash.
func payToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddOp(OpBlake2b).
		AddData(scriptHash).
		AddOp(OpEqual).
		Script()
}

// PayToAddrScript creates a new script to pay a transaction output to a the
// specified address.
func PayToAddrScript(addr util.Address) (*externalapi.ScriptPublicKey, error) {
	const nilAddrErrStr = "unable to generate payment script for nil address"
	var script []byte
	var err error
	switch addr := addr.(type) {
	case *util.AddressPublicKey:
		if addr == nil {
			return nil, errors.New(nilAddrErrStr)
		}
		script, err = payToPubKeyScript(addr.ScriptAddress())
	case *util.AddressPublicKeyECDSA:
		if addr == nil {
			return nil, errors.New(nilAddrErrStr)
		}
		script, err = payToPubKeyScriptECDSA(addr.ScriptAddress())
	case *util.AddressScriptHash:
		if addr == nil {
			return nil, errors.New(nilAddrErrStr)
		}
		script, err = payToScriptHashScript(addr.ScriptAddress())
	default:
		return nil, errors.Errorf("unable to generate payment script for unsupported "+
			"address type %T", addr)
	}
	if err != nil {
		return nil, err
	}

	return &externalapi.ScriptPublicKey{Script: script, Version: constants.MaxScriptPublicKeyVersion}, nil
}

// PayToScriptHashScript takes a script and returns an equivalent pay-to-script-hash script
func PayToScriptHashScript(redeemScript []byte) ([]byte, error) {
	redeemScriptHash := util.HashBlake2b(redeemScript)
	return payToScriptHashScript(redeemScriptHash)
}

// PayToScriptHashSignatureScript generates a signature script that fits a pay-to-script-hash script
func PayToScriptHashSignatureScript(redeemScript []byte, signature []byte) ([]byte, error) {
	redeemScriptAsData, err := NewScriptBuilder().AddData(redeemScript).Script()
	if err != nil {
		return nil, err
	}
	signatureScript := make([]byte, len(signature)+len(redeemScriptAsData))
	copy(signatureScript, signature)
	copy(signatureScript[len(signature):], redeemScriptAsData)
	return signatureScript, nil
}

// ExtractScriptPubKeyAddress returns the type of script and its addresses.
// Note that it only works for 'standard' transaction script types. Any data such
// as public keys which are invalid will return a nil address.
func ExtractScriptPubKeyAddress(scriptPubKey *externalapi.ScriptPublicKey, dagParams *dagconfig.Params) (ScriptClass, util.Address, error) {
	if scriptPubKey.Version > constants.MaxScriptPublicKeyVersion {
		return NonStandardTy, nil, nil
	}

	script := scriptPubKey.Script
	scriptClass := GetScriptClass(script)
	switch scriptClass {
	case PubKeyTy:
		// A pay-to-pubkey script is of the form:
		//  <32-byte pubkey> OP_CHECKSIG
		// Therefore the pubkey is the first item on the stack.
		addr, err := util.NewAddressPublicKey(script[1:33], dagParams.Prefix)
		if err != nil {
			return scriptClass, nil, nil
		}
		return scriptClass, addr, nil

	case PubKeyECDSATy:
		// A pay-to-pubkey ECDSA script is of the form:
		//  <33-byte pubkey> OP_CHECKSIGECDSA
		addr, err := util.NewAddressPublicKeyECDSA(script[1:34], dagParams.Prefix)
		if err != nil {
			return scriptClass, nil, nil
		}
		return scriptClass, addr, nil

	case ScriptHashTy:
		// A pay-to-script-hash script is of the form:
		//  OP_BLAKE2B <scripthash> OP_EQUAL
		// Therefore the script hash is the 2nd item on the stack.
		addr, err := util.NewAddressScriptHashFromHash(script[2:34], dagParams.Prefix)
		if err != nil {
			return scriptClass, nil, nil
		}
		return scriptClass, addr, nil

	default:
		// Don't attempt to extract addresses or required signatures for
		// nonstandard transactions.
		return NonStandardTy, nil, nil
	}
}
