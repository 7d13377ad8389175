package txscript

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/consensushashing"
	"github.com/pkg/errors"
)

// ErrSignatureVerification is returned when a signature script does not
// satisfy the script public key it spends.
var ErrSignatureVerification = errors.New("signature verification failed")

// VerifySignatureScript checks that the signature script of input idx is a
// valid signature for the pay-to-pubkey script public key of the UTXO entry
// it spends. Only the Schnorr and ECDSA pay-to-pubkey forms are supported.
func VerifySignatureScript(tx *externalapi.DomainTransaction, idx int,
	sighashReusedValues *consensushashing.SighashReusedValues) error {

	if idx < 0 || idx >= len(tx.Inputs) {
		return errors.Errorf("input index %d is out of range", idx)
	}
	input := tx.Inputs[idx]
	if input.UTXOEntry == nil {
		return errors.Errorf("input %d is missing its UTXO entry", idx)
	}

	signatureAndHashType, ok := pushedData(input.SignatureScript)
	if !ok || len(signatureAndHashType) == 0 {
		return errors.Wrapf(ErrSignatureVerification, "input %d: signature script is not a single push", idx)
	}
	signature := signatureAndHashType[:len(signatureAndHashType)-1]
	hashType := consensushashing.SigHashType(signatureAndHashType[len(signatureAndHashType)-1])

	script := input.UTXOEntry.ScriptPublicKey().Script
	switch GetScriptClass(script) {
	case PubKeyTy:
		return verifySchnorr(tx, idx, hashType, script[1:33], signature, sighashReusedValues)
	case PubKeyECDSATy:
		return verifyECDSA(tx, idx, hashType, script[1:34], signature, sighashReusedValues)
	default:
		return errors.Errorf("input %d: can't verify non pay-to-pubkey scripts", idx)
	}
}

func verifySchnorr(tx *externalapi.DomainTransaction, idx int, hashType consensushashing.SigHashType,
	publicKeyBytes []byte, signatureBytes []byte, sighashReusedValues *consensushashing.SighashReusedValues) error {

	publicKey, err := secp256k1.DeserializeSchnorrPubKey(publicKeyBytes)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerification, "input %d: %s", idx, err)
	}
	signature, err := secp256k1.DeserializeSchnorrSignatureFromSlice(signatureBytes)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerification, "input %d: %s", idx, err)
	}
	hash, err := consensushashing.CalculateSignatureHashSchnorr(tx, idx, hashType, sighashReusedValues)
	if err != nil {
		return err
	}
	secpHash := secp256k1.Hash(*hash.ByteArray())
	if !publicKey.SchnorrVerify(&secpHash, signature) {
		return errors.Wrapf(ErrSignatureVerification, "input %d", idx)
	}
	return nil
}

func verifyECDSA(tx *externalapi.DomainTransaction, idx int, hashType consensushashing.SigHashType,
	publicKeyBytes []byte, signatureBytes []byte, sighashReusedValues *consensushashing.SighashReusedValues) error {

	publicKey, err := secp256k1.DeserializeECDSAPubKey(publicKeyBytes)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerification, "input %d: %s", idx, err)
	}
	signature, err := secp256k1.DeserializeECDSASignatureFromSlice(signatureBytes)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerification, "input %d: %s", idx, err)
	}
	hash, err := consensushashing.CalculateSignatureHashECDSA(tx, idx, hashType, sighashReusedValues)
	if err != nil {
		return err
	}
	secpHash := secp256k1.Hash(*hash.ByteArray())
	if !publicKey.ECDSAVerify(&secpHash, signature) {
		return errors.Wrapf(ErrSignatureVerification, "input %d", idx)
	}
	return nil
}
