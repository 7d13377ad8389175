package txscript_test

import (
	"bytes"
	"testing"

	"github.com/kaspanet/go-secp256k1"
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/subnetworks"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/testutils"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/txscript"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/utxo"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/util"
	"github.com/pkg/errors"
)

type testKeyDB struct {
	schnorrKeys map[string]*secp256k1.SchnorrKeyPair
	ecdsaKeys   map[string]*secp256k1.ECDSAPrivateKey
}

func (kdb *testKeyDB) GetKey(address util.Address) (*secp256k1.SchnorrKeyPair, error) {
	key, ok := kdb.schnorrKeys[address.EncodeAddress()]
	if !ok {
		return nil, errors.Errorf("no key for %s", address)
	}
	return key, nil
}

func (kdb *testKeyDB) GetECDSAKey(address util.Address) (*secp256k1.ECDSAPrivateKey, error) {
	key, ok := kdb.ecdsaKeys[address.EncodeAddress()]
	if !ok {
		return nil, errors.Errorf("no key for %s", address)
	}
	return key, nil
}

func schnorrKeyAndAddress(t *testing.T, seed byte, params *dagconfig.Params) (*secp256k1.SchnorrKeyPair, util.Address) {
	keyPair, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		t.Fatalf("DeserializeSchnorrPrivateKeyFromSlice: %+v", err)
	}
	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		t.Fatalf("SchnorrPublicKey: %+v", err)
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %+v", err)
	}
	address, err := util.NewAddressPublicKey(serializedPublicKey[:], params.Prefix)
	if err != nil {
		t.Fatalf("NewAddressPublicKey: %+v", err)
	}
	return keyPair, address
}

func ecdsaKeyAndAddress(t *testing.T, seed byte, params *dagconfig.Params) (*secp256k1.ECDSAPrivateKey, util.Address) {
	privateKey, err := secp256k1.DeserializeECDSAPrivateKeyFromSlice(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		t.Fatalf("DeserializeECDSAPrivateKeyFromSlice: %+v", err)
	}
	publicKey, err := privateKey.ECDSAPublicKey()
	if err != nil {
		t.Fatalf("ECDSAPublicKey: %+v", err)
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %+v", err)
	}
	address, err := util.NewAddressPublicKeyECDSA(serializedPublicKey[:], params.Prefix)
	if err != nil {
		t.Fatalf("NewAddressPublicKeyECDSA: %+v", err)
	}
	return privateKey, address
}

func spendingTransaction(t *testing.T, owners ...util.Address) *externalapi.DomainTransaction {
	inputs := make([]*externalapi.DomainTransactionInput, len(owners))
	for i, owner := range owners {
		scriptPublicKey, err := txscript.PayToAddrScript(owner)
		if err != nil {
			t.Fatalf("PayToAddrScript: %+v", err)
		}
		inputs[i] = &externalapi.DomainTransactionInput{
			PreviousOutpoint: externalapi.DomainOutpoint{
				TransactionID: *externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{byte(i + 1)}),
				Index:         uint32(i),
			},
			SigOpCount: 1,
			UTXOEntry:  utxo.NewUTXOEntry(uint64(1000*(i+1)), scriptPublicKey, false, 1),
		}
	}
	outputScript, err := txscript.PayToAddrScript(owners[0])
	if err != nil {
		t.Fatalf("PayToAddrScript: %+v", err)
	}
	return &externalapi.DomainTransaction{
		Inputs:       inputs,
		Outputs:      []*externalapi.DomainTransactionOutput{{Value: 500, ScriptPublicKey: outputScript}},
		SubnetworkID: subnetworks.SubnetworkIDNative,
		Payload:      []byte{},
	}
}

func TestSignTxOutput(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		schnorrKey, schnorrAddress := schnorrKeyAndAddress(t, 1, params)
		ecdsaKey, ecdsaAddress := ecdsaKeyAndAddress(t, 2, params)
		kdb := &testKeyDB{
			schnorrKeys: map[string]*secp256k1.SchnorrKeyPair{schnorrAddress.EncodeAddress(): schnorrKey},
			ecdsaKeys:   map[string]*secp256k1.ECDSAPrivateKey{ecdsaAddress.EncodeAddress(): ecdsaKey},
		}

		tx := spendingTransaction(t, schnorrAddress, ecdsaAddress)
		reusedValues := &consensushashing.SighashReusedValues{}
		for i := range tx.Inputs {
			signatureScript, err := txscript.SignTxOutput(params, tx, i, consensushashing.SigHashAll, reusedValues, kdb)
			if err != nil {
				t.Fatalf("SignTxOutput(%d): %+v", i, err)
			}
			if len(signatureScript) != 66 {
				t.Fatalf("SignTxOutput(%d): expected a 66 byte signature script but got %d bytes",
					i, len(signatureScript))
			}
			tx.Inputs[i].SignatureScript = signatureScript
		}

		verifyReusedValues := &consensushashing.SighashReusedValues{}
		for i := range tx.Inputs {
			err := txscript.VerifySignatureScript(tx, i, verifyReusedValues)
			if err != nil {
				t.Fatalf("VerifySignatureScript(%d): %+v", i, err)
			}
		}

		tampered := tx.Clone()
		tampered.Outputs[0].Value++
		err := txscript.VerifySignatureScript(tampered, 0, &consensushashing.SighashReusedValues{})
		if !errors.Is(err, txscript.ErrSignatureVerification) {
			t.Fatalf("VerifySignatureScript: expected ErrSignatureVerification for a tampered tx but got %v", err)
		}
	})
}

func TestSignTxOutputErrors(t *testing.T) {
	params := &dagconfig.SimnetParams
	_, schnorrAddress := schnorrKeyAndAddress(t, 3, params)
	emptyKDB := &testKeyDB{}

	tx := spendingTransaction(t, schnorrAddress)
	_, err := txscript.SignTxOutput(params, tx, 0, consensushashing.SigHashAll,
		&consensushashing.SighashReusedValues{}, emptyKDB)
	if err == nil {
		t.Fatalf("SignTxOutput: expected an error for a missing key")
	}

	opTrueScriptPublicKey, _ := testutils.OpTrueScript()
	tx.Inputs[0].UTXOEntry = utxo.NewUTXOEntry(1000, opTrueScriptPublicKey, false, 1)
	_, err = txscript.SignTxOutput(params, tx, 0, consensushashing.SigHashAll,
		&consensushashing.SighashReusedValues{}, emptyKDB)
	if err == nil {
		t.Fatalf("SignTxOutput: expected an error for a pay-to-script-hash input")
	}

	_, err = txscript.SignTxOutput(params, tx, 5, consensushashing.SigHashAll,
		&consensushashing.SighashReusedValues{}, emptyKDB)
	if err == nil {
		t.Fatalf("SignTxOutput: expected an error for an out of range index")
	}
}
