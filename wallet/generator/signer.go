package generator

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/txscript"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/util"
	"github.com/pkg/errors"
)

// PrivateKey is a Schnorr or ECDSA secp256k1 private key able to sign
// pay-to-pubkey inputs.
type PrivateKey struct {
	schnorrKeyPair *secp256k1.SchnorrKeyPair
	ecdsaKey       *secp256k1.ECDSAPrivateKey
}

// NewSchnorrPrivateKey parses a 32-byte private key for Schnorr signing.
func NewSchnorrPrivateKey(privateKeyBytes []byte) (*PrivateKey, error) {
	keyPair, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(privateKeyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Schnorr private key")
	}
	return &PrivateKey{schnorrKeyPair: keyPair}, nil
}

// NewECDSAPrivateKey parses a 32-byte private key for ECDSA signing.
func NewECDSAPrivateKey(privateKeyBytes []byte) (*PrivateKey, error) {
	key, err := secp256k1.DeserializeECDSAPrivateKeyFromSlice(privateKeyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ECDSA private key")
	}
	return &PrivateKey{ecdsaKey: key}, nil
}

// IsECDSA returns whether the key signs with ECDSA rather than Schnorr.
func (k *PrivateKey) IsECDSA() bool {
	return k.ecdsaKey != nil
}

// Address returns the pay-to-pubkey address of the key on the network
// identified by prefix.
func (k *PrivateKey) Address(prefix util.Bech32Prefix) (util.Address, error) {
	if k.IsECDSA() {
		publicKey, err := k.ecdsaKey.ECDSAPublicKey()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		serializedPublicKey, err := publicKey.Serialize()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return util.NewAddressPublicKeyECDSA(serializedPublicKey[:], prefix)
	}

	publicKey, err := k.schnorrKeyPair.SchnorrPublicKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return util.NewAddressPublicKey(serializedPublicKey[:], prefix)
}

// keyring maps encoded addresses to the keys that own them. It is the
// txscript.KeyDB used while signing.
type keyring struct {
	schnorrKeys map[string]*secp256k1.SchnorrKeyPair
	ecdsaKeys   map[string]*secp256k1.ECDSAPrivateKey
}

func newKeyring(keys []*PrivateKey, prefix util.Bech32Prefix) (*keyring, error) {
	kr := &keyring{
		schnorrKeys: make(map[string]*secp256k1.SchnorrKeyPair),
		ecdsaKeys:   make(map[string]*secp256k1.ECDSAPrivateKey),
	}
	for i, key := range keys {
		address, err := key.Address(prefix)
		if err != nil {
			return nil, errors.Wrapf(ErrSigning, "cannot derive the address of key %d: %s", i, err)
		}
		if key.IsECDSA() {
			kr.ecdsaKeys[address.EncodeAddress()] = key.ecdsaKey
		} else {
			kr.schnorrKeys[address.EncodeAddress()] = key.schnorrKeyPair
		}
	}
	return kr, nil
}

func (kr *keyring) has(address util.Address) bool {
	encoded := address.EncodeAddress()
	if _, ok := kr.schnorrKeys[encoded]; ok {
		return true
	}
	_, ok := kr.ecdsaKeys[encoded]
	return ok
}

func (kr *keyring) GetKey(address util.Address) (*secp256k1.SchnorrKeyPair, error) {
	key, ok := kr.schnorrKeys[address.EncodeAddress()]
	if !ok {
		return nil, errors.Wrapf(ErrMissingKey, "no Schnorr key for address %s", address)
	}
	return key, nil
}

func (kr *keyring) GetECDSAKey(address util.Address) (*secp256k1.ECDSAPrivateKey, error) {
	key, ok := kr.ecdsaKeys[address.EncodeAddress()]
	if !ok {
		return nil, errors.Wrapf(ErrMissingKey, "no ECDSA key for address %s", address)
	}
	return key, nil
}

// sign returns a signed copy of transaction. entries are the references
// spent by the transaction inputs, in input order.
func sign(params *dagconfig.Params, transaction *externalapi.DomainTransaction,
	entries []*UTXOEntryReference, keys []*PrivateKey) (*externalapi.DomainTransaction, error) {

	kr, err := newKeyring(keys, params.Prefix)
	if err != nil {
		return nil, err
	}

	for i, entry := range entries {
		if !kr.has(entry.Address) {
			return nil, errors.Wrapf(ErrMissingKey, "input %d is owned by %s", i, entry.Address)
		}
	}

	signedTransaction := transaction.Clone()
	sighashReusedValues := &consensushashing.SighashReusedValues{}
	for i, input := range signedTransaction.Inputs {
		signatureScript, err := txscript.SignTxOutput(params, signedTransaction, i,
			consensushashing.SigHashAll, sighashReusedValues, kr)
		if err != nil {
			if errors.Is(err, ErrMissingKey) {
				return nil, errors.Wrapf(err, "input %d", i)
			}
			return nil, errors.Wrapf(ErrSigning, "input %d: %s", i, err)
		}
		input.SignatureScript = signatureScript
	}
	return signedTransaction, nil
}
