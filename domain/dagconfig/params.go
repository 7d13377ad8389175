// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"github.com/kaspanet/txgenerator/util"
	"github.com/pkg/errors"
)

const (
	defaultMassPerTxByte           = 1
	defaultMassPerScriptPubKeyByte = 10
	defaultMassPerSigOp            = 1000

	// defaultMaxTransactionMass is the standard per-transaction mass limit
	// enforced by the mempool.
	defaultMaxTransactionMass = 100_000

	// defaultStorageMassParameter of zero disables the KIP-0009 storage
	// mass term.
	defaultStorageMassParameter = 0
)

// KIP9StorageMassParameter is the storage mass parameter defined by
// KIP-0009 (SompiPerKaspa * 10_000). Networks enable it through the
// storageMassParameter override.
const KIP9StorageMassParameter = 100_000_000 * 10_000

// Params defines a Kaspa network by its parameters. These parameters may be
// used by Kaspa applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Human-readable prefix for Bech32 encoded addresses
	Prefix util.Bech32Prefix

	// MassPerTxByte is the number of grams that any byte
	// adds to a transaction.
	MassPerTxByte uint64

	// MassPerScriptPubKeyByte is the number of grams that any
	// scriptPubKey byte adds to a transaction.
	MassPerScriptPubKeyByte uint64

	// MassPerSigOp is the number of grams that any
	// signature operation adds to a transaction.
	MassPerSigOp uint64

	// MaxTransactionMass is the maximum mass a single transaction may have
	// in order to be relayed.
	MaxTransactionMass uint64

	// StorageMassParameter is the C parameter of the KIP-0009 storage mass
	// formula. Zero disables storage mass.
	StorageMassParameter uint64
}

// MainnetParams defines the network parameters for the main Kaspa network.
var MainnetParams = Params{
	Name:                    "kaspa-mainnet",
	Prefix:                  util.Bech32PrefixKaspa,
	MassPerTxByte:           defaultMassPerTxByte,
	MassPerScriptPubKeyByte: defaultMassPerScriptPubKeyByte,
	MassPerSigOp:            defaultMassPerSigOp,
	MaxTransactionMass:      defaultMaxTransactionMass,
	StorageMassParameter:    defaultStorageMassParameter,
}

// TestnetParams defines the network parameters for the test Kaspa network.
var TestnetParams = Params{
	Name:                    "kaspa-testnet-11",
	Prefix:                  util.Bech32PrefixKaspaTest,
	MassPerTxByte:           defaultMassPerTxByte,
	MassPerScriptPubKeyByte: defaultMassPerScriptPubKeyByte,
	MassPerSigOp:            defaultMassPerSigOp,
	MaxTransactionMass:      defaultMaxTransactionMass,
	StorageMassParameter:    defaultStorageMassParameter,
}

// SimnetParams defines the network parameters for the simulation test Kaspa
// network. This network is similar to the normal test network except it is
// intended for private use within a group of individuals doing simulation
// testing.
var SimnetParams = Params{
	Name:                    "kaspa-simnet",
	Prefix:                  util.Bech32PrefixKaspaSim,
	MassPerTxByte:           defaultMassPerTxByte,
	MassPerScriptPubKeyByte: defaultMassPerScriptPubKeyByte,
	MassPerSigOp:            defaultMassPerSigOp,
	MaxTransactionMass:      defaultMaxTransactionMass,
	StorageMassParameter:    defaultStorageMassParameter,
}

// DevnetParams defines the network parameters for the development Kaspa network.
var DevnetParams = Params{
	Name:                    "kaspa-devnet",
	Prefix:                  util.Bech32PrefixKaspaDev,
	MassPerTxByte:           defaultMassPerTxByte,
	MassPerScriptPubKeyByte: defaultMassPerScriptPubKeyByte,
	MassPerSigOp:            defaultMassPerSigOp,
	MaxTransactionMass:      defaultMaxTransactionMass,
	StorageMassParameter:    defaultStorageMassParameter,
}

var (
	// ErrUnknownNetwork describes an error where a network name or
	// prefix is not known to this package.
	ErrUnknownNetwork = errors.New("unknown network")
)

// AllParams returns the parameters of every known network.
func AllParams() []*Params {
	return []*Params{&MainnetParams, &TestnetParams, &SimnetParams, &DevnetParams}
}

// ParamsForPrefix returns the parameters of the network that uses the given
// address prefix.
func ParamsForPrefix(prefix util.Bech32Prefix) (*Params, error) {
	for _, params := range AllParams() {
		if params.Prefix == prefix {
			return params, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownNetwork, "no network uses prefix %s", prefix)
}
