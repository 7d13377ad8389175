package generator_test

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/txscript"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/utxo"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/util"
	"github.com/kaspanet/txgenerator/wallet/generator"
)

func schnorrKeyAndAddress(t *testing.T, seed byte, params *dagconfig.Params) (*generator.PrivateKey, util.Address) {
	key, err := generator.NewSchnorrPrivateKey(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		t.Fatalf("NewSchnorrPrivateKey: %+v", err)
	}
	address, err := key.Address(params.Prefix)
	if err != nil {
		t.Fatalf("Address: %+v", err)
	}
	return key, address
}

func ecdsaKeyAndAddress(t *testing.T, seed byte, params *dagconfig.Params) (*generator.PrivateKey, util.Address) {
	key, err := generator.NewECDSAPrivateKey(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		t.Fatalf("NewECDSAPrivateKey: %+v", err)
	}
	address, err := key.Address(params.Prefix)
	if err != nil {
		t.Fatalf("Address: %+v", err)
	}
	return key, address
}

// testEntries returns confirmed entries owned by address, one per amount,
// each with a distinct outpoint.
func testEntries(t *testing.T, address util.Address, amounts ...uint64) []*generator.UTXOEntryReference {
	return testEntriesWithSeed(t, 0, address, amounts...)
}

func testEntriesWithSeed(t *testing.T, seed byte, address util.Address, amounts ...uint64) []*generator.UTXOEntryReference {
	scriptPublicKey, err := txscript.PayToAddrScript(address)
	if err != nil {
		t.Fatalf("PayToAddrScript: %+v", err)
	}
	entries := make([]*generator.UTXOEntryReference, len(amounts))
	for i, amount := range amounts {
		transactionID := externalapi.NewDomainTransactionIDFromByteArray(
			&[externalapi.DomainHashSize]byte{0xaa, seed, byte(i), byte(i >> 8)})
		entries[i] = generator.NewUTXOEntryReference(
			externalapi.NewDomainOutpoint(transactionID, uint32(i%3)),
			utxo.NewUTXOEntry(amount, scriptPublicKey, false, 100),
			address)
	}
	return entries
}

func repeatedAmounts(amount uint64, count int) []uint64 {
	amounts := make([]uint64, count)
	for i := range amounts {
		amounts[i] = amount
	}
	return amounts
}

func paymentTo(address util.Address, amount uint64) generator.PaymentDestination {
	return generator.PaymentDestinationOutputs(&generator.PaymentOutput{Address: address, Amount: amount})
}

func drain(t *testing.T, g *generator.Generator) []*generator.PendingTransaction {
	pendings, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %+v", err)
	}
	return pendings
}

// checkRunInvariants verifies value conservation, the mass bound and that no
// outpoint is spent twice over a complete run.
func checkRunInvariants(t *testing.T, pendings []*generator.PendingTransaction, entryCount int, maxMass uint64) {
	if len(pendings) == 0 {
		t.Fatalf("No transactions were generated")
	}
	if len(pendings) > entryCount {
		t.Fatalf("Generated %d transactions out of %d entries", len(pendings), entryCount)
	}

	spent := make(map[externalapi.DomainOutpoint]struct{})
	for i, pending := range pendings {
		isLast := i == len(pendings)-1
		if pending.IsFinal() != isLast {
			t.Fatalf("Transaction %d has kind %s, while it is last: %t", i, pending.Kind(), isLast)
		}

		transaction := pending.Transaction()
		inputAmount := uint64(0)
		for _, input := range transaction.Inputs {
			if input.UTXOEntry == nil {
				t.Fatalf("Transaction %d has an input without a UTXO entry", i)
			}
			inputAmount += input.UTXOEntry.Amount()
			if _, ok := spent[input.PreviousOutpoint]; ok {
				t.Fatalf("Outpoint %s is spent twice", input.PreviousOutpoint)
			}
			spent[input.PreviousOutpoint] = struct{}{}
		}
		outputAmount := uint64(0)
		for _, output := range transaction.Outputs {
			outputAmount += output.Value
		}
		if inputAmount != outputAmount+transaction.Fee {
			t.Fatalf("Transaction %d does not conserve value: %d in, %d out, %d fee:\n%s",
				i, inputAmount, outputAmount, transaction.Fee, spew.Sdump(transaction))
		}
		if !pending.IsFinal() && transaction.Fee != 0 {
			t.Fatalf("Compound transaction %d pays a fee of %d", i, transaction.Fee)
		}
		if transaction.Mass > maxMass {
			t.Fatalf("Transaction %d has mass %d, above %d", i, transaction.Mass, maxMass)
		}
	}
}
