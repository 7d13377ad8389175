package generator_test

import (
	"reflect"
	"testing"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/constants"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/multiset"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/testutils"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/txscript"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
)

func TestGeneratorSingleFinalTransaction(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		_, ownerAddress := schnorrKeyAndAddress(t, 1, params)
		_, destinationAddress := schnorrKeyAndAddress(t, 2, params)

		g, err := generator.New(&generator.Settings{
			Entries:       testEntries(t, ownerAddress, 1_000_000),
			Destination:   paymentTo(destinationAddress, 200_000),
			ChangeAddress: ownerAddress,
			Params:        params,
		})
		if err != nil {
			t.Fatalf("New: %+v", err)
		}

		pending, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %+v", err)
		}
		if pending == nil || !pending.IsFinal() {
			t.Fatalf("Expected a final transaction, got %v", pending)
		}

		transaction := pending.Transaction()
		if len(transaction.Inputs) != 1 || len(transaction.Outputs) != 2 {
			t.Fatalf("Expected 1 input and 2 outputs, got %d and %d",
				len(transaction.Inputs), len(transaction.Outputs))
		}
		if transaction.Outputs[0].Value != 200_000 {
			t.Fatalf("Unexpected payment value %d", transaction.Outputs[0].Value)
		}
		if transaction.Outputs[1].Value != 800_000 {
			t.Fatalf("Unexpected change value %d", transaction.Outputs[1].Value)
		}
		changeScriptPublicKey, err := txscript.PayToAddrScript(ownerAddress)
		if err != nil {
			t.Fatalf("PayToAddrScript: %+v", err)
		}
		if !transaction.Outputs[1].ScriptPublicKey.Equal(changeScriptPublicKey) {
			t.Fatalf("Change is not paid to the change address")
		}
		if transaction.Fee != 0 {
			t.Fatalf("Unexpected fee %d", transaction.Fee)
		}
		if transaction.Mass != 2036 {
			t.Fatalf("Unexpected mass %d", transaction.Mass)
		}
		if transaction.Version != constants.MaxTransactionVersion || transaction.LockTime != 0 {
			t.Fatalf("Unexpected version %d or lock time %d", transaction.Version, transaction.LockTime)
		}

		next, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %+v", err)
		}
		if next != nil {
			t.Fatalf("Expected no transaction after the final one")
		}

		summary := g.Summary()
		if summary.TransactionCount != 1 || summary.CompoundTransactionCount != 0 ||
			summary.UTXOsConsumed != 1 || summary.TotalFees != 0 || summary.TotalMass != 2036 ||
			summary.FinalAmount != 200_000 {
			t.Fatalf("Unexpected summary %+v", summary)
		}
		if !summary.FinalTransactionID.Equal(pending.ID()) {
			t.Fatalf("Summary final transaction ID %s is not %s", summary.FinalTransactionID, pending.ID())
		}
	})
}

func TestGeneratorCompoundsWhenMassIsExceeded(t *testing.T) {
	params := dagconfig.MainnetParams
	params.MaxTransactionMass = 4500

	_, ownerAddress := schnorrKeyAndAddress(t, 1, &params)
	_, destinationAddress := schnorrKeyAndAddress(t, 2, &params)
	entries := testEntries(t, ownerAddress, repeatedAmounts(100_000, 7)...)

	g, err := generator.New(&generator.Settings{
		Entries:       entries,
		Destination:   paymentTo(destinationAddress, 650_000),
		PriorityFee:   1000,
		ChangeAddress: ownerAddress,
		Params:        &params,
	})
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	pendings := drain(t, g)
	checkRunInvariants(t, pendings, len(entries), params.MaxTransactionMass)

	expectedKinds := []generator.TransactionKind{
		generator.TransactionKindCompound, generator.TransactionKindCompound, generator.TransactionKindFinal}
	if len(pendings) != len(expectedKinds) {
		t.Fatalf("Expected %d transactions, got %d", len(expectedKinds), len(pendings))
	}
	for i, pending := range pendings {
		if pending.Kind() != expectedKinds[i] {
			t.Fatalf("Transaction %d: expected %s, got %s", i, expectedKinds[i], pending.Kind())
		}
	}

	first, second, final := pendings[0], pendings[1], pendings[2]
	for _, compound := range []*generator.PendingTransaction{first, second} {
		outputEntry := compound.OutputEntry()
		if outputEntry.Amount() != compound.InputAmount() {
			t.Fatalf("Compound output %d differs from its inputs %d", outputEntry.Amount(), compound.InputAmount())
		}
		if outputEntry.Source != generator.EntrySourcePendingFromSelf {
			t.Fatalf("Compound output has source %s", outputEntry.Source)
		}
		if outputEntry.Entry.BlockDAAScore() != constants.UnacceptedDAAScore {
			t.Fatalf("Compound output has DAA score %d", outputEntry.Entry.BlockDAAScore())
		}
		if len(compound.Transaction().Outputs) != 1 {
			t.Fatalf("Compound transaction has %d outputs", len(compound.Transaction().Outputs))
		}
	}
	if first.InputAmount() != 300_000 || second.InputAmount() != 500_000 {
		t.Fatalf("Unexpected compound amounts %d and %d", first.InputAmount(), second.InputAmount())
	}

	secondInputs := second.Transaction().Inputs
	expectedOutpoint := externalapi.NewDomainOutpoint(first.ID(), 0)
	if !secondInputs[0].PreviousOutpoint.Equal(expectedOutpoint) {
		t.Fatalf("Second compound spends %s instead of %s", secondInputs[0].PreviousOutpoint, expectedOutpoint)
	}

	finalTransaction := final.Transaction()
	expectedOutpoint = externalapi.NewDomainOutpoint(second.ID(), 0)
	if !finalTransaction.Inputs[0].PreviousOutpoint.Equal(expectedOutpoint) {
		t.Fatalf("Final transaction spends %s instead of %s", finalTransaction.Inputs[0].PreviousOutpoint, expectedOutpoint)
	}
	if len(finalTransaction.Inputs) != 3 {
		t.Fatalf("Final transaction has %d inputs", len(finalTransaction.Inputs))
	}
	if final.InputAmount() < 651_000 {
		t.Fatalf("Final inputs of %d do not cover outputs and fee", final.InputAmount())
	}
	if finalTransaction.Outputs[0].Value != 650_000 || finalTransaction.Outputs[1].Value != 49_000 {
		t.Fatalf("Unexpected final outputs %d and %d",
			finalTransaction.Outputs[0].Value, finalTransaction.Outputs[1].Value)
	}

	summary := g.Summary()
	expectedSummary := generator.GeneratorSummary{
		TransactionCount:         3,
		CompoundTransactionCount: 2,
		TotalFees:                1000,
		UTXOsConsumed:            9,
		FinalAmount:              650_000,
		FinalTransactionID:       final.ID(),
		TotalMass:                3860 + 3860 + 4272,
		ConsumedUTXOsCommitment:  summary.ConsumedUTXOsCommitment,
	}
	if !reflect.DeepEqual(summary, expectedSummary) {
		t.Fatalf("Unexpected summary. Want: %+v, got: %+v", expectedSummary, summary)
	}
}

func TestGeneratorInvariantsOverManyEntries(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, params *dagconfig.Params) {
		_, ownerAddress := schnorrKeyAndAddress(t, 3, params)
		_, destinationAddress := schnorrKeyAndAddress(t, 4, params)

		amounts := make([]uint64, 300)
		for i := range amounts {
			amounts[len(amounts)-1-i] = uint64(i+1)*1000 + 1
		}
		entries := testEntries(t, ownerAddress, amounts...)
		generator.SortEntriesByAmount(entries)
		if entries[0].Amount() != 1001 {
			t.Fatalf("SortEntriesByAmount did not sort ascending")
		}

		g, err := generator.New(&generator.Settings{
			Entries:       entries,
			Destination:   paymentTo(destinationAddress, 45_000_000),
			PriorityFee:   10_000,
			ChangeAddress: ownerAddress,
			Payload:       []byte("batch"),
			Params:        params,
		})
		if err != nil {
			t.Fatalf("New: %+v", err)
		}

		pendings := drain(t, g)
		checkRunInvariants(t, pendings, len(entries), params.MaxTransactionMass)

		final := pendings[len(pendings)-1].Transaction()
		if final.Outputs[0].Value != 45_000_000 {
			t.Fatalf("Unexpected payment value %d", final.Outputs[0].Value)
		}
		if string(final.Payload) != "batch" {
			t.Fatalf("Final transaction does not carry the payload")
		}
		for _, pending := range pendings[:len(pendings)-1] {
			if len(pending.Transaction().Payload) != 0 {
				t.Fatalf("Compound transaction %s carries a payload", pending.ID())
			}
		}

		summary := g.Summary()
		if summary.TransactionCount != uint64(len(pendings)) ||
			summary.CompoundTransactionCount != uint64(len(pendings)-1) {
			t.Fatalf("Unexpected summary counts %+v for %d transactions", summary, len(pendings))
		}
		if summary.TotalFees != 10_000 {
			t.Fatalf("Unexpected total fees %d", summary.TotalFees)
		}
	})
}

func TestGeneratorCompletionIsIdempotent(t *testing.T) {
	params := dagconfig.MainnetParams
	_, ownerAddress := schnorrKeyAndAddress(t, 1, &params)

	g, err := generator.New(&generator.Settings{
		Entries:       testEntries(t, ownerAddress, 5000, 6000),
		Destination:   paymentTo(ownerAddress, 7000),
		PriorityFee:   100,
		ChangeAddress: ownerAddress,
		Params:        &params,
	})
	if err != nil {
		t.Fatalf("New: %+v", err)
	}
	drain(t, g)
	if !g.IsDone() || g.State() != "done" {
		t.Fatalf("Generator is in state %s after the final transaction", g.State())
	}

	summary := g.Summary()
	for i := 0; i < 3; i++ {
		pending, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %+v", err)
		}
		if pending != nil {
			t.Fatalf("Next returned a transaction after completion")
		}
	}
	if !reflect.DeepEqual(summary, g.Summary()) {
		t.Fatalf("Summary changed after completion. Before: %+v, after: %+v", summary, g.Summary())
	}
}

func TestGeneratorSweep(t *testing.T) {
	params := dagconfig.MainnetParams
	_, ownerAddress := schnorrKeyAndAddress(t, 1, &params)
	_, changeAddress := schnorrKeyAndAddress(t, 5, &params)
	entries := testEntries(t, ownerAddress, 1000, 2000, 3000, 4000, 5000)

	g, err := generator.New(&generator.Settings{
		Entries:       entries,
		Destination:   generator.PaymentDestinationChange(),
		PriorityFee:   500,
		ChangeAddress: changeAddress,
		Params:        &params,
	})
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	pendings := drain(t, g)
	checkRunInvariants(t, pendings, len(entries), params.MaxTransactionMass)
	if len(pendings) != 1 {
		t.Fatalf("Expected a single transaction, got %d", len(pendings))
	}
	transaction := pendings[0].Transaction()
	if len(transaction.Inputs) != 5 || len(transaction.Outputs) != 1 {
		t.Fatalf("Expected 5 inputs and 1 output, got %d and %d",
			len(transaction.Inputs), len(transaction.Outputs))
	}
	if transaction.Outputs[0].Value != 14_500 {
		t.Fatalf("Unexpected swept value %d", transaction.Outputs[0].Value)
	}

	summary := g.Summary()
	if summary.FinalAmount != 14_500 || summary.TotalFees != 500 {
		t.Fatalf("Unexpected summary %+v", summary)
	}
	checkCommitment(t, summary, entries)
}

func TestGeneratorSweepWithCompounds(t *testing.T) {
	params := dagconfig.MainnetParams
	params.MaxTransactionMass = 4500
	_, ownerAddress := schnorrKeyAndAddress(t, 1, &params)
	entries := testEntries(t, ownerAddress, repeatedAmounts(10_000, 10)...)

	g, err := generator.New(&generator.Settings{
		Entries:       entries,
		Destination:   generator.PaymentDestinationChange(),
		PriorityFee:   100,
		ChangeAddress: ownerAddress,
		Params:        &params,
	})
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	pendings := drain(t, g)
	checkRunInvariants(t, pendings, len(entries), params.MaxTransactionMass)
	if len(pendings) != 5 {
		t.Fatalf("Expected 4 compound transactions and a final one, got %d transactions", len(pendings))
	}

	final := pendings[len(pendings)-1].Transaction()
	if len(final.Outputs) != 1 || final.Outputs[0].Value != 99_900 {
		t.Fatalf("Unexpected final outputs %v", final.Outputs)
	}

	summary := g.Summary()
	if summary.UTXOsConsumed != 14 {
		t.Fatalf("Expected 14 consumed entries, got %d", summary.UTXOsConsumed)
	}
	checkCommitment(t, summary, entries)
}

func checkCommitment(t *testing.T, summary generator.GeneratorSummary, entries []*generator.UTXOEntryReference) {
	expected := multiset.New()
	for _, entry := range entries {
		expected.Add(generator.SerializeOutpoint(&entry.Outpoint))
	}
	if !expected.Hash().Equal(summary.ConsumedUTXOsCommitment) {
		t.Fatalf("Commitment %s does not match the consumed entries %s",
			summary.ConsumedUTXOsCommitment, expected.Hash())
	}
}

func TestNewValidation(t *testing.T) {
	_, ownerAddress := schnorrKeyAndAddress(t, 1, &dagconfig.MainnetParams)
	_, destinationAddress := schnorrKeyAndAddress(t, 2, &dagconfig.MainnetParams)
	_, testnetAddress := schnorrKeyAndAddress(t, 2, &dagconfig.TestnetParams)

	tests := []struct {
		name               string
		entries            []uint64
		destination        generator.PaymentDestination
		priorityFee        uint64
		noChangeAddress    bool
		changeIsTestnet    bool
		maxTransactionMass  uint64
		duplicateFirstEntry bool
		expectedErr         error
	}{
		{
			name:        "insufficient funds",
			entries:     []uint64{100, 200},
			destination: paymentTo(destinationAddress, 1000),
			expectedErr: generator.ErrInsufficientFunds,
		},
		{
			name:        "fee makes funds insufficient",
			entries:     []uint64{1000},
			destination: paymentTo(destinationAddress, 1000),
			priorityFee: 1,
			expectedErr: generator.ErrInsufficientFunds,
		},
		{
			name:        "sweep cannot pay the fee",
			entries:     []uint64{100},
			destination: generator.PaymentDestinationChange(),
			priorityFee: 100,
			expectedErr: generator.ErrInsufficientFunds,
		},
		{
			name:        "no entries",
			destination: paymentTo(destinationAddress, 1),
			expectedErr: generator.ErrInsufficientFunds,
		},
		{
			name:        "no outputs",
			entries:     []uint64{1000},
			destination: generator.PaymentDestinationOutputs(),
			expectedErr: generator.ErrNoOutputs,
		},
		{
			name:        "zero output",
			entries:     []uint64{1000},
			destination: paymentTo(destinationAddress, 0),
			expectedErr: generator.ErrZeroOutput,
		},
		{
			name:            "missing change address",
			entries:         []uint64{1000},
			destination:     paymentTo(destinationAddress, 10),
			noChangeAddress: true,
			expectedErr:     generator.ErrMissingChangeAddress,
		},
		{
			name:            "change address of another network",
			entries:         []uint64{1000},
			destination:     paymentTo(destinationAddress, 10),
			changeIsTestnet: true,
			expectedErr:     generator.ErrAddressNetworkMismatch,
		},
		{
			name:        "output address of another network",
			entries:     []uint64{1000},
			destination: paymentTo(testnetAddress, 10),
			expectedErr: generator.ErrAddressNetworkMismatch,
		},
		{
			name:               "outputs exceed mass",
			entries:            []uint64{1_000_000},
			destination:        paymentTo(destinationAddress, 10),
			maxTransactionMass: 2000,
			expectedErr:        generator.ErrOutputsExceedMass,
		},
		{
			name:               "mass limit too low to compound",
			entries:            []uint64{1_000_000, 1_000_000},
			destination:        paymentTo(destinationAddress, 10),
			maxTransactionMass: 2500,
			expectedErr:        generator.ErrMassLimitTooLow,
		},
		{
			name:    "outputs wrapping around uint64",
			entries: []uint64{1_000_000},
			destination: generator.PaymentDestinationOutputs(
				&generator.PaymentOutput{Address: destinationAddress, Amount: 1 << 63},
				&generator.PaymentOutput{Address: destinationAddress, Amount: 1 << 63}),
			expectedErr: generator.ErrAmountOverflow,
		},
		{
			name:    "outputs above the maximum supply",
			entries: []uint64{1_000_000},
			destination: generator.PaymentDestinationOutputs(
				&generator.PaymentOutput{Address: destinationAddress, Amount: constants.MaxSompi},
				&generator.PaymentOutput{Address: destinationAddress, Amount: 1}),
			expectedErr: generator.ErrAmountOverflow,
		},
		{
			name:        "output above the maximum supply",
			entries:     []uint64{1_000_000},
			destination: paymentTo(destinationAddress, constants.MaxSompi+1),
			expectedErr: generator.ErrAmountOverflow,
		},
		{
			name:        "priority fee above the maximum supply",
			entries:     []uint64{1_000_000},
			destination: generator.PaymentDestinationChange(),
			priorityFee: constants.MaxSompi + 1,
			expectedErr: generator.ErrAmountOverflow,
		},
		{
			name:        "entry above the maximum supply",
			entries:     []uint64{constants.MaxSompi + 1},
			destination: paymentTo(destinationAddress, 10),
			expectedErr: generator.ErrAmountOverflow,
		},
		{
			name:        "entries above the maximum supply",
			entries:     []uint64{constants.MaxSompi, constants.MaxSompi},
			destination: paymentTo(destinationAddress, 10),
			expectedErr: generator.ErrAmountOverflow,
		},
		{
			name:                "duplicate outpoint",
			entries:             []uint64{600_000, 700_000},
			destination:         paymentTo(destinationAddress, 1_000_000),
			duplicateFirstEntry: true,
			expectedErr:         generator.ErrDuplicateEntry,
		},
	}

	for _, test := range tests {
		params := dagconfig.MainnetParams
		if test.maxTransactionMass != 0 {
			params.MaxTransactionMass = test.maxTransactionMass
		}
		settings := &generator.Settings{
			Entries:       testEntries(t, ownerAddress, test.entries...),
			Destination:   test.destination,
			PriorityFee:   test.priorityFee,
			ChangeAddress: ownerAddress,
			Params:        &params,
		}
		if test.noChangeAddress {
			settings.ChangeAddress = nil
		}
		if test.changeIsTestnet {
			settings.ChangeAddress = testnetAddress
		}
		if test.duplicateFirstEntry {
			settings.Entries = append(settings.Entries, settings.Entries[0])
		}

		g, err := generator.New(settings)
		if !errors.Is(err, test.expectedErr) {
			t.Errorf("%s: expected error %v, got %+v", test.name, test.expectedErr, err)
		}
		if g != nil {
			t.Errorf("%s: New returned a generator along with an error", test.name)
		}
	}
}

func TestGeneratorResolvesEntryOwners(t *testing.T) {
	params := dagconfig.MainnetParams
	key, ownerAddress := schnorrKeyAndAddress(t, 1, &params)
	entries := testEntries(t, ownerAddress, 50_000)
	entries[0].Address = nil

	g, err := generator.New(&generator.Settings{
		Entries:       entries,
		Destination:   paymentTo(ownerAddress, 10_000),
		ChangeAddress: ownerAddress,
		Params:        &params,
	})
	if err != nil {
		t.Fatalf("New: %+v", err)
	}
	pending, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %+v", err)
	}
	if pending.Entries()[0].Address.EncodeAddress() != ownerAddress.EncodeAddress() {
		t.Fatalf("Entry owner was resolved to %s instead of %s", pending.Entries()[0].Address, ownerAddress)
	}
	if entries[0].Address != nil {
		t.Fatalf("New modified the caller's entry")
	}
	_, err = pending.Sign([]*generator.PrivateKey{key})
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}
}

func TestGeneratorStopsOnStorageMass(t *testing.T) {
	params := dagconfig.MainnetParams
	params.StorageMassParameter = dagconfig.KIP9StorageMassParameter
	_, ownerAddress := schnorrKeyAndAddress(t, 1, &params)
	_, destinationAddress := schnorrKeyAndAddress(t, 2, &params)

	g, err := generator.New(&generator.Settings{
		Entries:       testEntries(t, ownerAddress, repeatedAmounts(100_000_001, 10)...),
		Destination:   paymentTo(destinationAddress, 1_000_000_000),
		ChangeAddress: ownerAddress,
		Params:        &params,
	})
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	// The final transaction leaves 10 sompi of change, which fits the compute
	// mass limit but not the storage mass limit
	for i := 0; i < 2; i++ {
		pending, err := g.Next()
		if !errors.Is(err, generator.ErrStorageMassExceeded) {
			t.Fatalf("Next %d: expected %v, got %+v", i, generator.ErrStorageMassExceeded, err)
		}
		if pending != nil {
			t.Fatalf("Next %d returned a transaction along with an error", i)
		}
	}
	summary := g.Summary()
	if summary.TransactionCount != 0 {
		t.Fatalf("Expected no transactions to be emitted, got %d", summary.TransactionCount)
	}
	if g.IsDone() {
		t.Fatalf("Generator is done after failing")
	}
}

func TestGeneratorRemainingEntries(t *testing.T) {
	params := dagconfig.MainnetParams
	_, ownerAddress := schnorrKeyAndAddress(t, 1, &params)
	_, destinationAddress := schnorrKeyAndAddress(t, 2, &params)
	entries := testEntries(t, ownerAddress, 300_000, 400_000, 500_000, 600_000)

	g, err := generator.New(&generator.Settings{
		Entries:       entries,
		Destination:   paymentTo(destinationAddress, 600_000),
		ChangeAddress: ownerAddress,
		Params:        &params,
	})
	if err != nil {
		t.Fatalf("New: %+v", err)
	}
	if len(g.RemainingEntries()) != len(entries) {
		t.Fatalf("Expected %d remaining entries before the run, got %d", len(entries), len(g.RemainingEntries()))
	}

	pendings := drain(t, g)
	if len(pendings) != 1 || len(pendings[0].Entries()) != 2 {
		t.Fatalf("Expected a single transaction spending 2 entries, got %d transactions", len(pendings))
	}
	remaining := g.RemainingEntries()
	if len(remaining) != 2 {
		t.Fatalf("Expected 2 remaining entries, got %d", len(remaining))
	}
	for i, entry := range remaining {
		if entry.Outpoint != entries[i+2].Outpoint {
			t.Fatalf("Remaining entry %d is %s instead of %s", i, entry.Outpoint, entries[i+2].Outpoint)
		}
	}
}
