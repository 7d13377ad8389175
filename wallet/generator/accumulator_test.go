package generator

import (
	"testing"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/utxo"
)

func accumulatorTestEntries(amounts ...uint64) []*UTXOEntryReference {
	scriptPublicKey := &externalapi.ScriptPublicKey{Script: []byte{0x51}, Version: 0}
	entries := make([]*UTXOEntryReference, len(amounts))
	for i, amount := range amounts {
		transactionID := externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{byte(i + 1)})
		entries[i] = NewUTXOEntryReference(externalapi.NewDomainOutpoint(transactionID, 0),
			utxo.NewUTXOEntry(amount, scriptPublicKey, false, 0), nil)
	}
	return entries
}

func TestAccumulatorPullAndPushBack(t *testing.T) {
	entries := accumulatorTestEntries(1, 2, 3)
	a := newAccumulator(entries)

	first, ok := a.Pull()
	if !ok || first != entries[0] {
		t.Fatalf("Pull did not return the first entry")
	}
	second, _ := a.Pull()
	a.PushBack(first, second)
	if remaining := a.Remaining(); len(remaining) != 3 || remaining[0] != entries[0] ||
		remaining[1] != entries[1] || remaining[2] != entries[2] {
		t.Fatalf("PushBack did not restore the original order: %v", remaining)
	}

	for i := 0; i < 3; i++ {
		a.Pull()
	}
	if !a.Exhausted() {
		t.Fatalf("Accumulator is not exhausted after pulling every entry")
	}
	_, ok = a.Pull()
	if ok {
		t.Fatalf("Pull unexpectedly succeeded on an exhausted accumulator")
	}
}

func TestAccumulate(t *testing.T) {
	alwaysFits := func([]*UTXOEntryReference) bool { return true }
	coversAt := func(target uint64) func(uint64) bool {
		return func(total uint64) bool { return total >= target }
	}

	tests := []struct {
		name          string
		amounts       []uint64
		base          []uint64
		covers        func(uint64) bool
		fits          func([]*UTXOEntryReference) bool
		expectedCount int
		expectedStop  accumulationStop
	}{
		{
			name:          "covered after two entries",
			amounts:       []uint64{10, 20, 30},
			covers:        coversAt(25),
			fits:          alwaysFits,
			expectedCount: 2,
			expectedStop:  stopCovered,
		},
		{
			name:          "base covers on its own",
			amounts:       []uint64{10, 20},
			base:          []uint64{100},
			covers:        coversAt(50),
			fits:          alwaysFits,
			expectedCount: 0,
			expectedStop:  stopCovered,
		},
		{
			name:          "exhausted",
			amounts:       []uint64{10, 20},
			covers:        coversAt(1000),
			fits:          alwaysFits,
			expectedCount: 2,
			expectedStop:  stopExhausted,
		},
		{
			name:    "mass exceeded on the third entry",
			amounts: []uint64{10, 20, 30, 40},
			covers:  coversAt(1000),
			fits: func(selection []*UTXOEntryReference) bool {
				return len(selection) <= 2
			},
			expectedCount: 3,
			expectedStop:  stopMassExceeded,
		},
		{
			name:    "base counts toward the mass",
			amounts: []uint64{10, 20, 30},
			base:    []uint64{5, 5},
			covers:  coversAt(1000),
			fits: func(selection []*UTXOEntryReference) bool {
				return len(selection) <= 3
			},
			expectedCount: 2,
			expectedStop:  stopMassExceeded,
		},
	}

	for _, test := range tests {
		a := newAccumulator(accumulatorTestEntries(test.amounts...))
		pulled, stop := a.Accumulate(accumulatorTestEntries(test.base...), test.covers, test.fits)
		if len(pulled) != test.expectedCount {
			t.Errorf("%s: expected %d pulled entries, got %d", test.name, test.expectedCount, len(pulled))
		}
		if stop != test.expectedStop {
			t.Errorf("%s: expected stop %s, got %s", test.name, test.expectedStop, stop)
		}
		if len(a.Remaining()) != len(test.amounts)-len(pulled) {
			t.Errorf("%s: %d entries remain after pulling %d out of %d", test.name,
				len(a.Remaining()), len(pulled), len(test.amounts))
		}
	}
}
