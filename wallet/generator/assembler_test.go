package generator

import (
	"testing"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/util/txmass"
	"github.com/pkg/errors"
)

func TestAssemble(t *testing.T) {
	changeScriptPublicKey := &externalapi.ScriptPublicKey{Script: make([]byte, 34), Version: 0}
	paymentScriptPublicKey := &externalapi.ScriptPublicKey{Script: append(make([]byte, 33), 1), Version: 0}
	a := &assembler{
		calculator:            txmass.NewCalculatorFromParams(&dagconfig.MainnetParams),
		changeScriptPublicKey: changeScriptPublicKey,
	}
	payment := []*externalapi.DomainTransactionOutput{{Value: 700, ScriptPublicKey: paymentScriptPublicKey}}

	tests := []struct {
		name                string
		inputs              []uint64
		fee                 uint64
		expectedErr         error
		expectedOutputCount int
	}{
		{name: "change", inputs: []uint64{500, 500}, fee: 100, expectedOutputCount: 2},
		{name: "no change", inputs: []uint64{500, 300}, fee: 100, expectedOutputCount: 1},
		{name: "negative change", inputs: []uint64{500, 299}, fee: 100, expectedErr: ErrAssemblyInvariantViolation},
	}

	for _, test := range tests {
		transaction, err := a.assemble(accumulatorTestEntries(test.inputs...), payment, test.fee, nil)
		if test.expectedErr != nil {
			if !errors.Is(err, test.expectedErr) {
				t.Errorf("%s: expected error %v, got %+v", test.name, test.expectedErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: assemble: %+v", test.name, err)
		}
		if len(transaction.Outputs) != test.expectedOutputCount {
			t.Errorf("%s: expected %d outputs, got %d", test.name, test.expectedOutputCount, len(transaction.Outputs))
		}
		if transaction.Fee != test.fee {
			t.Errorf("%s: expected fee %d, got %d", test.name, test.fee, transaction.Fee)
		}
		for i, input := range transaction.Inputs {
			if input.SigOpCount != 1 || input.UTXOEntry == nil {
				t.Errorf("%s: input %d is not populated", test.name, i)
			}
		}
		expectedMass := a.calculator.EstimateSignedTransactionMass(transaction, txmass.SignatureScriptSizeP2PK)
		if transaction.Mass != expectedMass {
			t.Errorf("%s: expected mass %d, got %d", test.name, expectedMass, transaction.Mass)
		}
	}
}

func TestAssembleMassExceeded(t *testing.T) {
	params := dagconfig.MainnetParams
	params.MaxTransactionMass = 2000
	a := &assembler{
		calculator:            txmass.NewCalculatorFromParams(&params),
		changeScriptPublicKey: &externalapi.ScriptPublicKey{Script: make([]byte, 34), Version: 0},
	}

	_, err := a.assemble(accumulatorTestEntries(100, 100), nil, 0, nil)
	if !errors.Is(err, errMassExceeded) {
		t.Fatalf("Expected errMassExceeded, got %+v", err)
	}
}
