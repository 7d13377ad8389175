package txmass

import (
	"bytes"
	"testing"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/subnetworks"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/utxo"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
)

func p2pkScriptPublicKey(seed byte) *externalapi.ScriptPublicKey {
	script := append([]byte{0x20}, bytes.Repeat([]byte{seed}, 32)...)
	script = append(script, 0xac)
	return &externalapi.ScriptPublicKey{Script: script, Version: 0}
}

func testTransaction(inputAmounts []uint64, outputAmounts []uint64) *externalapi.DomainTransaction {
	inputs := make([]*externalapi.DomainTransactionInput, len(inputAmounts))
	for i, amount := range inputAmounts {
		inputs[i] = &externalapi.DomainTransactionInput{
			PreviousOutpoint: externalapi.DomainOutpoint{Index: uint32(i)},
			SigOpCount:       1,
			UTXOEntry:        utxo.NewUTXOEntry(amount, p2pkScriptPublicKey(1), false, 0),
		}
	}
	outputs := make([]*externalapi.DomainTransactionOutput, len(outputAmounts))
	for i, amount := range outputAmounts {
		outputs[i] = &externalapi.DomainTransactionOutput{Value: amount, ScriptPublicKey: p2pkScriptPublicKey(2)}
	}
	return &externalapi.DomainTransaction{
		Inputs:       inputs,
		Outputs:      outputs,
		SubnetworkID: subnetworks.SubnetworkIDNative,
		Payload:      []byte{},
	}
}

func TestCalculateTransactionMass(t *testing.T) {
	calculator := NewCalculatorFromParams(&dagconfig.MainnetParams)

	tx := testTransaction([]uint64{1_000_000}, []uint64{200_000, 800_000})
	tx.Inputs[0].SignatureScript = make([]byte, SignatureScriptSizeP2PK)

	// size: 2 + 8 + (36 + 8 + 66 + 8) + 8 + 2*(8 + 2 + 8 + 34) + 8 + 20 + 8 + 32 + 8 = 316
	// script public keys: 2 * (2 + 34) * 10 = 720
	// sig ops: 1 * 1000 = 1000
	const expectedMass = 316 + 720 + 1000
	mass := calculator.CalculateTransactionMass(tx)
	if mass != expectedMass {
		t.Fatalf("CalculateTransactionMass: expected %d but got %d", expectedMass, mass)
	}

	if calculator.CalculateTransactionStorageMass(tx) != 0 {
		t.Fatalf("CalculateTransactionStorageMass: storage mass is expected to be disabled")
	}
	if calculator.CalculateTransactionOverallMass(tx) != expectedMass {
		t.Fatalf("CalculateTransactionOverallMass: expected %d", expectedMass)
	}

	tx.Payload = make([]byte, 100)
	massWithPayload := calculator.CalculateTransactionMass(tx)
	if massWithPayload != expectedMass+100 {
		t.Fatalf("CalculateTransactionMass: expected the payload to add 100 grams but got %d", massWithPayload)
	}
}

func TestEstimateSignedTransactionMass(t *testing.T) {
	calculator := NewCalculatorFromParams(&dagconfig.MainnetParams)

	tx := testTransaction([]uint64{10, 20, 30}, []uint64{60})
	unsignedMass := calculator.CalculateTransactionMass(tx)
	estimatedMass := calculator.EstimateSignedTransactionMass(tx, SignatureScriptSizeP2PK)

	expectedMass := unsignedMass + 3*SignatureScriptSizeP2PK*dagconfig.MainnetParams.MassPerTxByte
	if estimatedMass != expectedMass {
		t.Fatalf("EstimateSignedTransactionMass: expected %d but got %d", expectedMass, estimatedMass)
	}

	for i, input := range tx.Inputs {
		if len(input.SignatureScript) != 0 {
			t.Fatalf("EstimateSignedTransactionMass modified the signature script of input %d", i)
		}
	}
}

func TestCalculateTransactionStorageMass(t *testing.T) {
	calculator := NewCalculator(1, 10, 1000, dagconfig.KIP9StorageMassParameter, 100_000)

	tests := []struct {
		name          string
		inputAmounts  []uint64
		outputAmounts []uint64
		expectedMass  uint64
	}{
		{
			// 1e12/2e5 + 1e12/8e5 - 1e12/1e6
			name:          "one input, two outputs",
			inputAmounts:  []uint64{1_000_000},
			outputAmounts: []uint64{200_000, 800_000},
			expectedMass:  5_250_000,
		},
		{
			// The harmonic sum of the outputs is below the inputs' one
			name:          "compounding",
			inputAmounts:  []uint64{100_000_000, 100_000_000},
			outputAmounts: []uint64{200_000_000},
			expectedMass:  0,
		},
		{
			// 3 * 1e12/1e8 - 3 * 1e12/1e8
			name:          "three by three",
			inputAmounts:  []uint64{100_000_000, 100_000_000, 100_000_000},
			outputAmounts: []uint64{100_000_000, 100_000_000, 100_000_000},
			expectedMass:  0,
		},
	}

	for _, test := range tests {
		tx := testTransaction(test.inputAmounts, test.outputAmounts)
		mass := calculator.CalculateTransactionStorageMass(tx)
		if mass != test.expectedMass {
			t.Errorf("%s: expected storage mass %d but got %d", test.name, test.expectedMass, mass)
		}
	}

	tx := testTransaction([]uint64{1_000_000}, []uint64{200_000, 800_000})
	if calculator.CalculateTransactionOverallMass(tx) != 5_250_000 {
		t.Fatalf("CalculateTransactionOverallMass: expected the storage mass to dominate")
	}
	if !calculator.ExceedsMaxMass(calculator.CalculateTransactionOverallMass(tx)) {
		t.Fatalf("ExceedsMaxMass: expected %d to exceed %d", 5_250_000, calculator.MaxMass())
	}
}
