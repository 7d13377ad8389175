package generator

import (
	"github.com/kaspanet/txgenerator/util"
)

// PaymentOutput is a single requested payment.
type PaymentOutput struct {
	Address util.Address
	Amount  uint64
}

// PaymentOutputs is an ordered list of requested payments.
type PaymentOutputs []*PaymentOutput

// Amount returns the sum of all payment amounts.
func (outputs PaymentOutputs) Amount() uint64 {
	sum := uint64(0)
	for _, output := range outputs {
		sum += output.Amount
	}
	return sum
}

// PaymentDestination is where the value of a generation run goes: either an
// explicit list of outputs, or everything minus the priority fee to the
// change address.
type PaymentDestination struct {
	outputs PaymentOutputs
	isSweep bool
}

// PaymentDestinationOutputs returns a destination paying the given outputs.
func PaymentDestinationOutputs(outputs ...*PaymentOutput) PaymentDestination {
	return PaymentDestination{outputs: outputs}
}

// PaymentDestinationChange returns a destination that sweeps every entry to
// the change address.
func PaymentDestinationChange() PaymentDestination {
	return PaymentDestination{isSweep: true}
}

// IsChange returns whether the destination is a sweep to the change address.
func (d PaymentDestination) IsChange() bool {
	return d.isSweep
}

// Outputs returns the requested outputs. It is empty for a sweep.
func (d PaymentDestination) Outputs() PaymentOutputs {
	return d.outputs
}
