package testutils

import (
	"testing"

	"github.com/kaspanet/txgenerator/domain/dagconfig"
)

// ForAllNets runs the passed testFunc with all available networks.
// Each network gets its own copy of the parameters, so testFunc is free
// to modify them.
func ForAllNets(t *testing.T, testFunc func(*testing.T, *dagconfig.Params)) {
	for _, params := range dagconfig.AllParams() {
		paramsCopy := *params
		t.Run(paramsCopy.Name, func(t *testing.T) {
			t.Parallel()
			t.Logf("Running test for %s", paramsCopy.Name)
			testFunc(t, &paramsCopy)
		})
	}
}
