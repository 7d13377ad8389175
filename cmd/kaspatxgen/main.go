package main

import (
	"github.com/kaspanet/txgenerator/util/panics"
	"github.com/pkg/errors"
)

func main() {
	defer panics.HandlePanic(log, nil)

	subCmd, config := parseCommandLine()

	var err error
	switch subCmd {
	case generateSubCmd:
		err = generate(config.(*generateConfig))
	case estimateSubCmd:
		err = estimate(config.(*estimateConfig))
	case showAddressSubCmd:
		err = showAddress(config.(*showAddressConfig))
	default:
		err = errors.Errorf("Unknown sub-command '%s'\n", subCmd)
	}

	if err != nil {
		printErrorAndExit(err)
	}
	if backendLog.IsRunning() {
		backendLog.Close()
	}
}
