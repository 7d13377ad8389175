package main

import (
	"fmt"
)

func showAddress(conf *showAddressConfig) error {
	key, err := privateKey(conf.PrivateKey, conf.ECDSA)
	if err != nil {
		return err
	}

	address, err := key.Address(conf.NetParams().Prefix)
	if err != nil {
		return err
	}

	fmt.Printf("The address is:\n%s\n", address)
	return nil
}
