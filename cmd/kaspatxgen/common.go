package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

func printErrorAndExit(err error) {
	if backendLog.IsRunning() {
		log.Errorf("%+v", err)
		backendLog.Close()
	}
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

// privateKey parses privateKeyHex, or reads the key from the terminal when
// it is empty.
func privateKey(privateKeyHex string, isECDSA bool) (*generator.PrivateKey, error) {
	if privateKeyHex == "" {
		privateKeyHex = string(getPassword("Private key (hex): "))
	}

	privateKeyBytes, err := hex.DecodeString(strings.TrimSpace(privateKeyHex))
	if err != nil {
		return nil, errors.Wrap(err, "the private key is not valid hex")
	}
	if isECDSA {
		return generator.NewECDSAPrivateKey(privateKeyBytes)
	}
	return generator.NewSchnorrPrivateKey(privateKeyBytes)
}

// getPassword reads a line from the terminal without echoing it.
func getPassword(prompt string) []byte {
	// Get the initial state of the terminal.
	initialTermState, err := term.GetState(int(syscall.Stdin))
	if err != nil {
		printErrorAndExit(errors.Wrap(err, "the private key must be passed with --private-key when stdin is not a terminal"))
	}

	// Restore it in the event of an interrupt.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		_, ok := <-c
		if !ok {
			return
		}
		_ = term.Restore(int(syscall.Stdin), initialTermState)
		os.Exit(1)
	}()

	fmt.Print(prompt)
	p, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		printErrorAndExit(errors.WithStack(err))
	}

	// Stop looking for ^C on the channel.
	signal.Stop(c)
	close(c)

	return p
}
