package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/txgenerator/infrastructure/config"
	"github.com/pkg/errors"
)

const (
	generateSubCmd    = "generate"
	estimateSubCmd    = "estimate"
	showAddressSubCmd = "show-address"
)

const (
	defaultLogLevel   = "info"
	defaultSubmitRate = 10
)

type configFlags struct {
	config.NetworkFlags
}

// PaymentFlags are shared by every sub-command that runs the generator.
type PaymentFlags struct {
	UTXOsFile     string `long:"utxos-file" short:"u" description:"A JSON file listing the UTXOs to spend" required:"true"`
	ToAddress     string `long:"to-address" short:"t" description:"The public address to send Kaspa to"`
	SendAmount    string `long:"send-amount" short:"v" description:"An amount to send in Kaspa (e.g. 1234.12345678)"`
	IsSendAll     bool   `long:"send-all" description:"Send all the Kaspa in the UTXOs file to the change address"`
	PriorityFee   string `long:"priority-fee" short:"f" description:"The priority fee, in Kaspa, paid by the final transaction" default:"0"`
	ChangeAddress string `long:"change-address" short:"c" description:"The address compound outputs and change are sent to. Defaults to the address of the private key"`
	Payload       string `long:"payload" description:"A payload to attach to the final transaction (encoded in hex)"`
}

type generateConfig struct {
	PaymentFlags
	PrivateKey  string  `long:"private-key" short:"k" description:"The private key of the sender (encoded in hex). Prompted for when omitted"`
	ECDSA       bool    `long:"ecdsa" description:"Sign with ECDSA instead of Schnorr"`
	Output      string  `long:"output" short:"o" description:"The file signed transactions are appended to, one JSON object per line" required:"true"`
	JournalDir  string  `long:"journal-dir" description:"A directory for the journal of submitted transactions. UTXOs spent by journaled transactions are skipped"`
	SubmitRate  int     `long:"submit-rate" description:"The maximum number of transactions submitted per second"`
	MetricsFile string  `long:"metrics-file" description:"A file to write Prometheus metrics to, in the textfile collector format"`
	LogDir      string  `long:"log-dir" description:"Directory to log output to"`
	LogLevel    string  `long:"loglevel" short:"d" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	config.NetworkFlags
}

type estimateConfig struct {
	PaymentFlags
	LogLevel string `long:"loglevel" short:"d" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`
	config.NetworkFlags
}

type showAddressConfig struct {
	PrivateKey string `long:"private-key" short:"k" description:"The private key (encoded in hex). Prompted for when omitted"`
	ECDSA      bool   `long:"ecdsa" description:"Show the ECDSA address of the key"`
	config.NetworkFlags
}

func parseCommandLine() (subCommand string, config interface{}) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)

	generateConf := &generateConfig{
		SubmitRate: defaultSubmitRate,
		LogLevel:   defaultLogLevel,
	}
	parser.AddCommand(generateSubCmd, "Generates, signs and submits the transactions of a payment",
		"Generates the chain of compound transactions and the final transaction paying the requested outputs, "+
			"signs them and appends them to the output file", generateConf)

	estimateConf := &estimateConfig{LogLevel: defaultLogLevel}
	parser.AddCommand(estimateSubCmd, "Estimates the transactions of a payment",
		"Runs the generator without signing, and prints how many transactions, fees and UTXOs the payment takes",
		estimateConf)

	showAddressConf := &showAddressConfig{}
	parser.AddCommand(showAddressSubCmd, "Shows the address of a private key",
		"Shows the pay-to-pubkey address of a private key on the selected network", showAddressConf)

	_, err := parser.Parse()

	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
		return "", nil
	}

	switch parser.Command.Active.Name {
	case generateSubCmd:
		combineNetworkFlags(&generateConf.NetworkFlags, &cfg.NetworkFlags)
		err := generateConf.ResolveNetwork(parser)
		if err != nil {
			printErrorAndExit(err)
		}
		err = generateConf.PaymentFlags.validate()
		if err != nil {
			printErrorAndExit(err)
		}
		if generateConf.SubmitRate <= 0 {
			printErrorAndExit(errors.Errorf("--submit-rate must be positive"))
		}
		config = generateConf
	case estimateSubCmd:
		combineNetworkFlags(&estimateConf.NetworkFlags, &cfg.NetworkFlags)
		err := estimateConf.ResolveNetwork(parser)
		if err != nil {
			printErrorAndExit(err)
		}
		err = estimateConf.PaymentFlags.validate()
		if err != nil {
			printErrorAndExit(err)
		}
		if estimateConf.ChangeAddress == "" {
			printErrorAndExit(errors.Errorf("--change-address is required when estimating"))
		}
		config = estimateConf
	case showAddressSubCmd:
		combineNetworkFlags(&showAddressConf.NetworkFlags, &cfg.NetworkFlags)
		err := showAddressConf.ResolveNetwork(parser)
		if err != nil {
			printErrorAndExit(err)
		}
		config = showAddressConf
	}

	return parser.Command.Active.Name, config
}

func (p *PaymentFlags) validate() error {
	if p.IsSendAll {
		if p.ToAddress != "" || p.SendAmount != "" {
			return errors.Errorf("--send-all cannot be used together with --to-address or --send-amount")
		}
		return nil
	}
	if p.ToAddress == "" || p.SendAmount == "" {
		return errors.Errorf("either --send-all or both --to-address and --send-amount are required")
	}
	return nil
}

func combineNetworkFlags(dst, src *config.NetworkFlags) {
	dst.Testnet = dst.Testnet || src.Testnet
	dst.Simnet = dst.Simnet || src.Simnet
	dst.Devnet = dst.Devnet || src.Devnet
	if dst.OverrideDAGParamsFile == "" {
		dst.OverrideDAGParamsFile = src.OverrideDAGParamsFile
	}
}
