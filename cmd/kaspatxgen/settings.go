package main

import (
	"encoding/hex"

	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/util"
	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
)

// generatorSettings turns the payment flags into generator settings.
// defaultChangeAddress is used when --change-address is not set.
func (p *PaymentFlags) generatorSettings(params *dagconfig.Params, entries []*generator.UTXOEntryReference,
	defaultChangeAddress util.Address) (*generator.Settings, error) {

	changeAddress := defaultChangeAddress
	if p.ChangeAddress != "" {
		var err error
		changeAddress, err = util.DecodeAddress(p.ChangeAddress, params.Prefix)
		if err != nil {
			return nil, errors.Wrap(err, "invalid change address")
		}
	}

	priorityFee, err := util.KasToSompi(p.PriorityFee)
	if err != nil {
		return nil, errors.Wrap(err, "invalid priority fee")
	}

	var payload []byte
	if p.Payload != "" {
		payload, err = hex.DecodeString(p.Payload)
		if err != nil {
			return nil, errors.Wrap(err, "the payload is not valid hex")
		}
	}

	destination := generator.PaymentDestinationChange()
	if !p.IsSendAll {
		toAddress, err := util.DecodeAddress(p.ToAddress, params.Prefix)
		if err != nil {
			return nil, errors.Wrap(err, "invalid destination address")
		}
		sendAmount, err := util.KasToSompi(p.SendAmount)
		if err != nil {
			return nil, errors.Wrap(err, "invalid send amount")
		}
		destination = generator.PaymentDestinationOutputs(&generator.PaymentOutput{Address: toAddress, Amount: sendAmount})
	}

	return &generator.Settings{
		Entries:       entries,
		Destination:   destination,
		PriorityFee:   priorityFee,
		ChangeAddress: changeAddress,
		Payload:       payload,
		Params:        params,
	}, nil
}

func printSummary(summary *generator.GeneratorSummary) {
	finalTransactionID := "none"
	if summary.FinalTransactionID != nil {
		finalTransactionID = summary.FinalTransactionID.String()
	}
	commitment := "none"
	if summary.ConsumedUTXOsCommitment != nil {
		commitment = summary.ConsumedUTXOsCommitment.String()
	}

	log.Infof("Transactions: %d (%d compound)", summary.TransactionCount, summary.CompoundTransactionCount)
	log.Infof("UTXOs consumed: %d", summary.UTXOsConsumed)
	log.Infof("Total fees: %s KAS", util.FormatSompi(summary.TotalFees))
	log.Infof("Final amount: %s KAS", util.FormatSompi(summary.FinalAmount))
	log.Infof("Total mass: %d", summary.TotalMass)
	log.Infof("Final transaction: %s", finalTransactionID)
	log.Infof("Consumed UTXOs commitment: %s", commitment)
}
