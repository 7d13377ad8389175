package main

import (
	"github.com/kaspanet/txgenerator/wallet/generator"
)

func estimate(conf *estimateConfig) error {
	initLog("", conf.LogLevel)

	params := conf.NetParams()
	entries, err := readUTXOsFile(conf.UTXOsFile, params)
	if err != nil {
		return err
	}
	settings, err := conf.generatorSettings(params, entries, nil)
	if err != nil {
		return err
	}

	g, err := generator.New(settings)
	if err != nil {
		return err
	}
	pendings, err := g.Generate()
	if err != nil {
		return err
	}
	for i, pending := range pendings {
		log.Infof("Transaction #%d: %s, %d inputs, mass %d, fee %d", i+1, pending.Kind(),
			len(pending.Entries()), pending.Mass(), pending.Fee())
	}

	if remaining := g.RemainingEntries(); len(remaining) > 0 {
		log.Infof("%d of the %d UTXOs were not needed", len(remaining), len(entries))
	}

	summary := g.Summary()
	printSummary(&summary)
	return nil
}
