package main

import (
	"context"

	"github.com/kaspanet/txgenerator/infrastructure/os/signal"
	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/kaspanet/txgenerator/wallet/journal"
	"github.com/kaspanet/txgenerator/wallet/metrics"
	"github.com/pkg/errors"
)

func generate(conf *generateConfig) error {
	initLog(conf.LogDir, conf.LogLevel)

	params := conf.NetParams()
	key, err := privateKey(conf.PrivateKey, conf.ECDSA)
	if err != nil {
		return err
	}
	keyAddress, err := key.Address(params.Prefix)
	if err != nil {
		return err
	}

	entries, err := readUTXOsFile(conf.UTXOsFile, params)
	if err != nil {
		return err
	}

	var txJournal *journal.Journal
	if conf.JournalDir != "" {
		txJournal, err = journal.Open(conf.JournalDir)
		if err != nil {
			return err
		}
		defer txJournal.Close()

		unspent, err := txJournal.FilterUnspent(entries)
		if err != nil {
			return err
		}
		if len(unspent) != len(entries) {
			log.Infof("Skipping %d UTXOs already spent by journaled transactions", len(entries)-len(unspent))
		}
		entries = unspent
	}

	settings, err := conf.generatorSettings(params, entries, keyAddress)
	if err != nil {
		return err
	}
	g, err := generator.New(settings)
	if err != nil {
		return err
	}

	channel, err := newFileSubmissionChannel(conf.Output, conf.SubmitRate)
	if err != nil {
		return err
	}
	defer channel.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupt := signal.InterruptListener()
	spawn(func() {
		select {
		case <-interrupt:
			cancel()
		case <-ctx.Done():
		}
	})

	err = submitAll(ctx, g, []*generator.PrivateKey{key}, channel, txJournal)
	if conf.MetricsFile != "" {
		metricsErr := metrics.WriteToTextfile(conf.MetricsFile)
		if metricsErr != nil {
			log.Warnf("Failed writing metrics: %s", metricsErr)
		}
	}
	if err != nil {
		return err
	}

	summary := g.Summary()
	if txJournal != nil {
		err = txJournal.SaveSummary(&summary)
		if err != nil {
			return err
		}
	}
	printSummary(&summary)
	return nil
}

// submitAll signs and submits every transaction of the run in generation
// order, and stops at the first failure.
func submitAll(ctx context.Context, g *generator.Generator, keys []*generator.PrivateKey,
	channel generator.SubmissionChannel, txJournal *journal.Journal) error {

	for {
		pending, err := g.Next()
		if err != nil {
			return err
		}
		if pending == nil {
			return nil
		}
		metrics.RecordTransaction(pending)

		_, err = pending.Sign(keys)
		if err != nil {
			return err
		}
		submittedID, err := pending.Submit(ctx, channel)
		metrics.RecordSubmission(err)
		if err != nil {
			return errors.Wrapf(err, "failed submitting %s transaction %s", pending.Kind(), pending.ID())
		}
		log.Infof("Submitted %s transaction %s", pending.Kind(), submittedID)

		if txJournal != nil {
			err = txJournal.RecordSubmitted(pending, submittedID)
			if err != nil {
				return err
			}
		}
	}
}
