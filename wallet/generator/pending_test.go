package generator_test

import (
	"context"
	"testing"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/txgenerator/domain/dagconfig"
	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
)

type testSubmissionChannel struct {
	err       error
	submitted []*externalapi.DomainTransaction
	calls     int
}

func (c *testSubmissionChannel) SubmitTransaction(_ context.Context,
	transaction *externalapi.DomainTransaction) (string, error) {

	c.calls++
	if c.err != nil {
		return "", c.err
	}
	c.submitted = append(c.submitted, transaction)
	return consensushashing.TransactionID(transaction).String(), nil
}

func singlePendingTransaction(t *testing.T) (*generator.PendingTransaction, *generator.PrivateKey) {
	params := dagconfig.MainnetParams
	key, ownerAddress := schnorrKeyAndAddress(t, 1, &params)

	g, err := generator.New(&generator.Settings{
		Entries:       testEntries(t, ownerAddress, 1_000_000),
		Destination:   paymentTo(ownerAddress, 200_000),
		PriorityFee:   3000,
		ChangeAddress: ownerAddress,
		Params:        &params,
	})
	if err != nil {
		t.Fatalf("New: %+v", err)
	}
	pending, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %+v", err)
	}
	return pending, key
}

func TestSubmit(t *testing.T) {
	pending, key := singlePendingTransaction(t)
	channel := &testSubmissionChannel{}

	_, err := pending.Submit(context.Background(), channel)
	if !errors.Is(err, generator.ErrNotSigned) {
		t.Fatalf("Expected ErrNotSigned, got %+v", err)
	}
	if channel.calls != 0 {
		t.Fatalf("Channel was called for an unsigned transaction")
	}

	signed, err := pending.Sign([]*generator.PrivateKey{key})
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}
	submittedID, err := pending.Submit(context.Background(), channel)
	if err != nil {
		t.Fatalf("Submit: %+v", err)
	}
	if submittedID != pending.ID().String() {
		t.Fatalf("Submit returned ID %s, want %s", submittedID, pending.ID())
	}
	if len(channel.submitted) != 1 || !channel.submitted[0].Equal(signed.Transaction) {
		t.Fatalf("Channel did not receive the signed transaction")
	}

	_, err = pending.Submit(context.Background(), channel)
	if !errors.Is(err, generator.ErrAlreadySubmitted) {
		t.Fatalf("Expected ErrAlreadySubmitted, got %+v", err)
	}
	if channel.calls != 1 {
		t.Fatalf("Channel was called %d times", channel.calls)
	}
}

func TestSubmitReturnsChannelErrorsUntouched(t *testing.T) {
	pending, key := singlePendingTransaction(t)
	channelErr := errors.Wrap(generator.ErrNetwork, "connection refused")
	channel := &testSubmissionChannel{err: channelErr}

	_, err := pending.Sign([]*generator.PrivateKey{key})
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}
	_, err = pending.Submit(context.Background(), channel)
	if err != channelErr {
		t.Fatalf("Expected the channel error to be returned as is, got %+v", err)
	}
	if !errors.Is(err, generator.ErrNetwork) {
		t.Fatalf("Expected an ErrNetwork, got %+v", err)
	}

	_, err = pending.Submit(context.Background(), channel)
	if !errors.Is(err, generator.ErrAlreadySubmitted) {
		t.Fatalf("Expected ErrAlreadySubmitted after a failed submission, got %+v", err)
	}
}

func TestSubmitAfterFailedSign(t *testing.T) {
	pending, _ := singlePendingTransaction(t)
	otherKey, _ := schnorrKeyAndAddress(t, 9, &dagconfig.MainnetParams)

	_, err := pending.Sign([]*generator.PrivateKey{otherKey})
	if !errors.Is(err, generator.ErrMissingKey) {
		t.Fatalf("Expected ErrMissingKey, got %+v", err)
	}
	_, err = pending.Submit(context.Background(), &testSubmissionChannel{})
	if !errors.Is(err, generator.ErrNotSigned) {
		t.Fatalf("Expected ErrNotSigned, got %+v", err)
	}
}
