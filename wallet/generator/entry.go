package generator

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/constants"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/utxo"
	"github.com/kaspanet/txgenerator/util"
	"github.com/pkg/errors"
)

// EntrySource tells where a UTXO entry comes from.
type EntrySource uint8

const (
	// EntrySourceConfirmed marks an entry supplied by the caller.
	EntrySourceConfirmed EntrySource = iota

	// EntrySourcePendingFromSelf marks the not yet accepted output of a
	// compound transaction emitted earlier in the same run.
	EntrySourcePendingFromSelf
)

func (s EntrySource) String() string {
	switch s {
	case EntrySourceConfirmed:
		return "confirmed"
	case EntrySourcePendingFromSelf:
		return "pending-from-self"
	default:
		return fmt.Sprintf("unknown entry source %d", s)
	}
}

// UTXOEntryReference is a spendable UTXO entry together with its outpoint
// and the address that owns it.
type UTXOEntryReference struct {
	Outpoint externalapi.DomainOutpoint
	Entry    externalapi.UTXOEntry

	// Address may be left nil, in which case it is extracted from the
	// script public key of Entry.
	Address util.Address
	Source  EntrySource
}

// NewUTXOEntryReference returns a reference to a confirmed entry.
func NewUTXOEntryReference(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry,
	address util.Address) *UTXOEntryReference {

	return &UTXOEntryReference{
		Outpoint: *outpoint.Clone(),
		Entry:    entry,
		Address:  address,
		Source:   EntrySourceConfirmed,
	}
}

func newPendingFromSelfEntry(transactionID *externalapi.DomainTransactionID,
	output *externalapi.DomainTransactionOutput, address util.Address) *UTXOEntryReference {

	return &UTXOEntryReference{
		Outpoint: *externalapi.NewDomainOutpoint(transactionID, 0),
		Entry:    utxo.NewUTXOEntry(output.Value, output.ScriptPublicKey, false, constants.UnacceptedDAAScore),
		Address:  address,
		Source:   EntrySourcePendingFromSelf,
	}
}

// Amount returns the value of the referenced entry in sompi.
func (r *UTXOEntryReference) Amount() uint64 {
	return r.Entry.Amount()
}

func (r *UTXOEntryReference) String() string {
	return fmt.Sprintf("%s (%d sompi, %s)", r.Outpoint, r.Amount(), r.Source)
}

// SortEntriesByAmount sorts the given entries by ascending amount. Entries of
// equal amount keep their relative order.
func SortEntriesByAmount(entries []*UTXOEntryReference) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount() < entries[j].Amount()
	})
}

// addAmounts returns a+b, and fails with ErrAmountOverflow when the sum
// exceeds constants.MaxSompi.
func addAmounts(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a || sum > constants.MaxSompi {
		return 0, errors.Wrapf(ErrAmountOverflow, "%d + %d sompi is above the maximum of %d sompi",
			a, b, constants.MaxSompi)
	}
	return sum, nil
}

func sumEntries(entries []*UTXOEntryReference) (uint64, error) {
	sum := uint64(0)
	for _, entry := range entries {
		var err error
		sum, err = addAmounts(sum, entry.Amount())
		if err != nil {
			return 0, errors.Wrapf(err, "entry %s", entry.Outpoint)
		}
	}
	return sum, nil
}

// SerializeOutpoint returns the byte representation of an outpoint used in
// commitments and journal keys.
func SerializeOutpoint(outpoint *externalapi.DomainOutpoint) []byte {
	serialized := make([]byte, externalapi.DomainHashSize+4)
	copy(serialized, outpoint.TransactionID.ByteSlice())
	binary.LittleEndian.PutUint32(serialized[externalapi.DomainHashSize:], outpoint.Index)
	return serialized
}
