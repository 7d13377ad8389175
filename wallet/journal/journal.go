package journal

import (
	"encoding/binary"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/infrastructure/db/database"
	"github.com/kaspanet/txgenerator/infrastructure/db/database/ldb"
	"github.com/kaspanet/txgenerator/wallet/generator"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	transactionsBucket = database.MakeBucket([]byte("transactions"))
	spentBucket        = database.MakeBucket([]byte("spent"))
	summaryKey         = database.MakeBucket([]byte("summary")).Key([]byte("last"))
)

// ErrNoSummary indicates that no summary was saved to the journal yet.
var ErrNoSummary = errors.New("no summary in journal")

// Journal persists the transactions of generation runs, so an interrupted
// run can be resumed without spending the same entries twice.
type Journal struct {
	db           database.Database
	nextSequence uint64
}

// Open opens or creates a journal stored at path.
func Open(path string) (*Journal, error) {
	db, err := ldb.NewLevelDB(path)
	if err != nil {
		return nil, err
	}
	journal, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return journal, nil
}

// New returns a journal backed by db.
func New(db database.Database) (*Journal, error) {
	j := &Journal{db: db}
	records, err := j.Transactions()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		j.nextSequence = records[len(records)-1].Sequence + 1
	}
	log.Debugf("Opened journal with %d recorded transactions", len(records))
	return j, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func sequenceKey(sequence uint64) *database.Key {
	var serialized [8]byte
	binary.BigEndian.PutUint64(serialized[:], sequence)
	return transactionsBucket.Key(serialized[:])
}

func spentKey(outpoint *externalapi.DomainOutpoint) *database.Key {
	return spentBucket.Key(generator.SerializeOutpoint(outpoint))
}

// RecordSubmitted stores a submitted transaction and marks every entry it
// spends, atomically.
func (j *Journal) RecordSubmitted(pending *generator.PendingTransaction, submittedID string) error {
	record := newTransactionRecord(j.nextSequence, pending, submittedID)
	serializedRecord, err := json.Marshal(record)
	if err != nil {
		return errors.WithStack(err)
	}

	dbTx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	err = dbTx.Put(sequenceKey(record.Sequence), serializedRecord)
	if err != nil {
		return err
	}
	for _, entry := range pending.Entries() {
		err = dbTx.Put(spentKey(&entry.Outpoint), pending.ID().ByteSlice())
		if err != nil {
			return err
		}
	}
	err = dbTx.Commit()
	if err != nil {
		return err
	}

	j.nextSequence++
	log.Debugf("Recorded %s transaction %s spending %d entries", record.Kind, record.TransactionID, len(record.Inputs))
	return nil
}

// IsSpent returns whether a recorded transaction spends outpoint.
func (j *Journal) IsSpent(outpoint *externalapi.DomainOutpoint) (bool, error) {
	return j.db.Has(spentKey(outpoint))
}

// SpendingTransactionID returns the ID of the recorded transaction that
// spends outpoint. It returns a database.ErrNotFound if there is none.
func (j *Journal) SpendingTransactionID(outpoint *externalapi.DomainOutpoint) (*externalapi.DomainTransactionID, error) {
	serializedID, err := j.db.Get(spentKey(outpoint))
	if err != nil {
		return nil, err
	}
	hash, err := externalapi.NewDomainHashFromByteSlice(serializedID)
	if err != nil {
		return nil, err
	}
	transactionID := externalapi.DomainTransactionID(*hash)
	return &transactionID, nil
}

// FilterUnspent returns the entries that no recorded transaction spends,
// in their original order.
func (j *Journal) FilterUnspent(entries []*generator.UTXOEntryReference) ([]*generator.UTXOEntryReference, error) {
	unspent := make([]*generator.UTXOEntryReference, 0, len(entries))
	for _, entry := range entries {
		isSpent, err := j.IsSpent(&entry.Outpoint)
		if err != nil {
			return nil, err
		}
		if isSpent {
			log.Debugf("Skipping entry %s, already spent by a recorded transaction", entry.Outpoint)
			continue
		}
		unspent = append(unspent, entry)
	}
	return unspent, nil
}

// Transactions returns every recorded transaction in recording order.
func (j *Journal) Transactions() ([]*TransactionRecord, error) {
	cursor, err := j.db.Cursor(transactionsBucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var records []*TransactionRecord
	for ok := cursor.First(); ok; ok = cursor.Next() {
		serializedRecord, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		record := &TransactionRecord{}
		err = json.Unmarshal(serializedRecord, record)
		if err != nil {
			return nil, errors.Wrap(err, "malformed transaction record")
		}
		records = append(records, record)
	}
	return records, nil
}

// SaveSummary stores summary, replacing any previously saved one.
func (j *Journal) SaveSummary(summary *generator.GeneratorSummary) error {
	serializedSummary, err := json.Marshal(summaryToRecord(summary))
	if err != nil {
		return errors.WithStack(err)
	}
	return j.db.Put(summaryKey, serializedSummary)
}

// LoadSummary returns the last saved summary, or ErrNoSummary.
func (j *Journal) LoadSummary() (*generator.GeneratorSummary, error) {
	serializedSummary, err := j.db.Get(summaryKey)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, ErrNoSummary
		}
		return nil, err
	}
	record := &summaryRecord{}
	err = json.Unmarshal(serializedSummary, record)
	if err != nil {
		return nil, errors.Wrap(err, "malformed summary record")
	}
	return recordToSummary(record)
}
