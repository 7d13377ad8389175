package consensushashing

import (
	"encoding/binary"
	"io"

	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
	"github.com/kaspanet/txgenerator/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// txEncoding is a bitmask defining which transaction fields we
// want to encode and which to ignore.
type txEncoding uint8

const (
	txEncodingFull txEncoding = 0

	txEncodingExcludeSignatureScript txEncoding = 1 << iota
)

func serializeTransaction(w io.Writer, tx *externalapi.DomainTransaction, encodingFlags txEncoding) error {
	err := writeElements(w, tx.Version, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}

	for _, input := range tx.Inputs {
		err = writeTransactionInput(w, input, encodingFlags)
		if err != nil {
			return err
		}
	}

	err = writeElement(w, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}

	for _, output := range tx.Outputs {
		err = writeTransactionOutput(w, output)
		if err != nil {
			return err
		}
	}

	err = writeElements(w, tx.LockTime, tx.SubnetworkID, tx.Gas)
	if err != nil {
		return err
	}

	return writeVarBytes(w, tx.Payload)
}

func writeTransactionInput(w io.Writer, input *externalapi.DomainTransactionInput, encodingFlags txEncoding) error {
	err := writeOutpoint(w, &input.PreviousOutpoint)
	if err != nil {
		return err
	}

	if encodingFlags&txEncodingExcludeSignatureScript != txEncodingExcludeSignatureScript {
		err = writeVarBytes(w, input.SignatureScript)
		if err != nil {
			return err
		}

		err = writeElement(w, input.SigOpCount)
		if err != nil {
			return err
		}
	} else {
		err = writeVarBytes(w, []byte{})
		if err != nil {
			return err
		}

		err = writeElement(w, uint8(0))
		if err != nil {
			return err
		}
	}

	return writeElement(w, input.Sequence)
}

func writeOutpoint(w io.Writer, outpoint *externalapi.DomainOutpoint) error {
	_, err := w.Write(outpoint.TransactionID.ByteSlice())
	if err != nil {
		return errors.WithStack(err)
	}

	return writeElement(w, outpoint.Index)
}

func writeTransactionOutput(w io.Writer, output *externalapi.DomainTransactionOutput) error {
	err := writeElements(w, output.Value, output.ScriptPublicKey.Version)
	if err != nil {
		return err
	}

	return writeVarBytes(w, output.ScriptPublicKey.Script)
}

func writeVarBytes(w io.Writer, data []byte) error {
	err := writeElement(w, uint64(len(data)))
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return errors.WithStack(err)
}

func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := writeElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeElement writes the little endian representation of element to w.
func writeElement(w io.Writer, element interface{}) error {
	var err error
	switch e := element.(type) {
	case uint8:
		_, err = w.Write([]byte{e})
	case uint16:
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], e)
		_, err = w.Write(buf[:])
	case uint32:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], e)
		_, err = w.Write(buf[:])
	case uint64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], e)
		_, err = w.Write(buf[:])
	case bool:
		if e {
			_, err = w.Write([]byte{1})
		} else {
			_, err = w.Write([]byte{0})
		}
	case *externalapi.DomainHash:
		_, err = w.Write(e.ByteSlice())
	case externalapi.DomainSubnetworkID:
		_, err = w.Write(e[:])
	default:
		return errors.Errorf("unsupported element type %T", element)
	}
	return errors.WithStack(err)
}

func infallibleWriteElement(hashWriter hashes.HashWriter, element interface{}) {
	err := writeElement(hashWriter, element)
	if err != nil {
		// It seems like this could only happen if the writer returned an error.
		// and this writer should never return an error (no allocations or possible failures)
		// the only non-writer error path here is unknown types in `WriteElement`
		panic(errors.Wrap(err, "TransactionHashForSigning() failed. this should never fail for structurally-valid transactions"))
	}
}
