package hashes

import (
	"github.com/kaspanet/txgenerator/domain/consensus/model/externalapi"
)

// PayloadHash returns the payload hash. An empty payload hashes to the zero hash.
func PayloadHash(payload []byte) *externalapi.DomainHash {
	if len(payload) == 0 {
		return &externalapi.DomainHash{}
	}

	writer := NewPayloadHashWriter()
	writer.InfallibleWrite(payload)
	return writer.Finalize()
}
