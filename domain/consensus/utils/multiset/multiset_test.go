package multiset

import (
	"testing"
)

func TestMultisetOrderIndependence(t *testing.T) {
	elements := [][]byte{{1, 2, 3}, {4, 5}, {6}}

	forward := New()
	for _, element := range elements {
		forward.Add(element)
	}

	backward := New()
	for i := len(elements) - 1; i >= 0; i-- {
		backward.Add(elements[i])
	}

	if !forward.Hash().Equal(backward.Hash()) {
		t.Fatalf("Multiset hash depends on insertion order: %s != %s", forward.Hash(), backward.Hash())
	}

	partial := forward.Clone()
	partial.Remove(elements[1])
	if partial.Hash().Equal(forward.Hash()) {
		t.Fatalf("Removing an element didn't change the hash")
	}
	partial.Add(elements[1])
	if !partial.Hash().Equal(forward.Hash()) {
		t.Fatalf("Re-adding a removed element didn't restore the hash")
	}
}

func TestMultisetSerialization(t *testing.T) {
	ms := New()
	ms.Add([]byte("outpoint"))

	deserialized, err := FromBytes(ms.Serialize())
	if err != nil {
		t.Fatalf("FromBytes: %+v", err)
	}
	if !deserialized.Hash().Equal(ms.Hash()) {
		t.Fatalf("Deserialized multiset hash %s is different from %s", deserialized.Hash(), ms.Hash())
	}

	_, err = FromBytes([]byte{1, 2, 3})
	if err == nil {
		t.Fatalf("FromBytes: expected an error for a short input")
	}
}
