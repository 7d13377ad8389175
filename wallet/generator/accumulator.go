package generator

// accumulationStop reports why Accumulate stopped pulling entries.
type accumulationStop uint8

const (
	stopCovered accumulationStop = iota
	stopMassExceeded
	stopExhausted
)

func (s accumulationStop) String() string {
	switch s {
	case stopCovered:
		return "covered"
	case stopMassExceeded:
		return "mass exceeded"
	default:
		return "exhausted"
	}
}

// accumulator hands out candidate entries in the order they were given.
type accumulator struct {
	candidates []*UTXOEntryReference
}

func newAccumulator(entries []*UTXOEntryReference) *accumulator {
	candidates := make([]*UTXOEntryReference, len(entries))
	copy(candidates, entries)
	return &accumulator{candidates: candidates}
}

// Pull removes and returns the next candidate.
func (a *accumulator) Pull() (*UTXOEntryReference, bool) {
	if len(a.candidates) == 0 {
		return nil, false
	}
	entry := a.candidates[0]
	a.candidates = a.candidates[1:]
	return entry, true
}

// PushBack returns entries to the front of the candidates, in order.
func (a *accumulator) PushBack(entries ...*UTXOEntryReference) {
	if len(entries) == 0 {
		return
	}
	candidates := make([]*UTXOEntryReference, 0, len(entries)+len(a.candidates))
	candidates = append(candidates, entries...)
	a.candidates = append(candidates, a.candidates...)
}

// Remaining returns the candidates that were not pulled yet.
func (a *accumulator) Remaining() []*UTXOEntryReference {
	remaining := make([]*UTXOEntryReference, len(a.candidates))
	copy(remaining, a.candidates)
	return remaining
}

// Exhausted returns whether every candidate was pulled.
func (a *accumulator) Exhausted() bool {
	return len(a.candidates) == 0
}

// Accumulate pulls candidates on top of base until covers accepts the running
// total, fits rejects the grown selection, or the candidates run out. The
// entry that made fits fail is included in the returned entries.
func (a *accumulator) Accumulate(base []*UTXOEntryReference, covers func(total uint64) bool,
	fits func(selection []*UTXOEntryReference) bool) ([]*UTXOEntryReference, accumulationStop) {

	selection := make([]*UTXOEntryReference, len(base), len(base)+len(a.candidates))
	copy(selection, base)
	// Totals stay below the sum of all entries, which New bounds by constants.MaxSompi
	total := uint64(0)
	for _, entry := range base {
		total += entry.Amount()
	}

	var pulled []*UTXOEntryReference
	for {
		if len(selection) > 0 && covers(total) {
			return pulled, stopCovered
		}
		entry, ok := a.Pull()
		if !ok {
			return pulled, stopExhausted
		}
		pulled = append(pulled, entry)
		selection = append(selection, entry)
		total += entry.Amount()
		if !fits(selection) {
			return pulled, stopMassExceeded
		}
	}
}
