package suggest

import "github.com/pkg/errors"

type ledgerEntry struct {
	reserved  bool
	objective float64
}

// Ledger tracks the points already evaluated or already offered during one
// request. It is not safe for concurrent use and is never shared between
// requests.
type Ledger struct {
	entries map[TrialKey]ledgerEntry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[TrialKey]ledgerEntry)}
}

// Seed records every trial as evaluated with its objective value. A key seen
// twice keeps the last value.
func (l *Ledger) Seed(results []Trial) {
	for _, t := range results {
		l.entries[KeyOf(t.Assignments)] = ledgerEntry{objective: t.ObjectiveValue}
	}
}

// Reserve claims key for the current request. It fails with
// ErrAlreadyReserved when the key was evaluated or reserved before.
func (l *Ledger) Reserve(key TrialKey) error {
	if _, ok := l.entries[key]; ok {
		return errors.Wrapf(ErrAlreadyReserved, "key %q", string(key))
	}

	l.entries[key] = ledgerEntry{reserved: true}

	return nil
}

// Contains reports whether key was evaluated or reserved.
func (l *Ledger) Contains(key TrialKey) bool {
	_, ok := l.entries[key]
	return ok
}

// Objective returns the observed objective of an evaluated key. Reserved
// and unknown keys report false.
func (l *Ledger) Objective(key TrialKey) (float64, bool) {
	e, ok := l.entries[key]
	if !ok || e.reserved {
		return 0, false
	}

	return e.objective, true
}

// Len is the number of distinct keys held.
func (l *Ledger) Len() int { return len(l.entries) }
