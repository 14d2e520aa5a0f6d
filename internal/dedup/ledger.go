// Package dedup tracks the last tweet id already accounted for per account.
package dedup

import "sync"

// Ledger maps account handles to the last item id that was either
// delivered or deliberately skipped. An account not present in the
// ledger has never been evaluated, so anything counts as new.
type Ledger struct {
	mu   sync.Mutex
	last map[string]string
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{last: make(map[string]string)}
}

// IsNew reports whether id differs from the stored watermark for account.
func (l *Ledger) IsNew(account, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	seen, ok := l.last[account]
	return !ok || seen != id
}

// Advance overwrites the watermark for account. It is called once per
// poll per account regardless of whether a notification went out, so a
// permanently filtered item is never re-evaluated on later cycles.
func (l *Ledger) Advance(account, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last[account] = id
}

// Forget drops the watermark for account. The next poll treats whatever
// it observes as new.
func (l *Ledger) Forget(account string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, account)
}

// Len returns the number of tracked accounts.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
