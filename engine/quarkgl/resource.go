package quarkgl

// Disposable is a resource that holds renderer-side memory until disposed.
// Dispose is idempotent: only the first call releases anything.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

// resource is embedded by every Disposable in this package.
type resource struct {
	disposed bool
	ledger   *Ledger
}

func (r *resource) Dispose()         { r.disposed = true }
func (r *resource) IsDisposed() bool { return r.disposed }

func (r *resource) attach(l *Ledger) {
	if r.ledger == nil {
		r.ledger = l
	}
}

// adopt tracks d in the same ledger as r, if any. Used by Clone.
func (r *resource) adopt(d Disposable) {
	if r.ledger != nil {
		r.ledger.Track(d)
	}
}

type attacher interface {
	attach(*Ledger)
}

// Ledger records resources allocated on behalf of one owner.
//
// It is not safe for concurrent use; scene modules run on the frame thread.
type Ledger struct {
	items []Disposable
	seen  map[Disposable]struct{}
}

func NewLedger() *Ledger { return &Ledger{seen: make(map[Disposable]struct{})} }

// Track records d. Tracking the same resource twice is a no-op.
func (l *Ledger) Track(d Disposable) {
	if l == nil || d == nil {
		return
	}
	if l.seen == nil {
		l.seen = make(map[Disposable]struct{})
	}
	if _, ok := l.seen[d]; ok {
		return
	}
	l.seen[d] = struct{}{}
	if a, ok := d.(attacher); ok {
		a.attach(l)
	}
	l.items = append(l.items, d)
}

// Len returns the number of tracked resources.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Live returns the number of tracked resources not yet disposed.
func (l *Ledger) Live() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, it := range l.items {
		if !it.IsDisposed() {
			n++
		}
	}
	return n
}

// Release disposes every live resource and returns how many it disposed.
func (l *Ledger) Release() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, it := range l.items {
		if it.IsDisposed() {
			continue
		}
		it.Dispose()
		n++
	}
	return n
}
