package youtube

import (
	"github.com/gammazero/deque"
)

// worklist is the deque of continuations a pagination run still has to
// request. pop takes from the front, and a token is only ever accepted once.
type worklist struct {
	items deque.Deque[Continuation]
	seen  map[string]struct{}
}

func newWorklist() *worklist {
	return &worklist{seen: map[string]struct{}{}}
}

func (w *worklist) accept(c Continuation) bool {
	if _, ok := w.seen[c.Token]; ok {
		return false
	}
	w.seen[c.Token] = struct{}{}
	return true
}

// pushFront inserts batch ahead of all pending work, keeping the order of
// the batch itself.
func (w *worklist) pushFront(batch ...Continuation) {
	accepted := make([]Continuation, 0, len(batch))
	for _, c := range batch {
		if w.accept(c) {
			accepted = append(accepted, c)
		}
	}
	for i := len(accepted) - 1; i >= 0; i-- {
		w.items.PushFront(accepted[i])
	}
}

func (w *worklist) pushBack(c Continuation) {
	if w.accept(c) {
		w.items.PushBack(c)
	}
}

func (w *worklist) pop() (Continuation, bool) {
	if w.items.Len() == 0 {
		return Continuation{}, false
	}
	return w.items.PopFront(), true
}

func (w *worklist) size() int {
	return w.items.Len()
}
