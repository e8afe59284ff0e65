package remote

import "sync"

// Listeners is a set of AuthListeners that backends embed to implement OnAuthStateChange.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]AuthListener
}

func (l *Listeners) OnAuthStateChange(fn AuthListener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = map[int]AuthListener{}
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.fns, id)
		})
	}
}

// Emit calls every listener outside the lock, so listeners may unsubscribe.
func (l *Listeners) Emit(event AuthEvent, user *User) {
	l.mu.Lock()
	fns := make([]AuthListener, 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(event, user)
	}
}
