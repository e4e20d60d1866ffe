package sim

// IDAllocator hands out monotonic process ids. It is owned by a Configuration and
// lives exactly as long as it does.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type IDAllocator struct {
	next ProcessID
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns a fresh id.
func (a *IDAllocator) Next() ProcessID {
	id := a.next
	a.next++
	return id
}

// Reclaim gives an id back. Only the most recently issued id can be reused;
// reclaiming any other id is a no-op so ids stay unique.
func (a *IDAllocator) Reclaim(id ProcessID) {
	if id == a.next-1 && id >= 1 {
		a.next--
	}
}

// Peek returns the id the next call to Next will issue.
func (a *IDAllocator) Peek() ProcessID {
	return a.next
}

// Reset restarts numbering at 1.
func (a *IDAllocator) Reset() {
	a.next = 1
}
