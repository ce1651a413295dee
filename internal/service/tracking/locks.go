package tracking

import "sync"

const lockStripes = 64

// stripedLock serializes work per bus without a lock per bus.
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLock) Lock(busID int64) (unlock func()) {
	idx := busID % lockStripes
	if idx < 0 {
		idx = -idx
	}
	m := &l.stripes[idx]
	m.Lock()
	return m.Unlock
}
