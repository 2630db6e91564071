package client

import "sync"

// RecordCache is the shared, in-process record cache keyed by therapist
// identifier. Updates are serialized by user interaction, so a plain mutex
// is enough.
type RecordCache struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewRecordCache() *RecordCache {
	return &RecordCache{records: make(map[string]*Record)}
}

func (c *RecordCache) Get(therapistID string) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.records[therapistID]
	if !ok {
		return nil, false
	}
	copied := *r
	return &copied, true
}

func (c *RecordCache) Set(therapistID string, record *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *record
	c.records[therapistID] = &copied
}

func (c *RecordCache) Invalidate(therapistID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, therapistID)
}
