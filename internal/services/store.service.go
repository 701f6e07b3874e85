package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"memwatch/internal/models"
)

// ReadingSource supplies the raw measurement and frozen analysis
// context a capture is built from. The live monitor is the production
// implementation.
type ReadingSource interface {
	Read() (models.MemoryReading, error)
	Context() *models.AnalysisContext
}

// SnapshotStore owns the ordered, capacity-bounded snapshot collection
// and its sequential numbering. All mutations serialize on one mutex;
// no other component mutates snapshot records.
type SnapshotStore struct {
	mu               sync.RWMutex
	snapshots        []models.Snapshot
	counter          uint64 // monotonic for the life of the store, survives eviction
	maxSnapshots     int
	autoDeleteOldest bool
	selectedID       string
	compareID        string
	source           ReadingSource
}

// Selection is the two-slot pick state: compare is the older pick,
// primary the newer.
type Selection struct {
	PrimaryID string `json:"primary_id,omitempty"`
	CompareID string `json:"compare_id,omitempty"`
}

var snapshotStore *SnapshotStore

// InitSnapshotStore creates the package-level store instance.
func InitSnapshotStore(source ReadingSource, maxSnapshots int, autoDeleteOldest bool) *SnapshotStore {
	snapshotStore = NewSnapshotStore(source, maxSnapshots, autoDeleteOldest)
	return snapshotStore
}

// GetSnapshotStore returns the initialized store.
func GetSnapshotStore() *SnapshotStore {
	return snapshotStore
}

// NewSnapshotStore builds a store bound to a reading source. Capacity
// outside [1,50] is clamped.
func NewSnapshotStore(source ReadingSource, maxSnapshots int, autoDeleteOldest bool) *SnapshotStore {
	if maxSnapshots < 1 {
		maxSnapshots = 1
	}
	if maxSnapshots > 50 {
		maxSnapshots = 50
	}
	return &SnapshotStore{
		snapshots:        []models.Snapshot{},
		maxSnapshots:     maxSnapshots,
		autoDeleteOldest: autoDeleteOldest,
		source:           source,
	}
}

// Capture builds a new snapshot from the current reading and analysis
// context. At capacity with autoDeleteOldest the single oldest snapshot
// is evicted first; without it the capture is rejected as a no-op and
// (nil, nil) is returned. The label counter advances only on insert.
func (st *SnapshotStore) Capture(isAuto bool) (*models.Snapshot, error) {
	reading, err := st.source.Read()
	if err != nil {
		return nil, fmt.Errorf("read memory state: %w", err)
	}
	ctx := st.source.Context()

	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.snapshots) >= st.maxSnapshots {
		if !st.autoDeleteOldest {
			log.Printf("[STORE] Capture rejected: at capacity (%d) and auto-delete disabled", st.maxSnapshots)
			return nil, nil
		}
		evicted := st.snapshots[0]
		st.snapshots = st.snapshots[1:]
		st.clearSelectionFor(evicted.ID)
	}

	st.counter++
	prefix := "Snapshot"
	if isAuto {
		prefix = "Auto"
	}

	ts := reading.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	snap := models.Snapshot{
		ID:             uuid.NewString(),
		Label:          fmt.Sprintf("%s %d", prefix, st.counter),
		Timestamp:      ts,
		HeapUsed:       reading.HeapUsed,
		HeapTotal:      reading.HeapTotal,
		HeapLimit:      reading.HeapLimit,
		DOMNodes:       reading.DOMNodes,
		EventListeners: reading.EventListeners,
		IsAuto:         isAuto,
	}
	if ctx != nil {
		frozen := *ctx
		snap.AnalysisContext = &frozen
	}

	st.snapshots = append(st.snapshots, snap)
	return &snap, nil
}

// List returns a copy of the current snapshot collection in insertion
// order.
func (st *SnapshotStore) List() []models.Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]models.Snapshot, len(st.snapshots))
	copy(out, st.snapshots)
	return out
}

// Count returns the number of snapshots currently held.
func (st *SnapshotStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.snapshots)
}

// Counter returns the current value of the label counter.
func (st *SnapshotStore) Counter() uint64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.counter
}

// Delete removes one snapshot by id, clearing any selection pointer
// referencing it. Returns false when the id is unknown.
func (st *SnapshotStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	for i := range st.snapshots {
		if st.snapshots[i].ID == id {
			st.snapshots = append(st.snapshots[:i], st.snapshots[i+1:]...)
			st.clearSelectionFor(id)
			return true
		}
	}
	return false
}

// DeleteAll removes every snapshot and clears the selection. The label
// counter is preserved.
func (st *SnapshotStore) DeleteAll() {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.snapshots = []models.Snapshot{}
	st.selectedID = ""
	st.compareID = ""
}

// Select applies the two-slot selection protocol: picking the current
// primary again clears both slots; picking with no selection fills the
// primary slot; picking a different snapshot moves the previous
// primary into the compare slot. Returns false when the id is unknown.
func (st *SnapshotStore) Select(id string) (Selection, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	found := false
	for i := range st.snapshots {
		if st.snapshots[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return st.selection(), false
	}

	switch {
	case st.selectedID == id:
		st.selectedID = ""
		st.compareID = ""
	case st.selectedID == "":
		st.selectedID = id
	default:
		st.compareID = st.selectedID
		st.selectedID = id
	}
	return st.selection(), true
}

// CurrentSelection returns the current selection state.
func (st *SnapshotStore) CurrentSelection() Selection {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.selection()
}

func (st *SnapshotStore) selection() Selection {
	return Selection{PrimaryID: st.selectedID, CompareID: st.compareID}
}

// clearSelectionFor drops any selection slot pointing at id.
// Caller must hold the lock.
func (st *SnapshotStore) clearSelectionFor(id string) {
	if st.selectedID == id {
		st.selectedID = ""
	}
	if st.compareID == id {
		st.compareID = ""
	}
}
