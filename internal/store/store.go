// Package store implements the node-local replicated key-value storage
// described by the ring's data model: a primary LocalStore holding the
// keys this node owns, and a ReplicaStore holding copies of keys owned
// by other nodes that placed this node in their replica set.
package store

import (
	"sort"
	"sync"

	"chordring/internal/domain"
	"chordring/internal/logger"
)

// Store is an in-memory, concurrency-safe key-value store combining a
// node's primary holdings with the replica buckets it carries on behalf
// of other nodes' successor lists.
type Store struct {
	lgr logger.Logger

	mu    sync.RWMutex
	local map[string]domain.Resource // primary: keys this node owns

	rmu      sync.RWMutex
	replicas map[string]map[string]domain.Resource // origin node ID (hex) -> key -> resource

	smu         sync.Mutex
	shortfall   map[string]int // key (hex) -> count of replicas still owed
}

// New creates an empty store.
func New(lgr logger.Logger) *Store {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	return &Store{
		lgr:       lgr,
		local:     make(map[string]domain.Resource),
		replicas:  make(map[string]map[string]domain.Resource),
		shortfall: make(map[string]int),
	}
}

// ---------------------------------------------------------------------
// Primary (local) store
// ---------------------------------------------------------------------

// Put inserts or updates the given resource in the primary store.
func (s *Store) Put(res domain.Resource) {
	key := res.Key.String()
	s.mu.Lock()
	_, existed := s.local[key]
	s.local[key] = res
	s.mu.Unlock()
	if existed {
		s.lgr.Debug("Put: resource updated", logger.FResource("resource", res))
	} else {
		s.lgr.Debug("Put: resource inserted", logger.FResource("resource", res))
	}
}

// Get retrieves the resource with the given ID from the primary store.
// Returns domain.ErrResourceNotFound if absent.
func (s *Store) Get(id domain.ID) (domain.Resource, error) {
	key := id.String()
	s.mu.RLock()
	res, ok := s.local[key]
	s.mu.RUnlock()
	if !ok {
		s.lgr.Debug("Get: resource not found", logger.F("key", key))
		return domain.Resource{}, domain.ErrResourceNotFound
	}
	return res, nil
}

// Delete removes the resource with the given ID from the primary store.
// Returns domain.ErrResourceNotFound if absent.
func (s *Store) Delete(id domain.ID) error {
	key := id.String()
	s.mu.Lock()
	_, ok := s.local[key]
	if ok {
		delete(s.local, key)
	}
	s.mu.Unlock()
	if !ok {
		return domain.ErrResourceNotFound
	}
	s.lgr.Debug("Delete: resource removed", logger.F("key", key))
	return nil
}

// Between returns all primary resources with IDs k such that k ∈ (from, to].
func (s *Store) Between(from, to domain.ID) []domain.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Resource
	for _, res := range s.local {
		if res.Key.Between(from, to) {
			out = append(out, res)
		}
	}
	return out
}

// All returns a snapshot of every resource in the primary store.
func (s *Store) All() []domain.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Resource, 0, len(s.local))
	for _, res := range s.local {
		out = append(out, res)
	}
	return out
}

// ---------------------------------------------------------------------
// Replica store
// ---------------------------------------------------------------------

// StoreReplica writes a resource into the replica bucket belonging to
// origin (the node that owns it as a primary).
func (s *Store) StoreReplica(origin domain.ID, res domain.Resource) {
	o := origin.String()
	s.rmu.Lock()
	bucket, ok := s.replicas[o]
	if !ok {
		bucket = make(map[string]domain.Resource)
		s.replicas[o] = bucket
	}
	bucket[res.Key.String()] = res
	s.rmu.Unlock()
	s.lgr.Debug("StoreReplica: replica written", logger.F("origin", o), logger.FResource("resource", res))
}

// ReplicaKeys returns the set of keys currently held in the replica
// bucket for the given origin.
func (s *Store) ReplicaKeys(origin domain.ID) []string {
	o := origin.String()
	s.rmu.RLock()
	defer s.rmu.RUnlock()
	bucket, ok := s.replicas[o]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, k)
	}
	return keys
}

// ReplicaResource fetches a single resource from the bucket for origin.
func (s *Store) ReplicaResource(origin domain.ID, key string) (domain.Resource, bool) {
	o := origin.String()
	s.rmu.RLock()
	defer s.rmu.RUnlock()
	bucket, ok := s.replicas[o]
	if !ok {
		return domain.Resource{}, false
	}
	res, ok := bucket[key]
	return res, ok
}

// DeleteReplicas removes the given keys from the replica bucket for origin.
// If keys is nil, the entire bucket is dropped (used when this node is no
// longer a valid replica holder for origin, per the reconciliation
// "delete everything" rule).
func (s *Store) DeleteReplicas(origin domain.ID, keys []string) {
	o := origin.String()
	s.rmu.Lock()
	defer s.rmu.Unlock()
	if keys == nil {
		delete(s.replicas, o)
		s.lgr.Debug("DeleteReplicas: bucket dropped entirely", logger.F("origin", o))
		return
	}
	bucket, ok := s.replicas[o]
	if !ok {
		return
	}
	for _, k := range keys {
		delete(bucket, k)
	}
	if len(bucket) == 0 {
		delete(s.replicas, o)
	}
}

// MergeReplicaBucket drains the entire replica bucket for origin into
// the primary store and removes the bucket. Used when a predecessor
// fails and this node inherits the keys it was replicating on its
// behalf.
func (s *Store) MergeReplicaBucket(origin domain.ID) []domain.Resource {
	o := origin.String()
	s.rmu.Lock()
	bucket, ok := s.replicas[o]
	delete(s.replicas, o)
	s.rmu.Unlock()
	if !ok {
		return nil
	}
	out := make([]domain.Resource, 0, len(bucket))
	s.mu.Lock()
	for k, res := range bucket {
		s.local[k] = res
		out = append(out, res)
	}
	s.mu.Unlock()
	s.lgr.Info("MergeReplicaBucket: promoted replica bucket to primary",
		logger.F("origin", o), logger.F("count", len(out)))
	return out
}

// ReplicaOrigins returns the set of origin node IDs (hex) for which this
// store currently carries a replica bucket.
func (s *Store) ReplicaOrigins() []string {
	s.rmu.RLock()
	defer s.rmu.RUnlock()
	out := make([]string, 0, len(s.replicas))
	for o := range s.replicas {
		out = append(out, o)
	}
	return out
}

// ---------------------------------------------------------------------
// Replication shortfall bookkeeping
// ---------------------------------------------------------------------

// MarkShortfall records that a key is still owed `count` additional
// successful replica placements (set after a replicate-to-successors
// pass where fewer than the configured replication factor acknowledged).
func (s *Store) MarkShortfall(key domain.ID, count int) {
	s.smu.Lock()
	defer s.smu.Unlock()
	if count <= 0 {
		delete(s.shortfall, key.String())
		return
	}
	s.shortfall[key.String()] = count
}

// Shortfalls returns a snapshot of keys with an outstanding replication
// shortfall, for the periodic reconciliation pass to retry.
func (s *Store) Shortfalls() map[string]int {
	s.smu.Lock()
	defer s.smu.Unlock()
	out := make(map[string]int, len(s.shortfall))
	for k, v := range s.shortfall {
		out[k] = v
	}
	return out
}

// DebugLog emits a structured DEBUG-level snapshot of the store contents.
func (s *Store) DebugLog() {
	s.mu.RLock()
	snapshot := make([]domain.Resource, 0, len(s.local))
	for _, res := range s.local {
		snapshot = append(snapshot, res)
	}
	s.mu.RUnlock()
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Key.String() < snapshot[j].Key.String()
	})
	entries := make([]map[string]any, 0, len(snapshot))
	for _, res := range snapshot {
		entries = append(entries, map[string]any{"key": res.Key.String(), "value": res.Value})
	}
	s.lgr.Debug("Store snapshot", logger.F("count", len(snapshot)), logger.F("resources", entries))
}
