package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/pulibrary/marc-pd-tool-sub000/internal/index"
)

// PutIndexer gob-encodes idx's snapshot and stores it under key, the cache
// value the specification describes as "serialized DataIndexers".
func (s *Store) PutIndexer(key string, idx *index.Indexer) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(idx.Snapshot()); err != nil {
		return fmt.Errorf("cache: encode indexer for %s: %w", key, err)
	}
	return s.Put(key, buf.Bytes())
}

// GetIndexer decodes a previously stored indexer snapshot, or reports a
// cache miss.
func (s *Store) GetIndexer(key string) (*index.Indexer, bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	var snap index.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, false, fmt.Errorf("cache: decode indexer for %s: %w", key, err)
	}
	return index.FromSnapshot(snap), true, nil
}
