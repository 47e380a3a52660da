// Package cache is the on-disk index cache: a straight key→blob store
// keyed on a fingerprint of the input directories, config, and year
// range, backed by badger (the example pack's own embedded KV store)
// with zstd-compressed values. The core interface the matching pipeline
// actually needs is just get(key) → bytes | none and put(key, bytes);
// everything else here is the reference implementation behind it.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
)

// Store is a badger-backed key→blob cache with zstd compression applied
// to every stored value.
type Store struct {
	db       *badger.DB
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// Open opens (creating if necessary) a badger database rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", dir, err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, encoder: enc, decoder: dec}, nil
}

func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

// Get returns the decompressed value for key, or (nil, false) on a cache
// miss.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			compressed = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	raw, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, fmt.Errorf("cache: decompress %s: %w", key, err)
	}
	return raw, true, nil
}

// Put compresses and stores value under key.
func (s *Store) Put(key string, value []byte) error {
	compressed := s.encoder.EncodeAll(value, nil)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), compressed)
	})
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", key, err)
	}
	return nil
}

// Key computes the cache key: SHA-256 of the copyright/renewal directory
// fingerprints, a serialized-config string, and the min/max year and
// brute-force-mode flag, exactly as named in the specification.
func Key(copyrightFingerprint, renewalFingerprint, serializedConfig string, minYear, maxYear int, bruteForce bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%d|%t", copyrightFingerprint, renewalFingerprint, serializedConfig, minYear, maxYear, bruteForce)
	return hex.EncodeToString(h.Sum(nil))
}
