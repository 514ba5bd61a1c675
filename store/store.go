// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package store persists BSON documents in a bbolt file database and keeps a
// hash index over their encoded bytes for exact-match lookup. Documents are
// validated on the way in and copied on the way out, so callers never hold
// references into bbolt pages.
package store

import (
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/tuskdata/tusk/bson"
)

var (
	documentsBucket = []byte("documents")
	hashIndexBucket = []byte("hashidx")
)

// ErrKeyNotFound is returned by Get when no document is stored under the key.
var ErrKeyNotFound = errors.New("store: key not found")

// Value records start with a marker byte so that stores written with and
// without compression stay readable by either configuration.
const (
	rawMarker    = 0x00
	snappyMarker = 0x01
)

// Options configures Open. The zero value is usable.
type Options struct {
	// Logf receives lifecycle log lines. Defaults to a no-op.
	Logf func(format string, args ...interface{})
	// NoSync skips fsync on commit. Data integrity after a crash is no
	// longer guaranteed; intended for tests.
	NoSync bool
	// Compress snappy-compresses stored values.
	Compress bool
	// InitialMmapSize overrides the initial mmap size in bytes.
	InitialMmapSize int
}

// Store is a bbolt-backed document store. All methods are safe for
// concurrent use; writes serialize on bbolt's single writer.
type Store struct {
	db       *bolt.DB
	logf     func(format string, args ...interface{})
	compress bool
}

// Open opens or creates the database file at path.
func Open(path string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}

	bopts := *bolt.DefaultOptions
	bopts.Timeout = 10 * time.Second
	bopts.NoSync = opts.NoSync
	if opts.InitialMmapSize != 0 {
		bopts.InitialMmapSize = opts.InitialMmapSize
	}

	db, err := bolt.Open(path, 0666, &bopts)
	if err != nil {
		return nil, errors.Wrap(err, "store: open")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(documentsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(hashIndexBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "store: create buckets")
	}

	logf("store: opened %s (compress=%v nosync=%v)", path, opts.Compress, opts.NoSync)
	return &Store{db: db, logf: logf, compress: opts.Compress}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	s.logf("store: closing %s", s.db.Path())
	return errors.Wrap(s.db.Close(), "store: close")
}

// Put stores doc under key, replacing any previous document and keeping the
// hash index in step. The document is validated first; corrupt bytes are
// rejected rather than persisted.
func (s *Store) Put(key []byte, doc bson.Document) error {
	if len(key) == 0 {
		return errors.New("store: empty key")
	}
	if err := validate(doc); err != nil {
		return err
	}

	value := s.encodeValue(doc)
	return s.db.Update(func(tx *bolt.Tx) error {
		docs := tx.Bucket(documentsBucket)
		idx := tx.Bucket(hashIndexBucket)

		if old := docs.Get(key); old != nil {
			oldDoc, err := decodeValue(old)
			if err != nil {
				return err
			}
			if err := idx.Delete(indexKey(bson.Hash(oldDoc), key)); err != nil {
				return err
			}
		}
		if err := docs.Put(key, value); err != nil {
			return err
		}
		return idx.Put(indexKey(bson.Hash(doc), key), nil)
	})
}

// Insert stores doc under a fresh random UUID key and returns the key.
func (s *Store) Insert(doc bson.Document) ([]byte, error) {
	key := uuid.New()
	if err := s.Put(key[:], doc); err != nil {
		return nil, err
	}
	return key[:], nil
}

// Get returns the document stored under key. The returned document owns its
// bytes. ErrKeyNotFound is returned when the key is absent.
func (s *Store) Get(key []byte) (bson.Document, error) {
	var doc bson.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(documentsBucket).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		var derr error
		doc, derr = decodeValue(v)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the document stored under key along with its index entry.
// Deleting an absent key is not an error.
func (s *Store) Delete(key []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		docs := tx.Bucket(documentsBucket)
		old := docs.Get(key)
		if old == nil {
			return nil
		}
		oldDoc, err := decodeValue(old)
		if err != nil {
			return err
		}
		if err := tx.Bucket(hashIndexBucket).Delete(indexKey(bson.Hash(oldDoc), key)); err != nil {
			return err
		}
		return docs.Delete(key)
	})
}

// ForEach calls fn for every stored key and document in key order. Both
// arguments are copies owned by fn. A non-nil error from fn stops the scan
// and is returned.
func (s *Store) ForEach(fn func(key []byte, doc bson.Document) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).ForEach(func(k, v []byte) error {
			doc, err := decodeValue(v)
			if err != nil {
				return err
			}
			kcopy := make([]byte, len(k))
			copy(kcopy, k)
			return fn(kcopy, doc)
		})
	})
}

func validate(doc bson.Document) error {
	d, err := bson.NewDocument(doc)
	if err == nil {
		_, err = d.Validate()
	}
	if err != nil {
		return errors.Wrap(err, "invalid binary representation")
	}
	return nil
}

func (s *Store) encodeValue(doc bson.Document) []byte {
	if s.compress {
		return append([]byte{snappyMarker}, snappy.Encode(nil, doc)...)
	}
	return append([]byte{rawMarker}, doc...)
}

// decodeValue unpacks a value record into a document owning its bytes.
func decodeValue(v []byte) (bson.Document, error) {
	if len(v) < 1 {
		return nil, errors.New("store: empty value record")
	}
	switch v[0] {
	case rawMarker:
		out := make([]byte, len(v)-1)
		copy(out, v[1:])
		return bson.Document(out), nil
	case snappyMarker:
		out, err := snappy.Decode(nil, v[1:])
		if err != nil {
			return nil, errors.Wrap(err, "store: decompress")
		}
		return bson.Document(out), nil
	default:
		return nil, errors.Errorf("store: unknown value marker 0x%02x", v[0])
	}
}
