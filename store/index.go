// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package store

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/tuskdata/tusk/bson"
)

// The hash index maps big-endian bson.Hash values to the keys of documents
// hashing to them. Entries are composite keys, 4 hash bytes followed by the
// document key, with empty values; a prefix scan enumerates the candidates
// for one hash.

func indexKey(h int32, key []byte) []byte {
	out := make([]byte, 4+len(key))
	binary.BigEndian.PutUint32(out[0:4], uint32(h))
	copy(out[4:], key)
	return out
}

// FindEqual returns the keys of all stored documents whose encoded bytes
// equal doc's, in key order. Candidates come from the hash index and each is
// confirmed with bson.Equal, so hash collisions cannot produce false
// positives.
func (s *Store) FindEqual(doc bson.Document) ([][]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(bson.Hash(doc)))

	var keys [][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		docs := tx.Bucket(documentsBucket)
		c := tx.Bucket(hashIndexBucket).Cursor()
		for k, _ := c.Seek(prefix[:]); k != nil && bytes.HasPrefix(k, prefix[:]); k, _ = c.Next() {
			candidate := k[4:]
			v := docs.Get(candidate)
			if v == nil {
				return errors.Errorf("store: index entry %x has no document", k)
			}
			stored, err := decodeValue(v)
			if err != nil {
				return err
			}
			if bson.Equal(doc, stored) {
				kcopy := make([]byte, len(candidate))
				copy(kcopy, candidate)
				keys = append(keys, kcopy)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
