// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tuskdata/tusk/store"
)

func StoreInsertDocuments(ctx context.Context, tm TimerManager, iters int) error {
	dir, err := os.MkdirTemp("", "tusk-bench")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	db, err := store.Open(filepath.Join(dir, "bench.db"), &store.Options{NoSync: true})
	if err != nil {
		return err
	}
	defer db.Close()

	doc := flatDocument(flatFieldCount)

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		key, err := db.Insert(doc)
		if err != nil {
			return err
		}
		if len(key) == 0 {
			return errors.New("insert error")
		}
	}

	return nil
}

func StoreFindEqual(ctx context.Context, tm TimerManager, iters int) error {
	dir, err := os.MkdirTemp("", "tusk-bench")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	db, err := store.Open(filepath.Join(dir, "bench.db"), &store.Options{NoSync: true})
	if err != nil {
		return err
	}
	defer db.Close()

	target := flatDocument(flatFieldCount)
	if err := db.Put([]byte("target"), target); err != nil {
		return err
	}
	for i := 0; i < hundred; i++ {
		if _, err := db.Insert(mustParse(fmt.Sprintf("{\"filler\":%d}", i))); err != nil {
			return err
		}
	}

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		keys, err := db.FindEqual(target)
		if err != nil {
			return err
		}
		if len(keys) != 1 {
			return errors.New("lookup error")
		}
	}

	return nil
}
