// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"context"
	"errors"

	"github.com/tuskdata/tusk/bson"
)

func BSONFlatDocumentParsing(ctx context.Context, tm TimerManager, iters int) error {
	raw := []byte(flatJSON(flatFieldCount))

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		doc, err := bson.ParseExtJSON(raw)
		if err != nil {
			return err
		}
		if len(doc) == 0 {
			return errors.New("document parsing error")
		}
	}

	return nil
}

func BSONFlatDocumentRendering(ctx context.Context, tm TimerManager, iters int) error {
	doc := flatDocument(flatFieldCount)

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		out, err := bson.ToExtJSON(false, doc)
		if err != nil {
			return err
		}
		if len(out) == 0 {
			return errors.New("rendering error")
		}
	}

	return nil
}

func BSONDeepDocumentParsing(ctx context.Context, tm TimerManager, iters int) error {
	raw := []byte(deepJSON(deepNesting))

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		doc, err := bson.ParseExtJSON(raw)
		if err != nil {
			return err
		}
		if len(doc) == 0 {
			return errors.New("document parsing error")
		}
	}

	return nil
}

func BSONDeepDocumentRendering(ctx context.Context, tm TimerManager, iters int) error {
	doc := deepDocument(deepNesting)

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		out, err := bson.ToExtJSON(false, doc)
		if err != nil {
			return err
		}
		if len(out) == 0 {
			return errors.New("rendering error")
		}
	}

	return nil
}

func BSONFlatReaderWalk(ctx context.Context, tm TimerManager, iters int) error {
	doc := flatDocument(flatFieldCount)

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		n, err := walkDocument(doc)
		if err != nil {
			return err
		}
		if n != flatFieldCount {
			return errors.New("incomplete walk")
		}
	}

	return nil
}

func BSONDeepReaderWalk(ctx context.Context, tm TimerManager, iters int) error {
	doc := deepDocument(deepNesting)

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		n, err := walkDocument(doc)
		if err != nil {
			return err
		}
		if n != 3*deepNesting+1 {
			return errors.New("incomplete walk")
		}
	}

	return nil
}

// walkDocument counts every element reachable from doc, descending into
// subdocuments and arrays.
func walkDocument(doc bson.Document) (int, error) {
	itr, err := doc.Iterator()
	if err != nil {
		return 0, err
	}

	count := 0
	for itr.Next() {
		count++
		if sub, ok := itr.Element().Value().ContainerOK(); ok {
			n, err := walkDocument(sub)
			if err != nil {
				return 0, err
			}
			count += n
		}
	}
	if err := itr.Err(); err != nil {
		return 0, err
	}

	return count, nil
}

func BSONPathLookup(ctx context.Context, tm TimerManager, iters int) error {
	doc := deepDocument(deepNesting)
	path := deepPath(deepNesting)

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		leaf, ok := doc.BooleanAt(path)
		if !ok || !leaf {
			return errors.New("lookup error")
		}
	}

	return nil
}

func BSONCompareDocuments(ctx context.Context, tm TimerManager, iters int) error {
	a := flatDocument(flatFieldCount)
	b := flatDocument(flatFieldCount - 1)

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		if bson.Compare(a, a) != 0 {
			return errors.New("compare error")
		}
		if bson.Compare(a, b) <= 0 {
			return errors.New("compare order error")
		}
	}

	return nil
}

func BSONHashDocuments(ctx context.Context, tm TimerManager, iters int) error {
	doc := flatDocument(flatFieldCount)
	want := bson.Hash(doc)

	tm.ResetTimer()

	for i := 0; i < iters; i++ {
		if bson.Hash(doc) != want {
			return errors.New("hash error")
		}
	}

	return nil
}
