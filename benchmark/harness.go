// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package benchmark measures the throughput of the codec and the store over
// synthetic corpora. Cases can run standalone through CaseDefinition.Run or
// under the testing package through WrapCase.
package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	ExecutionTimeout = 5 * time.Minute
	StandardRuntime  = time.Minute
	MinimumRuntime   = 10 * time.Second
	MinIterations    = 100

	ten         = 10
	hundred     = ten * ten
	thousand    = ten * hundred
	tenThousand = ten * thousand
)

type BenchCase func(context.Context, TimerManager, int) error
type BenchFunction func(*testing.B)

// TimerManager lets a case exclude its setup from the measured window. Both
// *testing.B and the standalone runner satisfy it.
type TimerManager interface {
	ResetTimer()
	StartTimer()
	StopTimer()
}

func WrapCase(bench BenchCase) BenchFunction {
	name := getName(bench)
	return func(b *testing.B) {
		ctx := context.Background()
		b.ResetTimer()
		err := bench(ctx, b, b.N)
		require.NoError(b, err, "case='%s'", name)
	}
}

func getAllCases() []*CaseDefinition {
	flatText := len(flatJSON(flatFieldCount))
	deepText := len(deepJSON(deepNesting))
	flatBinary := len(flatDocument(flatFieldCount))
	deepBinary := len(deepDocument(deepNesting))

	return []*CaseDefinition{
		{
			Bench:   CanaryIncCase,
			Count:   hundred,
			Size:    -1,
			Runtime: MinimumRuntime,
		},
		{
			Bench:   GlobalCanaryIncCase,
			Count:   hundred,
			Size:    -1,
			Runtime: MinimumRuntime,
		},
		{
			Bench:   BSONFlatDocumentParsing,
			Count:   tenThousand,
			Size:    flatText * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   BSONFlatDocumentRendering,
			Count:   tenThousand,
			Size:    flatBinary * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   BSONDeepDocumentParsing,
			Count:   tenThousand,
			Size:    deepText * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   BSONDeepDocumentRendering,
			Count:   tenThousand,
			Size:    deepBinary * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   BSONFlatReaderWalk,
			Count:   tenThousand,
			Size:    flatBinary * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   BSONDeepReaderWalk,
			Count:   tenThousand,
			Size:    deepBinary * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   BSONPathLookup,
			Count:   tenThousand,
			Size:    deepBinary * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   BSONCompareDocuments,
			Count:   tenThousand,
			Size:    2 * flatBinary * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   BSONHashDocuments,
			Count:   tenThousand,
			Size:    flatBinary * tenThousand,
			Runtime: StandardRuntime,
		},
		{
			Bench:   StoreInsertDocuments,
			Count:   thousand,
			Size:    flatBinary * thousand,
			Runtime: MinimumRuntime,
		},
		{
			Bench:   StoreFindEqual,
			Count:   hundred,
			Size:    flatBinary * hundred,
			Runtime: MinimumRuntime,
		},
	}
}
