// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCaseDefinitionRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		def := &CaseDefinition{
			Bench:   CanaryIncCase,
			Count:   ten,
			Size:    -1,
			Runtime: time.Millisecond,
		}
		res := def.Run(context.Background())
		require.Equal(t, "CanaryIncCase", res.Name)
		require.GreaterOrEqual(t, res.Trials, MinIterations)
		require.Len(t, res.Raw, res.Trials)
		require.False(t, res.HasErrors())
		require.Empty(t, res.errReport())
		require.Contains(t, res.String(), "ops=")
	})

	t.Run("failure", func(t *testing.T) {
		boom := errors.New("boom")
		def := &CaseDefinition{
			Bench: func(ctx context.Context, tm TimerManager, iters int) error {
				tm.ResetTimer()
				return boom
			},
			Count:   ten,
			Size:    -1,
			Runtime: time.Millisecond,
		}
		res := def.Run(context.Background())
		require.True(t, res.HasErrors())
		require.Contains(t, res.errReport(), "boom")
	})

	t.Run("canceled-context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		def := &CaseDefinition{
			Bench:   CanaryIncCase,
			Count:   ten,
			Size:    -1,
			Runtime: time.Millisecond,
		}
		res := def.Run(ctx)
		require.Equal(t, 0, res.Trials)
	})
}

func TestCaseDefinitionName(t *testing.T) {
	def := &CaseDefinition{Bench: BSONFlatDocumentParsing}
	require.Equal(t, "BSONFlatDocumentParsing", def.Name())
	require.Contains(t, def.String(), "name=BSONFlatDocumentParsing")
}

func TestBenchResultScoring(t *testing.T) {
	mb := 1024 * 1024

	t.Run("throughput", func(t *testing.T) {
		res := &BenchResult{
			Name:     "Throughput",
			Trials:   3,
			DataSize: mb,
			Raw: []Result{
				{Duration: time.Second, Iterations: 1},
				{Duration: 2 * time.Second, Iterations: 1},
				{Duration: 4 * time.Second, Iterations: 1},
			},
		}
		require.Equal(t, 0.5, res.MedianThroughput())
		require.Equal(t, 0.25, res.MinThroughput())
		require.Equal(t, 1.0, res.MaxThroughput())
		require.Equal(t,
			"name=Throughput, trials=3, median=0.500MB/s, min=0.250MB/s, max=1.000MB/s",
			res.String())
	})

	t.Run("failed-trials-excluded", func(t *testing.T) {
		res := &BenchResult{
			Name:     "Partial",
			Trials:   2,
			DataSize: mb,
			Raw: []Result{
				{Duration: time.Second, Iterations: 1},
				{Duration: time.Millisecond, Iterations: 1, Error: errors.New("boom")},
			},
		}
		require.Equal(t, 1.0, res.MedianThroughput())
		require.True(t, res.HasErrors())
		require.Equal(t, []string{"boom"}, res.errReport())
	})

	t.Run("all-trials-failed", func(t *testing.T) {
		res := &BenchResult{
			Name:     "Broken",
			Trials:   1,
			DataSize: mb,
			Raw:      []Result{{Duration: time.Second, Error: errors.New("boom")}},
		}
		require.Equal(t, 0.0, res.MedianThroughput())
	})

	t.Run("operations", func(t *testing.T) {
		res := &BenchResult{
			Name:       "Ops",
			Trials:     2,
			DataSize:   -1,
			Operations: 100,
			Raw: []Result{
				{Duration: time.Second, Iterations: 100},
				{Duration: time.Second, Iterations: 100},
			},
		}
		require.Equal(t, 100.0, res.OperationsPerSecond())
		require.Equal(t, "name=Ops, trials=2, ops=100/s", res.String())
	})
}

func TestCaseTimer(t *testing.T) {
	timer := &caseTimer{}
	timer.ResetTimer()
	time.Sleep(time.Millisecond)
	timer.StopTimer()
	paused := timer.elapsed()
	require.Greater(t, paused, time.Duration(0))

	time.Sleep(time.Millisecond)
	require.Equal(t, paused, timer.elapsed())

	timer.StartTimer()
	time.Sleep(time.Millisecond)
	timer.StopTimer()
	require.Greater(t, timer.elapsed(), paused)

	timer.ResetTimer()
	require.Less(t, timer.elapsed(), paused+time.Millisecond)
}

func TestGetAllCases(t *testing.T) {
	cases := getAllCases()
	require.NotEmpty(t, cases)
	seen := map[string]bool{}
	for _, c := range cases {
		require.NotNil(t, c.Bench)
		require.Positive(t, c.Count)
		require.Positive(t, c.Runtime)
		name := c.Name()
		require.False(t, seen[name], "duplicate case %s", name)
		seen[name] = true
	}
	require.True(t, seen["BSONPathLookup"])
	require.True(t, seen["StoreFindEqual"])
}
