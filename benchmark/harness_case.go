// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"
)

// CaseDefinition binds a BenchCase to its iteration count, the number of
// corpus bytes one trial moves (Size, -1 when throughput is meaningless for
// the case), and the wall-clock budget the standalone runner spends on it.
type CaseDefinition struct {
	Bench   BenchCase
	Count   int
	Size    int
	Runtime time.Duration

	startAt time.Time
}

// Run executes the case repeatedly until its runtime budget and the trial
// floor are both spent, collecting one Result per trial. Only time inside
// the case's timer window counts toward a trial's duration.
func (c *CaseDefinition) Run(ctx context.Context) *BenchResult {
	out := &BenchResult{
		DataSize:   c.Size,
		Name:       c.Name(),
		Operations: c.Count,
	}
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, ExecutionTimeout)
	defer cancel()

	fmt.Println("=== RUN", out.Name)
	c.startAt = time.Now()
	for {
		if time.Since(c.startAt) > c.Runtime {
			if out.Trials >= MinIterations {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		res := Result{
			Iterations: c.Count,
		}
		timer := &caseTimer{}
		timer.ResetTimer()
		res.Error = c.Bench(ctx, timer, c.Count)
		res.Duration = timer.elapsed()

		if res.Error == context.Canceled {
			break
		}

		out.Trials++
		out.Raw = append(out.Raw, res)
	}
	out.Duration = time.Since(c.startAt)
	if out.HasErrors() {
		fmt.Printf("--- FAIL: %s (%s)\n", out.Name, out.Duration.Round(time.Millisecond))
	} else {
		fmt.Printf("--- PASS: %s (%s)\n", out.Name, out.Duration.Round(time.Millisecond))
	}

	return out
}

func (c *CaseDefinition) String() string {
	return fmt.Sprintf("name=%s, count=%d, runtime=%s timeout=%s",
		c.Name(), c.Count, c.Runtime, ExecutionTimeout)
}

func (c *CaseDefinition) Name() string { return getName(c.Bench) }

func getName(i interface{}) string {
	n := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	parts := strings.Split(n, ".")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}

	return n
}

// caseTimer is the standalone runner's TimerManager, accumulating wall time
// between Start/Stop pairs.
type caseTimer struct {
	start   time.Time
	total   time.Duration
	running bool
}

func (t *caseTimer) ResetTimer() {
	t.total = 0
	t.start = time.Now()
	t.running = true
}

func (t *caseTimer) StartTimer() {
	if !t.running {
		t.start = time.Now()
		t.running = true
	}
}

func (t *caseTimer) StopTimer() {
	if t.running {
		t.total += time.Since(t.start)
		t.running = false
	}
}

func (t *caseTimer) elapsed() time.Duration {
	if t.running {
		return t.total + time.Since(t.start)
	}
	return t.total
}
