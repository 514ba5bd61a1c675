// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
)

// Result is one timed trial of a case.
type Result struct {
	Duration   time.Duration
	Iterations int
	Error      error
}

// BenchResult aggregates the trials of one case.
type BenchResult struct {
	Name       string
	Trials     int
	Duration   time.Duration
	Raw        []Result
	DataSize   int
	Operations int
	hasErrors  *bool
}

func (r *BenchResult) timings() []float64 {
	out := []float64{}
	for _, res := range r.Raw {
		if res.Error != nil {
			continue
		}
		out = append(out, res.Duration.Seconds())
	}
	return out
}

// MedianThroughput, MinThroughput, and MaxThroughput report megabytes per
// second over the successful trials. They return 0 when the case carries no
// data size or every trial failed.
func (r *BenchResult) MedianThroughput() float64 { return r.throughput(stats.Median) }
func (r *BenchResult) MinThroughput() float64    { return r.throughput(stats.Min) }
func (r *BenchResult) MaxThroughput() float64    { return r.throughput(stats.Max) }

func (r *BenchResult) throughput(score func(stats.Float64Data) (float64, error)) float64 {
	if r.DataSize <= 0 {
		return 0
	}
	rates := []float64{}
	for _, t := range r.timings() {
		if t <= 0 {
			continue
		}
		rates = append(rates, float64(r.DataSize)/t/(1024*1024))
	}
	if len(rates) == 0 {
		return 0
	}
	out, err := score(rates)
	if err != nil {
		return 0
	}
	return out
}

// OperationsPerSecond scores the cases that carry no data size.
func (r *BenchResult) OperationsPerSecond() float64 {
	var total float64
	timings := r.timings()
	for _, t := range timings {
		total += t
	}
	if total == 0 {
		return 0
	}
	return float64(r.Operations*len(timings)) / total
}

func (r *BenchResult) String() string {
	if r.DataSize > 0 {
		return fmt.Sprintf("name=%s, trials=%d, median=%0.3fMB/s, min=%0.3fMB/s, max=%0.3fMB/s",
			r.Name, r.Trials, r.MedianThroughput(), r.MinThroughput(), r.MaxThroughput())
	}
	return fmt.Sprintf("name=%s, trials=%d, ops=%0.0f/s", r.Name, r.Trials, r.OperationsPerSecond())
}

func (r *BenchResult) HasErrors() bool {
	if r.hasErrors == nil {
		var val bool
		for _, res := range r.Raw {
			if res.Error != nil {
				val = true
				break
			}
		}
		r.hasErrors = &val
	}

	return *r.hasErrors
}

func (r *BenchResult) errReport() []string {
	errs := []string{}
	for _, res := range r.Raw {
		if res.Error != nil {
			errs = append(errs, res.Error.Error())
		}
	}
	return errs
}
