// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// tuskbench runs the full benchmark suite and exits non-zero if any case
// reported errors.
package main

import (
	"context"
	"os"

	"github.com/tuskdata/tusk/benchmark"
)

func main() {
	os.Exit(benchmark.RunAll(context.Background()))
}
