// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"context"
	"fmt"
)

// RunAll executes every registered case in sequence and prints one summary
// line per case. The returned code is non-zero when any trial reported an
// error, making it suitable as a process exit code.
func RunAll(ctx context.Context) int {
	code := 0
	for _, c := range getAllCases() {
		res := c.Run(ctx)
		fmt.Println(res)
		if res.HasErrors() {
			for _, msg := range res.errReport() {
				fmt.Println("   ", msg)
			}
			code = 1
		}
	}
	return code
}
