// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// jsontobson reads extended JSON documents, one per line, and writes their
// binary encodings back-to-back to stdout. The documents' length prefixes
// are the framing; no separator is added.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tuskdata/tusk/bson"
)

var fileName = flag.String("f", "-", "input file, - for stdin")

func main() {
	err := mainReal()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func mainReal() error {
	flag.Parse()

	var file *os.File
	var err error

	if *fileName == "-" {
		file = os.Stdin
	} else {
		file, err = os.Open(*fileName)
		if err != nil {
			return fmt.Errorf("cannot open file (%s) because: %s", *fileName, err)
		}
		defer file.Close()
	}

	out := bufio.NewWriter(os.Stdout)

	lineNumber := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		doc, err := bson.ParseExtJSON([]byte(line))
		if err != nil {
			return fmt.Errorf("error parsing line %d: %s", lineNumber, err)
		}

		if _, err := doc.WriteTo(out); err != nil {
			return fmt.Errorf("error writing document from line %d: %s", lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	return out.Flush()
}
