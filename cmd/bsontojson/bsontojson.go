// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// bsontojson reads back-to-back binary documents and writes one JSON text
// per line to stdout. With -path it projects a single field as plain text
// instead; documents without the field produce an empty line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/pretty"

	"github.com/tuskdata/tusk/bson"
)

var (
	fileName  = flag.String("f", "-", "input file, - for stdin")
	canonical = flag.Bool("canonical", false, "write canonical extended JSON instead of relaxed")
	prettify  = flag.Bool("pretty", false, "indent the JSON output")
	path      = flag.String("path", "", "project a single dotted-path field as plain text")
)

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

	in := bufio.NewReader(file)
	out := bufio.NewWriter(os.Stdout)

	count := 0
	for {
		doc, err := bson.ReadDocument(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading document %d: %s", count+1, err)
		}
		count++

		if _, err := doc.Validate(); err != nil {
			return fmt.Errorf("document %d: invalid binary representation: %s", count, err)
		}

		if err := writeDocument(out, doc); err != nil {
			return fmt.Errorf("error writing document %d: %s", count, err)
		}
	}

	return out.Flush()
}

func writeDocument(out *bufio.Writer, doc bson.Document) error {
	if *path != "" {
		text, _ := doc.TextAt(*path)
		_, err := fmt.Fprintln(out, text)
		return err
	}

	s, err := bson.ToExtJSON(*canonical, doc)
	if err != nil {
		return err
	}
	if *prettify {
		_, err = out.Write(pretty.Pretty([]byte(s)))
		return err
	}
	_, err = fmt.Fprintln(out, s)
	return err
}
