// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"fmt"
	"strings"

	"github.com/tuskdata/tusk/bson"
)

const (
	flatFieldCount = 100
	deepNesting    = 20
)

// flatJSON produces one wide document in extended JSON with fields cycles
// of string, int32, int64, double, and boolean values.
func flatJSON(fields int) string {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < fields; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "\"field_%03d\":", i)
		switch i % 5 {
		case 0:
			fmt.Fprintf(&b, "\"%s\"", strings.Repeat("ab", i%13+1))
		case 1:
			fmt.Fprintf(&b, "%d", i*17)
		case 2:
			fmt.Fprintf(&b, "{\"$numberLong\":\"%d\"}", int64(i)*1000000007)
		case 3:
			fmt.Fprintf(&b, "%.2f", float64(i)*1.5)
		case 4:
			fmt.Fprintf(&b, "%t", i%2 == 0)
		}
	}
	b.WriteByte('}')
	return b.String()
}

// deepJSON produces one document nested depth levels down, each level holding
// a level counter, a name, and the child subdocument, with a leaf at the
// bottom.
func deepJSON(depth int) string {
	var b strings.Builder
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&b, "{\"level\":%d,\"name\":\"node_%02d\",\"child\":", i, i)
	}
	b.WriteString("{\"leaf\":true}")
	b.WriteString(strings.Repeat("}", depth))
	return b.String()
}

// deepPath addresses the leaf of a deepJSON document.
func deepPath(depth int) string {
	return strings.Repeat("child.", depth) + "leaf"
}

func flatDocument(fields int) bson.Document {
	return mustParse(flatJSON(fields))
}

func deepDocument(depth int) bson.Document {
	return mustParse(deepJSON(depth))
}

func mustParse(json string) bson.Document {
	doc, err := bson.ParseExtJSON([]byte(json))
	if err != nil {
		panic(err)
	}
	return doc
}
