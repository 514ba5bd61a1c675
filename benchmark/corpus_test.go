// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuskdata/tusk/bson"
)

func TestFlatCorpus(t *testing.T) {
	doc := flatDocument(flatFieldCount)
	_, err := doc.Validate()
	require.NoError(t, err)

	keys, err := doc.Keys(false)
	require.NoError(t, err)
	require.Len(t, keys, flatFieldCount)
	require.Equal(t, "field_000", keys[0].Name)
	require.Equal(t, "field_099", keys[flatFieldCount-1].Name)

	str, ok := doc.StringAt("field_000")
	require.True(t, ok)
	require.Equal(t, "ab", str)
	i32, ok := doc.Int32At("field_001")
	require.True(t, ok)
	require.Equal(t, int32(17), i32)
	i64, ok := doc.Int64At("field_002")
	require.True(t, ok)
	require.Equal(t, int64(2000000014), i64)
	dbl, ok := doc.DoubleAt("field_003")
	require.True(t, ok)
	require.Equal(t, 4.5, dbl)
	bl, ok := doc.BooleanAt("field_004")
	require.True(t, ok)
	require.True(t, bl)
}

func TestDeepCorpus(t *testing.T) {
	doc := deepDocument(deepNesting)
	_, err := doc.Validate()
	require.NoError(t, err)

	n, err := walkDocument(doc)
	require.NoError(t, err)
	require.Equal(t, 3*deepNesting+1, n)

	leaf, ok := doc.BooleanAt(deepPath(deepNesting))
	require.True(t, ok)
	require.True(t, leaf)

	lvl, ok := doc.Int32At("child.child.level")
	require.True(t, ok)
	require.Equal(t, int32(2), lvl)
}

func TestCorpusRoundTrip(t *testing.T) {
	doc := flatDocument(flatFieldCount)
	text, err := bson.ToExtJSON(true, doc)
	require.NoError(t, err)
	again, err := bson.ParseExtJSON([]byte(text))
	require.NoError(t, err)
	require.True(t, bson.Equal(doc, again))
}
