// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func accessorsTestDocument() Document {
	return makeDocument(
		appendStringElement(nil, "name", "tusk"),
		appendDocumentElement(nil, "a", makeDocument(
			appendArrayElement(nil, "b", makeDocument(
				appendInt32Element(nil, "0", 10),
				appendInt32Element(nil, "1", 20),
				appendInt32Element(nil, "2", 30),
			)),
		)),
		appendInt32Element(nil, "i32", -27),
		appendInt64Element(nil, "i64", 1099511627776),
		appendDoubleElement(nil, "pi", 3.14159),
		appendBooleanElement(nil, "ok", true),
		appendDateTimeElement(nil, "created", 1136214245042),
		appendDateTimeElement(nil, "preEpoch", -500),
		appendDecimal128Element(nil, "dec", NewDecimal128(0x3040000000000000, 12345)),
		appendBinaryElement(nil, "bin", 0x00, []byte{0xde, 0xad}),
		appendBinaryElement(nil, "uuid", SubtypeUUID, []byte("0123456789abcdef")),
		appendBinaryElement(nil, "shortUUID", SubtypeUUID, []byte("0123")),
		appendObjectIDElement(nil, "oid", testOid),
		appendRegexElement(nil, "re", "^a", "i"),
		appendSymbolElement(nil, "sym", "token"),
		appendNullElement(nil, "none"),
		appendTimestampElement(nil, "ts", 42, 13),
	)
}

func TestDocumentAccessors(t *testing.T) {
	d := accessorsTestDocument()
	if _, err := d.Validate(); err != nil {
		t.Fatalf("Fixture document is invalid: %v", err)
	}

	t.Run("StringAt", func(t *testing.T) {
		s, ok := d.StringAt("name")
		require.True(t, ok)
		require.Equal(t, "tusk", s)

		_, ok = d.StringAt("i32")
		require.False(t, ok)

		_, ok = d.StringAt("missing")
		require.False(t, ok)
	})
	t.Run("Int32At", func(t *testing.T) {
		i, ok := d.Int32At("a.b.1")
		require.True(t, ok)
		require.Equal(t, int32(20), i)

		_, ok = d.Int32At("a.b.9")
		require.False(t, ok)

		_, ok = d.StringAt("a.b.1")
		require.False(t, ok)

		_, ok = d.Int32At("i64")
		require.False(t, ok)
	})
	t.Run("Int64At", func(t *testing.T) {
		i, ok := d.Int64At("i64")
		require.True(t, ok)
		require.Equal(t, int64(1099511627776), i)

		// No numeric widening between the integer types.
		_, ok = d.Int64At("i32")
		require.False(t, ok)
	})
	t.Run("DoubleAt", func(t *testing.T) {
		f, ok := d.DoubleAt("pi")
		require.True(t, ok)
		require.Equal(t, 3.14159, f)

		_, ok = d.DoubleAt("i32")
		require.False(t, ok)
	})
	t.Run("BooleanAt", func(t *testing.T) {
		b, ok := d.BooleanAt("ok")
		require.True(t, ok)
		require.True(t, b)

		_, ok = d.BooleanAt("name")
		require.False(t, ok)
	})
	t.Run("TimeAt", func(t *testing.T) {
		want := time.Date(2006, 1, 2, 15, 4, 5, 42000000, time.UTC)
		got, ok := d.TimeAt("created")
		require.True(t, ok)
		require.True(t, got.Equal(want), "got %v; want %v", got, want)

		want = time.Date(1969, 12, 31, 23, 59, 59, 500000000, time.UTC)
		got, ok = d.TimeAt("preEpoch")
		require.True(t, ok)
		require.True(t, got.Equal(want), "got %v; want %v", got, want)

		_, ok = d.TimeAt("i64")
		require.False(t, ok)
	})
	t.Run("DecimalAt", func(t *testing.T) {
		dec, ok := d.DecimalAt("dec")
		require.True(t, ok)
		require.Equal(t, "12345", dec.String())

		_, ok = d.DecimalAt("pi")
		require.False(t, ok)
	})
	t.Run("BinaryAt", func(t *testing.T) {
		subtype, data, ok := d.BinaryAt("bin")
		require.True(t, ok)
		require.Equal(t, byte(0x00), subtype)
		require.True(t, bytes.Equal([]byte{0xde, 0xad}, data))

		_, _, ok = d.BinaryAt("name")
		require.False(t, ok)
	})
	t.Run("UUIDAt", func(t *testing.T) {
		u, ok := d.UUIDAt("uuid")
		require.True(t, ok)
		require.Equal(t, uuid.MustParse("30313233-3435-3637-3839-616263646566"), u)

		// Wrong subtype.
		_, ok = d.UUIDAt("bin")
		require.False(t, ok)

		// Wrong payload length.
		_, ok = d.UUIDAt("shortUUID")
		require.False(t, ok)
	})
	t.Run("DocumentAt", func(t *testing.T) {
		sub, ok := d.DocumentAt("a")
		require.True(t, ok)
		want := makeDocument(appendArrayElement(nil, "b", makeDocument(
			appendInt32Element(nil, "0", 10),
			appendInt32Element(nil, "1", 20),
			appendInt32Element(nil, "2", 30),
		)))
		require.True(t, bytes.Equal(want, sub))

		// Arrays are documents too.
		arr, ok := d.DocumentAt("a.b")
		require.True(t, ok)
		i, ok := arr.Int32At("2")
		require.True(t, ok)
		require.Equal(t, int32(30), i)

		_, ok = d.DocumentAt("name")
		require.False(t, ok)
	})
	t.Run("PathThroughScalar", func(t *testing.T) {
		_, ok := d.StringAt("name.x")
		require.False(t, ok)

		_, ok = d.Int32At("a.b.1.x")
		require.False(t, ok)
	})
	t.Run("EmptyPathSegments", func(t *testing.T) {
		_, ok := d.StringAt("")
		require.False(t, ok)

		_, ok = d.Int32At("a..b")
		require.False(t, ok)
	})
	t.Run("CorruptSubdocument", func(t *testing.T) {
		corrupt := Document{
			'\x10', '\x00', '\x00', '\x00',
			'\x03', 'a', '\x00',
			'\xFF', '\x00', '\x00', '\x00',
			'\x00', '\x00', '\x00', '\x00',
			'\x00',
		}
		_, ok := corrupt.Int32At("a.x")
		require.False(t, ok)
	})
}

func TestDocumentTextAt(t *testing.T) {
	d := accessorsTestDocument()

	testCases := []struct {
		name string
		path string
		want string
		ok   bool
	}{
		{"string", "name", "tusk", true},
		{"symbol", "sym", "token", true},
		{"double", "pi", "3.141590", true},
		{"int32-in-array", "a.b.2", "30", true},
		{"int64", "i64", "1099511627776", true},
		{"decimal", "dec", "12345", true},
		{"datetime", "created", "2006-01-02T15:04:05.042Z", true},
		{"datetime-pre-epoch", "preEpoch", "1969-12-31T23:59:59.500Z", true},
		{"document", "a", `{"b":[10,20,30]}`, true},
		{"array", "a.b", `[10,20,30]`, true},
		{"binary", "bin", `\xdead`, true},
		{"boolean", "ok", "true", true},
		{"objectid", "oid", "5a15d0a4d5daa5f10a5e1089", true},
		{"null", "none", "", false},
		{"regex", "re", "", false},
		{"timestamp", "ts", "", false},
		{"absent", "nope", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := d.TextAt(tc.path)
			if ok != tc.ok {
				t.Fatalf("Presence mismatch. got %v; want %v", ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("Text does not match. got %q; want %q", got, tc.want)
			}
		})
	}
}
