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

	"github.com/stretchr/testify/require"
)

// makeDocument frames pre-encoded elements as a complete document.
func makeDocument(elems ...[]byte) Document {
	idx, dst := reserveLength(nil)
	for _, elem := range elems {
		dst = append(dst, elem...)
	}
	dst = append(dst, 0x00)
	return Document(updateLength(dst, idx, int32(len(dst))))
}

func firstValue(t *testing.T, d Document) *Value {
	t.Helper()
	if _, err := d.Validate(); err != nil {
		t.Fatalf("Fixture document is invalid: %v", err)
	}
	elem, err := d.ElementAt(0)
	if err != nil {
		t.Fatalf("Unexpected error retrieving first element: %v", err)
	}
	return elem.Value()
}

func TestValue(t *testing.T) {
	t.Run("Uninitialized", func(t *testing.T) {
		var v *Value
		require.Panics(t, func() { v.Double() })
		require.Panics(t, func() { v.StringValue() })
		require.Panics(t, func() { v.Document() })
		require.Panics(t, func() { (&Value{}).Int32() })

		_, ok := v.DoubleOK()
		require.False(t, ok)
		_, ok = v.StringValueOK()
		require.False(t, ok)
	})
	t.Run("Double", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendDoubleElement(nil, "f", 3.14159)))
		require.Equal(t, TypeDouble, v.Type())
		require.True(t, v.IsNumber())
		require.Equal(t, 3.14159, v.Double())
		got, ok := v.DoubleOK()
		require.True(t, ok)
		require.Equal(t, 3.14159, got)

		_, ok = v.StringValueOK()
		require.False(t, ok)
		require.Panics(t, func() { v.StringValue() })
	})
	t.Run("String", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendStringElement(nil, "foo", "bar")))
		require.Equal(t, TypeString, v.Type())
		require.False(t, v.IsNumber())
		require.Equal(t, "bar", v.StringValue())
		got, ok := v.StringValueOK()
		require.True(t, ok)
		require.Equal(t, "bar", got)

		_, ok = v.Int32OK()
		require.False(t, ok)
		require.Panics(t, func() { v.Int32() })
	})
	t.Run("Document", func(t *testing.T) {
		inner := makeDocument(appendNullElement(nil, "a"))
		v := firstValue(t, makeDocument(appendDocumentElement(nil, "d", inner)))
		require.Equal(t, TypeEmbeddedDocument, v.Type())
		sub := v.Document()
		require.True(t, bytes.Equal(inner, sub))

		got, ok := v.DocumentOK()
		require.True(t, ok)
		require.True(t, bytes.Equal(inner, got))

		got, ok = v.ContainerOK()
		require.True(t, ok)
		require.True(t, bytes.Equal(inner, got))

		_, ok = v.ArrayOK()
		require.False(t, ok)
		require.Panics(t, func() { v.Array() })
	})
	t.Run("Array", func(t *testing.T) {
		inner := makeDocument(appendInt32Element(nil, "0", 10), appendInt32Element(nil, "1", 20))
		v := firstValue(t, makeDocument(appendArrayElement(nil, "a", inner)))
		require.Equal(t, TypeArray, v.Type())
		arr := v.Array()
		require.True(t, bytes.Equal(inner, arr))

		elem, err := arr.ElementAt(1)
		require.NoError(t, err)
		require.Equal(t, int32(20), elem.Value().Int32())

		got, ok := v.ContainerOK()
		require.True(t, ok)
		require.True(t, bytes.Equal(inner, got))

		_, ok = v.DocumentOK()
		require.False(t, ok)
	})
	t.Run("Binary", func(t *testing.T) {
		payload := []byte{0x01, 0x02, 0x03}
		v := firstValue(t, makeDocument(appendBinaryElement(nil, "b", 0x00, payload)))
		require.Equal(t, TypeBinary, v.Type())
		st, data := v.Binary()
		require.Equal(t, byte(0x00), st)
		require.True(t, bytes.Equal(payload, data))

		// The payload is a copy, so mutating it cannot reach the document.
		data[0] = 0xFF
		_, again := v.Binary()
		require.True(t, bytes.Equal(payload, again))

		st, data, ok := v.BinaryOK()
		require.True(t, ok)
		require.Equal(t, byte(0x00), st)
		require.True(t, bytes.Equal(payload, data))

		_, _, ok = firstValue(t, makeDocument(appendNullElement(nil, "n"))).BinaryOK()
		require.False(t, ok)
	})
	t.Run("BinaryOldSubtype", func(t *testing.T) {
		payload := []byte{0x0A, 0x0B, 0x0C, 0x0D}
		v := firstValue(t, makeDocument(appendBinaryElement(nil, "b", 0x02, payload)))
		st, data := v.Binary()
		require.Equal(t, byte(0x02), st)
		require.True(t, bytes.Equal(payload, data))
	})
	t.Run("ObjectID", func(t *testing.T) {
		oid := ObjectID{0x5a, 0x15, 0xd0, 0xa4, 0xd5, 0xda, 0xa5, 0xf1, 0x0a, 0x5e, 0x10, 0x89}
		v := firstValue(t, makeDocument(appendObjectIDElement(nil, "_id", oid)))
		require.Equal(t, TypeObjectID, v.Type())
		require.Equal(t, oid, v.ObjectID())
		got, ok := v.ObjectIDOK()
		require.True(t, ok)
		require.Equal(t, oid, got)
	})
	t.Run("Boolean", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendBooleanElement(nil, "b", true)))
		require.Equal(t, TypeBoolean, v.Type())
		require.True(t, v.Boolean())

		v = firstValue(t, makeDocument(appendBooleanElement(nil, "b", false)))
		got, ok := v.BooleanOK()
		require.True(t, ok)
		require.False(t, got)
	})
	t.Run("DateTime", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendDateTimeElement(nil, "d", 1136214245042)))
		require.Equal(t, TypeDateTime, v.Type())
		want := time.Date(2006, 1, 2, 15, 4, 5, 42000000, time.UTC)
		require.True(t, want.Equal(v.DateTime()))

		got, ok := v.DateTimeOK()
		require.True(t, ok)
		require.True(t, want.Equal(got))
	})
	t.Run("DateTimePreEpoch", func(t *testing.T) {
		// Floor division applies for negative milliseconds, so -500ms is
		// half a second before the epoch.
		v := firstValue(t, makeDocument(appendDateTimeElement(nil, "d", -500)))
		want := time.Date(1969, 12, 31, 23, 59, 59, 500000000, time.UTC)
		require.True(t, want.Equal(v.DateTime()))
	})
	t.Run("Regex", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendRegexElement(nil, "r", "^ab+$", "ix")))
		require.Equal(t, TypeRegex, v.Type())
		p, o := v.Regex()
		require.Equal(t, "^ab+$", p)
		require.Equal(t, "ix", o)

		p, o, ok := v.RegexOK()
		require.True(t, ok)
		require.Equal(t, "^ab+$", p)
		require.Equal(t, "ix", o)
	})
	t.Run("DBPointer", func(t *testing.T) {
		oid := ObjectID{0x5a, 0x15, 0xd0, 0xa4, 0xd5, 0xda, 0xa5, 0xf1, 0x0a, 0x5e, 0x10, 0x89}
		v := firstValue(t, makeDocument(appendDBPointerElement(nil, "p", "db.collection", oid)))
		require.Equal(t, TypeDBPointer, v.Type())
		ns, got := v.DBPointer()
		require.Equal(t, "db.collection", ns)
		require.Equal(t, oid, got)
	})
	t.Run("JavaScript", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendJavaScriptElement(nil, "js", "var x = 1;")))
		require.Equal(t, TypeJavaScript, v.Type())
		require.Equal(t, "var x = 1;", v.JavaScript())
	})
	t.Run("Symbol", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendSymbolElement(nil, "s", "sym")))
		require.Equal(t, TypeSymbol, v.Type())
		require.Equal(t, "sym", v.Symbol())
	})
	t.Run("JavaScriptWithScope", func(t *testing.T) {
		scope := makeDocument(appendInt32Element(nil, "x", 1))
		v := firstValue(t, makeDocument(appendCodeWithScopeElement(nil, "cws", "var x;", scope)))
		require.Equal(t, TypeCodeWithScope, v.Type())
		code, gotScope := v.JavaScriptWithScope()
		require.Equal(t, "var x;", code)
		require.True(t, bytes.Equal(scope, gotScope))

		code, gotScope, ok := v.JavaScriptWithScopeOK()
		require.True(t, ok)
		require.Equal(t, "var x;", code)
		require.True(t, bytes.Equal(scope, gotScope))
	})
	t.Run("Int32", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendInt32Element(nil, "i", -27)))
		require.Equal(t, TypeInt32, v.Type())
		require.True(t, v.IsNumber())
		require.Equal(t, int32(-27), v.Int32())
	})
	t.Run("Timestamp", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendTimestampElement(nil, "ts", 42, 13)))
		require.Equal(t, TypeTimestamp, v.Type())
		ts, inc := v.Timestamp()
		require.Equal(t, uint32(42), ts)
		require.Equal(t, uint32(13), inc)
	})
	t.Run("Int64", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendInt64Element(nil, "i", -27451928374)))
		require.Equal(t, TypeInt64, v.Type())
		require.True(t, v.IsNumber())
		require.Equal(t, int64(-27451928374), v.Int64())
	})
	t.Run("Decimal128", func(t *testing.T) {
		d128 := NewDecimal128(0x3040000000000000, 12345)
		v := firstValue(t, makeDocument(appendDecimal128Element(nil, "d", d128)))
		require.Equal(t, TypeDecimal128, v.Type())
		require.True(t, v.IsNumber())
		require.Equal(t, d128, v.Decimal128())
	})
	t.Run("MinMaxKey", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendMinKeyElement(nil, "m")))
		require.Equal(t, TypeMinKey, v.Type())
		v = firstValue(t, makeDocument(appendMaxKeyElement(nil, "m")))
		require.Equal(t, TypeMaxKey, v.Type())
	})
	t.Run("Undefined", func(t *testing.T) {
		v := firstValue(t, makeDocument(appendUndefinedElement(nil, "u")))
		require.Equal(t, TypeUndefined, v.Type())
		require.Nil(t, v.Interface())
	})
	t.Run("Interface", func(t *testing.T) {
		testCases := []struct {
			name string
			d    Document
			want interface{}
		}{
			{"double", makeDocument(appendDoubleElement(nil, "x", 3.5)), 3.5},
			{"string", makeDocument(appendStringElement(nil, "x", "foo")), "foo"},
			{"boolean", makeDocument(appendBooleanElement(nil, "x", true)), true},
			{"null", makeDocument(appendNullElement(nil, "x")), nil},
			{"int32", makeDocument(appendInt32Element(nil, "x", 5)), int32(5)},
			{"int64", makeDocument(appendInt64Element(nil, "x", 5)), int64(5)},
			{"regex", makeDocument(appendRegexElement(nil, "x", "a", "i")), Regex{Pattern: "a", Options: "i"}},
			{"timestamp", makeDocument(appendTimestampElement(nil, "x", 4, 2)), Timestamp{T: 4, I: 2}},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				v := firstValue(t, tc.d)
				require.Equal(t, tc.want, v.Interface())
			})
		}
	})
}
