// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import "math"

// This file contains functions that append BSON elements and values to a
// slice of bytes. They do no validation; callers are responsible for keys
// and payloads. If the destination slice has enough capacity it will not be
// grown.

func appendType(dst []byte, t Type) []byte { return append(dst, byte(t)) }

// appendHeader will append Type t and key to dst and return the extended
// buffer.
func appendHeader(dst []byte, t Type, key string) []byte {
	dst = appendType(dst, t)
	dst = append(dst, key...)
	return append(dst, 0x00)
}

// reserveLength reserves the space required for a document length and returns
// the index where the length begins along with the extended buffer.
func reserveLength(dst []byte) (int32, []byte) {
	index := len(dst)
	return int32(index), append(dst, 0x00, 0x00, 0x00, 0x00)
}

// updateLength writes length into dst at index. The space must already have
// been reserved.
func updateLength(dst []byte, index, length int32) []byte {
	dst[index] = byte(length)
	dst[index+1] = byte(length >> 8)
	dst[index+2] = byte(length >> 16)
	dst[index+3] = byte(length >> 24)
	return dst
}

func appendDoubleElement(dst []byte, key string, f float64) []byte {
	return appendu64(appendHeader(dst, TypeDouble, key), math.Float64bits(f))
}

func appendStringElement(dst []byte, key, val string) []byte {
	return appendstring(appendHeader(dst, TypeString, key), val)
}

// appendDocumentElement will append doc, which must be a complete encoded
// document, using key to dst and return the extended buffer.
func appendDocumentElement(dst []byte, key string, doc []byte) []byte {
	return append(appendHeader(dst, TypeEmbeddedDocument, key), doc...)
}

func appendArrayElement(dst []byte, key string, arr []byte) []byte {
	return append(appendHeader(dst, TypeArray, key), arr...)
}

func appendBinaryElement(dst []byte, key string, subtype byte, b []byte) []byte {
	dst = appendHeader(dst, TypeBinary, key)
	if subtype == 0x02 {
		return appendBinarySubtype2(dst, subtype, b)
	}
	dst = append(appendLength(dst, int32(len(b))), subtype)
	return append(dst, b...)
}

// appendBinarySubtype2 handles the old binary subtype, which has a second
// length prefix in front of the payload.
func appendBinarySubtype2(dst []byte, subtype byte, b []byte) []byte {
	dst = appendLength(dst, int32(len(b)+4))
	dst = append(dst, subtype)
	dst = appendLength(dst, int32(len(b)))
	return append(dst, b...)
}

func appendUndefinedElement(dst []byte, key string) []byte {
	return appendHeader(dst, TypeUndefined, key)
}

func appendObjectIDElement(dst []byte, key string, oid ObjectID) []byte {
	return append(appendHeader(dst, TypeObjectID, key), oid[:]...)
}

func appendBooleanElement(dst []byte, key string, b bool) []byte {
	dst = appendHeader(dst, TypeBoolean, key)
	if b {
		return append(dst, 0x01)
	}
	return append(dst, 0x00)
}

func appendDateTimeElement(dst []byte, key string, dt int64) []byte {
	return appendi64(appendHeader(dst, TypeDateTime, key), dt)
}

func appendNullElement(dst []byte, key string) []byte {
	return appendHeader(dst, TypeNull, key)
}

func appendRegexElement(dst []byte, key, pattern, options string) []byte {
	dst = appendHeader(dst, TypeRegex, key)
	dst = append(dst, pattern...)
	dst = append(dst, 0x00)
	dst = append(dst, options...)
	return append(dst, 0x00)
}

func appendDBPointerElement(dst []byte, key, ns string, oid ObjectID) []byte {
	dst = appendstring(appendHeader(dst, TypeDBPointer, key), ns)
	return append(dst, oid[:]...)
}

func appendJavaScriptElement(dst []byte, key, js string) []byte {
	return appendstring(appendHeader(dst, TypeJavaScript, key), js)
}

func appendSymbolElement(dst []byte, key, symbol string) []byte {
	return appendstring(appendHeader(dst, TypeSymbol, key), symbol)
}

// appendCodeWithScopeElement will append code and scope, which must be a
// complete encoded document, using key to dst and return the extended buffer.
func appendCodeWithScopeElement(dst []byte, key, code string, scope []byte) []byte {
	dst = appendHeader(dst, TypeCodeWithScope, key)
	// length of container, length of code, code, 0x00, scope
	length := int32(4 + 4 + len(code) + 1 + len(scope))
	dst = appendLength(dst, length)
	return append(appendstring(dst, code), scope...)
}

func appendInt32Element(dst []byte, key string, i32 int32) []byte {
	return appendi32(appendHeader(dst, TypeInt32, key), i32)
}

// appendTimestampElement will append t and i using key to dst and return the
// extended buffer. i is the lower 4 bytes, t is the higher 4 bytes.
func appendTimestampElement(dst []byte, key string, t, i uint32) []byte {
	return appendu32(appendu32(appendHeader(dst, TypeTimestamp, key), i), t)
}

func appendInt64Element(dst []byte, key string, i64 int64) []byte {
	return appendi64(appendHeader(dst, TypeInt64, key), i64)
}

func appendDecimal128Element(dst []byte, key string, d128 Decimal128) []byte {
	dst = appendHeader(dst, TypeDecimal128, key)
	high, low := d128.GetBytes()
	return appendu64(appendu64(dst, low), high)
}

func appendMinKeyElement(dst []byte, key string) []byte {
	return appendHeader(dst, TypeMinKey, key)
}

func appendMaxKeyElement(dst []byte, key string) []byte {
	return appendHeader(dst, TypeMaxKey, key)
}

func appendLength(dst []byte, l int32) []byte { return appendi32(dst, l) }

func appendi32(dst []byte, i32 int32) []byte {
	return append(dst, byte(i32), byte(i32>>8), byte(i32>>16), byte(i32>>24))
}

func appendi64(dst []byte, i64 int64) []byte {
	return append(dst,
		byte(i64), byte(i64>>8), byte(i64>>16), byte(i64>>24),
		byte(i64>>32), byte(i64>>40), byte(i64>>48), byte(i64>>56),
	)
}

func appendu32(dst []byte, u32 uint32) []byte {
	return append(dst, byte(u32), byte(u32>>8), byte(u32>>16), byte(u32>>24))
}

func appendu64(dst []byte, u64 uint64) []byte {
	return append(dst,
		byte(u64), byte(u64>>8), byte(u64>>16), byte(u64>>24),
		byte(u64>>32), byte(u64>>40), byte(u64>>48), byte(u64>>56),
	)
}

// appendstring appends the int32-length-prefixed, NUL-terminated form used by
// BSON string, code and symbol values.
func appendstring(dst []byte, s string) []byte {
	l := int32(len(s) + 1)
	dst = appendLength(dst, l)
	dst = append(dst, s...)
	return append(dst, 0x00)
}
