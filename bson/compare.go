// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"math"
	"math/big"
	"strings"
)

// Compare returns -1, 0, or +1 according to a deterministic total order
// over documents, suitable as a btree-style ordering operator. Documents
// compare element by element in encoded order: canonical type rank first,
// then key, then value, recursing into embedded documents and arrays. The
// numeric types compare to each other by exact numeric value. When one
// document runs out of elements first, it is the lesser.
//
// Compare assumes both documents are structurally valid. If a traversal
// step fails, the documents fall back to comparing as raw bytes, which
// keeps the order total but is otherwise meaningless.
func Compare(a, b Document) int {
	aitr, err := a.Iterator()
	if err != nil {
		return bytes.Compare(a, b)
	}
	bitr, err := b.Iterator()
	if err != nil {
		return bytes.Compare(a, b)
	}

	for {
		aOK := aitr.Next()
		bOK := bitr.Next()
		if aitr.Err() != nil || bitr.Err() != nil {
			return bytes.Compare(a, b)
		}
		switch {
		case !aOK && !bOK:
			return 0
		case !aOK:
			return -1
		case !bOK:
			return 1
		}
		if c := compareElements(aitr.Element(), bitr.Element()); c != 0 {
			return c
		}
	}
}

// Equal reports whether the encoded forms of the two documents are
// byte-for-byte identical. This is stricter than value equality: field
// order is significant even though lookup is keyed.
func Equal(a, b Document) bool {
	return bytes.Equal(a, b)
}

// Hash computes a 32-bit hash over every raw byte of the encoded document,
// header and terminator included. The function is djb2 with seed 5381 and
// multiplier 33, accumulating signed bytes with int32 wraparound, kept
// exactly for compatibility with persisted hash-index data. It is not
// cryptographic and guarantees nothing about collisions beyond basic
// distribution, so hash-based structures must confirm candidates with
// Equal. Equal documents always hash identically since both functions
// consume the same bytes.
func Hash(doc Document) int32 {
	h := int32(5381)
	for _, b := range doc {
		h = (h << 5) + h + int32(int8(b))
	}
	return h
}

// canonicalRank maps a BSON type to its rank in the canonical cross-type
// sort order. Types sharing a rank compare by value.
func canonicalRank(t Type) int {
	switch t {
	case TypeMinKey:
		return 0
	case TypeNull, TypeUndefined:
		return 5
	case TypeDouble, TypeInt32, TypeInt64, TypeDecimal128:
		return 10
	case TypeString, TypeSymbol:
		return 15
	case TypeEmbeddedDocument:
		return 20
	case TypeArray:
		return 25
	case TypeBinary:
		return 30
	case TypeObjectID:
		return 35
	case TypeBoolean:
		return 40
	case TypeDateTime:
		return 45
	case TypeTimestamp:
		return 47
	case TypeRegex:
		return 50
	case TypeDBPointer:
		return 55
	case TypeJavaScript:
		return 60
	case TypeCodeWithScope:
		return 65
	case TypeMaxKey:
		return 127
	default:
		return 127
	}
}

func compareElements(ae, be *Element) int {
	ar, br := canonicalRank(ae.value.Type()), canonicalRank(be.value.Type())
	if ar != br {
		return compareInts(int64(ar), int64(br))
	}
	if c := strings.Compare(ae.Key(), be.Key()); c != 0 {
		return c
	}
	return compareValues(ae.value, be.value)
}

// compareValues compares two values of the same canonical rank.
func compareValues(av, bv *Value) int {
	if av.IsNumber() && bv.IsNumber() {
		return compareNumbers(av, bv)
	}

	switch av.Type() {
	case TypeString, TypeSymbol:
		return strings.Compare(textOf(av), textOf(bv))
	case TypeEmbeddedDocument:
		return Compare(av.Document(), bv.Document())
	case TypeArray:
		return Compare(av.Array(), bv.Array())
	case TypeBinary:
		asub, adata := av.Binary()
		bsub, bdata := bv.Binary()
		if c := compareInts(int64(len(adata)), int64(len(bdata))); c != 0 {
			return c
		}
		if c := compareInts(int64(asub), int64(bsub)); c != 0 {
			return c
		}
		return bytes.Compare(adata, bdata)
	case TypeObjectID:
		aid, bid := av.ObjectID(), bv.ObjectID()
		return bytes.Compare(aid[:], bid[:])
	case TypeBoolean:
		ab, bb := av.Boolean(), bv.Boolean()
		switch {
		case ab == bb:
			return 0
		case bb:
			return -1
		default:
			return 1
		}
	case TypeDateTime:
		return compareInts(av.dateTimeMillis(), bv.dateTimeMillis())
	case TypeTimestamp:
		at, ai := av.Timestamp()
		bt, bi := bv.Timestamp()
		if c := compareInts(int64(at), int64(bt)); c != 0 {
			return c
		}
		return compareInts(int64(ai), int64(bi))
	case TypeRegex:
		ap, ao := av.Regex()
		bp, bo := bv.Regex()
		if c := strings.Compare(ap, bp); c != 0 {
			return c
		}
		return strings.Compare(ao, bo)
	case TypeDBPointer:
		ans, aid := av.DBPointer()
		bns, bid := bv.DBPointer()
		if c := strings.Compare(ans, bns); c != 0 {
			return c
		}
		return bytes.Compare(aid[:], bid[:])
	case TypeJavaScript:
		return strings.Compare(av.JavaScript(), bv.JavaScript())
	case TypeCodeWithScope:
		acode, ascope := av.JavaScriptWithScope()
		bcode, bscope := bv.JavaScriptWithScope()
		if c := strings.Compare(acode, bcode); c != 0 {
			return c
		}
		return Compare(ascope, bscope)
	default:
		// MinKey, MaxKey, Null, and Undefined carry no value.
		return 0
	}
}

func textOf(v *Value) string {
	if v.Type() == TypeSymbol {
		return v.Symbol()
	}
	return v.StringValue()
}

// compareNumbers compares two numeric values of any of the four numeric
// types by exact numeric value. NaN sorts below every number and equal to
// itself; the infinities sort outside all finite values.
func compareNumbers(av, bv *Value) int {
	arat, ainf, anan := numericValue(av)
	brat, binf, bnan := numericValue(bv)

	switch {
	case anan && bnan:
		return 0
	case anan:
		return -1
	case bnan:
		return 1
	}

	if ainf != 0 || binf != 0 {
		return compareInts(int64(ainf), int64(binf))
	}

	return arat.Cmp(brat)
}

// numericValue decomposes a numeric value into an exact rational, or flags
// it as an infinity (inf is -1 or +1) or NaN. Finite values always return a
// non-nil rational: integers and doubles convert exactly, decimals through
// their significand and exponent.
func numericValue(v *Value) (rat *big.Rat, inf int, nan bool) {
	switch v.Type() {
	case TypeInt32:
		return new(big.Rat).SetInt64(int64(v.Int32())), 0, false
	case TypeInt64:
		return new(big.Rat).SetInt64(v.Int64()), 0, false
	case TypeDouble:
		f := v.Double()
		switch {
		case math.IsNaN(f):
			return nil, 0, true
		case math.IsInf(f, 1):
			return nil, 1, false
		case math.IsInf(f, -1):
			return nil, -1, false
		}
		return new(big.Rat).SetFloat64(f), 0, false
	case TypeDecimal128:
		d := v.Decimal128()
		if d.IsNaN() {
			return nil, 0, true
		}
		if i := d.IsInf(); i != 0 {
			return nil, i, false
		}
		bi, exp, err := d.BigInt()
		if err != nil {
			return nil, 0, true
		}
		rat = new(big.Rat).SetInt(bi)
		switch {
		case exp > 0:
			scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
			rat.Mul(rat, new(big.Rat).SetInt(scale))
		case exp < 0:
			scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-exp)), nil)
			rat.Quo(rat, new(big.Rat).SetInt(scale))
		}
		return rat, 0, false
	default:
		return nil, 0, true
	}
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
