// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// The *At accessors resolve a dotted path and extract a single strictly typed
// value. They never return an error: an unresolved path, a value of a
// different type, or a structural anomaly discovered mid walk all yield
// ok == false. Callers that need to distinguish absence from corruption
// should validate the document at its trust boundary first.

func (d Document) lookupValue(path string) (*Value, bool) {
	elem, err := d.Lookup(path)
	if err != nil {
		return nil, false
	}
	return elem.value, true
}

// StringAt returns the string value at path.
func (d Document) StringAt(path string) (string, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return "", false
	}
	return v.StringValueOK()
}

// Int32At returns the int32 value at path.
func (d Document) Int32At(path string) (int32, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return 0, false
	}
	return v.Int32OK()
}

// Int64At returns the int64 value at path.
func (d Document) Int64At(path string) (int64, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return 0, false
	}
	return v.Int64OK()
}

// DoubleAt returns the double value at path.
func (d Document) DoubleAt(path string) (float64, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return 0, false
	}
	return v.DoubleOK()
}

// DecimalAt returns the decimal128 value at path. The canonical string form
// is available through Decimal128.String.
func (d Document) DecimalAt(path string) (Decimal128, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return Decimal128{}, false
	}
	return v.Decimal128OK()
}

// TimeAt returns the datetime value at path as a UTC time.Time. The stored
// signed epoch milliseconds are decomposed with floor division, so values
// before the epoch land in the preceding second with a positive remainder.
func (d Document) TimeAt(path string) (time.Time, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return time.Time{}, false
	}
	return v.DateTimeOK()
}

// BinaryAt returns the binary value at path along with its subtype byte. The
// returned slice is a copy of the payload.
func (d Document) BinaryAt(path string) (subtype byte, data []byte, ok bool) {
	v, vok := d.lookupValue(path)
	if !vok {
		return 0, nil, false
	}
	return v.BinaryOK()
}

// UUIDAt returns the uuid value at path. The element must be a binary value
// with subtype 0x04 and a 16 byte payload.
func (d Document) UUIDAt(path string) (uuid.UUID, bool) {
	subtype, data, ok := d.BinaryAt(path)
	if !ok || subtype != SubtypeUUID || len(data) != 16 {
		return uuid.UUID{}, false
	}

	u, err := uuid.FromBytes(data)
	if err != nil {
		return uuid.UUID{}, false
	}
	return u, true
}

// DocumentAt returns the document or array value at path as a sub-view of
// the receiver. The view shares the receiver's bytes.
func (d Document) DocumentAt(path string) (Document, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return nil, false
	}
	return v.ContainerOK()
}

// BooleanAt returns the boolean value at path.
func (d Document) BooleanAt(path string) (bool, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return false, false
	}
	return v.BooleanOK()
}

// textTimeFormat renders datetimes with fixed millisecond precision, always
// in UTC.
const textTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// TextAt renders the value at path as plain text. Strings and symbols are
// returned verbatim, doubles with six fractional digits, int32/int64 in
// decimal, decimal128 in canonical form, datetimes as ISO 8601 UTC with
// millisecond precision, documents and arrays as their relaxed extended JSON
// subtree, binary as \x-prefixed lowercase hex of the payload, booleans as
// true/false and objectids as hex. Unresolved paths and all other types
// yield ok == false.
func (d Document) TextAt(path string) (string, bool) {
	v, ok := d.lookupValue(path)
	if !ok {
		return "", false
	}
	return renderText(v)
}

func renderText(v *Value) (string, bool) {
	switch v.Type() {
	case TypeString:
		return v.StringValue(), true
	case TypeSymbol:
		return v.Symbol(), true
	case TypeDouble:
		return strconv.FormatFloat(v.Double(), 'f', 6, 64), true
	case TypeInt32:
		return strconv.FormatInt(int64(v.Int32()), 10), true
	case TypeInt64:
		return strconv.FormatInt(v.Int64(), 10), true
	case TypeDecimal128:
		return v.Decimal128().String(), true
	case TypeDateTime:
		return v.DateTime().Format(textTimeFormat), true
	case TypeEmbeddedDocument:
		s, err := ToExtJSON(false, v.Document())
		if err != nil {
			return "", false
		}
		return s, true
	case TypeArray:
		s, err := toExtJSONArray(false, v.Array())
		if err != nil {
			return "", false
		}
		return s, true
	case TypeBinary:
		_, data := v.Binary()
		return `\x` + hex.EncodeToString(data), true
	case TypeBoolean:
		if v.Boolean() {
			return "true", true
		}
		return "false", true
	case TypeObjectID:
		oid := v.ObjectID()
		return oid.Hex(), true
	}

	return "", false
}
