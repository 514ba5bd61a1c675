// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/binary"
	"math"
	"time"
)

// Value represents a BSON value. It is obtained as part of a bson.Element
// and indexes into the bytes of the Document the element was read from.
type Value struct {
	// start is the offset into the data slice of bytes where this element
	// begins.
	start uint32
	// offset is the offset into the data slice of bytes where this element's
	// value begins.
	offset uint32
	// data is a potentially shared slice of bytes that contains the actual
	// element. Most of the methods of this type directly index into this
	// slice of bytes.
	data []byte
}

// Offset returns the offset to the beginning of the value in the underlying
// data. It can be used to find the value manually within the Document's
// bytes.
func (v *Value) Offset() uint32 {
	return v.offset
}

// Type returns the identifying element byte for this value.
// It panics if v is uninitialized.
func (v *Value) Type() Type {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	return Type(v.data[v.start])
}

// IsNumber returns true if the type of v is a numeric BSON type.
func (v *Value) IsNumber() bool {
	switch v.Type() {
	case TypeDouble, TypeInt32, TypeInt64, TypeDecimal128:
		return true
	default:
		return false
	}
}

// validate checks the value against the length of the underlying bytes and
// returns the number of bytes the value occupies. When sizeOnly is false,
// interior invariants are checked as well: string terminators, boolean
// bytes, binary subtypes, and embedded documents and arrays recursively.
func (v *Value) validate(sizeOnly bool) (uint32, error) {
	if v.data == nil {
		return 0, ErrUninitializedElement
	}

	var total uint32

	switch v.data[v.start] {
	case '\x06', '\x0A', '\xFF', '\x7F':
	case '\x01', '\x09', '\x11', '\x12':
		if int(v.offset+8) > len(v.data) {
			return total, NewErrTooSmall()
		}
		total += 8
	case '\x02', '\x0D', '\x0E':
		if int(v.offset+4) > len(v.data) {
			return total, NewErrTooSmall()
		}
		l := readi32(v.data[v.offset : v.offset+4])
		total += 4
		if l < 1 || int32(v.offset)+4+l > int32(len(v.data)) {
			return total, NewErrTooSmall()
		}
		// The declared length counts the trailing null terminator, so the
		// last byte of the string region must be 0x00.
		if !sizeOnly && v.data[v.offset+4+uint32(l)-1] != 0x00 {
			return total, ErrInvalidString
		}
		total += uint32(l)
	case '\x03', '\x04':
		if int(v.offset+4) > len(v.data) {
			return total, NewErrTooSmall()
		}
		l := readi32(v.data[v.offset : v.offset+4])
		total += 4
		if l < 5 {
			return total, ErrInvalidDocument
		}
		if int32(v.offset)+l > int32(len(v.data)) {
			return total, NewErrTooSmall()
		}
		if !sizeOnly {
			n, err := Document(v.data[v.offset : v.offset+uint32(l)]).Validate()
			total += n - 4
			if err != nil {
				return total, err
			}
			break
		}
		total += uint32(l) - 4
	case '\x05':
		if int(v.offset+5) > len(v.data) {
			return total, NewErrTooSmall()
		}
		l := readi32(v.data[v.offset : v.offset+4])
		total += 5
		if v.data[v.offset+4] > '\x05' && v.data[v.offset+4] < '\x80' {
			return total, ErrInvalidBinarySubtype
		}
		if l < 0 || int32(v.offset)+5+l > int32(len(v.data)) {
			return total, NewErrTooSmall()
		}
		if v.data[v.offset+4] == 0x02 {
			if l < 4 {
				return total, NewErrTooSmall()
			}
			if readi32(v.data[v.offset+5:v.offset+9]) != l-4 {
				return total, ErrInvalidLength
			}
		}
		total += uint32(l)
	case '\x07':
		if int(v.offset+12) > len(v.data) {
			return total, NewErrTooSmall()
		}
		total += 12
	case '\x08':
		if int(v.offset+1) > len(v.data) {
			return total, NewErrTooSmall()
		}
		total++
		if v.data[v.offset] != '\x00' && v.data[v.offset] != '\x01' {
			return total, ErrInvalidBooleanType
		}
	case '\x0B':
		i := v.offset
		for ; int(i) < len(v.data) && v.data[i] != '\x00'; i++ {
			total++
		}
		if int(i) == len(v.data) || v.data[i] != '\x00' {
			return total, ErrInvalidString
		}
		i++
		total++
		for ; int(i) < len(v.data) && v.data[i] != '\x00'; i++ {
			total++
		}
		if int(i) == len(v.data) || v.data[i] != '\x00' {
			return total, ErrInvalidString
		}
		total++
	case '\x0C':
		if int(v.offset+4) > len(v.data) {
			return total, NewErrTooSmall()
		}
		l := readi32(v.data[v.offset : v.offset+4])
		total += 4
		if l < 1 || int32(v.offset)+4+l+12 > int32(len(v.data)) {
			return total, NewErrTooSmall()
		}
		if !sizeOnly && v.data[v.offset+4+uint32(l)-1] != 0x00 {
			return total, ErrInvalidString
		}
		total += uint32(l) + 12
	case '\x0F':
		if int(v.offset+4) > len(v.data) {
			return total, NewErrTooSmall()
		}
		l := readi32(v.data[v.offset : v.offset+4])
		total += 4
		if l < 14 || int32(v.offset)+l > int32(len(v.data)) {
			return total, NewErrTooSmall()
		}
		if !sizeOnly {
			sLength := readi32(v.data[v.offset+4 : v.offset+8])
			// The code string plus its length prefix and the minimum five
			// byte scope document must fit inside the declared length.
			if sLength < 1 || sLength > l-13 {
				return total, ErrStringLargerThanContainer
			}
			total += 4
			if v.data[v.offset+8+uint32(sLength)-1] != 0x00 {
				return total, ErrInvalidString
			}
			total += uint32(sLength)
			n, err := Document(v.data[v.offset+8+uint32(sLength) : v.offset+uint32(l)]).Validate()
			total += n
			if err != nil {
				return total, err
			}
			break
		}
		total += uint32(l) - 4
	case '\x10':
		if int(v.offset+4) > len(v.data) {
			return total, NewErrTooSmall()
		}
		total += 4
	case '\x13':
		if int(v.offset+16) > len(v.data) {
			return total, NewErrTooSmall()
		}
		total += 16
	default:
		return total, ErrInvalidElement
	}

	return total, nil
}

// valueSize returns the size of the value in bytes.
func (v *Value) valueSize() (uint32, error) {
	return v.validate(true)
}

// Double returns the float64 value for this element.
// It panics if e's BSON type is not double ('\x01') or if e is uninitialized.
func (v *Value) Double() float64 {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x01' {
		panic(ElementTypeError{"bson.Value.Double", Type(v.data[v.start])})
	}
	return math.Float64frombits(v.getUint64())
}

// DoubleOK is the same as Double, but returns a boolean instead of panicking.
func (v *Value) DoubleOK() (float64, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeDouble {
		return 0, false
	}
	return v.Double(), true
}

// StringValue returns the string value for this element.
// It panics if e's BSON type is not string ('\x02') or if e is uninitialized.
//
// NOTE: This method is called StringValue to avoid it implementing the
// fmt.Stringer interface.
func (v *Value) StringValue() string {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x02' {
		panic(ElementTypeError{"bson.Value.StringValue", Type(v.data[v.start])})
	}
	l := readi32(v.data[v.offset : v.offset+4])
	return string(v.data[v.offset+4 : int32(v.offset)+4+l-1])
}

// StringValueOK is the same as StringValue, but returns a boolean instead of
// panicking.
func (v *Value) StringValueOK() (string, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeString {
		return "", false
	}
	return v.StringValue(), true
}

// Document returns the embedded document the Value represents as a
// bson.Document. The returned Document shares the underlying bytes. It
// panics if the value is a BSON type other than embedded document.
func (v *Value) Document() Document {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x03' {
		panic(ElementTypeError{"bson.Value.Document", Type(v.data[v.start])})
	}
	l := readi32(v.data[v.offset : v.offset+4])
	return Document(v.data[v.offset : v.offset+uint32(l)])
}

// DocumentOK is the same as Document, except it returns a boolean instead of
// panicking.
func (v *Value) DocumentOK() (Document, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeEmbeddedDocument {
		return nil, false
	}
	return v.Document(), true
}

// Array returns the array the Value represents as a bson.Document, since
// BSON arrays are documents with positional decimal keys. The returned
// Document shares the underlying bytes. It panics if the value is a BSON
// type other than array.
func (v *Value) Array() Document {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x04' {
		panic(ElementTypeError{"bson.Value.Array", Type(v.data[v.start])})
	}
	l := readi32(v.data[v.offset : v.offset+4])
	return Document(v.data[v.offset : v.offset+uint32(l)])
}

// ArrayOK is the same as Array, except it returns a boolean instead of
// panicking.
func (v *Value) ArrayOK() (Document, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeArray {
		return nil, false
	}
	return v.Array(), true
}

// ContainerOK returns the embedded document or array the Value represents.
// It returns false for every other BSON type.
func (v *Value) ContainerOK() (Document, bool) {
	if v == nil || v.offset == 0 || v.data == nil {
		return nil, false
	}
	switch Type(v.data[v.start]) {
	case TypeEmbeddedDocument:
		return v.Document(), true
	case TypeArray:
		return v.Array(), true
	default:
		return nil, false
	}
}

// Binary returns the subtype and payload of the BSON binary value the Value
// represents. The payload is a copy. It panics if the value is a BSON type
// other than binary.
func (v *Value) Binary() (subtype byte, data []byte) {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x05' {
		panic(ElementTypeError{"bson.Value.Binary", Type(v.data[v.start])})
	}
	l := readi32(v.data[v.offset : v.offset+4])
	st := v.data[v.offset+4]
	b := make([]byte, l)
	copy(b, v.data[v.offset+5:int32(v.offset)+5+l])
	// Subtype 0x02 nests the payload behind a redundant length prefix, which
	// writers add and readers strip.
	if st == 0x02 && l >= 4 {
		b = b[4:]
	}
	return st, b
}

// BinaryOK is the same as Binary, except it returns a boolean instead of
// panicking.
func (v *Value) BinaryOK() (subtype byte, data []byte, ok bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeBinary {
		return 0x00, nil, false
	}
	st, b := v.Binary()
	return st, b, true
}

// ObjectID returns the BSON objectid value the Value represents. It panics
// if the value is a BSON type other than objectid.
func (v *Value) ObjectID() ObjectID {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x07' {
		panic(ElementTypeError{"bson.Value.ObjectID", Type(v.data[v.start])})
	}
	var arr [12]byte
	copy(arr[:], v.data[v.offset:v.offset+12])
	return arr
}

// ObjectIDOK is the same as ObjectID, except it returns a boolean instead of
// panicking.
func (v *Value) ObjectIDOK() (ObjectID, bool) {
	var empty ObjectID
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeObjectID {
		return empty, false
	}
	return v.ObjectID(), true
}

// Boolean returns the boolean value the Value represents. It panics if the
// value is a BSON type other than boolean.
func (v *Value) Boolean() bool {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x08' {
		panic(ElementTypeError{"bson.Value.Boolean", Type(v.data[v.start])})
	}
	return v.data[v.offset] == '\x01'
}

// BooleanOK is the same as Boolean, except it returns a boolean instead of
// panicking.
func (v *Value) BooleanOK() (bool, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeBoolean {
		return false, false
	}
	return v.Boolean(), true
}

// DateTime returns the BSON datetime the Value represents as a time.Time in
// UTC. The encoded value is a signed count of milliseconds since the Unix
// epoch; pre-epoch values decompose exactly, e.g. -500ms is half a second
// before the epoch, not a 1970 artifact. It panics if the value is a BSON
// type other than datetime.
func (v *Value) DateTime() time.Time {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x09' {
		panic(ElementTypeError{"bson.Value.DateTime", Type(v.data[v.start])})
	}
	i := int64(v.getUint64())
	sec := i / 1000
	rem := i % 1000
	if rem < 0 {
		sec--
		rem += 1000
	}
	return time.Unix(sec, rem*1000000).UTC()
}

// DateTimeOK is the same as DateTime, except it returns a boolean instead of
// panicking.
func (v *Value) DateTimeOK() (time.Time, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeDateTime {
		return time.Time{}, false
	}
	return v.DateTime(), true
}

// dateTimeMillis returns the raw millisecond count of a datetime value. The
// caller must have checked the type.
func (v *Value) dateTimeMillis() int64 {
	return int64(v.getUint64())
}

// Regex returns the BSON regex value the Value represents. It panics if the
// value is a BSON type other than regex.
func (v *Value) Regex() (pattern, options string) {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x0B' {
		panic(ElementTypeError{"bson.Value.Regex", Type(v.data[v.start])})
	}
	var pstart, pend, ostart, oend uint32
	i := v.offset
	pstart = i
	for ; v.data[i] != '\x00'; i++ {
	}
	pend = i
	i++
	ostart = i
	for ; v.data[i] != '\x00'; i++ {
	}
	oend = i

	return string(v.data[pstart:pend]), string(v.data[ostart:oend])
}

// RegexOK is the same as Regex, except it returns a boolean instead of
// panicking.
func (v *Value) RegexOK() (pattern, options string, ok bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeRegex {
		return "", "", false
	}
	p, o := v.Regex()
	return p, o, true
}

// DBPointer returns the BSON dbpointer value the Value represents. It panics
// if the value is a BSON type other than dbpointer.
func (v *Value) DBPointer() (string, ObjectID) {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x0C' {
		panic(ElementTypeError{"bson.Value.DBPointer", Type(v.data[v.start])})
	}
	l := readi32(v.data[v.offset : v.offset+4])
	var p [12]byte
	copy(p[:], v.data[v.offset+4+uint32(l):v.offset+4+uint32(l)+12])
	return string(v.data[v.offset+4 : int32(v.offset)+4+l-1]), p
}

// DBPointerOK is the same as DBPointer, except it returns a boolean instead
// of panicking.
func (v *Value) DBPointerOK() (string, ObjectID, bool) {
	var empty ObjectID
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeDBPointer {
		return "", empty, false
	}
	s, o := v.DBPointer()
	return s, o, true
}

// JavaScript returns the BSON JavaScript code value the Value represents. It
// panics if the value is a BSON type other than JavaScript code.
func (v *Value) JavaScript() string {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x0D' {
		panic(ElementTypeError{"bson.Value.JavaScript", Type(v.data[v.start])})
	}
	l := readi32(v.data[v.offset : v.offset+4])
	return string(v.data[v.offset+4 : int32(v.offset)+4+l-1])
}

// JavaScriptOK is the same as JavaScript, except it returns a boolean
// instead of panicking.
func (v *Value) JavaScriptOK() (string, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeJavaScript {
		return "", false
	}
	return v.JavaScript(), true
}

// Symbol returns the BSON symbol value the Value represents. It panics if
// the value is a BSON type other than symbol.
func (v *Value) Symbol() string {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x0E' {
		panic(ElementTypeError{"bson.Value.Symbol", Type(v.data[v.start])})
	}
	l := readi32(v.data[v.offset : v.offset+4])
	return string(v.data[v.offset+4 : int32(v.offset)+4+l-1])
}

// SymbolOK is the same as Symbol, except it returns a boolean instead of
// panicking.
func (v *Value) SymbolOK() (string, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeSymbol {
		return "", false
	}
	return v.Symbol(), true
}

// JavaScriptWithScope returns the BSON JavaScript code with scope the Value
// represents, with the scope as a bson.Document sharing the underlying
// bytes. It panics if the value is a BSON type other than JavaScript code
// with scope.
func (v *Value) JavaScriptWithScope() (string, Document) {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x0F' {
		panic(ElementTypeError{"bson.Value.JavaScriptWithScope", Type(v.data[v.start])})
	}
	l := readi32(v.data[v.offset : v.offset+4])
	sLength := readi32(v.data[v.offset+4 : v.offset+8])
	// The code is sLength bytes long including its null terminator; the
	// scope document occupies the remainder of the container.
	str := string(v.data[v.offset+8 : v.offset+8+uint32(sLength)-1])
	scope := Document(v.data[v.offset+8+uint32(sLength) : v.offset+uint32(l)])
	return str, scope
}

// JavaScriptWithScopeOK is the same as JavaScriptWithScope, except it
// returns a boolean instead of panicking.
func (v *Value) JavaScriptWithScopeOK() (string, Document, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeCodeWithScope {
		return "", nil, false
	}
	s, d := v.JavaScriptWithScope()
	return s, d, true
}

// Int32 returns the int32 the Value represents. It panics if the value is a
// BSON type other than int32.
func (v *Value) Int32() int32 {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x10' {
		panic(ElementTypeError{"bson.Value.Int32", Type(v.data[v.start])})
	}
	return readi32(v.data[v.offset : v.offset+4])
}

// Int32OK is the same as Int32, except it returns a boolean instead of
// panicking.
func (v *Value) Int32OK() (int32, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeInt32 {
		return 0, false
	}
	return v.Int32(), true
}

// Timestamp returns the BSON timestamp value the Value represents. It panics
// if the value is a BSON type other than timestamp.
func (v *Value) Timestamp() (uint32, uint32) {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x11' {
		panic(ElementTypeError{"bson.Value.Timestamp", Type(v.data[v.start])})
	}
	return binary.LittleEndian.Uint32(v.data[v.offset+4 : v.offset+8]), binary.LittleEndian.Uint32(v.data[v.offset : v.offset+4])
}

// TimestampOK is the same as Timestamp, except it returns a boolean instead
// of panicking.
func (v *Value) TimestampOK() (uint32, uint32, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeTimestamp {
		return 0, 0, false
	}
	t, i := v.Timestamp()
	return t, i, true
}

// Int64 returns the int64 the Value represents. It panics if the value is a
// BSON type other than int64.
func (v *Value) Int64() int64 {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x12' {
		panic(ElementTypeError{"bson.Value.Int64", Type(v.data[v.start])})
	}
	return int64(v.getUint64())
}

func (v *Value) getUint64() uint64 {
	return binary.LittleEndian.Uint64(v.data[v.offset : v.offset+8])
}

// Int64OK is the same as Int64, except it returns a boolean instead of
// panicking.
func (v *Value) Int64OK() (int64, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeInt64 {
		return 0, false
	}
	return v.Int64(), true
}

// Decimal128 returns the decimal the Value represents. It panics if the
// value is a BSON type other than decimal.
func (v *Value) Decimal128() Decimal128 {
	if v == nil || v.offset == 0 || v.data == nil {
		panic(ErrUninitializedElement)
	}
	if v.data[v.start] != '\x13' {
		panic(ElementTypeError{"bson.Value.Decimal128", Type(v.data[v.start])})
	}
	l := binary.LittleEndian.Uint64(v.data[v.offset : v.offset+8])
	h := binary.LittleEndian.Uint64(v.data[v.offset+8 : v.offset+16])
	return NewDecimal128(h, l)
}

// Decimal128OK is the same as Decimal128, except it returns a boolean
// instead of panicking.
func (v *Value) Decimal128OK() (Decimal128, bool) {
	if v == nil || v.offset == 0 || v.data == nil || Type(v.data[v.start]) != TypeDecimal128 {
		return Decimal128{}, false
	}
	return v.Decimal128(), true
}

// Interface returns the Go value of this Value as an empty interface.
func (v *Value) Interface() interface{} {
	if v == nil {
		return nil
	}

	switch v.Type() {
	case TypeDouble:
		return v.Double()
	case TypeString:
		return v.StringValue()
	case TypeEmbeddedDocument:
		return v.Document()
	case TypeArray:
		return v.Array()
	case TypeBinary:
		_, data := v.Binary()
		return data
	case TypeUndefined:
		return nil
	case TypeObjectID:
		return v.ObjectID()
	case TypeBoolean:
		return v.Boolean()
	case TypeDateTime:
		return v.DateTime()
	case TypeNull:
		return nil
	case TypeRegex:
		p, o := v.Regex()
		return Regex{Pattern: p, Options: o}
	case TypeDBPointer:
		db, pointer := v.DBPointer()
		return DBPointer{DB: db, Pointer: pointer}
	case TypeJavaScript:
		return v.JavaScript()
	case TypeSymbol:
		return v.Symbol()
	case TypeCodeWithScope:
		code, scope := v.JavaScriptWithScope()
		return CodeWithScope{Code: code, Scope: scope}
	case TypeInt32:
		return v.Int32()
	case TypeTimestamp:
		t, i := v.Timestamp()
		return Timestamp{T: t, I: i}
	case TypeInt64:
		return v.Int64()
	case TypeDecimal128:
		return v.Decimal128()
	case TypeMinKey:
		return nil
	case TypeMaxKey:
		return nil
	default:
		return nil
	}
}
