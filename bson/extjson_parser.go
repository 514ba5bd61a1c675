// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
)

// ParseError is returned by ParseExtJSON when the input is not a valid
// extended JSON document. The underlying parser diagnostic is preserved
// verbatim.
type ParseError struct {
	Err error
}

func (pe *ParseError) Error() string {
	return "invalid JSON text: " + pe.Err.Error()
}

func (pe *ParseError) Unwrap() error { return pe.Err }

// ParseExtJSON parses extended JSON text into its binary document encoding.
// Canonical and relaxed type wrappers are both accepted. Plain JSON values
// map onto the closest native types: integral numbers become int32 values
// when they fit and int64 values otherwise, fractional numbers become
// doubles. The top level must be a JSON object.
func ParseExtJSON(text []byte) (Document, error) {
	b, err := parseJSONObject(nil, text)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	doc, err := NewDocument(b)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	if _, err = doc.Validate(); err != nil {
		return nil, &ParseError{Err: err}
	}

	return doc, nil
}

// parseJSONObject appends the encoding of the JSON object in data to dst as a
// complete document and returns the extended buffer.
func parseJSONObject(dst []byte, data []byte) ([]byte, error) {
	index, dst := reserveLength(dst)

	var walkErr error
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		dst, walkErr = appendExtJSONValue(dst, string(key), value, dataType)
		return walkErr
	})
	if err != nil {
		return nil, err
	}

	dst = append(dst, 0x00)
	dst = updateLength(dst, index, int32(len(dst[index:])))
	return dst, nil
}

// parseJSONArray appends the encoding of the JSON array in data to dst as a
// complete array document with "0", "1", ... keys and returns the extended
// buffer.
func parseJSONArray(dst []byte, data []byte) ([]byte, error) {
	index, dst := reserveLength(dst)

	var walkErr error
	i := 0
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if walkErr != nil {
			return
		}
		if err != nil {
			walkErr = err
			return
		}

		dst, walkErr = appendExtJSONValue(dst, strconv.Itoa(i), value, dataType)
		i++
	})
	if err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}

	dst = append(dst, 0x00)
	dst = updateLength(dst, index, int32(len(dst[index:])))
	return dst, nil
}

// appendExtJSONValue appends one element to dst under key, converting the
// JSON value into its BSON form.
func appendExtJSONValue(dst []byte, key string, value []byte, dataType jsonparser.ValueType) ([]byte, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid escaping in string value: %s", string(value))
		}
		return appendStringElement(dst, key, s), nil
	case jsonparser.Number:
		i, err := jsonparser.ParseInt(value)
		if err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return appendInt32Element(dst, key, int32(i)), nil
			}
			return appendInt64Element(dst, key, i), nil
		}

		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON number value: %s", string(value))
		}
		return appendDoubleElement(dst, key, f), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON boolean value: %s", string(value))
		}
		return appendBooleanElement(dst, key, b), nil
	case jsonparser.Null:
		return appendNullElement(dst, key), nil
	case jsonparser.Array:
		arr, err := parseJSONArray(nil, value)
		if err != nil {
			return nil, err
		}
		return appendArrayElement(dst, key, arr), nil
	case jsonparser.Object:
		return appendExtJSONObject(dst, key, value)
	}

	return nil, fmt.Errorf("unknown JSON value type %s for key %s", dataType.String(), key)
}

// jsonObjectField is one key of a JSON object buffered during wrapper
// dispatch. value aliases the input buffer.
type jsonObjectField struct {
	key      string
	value    []byte
	dataType jsonparser.ValueType
}

var errFirstKeyDone = errors.New("first key found")

func firstObjectKey(data []byte) (string, bool, error) {
	var first string
	found := false

	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		first = string(key)
		found = true
		return errFirstKeyDone
	})
	if err != nil && err != errFirstKeyDone {
		return "", false, err
	}

	return first, found, nil
}

func objectFields(data []byte) ([]jsonObjectField, error) {
	fields := make([]jsonObjectField, 0, 2)

	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		fields = append(fields, jsonObjectField{key: string(key), value: value, dataType: dataType})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fields, nil
}

// appendExtJSONObject appends a JSON object value to dst, either as one of
// the extended JSON type wrappers or as a plain embedded document. An object
// is a wrapper when its first key is a wrapper key; everything else,
// including $ref/$id conventions, stays a plain document.
func appendExtJSONObject(dst []byte, key string, data []byte) ([]byte, error) {
	first, found, err := firstObjectKey(data)
	if err != nil {
		return nil, err
	}

	wt := none
	if found {
		wt = wrapperKeyType([]byte(first))
	}

	if wt == none {
		sub, err := parseJSONObject(nil, data)
		if err != nil {
			return nil, err
		}
		return appendDocumentElement(dst, key, sub), nil
	}

	fields, err := objectFields(data)
	if err != nil {
		return nil, err
	}

	if wt == code {
		return appendCodeObject(dst, key, data, fields)
	}

	// The remaining wrappers are all single key objects.
	if len(fields) > 1 {
		return nil, fmt.Errorf("invalid key in %s object: %s", fields[0].key, fields[1].key)
	}
	f := fields[0]

	switch wt {
	case objectID:
		oid, err := parseObjectID(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendObjectIDElement(dst, key, oid), nil
	case symbol:
		s, err := parseSymbol(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendSymbolElement(dst, key, s), nil
	case int32Type:
		i, err := parseInt32(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendInt32Element(dst, key, i), nil
	case int64Type:
		i, err := parseInt64(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendInt64Element(dst, key, i), nil
	case double:
		fl, err := parseDouble(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendDoubleElement(dst, key, fl), nil
	case decimalType:
		d, err := parseDecimal(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendDecimal128Element(dst, key, d), nil
	case binaryData:
		b, subtype, err := parseBinary(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendBinaryElement(dst, key, subtype, b), nil
	case timestamp:
		t, i, err := parseTimestamp(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendTimestampElement(dst, key, t, i), nil
	case regex:
		pattern, options, err := parseRegex(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendRegexElement(dst, key, pattern, options), nil
	case dbPointer:
		ns, oid, err := parseDBPointer(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendDBPointerElement(dst, key, ns, oid), nil
	case dateTime:
		dt, err := parseDatetime(f.value, f.dataType)
		if err != nil {
			return nil, err
		}
		return appendDateTimeElement(dst, key, dt), nil
	case minKey:
		if err := parseMinKey(f.value, f.dataType); err != nil {
			return nil, err
		}
		return appendMinKeyElement(dst, key), nil
	case maxKey:
		if err := parseMaxKey(f.value, f.dataType); err != nil {
			return nil, err
		}
		return appendMaxKeyElement(dst, key), nil
	case undefined:
		if err := parseUndefined(f.value, f.dataType); err != nil {
			return nil, err
		}
		return appendUndefinedElement(dst, key), nil
	}

	return nil, fmt.Errorf("unknown extended JSON wrapper key: %s", first)
}

// appendCodeObject handles $code with an optional $scope, in either order.
func appendCodeObject(dst []byte, key string, data []byte, fields []jsonObjectField) ([]byte, error) {
	var codeStr *string
	var scope Document

	for _, f := range fields {
		switch f.key {
		case "$code":
			if codeStr != nil {
				return nil, fmt.Errorf("duplicate $code key in $code object: %s", string(data))
			}

			c, err := parseCode(f.value, f.dataType)
			if err != nil {
				return nil, err
			}
			codeStr = &c
		case "$scope":
			if scope != nil {
				return nil, fmt.Errorf("duplicate $scope key in $code object: %s", string(data))
			}

			s, err := parseScope(f.value, f.dataType)
			if err != nil {
				return nil, err
			}
			scope = s
		default:
			return nil, fmt.Errorf("invalid key in $code object: %s", f.key)
		}
	}

	if codeStr == nil {
		return nil, fmt.Errorf("missing $code field in $code object: %s", string(data))
	}

	if scope == nil {
		return appendJavaScriptElement(dst, key, *codeStr), nil
	}

	return appendCodeWithScopeElement(dst, key, *codeStr, scope), nil
}
