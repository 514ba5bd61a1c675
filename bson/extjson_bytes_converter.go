// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type extJSONWriter struct {
	*bytes.Buffer
	canonical bool
}

// ToExtJSON converts a document into an extended JSON string. If canonical is
// true, it will output canonical extended JSON. Otherwise, it will output
// relaxed extended JSON. Corruption discovered while walking the document
// surfaces as the traversal error.
func ToExtJSON(canonical bool, doc Document) (string, error) {
	w := &extJSONWriter{bytes.NewBuffer([]byte{}), canonical}
	err := w.writeDocument(doc)
	if err != nil {
		return "", err
	}

	return w.String(), nil
}

// toExtJSONArray renders an array document as a JSON array instead of an
// object with "0", "1", ... keys.
func toExtJSONArray(canonical bool, arr Document) (string, error) {
	w := &extJSONWriter{bytes.NewBuffer([]byte{}), canonical}
	err := w.writeArray(arr)
	if err != nil {
		return "", err
	}

	return w.String(), nil
}

func (w *extJSONWriter) writeDocument(d Document) error {
	_, err := w.WriteRune('{')
	if err != nil {
		return err
	}

	first := true
	_, err = d.readElements(func(e *Element) error {
		if !first {
			if _, err := w.WriteRune(','); err != nil {
				return err
			}
		}
		first = false

		if err := w.writeKey(e.Key()); err != nil {
			return err
		}
		return w.writeValue(e.value)
	})
	if err != nil {
		return err
	}

	_, err = w.WriteRune('}')
	return err
}

func (w *extJSONWriter) writeArray(d Document) error {
	_, err := w.WriteRune('[')
	if err != nil {
		return err
	}

	first := true
	_, err = d.readElements(func(e *Element) error {
		if !first {
			if _, err := w.WriteRune(','); err != nil {
				return err
			}
		}
		first = false

		return w.writeValue(e.value)
	})
	if err != nil {
		return err
	}

	_, err = w.WriteRune(']')
	return err
}

func (w *extJSONWriter) writeValue(v *Value) error {
	switch v.Type() {
	case TypeDouble:
		return w.writeFloatValue(v.Double())
	case TypeString:
		return w.writeStringLiteral(v.StringValue())
	case TypeEmbeddedDocument:
		return w.writeDocument(v.Document())
	case TypeArray:
		return w.writeArray(v.Array())
	case TypeBinary:
		subtype, data := v.Binary()
		return w.writeBinaryValue(data, subtype)
	case TypeUndefined:
		return w.writeUndefinedValue()
	case TypeObjectID:
		return w.writeObjectIDValue(v.ObjectID())
	case TypeBoolean:
		return w.writeBoolValue(v.Boolean())
	case TypeDateTime:
		return w.writeDatetimeValue(v.dateTimeMillis())
	case TypeNull:
		return w.writeNullValue()
	case TypeRegex:
		pattern, options := v.Regex()
		return w.writeRegexValue(pattern, options)
	case TypeDBPointer:
		ns, oid := v.DBPointer()
		return w.writeDBPointerValue(ns, oid)
	case TypeJavaScript:
		return w.writeJavaScriptValue(v.JavaScript())
	case TypeSymbol:
		return w.writeSymbolValue(v.Symbol())
	case TypeCodeWithScope:
		c, scope := v.JavaScriptWithScope()
		return w.writeCodeWithScopeValue(c, scope)
	case TypeInt32:
		return w.writeInt32Value(v.Int32())
	case TypeTimestamp:
		t, i := v.Timestamp()
		return w.writeTimestampValue(t, i)
	case TypeInt64:
		return w.writeInt64Value(v.Int64())
	case TypeDecimal128:
		return w.writeDecimalValue(v.Decimal128())
	case TypeMinKey:
		return w.writeMinKeyValue()
	case TypeMaxKey:
		return w.writeMaxKeyValue()
	}

	return errors.New("unknown element type")
}

func (w *extJSONWriter) writeKey(s string) error {
	err := w.writeStringLiteral(s)
	if err != nil {
		return err
	}

	_, err = w.WriteRune(':')
	return err
}

func (w *extJSONWriter) writeStringLiteral(s string) error {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b = append(b, '\\', c)
		case c == '\b':
			b = append(b, '\\', 'b')
		case c == '\f':
			b = append(b, '\\', 'f')
		case c == '\n':
			b = append(b, '\\', 'n')
		case c == '\r':
			b = append(b, '\\', 'r')
		case c == '\t':
			b = append(b, '\\', 't')
		case c < 0x20:
			b = append(b, fmt.Sprintf(`\u%04x`, c)...)
		default:
			b = append(b, c)
		}
	}
	b = append(b, '"')

	_, err := w.Write(b)
	return err
}

func (w *extJSONWriter) writeFloatValue(f float64) error {
	s := formatDouble(f)

	// Plain JSON has no literal for the non-finite values, so those keep the
	// wrapped form in relaxed mode as well.
	if w.canonical || math.IsInf(f, 0) || math.IsNaN(f) {
		return w.writeWrapped("$numberDouble", s)
	}

	_, err := w.WriteString(s)
	return err
}

func formatDouble(f float64) string {
	var s string
	if math.IsInf(f, 1) {
		s = "Infinity"
	} else if math.IsInf(f, -1) {
		s = "-Infinity"
	} else if math.IsNaN(f) {
		s = "NaN"
	} else {
		// Print exactly one decimal place for integers; otherwise, print as
		// many as are necessary to perfectly represent it.
		s = strconv.FormatFloat(f, 'G', -1, 64)
		if !strings.ContainsRune(s, '.') && !strings.ContainsRune(s, 'E') {
			s += ".0"
		}
	}

	return s
}

// writeWrapped emits {"<wrapper>":"<s>"} with s escaped.
func (w *extJSONWriter) writeWrapped(wrapper, s string) error {
	if _, err := w.WriteString(`{"` + wrapper + `":`); err != nil {
		return err
	}
	if err := w.writeStringLiteral(s); err != nil {
		return err
	}
	_, err := w.WriteRune('}')
	return err
}

func (w *extJSONWriter) writeBinaryValue(b []byte, subtype byte) error {
	b64 := base64.StdEncoding.EncodeToString(b)

	_, err := fmt.Fprintf(w.Buffer, `{"$binary":{"base64":"%s","subType":"%02x"}}`, b64, subtype)
	return err
}

func (w *extJSONWriter) writeUndefinedValue() error {
	_, err := w.WriteString(`{"$undefined":true}`)
	return err
}

func (w *extJSONWriter) writeObjectIDValue(oid ObjectID) error {
	_, err := w.WriteString(`{"$oid":"` + oid.Hex() + `"}`)
	return err
}

func (w *extJSONWriter) writeBoolValue(b bool) error {
	_, err := w.WriteString(fmt.Sprintf("%v", b))
	return err
}

func (w *extJSONWriter) writeDatetimeValue(d int64) error {
	if w.canonical {
		return w.writeDateDoc(d)
	}

	t := time.Unix(d/1e3, d%1e3*1e6).UTC()

	if t.Year() < 1970 || t.Year() > 9999 {
		return w.writeDateDoc(d)
	}

	return w.writeWrapped("$date", t.Format(rfc3339Milli))
}

func (w *extJSONWriter) writeDateDoc(d int64) error {
	_, err := fmt.Fprintf(w.Buffer, `{"$date":{"$numberLong":"%d"}}`, d)
	return err
}

func (w *extJSONWriter) writeNullValue() error {
	_, err := w.WriteString("null")
	return err
}

func (w *extJSONWriter) writeRegexValue(pattern string, options string) error {
	if _, err := w.WriteString(`{"$regularExpression":{"pattern":`); err != nil {
		return err
	}
	if err := w.writeStringLiteral(pattern); err != nil {
		return err
	}
	if _, err := w.WriteString(`,"options":`); err != nil {
		return err
	}
	if err := w.writeStringLiteral(options); err != nil {
		return err
	}
	_, err := w.WriteString(`}}`)
	return err
}

func (w *extJSONWriter) writeDBPointerValue(ns string, oid ObjectID) error {
	if _, err := w.WriteString(`{"$dbPointer":{"$ref":`); err != nil {
		return err
	}
	if err := w.writeStringLiteral(ns); err != nil {
		return err
	}
	_, err := w.WriteString(`,"$id":{"$oid":"` + oid.Hex() + `"}}}`)
	return err
}

func (w *extJSONWriter) writeJavaScriptValue(code string) error {
	return w.writeWrapped("$code", code)
}

func (w *extJSONWriter) writeSymbolValue(symbol string) error {
	return w.writeWrapped("$symbol", symbol)
}

func (w *extJSONWriter) writeCodeWithScopeValue(code string, scope Document) error {
	if _, err := w.WriteString(`{"$code":`); err != nil {
		return err
	}
	if err := w.writeStringLiteral(code); err != nil {
		return err
	}
	if _, err := w.WriteString(`,"$scope":`); err != nil {
		return err
	}
	if err := w.writeDocument(scope); err != nil {
		return err
	}
	_, err := w.WriteRune('}')
	return err
}

func (w *extJSONWriter) writeInt32Value(i int32) error {
	var err error
	numberString := strconv.FormatInt(int64(i), 10)

	if w.canonical {
		err = w.writeWrapped("$numberInt", numberString)
	} else {
		_, err = w.WriteString(numberString)
	}

	return err
}

func (w *extJSONWriter) writeTimestampValue(t, i uint32) error {
	// t and i are plain JSON numbers even in canonical mode.
	_, err := fmt.Fprintf(w.Buffer, `{"$timestamp":{"t":%d,"i":%d}}`, t, i)
	return err
}

func (w *extJSONWriter) writeInt64Value(i int64) error {
	var err error
	numberString := strconv.FormatInt(i, 10)

	if w.canonical {
		err = w.writeWrapped("$numberLong", numberString)
	} else {
		_, err = w.WriteString(numberString)
	}

	return err
}

func (w *extJSONWriter) writeMinKeyValue() error {
	_, err := w.WriteString(`{"$minKey":1}`)
	return err
}

func (w *extJSONWriter) writeMaxKeyValue() error {
	_, err := w.WriteString(`{"$maxKey":1}`)
	return err
}

func (w *extJSONWriter) writeDecimalValue(dec Decimal128) error {
	return w.writeWrapped("$numberDecimal", dec.String())
}
