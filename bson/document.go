// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"io"
	"strings"
)

// ErrInvalidDocument indicates that the underlying bytes of a bson.Document are invalid.
var ErrInvalidDocument = errors.New("invalid document")

// ErrInvalidKey indicates that the BSON representation of a key is missing a null terminator.
var ErrInvalidKey = errors.New("invalid document key")

// ErrInvalidLength indicates that a length in a binary representation of a BSON document is invalid.
var ErrInvalidLength = errors.New("document length is invalid")

// ErrEmptyKey indicates that no key was provided to a Lookup method.
var ErrEmptyKey = errors.New("empty key provided")

// ErrNilElement indicates that a nil element was provided when none was expected.
var ErrNilElement = errors.New("element is nil")

// ErrNilDocument indicates that an operation was attempted on a nil bson.Document.
var ErrNilDocument = errors.New("document is nil")

// ErrNilReader indicates that an operation was attempted on a nil io.Reader.
var ErrNilReader = errors.New("nil reader")

// ErrInvalidDepthTraversal indicates that a provided path of keys to a nested
// value in a document continued past a value that is not a document or an
// array. The typed accessors treat it as an absent value, the same as
// ErrElementNotFound.
var ErrInvalidDepthTraversal = errors.New("invalid depth traversal")

// ErrElementNotFound indicates that an Element matching a certain condition does not exist.
var ErrElementNotFound = errors.New("element not found")

// ErrOutOfBounds indicates that an index provided to access something was invalid.
var ErrOutOfBounds = errors.New("out of bounds")

var errValidateDone = errors.New("validation loop complete")

// Document is a wrapper around a byte slice. It interprets the slice as a
// BSON document, the binary wire and storage form: a little-endian int32
// total length, a sequence of type-tagged elements, and a null terminator.
// A Document never owns or copies its bytes and is never mutated. There is
// no metadata stored, so all methods run in O(n) time.
type Document []byte

// NewDocument wraps the given bytes as a Document after checking the frame
// invariants: at least five bytes, the declared length equal to the buffer
// length, and a null terminator in the final byte. Element contents are not
// inspected; that cost is paid lazily during traversal or eagerly via
// Validate. Failures report structural corruption.
func NewDocument(b []byte) (Document, error) {
	if b == nil {
		return nil, ErrNilDocument
	}
	if len(b) < 5 {
		return nil, NewErrTooSmall()
	}
	length := readi32(b[0:4])
	if length < 5 || int(length) != len(b) {
		return nil, ErrInvalidLength
	}
	if b[len(b)-1] != '\x00' {
		return nil, ErrInvalidDocument
	}
	return Document(b), nil
}

// ReadDocument reads one document from the given io.Reader: the four length
// bytes first, then the remainder of the declared length. The frame
// invariants of NewDocument are applied to the result.
func ReadDocument(r io.Reader) (Document, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	var lengthBytes [4]byte

	count, err := io.ReadFull(r, lengthBytes[:])
	if err != nil {
		return nil, err
	}

	if count < 4 {
		return nil, NewErrTooSmall()
	}

	length := readi32(lengthBytes[:])
	if length < 5 {
		return nil, ErrInvalidLength
	}
	buf := make([]byte, length)

	copy(buf, lengthBytes[:])

	count, err = io.ReadFull(r, buf[4:])
	if err != nil {
		return nil, err
	}

	if int32(count) != length-4 {
		return nil, ErrInvalidLength
	}

	return NewDocument(buf)
}

// WriteTo writes the document's bytes to the given io.Writer. It implements
// the io.WriterTo interface. The document's own length prefix is the only
// framing.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d)
	return int64(n), err
}

// Validate validates the document and returns its total size. Every element
// header is checked, every interior length is bounds checked, and embedded
// documents and arrays are validated recursively. This method only validates
// the first document in the slice; to validate other documents, the slice
// must be resliced.
func (d Document) Validate() (size uint32, err error) {
	size, err = d.readElements(func(elem *Element) error {
		var err error
		switch elem.value.Type() {
		case '\x03':
			_, err = elem.value.Document().Validate()
		case '\x04':
			_, err = elem.value.Array().Validate()
		}
		return err
	})
	if err != nil {
		return size, err
	}
	// A terminator before the declared end would leave trailing garbage
	// that traversal can never reach.
	if int(size) != int(readi32(d[0:4])) {
		return size, ErrInvalidDocument
	}
	return size, nil
}

// validateKey ensures the key is valid and returns the length of the key
// including the null terminator.
func (d Document) validateKey(pos, end uint32) (uint32, error) {
	// Read a CString, return the length, including the '\x00'
	var total uint32
	for ; pos < end && d[pos] != '\x00'; pos++ {
		total++
	}
	if pos == end || d[pos] != '\x00' {
		return total, ErrInvalidKey
	}
	total++
	return total, nil
}

// Lookup resolves the given dotted path to an element of this document,
// descending through embedded documents and arrays. Array levels match a
// path segment against the decimal string form of the positional index, so
// a non-numeric or out-of-range segment is simply never found. Continuing a
// path past a value that is not a document or an array returns
// ErrInvalidDepthTraversal; an unmatched segment returns ErrElementNotFound.
// Both mean absence. Errors other than those two report corrupt bytes
// encountered during the walk.
func (d Document) Lookup(path string) (*Element, error) {
	return d.LookupKeys(strings.Split(path, ".")...)
}

// LookupKeys is the same as Lookup with the path already split into
// individual keys.
func (d Document) LookupKeys(keys ...string) (*Element, error) {
	if len(keys) < 1 {
		return nil, ErrEmptyKey
	}

	var elem *Element
	_, err := d.readElements(func(e *Element) error {
		if keys[0] == e.Key() {
			if len(keys) > 1 {
				switch e.value.Type() {
				case '\x03':
					e, err := e.value.Document().LookupKeys(keys[1:]...)
					if err != nil {
						return err
					}
					elem = e
					return errValidateDone
				case '\x04':
					e, err := e.value.Array().LookupKeys(keys[1:]...)
					if err != nil {
						return err
					}
					elem = e
					return errValidateDone
				default:
					return ErrInvalidDepthTraversal
				}
			}
			elem = e
			return errValidateDone
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if elem == nil {
		return nil, ErrElementNotFound
	}

	return elem, nil
}

// ElementAt searches for and retrieves the element at the given index. This
// method will validate all the elements up to and including the element at
// the given index.
func (d Document) ElementAt(index uint) (*Element, error) {
	var current uint
	var elem *Element
	_, err := d.readElements(func(e *Element) error {
		if current != index {
			current++
			return nil
		}
		elem = e
		return errValidateDone
	})
	if err != nil {
		return nil, err
	}
	if elem == nil {
		return nil, ErrOutOfBounds
	}
	return elem, nil
}

// Iterator returns an Iterator over the elements of this document.
func (d Document) Iterator() (*Iterator, error) {
	return newIterator(d)
}

// Keys returns the keys for this document. If recursive is true then this
// method will also return the keys for subdocuments and arrays.
//
// The keys are returned in encoded order.
func (d Document) Keys(recursive bool) (Keys, error) {
	return d.recursiveKeys(recursive)
}

// String implements the fmt.Stringer interface. The document renders as
// relaxed extended JSON. A structurally invalid document renders as an
// empty string.
func (d Document) String() string {
	s, err := ToExtJSON(false, d)
	if err != nil {
		return ""
	}
	return s
}

// recursiveKeys implements the logic for the Keys method. This is a separate
// function to facilitate recursive calls.
func (d Document) recursiveKeys(recursive bool, prefix ...string) (Keys, error) {
	ks := make(Keys, 0)
	_, err := d.readElements(func(elem *Element) error {
		key := elem.Key()
		ks = append(ks, Key{Prefix: prefix, Name: key})
		if recursive {
			switch elem.value.Type() {
			case '\x03':
				recursivePrefix := append(prefix, key)
				recurKeys, err := elem.value.Document().recursiveKeys(recursive, recursivePrefix...)
				if err != nil {
					return err
				}
				ks = append(ks, recurKeys...)
			case '\x04':
				recursivePrefix := append(prefix, key)
				recurKeys, err := elem.value.Array().recursiveKeys(recursive, recursivePrefix...)
				if err != nil {
					return err
				}
				ks = append(ks, recurKeys...)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ks, nil
}

// readElements is an internal method used to traverse the document. It will
// validate the document frame and the headers and sizes of the underlying
// elements. If the provided function is non-nil it will be called for each
// element. If errValidateDone is returned from the function, this method
// will stop and return successfully.
func (d Document) readElements(f func(e *Element) error) (uint32, error) {
	if len(d) < 5 {
		return 0, NewErrTooSmall()
	}
	givenLength := readi32(d[0:4])
	if givenLength < 0 || len(d) < int(givenLength) {
		return 0, ErrInvalidLength
	}
	var pos uint32 = 4
	var elemStart, elemValStart uint32
	var elem *Element
	end := uint32(givenLength)
	for {
		if pos >= end {
			// We've gone past the end of the declared length without
			// finding the null terminator.
			return pos, ErrInvalidDocument
		}
		if d[pos] == '\x00' {
			break
		}
		elemStart = pos
		pos++
		n, err := d.validateKey(pos, end)
		pos += n
		if err != nil {
			return pos, err
		}
		elemValStart = pos
		elem = newElement(elemStart, elemValStart)
		elem.value.data = d
		n, err = elem.value.validate(true)
		pos += n
		if err != nil {
			return pos, err
		}
		if f != nil {
			err = f(elem)
			if err != nil {
				if err == errValidateDone {
					break
				}
				return pos, err
			}
		}
	}

	// The size is always 1 larger than the position, since position is 0
	// indexed.
	return pos + 1, nil
}

// Keys represents the keys of a BSON document.
type Keys []Key

// Key represents an individual key of a BSON document. The Prefix property
// is used to represent the depth of this key.
type Key struct {
	Prefix []string
	Name   string
}

// String implements the fmt.Stringer interface.
func (k Key) String() string {
	str := strings.Join(k.Prefix, ".")
	if str != "" {
		return str + "." + k.Name
	}
	return k.Name
}

// readi32 is a helper function for reading an int32 from a slice of bytes.
func readi32(b []byte) int32 {
	_ = b[3] // bounds check hint to compiler; see golang.org/issue/14808
	return int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16 | int32(b[3])<<24
}
