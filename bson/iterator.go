// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

// Iterator facilitates iterating over the elements of a bson.Document in
// encoded order. The Iterator borrows the document's bytes.
type Iterator struct {
	d    Document
	pos  uint32
	end  uint32
	elem *Element
	err  error
}

func newIterator(d Document) (*Iterator, error) {
	if len(d) < 5 {
		return nil, NewErrTooSmall()
	}
	givenLength := readi32(d[0:4])
	if givenLength < 0 || len(d) < int(givenLength) {
		return nil, ErrInvalidLength
	}
	return &Iterator{d: d, pos: 4, end: uint32(givenLength)}, nil
}

// Next fetches the next element of the document, returning whether or not
// the next element was able to be fetched. If true is returned, then call
// Element to get the element. If false is returned, call Err to check if an
// error occurred.
func (itr *Iterator) Next() bool {
	if itr.err != nil {
		return false
	}
	if itr.pos >= itr.end {
		itr.err = ErrInvalidDocument
		return false
	}
	if itr.d[itr.pos] == '\x00' {
		return false
	}

	elemStart := itr.pos
	itr.pos++
	n, err := itr.d.validateKey(itr.pos, itr.end)
	itr.pos += n
	if err != nil {
		itr.err = err
		return false
	}

	elem := newElement(elemStart, itr.pos)
	elem.value.data = itr.d
	n, err = elem.value.validate(true)
	itr.pos += n
	if err != nil {
		itr.err = err
		return false
	}

	itr.elem = elem
	return true
}

// Element returns the current element of the Iterator. The pointer that it
// returns is only valid until the next call of Next.
func (itr *Iterator) Element() *Element {
	return itr.elem
}

// Err returns the error that occurred when iterating, or nil if none occurred.
func (itr *Iterator) Err() error {
	return itr.err
}
