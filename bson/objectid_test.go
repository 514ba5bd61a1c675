// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObjectIDFromHex(t *testing.T) {
	t.Run("round-trip", func(t *testing.T) {
		id, err := ObjectIDFromHex(testOid.Hex())
		require.NoError(t, err)
		require.Equal(t, testOid, id)
	})
	t.Run("uppercase", func(t *testing.T) {
		id, err := ObjectIDFromHex("5A15D0A4D5DAA5F10A5E1089")
		require.NoError(t, err)
		require.Equal(t, testOid, id)
	})
	t.Run("wrong-length", func(t *testing.T) {
		_, err := ObjectIDFromHex("5a15d0a4")
		require.Equal(t, ErrInvalidHex, err)
	})
	t.Run("not-hex", func(t *testing.T) {
		_, err := ObjectIDFromHex("zzzzzzzzzzzzzzzzzzzzzzzz")
		require.Error(t, err)
	})
}

func TestNewObjectID(t *testing.T) {
	a := NewObjectID()
	b := NewObjectID()

	require.NotEqual(t, a, b)
	require.Equal(t, a[4:9], b[4:9], "process unique bytes differ between ids")

	seen := make(map[ObjectID]bool)
	for i := 0; i < 10; i++ {
		id := NewObjectID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestObjectIDTimestamp(t *testing.T) {
	ts := time.Unix(1136214245, 0)
	id := NewObjectIDFromTimestamp(ts)
	require.Equal(t, ts.UTC(), id.Timestamp())
}

func TestObjectIDString(t *testing.T) {
	require.Equal(t, "5a15d0a4d5daa5f10a5e1089", testOid.Hex())
	require.Equal(t, `ObjectID("5a15d0a4d5daa5f10a5e1089")`, testOid.String())
}

func TestObjectIDIsZero(t *testing.T) {
	require.True(t, NilObjectID.IsZero())
	require.False(t, testOid.IsZero())
}
