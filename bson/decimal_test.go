// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecimal128String(t *testing.T) {
	testCases := []struct {
		name string
		h    uint64
		l    uint64
		want string
	}{
		{"zero", 0x3040000000000000, 0, "0"},
		{"negative-zero", 0xb040000000000000, 0, "-0"},
		{"negative-zero-fraction", 0xb03e000000000000, 0, "-0.0"},
		{"integer", 0x3040000000000000, 12345, "12345"},
		{"negative-integer", 0xb040000000000000, 12345, "-12345"},
		{"positive-exponent", 0x3046000000000000, 1, "1E+3"},
		{"trailing-zeros-keep-precision", 0x3042000000000000, 100, "1.00E+3"},
		{"fraction", 0x3034000000000000, 1234, "0.001234"},
		{"small-exponent-scientific", 0x3030000000000000, 15, "1.5E-7"},
		{"nan", 0x7c00000000000000, 0, "NaN"},
		{"infinity", 0x7800000000000000, 0, "Infinity"},
		{"negative-infinity", 0xf800000000000000, 0, "-Infinity"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewDecimal128(tc.h, tc.l).String()
			if got != tc.want {
				t.Errorf("String returned %q; want %q", got, tc.want)
			}
		})
	}
}

func TestParseDecimal128(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		testCases := []struct {
			name string
			s    string
			want Decimal128
		}{
			{"zero", "0", NewDecimal128(0x3040000000000000, 0)},
			{"negative-zero", "-0", NewDecimal128(0xb040000000000000, 0)},
			{"integer", "12345", NewDecimal128(0x3040000000000000, 12345)},
			{"exponent", "1E+3", NewDecimal128(0x3046000000000000, 1)},
			{"fraction", "0.001234", NewDecimal128(0x3034000000000000, 1234)},
			{"fraction-with-exponent", "1.5e-7", NewDecimal128(0x3030000000000000, 15)},
			{"fraction-keeps-trailing-zeros", "1.00E+3", NewDecimal128(0x3042000000000000, 100)},
			{"nan", "NaN", dNaN},
			{"nan-lowercase", "nan", dNaN},
			{"infinity", "Infinity", dPosInf},
			{"inf-short", "inf", dPosInf},
			{"negative-infinity", "-inf", dNegInf},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				got, err := ParseDecimal128(tc.s)
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
			})
		}
	})
	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "abc", "1.2.3", "--1", "1e", "0x12"} {
			t.Run(s, func(t *testing.T) {
				_, err := ParseDecimal128(s)
				require.EqualError(t, err, `cannot parse "`+s+`" as a decimal128`)
			})
		}
	})
	t.Run("too-many-digits", func(t *testing.T) {
		// 36 significant digits cannot be represented.
		_, err := ParseDecimal128("111111111111111111111111111111111111")
		require.Error(t, err)
	})
	t.Run("round-trip", func(t *testing.T) {
		for _, s := range []string{
			"0", "-0", "12345", "-12345", "1E+3", "1.00E+3", "0.001234",
			"1.5E-7", "NaN", "Infinity", "-Infinity",
			"9.999999999999999999999999999999999E+6144",
		} {
			t.Run(s, func(t *testing.T) {
				d, err := ParseDecimal128(s)
				require.NoError(t, err)
				require.Equal(t, s, d.String())
			})
		}
	})
}

func TestDecimal128BigInt(t *testing.T) {
	t.Run("integer", func(t *testing.T) {
		bi, exp, err := NewDecimal128(0x3040000000000000, 12345).BigInt()
		require.NoError(t, err)
		require.Equal(t, 0, exp)
		require.Equal(t, 0, bi.Cmp(big.NewInt(12345)))
	})
	t.Run("fraction", func(t *testing.T) {
		bi, exp, err := NewDecimal128(0x3034000000000000, 1234).BigInt()
		require.NoError(t, err)
		require.Equal(t, -6, exp)
		require.Equal(t, 0, bi.Cmp(big.NewInt(1234)))
	})
	t.Run("negative", func(t *testing.T) {
		d, err := ParseDecimal128("-5")
		require.NoError(t, err)
		bi, exp, err := d.BigInt()
		require.NoError(t, err)
		require.Equal(t, 0, exp)
		require.Equal(t, 0, bi.Cmp(big.NewInt(-5)))
	})
	t.Run("non-finite", func(t *testing.T) {
		_, _, err := dNaN.BigInt()
		require.Error(t, err)
		_, _, err = dNegInf.BigInt()
		require.Error(t, err)
	})
}

func TestParseDecimal128FromBigInt(t *testing.T) {
	t.Run("rescales-trailing-zeros", func(t *testing.T) {
		big40 := new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil)
		d, ok := ParseDecimal128FromBigInt(big40, 0)
		require.True(t, ok)

		bi, exp, err := d.BigInt()
		require.NoError(t, err)
		require.Equal(t, 7, exp)
		want := new(big.Int).Exp(big.NewInt(10), big.NewInt(33), nil)
		require.Equal(t, 0, bi.Cmp(want))
	})
	t.Run("inexact-overflow", func(t *testing.T) {
		big34 := new(big.Int).Exp(big.NewInt(10), big.NewInt(34), nil)
		big34.Add(big34, big.NewInt(1))
		_, ok := ParseDecimal128FromBigInt(big34, 0)
		require.False(t, ok)
	})
	t.Run("exponent-out-of-range", func(t *testing.T) {
		_, ok := ParseDecimal128FromBigInt(big.NewInt(1), -6200)
		require.False(t, ok)

		_, ok = ParseDecimal128FromBigInt(big.NewInt(1), 6112)
		require.True(t, ok, "clamping absorbs a small positive excess")

		_, ok = ParseDecimal128FromBigInt(maxS, 6112)
		require.False(t, ok)
	})
}

func TestDecimal128IsNaNIsInf(t *testing.T) {
	require.True(t, dNaN.IsNaN())
	require.False(t, dPosInf.IsNaN())
	require.Equal(t, 1, dPosInf.IsInf())
	require.Equal(t, -1, dNegInf.IsInf())
	require.Equal(t, 0, NewDecimal128(0x3040000000000000, 5).IsInf())
}
