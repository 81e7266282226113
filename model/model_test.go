package model

import (
	"bytes"
	"math/big"
	"testing"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int32
		want     *big.Int
		wantErr  bool
	}{
		{
			name:     "whole amount",
			amount:   "1500",
			decimals: 6,
			want:     big.NewInt(1500000000),
		},
		{
			name:     "fractional amount",
			amount:   "0.5",
			decimals: 6,
			want:     big.NewInt(500000),
		},
		{
			name:     "full precision",
			amount:   "1.234567",
			decimals: 6,
			want:     big.NewInt(1234567),
		},
		{
			name:     "eighteen decimals",
			amount:   "2",
			decimals: 18,
			want:     new(big.Int).Mul(big.NewInt(2), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)),
		},
		{
			name:     "too many decimal places",
			amount:   "1.2345678",
			decimals: 6,
			wantErr:  true,
		},
		{
			name:     "not a number",
			amount:   "abc",
			decimals: 6,
			wantErr:  true,
		},
		{
			name:     "zero",
			amount:   "0",
			decimals: 6,
			wantErr:  true,
		},
		{
			name:     "negative",
			amount:   "-4.20",
			decimals: 6,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinorUnits(tt.amount, tt.decimals)
			if (err != nil) != tt.wantErr {
				t.Errorf("ToMinorUnits() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got.Cmp(tt.want) != 0 {
				t.Errorf("ToMinorUnits() got = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEncodeMemo(t *testing.T) {
	memo, err := EncodeMemo("October salary")
	if err != nil {
		t.Fatalf("EncodeMemo() unexpected error: %v", err)
	}
	if len(memo) != MemoSize {
		t.Errorf("EncodeMemo() length = %d, want %d", len(memo), MemoSize)
	}
	if !bytes.HasPrefix(memo, []byte("October salary")) {
		t.Errorf("EncodeMemo() should start with the memo text, got %v", memo)
	}
	for _, b := range memo[len("October salary"):] {
		if b != 0 {
			t.Errorf("EncodeMemo() padding must be zero bytes, got %v", memo)
			break
		}
	}
}

func TestEncodeMemoEmpty(t *testing.T) {
	memo, err := EncodeMemo("")
	if err != nil {
		t.Fatalf("EncodeMemo() unexpected error: %v", err)
	}
	if memo != nil {
		t.Errorf("EncodeMemo(\"\") should encode to nil, got %v", memo)
	}
}

func TestEncodeMemoTooLong(t *testing.T) {
	long := make([]byte, MemoSize+1)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := EncodeMemo(string(long)); err == nil {
		t.Error("EncodeMemo() should fail for memos longer than 32 bytes")
	}
}
