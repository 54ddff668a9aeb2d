package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		want    string
		wantErr bool
	}{
		{name: "whole number", amount: "1", want: "1000000000000000000"},
		{name: "zero", amount: "0", want: "0"},
		{name: "simple fraction", amount: "1.5", want: "1500000000000000000"},
		{name: "bare fraction", amount: ".5", want: "500000000000000000"},
		{name: "trailing dot", amount: "2.", want: "2000000000000000000"},
		{name: "full precision", amount: "0.000000000000000001", want: "1"},
		{name: "negative", amount: "-0.5", want: "-500000000000000000"},
		{name: "whitespace trimmed", amount: " 3.25 ", want: "3250000000000000000"},
		{name: "too many decimals", amount: "0.0000000000000000001", wantErr: true},
		{name: "empty", amount: "", wantErr: true},
		{name: "lone dot", amount: ".", wantErr: true},
		{name: "not a number", amount: "abc", wantErr: true},
		{name: "garbage fraction", amount: "1.x5", wantErr: true},
		{name: "signed fraction", amount: "1.-5", wantErr: true},
		{name: "plus in fraction", amount: "1.+5", wantErr: true},
		{name: "doubled sign", amount: "--1", wantErr: true},
		{name: "plus after minus", amount: "-+1", wantErr: true},
		{name: "sign mid number", amount: "1-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.amount)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFromBaseUnits(t *testing.T) {
	tests := []struct {
		name string
		v    *big.Int
		want string
	}{
		{name: "nil", v: nil, want: "0.0"},
		{name: "zero", v: big.NewInt(0), want: "0.0"},
		{name: "one token", v: mustBase(t, "1"), want: "1.0"},
		{name: "half token", v: mustBase(t, "0.5"), want: "0.5"},
		{name: "smallest unit", v: big.NewInt(1), want: "0.000000000000000001"},
		{name: "trailing zeros trimmed", v: mustBase(t, "12.500"), want: "12.5"},
		{name: "negative", v: mustBase(t, "-2.25"), want: "-2.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromBaseUnits(tt.v))
		})
	}
}

func TestUnitsRoundTrip(t *testing.T) {
	for _, amount := range []string{"0", "1", "0.5", "1234.000000000000000001", "-7.125"} {
		v, err := ToBaseUnits(amount)
		require.NoError(t, err)

		back, err := ToBaseUnits(FromBaseUnits(v))
		require.NoError(t, err)
		assert.Zero(t, v.Cmp(back), "round trip changed value for %q", amount)
	}
}

func mustBase(t *testing.T, amount string) *big.Int {
	t.Helper()
	v, err := ToBaseUnits(amount)
	require.NoError(t, err)
	return v
}
