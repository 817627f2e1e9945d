package services

import (
	"testing"
)

const testGSTBps = 1500 // 15% GST on the platform fee

func TestCalculateEarnings(t *testing.T) {
	tests := []struct {
		name       string
		gross      int64
		chargesGST bool
		feeBps     int64
		wantFee    int64
		wantGST    int64
		wantNet    int64
	}{
		{
			name:       "ten percent fee with GST",
			gross:      10000,
			chargesGST: true,
			feeBps:     1000,
			wantFee:    1000,
			wantGST:    150,
			wantNet:    8850,
		},
		{
			name:       "ten percent fee without GST",
			gross:      10000,
			chargesGST: false,
			feeBps:     1000,
			wantFee:    1000,
			wantGST:    0,
			wantNet:    9000,
		},
		{
			name:       "five percent fee with GST",
			gross:      5000,
			chargesGST: true,
			feeBps:     500,
			wantFee:    250,
			wantGST:    38, // ceil(250 * 0.15)
			wantNet:    4712,
		},
		{
			name:       "fee rounds up",
			gross:      999,
			chargesGST: false,
			feeBps:     1000,
			wantFee:    100, // ceil(99.9)
			wantGST:    0,
			wantNet:    899,
		},
		{
			name:       "one cent booking",
			gross:      1,
			chargesGST: true,
			feeBps:     1000,
			wantFee:    1,
			wantGST:    1,
			wantNet:    -1,
		},
		{
			name:       "zero fee plan",
			gross:      10000,
			chargesGST: true,
			feeBps:     0,
			wantFee:    0,
			wantGST:    0,
			wantNet:    10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateEarnings(tt.gross, tt.chargesGST, tt.feeBps, testGSTBps)

			if got.PlatformFeeAmount != tt.wantFee {
				t.Errorf("fee = %d, want %d", got.PlatformFeeAmount, tt.wantFee)
			}
			if got.GSTAmount != tt.wantGST {
				t.Errorf("gst = %d, want %d", got.GSTAmount, tt.wantGST)
			}
			if got.NetAmount != tt.wantNet {
				t.Errorf("net = %d, want %d", got.NetAmount, tt.wantNet)
			}
			if got.GrossAmount != tt.gross {
				t.Errorf("gross = %d, want %d", got.GrossAmount, tt.gross)
			}
		})
	}
}

func TestCalculateEarnings_ComponentsAlwaysSumToGross(t *testing.T) {
	grosses := []int64{1, 2, 99, 100, 101, 5000, 9999, 10000, 123456789, 1 << 40}
	feeRates := []int64{0, 1, 250, 500, 1000, 2500, 9999, 10000}

	for _, gross := range grosses {
		for _, feeBps := range feeRates {
			for _, gst := range []bool{true, false} {
				got := CalculateEarnings(gross, gst, feeBps, testGSTBps)
				sum := got.PlatformFeeAmount + got.GSTAmount + got.NetAmount
				if sum != gross {
					t.Errorf("CalculateEarnings(%d, %v, %d): fee+gst+net = %d, want %d",
						gross, gst, feeBps, sum, gross)
				}
			}
		}
	}
}
