package wlan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go80211/wlanbb/internal/dsp"
)

func TestShortTrainSamples_PeriodicWith16SamplePeriod(t *testing.T) {
	period := ShortTrainSamples()
	assert.Len(t, period, 16)

	full := dsp.IFFT64(S0())
	for rep := 0; rep < 4; rep++ {
		for i := 0; i < 16; i++ {
			idx := rep*16 + i
			assert.InDelta(t, real(period[i]), real(full[idx]), 1e-9)
			assert.InDelta(t, imag(period[i]), imag(full[idx]), 1e-9)
		}
	}
}

func TestSubcarrierPartition_IsExhaustiveAndDisjoint(t *testing.T) {
	seen := make(map[int]string)
	mark := func(bins []int, label string) {
		for _, k := range bins {
			if prev, ok := seen[k]; ok {
				t.Fatalf("bin %d claimed by both %s and %s", k, prev, label)
			}
			seen[k] = label
		}
	}
	mark(NullSubcarriers, "null")
	mark(PilotSubcarriers, "pilot")
	mark(DataSubcarrierOrder, "data")

	assert.Len(t, seen, 64)
	assert.Len(t, NullSubcarriers, 12)
	assert.Len(t, PilotSubcarriers, 4)
	assert.Len(t, DataSubcarrierOrder, 48)
}

func TestShortTrainBins_AreASubsetOfNonNullBins(t *testing.T) {
	assert.Len(t, ShortTrainBins(), 12)
	for _, k := range ShortTrainBins() {
		assert.False(t, isNullBin(k), "bin %d must not be NULL", k)
	}
}

func TestLongTrainBins_Cover52ActiveSubcarriers(t *testing.T) {
	bins := LongTrainBins()
	assert.Len(t, bins, 52)
	for _, k := range bins {
		assert.False(t, isNullBin(k), "bin %d must not be NULL", k)
	}
}
