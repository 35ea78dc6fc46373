package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	v := New(DefaultDropThreshold)

	tests := []struct {
		name     string
		previous int
		new      int
		accepted bool
	}{
		{"no baseline accepts anything", 0, 3, true},
		{"no baseline accepts zero", 0, 0, true},
		{"exactly at threshold accepted", 100, 70, true},
		{"just past threshold rejected", 100, 69, false},
		{"small drop accepted", 100, 95, true},
		{"growth accepted", 100, 250, true},
		{"same count accepted", 50, 50, true},
		{"collapse to zero rejected", 50, 0, false},
		{"collapse to one rejected", 200, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Check(tt.previous, tt.new)
			assert.Equal(t, tt.accepted, res.Accepted)
			assert.Equal(t, tt.previous, res.PreviousCount)
			assert.Equal(t, tt.new, res.NewCount)
			if !tt.accepted {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestCheckCustomThreshold(t *testing.T) {
	strict := New(0.10)

	assert.True(t, strict.Check(100, 90).Accepted)
	assert.False(t, strict.Check(100, 89).Accepted)

	lenient := New(0.50)
	assert.True(t, lenient.Check(100, 50).Accepted)
	assert.False(t, lenient.Check(100, 49).Accepted)
}

func TestNewClampsInvalidThreshold(t *testing.T) {
	for _, bad := range []float64{0, -0.3, 1, 2.5} {
		v := New(bad)
		assert.InDelta(t, DefaultDropThreshold, v.Threshold(), 1e-9)
	}
}

func TestCheckDropRatio(t *testing.T) {
	v := New(DefaultDropThreshold)

	res := v.Check(200, 150)
	assert.InDelta(t, 0.25, res.DropRatio, 1e-9)

	res = v.Check(100, 120)
	assert.InDelta(t, -0.20, res.DropRatio, 1e-9)
}
