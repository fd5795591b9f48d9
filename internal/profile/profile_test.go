package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *Profile {
	return &Profile{
		Mode:               "dev",
		Driver:             "memory",
		PrecomputeInterval: time.Hour,
		Workers:            4,
		LookbackDays:       14,
		HalfLifeDays:       7,
	}
}

func TestValidateDefaultsUnknownMode(t *testing.T) {
	p := testProfile()
	p.Mode = "staging"
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"zero workers", func(p *Profile) { p.Workers = 0 }},
		{"negative interval", func(p *Profile) { p.PrecomputeInterval = -time.Minute }},
		{"zero lookback", func(p *Profile) { p.LookbackDays = 0 }},
		{"negative half-life", func(p *Profile) { p.HalfLifeDays = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile()
			tt.mutate(p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestValidateMemoryDriverNeedsNoDataDir(t *testing.T) {
	p := testProfile()
	p.Data = ""
	assert.NoError(t, p.Validate())
}
