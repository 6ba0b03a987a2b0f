package clipper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{SampleRate: 48000, MaxBlockSize: 256, Channels: 2}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid stereo", func(c *Config) {}, false},
		{"Valid mono", func(c *Config) { c.Channels = 1 }, false},
		{"Zero rate", func(c *Config) { c.SampleRate = 0 }, true},
		{"Negative rate", func(c *Config) { c.SampleRate = -1 }, true},
		{"Zero block", func(c *Config) { c.MaxBlockSize = 0 }, true},
		{"Zero channels", func(c *Config) { c.Channels = 0 }, true},
		{"Too many channels", func(c *Config) { c.Channels = 3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestNew tests construction and the prepare phase.
func TestNew(t *testing.T) {
	t.Run("Valid config", func(t *testing.T) {
		c, err := New(testConfig())
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("Nil config", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.SampleRate = 1000 // below the supported window
		_, err := New(cfg)
		assert.Error(t, err)
	})
}

// TestClipper_ProcessBlock tests the facade against the default chain.
func TestClipper_ProcessBlock(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	p := DefaultParams()
	p.Factor = 1
	p.StereoLink = 0
	require.NoError(t, c.SetParams(p))

	left := []float64{0.5, 2.0}
	right := []float64{-1.5, 0.25}
	require.NoError(t, c.ProcessBlock([][]float64{left, right}))

	assert.InDelta(t, 0.5, left[0], 1e-12)
	assert.InDelta(t, 1.0, left[1], 1e-12)
	assert.InDelta(t, -1.0, right[0], 1e-12)
	assert.InDelta(t, 0.25, right[1], 1e-12)
}

// TestClipper_DefaultLatency tests that the default configuration reports the
// minimum-phase group delay instead of zero.
func TestClipper_DefaultLatency(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	lat := c.Latency()
	assert.GreaterOrEqual(t, lat, 2)
	assert.LessOrEqual(t, lat, 5)
}

// TestClipper_ParamsRoundTrip tests SetParams/Params consistency.
func TestClipper_ParamsRoundTrip(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	p := DefaultParams()
	p.Curve = CurveKnee
	p.Exponent = 3.5
	p.Ceiling = 0.5
	p.Factor = 8
	p.Filter = FilterLinearPhase
	p.ChannelMode = ModeMidSide
	p.StereoLink = 0.25
	require.NoError(t, c.SetParams(p))

	assert.Equal(t, p, c.Params())
	assert.Equal(t, 82, c.Latency())
}

// TestClipper_SetParamsError tests rejection and retention.
func TestClipper_SetParamsError(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	before := c.Params()

	p := before
	p.Factor = 5
	assert.ErrorIs(t, c.SetParams(p), ErrInvalidConfig)
	assert.Equal(t, before, c.Params())
}

// TestClipper_PrepareNotifications tests the sample-rate and block-size
// change paths, including rejection with retention.
func TestClipper_PrepareNotifications(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	require.NoError(t, c.SampleRateChanged(96000))
	require.NoError(t, c.BlockSizeChanged(1024))

	buf := [][]float64{make([]float64, 1024), make([]float64, 1024)}
	assert.NoError(t, c.ProcessBlock(buf))

	assert.ErrorIs(t, c.SampleRateChanged(500), ErrUnsupportedRate)
	assert.Error(t, c.BlockSizeChanged(0))

	// The previous streaming configuration still works.
	assert.NoError(t, c.ProcessBlock(buf))
}

// TestClipper_Meters tests that metering flows through the facade.
func TestClipper_Meters(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	p := DefaultParams()
	p.Factor = 1
	require.NoError(t, c.SetParams(p))

	left := []float64{0.5, -0.5}
	right := []float64{0.5, -0.5}
	require.NoError(t, c.ProcessBlock([][]float64{left, right}))

	m := c.Meters()
	assert.InDelta(t, 0.5, m.Input.Peak, 1e-12)

	c.Reset()
	assert.Equal(t, Meters{}, c.Meters())
}

// TestOversamplingFactors tests the exported factor list.
func TestOversamplingFactors(t *testing.T) {
	assert.Equal(t, []int{1, 2, 4, 8, 16, 32}, OversamplingFactors())
}
