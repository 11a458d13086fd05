package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetPresetByName(t *testing.T) {
	for _, name := range []string{"default", "dev", "soak"} {
		cfg, err := GetPresetByName(name)
		require.NoError(t, err)
		require.Equal(t, name, cfg.Name)
	}

	_, err := GetPresetByName("nope")
	require.Error(t, err)
}

func TestPresetProfiles(t *testing.T) {
	dev := DevPreset()
	require.Equal(t, 100*time.Millisecond, dev.EpochLength)
	require.Zero(t, dev.WarmupEpochs)

	soak := SoakPreset()
	require.Equal(t, 100, soak.Epochs)
	require.Equal(t, uint64(1000), soak.RewardRate)
}

// TestApplyPreset verifies zero-valued warmup and bounty override the
// target, while zero-valued timing fields leave it alone.
func TestApplyPreset(t *testing.T) {
	target := DefaultPreset()
	target.WarmupEpochs = 5
	target.BountyTokens = 9

	ApplyPreset(&target, PresetConfig{Name: "custom", Stakers: 8})

	require.Equal(t, "custom", target.Name)
	require.Equal(t, 8, target.Stakers)
	require.Equal(t, time.Second, target.EpochLength) // untouched
	require.Zero(t, target.WarmupEpochs)              // zero is meaningful
	require.Zero(t, target.BountyTokens)
}
