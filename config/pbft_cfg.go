package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ColdToo/ColdPBFT/code"
	"github.com/ColdToo/ColdPBFT/consensus"
	"github.com/ColdToo/ColdPBFT/log"
	"github.com/ColdToo/ColdPBFT/timing"
)

// On-chain setting keys read by LoadSettings.
const (
	MembersKey                = "sawtooth.consensus.pbft.members"
	BlockPublishingDelayKey   = "sawtooth.consensus.pbft.block_publishing_delay"
	IdleTimeoutKey            = "sawtooth.consensus.pbft.idle_timeout"
	CommitTimeoutKey          = "sawtooth.consensus.pbft.commit_timeout"
	ViewChangeDurationKey     = "sawtooth.consensus.pbft.view_change_duration"
	ForcedViewChangePeriodKey = "sawtooth.consensus.pbft.forced_view_change_period"
)

// PbftConfig holds the operating parameters of a PBFT node: compiled-in
// defaults overlaid with on-chain settings by LoadSettings. After a
// successful load the record belongs to the engine and is read-only.
type PbftConfig struct {
	// Members of the PBFT network, in on-chain order.
	Members []consensus.PeerID

	// How long to wait in between trying to publish blocks.
	BlockPublishingDelay time.Duration

	// How long to wait for an update to arrive from the validator.
	UpdateRecvTimeout time.Duration

	// Base and cap for retrying validator calls with exponential backoff.
	ExponentialRetryBase time.Duration
	ExponentialRetryMax  time.Duration

	// How long the primary may go without progress before it is suspected
	// faulty. Must be longer than BlockPublishingDelay.
	IdleTimeout time.Duration

	// How long to wait for the network to commit a block before starting a
	// view change.
	CommitTimeout time.Duration

	// When view changing, how long to wait for a valid NewView before
	// starting a different view change.
	ViewChangeDuration time.Duration

	// How many blocks to commit before forcing a view change for fairness.
	ForcedViewChangePeriod uint64

	// How large the message log may grow before being pruned.
	MaxLogSize uint64

	// Where PBFT state is stored: "memory" or a file path.
	Storage string
}

// DefaultPbftConfig returns the compiled-in defaults. Members is left empty
// on purpose: the roster only ever comes from on-chain settings.
func DefaultPbftConfig() *PbftConfig {
	return &PbftConfig{
		Members:                nil,
		BlockPublishingDelay:   200 * time.Millisecond,
		UpdateRecvTimeout:      10 * time.Millisecond,
		ExponentialRetryBase:   100 * time.Millisecond,
		ExponentialRetryMax:    60 * time.Second,
		IdleTimeout:            30 * time.Second,
		CommitTimeout:          30 * time.Second,
		ViewChangeDuration:     5 * time.Second,
		ForcedViewChangePeriod: 30,
		MaxLogSize:             1000,
		Storage:                "memory",
	}
}

// LoadSettings populates the config from on-chain settings as of blockID.
// The validator call is retried with exponential backoff until it succeeds.
// Panics if the member roster is missing or undecodable, or if the merged
// result has BlockPublishingDelay >= IdleTimeout; a node holding a broken
// configuration must not come up, so callers never recover from these.
func (c *PbftConfig) LoadSettings(blockID consensus.BlockID, svc consensus.Service) {
	log.Debugf("getting on-chain settings for config")
	settings := timing.RetryUntilOk(c.ExponentialRetryBase, c.ExponentialRetryMax,
		func() (map[string]string, error) {
			return svc.GetSettings(blockID, []string{
				MembersKey,
				BlockPublishingDelayKey,
				IdleTimeoutKey,
				CommitTimeoutKey,
				ViewChangeDurationKey,
				ForcedViewChangePeriodKey,
			})
		})

	c.Members = MembersFromSettings(settings)

	mergeMillisSettingIfSet(settings, &c.BlockPublishingDelay, BlockPublishingDelayKey)
	mergeSecsSettingIfSet(settings, &c.IdleTimeout, IdleTimeoutKey)
	mergeSecsSettingIfSet(settings, &c.CommitTimeout, CommitTimeoutKey)
	mergeSecsSettingIfSet(settings, &c.ViewChangeDuration, ViewChangeDurationKey)

	if c.BlockPublishingDelay >= c.IdleTimeout {
		panic(errors.Wrapf(code.ErrTimingInvariant,
			"block publishing delay (%v) >= idle timeout (%v)",
			c.BlockPublishingDelay, c.IdleTimeout))
	}

	mergeUint64SettingIfSet(settings, &c.ForcedViewChangePeriod, ForcedViewChangePeriodKey)
}
