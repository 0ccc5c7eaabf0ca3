package config

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/ColdToo/ColdPBFT/code"
	"github.com/ColdToo/ColdPBFT/consensus"
	"github.com/ColdToo/ColdPBFT/consensus/mocks"
)

var testBlockID = consensus.BlockID("head-block")

type fakeService struct {
	settings map[string]string
	failures int
	calls    int
}

func (f *fakeService) GetSettings(_ consensus.BlockID, _ []string) (map[string]string, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("validator not ready")
	}
	return f.settings, nil
}

func requirePanicsWithCode(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value is not an error: %v", r)
		require.True(t, errors.Is(err, want), "panic %v does not wrap %v", err, want)
	}()
	fn()
}

func TestDefaultPbftConfig(t *testing.T) {
	cfg := DefaultPbftConfig()

	require.Empty(t, cfg.Members)
	require.Equal(t, 200*time.Millisecond, cfg.BlockPublishingDelay)
	require.Equal(t, 10*time.Millisecond, cfg.UpdateRecvTimeout)
	require.Equal(t, 100*time.Millisecond, cfg.ExponentialRetryBase)
	require.Equal(t, 60*time.Second, cfg.ExponentialRetryMax)
	require.Equal(t, 30*time.Second, cfg.IdleTimeout)
	require.Equal(t, 30*time.Second, cfg.CommitTimeout)
	require.Equal(t, 5*time.Second, cfg.ViewChangeDuration)
	require.Equal(t, uint64(30), cfg.ForcedViewChangePeriod)
	require.Equal(t, uint64(1000), cfg.MaxLogSize)
	require.Equal(t, "memory", cfg.Storage)

	require.Less(t, cfg.BlockPublishingDelay, cfg.IdleTimeout)
}

func TestLoadSettingsMergesOnChainValues(t *testing.T) {
	svc := &fakeService{settings: map[string]string{
		MembersKey:                `["02a1", "02b2", "02a1"]`,
		BlockPublishingDelayKey:   "400",
		IdleTimeoutKey:            "45",
		CommitTimeoutKey:          "60",
		ViewChangeDurationKey:     "10",
		ForcedViewChangePeriodKey: "50",
	}}

	cfg := DefaultPbftConfig()
	cfg.LoadSettings(testBlockID, svc)

	// order preserved, duplicates kept
	require.Equal(t, []consensus.PeerID{
		{0x02, 0xa1}, {0x02, 0xb2}, {0x02, 0xa1},
	}, cfg.Members)

	require.Equal(t, 400*time.Millisecond, cfg.BlockPublishingDelay)
	require.Equal(t, 45*time.Second, cfg.IdleTimeout)
	require.Equal(t, 60*time.Second, cfg.CommitTimeout)
	require.Equal(t, 10*time.Second, cfg.ViewChangeDuration)
	require.Equal(t, uint64(50), cfg.ForcedViewChangePeriod)

	// never fetched, stays at its compiled-in value
	require.Equal(t, "memory", cfg.Storage)
	require.Equal(t, uint64(1000), cfg.MaxLogSize)
}

func TestLoadSettingsMembersRequired(t *testing.T) {
	svc := &fakeService{settings: map[string]string{
		IdleTimeoutKey: "45",
	}}

	requirePanicsWithCode(t, code.ErrMembersNotSet, func() {
		DefaultPbftConfig().LoadSettings(testBlockID, svc)
	})
}

func TestLoadSettingsMembersNotJSON(t *testing.T) {
	svc := &fakeService{settings: map[string]string{
		MembersKey: "not json",
	}}

	requirePanicsWithCode(t, code.ErrMembersNotJSON, func() {
		DefaultPbftConfig().LoadSettings(testBlockID, svc)
	})
}

func TestLoadSettingsMembersNotHex(t *testing.T) {
	svc := &fakeService{settings: map[string]string{
		MembersKey: `["02a1", "zz"]`,
	}}

	requirePanicsWithCode(t, code.ErrMemberNotHex, func() {
		DefaultPbftConfig().LoadSettings(testBlockID, svc)
	})
}

func TestLoadSettingsTimingInvariant(t *testing.T) {
	// 30000 ms == the default 30 s idle timeout; equality must also fail
	svc := &fakeService{settings: map[string]string{
		MembersKey:              `["02a1"]`,
		BlockPublishingDelayKey: "30000",
	}}

	requirePanicsWithCode(t, code.ErrTimingInvariant, func() {
		DefaultPbftConfig().LoadSettings(testBlockID, svc)
	})
}

func TestLoadSettingsMalformedOptionalIsIgnored(t *testing.T) {
	svc := &fakeService{settings: map[string]string{
		MembersKey:                `["02a1"]`,
		CommitTimeoutKey:          "abc",
		ForcedViewChangePeriodKey: "-1",
	}}

	cfg := DefaultPbftConfig()
	cfg.LoadSettings(testBlockID, svc)

	require.Equal(t, 30*time.Second, cfg.CommitTimeout)
	require.Equal(t, uint64(30), cfg.ForcedViewChangePeriod)
}

func TestLoadSettingsIsIdempotent(t *testing.T) {
	svc := &fakeService{settings: map[string]string{
		MembersKey:       `["02a1", "02b2"]`,
		IdleTimeoutKey:   "45",
		CommitTimeoutKey: "60",
	}}

	first := DefaultPbftConfig()
	first.LoadSettings(testBlockID, svc)

	second := DefaultPbftConfig()
	second.LoadSettings(testBlockID, svc)

	require.Equal(t, first, second)
}

func TestLoadSettingsRetriesUntilServiceAnswers(t *testing.T) {
	mockCtl := gomock.NewController(t)
	defer mockCtl.Finish()

	svc := mocks.NewMockService(mockCtl)
	svc.EXPECT().GetSettings(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("validator not ready")).Times(3)
	svc.EXPECT().GetSettings(gomock.Any(), gomock.Any()).
		Return(map[string]string{MembersKey: `["02a1"]`}, nil).Times(1)

	cfg := DefaultPbftConfig()
	cfg.ExponentialRetryBase = time.Millisecond
	cfg.ExponentialRetryMax = 4 * time.Millisecond
	cfg.LoadSettings(testBlockID, svc)

	require.Equal(t, []consensus.PeerID{{0x02, 0xa1}}, cfg.Members)
}
