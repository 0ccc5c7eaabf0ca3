package config

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/ColdToo/ColdPBFT/code"
	"github.com/ColdToo/ColdPBFT/consensus"
)

// MembersFromSettings decodes the on-chain member roster: a JSON array of
// hex-encoded peer ids. Order is preserved and duplicates are kept as
// written. Panics if the setting is absent or any entry fails to decode;
// without the roster the network cannot identify its participants.
func MembersFromSettings(settings map[string]string) []consensus.PeerID {
	raw, ok := settings[MembersKey]
	if !ok {
		panic(errors.Wrapf(code.ErrMembersNotSet, "%q is unset", MembersKey))
	}

	var encoded []string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil {
		panic(errors.Wrapf(code.ErrMembersNotJSON, "unable to parse %q: %v", raw, err))
	}

	members := make([]consensus.PeerID, 0, len(encoded))
	for _, s := range encoded {
		id, err := hex.DecodeString(s)
		if err != nil {
			panic(errors.Wrapf(code.ErrMemberNotHex, "unable to parse peer id %q: %v", s, err))
		}
		members = append(members, id)
	}
	return members
}

// The merge helpers below overwrite a field only when its key is present
// and parses; a malformed optional setting is treated as unset.

func mergeMillisSettingIfSet(settings map[string]string, field *time.Duration, key string) {
	if raw, ok := settings[key]; ok {
		if v, err := cast.ToUint64E(raw); err == nil {
			*field = time.Duration(v) * time.Millisecond
		}
	}
}

func mergeSecsSettingIfSet(settings map[string]string, field *time.Duration, key string) {
	if raw, ok := settings[key]; ok {
		if v, err := cast.ToUint64E(raw); err == nil {
			*field = time.Duration(v) * time.Second
		}
	}
}

func mergeUint64SettingIfSet(settings map[string]string, field *uint64, key string) {
	if raw, ok := settings[key]; ok {
		if v, err := cast.ToUint64E(raw); err == nil {
			*field = v
		}
	}
}
