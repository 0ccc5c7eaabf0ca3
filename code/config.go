package code

import "errors"

// Fatal configuration conditions. A node that cannot establish a valid
// configuration must not join the network, so these abort startup (via
// panic at the point of detection) instead of being returned for callers
// to swallow.
var (
	// ErrMembersNotSet the on-chain member roster was never written.
	ErrMembersNotSet = errors.New("members setting must exist to use PBFT")

	// ErrMembersNotJSON the roster value is not a JSON array of strings.
	ErrMembersNotJSON = errors.New("members setting is not a JSON array of strings")

	// ErrMemberNotHex a roster entry does not decode as hex.
	ErrMemberNotHex = errors.New("member id is not valid hex")

	// ErrTimingInvariant the primary could never be suspected idle.
	ErrTimingInvariant = errors.New("block publishing delay must be less than the idle timeout")

	// ErrLocalConfig the operator-set yaml file is unreadable.
	ErrLocalConfig = errors.New("local config file unreadable")
)
