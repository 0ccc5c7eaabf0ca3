package consensus

// BlockID identifies a block in the chain. The bytes are opaque to the
// engine; they are handed back to the validator as-is.
type BlockID []byte

// PeerID identifies a member of the PBFT network.
type PeerID []byte

// Service is the validator-side collaborator the engine reads shared state
// through. Every error it returns is treated as transient: callers retry,
// they do not inspect the failure.
type Service interface {
	// GetSettings returns the values of the requested setting keys as they
	// exist at blockID. Keys with no value at that block are absent from
	// the returned map, which is not an error.
	GetSettings(blockID BlockID, keys []string) (map[string]string, error)
}
