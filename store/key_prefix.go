package store

// Declare database key prefix for objects
const (
	PrefixPool     = "pool:"
	PrefixPosition = "position:"

	PrefixAsset   = "asset:"
	PrefixAccount = "account:"
)
