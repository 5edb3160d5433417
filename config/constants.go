package config

const (
	DefaultRPCAddr     = ":8899"
	DefaultMetricsAddr = ":9100"
	DefaultDataDir     = "./data"
	DefaultDBBackend   = "leveldb"
)
