package config

import (
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"stakemine/logx"
)

// LoadServerConfig reads and parses the server yml file
func LoadServerConfig(path string) (*ServerConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		logx.Error("CONFIG", "Failed to open config file: ", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "Failed to decode YAML: ", err)
		return nil, err
	}
	applyDefaults(&cfgFile.Config)
	return &cfgFile.Config, nil
}

func applyDefaults(cfg *ServerConfig) {
	if cfg.RPCAddr == "" {
		cfg.RPCAddr = DefaultRPCAddr
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = DefaultMetricsAddr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
}

// StorageConfig tunes the record store backend
type StorageConfig struct {
	Backend string `ini:"backend"` // leveldb | boltdb | memory
}

// LoadStorageConfig reads storage config from an .ini file
func LoadStorageConfig(path string) (*StorageConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	storageSection := cfg.Section("storage")
	storageCfg := &StorageConfig{Backend: DefaultDBBackend}
	err = storageSection.MapTo(storageCfg)
	if err != nil {
		return nil, err
	}
	return storageCfg, nil
}
