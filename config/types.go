package config

// ConfigFile is the top-level YAML document
type ConfigFile struct {
	Config ServerConfig `yaml:"config"`
}

// ServerConfig holds the runnable server settings
type ServerConfig struct {
	RPCAddr     string           `yaml:"rpc_addr"`
	MetricsAddr string           `yaml:"metrics_addr"`
	DataDir     string           `yaml:"data_dir"`
	Genesis     GenesisConfig    `yaml:"genesis"`
}

// GenesisConfig declares the assets and funded accounts created at startup
type GenesisConfig struct {
	Assets   []GenesisAsset   `yaml:"assets"`
	Accounts []GenesisAccount `yaml:"accounts"`
}

type GenesisAsset struct {
	ID       string `yaml:"id"`
	Issuer   string `yaml:"issuer"`
	Decimals uint32 `yaml:"decimals"`
}

type GenesisAccount struct {
	Asset   string `yaml:"asset"`
	Address string `yaml:"address"`
	Balance string `yaml:"balance"` // decimal string, raw units
}
