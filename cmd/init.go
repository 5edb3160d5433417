package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stakemine/config"
	"stakemine/logx"
)

var (
	initConfigDir string
	initDataDir   string
	initDatabase  string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize node by writing default configuration files",
	Long: `Initialize a new staking engine node by:
- Writing a default server configuration file
- Writing a default storage configuration file
- Creating the data directory`,
	Run: func(cmd *cobra.Command, args []string) {
		initializeNode()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initConfigDir, "config-dir", "config", "Directory to write configuration files")
	initCmd.Flags().StringVar(&initDataDir, "data-dir", config.DefaultDataDir, "Directory to save node data")
	initCmd.Flags().StringVar(&initDatabase, "database", config.DefaultDBBackend, "Database backend (leveldb, boltdb or memory)")
}

func initializeNode() {
	if err := os.MkdirAll(initConfigDir, 0755); err != nil {
		log.Fatalf("Failed to create config directory: %v", err)
	}
	if err := os.MkdirAll(initDataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	serverCfgPath := filepath.Join(initConfigDir, "config.yml")
	if err := writeIfMissing(serverCfgPath, defaultServerConfig()); err != nil {
		log.Fatalf("Failed to write server config: %v", err)
	}

	storageCfgPath := filepath.Join(initConfigDir, "config.ini")
	if err := writeIfMissing(storageCfgPath, defaultStorageConfig()); err != nil {
		log.Fatalf("Failed to write storage config: %v", err)
	}

	logx.Info("CMD", "Node initialized, config at", initConfigDir, "data at", initDataDir)
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		logx.Warn("CMD", "File already exists, keeping it:", path)
		return nil
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func defaultServerConfig() string {
	return fmt.Sprintf(`config:
  rpc_addr: "%s"
  metrics_addr: "%s"
  data_dir: "%s"
  genesis:
    assets: []
    accounts: []
`, config.DefaultRPCAddr, config.DefaultMetricsAddr, initDataDir)
}

func defaultStorageConfig() string {
	return fmt.Sprintf(`[storage]
backend = %s
`, initDatabase)
}
