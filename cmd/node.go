package cmd

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"stakemine/config"
	"stakemine/errors"
	"stakemine/exception"
	"stakemine/jsonrpc"
	"stakemine/ledger"
	"stakemine/logx"
	"stakemine/monitoring"
	"stakemine/staking"
	"stakemine/store"
)

var (
	serverConfigPath  string
	storageConfigPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the staking engine node",
	Run: func(cmd *cobra.Command, args []string) {
		runNode()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&serverConfigPath, "config", "c", "config/config.yml", "Path to server configuration file")
	runCmd.Flags().StringVar(&storageConfigPath, "storage-config", "config/config.ini", "Path to storage configuration file")
}

func runNode() {
	cfg, err := config.LoadServerConfig(serverConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	storageCfg, err := config.LoadStorageConfig(storageConfigPath)
	if err != nil {
		logx.Warn("NODE", "Storage config not loaded, using defaults:", err)
		storageCfg = &config.StorageConfig{Backend: config.DefaultDBBackend}
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory %s: %v", cfg.DataDir, err)
	}

	factory := store.NewStoreFactory()
	provider, err := factory.CreateProvider(&store.StoreConfig{
		Type:      store.StoreType(storageCfg.Backend),
		Directory: cfg.DataDir,
	})
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", storageCfg.Backend, err)
	}

	stores, err := factory.CreateStoresWithProvider(provider)
	if err != nil {
		log.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.MustClose()

	ld := ledger.NewLedger(stores.Assets, stores.Accounts)
	engine := staking.NewEngine(ld, stores.Pools, stores.Positions)

	if err := applyGenesis(ld, &cfg.Genesis); err != nil {
		log.Fatalf("Failed to apply genesis: %v", err)
	}

	monitoring.InitMetrics()
	metricsMux := http.NewServeMux()
	monitoring.RegisterMetrics(metricsMux)
	exception.SafeGo("metrics-server", func() {
		if err := http.ListenAndServe(cfg.MetricsAddr, metricsMux); err != nil {
			logx.Error("NODE", "Metrics server stopped:", err)
		}
	})

	rpcServer := jsonrpc.NewServer(cfg.RPCAddr, engine, ld)
	if corsCfg, ok := jsonrpc.CORSFromEnv(); ok {
		rpcServer.SetCORSConfig(corsCfg)
	}
	rpcServer.Start()

	logx.Info("NODE", "Staking engine node started, rpc at", cfg.RPCAddr, "metrics at", cfg.MetricsAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logx.Info("NODE", "Received signal, shutting down:", sig)
}

// applyGenesis creates the declared assets and mints the declared opening
// balances. Re-running against an existing data directory is a no-op for
// assets that already exist.
func applyGenesis(ld *ledger.Ledger, genesis *config.GenesisConfig) error {
	for _, asset := range genesis.Assets {
		if _, err := ld.CreateAsset(asset.ID, asset.Issuer, asset.Decimals); err != nil {
			if errors.HasCode(err, errors.ErrCodeAssetExisted) {
				continue
			}
			return err
		}
		logx.Info("NODE", "Created genesis asset", asset.ID)
	}
	for _, account := range genesis.Accounts {
		amount, err := uint256.FromDecimal(account.Balance)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidAmount, "invalid genesis balance for "+account.Address)
		}
		issuer, err := ld.IssuerOf(account.Asset)
		if err != nil {
			return err
		}
		balance, err := ld.Balance(account.Asset, account.Address)
		if err != nil {
			return err
		}
		if !balance.IsZero() {
			continue
		}
		if err := ld.Mint(account.Asset, account.Address, amount, issuer); err != nil {
			return err
		}
		logx.Info("NODE", "Funded genesis account", account.Address)
	}
	return nil
}
