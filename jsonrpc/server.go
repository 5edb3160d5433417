package jsonrpc

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/holiman/uint256"

	"stakemine/errors"
	"stakemine/exception"
	"stakemine/ledger"
	"stakemine/staking"
	"stakemine/types"
)

// --- Error conversion ---

func toJRPC2Error(err error) error {
	if err == nil {
		return nil
	}
	var engineErr *errors.EngineError
	if stderrors.As(err, &engineErr) {
		return jrpc2.Errorf(jrpc2.Code(-32000), "%s", engineErr.Message).WithData(engineErr)
	}
	return jrpc2.Errorf(jrpc2.Code(-32000), "%s", err.Error())
}

// --- Params/Results ---

type initializePoolParams struct {
	Admin       string `json:"admin"`
	StakeAsset  string `json:"stake_asset"`
	RewardAsset string `json:"reward_asset"`
	RewardRate  uint64 `json:"reward_rate"`
}

type poolView struct {
	Admin              string `json:"admin"`
	StakeAsset         string `json:"stake_asset"`
	RewardAsset        string `json:"reward_asset"`
	StakeVault         string `json:"stake_vault"`
	RewardVault        string `json:"reward_vault"`
	TotalStaked        uint64 `json:"total_staked"`
	RewardsDistributed uint64 `json:"rewards_distributed"`
	RewardRate         uint64 `json:"reward_rate"`
}

type getPoolParams struct {
	StakeAsset string `json:"stake_asset"`
}

type stakeParams struct {
	User       string `json:"user"`
	StakeAsset string `json:"stake_asset"`
	Amount     uint64 `json:"amount"`
}

type positionView struct {
	Owner        string `json:"owner"`
	Pool         string `json:"pool"`
	AmountStaked uint64 `json:"amount_staked"`
	Active       bool   `json:"active"`
	StakedAt     int64  `json:"staked_at"`
	LastClaimed  int64  `json:"last_claimed"`
}

type withdrawParams struct {
	User       string `json:"user"`
	StakeAsset string `json:"stake_asset"`
}

type withdrawResponse struct {
	ReturnedStake uint64 `json:"returned_stake"`
	RewardPaid    uint64 `json:"reward_paid"`
}

type getPositionParams struct {
	StakeAsset string `json:"stake_asset"`
	Owner      string `json:"owner"`
}

type createAssetParams struct {
	Asset    string `json:"asset"`
	Issuer   string `json:"issuer"`
	Decimals uint32 `json:"decimals"`
}

type createAssetResponse struct {
	Asset    string `json:"asset"`
	Issuer   string `json:"issuer"`
	Decimals uint32 `json:"decimals"`
}

type mintParams struct {
	Asset      string `json:"asset"`
	To         string `json:"to"`
	Amount     string `json:"amount"` // decimal string, raw units
	Authorizer string `json:"authorizer"`
}

type mintResponse struct {
	Ok bool `json:"ok"`
}

type balanceParams struct {
	Asset   string `json:"asset"`
	Address string `json:"address"`
}

type balanceResponse struct {
	Asset   string `json:"asset"`
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// --- Server ---

type Server struct {
	addr       string
	engine     *staking.Engine
	ledger     *ledger.Ledger
	corsConfig CORSConfig
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

func NewServer(addr string, engine *staking.Engine, ledger *ledger.Ledger) *Server {
	return &Server{
		addr:   addr,
		engine: engine,
		ledger: ledger,
	}
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(config CORSConfig) {
	s.corsConfig = config
}

func (s *Server) Start() {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		jh.ServeHTTP(w, r)
	})

	mux := http.NewServeMux()
	mux.Handle("/", h)
	exception.SafeGo("jsonrpc-server", func() {
		http.ListenAndServe(s.addr, mux)
	})
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		"pool.initialize": handler.New(func(ctx context.Context, p initializePoolParams) (*poolView, error) {
			pool, err := s.engine.InitializePool(p.Admin, p.StakeAsset, p.RewardAsset, p.RewardRate)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return poolToView(pool), nil
		}),
		"pool.get": handler.New(func(ctx context.Context, p getPoolParams) (*poolView, error) {
			pool, err := s.engine.GetPool(p.StakeAsset)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return poolToView(pool), nil
		}),
		"stake.deposit": handler.New(func(ctx context.Context, p stakeParams) (*positionView, error) {
			position, err := s.engine.StakeAssets(p.User, p.StakeAsset, p.Amount)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return positionToView(position), nil
		}),
		"stake.withdraw": handler.New(func(ctx context.Context, p withdrawParams) (*withdrawResponse, error) {
			returned, reward, err := s.engine.WithdrawAssets(p.User, p.StakeAsset)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &withdrawResponse{ReturnedStake: returned, RewardPaid: reward}, nil
		}),
		"position.get": handler.New(func(ctx context.Context, p getPositionParams) (*positionView, error) {
			position, err := s.engine.GetPosition(p.StakeAsset, p.Owner)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return positionToView(position), nil
		}),
		"asset.create": handler.New(func(ctx context.Context, p createAssetParams) (*createAssetResponse, error) {
			asset, err := s.ledger.CreateAsset(p.Asset, p.Issuer, p.Decimals)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &createAssetResponse{Asset: asset.ID, Issuer: asset.Issuer, Decimals: asset.Decimals}, nil
		}),
		"asset.mint": handler.New(func(ctx context.Context, p mintParams) (*mintResponse, error) {
			amount, err := uint256.FromDecimal(p.Amount)
			if err != nil {
				return nil, toJRPC2Error(errors.New(errors.ErrCodeInvalidAmount, fmt.Sprintf("invalid amount format: %v", err)))
			}
			if err := s.ledger.Mint(p.Asset, p.To, amount, p.Authorizer); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &mintResponse{Ok: true}, nil
		}),
		"account.balance": handler.New(func(ctx context.Context, p balanceParams) (*balanceResponse, error) {
			balance, err := s.ledger.Balance(p.Asset, p.Address)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &balanceResponse{Asset: p.Asset, Address: p.Address, Balance: balance.Dec()}, nil
		}),
	}
}

// --- Helpers ---

func poolToView(pool *types.PoolConfig) *poolView {
	return &poolView{
		Admin:              pool.Admin,
		StakeAsset:         pool.StakeAsset,
		RewardAsset:        pool.RewardAsset,
		StakeVault:         pool.StakeVault,
		RewardVault:        pool.RewardVault,
		TotalStaked:        pool.TotalStaked,
		RewardsDistributed: pool.RewardsDistributed,
		RewardRate:         pool.RewardRate,
	}
}

func positionToView(position *types.StakePosition) *positionView {
	return &positionView{
		Owner:        position.Owner,
		Pool:         position.Pool,
		AmountStaked: position.AmountStaked,
		Active:       position.Active,
		StakedAt:     position.StakedAt,
		LastClaimed:  position.LastClaimed,
	}
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsConfig.AllowedOrigins) > 0 {
		if s.corsConfig.AllowedOrigins[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			origin := r.Header.Get("Origin")
			for _, allowedOrigin := range s.corsConfig.AllowedOrigins {
				if origin == allowedOrigin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
	}

	if len(s.corsConfig.AllowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(s.corsConfig.AllowedMethods, ", "))
	}
	if len(s.corsConfig.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(s.corsConfig.AllowedHeaders, ", "))
	}
	if s.corsConfig.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", s.corsConfig.MaxAge))
	}
}

// --- Env helpers ---

// CORSFromEnv reads environment variables and constructs a CORSConfig.
// Returns (cfg, true) if any CORS-related env var is set; otherwise (zero, false).
//
// Env vars:
// - CORS_ALLOWED_ORIGINS: comma-separated list
// - CORS_ALLOWED_METHODS: comma-separated list
// - CORS_ALLOWED_HEADERS: comma-separated list
// - CORS_MAX_AGE: integer seconds
func CORSFromEnv() (CORSConfig, bool) {
	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	methods := os.Getenv("CORS_ALLOWED_METHODS")
	headers := os.Getenv("CORS_ALLOWED_HEADERS")
	maxAgeStr := os.Getenv("CORS_MAX_AGE")

	var maxAge int
	if maxAgeStr != "" {
		if v, err := strconv.Atoi(maxAgeStr); err == nil {
			maxAge = v
		}
	}

	var allowedOrigins, allowedMethods, allowedHeaders []string
	if origins != "" {
		allowedOrigins = splitAndTrim(origins)
	}
	if methods != "" {
		allowedMethods = splitAndTrim(methods)
	}
	if headers != "" {
		allowedHeaders = splitAndTrim(headers)
	}

	provided := len(allowedOrigins) > 0 || len(allowedMethods) > 0 || len(allowedHeaders) > 0 || maxAge > 0
	if !provided {
		return CORSConfig{}, false
	}

	return CORSConfig{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: allowedMethods,
		AllowedHeaders: allowedHeaders,
		MaxAge:         maxAge,
	}, true
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
