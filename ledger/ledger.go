package ledger

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"stakemine/errors"
	"stakemine/logx"
	"stakemine/store"
	"stakemine/types"
)

// Ledger keeps asset definitions and per-(asset, address) balances. Every
// mutation is serialized behind one RWMutex; reads take the read lock.
type Ledger struct {
	mu           sync.RWMutex
	assetStore   store.AssetStore
	accountStore store.AccountStore
}

func NewLedger(assetStore store.AssetStore, accountStore store.AccountStore) *Ledger {
	return &Ledger{
		assetStore:   assetStore,
		accountStore: accountStore,
	}
}

// CreateAsset registers a new asset with its issuance authority
func (l *Ledger) CreateAsset(id, issuer string, decimals uint32) (*types.Asset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id == "" || issuer == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "asset id and issuer are required")
	}

	existed, err := l.assetStore.ExistsByID(id)
	if err != nil {
		return nil, fmt.Errorf("could not check existence of asset: %w", err)
	}
	if existed {
		return nil, errors.New(errors.ErrCodeAssetExisted, fmt.Sprintf("asset %s already registered", id))
	}

	asset := &types.Asset{
		ID:       id,
		Issuer:   issuer,
		Decimals: decimals,
		Supply:   uint256.NewInt(0),
	}
	if err := l.assetStore.Store(asset); err != nil {
		return nil, fmt.Errorf("failed to store asset: %w", err)
	}

	logx.Info("LEDGER", fmt.Sprintf("Created asset %s (issuer %s)", id, issuer))
	return asset, nil
}

// IssuerOf returns the issuance authority recorded on an asset
func (l *Ledger) IssuerOf(asset string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, err := l.getAsset(asset)
	if err != nil {
		return "", err
	}
	return a.Issuer, nil
}

// CreateVaultAccount opens a custody account controlled by an authority token
// rather than by its own address
func (l *Ledger) CreateVaultAccount(asset, addr, authority string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.getAsset(asset); err != nil {
		return err
	}

	existed, err := l.accountStore.Exists(asset, addr)
	if err != nil {
		return fmt.Errorf("could not check existence of account: %w", err)
	}
	if existed {
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("account %s/%s already exists", asset, addr))
	}

	account := &types.Account{
		Asset:     asset,
		Address:   addr,
		Authority: authority,
		Balance:   uint256.NewInt(0),
	}
	if err := l.accountStore.Store(account); err != nil {
		return fmt.Errorf("failed to store vault account: %w", err)
	}
	return nil
}

// Mint credits freshly issued units to an account. Only the asset's issuance
// authority may mint.
func (l *Ledger) Mint(asset, to string, amount *uint256.Int, authorizer string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.getAsset(asset)
	if err != nil {
		return err
	}
	if authorizer != a.Issuer {
		return errors.New(errors.ErrCodeUnauthorized, fmt.Sprintf("%s is not the issuer of %s", authorizer, asset))
	}

	recipient, err := l.loadOrCreateAccount(asset, to)
	if err != nil {
		return err
	}

	newSupply := new(uint256.Int)
	if _, overflow := newSupply.AddOverflow(a.Supply, amount); overflow {
		return errors.New(errors.ErrCodeArithmeticOverflow, "asset supply overflow")
	}
	newBalance := new(uint256.Int)
	if _, overflow := newBalance.AddOverflow(recipient.Balance, amount); overflow {
		return errors.New(errors.ErrCodeArithmeticOverflow, "account balance overflow")
	}

	priorSupply := a.Supply
	a.Supply = newSupply
	recipient.Balance = newBalance

	// supply and the credited account move together or not at all
	if err := l.assetStore.Store(a); err != nil {
		a.Supply = priorSupply
		return fmt.Errorf("failed to store asset supply: %w", err)
	}
	if err := l.accountStore.Store(recipient); err != nil {
		a.Supply = priorSupply
		if restoreErr := l.assetStore.Store(a); restoreErr != nil {
			logx.Error("LEDGER", fmt.Sprintf("Failed to restore supply of %s: %v", asset, restoreErr))
		}
		return fmt.Errorf("failed to store minted account: %w", err)
	}

	logx.Info("LEDGER", fmt.Sprintf("Minted %s %s to %s", amount.Dec(), asset, to))
	return nil
}

// Transfer moves amount from one account to another. The authorizer must
// match the debited account's authority: the owner address for user
// accounts, the bound custody token for vault accounts. A zero amount is a
// no-op that still validates the accounts.
func (l *Ledger) Transfer(asset, from, to string, amount *uint256.Int, authorizer string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.getAsset(asset); err != nil {
		return err
	}

	sender, err := l.accountStore.Get(asset, from)
	if err != nil {
		return fmt.Errorf("could not load sender account: %w", err)
	}
	if sender == nil {
		return errors.New(errors.ErrCodeAccountNotFound, fmt.Sprintf("account %s/%s does not exist", asset, from))
	}
	if authorizer != sender.Authority {
		return errors.New(errors.ErrCodeUnauthorized, fmt.Sprintf("authorizer not permitted to debit %s/%s", asset, from))
	}
	if sender.Balance.Cmp(amount) < 0 {
		return errors.New(errors.ErrCodeInsufficientFunds, "insufficient balance")
	}
	if amount.IsZero() || from == to {
		return nil
	}

	recipient, err := l.loadOrCreateAccount(asset, to)
	if err != nil {
		return err
	}

	sender.Balance = new(uint256.Int).Sub(sender.Balance, amount)
	newBalance := new(uint256.Int)
	if _, overflow := newBalance.AddOverflow(recipient.Balance, amount); overflow {
		return errors.New(errors.ErrCodeArithmeticOverflow, "recipient balance overflow")
	}
	recipient.Balance = newBalance

	if err := l.accountStore.StoreBatch([]*types.Account{sender, recipient}); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

// Balance returns the current balance for (asset, addr), zero when the
// account does not exist
func (l *Ledger) Balance(asset, addr string) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, err := l.getAsset(asset); err != nil {
		return nil, err
	}

	acc, err := l.accountStore.Get(asset, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return uint256.NewInt(0), nil
	}
	return acc.Balance, nil
}

// GetAccount returns the account record for (asset, addr), nil if not exist
func (l *Ledger) GetAccount(asset, addr string) (*types.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.accountStore.Get(asset, addr)
}

// GetAsset returns the asset record, nil if not exist
func (l *Ledger) GetAsset(id string) (*types.Asset, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetStore.GetByID(id)
}

func (l *Ledger) getAsset(id string) (*types.Asset, error) {
	a, err := l.assetStore.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("could not load asset %s: %w", id, err)
	}
	if a == nil {
		return nil, errors.New(errors.ErrCodeAssetNotFound, fmt.Sprintf("asset %s is not registered", id))
	}
	return a, nil
}

// loadOrCreateAccount fetches an account, creating a user account (authority
// equal to the address) when none exists yet
func (l *Ledger) loadOrCreateAccount(asset, addr string) (*types.Account, error) {
	acc, err := l.accountStore.Get(asset, addr)
	if err != nil {
		return nil, fmt.Errorf("could not load account %s/%s: %w", asset, addr, err)
	}
	if acc != nil {
		return acc, nil
	}
	return &types.Account{
		Asset:     asset,
		Address:   addr,
		Authority: addr,
		Balance:   uint256.NewInt(0),
	}, nil
}
