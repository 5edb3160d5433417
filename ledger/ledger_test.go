package ledger

import (
	"fmt"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stakemine/db"
	"stakemine/errors"
	"stakemine/store"
)

func newTestLedger(t *testing.T) *Ledger {
	provider := db.NewMemoryProvider()
	factory := store.NewStoreFactory()
	stores, err := factory.CreateStoresWithProvider(provider)
	require.NoError(t, err)
	return NewLedger(stores.Assets, stores.Accounts)
}

func TestCreateAsset(t *testing.T) {
	ld := newTestLedger(t)

	asset, err := ld.CreateAsset("STK", "issuer", 9)
	require.NoError(t, err)
	assert.Equal(t, "STK", asset.ID)
	assert.Equal(t, "issuer", asset.Issuer)
	assert.True(t, asset.Supply.IsZero())

	_, err = ld.CreateAsset("STK", "other", 6)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAssetExisted))

	issuer, err := ld.IssuerOf("STK")
	require.NoError(t, err)
	assert.Equal(t, "issuer", issuer)

	_, err = ld.IssuerOf("UNKNOWN")
	assert.True(t, errors.HasCode(err, errors.ErrCodeAssetNotFound))
}

func TestMint(t *testing.T) {
	ld := newTestLedger(t)
	_, err := ld.CreateAsset("STK", "issuer", 9)
	require.NoError(t, err)

	// Only the issuance authority may mint
	err = ld.Mint("STK", "alice", uint256.NewInt(100), "alice")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))

	require.NoError(t, ld.Mint("STK", "alice", uint256.NewInt(100), "issuer"))

	balance, err := ld.Balance("STK", "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance.Uint64())

	asset, err := ld.GetAsset("STK")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), asset.Supply.Uint64())
}

func TestMintSupplyOverflow(t *testing.T) {
	ld := newTestLedger(t)
	_, err := ld.CreateAsset("STK", "issuer", 9)
	require.NoError(t, err)

	maxSupply := new(uint256.Int).Not(uint256.NewInt(0))
	require.NoError(t, ld.Mint("STK", "alice", maxSupply, "issuer"))

	// One more unit would wrap the 256-bit supply
	err = ld.Mint("STK", "bob", uint256.NewInt(1), "issuer")
	assert.True(t, errors.HasCode(err, errors.ErrCodeArithmeticOverflow))

	// The failed mint credited nothing
	balance, err := ld.Balance("STK", "bob")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	asset, err := ld.GetAsset("STK")
	require.NoError(t, err)
	assert.Equal(t, maxSupply, asset.Supply)
}

// failingPutProvider rejects writes whose key carries the given prefix
type failingPutProvider struct {
	db.DatabaseProvider
	failPrefix string
}

func (p *failingPutProvider) Put(key, value []byte) error {
	if strings.HasPrefix(string(key), p.failPrefix) {
		return fmt.Errorf("simulated write failure")
	}
	return p.DatabaseProvider.Put(key, value)
}

func TestMintKeepsSupplyOnWriteFailure(t *testing.T) {
	provider := &failingPutProvider{
		DatabaseProvider: db.NewMemoryProvider(),
		failPrefix:       store.PrefixAccount,
	}
	assetStore, err := store.NewGenericAssetStore(provider)
	require.NoError(t, err)
	accountStore, err := store.NewGenericAccountStore(provider)
	require.NoError(t, err)
	ld := NewLedger(assetStore, accountStore)

	_, err = ld.CreateAsset("STK", "issuer", 9)
	require.NoError(t, err)

	// Account write fails after the supply was already stored; the supply
	// must be rolled back so it never exceeds the sum of balances
	err = ld.Mint("STK", "alice", uint256.NewInt(100), "issuer")
	require.Error(t, err)

	asset, err := ld.GetAsset("STK")
	require.NoError(t, err)
	assert.True(t, asset.Supply.IsZero())
}

func TestTransfer(t *testing.T) {
	ld := newTestLedger(t)
	_, err := ld.CreateAsset("STK", "issuer", 9)
	require.NoError(t, err)
	require.NoError(t, ld.Mint("STK", "alice", uint256.NewInt(100), "issuer"))

	// Only the account's own authority may debit it
	err = ld.Transfer("STK", "alice", "bob", uint256.NewInt(40), "bob")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))

	require.NoError(t, ld.Transfer("STK", "alice", "bob", uint256.NewInt(40), "alice"))

	aliceBalance, err := ld.Balance("STK", "alice")
	require.NoError(t, err)
	bobBalance, err := ld.Balance("STK", "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(60), aliceBalance.Uint64())
	assert.Equal(t, uint64(40), bobBalance.Uint64())

	// Overdraft
	err = ld.Transfer("STK", "alice", "bob", uint256.NewInt(61), "alice")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInsufficientFunds))

	// Unknown sender account
	err = ld.Transfer("STK", "carol", "bob", uint256.NewInt(1), "carol")
	assert.True(t, errors.HasCode(err, errors.ErrCodeAccountNotFound))

	// Self transfer leaves the balance unchanged
	require.NoError(t, ld.Transfer("STK", "alice", "alice", uint256.NewInt(10), "alice"))
	aliceBalance, err = ld.Balance("STK", "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(60), aliceBalance.Uint64())
}

func TestVaultAccountCustody(t *testing.T) {
	ld := newTestLedger(t)
	_, err := ld.CreateAsset("STK", "issuer", 9)
	require.NoError(t, err)

	require.NoError(t, ld.CreateVaultAccount("STK", "vault-addr", "custody-token"))
	require.NoError(t, ld.Mint("STK", "vault-addr", uint256.NewInt(500), "issuer"))

	// Minting into the vault did not reset its authority
	account, err := ld.GetAccount("STK", "vault-addr")
	require.NoError(t, err)
	assert.Equal(t, "custody-token", account.Authority)

	// The vault address itself cannot authorize a debit
	err = ld.Transfer("STK", "vault-addr", "alice", uint256.NewInt(100), "vault-addr")
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))

	// The custody token can
	require.NoError(t, ld.Transfer("STK", "vault-addr", "alice", uint256.NewInt(100), "custody-token"))
	balance, err := ld.Balance("STK", "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance.Uint64())

	// Duplicate vault creation is rejected
	err = ld.CreateVaultAccount("STK", "vault-addr", "other-token")
	require.Error(t, err)
}

func TestBalanceOfMissingAccount(t *testing.T) {
	ld := newTestLedger(t)
	_, err := ld.CreateAsset("STK", "issuer", 9)
	require.NoError(t, err)

	balance, err := ld.Balance("STK", "nobody")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = ld.Balance("UNKNOWN", "nobody")
	assert.True(t, errors.HasCode(err, errors.ErrCodeAssetNotFound))
}
