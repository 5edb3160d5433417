package interfaces

import (
	"github.com/holiman/uint256"
)

// Ledger is the asset ledger consumed by the staking engine. The engine only
// moves value through this interface; balances and issuance bookkeeping live
// behind it.
type Ledger interface {
	// Transfer moves amount between two accounts of one asset. authorizer
	// must be the debited account's authority.
	Transfer(asset, from, to string, amount *uint256.Int, authorizer string) error

	// Balance returns the current balance of (asset, addr); zero when the
	// account does not exist
	Balance(asset, addr string) (*uint256.Int, error)

	// IssuerOf returns the issuance authority recorded on an asset
	IssuerOf(asset string) (string, error)

	// CreateVaultAccount opens a custody account whose debits are authorized
	// only by the given authority token
	CreateVaultAccount(asset, addr, authority string) error
}
