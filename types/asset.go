package types

import (
	"github.com/holiman/uint256"
)

// Asset is a registered value type. Issuer is the only identity allowed to
// mint it, and the identity a pool admin is checked against at pool creation.
type Asset struct {
	ID       string       `json:"id"`
	Issuer   string       `json:"issuer"`
	Decimals uint32       `json:"decimals"`
	Supply   *uint256.Int `json:"supply"`
}

// Account holds one address's balance of one asset. Authority is the only
// identity the ledger accepts as authorizer for debits from this account:
// the owner address for user accounts, a custody token for vault accounts.
type Account struct {
	Asset     string       `json:"asset"`
	Address   string       `json:"address"`
	Authority string       `json:"authority"`
	Balance   *uint256.Int `json:"balance"`
}
