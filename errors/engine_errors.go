package errors

import (
	"errors"

	"stakemine/jsonx"
)

// EngineErrorCode represents standardized error codes for engine and ledger operations
type EngineErrorCode string

const (
	// General errors
	ErrCodeInternal EngineErrorCode = "internal_error"

	// Validation errors
	ErrCodeInvalidRequest    EngineErrorCode = "invalid_request"
	ErrCodeInvalidAmount     EngineErrorCode = "invalid_amount"
	ErrCodeInvalidRewardRate EngineErrorCode = "invalid_reward_rate"

	// Pool lifecycle errors
	ErrCodePoolExisted          EngineErrorCode = "pool_existed"
	ErrCodePoolNotFound         EngineErrorCode = "pool_not_found"
	ErrCodeInvalidMintAuthority EngineErrorCode = "invalid_mint_authority"

	// Position lifecycle errors
	ErrCodeAlreadyActivePosition EngineErrorCode = "already_active_position"
	ErrCodeNoActivePosition      EngineErrorCode = "no_active_position"

	// Funding errors
	ErrCodeInsufficientTokenBalance EngineErrorCode = "insufficient_token_balance"
	ErrCodeInsufficientVaultBalance EngineErrorCode = "insufficient_vault_balance"

	// Accounting errors
	ErrCodeArithmeticOverflow EngineErrorCode = "arithmetic_overflow"

	// Ledger errors
	ErrCodeAssetExisted      EngineErrorCode = "asset_existed"
	ErrCodeAssetNotFound     EngineErrorCode = "asset_not_found"
	ErrCodeAccountNotFound   EngineErrorCode = "account_not_found"
	ErrCodeInsufficientFunds EngineErrorCode = "insufficient_funds"
	ErrCodeUnauthorized      EngineErrorCode = "unauthorized"
)

// EngineError represents a standardized engine error
type EngineError struct {
	Code    EngineErrorCode `json:"code"`
	Message string          `json:"message"`
}

// Error implements the error interface
func (e *EngineError) Error() string {
	err, _ := jsonx.Marshal(EngineError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// New creates an EngineError with the given code and message
func New(code EngineErrorCode, message string) *EngineError {
	return &EngineError{Code: code, Message: message}
}

// CodeOf extracts the engine error code from err, or ErrCodeInternal if err
// is not an EngineError
func CodeOf(err error) EngineErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given engine error code
func HasCode(err error, code EngineErrorCode) bool {
	return CodeOf(err) == code
}
