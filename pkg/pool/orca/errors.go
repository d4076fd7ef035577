package orca

import "errors"

// Arithmetic errors. Each one marks the exact point where the on-chain program
// would fail the same computation.
var (
	ErrDivideByZero           = errors.New("divide by zero")
	ErrMultiplicationOverflow = errors.New("multiplication overflow")
	ErrMulDivOverflow         = errors.New("mul div overflow")
	ErrTokenMaxExceeded       = errors.New("token amount exceeds u64")
	ErrLiquidityOverflow      = errors.New("liquidity overflow")
	ErrLiquidityUnderflow     = errors.New("liquidity underflow")
)

// Bounds errors
var (
	ErrSqrtPriceOutOfBounds  = errors.New("sqrt price out of bounds")
	ErrSqrtPriceMinSubceeded = errors.New("sqrt price below minimum")
	ErrSqrtPriceMaxExceeded  = errors.New("sqrt price above maximum")
	ErrTickIndexOutOfBounds  = errors.New("tick index out of bounds")
)

// Request validity errors
var (
	ErrInvalidSqrtPriceLimitDirection = errors.New("sqrt price limit is in the wrong direction")
	ErrZeroTradableAmount             = errors.New("zero tradable amount")
	ErrInvalidTickRange               = errors.New("invalid tick range")
	ErrInvalidInputTokenMint          = errors.New("input token mint does not belong to pool")
	ErrInvalidPercentage              = errors.New("invalid percentage")
	ErrNegativeTokenAmount            = errors.New("token amount is negative")
)

// Slippage guard errors
var (
	ErrAmountOutBelowMinimum = errors.New("amount out below minimum threshold")
	ErrAmountInAboveMaximum  = errors.New("amount in above maximum threshold")
)

// Structural errors. Callers usually react by fetching a different tick array
// window and quoting again.
var (
	ErrTickArray0MustBeInitialized = errors.New("tick array 0 must be initialized")
	ErrTickArraySequenceInvalid    = errors.New("tick array sequence invalid")
)

// ErrInvalidAccountData is returned by the account decoders.
var ErrInvalidAccountData = errors.New("invalid account data")
