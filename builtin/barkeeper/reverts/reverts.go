// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a business rule violation. A call that fails with it leaves
// no trace in state.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

var (
	ErrUnauthorized        = New("caller is not authorized")
	ErrInvalidFee          = New("withdrawal fee exceeds maximum")
	ErrInvalidFeeWindow    = New("withdrawal fee window exceeds maximum")
	ErrInsufficientBalance = New("withdraw amount exceeds deposit")
	ErrInsufficientStake   = New("leave amount exceeds stake")
	ErrTransferFailed      = New("asset transfer failed")
	ErrInvalidPool         = New("invalid pool")
	ErrDuplicatedPool      = New("pool already exists for asset")
	ErrInvalidAmount       = New("invalid amount")
	ErrAlreadyInitialized  = New("already initialized")
	ErrWeightOverflow      = New("total weight overflows")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
