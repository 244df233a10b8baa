// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package barkeeper

import (
	"math/big"

	"github.com/cybar-labs/cybar/asset"
	"github.com/cybar-labs/cybar/builtin/barkeeper/reverts"
	"github.com/cybar-labs/cybar/cybar"
)

// TransferError is returned for any failure of the underlying assets. It
// matches both reverts.ErrTransferFailed and its cause.
type TransferError struct {
	Op    string
	Cause error
}

func (e *TransferError) Error() string {
	return reverts.ErrTransferFailed.Error() + ": " + e.Op + ": " + e.Cause.Error()
}

func (e *TransferError) Unwrap() []error {
	return []error{reverts.ErrTransferFailed, e.Cause}
}

// guardedAssets wraps every failure of the inner assets into a TransferError.
type guardedAssets struct {
	inner asset.Assets
}

var _ asset.Assets = (*guardedAssets)(nil)

func wrapTransfer(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransferError{Op: op, Cause: err}
}

func (g *guardedAssets) TransferIn(a, from cybar.Address, amount *big.Int) error {
	return wrapTransfer("transfer in", g.inner.TransferIn(a, from, amount))
}

func (g *guardedAssets) TransferOut(a, to cybar.Address, amount *big.Int) error {
	return wrapTransfer("transfer out", g.inner.TransferOut(a, to, amount))
}

func (g *guardedAssets) Mint(a, to cybar.Address, amount *big.Int) error {
	return wrapTransfer("mint", g.inner.Mint(a, to, amount))
}

func (g *guardedAssets) Burn(a, from cybar.Address, amount *big.Int) error {
	return wrapTransfer("burn", g.inner.Burn(a, from, amount))
}

func (g *guardedAssets) BalanceOf(a, account cybar.Address) (*big.Int, error) {
	bal, err := g.inner.BalanceOf(a, account)
	return bal, wrapTransfer("balance", err)
}
