// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/state"
)

// Context binds storage slots to a contract address within a state.
type Context struct {
	address cybar.Address
	state   *state.State
}

func NewContext(address cybar.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() cybar.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
