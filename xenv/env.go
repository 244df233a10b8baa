// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/cybar-labs/cybar/cybar"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64 // unix seconds
}

// Environment an env to execute a ledger call.
type Environment struct {
	caller   cybar.Address
	blockCtx *BlockContext
}

// New create a new env.
func New(caller cybar.Address, blockCtx *BlockContext) *Environment {
	if blockCtx == nil {
		blockCtx = &BlockContext{}
	}
	return &Environment{
		caller:   caller,
		blockCtx: blockCtx,
	}
}

func (env *Environment) Caller() cybar.Address       { return env.caller }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }
func (env *Environment) Number() uint32              { return env.blockCtx.Number }
func (env *Environment) Time() uint64                { return env.blockCtx.Time }

// At returns a copy of env for the same caller at another block.
func (env *Environment) At(number uint32, time uint64) *Environment {
	return New(env.caller, &BlockContext{Number: number, Time: time})
}

// As returns a copy of env for another caller at the same block.
func (env *Environment) As(caller cybar.Address) *Environment {
	ctx := *env.blockCtx
	return New(caller, &ctx)
}
