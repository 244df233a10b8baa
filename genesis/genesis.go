// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial ledger: its addresses, emission,
// pools and token allocations.
package genesis

import (
	"bytes"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cybar-labs/cybar/asset"
	"github.com/cybar-labs/cybar/builtin/barkeeper"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/log"
	"github.com/cybar-labs/cybar/state"
	"github.com/cybar-labs/cybar/xenv"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis is the user supplied genesis file.
type Genesis struct {
	LaunchBlock uint32 `yaml:"launchBlock"`
	LaunchTime  uint64 `yaml:"launchTime"`

	RewardAsset  cybar.Address `yaml:"rewardAsset"`
	ReceiptAsset cybar.Address `yaml:"receiptAsset"`
	Owner        cybar.Address `yaml:"owner"`
	Dev          cybar.Address `yaml:"dev"`
	Treasury     cybar.Address `yaml:"treasury"`

	Emission    Emission     `yaml:"emission"`
	Pools       []Pool       `yaml:"pools"`
	Allocations []Allocation `yaml:"allocations"`
}

// Emission parameters of the reward asset.
type Emission struct {
	RewardPerBlock *HexOrDecimal256 `yaml:"rewardPerBlock"`
	Multiplier     *uint64          `yaml:"multiplier"`
	StartBlock     uint32           `yaml:"startBlock"`
	StakingWeight  *uint64          `yaml:"stakingWeight"`
}

// Pool is a collateral pool registered at genesis.
type Pool struct {
	Asset  cybar.Address `yaml:"asset"`
	Weight uint64        `yaml:"weight"`
	FeeBP  uint64        `yaml:"feeBP"`
	Window uint64        `yaml:"window"`
}

// Allocation mints amount of asset to account.
type Allocation struct {
	Asset   cybar.Address    `yaml:"asset"`
	Account cybar.Address    `yaml:"account"`
	Amount  *HexOrDecimal256 `yaml:"amount"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *HexOrDecimal256) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected an integer", node.Line)
	}
	bigint, ok := math.ParseBig256(node.Value)
	if !ok {
		return errors.Errorf("line %d: invalid hex or decimal integer %q", node.Line, node.Value)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (i HexOrDecimal256) MarshalYAML() (any, error) {
	return (*big.Int)(&i).String(), nil
}

// Big returns the value, zero when i is nil.
func (i *HexOrDecimal256) Big() *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(i))
}

// Load reads and validates the genesis file at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes and validates a yaml genesis. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Encode writes g as yaml.
func (g *Genesis) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Config returns the ledger config described by g.
func (g *Genesis) Config() barkeeper.Config {
	cfg := barkeeper.DefaultConfig()
	cfg.RewardAsset = g.RewardAsset
	cfg.ReceiptAsset = g.ReceiptAsset
	cfg.Owner = g.Owner
	cfg.Dev = g.Dev
	cfg.Treasury = g.Treasury
	cfg.BaseRewardPerBlock = g.Emission.RewardPerBlock.Big()
	cfg.StartBlock = g.Emission.StartBlock
	if g.Emission.Multiplier != nil {
		cfg.Multiplier = *g.Emission.Multiplier
	}
	if g.Emission.StakingWeight != nil {
		cfg.StakingWeight = *g.Emission.StakingWeight
	}
	return cfg
}

func (g *Genesis) Validate() error {
	cfg := g.Config()
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "genesis")
	}
	if g.Owner.IsZero() {
		return errors.New("genesis: owner is required")
	}

	seen := map[cybar.Address]bool{g.RewardAsset: true}
	for i, p := range g.Pools {
		if p.Asset.IsZero() {
			return errors.Errorf("genesis: pool %d: asset is required", i+1)
		}
		if seen[p.Asset] {
			return errors.Errorf("genesis: pool %d: asset %v already has a pool", i+1, p.Asset)
		}
		seen[p.Asset] = true
		if p.FeeBP > cybar.MaxWithdrawalFeeBP {
			return errors.Errorf("genesis: pool %d: fee %d exceeds %d", i+1, p.FeeBP, cybar.MaxWithdrawalFeeBP)
		}
		if p.Window > cybar.MaxWithdrawalFeeWindow {
			return errors.Errorf("genesis: pool %d: window %d exceeds %d", i+1, p.Window, cybar.MaxWithdrawalFeeWindow)
		}
	}

	for i, a := range g.Allocations {
		if a.Asset.IsZero() || a.Account.IsZero() {
			return errors.Errorf("genesis: allocation %d: asset and account are required", i)
		}
		if a.Amount == nil || a.Amount.Big().Sign() < 1 {
			return errors.Errorf("genesis: allocation %d: amount must be a positive integer", i)
		}
		if a.Asset == g.ReceiptAsset {
			return errors.Errorf("genesis: allocation %d: receipt asset is minted by staking only", i)
		}
	}
	return nil
}

// Env returns the environment genesis calls run in.
func (g *Genesis) Env() *xenv.Environment {
	return xenv.New(g.Owner, &xenv.BlockContext{Number: g.LaunchBlock, Time: g.LaunchTime})
}

// Build writes the genesis ledger into st. Nothing is written when it fails.
func (g *Genesis) Build(st *state.State) (*barkeeper.Barkeeper, *asset.Ledger, error) {
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}

	rev := st.NewCheckpoint()
	bk, ledger, err := g.build(st)
	if err != nil {
		st.RevertTo(rev)
		return nil, nil, err
	}
	logger.Info("genesis built",
		"pools", len(g.Pools)+1,
		"allocations", len(g.Allocations),
		"launchBlock", g.LaunchBlock,
	)
	return bk, ledger, nil
}

func (g *Genesis) build(st *state.State) (*barkeeper.Barkeeper, *asset.Ledger, error) {
	ledger := asset.NewLedger(st, cybar.BarkeeperAddress)
	for i, a := range g.Allocations {
		if err := ledger.Mint(a.Asset, a.Account, a.Amount.Big()); err != nil {
			return nil, nil, errors.Wrapf(err, "allocation %d", i)
		}
	}

	bk := barkeeper.New(cybar.BarkeeperAddress, st, ledger)
	env := g.Env()
	if err := bk.Initialize(env, g.Config()); err != nil {
		return nil, nil, errors.Wrap(err, "initialize")
	}
	for i, p := range g.Pools {
		id, err := bk.Add(env, p.Weight, p.Asset, false)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "pool %d", i+1)
		}
		if p.FeeBP == 0 && p.Window == 0 {
			continue
		}
		if err := bk.SetWithdrawal(env, id, p.FeeBP, p.Window); err != nil {
			return nil, nil, errors.Wrapf(err, "pool %d", i+1)
		}
	}
	return bk, ledger, nil
}
