// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/cybar-labs/cybar/asset"
	"github.com/cybar-labs/cybar/builtin/barkeeper"
	"github.com/cybar-labs/cybar/builtin/barkeeper/accrual"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/genesis"
	"github.com/cybar-labs/cybar/log"
	"github.com/cybar-labs/cybar/lvldb"
	"github.com/cybar-labs/cybar/metrics"
	"github.com/cybar-labs/cybar/state"
	"github.com/cybar-labs/cybar/xenv"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func newLogHandler(ctx *cli.Context, verbosity int) slog.Handler {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(verbosity))

	if ctx.Bool(jsonLogsFlag.Name) {
		return log.JSONHandlerWithLevel(os.Stderr, &level)
	}
	fd := os.Stderr.Fd()
	useColor := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
	return log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
}

func initLogger(ctx *cli.Context) {
	log.SetDefault(log.NewLogger(newLogHandler(ctx, ctx.Int(verbosityFlag.Name))))

	if ctx.IsSet(verbosityLedgerFlag.Name) {
		ledgerLogger := log.NewLogger(newLogHandler(ctx, ctx.Int(verbosityLedgerFlag.Name)))
		barkeeper.SetLogger(ledgerLogger.With("pkg", "barkeeper"))
		accrual.SetLogger(ledgerLogger.With("pkg", "accrual"))
	}
}

func initMetrics(ctx *cli.Context) {
	if ctx.Bool(dumpMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
}

func dumpMetrics(ctx *cli.Context) {
	if !ctx.Bool(dumpMetricsFlag.Name) {
		return
	}
	if err := metrics.WriteText(os.Stdout); err != nil {
		log.Warn("failed to dump metrics", "err", err)
	}
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if ctx.Bool(devFlag.Name) {
		return genesis.NewDevnet(), nil
	}
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return nil, errors.New("either --genesis or --dev is required")
	}
	return genesis.Load(path)
}

// parseAddress accepts a hex address or dev:<n>.
func parseAddress(s string) (cybar.Address, error) {
	if idx, ok := strings.CutPrefix(s, "dev:"); ok {
		n, err := strconv.Atoi(idx)
		accs := genesis.DevAccounts()
		if err != nil || n < 0 || n >= len(accs) {
			return cybar.Address{}, errors.Errorf("invalid dev account %q, expected dev:0..dev:%d", s, len(accs)-1)
		}
		return accs[n].Address, nil
	}
	addr, err := cybar.ParseAddress(s)
	if err != nil {
		return cybar.Address{}, errors.Wrapf(err, "invalid address %q", s)
	}
	return *addr, nil
}

func addressArg(ctx *cli.Context, flag cli.StringFlag) (cybar.Address, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return cybar.Address{}, errors.Errorf("--%s is required", flag.Name)
	}
	return parseAddress(s)
}

func amountArg(ctx *cli.Context) (*big.Int, error) {
	s := ctx.String(amountFlag.Name)
	if s == "" {
		return nil, errors.Errorf("--%s is required", amountFlag.Name)
	}
	amount, ok := ethmath.ParseBig256(s)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

func makeEnv(ctx *cli.Context) (*xenv.Environment, error) {
	var caller cybar.Address
	if s := ctx.String(callerFlag.Name); s != "" {
		addr, err := parseAddress(s)
		if err != nil {
			return nil, err
		}
		caller = addr
	}
	number := ctx.Uint64(blockFlag.Name)
	if number > math.MaxUint32 {
		return nil, errors.Errorf("block %d out of range", number)
	}
	now := ctx.Uint64(timeFlag.Name)
	if !ctx.IsSet(timeFlag.Name) {
		now = uint64(time.Now().Unix())
	}
	return xenv.New(caller, &xenv.BlockContext{Number: uint32(number), Time: now}), nil
}

func openMainDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return nil, errors.New("unable to infer default data dir, use --data-dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return lvldb.New(filepath.Join(dir, "main.db"), lvldb.Options{
		CacheSize:              16,
		OpenFilesCacheCapacity: 64,
	})
}

// session is one ledger call against the database. Its writes reach the
// database only through commit.
type session struct {
	db     *lvldb.LevelDB
	st     *state.State
	ledger *asset.Ledger
	bk     *barkeeper.Barkeeper
}

func openSession(ctx *cli.Context) (*session, error) {
	db, err := openMainDB(ctx)
	if err != nil {
		return nil, err
	}
	st := state.New(db)
	ledger := asset.NewLedger(st, cybar.BarkeeperAddress)
	return &session{
		db:     db,
		st:     st,
		ledger: ledger,
		bk:     barkeeper.New(cybar.BarkeeperAddress, st, ledger),
	}, nil
}

func (s *session) initialized() (bool, error) {
	n, err := s.bk.PoolLength()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *session) commit() error {
	hit, miss := s.st.CacheStats()
	log.Debug("storage cache", "hit", hit, "miss", miss)

	stage := s.st.Stage()
	if stage.Len() == 0 {
		return nil
	}
	hash, err := stage.Commit(s.db)
	if err != nil {
		return errors.Wrap(err, "commit")
	}
	log.Debug("state committed", "slots", stage.Len(), "hash", hash.AbbrevString())
	return nil
}

func (s *session) close() {
	if err := s.db.Close(); err != nil {
		log.Warn("failed to close database", "err", err)
	}
}

// ledgerAction runs fn against an initialized ledger and commits its writes
// when it succeeds.
func ledgerAction(fn func(ctx *cli.Context, s *session) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		initLogger(ctx)
		initMetrics(ctx)
		defer dumpMetrics(ctx)

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		ok, err := s.initialized()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("ledger is not initialized, run init first")
		}
		if err := fn(ctx, s); err != nil {
			return err
		}
		return s.commit()
	}
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.cybar.ledger")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.cybar.ledger")
		default:
			return filepath.Join(home, ".org.cybar.ledger")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
