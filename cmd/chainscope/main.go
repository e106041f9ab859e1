package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"chainscope/internal/cex"
	"chainscope/internal/config"
	"chainscope/internal/filters"
	"chainscope/internal/mode"
	"chainscope/internal/nav"
	"chainscope/internal/notify"
	"chainscope/internal/registry"
	"chainscope/internal/store"
	"chainscope/internal/theme"
	"chainscope/internal/tokens"
	"chainscope/internal/tui"
)

func main() {
	chainFlag := flag.String("chain", "", "start on a single chain scope")
	cexFlag := flag.String("cex", "", "start in exchange scope")
	debugFlag := flag.Bool("debug", false, "log debug output to chainscope.log")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := buildLogger(*debugFlag)
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	kv, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer kv.Close()

	chains := registry.DefaultChains().WithOverrides(cfg.Registry.Chains)
	exchanges := registry.DefaultExchanges().WithOverrides(cfg.Registry.Exchanges)
	toasts := notify.NewChannel()

	history := nav.NewHistory(initialParams(cfg, *chainFlag, *cexFlag, chains, toasts), logger)
	resolver := mode.NewResolver(history, chains)
	themeMgr := theme.NewManager(chains, exchanges, logger)
	filterStore := filters.New(kv, resolver, chains, registry.DefaultDexes(), logger)
	pool := tokens.NewPool(kv, chains, filterStore, logger)

	controller := cex.New(cex.Deps{
		Nav:       history,
		Store:     kv,
		Resolver:  resolver,
		Exchanges: exchanges,
		Theme:     themeMgr,
		Notify:    toasts,
		Log:       logger,
	})
	controller.Start()
	<-controller.Ready()

	if len(pool.Aggregate()) == 0 {
		toasts.Post(notify.LevelInfo, "no token data yet; pools fill in as ingestion writes the store")
	}

	app := tui.New(tui.Engine{
		Nav:        history,
		Resolver:   resolver,
		Controller: controller,
		Filters:    filterStore,
		Pool:       pool,
		Theme:      themeMgr,
		Chains:     chains,
		Exchanges:  exchanges,
		Toasts:     toasts,
	}, cfg)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// initialParams seeds navigation from flags and config. An unknown chain
// degrades to the aggregate view like any other resolution; the toast is
// the only place the difference surfaces.
func initialParams(cfg config.Config, chainFlag, cexFlag string, chains registry.Chains, toasts *notify.Channel) nav.Params {
	params := nav.Params{}

	if cexFlag != "" {
		params[nav.ParamCex] = strings.ToUpper(strings.TrimSpace(cexFlag))
		return params
	}

	chain := strings.TrimSpace(chainFlag)
	if chain == "" {
		chain = strings.TrimSpace(cfg.UI.DefaultChain)
	}
	if chain == "" || strings.EqualFold(chain, "all") {
		return params
	}
	if !chains.Has(chain) {
		msg := "unknown chain " + chain
		if near := chains.Nearest(chain); near != "" {
			msg += ", did you mean " + near + "?"
		}
		toasts.Post(notify.LevelWarn, msg)
		return params
	}
	params[nav.ParamChain] = strings.ToLower(chain)
	return params
}

func buildLogger(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"chainscope.log"}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
