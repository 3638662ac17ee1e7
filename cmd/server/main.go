package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fakenode/pkg/api"
	"fakenode/pkg/config"
	"fakenode/pkg/coord"
	"fakenode/pkg/fixture"
	"fakenode/pkg/log"
	"fakenode/pkg/network"
	"fakenode/pkg/node"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fakenode:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath   string
	fixturesPath string
	savePath     string
	debug        bool
}

func rootCmd() *cobra.Command {
	var opts options
	var conf *config.Config

	cmd := &cobra.Command{
		Use:          "fakenode",
		Short:        "Scriptable fake storage worker node",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if conf, err = config.Load(opts.configPath); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.fixturesPath != "" {
				conf.Fixtures.SQLitePath = opts.fixturesPath
			}
			return initLogging(conf, opts.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, conf, opts.savePath)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: configs/fakenode.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.fixturesPath, "fixtures", "", "sqlite fixture file to load at startup")
	cmd.Flags().StringVar(&opts.savePath, "save-fixtures", "", "sqlite file to write the fixtures to on exit")
	return cmd
}

func initLogging(conf *config.Config, debug bool) error {
	level, err := log.ParseLogLevel(conf.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if debug {
		level = zerolog.DebugLevel
	}
	typ, err := log.ParseLoggerType(conf.Log.Format)
	if err != nil {
		return err
	}
	log.Init(log.Options{LogLevel: level, Type: typ})
	return nil
}

func openCoordinator(ctx context.Context, conf *config.Config) (coord.Client, error) {
	switch conf.Coord.Kind {
	case "memory":
		return coord.NewMemory().Join(), nil
	case "sqlite":
		if conf.Coord.Path == "" {
			return nil, errors.New("coord.path is required for sqlite coordination")
		}
		return coord.OpenSQLite(ctx, conf.Coord.Path)
	default:
		return nil, fmt.Errorf("unknown coord kind %q", conf.Coord.Kind)
	}
}

func run(ctx context.Context, conf *config.Config, savePath string) error {
	store := fixture.NewStore()
	if conf.Fixtures.SQLitePath != "" {
		if err := fixture.LoadSQLite(store, conf.Fixtures.SQLitePath); err != nil {
			return err
		}
	}

	cc, err := openCoordinator(ctx, conf)
	if err != nil {
		return err
	}
	fake, err := node.New(ctx, conf, node.NameFromConfig(conf), cc, node.WithStore(store))
	if err != nil {
		cc.Close()
		return err
	}
	defer fake.Stop("shutdown")

	serial := &sync.Mutex{}
	tcp := network.NewTCPServer(fake,
		network.WithStats(fake.Stats()),
		network.WithLocker(serial),
	)
	errCh := make(chan error, 2)
	go func() { errCh <- tcp.Start(conf.Server.TCPAddr) }()

	var httpSrv *api.Server
	if conf.Server.HTTPAddr != "" {
		httpSrv = api.NewServer(fake, serial)
		go func() { errCh <- httpSrv.Start(conf.Server.HTTPAddr) }()
	}

	log.Root.Info().
		Str("server", fake.ServerName().String()).
		Strs("regions", regionNames(store)).
		Msg("fake node up")

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if httpSrv != nil {
		if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
			log.Root.Warn().Err(serr).Msg("http shutdown")
		}
	}
	if cerr := tcp.Close(); cerr != nil {
		log.Root.Warn().Err(cerr).Msg("tcp close")
	}

	if savePath != "" {
		if derr := fixture.DumpSQLite(store, savePath); derr != nil {
			log.Root.Error().Err(derr).Str("path", savePath).Msg("save fixtures")
		}
	}
	return err
}

func regionNames(store *fixture.Store) []string {
	var out []string
	for _, r := range store.Regions() {
		out = append(out, string(r))
	}
	return out
}
