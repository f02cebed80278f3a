package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"socha/agent"
	"socha/communication"
	"socha/communication/client"
	"socha/config"
	"socha/engine"
	"socha/experiments"
	"socha/experiments/metrics"
	"socha/logging"
	"socha/logic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.LookupEnv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.Setup(cfg.LogLevel, cfg.Pretty)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	sink := logging.NewSink(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Local {
		err = runLocal(ctx, cfg, sink)
	} else {
		err = runRemote(ctx, cfg, sink)
	}
	if err != nil {
		log.Error().Err(err).Msg("client stopped")
		os.Exit(1)
	}
}

func seed(cfg config.Config) uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

func newAgent(cfg config.Config, seed uint64) (agent.Agent, error) {
	switch cfg.Strategy {
	case "lua":
		return agent.NewLuaAgentFromFile(cfg.Script)
	default:
		return agent.NewRandomAgent(seed), nil
	}
}

func runRemote(ctx context.Context, cfg config.Config, sink logging.Sink) error {
	a, err := newAgent(cfg, seed(cfg))
	if err != nil {
		return err
	}
	if l, ok := a.(*agent.LuaAgent); ok {
		defer l.Close()
	}

	var comm communication.Communicator
	switch cfg.Transport {
	case "ws":
		log.Info().Msgf("connecting to %s", cfg.URL)
		comm, err = client.DialWebsocket(ctx, cfg.URL)
	default:
		log.Info().Msgf("connecting to %s", cfg.Address())
		comm, err = client.DialTCP(ctx, cfg.Address())
	}
	if err != nil {
		return err
	}

	l := logic.New(
		logic.WithAgent(a),
		logic.WithSink(sink),
		logic.WithCollector(metrics.NewCollector()),
	)
	e := engine.NewRemoteEngine(comm, l,
		engine.WithJoin(engine.JoinMessage(cfg.Reservation, cfg.Room)),
		engine.WithRemoteSink(sink),
	)
	return e.Run(ctx)
}

func runLocal(ctx context.Context, cfg config.Config, sink logging.Sink) error {
	base := seed(cfg)
	contestant := func(name string, offset uint64) experiments.Contestant {
		return experiments.Contestant{
			Name: name,
			New: func(game int) (agent.Agent, error) {
				return newAgent(cfg, base+offset+uint64(game))
			},
		}
	}
	m := experiments.Matchup{
		First:  contestant(cfg.Strategy+"-1", 1),
		Second: contestant(cfg.Strategy+"-2", 1<<32),
		Games:  cfg.Games,
		Seed:   base,
	}

	games, moves, _, err := experiments.Run(ctx, m, sink)
	if err != nil {
		return err
	}
	if cfg.Record == "" {
		return nil
	}

	dir, err := experiments.Store(cfg.Record, games, moves)
	if err != nil {
		return err
	}
	log.Info().Msgf("stored %d game records in %s", len(games), dir)
	return nil
}
