package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/nautilus-wallet/nautilus-daemon/internal/config"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/address"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/realtime"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/swap"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/ports"
	"github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/backend"
	"github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/deriver"
	dbbadger "github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/storage/db/badger"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "nautilus CLI"
	app.Usage = "Command line interface for the nautilus wallet"
	app.Commands = append(
		app.Commands,
		&newaddress,
		&synckeyset,
		&requestswap,
		&swapfee,
		&listswaps,
		&rates,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

type services struct {
	repoManager ports.RepoManager
	addressSvc  *address.Service
	swapSvc     *swap.Service
	realtimeSvc *realtime.Service
}

// buildServices wires the application services on the local wallet store.
// The CLI expects nautilusd to be stopped since badger serializes access to
// the datadir.
func buildServices() (*services, error) {
	if err := config.InitConfig(); err != nil {
		return nil, err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := dbbadger.NewRepoManager(config.GetDbDir(), nil)
	if err != nil {
		return nil, fmt.Errorf("opening wallet store: %w", err)
	}

	backendSvc, err := backend.NewService(
		config.GetString(config.BackendURLKey),
		config.GetInt(config.BackendRequestsPerSecondKey),
	)
	if err != nil {
		return nil, err
	}

	chainParams, err := config.GetChainParams()
	if err != nil {
		return nil, err
	}
	keyDeriver, err := deriver.NewKeyDeriver(chainParams)
	if err != nil {
		return nil, err
	}

	addressSvc, err := address.NewService(
		repoManager, backendSvc, keyDeriver,
		config.GetInt(config.SyncRetriesKey),
		time.Duration(config.GetInt(config.SyncRetryDelayKey))*time.Second,
	)
	if err != nil {
		return nil, err
	}
	swapSvc, err := swap.NewService(repoManager, backendSvc, chainParams)
	if err != nil {
		return nil, err
	}
	realtimeSvc, err := realtime.NewService(repoManager, backendSvc, nil)
	if err != nil {
		return nil, err
	}

	return &services{repoManager, addressSvc, swapSvc, realtimeSvc}, nil
}

func (s *services) close() {
	s.repoManager.Close()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[nautilus] %v\n", err)
	os.Exit(1)
}
