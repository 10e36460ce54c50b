package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nautilus-wallet/nautilus-daemon/internal/config"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/address"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/notification"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/realtime"
	"github.com/nautilus-wallet/nautilus-daemon/internal/core/application/swap"
	"github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/backend"
	"github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/deriver"
	dbbadger "github.com/nautilus-wallet/nautilus-daemon/internal/infrastructure/storage/db/badger"
)

// nautilusd is the background agent of the wallet: it keeps the public key
// set in sync with the co-signing backend, keeps the fee and exchange rate
// windows warm and polls for notifications to register swap settlements.
func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := dbbadger.NewRepoManager(config.GetDbDir(), nil)
	if err != nil {
		log.WithError(err).Fatal("cannot open wallet store")
	}
	defer repoManager.Close()

	backendSvc, err := backend.NewService(
		config.GetString(config.BackendURLKey),
		config.GetInt(config.BackendRequestsPerSecondKey),
	)
	if err != nil {
		log.WithError(err).Fatal("cannot setup backend client")
	}

	chainParams, err := config.GetChainParams()
	if err != nil {
		log.WithError(err).Fatal("invalid network")
	}

	keyDeriver, err := deriver.NewKeyDeriver(chainParams)
	if err != nil {
		log.WithError(err).Fatal("cannot setup key deriver")
	}

	addressSvc, err := address.NewService(
		repoManager, backendSvc, keyDeriver,
		config.GetInt(config.SyncRetriesKey),
		time.Duration(config.GetInt(config.SyncRetryDelayKey))*time.Second,
	)
	if err != nil {
		log.WithError(err).Fatal("cannot setup address service")
	}
	swapSvc, err := swap.NewService(repoManager, backendSvc, chainParams)
	if err != nil {
		log.WithError(err).Fatal("cannot setup swap service")
	}
	realtimeSvc, err := realtime.NewService(repoManager, backendSvc, nil)
	if err != nil {
		log.WithError(err).Fatal("cannot setup realtime service")
	}
	notificationSvc, err := notification.NewService(
		backendSvc, swapSvc,
		time.Duration(config.GetInt(config.NotificationPollIntervalKey))*time.Second,
	)
	if err != nil {
		log.WithError(err).Fatal("cannot setup notification service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := repoManager.KeySetRepository().GetOrCreateKeySet(
		ctx, config.GetString(config.UserPublicKeyKey),
	); err != nil {
		log.WithError(err).Fatal("cannot initialize wallet key set")
	}

	if err := addressSvc.SyncPublicKeySet(ctx); err != nil {
		log.WithError(err).Warn("startup key set sync failed")
	}
	if _, err := realtimeSvc.Fetch(ctx); err != nil {
		log.WithError(err).Warn("startup realtime data fetch failed")
	}

	go notificationSvc.Run(ctx)

	log.Info("nautilusd is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("exiting")
}
