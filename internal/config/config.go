package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory where the wallet store lives.
	DatadirKey = "DATADIR"
	// LogLevelKey selects the logging level. For reference on the values
	// https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey selects the bitcoin network, one of mainnet, testnet,
	// regtest.
	NetworkKey = "NETWORK"
	// BackendURLKey is the base url of the co-signing backend service.
	BackendURLKey = "BACKEND_URL"
	// UserPublicKeyKey is the user's base extended public key, set once at
	// wallet setup.
	UserPublicKeyKey = "USER_PUBLIC_KEY"
	// BackendRequestsPerSecondKey bounds the client-side request rate
	// towards the backend.
	BackendRequestsPerSecondKey = "BACKEND_REQUESTS_PER_SECOND"
	// NotificationPollIntervalKey is the interval of the notification poll
	// loop in seconds.
	NotificationPollIntervalKey = "NOTIFICATION_POLL_INTERVAL"
	// SyncRetriesKey is the number of attempts of the background key set
	// sync triggered after an allocation.
	SyncRetriesKey = "SYNC_RETRIES"
	// SyncRetryDelayKey is the base delay between those attempts in seconds.
	SyncRetryDelayKey = "SYNC_RETRY_DELAY"

	// DbLocation is the dir under the datadir holding the badger store.
	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("nautilus", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("NAUTILUS")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(NetworkKey, "mainnet")
	vip.SetDefault(BackendRequestsPerSecondKey, 10)
	vip.SetDefault(NotificationPollIntervalKey, 30)
	vip.SetDefault(SyncRetriesKey, 3)
	vip.SetDefault(SyncRetryDelayKey, 2)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetChainParams maps the configured network to its chain parameters.
func GetChainParams() (*chaincfg.Params, error) {
	switch GetString(NetworkKey) {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %s", GetString(NetworkKey))
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if !vip.IsSet(BackendURLKey) {
		return fmt.Errorf("missing backend url")
	}

	if !vip.IsSet(UserPublicKeyKey) {
		return fmt.Errorf("missing user base public key")
	}

	if _, err := GetChainParams(); err != nil {
		return err
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(GetDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
