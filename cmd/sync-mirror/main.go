// Scheduled job keeping the local product mirror in step with every
// configured Lightspeed shop.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lightspeed-sync/internal/adapters/lightspeed"
	"lightspeed-sync/internal/adapters/mirror"
	"lightspeed-sync/internal/app/usecases"
	"lightspeed-sync/internal/config"
	"lightspeed-sync/internal/infra/mysql"
	"lightspeed-sync/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	logger := logging.NewNotifier(cfg.TelegramBot, log.Logger)

	db, err := mysql.New(cfg.Mysql)
	if err != nil {
		logger.LogError("Error connecting to mysql", err)
		os.Exit(1)
	}
	defer db.Close()

	store := mirror.NewStore(db)

	ctx := context.Background()
	shops, err := store.ListShops(ctx)
	if err != nil {
		logger.LogError("Error listing shops", err)
		os.Exit(1)
	}

	clients := make(map[string]lightspeed.ClientService, len(shops))
	for _, shop := range shops {
		key, secret, err := cfg.Lightspeed.Credentials(shop.TLD)
		if err != nil {
			logger.LogWarning(fmt.Sprintf("Shop tld=%s skipped: %v", shop.TLD, err))
			continue
		}
		clients[shop.TLD] = lightspeed.NewClient(cfg.Lightspeed, key, secret, nil)
	}

	logger.Log(fmt.Sprintf("Mirror sync job starting shops=%d", len(clients)))

	syncMirror := usecases.NewSyncMirror(clients, store, logger)
	if err := syncMirror.Run(ctx); err != nil {
		logger.LogError("Mirror sync finished with errors", err)
		os.Exit(1)
	}
}
