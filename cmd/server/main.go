package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/UParthsarathi/3Poker-exp/internal/gateway"
	"github.com/UParthsarathi/3Poker-exp/internal/history"
	"github.com/UParthsarathi/3Poker-exp/internal/room"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	store, storeMode, err := room.NewStoreFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init room store")
	}
	defer store.Close()

	opts := []room.ServiceOption{}
	if getEnv("HISTORY", "on") != "off" {
		ledger, err := history.NewSQLiteServiceFromEnv()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init history ledger")
		}
		defer ledger.Close()
		opts = append(opts, room.WithRecorder(ledger))
	}

	svc := room.NewService(store, log.Logger, opts...)
	gw := gateway.New(svc, log.Logger)

	addr := ":" + getEnv("PORT", "8080")
	log.Info().Str("store", storeMode).Str("addr", addr).Msg("starting room server")
	if err := http.ListenAndServe(addr, gw.Router()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
