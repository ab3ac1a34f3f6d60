package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"dexspread/internal/infrastructure/config"
	"dexspread/internal/infrastructure/logger"
	"dexspread/internal/infrastructure/svc"
	"dexspread/internal/interfaces/telegram"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Setup(false)
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.Setup(cfg.App.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("service initialization failed")
	}
	defer func() {
		_ = sc.Close()
	}()

	bot := telegram.NewBot(telegram.NewClient(cfg.Telegram.Token), sc.BuildBotDeps())

	log.Info().
		Str("config", *configPath).
		Int("instruments", len(cfg.Instruments.List)).
		Strs("venues", cfg.EnabledVenues()).
		Float64("default_min_profit", cfg.App.DefaultMinProfit).
		Msg("dexspread started")

	if err := bot.Run(ctx); err != nil {
		log.Error().Err(err).Msg("telegram bot exited")
	}
}
