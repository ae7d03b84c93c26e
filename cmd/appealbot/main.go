package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sayyorqabul/appealbot/internal/bot"
	"github.com/sayyorqabul/appealbot/internal/config"
	"github.com/sayyorqabul/appealbot/internal/db"
	"github.com/sayyorqabul/appealbot/internal/dialogue"
	"github.com/sayyorqabul/appealbot/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var primary storage.Store
	if cfg.StoreDriver == config.StoreCSV {
		primary = storage.NewCSVStore(cfg.CSVPath, cfg.AppealTypes)
	} else {
		database, err := db.New(cfg)
		if err != nil {
			slog.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := db.CreateSchema(database.Conn); err != nil {
			slog.Error("Error creating schema", "error", err)
			os.Exit(1)
		}
		primary = db.NewAppealRepository(database.Conn)
	}
	slog.Info("Primary store ready", "driver", cfg.StoreDriver)

	mirror := storage.NewSheetsMirror(ctx, storage.SheetsConfig{
		SpreadsheetID:   cfg.SheetsID,
		Range:           cfg.SheetsRange,
		CredentialsFile: cfg.SheetsCredentialsFile,
		CredentialsJSON: cfg.SheetsCredentialsJSON,
	}, cfg.AppealTypes)
	sink := storage.NewSink(primary, mirror)

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		slog.Error("Error creating telegram bot", "error", err)
		os.Exit(1)
	}

	operators := bot.NewOperators(cfg.OperatorIDs)
	if len(operators.IDs()) == 0 {
		slog.Warn("OPERATOR_IDS is empty, appeals will not be forwarded")
	}

	engine := dialogue.New(
		bot.NewMessenger(botAPI),
		sink,
		bot.NewNotifier(botAPI, operators, logger),
		dialogue.NewMemoryStore(cfg.SessionTTL),
		dialogue.Options{
			AppealTypes: cfg.AppealTypes,
			Logger:      logger,
		},
	)

	botService := bot.New(botAPI, engine, sink, operators, logger)
	if err := botService.RegisterCommands(); err != nil {
		slog.Warn("Error registering bot commands", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		botAPI.StopReceivingUpdates()
	}()

	slog.Info("Bot started", "username", botAPI.Self.UserName, "appeal_types", cfg.AppealTypes)

	botService.Start(ctx, updates)

	slog.Info("Bot stopped")
}
