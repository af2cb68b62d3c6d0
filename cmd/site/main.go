// Package main contains the entrypoint for the RoborNET site backend.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"google.golang.org/genai"

	"github.com/edgard/robornet/internal/catalog"
	"github.com/edgard/robornet/internal/chat"
	"github.com/edgard/robornet/internal/config"
	"github.com/edgard/robornet/internal/database"
	"github.com/edgard/robornet/internal/gemini"
	"github.com/edgard/robornet/internal/logger"
	"github.com/edgard/robornet/internal/openai"
	"github.com/edgard/robornet/internal/promo"
	"github.com/edgard/robornet/internal/relay"
	"github.com/edgard/robornet/internal/sanitize"
	"github.com/edgard/robornet/internal/site"
	"github.com/edgard/robornet/internal/site/handlers"
	"github.com/edgard/robornet/internal/site/tasks"
	"github.com/edgard/robornet/internal/visitor"
	"github.com/edgard/robornet/internal/voice"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logger, database, assistants, relay, voice bridge, scheduler
// and HTTP server, blocks until ctx is cancelled and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)
	clock := clockwork.NewRealClock()

	gi, err := gemini.NewGenAI(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	tariffs := catalog.Tariffs()
	contacts := catalog.ContactInfo()

	completer, err := newCompleter(cfg, gi, catalog.ChatInstruction(tariffs, contacts), log)
	if err != nil {
		log.Error("Failed to initialize chat assistant", "provider", cfg.Chat.Provider, "error", err)
		return 1
	}
	chats := chat.NewManager(completer, chat.Options{
		FallbackPhone:  contacts.PhoneShort,
		RequestTimeout: cfg.Chat.RequestTimeout,
		Render:         sanitize.NewChatPolicy().HTML,
		Clock:          clock,
		Logger:         log,
	})

	relayClient := relay.NewClient(cfg.Relay.URL,
		relay.WithTimeout(cfg.Relay.Timeout),
		relay.WithBreaker(relay.NewBreaker(cfg.Relay.BreakerFailures, cfg.Relay.BreakerCooldown, log)))
	runner := relay.NewRunner(relayClient, store, clock, log, cfg.Relay.MaxExchanges)
	dispatcher := relay.NewDispatcher(runner, relay.DispatcherConfig{Workers: cfg.Relay.Workers}, clock, log)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Chat:     chats,
		Promo:    promo.NewService(store, clock, log),
		Visitors: visitor.NewService(store, clock),
		Clock:    clock,
		Voice: voice.Options{
			Connector:        gemini.NewLiveConnector(gi, cfg.Voice, catalog.VoiceInstruction(tariffs, contacts)),
			Relay:            dispatcher,
			Clock:            clock,
			Logger:           log,
			OutputSampleRate: cfg.Voice.OutputSampleRate,
			PlaybackLead:     cfg.Voice.PlaybackLead,
			ConnectTimeout:   cfg.Voice.ConnectTimeout,
			Kickoff:          catalog.VoiceKickoff,
		},
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Chat:   chats,
		Config: cfg,
		Clock:  clock,
	}

	sched, err := site.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps),
		gocron.WithLogger(logger.NewGocronLogger(log)))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := site.New(log, cfg, site.NewApp(cfg.HTTP, hDeps), sched, dispatcher)

	log.Info("Starting site...", "addr", cfg.HTTP.Addr)
	runErr := app.Run(ctx)
	log.Info("Site run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Site stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Site stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

// newCompleter picks the text assistant backend from chat.provider.
func newCompleter(cfg *config.Config, gi *genai.Client, instruction string, log *slog.Logger) (chat.Completer, error) {
	if cfg.Chat.Provider == config.ProviderOpenAI {
		oc, err := openai.NewClient(cfg.OpenAI, instruction, log)
		if err != nil {
			return nil, err
		}
		return oc, nil
	}
	return gemini.NewClient(gi, cfg.Gemini, instruction, log), nil
}
