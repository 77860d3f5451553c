package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aiwuxian/tile-crawler/internal/api"
	"github.com/aiwuxian/tile-crawler/internal/cache"
	"github.com/aiwuxian/tile-crawler/internal/corelog"
	"github.com/aiwuxian/tile-crawler/internal/eventstream"
	"github.com/aiwuxian/tile-crawler/internal/llm"
	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/narrative"
	"github.com/aiwuxian/tile-crawler/internal/router"
	"github.com/aiwuxian/tile-crawler/internal/scheduler"
	"github.com/aiwuxian/tile-crawler/internal/session"
	"github.com/aiwuxian/tile-crawler/internal/storage"
	"github.com/aiwuxian/tile-crawler/internal/world"
)

// prefetchConcurrency bounds each session's background ENRICHMENT worker
// pool, separate from (and much smaller than) whatever concurrency the
// process's HTTP server handles foreground requests with.
const prefetchConcurrency = 2

func main() {
	config, err := loadConfig("config.yml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := corelog.Initialize(config.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(config.Database.Path)
	if err != nil {
		corelog.Logger().Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := newLLMClient(config.LLM)
	limiter := newRateLimiter(config.RateLimit)
	defs := world.ItemDefinitions()

	manager := session.NewManager(func(id string) *session.Session {
		return newSession(id, config, client, limiter, store)
	}, session.DefaultTimeout)

	handler := api.NewHandler(manager, store, defs, config.Game)

	r := gin.Default()
	r.GET("/", handler.Health)
	r.GET("/api/health", handler.Health)

	game := r.Group("/api/game")
	{
		game.POST("/new", handler.NewGame)
		game.GET("/state", handler.GetState)
		game.POST("/save", handler.SaveGame)
		game.POST("/load", handler.LoadGame)

		game.POST("/move", handler.Move)
		game.POST("/move/north", handler.MoveNorth)
		game.POST("/move/south", handler.MoveSouth)
		game.POST("/move/east", handler.MoveEast)
		game.POST("/move/west", handler.MoveWest)

		game.POST("/combat/attack", handler.Attack)
		game.POST("/combat/flee", handler.Flee)

		game.POST("/take", handler.TakeItem)
		game.POST("/use", handler.UseItem)
		game.GET("/inventory", handler.GetInventory)

		game.POST("/talk", handler.Talk)
		game.POST("/rest", handler.Rest)
		game.POST("/action", handler.PerformAction)
	}

	r.GET("/ws/:session_id", func(c *gin.Context) {
		id := c.Param("session_id")
		if id == "" {
			id = uuid.NewString()
		}
		s := manager.GetOrCreate(id)
		ws, err := eventstream.Upgrade(s.Events, id, c.Writer, c.Request)
		if err != nil {
			return
		}
		eventstream.Serve(s.Events, id, ws)
	})

	addr := fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)
	corelog.Always("tile-crawler backend starting", "addr", addr)

	if err := r.Run(addr); err != nil {
		corelog.Logger().Error("server exited", "error", err)
		os.Exit(1)
	}
}

// newLLMClient builds the process-wide LLM client from config. Providers
// other than "openai", or a missing API key, fall back to the in-memory
// MockClient so every call still falls through to procedural content
// instead of failing outright.
func newLLMClient(cfg models.LLMConfig) llm.Client {
	if cfg.Provider == "openai" && cfg.APIKey != "" {
		return llm.NewOpenAIClient(cfg.APIKey, cfg.APIBase)
	}
	corelog.Logger().Warn("no LLM provider configured, falling back to mock client")
	return llm.NewMockClient()
}

func newRateLimiter(cfg models.RateLimitConfig) *router.RateLimiter {
	perKind := make(map[llm.RequestKind]int, len(cfg.PerKindPerMinute))
	for kind, n := range cfg.PerKindPerMinute {
		perKind[llm.RequestKind(kind)] = n
	}
	waitTimeout := time.Duration(cfg.WaitTimeoutMS) * time.Millisecond
	return router.NewRateLimiter(cfg.RequestsPerMinute, perKind, waitTimeout)
}

// newSession builds one session's isolated bundle of World State Store,
// Narrative Memory, Response Cache, Request Router, Prefetch Scheduler, and
// event Hub, then starts its background scheduler and autosave loops.
// Everything here is scoped to this one Session; nothing is shared except
// the process-wide LLM client, rate limiter, and storage handle, which are
// themselves safe for concurrent use across sessions.
func newSession(id string, config *models.Config, client llm.Client, limiter *router.RateLimiter, store *storage.Storage) *session.Session {
	ttlPerKind := make(map[llm.RequestKind]time.Duration, len(config.Cache.TTLSeconds))
	for kind, seconds := range config.Cache.TTLSeconds {
		ttlPerKind[llm.RequestKind(kind)] = time.Duration(seconds) * time.Second
	}
	respCache := cache.New(config.Cache.MaxEntries, ttlPerKind, nil)

	r := router.New(client, respCache, limiter, config.LLM.Model)

	summarizer := llm.NewNarrativeSummarizer(client, config.LLM.Model)
	mem := narrative.New(summarizer, config.Narrative.ShortTermWindow,
		config.Narrative.CondenseBatch, config.Narrative.SummaryMaxTokens)

	worldStore := world.NewStore(id, 1, config.Game.RoomWidth, config.Game.RoomHeight)

	s := &session.Session{
		ID:        id,
		World:     worldStore,
		Narrative: mem,
		Cache:     respCache,
		Router:    r,
		Scheduler: scheduler.New(),
		Events:    eventstream.NewHub(),
	}

	engine := api.NewEngine(s, world.ItemDefinitions(), config.Game)
	s.StartScheduler(context.Background(), prefetchConcurrency, engine.HandlePrefetchTask)

	autosaveInterval := time.Duration(config.Autosave.IntervalSeconds) * time.Second
	s.StartAutosave(context.Background(), autosaveInterval, func() {
		if err := store.Save(id, storage.AutosaveSlot, engine.BuildEmergencyPayload(), true); err != nil {
			corelog.Logger().Error("autosave failed", "session", id, "error", err)
		}
	})

	return s
}

func loadConfig(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
