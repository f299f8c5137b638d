// Package app is the composition root shared by the API server and the
// operator CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/config"
	dbRedis "github.com/kailas-cloud/resumechat/internal/db/redis"
	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/domain/chat"
	domspeech "github.com/kailas-cloud/resumechat/internal/domain/speech"
	"github.com/kailas-cloud/resumechat/internal/metrics"
	accessrepo "github.com/kailas-cloud/resumechat/internal/repository/access"
	budgetrepo "github.com/kailas-cloud/resumechat/internal/repository/budget"
	documentrepo "github.com/kailas-cloud/resumechat/internal/repository/document"
	"github.com/kailas-cloud/resumechat/internal/repository/embcache"
	messagerepo "github.com/kailas-cloud/resumechat/internal/repository/message"
	searchrepo "github.com/kailas-cloud/resumechat/internal/repository/search"
	sessionrepo "github.com/kailas-cloud/resumechat/internal/repository/session"
	chiTransport "github.com/kailas-cloud/resumechat/internal/transport/chi"
	"github.com/kailas-cloud/resumechat/internal/transport/elevenlabs"
	openaiTransport "github.com/kailas-cloud/resumechat/internal/transport/openai"
	accessuc "github.com/kailas-cloud/resumechat/internal/usecase/access"
	answeruc "github.com/kailas-cloud/resumechat/internal/usecase/answer"
	"github.com/kailas-cloud/resumechat/internal/usecase/completion"
	documentuc "github.com/kailas-cloud/resumechat/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/resumechat/internal/usecase/embedding"
	followupuc "github.com/kailas-cloud/resumechat/internal/usecase/followup"
	healthuc "github.com/kailas-cloud/resumechat/internal/usecase/health"
	messageuc "github.com/kailas-cloud/resumechat/internal/usecase/message"
	retrievaluc "github.com/kailas-cloud/resumechat/internal/usecase/retrieval"
	sessionuc "github.com/kailas-cloud/resumechat/internal/usecase/session"
	speechuc "github.com/kailas-cloud/resumechat/internal/usecase/speech"
	usageuc "github.com/kailas-cloud/resumechat/internal/usecase/usage"
)

const (
	budgetDailyTTL    = 48 * time.Hour
	budgetMonthlyTTL  = 62 * 24 * time.Hour
	embeddingCacheTTL = 30 * 24 * time.Hour
)

// embedder is the full embedding contract the chain must satisfy.
type embedder interface {
	domain.Embedder
	domain.BatchEmbedder
}

// App holds the wired services.
type App struct {
	Store     *dbRedis.Store
	Documents *documentuc.Service
	Retrieval *retrievaluc.Service
	Answer    *answeruc.Service
	FollowUps *followupuc.Service
	Messages  *messageuc.Service
	Sessions  *sessionuc.Service
	Access    *accessuc.Service
	Speech    *speechuc.Service
	Usage     *usageuc.Service
	Health    *healthuc.Service
}

// Build connects to the database and assembles every service.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterChatMetrics()
	metrics.RegisterRetrievalMetrics()

	// One tracker per provider, shared by its embedder, completers and the usage report.
	budgets := make(map[string]*embeddinguc.BudgetTracker)
	var sources []usageuc.Source
	for name, p := range cfg.Providers {
		if p.Budget.DailyTokenLimit <= 0 && p.Budget.MonthlyTokenLimit <= 0 {
			continue
		}
		action := embeddinguc.BudgetActionWarn
		if p.Budget.Action == "reject" {
			action = embeddinguc.BudgetActionReject
		}
		b := embeddinguc.NewBudgetTracker(name, p.Budget.DailyTokenLimit, p.Budget.MonthlyTokenLimit, action, logger).
			WithStore(ctx, budgetrepo.New(store, budgetDailyTTL, budgetMonthlyTTL))
		budgets[name] = b
		sources = append(sources, usageuc.Source{Budget: b, CostPerMillionTokens: p.Budget.CostPerMillionTokens})
	}
	// A typed nil *BudgetTracker inside the interface would not compare equal to nil.
	budgetFor := func(provider string) embeddinguc.BudgetChecker {
		if b, ok := budgets[provider]; ok {
			return b
		}
		return nil
	}

	embProv := cfg.Providers[cfg.Embedding.Provider]
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     embProv.APIKey,
		BaseURL:    embProv.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	var emb embedder = baseEmbedder
	if cfg.Embedding.Cache {
		emb = embcache.New(emb, store, cfg.Embedding.Model, embeddingCacheTTL, metrics.EmbeddingCacheTotal, logger)
	}
	emb = embeddinguc.NewInstrumentedEmbedder(emb, cfg.Embedding.Provider, cfg.Embedding.Model, budgetFor(cfg.Embedding.Provider), logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache),
	)

	checkers := map[string]healthuc.Checker{"embedding": baseEmbedder}
	completers := make(map[string]*completion.InstrumentedCompleter)
	completerFor := func(provider string) *completion.InstrumentedCompleter {
		if c, ok := completers[provider]; ok {
			return c
		}
		p := cfg.Providers[provider]
		base := openaiTransport.NewChatCompleter(&openaiTransport.Config{
			APIKey:   p.APIKey,
			BaseURL:  p.BaseURL,
			Provider: provider,
			Logger:   logger,
		})
		checkers["chat."+provider] = base
		c := completion.NewInstrumentedCompleter(base, provider, budgetFor(provider), logger)
		completers[provider] = c
		return c
	}
	call := func(name string, p config.ChatParams) answeruc.Call {
		return answeruc.Call{Name: name, Completer: completerFor(p.Provider), Params: chatParams(p)}
	}

	docRepo := documentrepo.New(store, cfg.Embedding.Dimensions, documentrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour
	callTimeout := time.Duration(cfg.Chat.CallTimeoutSec) * time.Second

	retrieval := retrievaluc.New(searchrepo.New(store), docRepo, emb, retrievaluc.Config{
		VectorThreshold: cfg.Retrieval.VectorThreshold,
		CandidateLimit:  cfg.Retrieval.CandidateLimit,
	}, logger)

	answer := answeruc.New(retrieval,
		call(cfg.Chat.Primary.Provider, cfg.Chat.Primary),
		call(cfg.Chat.Secondary.Provider, cfg.Chat.Secondary),
		call(cfg.Chat.Merge.Provider, cfg.Chat.Merge),
		answeruc.Config{Subject: cfg.Chat.Subject, HistoryLimit: cfg.Chat.HistoryLimit, CallTimeout: callTimeout},
		logger,
	)

	catalog, err := followupuc.LoadCatalog(nil)
	if err != nil {
		store.Close()
		return nil, err
	}
	followups := followupuc.New(retrieval, completerFor(cfg.Chat.FollowUp.Provider), chatParams(cfg.Chat.FollowUp), catalog,
		followupuc.Config{
			Subject:         cfg.Chat.Subject,
			MaxQuestions:    cfg.FollowUp.MaxQuestions,
			EmployerKeyword: cfg.FollowUp.EmployerKeyword,
			RoleWords:       cfg.FollowUp.RoleWords,
			CallTimeout:     callTimeout,
		}, logger)

	sp := cfg.Speech
	speech := speechuc.New(
		elevenlabs.NewClient(elevenlabs.Config{
			APIKey:  sp.APIKey,
			BaseURL: sp.BaseURL,
			Timeout: time.Duration(sp.TimeoutSec) * time.Second,
			Logger:  logger,
		}),
		speechuc.Config{
			VoiceID:         sp.VoiceID,
			ModelID:         sp.ModelID,
			TranscribeModel: sp.TranscribeModel,
			MinInterval:     time.Duration(sp.MinIntervalMs) * time.Millisecond,
			Voice: domspeech.VoiceSettings{
				Stability:       sp.Stability,
				SimilarityBoost: sp.SimilarityBoost,
				Style:           sp.Style,
				SpeakerBoost:    sp.SpeakerBoost != nil && *sp.SpeakerBoost,
			},
			RecordingTTL: time.Duration(sp.RecordingTTLSec) * time.Second,
		},
		logger,
	)

	return &App{
		Store:     store,
		Documents: documentuc.New(docRepo, emb, cfg.Embedding.Dimensions, logger),
		Retrieval: retrieval,
		Answer:    answer,
		FollowUps: followups,
		Messages:  messageuc.New(messagerepo.New(store), cfg.Index.MessagePageSize, cfg.Index.MaxPageSize),
		Sessions:  sessionuc.New(sessionrepo.New(store, ttl), ttl),
		Access:    accessuc.New(accessrepo.New(store), cfg.Auth.BypassVerification, logger),
		Speech:    speech,
		Usage:     usageuc.New(sources...),
		Health:    healthuc.New(store, checkers),
	}, nil
}

func chatParams(p config.ChatParams) chat.Params {
	return chat.Params{
		Model:            p.Model,
		Temperature:      p.Temperature,
		MaxTokens:        p.MaxTokens,
		PresencePenalty:  p.PresencePenalty,
		FrequencyPenalty: p.FrequencyPenalty,
		TopP:             p.TopP,
	}
}

// Services exposes the wired use cases to the HTTP layer.
func (a *App) Services() chiTransport.Services {
	return chiTransport.Services{
		Answer:    a.Answer,
		FollowUps: a.FollowUps,
		Search:    a.Retrieval,
		Documents: a.Documents,
		Messages:  a.Messages,
		Access:    a.Access,
		Sessions:  a.Sessions,
		Speech:    a.Speech,
		Usage:     a.Usage,
		Health:    a.Health,
	}
}

// Close releases the database connection.
func (a *App) Close() {
	a.Store.Close()
}
