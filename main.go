package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	answerx "supervisor-agent/agent/answer"
	callerx "supervisor-agent/agent/caller"
	contractx "supervisor-agent/agent/contract"
	conversationx "supervisor-agent/agent/conversation"
	plannerx "supervisor-agent/agent/planner"
	promptx "supervisor-agent/agent/prompt"
	registryx "supervisor-agent/agent/registry"
	supervisorx "supervisor-agent/agent/supervisor"
	apix "supervisor-agent/pkg/api"
	configx "supervisor-agent/pkg/config"
	llmclientx "supervisor-agent/pkg/llmclient"
	_ "supervisor-agent/pkg/logger/autoload"
)

type AppConfig struct {
	RegistryPath        string `envconfig:"REGISTRY_PATH" split_words:"true" default:"agents.yaml"`
	ConversationBackend string `envconfig:"CONVERSATION_BACKEND" split_words:"true" default:"memory"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmclientx.Config]("OPENAI")
	apiCfg := configx.MustNew[apix.Config]("SERVER")

	registry, err := registryx.Load(appCfg.RegistryPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.RegistryPath).Msg("load agent registry")
	}

	prompts := promptx.LoadPromptSet()

	planner, composer := buildPipeline(ctx, *llmCfg, prompts)

	store, closeStore, err := buildStore(ctx, appCfg.ConversationBackend)
	if err != nil {
		log.Fatal().Err(err).Msg("init conversation store")
	}
	defer closeStore()

	sup, err := supervisorx.New(registry, planner, callerx.New(), composer, store)
	if err != nil {
		log.Fatal().Err(err).Msg("init supervisor")
	}

	srv, err := apix.NewServer(*apiCfg, sup)
	if err != nil {
		log.Fatal().Err(err).Msg("init http server")
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// buildPipeline picks the live LLM planner and composer when an API key is
// configured, and the deterministic offline pair otherwise.
func buildPipeline(ctx context.Context, llmCfg llmclientx.Config, prompts promptx.PromptSet) (contractx.Planner, contractx.Composer) {
	if !llmCfg.Enabled() {
		log.Info().Msg("no api key configured, running in offline mode")
		return plannerx.NewKeyword(), answerx.NewOffline()
	}

	chatModel, err := llmCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("init chat model")
	}
	planner, err := plannerx.NewLLM(ctx, chatModel, prompts.Planner)
	if err != nil {
		log.Fatal().Err(err).Msg("init llm planner")
	}
	composer, err := answerx.NewLLM(llmclientx.NewClient(llmCfg), llmCfg.Model, prompts.Composer)
	if err != nil {
		log.Fatal().Err(err).Msg("init llm composer")
	}
	return planner, composer
}

func buildStore(ctx context.Context, backend string) (contractx.Store, func(), error) {
	switch backend {
	case "postgres":
		pgCfg := configx.MustNew[conversationx.PostgresConfig]("POSTGRES")
		store, err := conversationx.NewPostgresStore(ctx, *pgCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("close conversation store")
			}
		}, nil
	default:
		return conversationx.NewMemoryStore(), func() {}, nil
	}
}
