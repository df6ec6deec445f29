package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	assistantx "github.com/agentdesk/agentdesk/agent/agents/assistant"
	contractx "github.com/agentdesk/agentdesk/agent/contract"
	routerx "github.com/agentdesk/agentdesk/agent/router"
	storex "github.com/agentdesk/agentdesk/agent/store"
	toolx "github.com/agentdesk/agentdesk/agent/tool"
	configx "github.com/agentdesk/agentdesk/pkg/config"
	crmapix "github.com/agentdesk/agentdesk/pkg/crmapi"
	_ "github.com/agentdesk/agentdesk/pkg/logger/autoload"
	mongostorex "github.com/agentdesk/agentdesk/pkg/mongostore"
	openrouterx "github.com/agentdesk/agentdesk/pkg/openrouter"
)

type AppConfig struct {
	StoreMode       string        `envconfig:"STORE_MODE" split_words:"true" default:"mongo"`
	DispatchTimeout time.Duration `envconfig:"DISPATCH_TIMEOUT" split_words:"true" default:"15s"`
}

func main() {
	ctx := context.Background()
	appCfg := configx.MustNew[AppConfig]("")

	var backend contractx.DataBackend
	switch appCfg.StoreMode {
	case "memory":
		backend = storex.Seed(time.Now())
		log.Info().Msg("using seeded in-memory store")
	default:
		mongoCfg := configx.MustNew[mongostorex.Config]("MONGO")
		store := mongostorex.MustConnect(ctx, *mongoCfg)
		defer func() {
			if err := store.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("close mongo store")
			}
		}()

		mongoBackend, err := storex.NewMongoBackend(store.Database())
		if err != nil {
			log.Fatal().Err(err).Msg("build mongo backend")
		}
		backend = mongoBackend
		log.Info().Str("database", mongoCfg.Database).Msg("connected to document store")
	}

	readRegistry, err := toolx.NewReadRegistry(backend)
	if err != nil {
		log.Fatal().Err(err).Msg("build read registry")
	}
	readDispatcher, err := toolx.NewDispatcher(readRegistry, toolx.WithTimeout(appCfg.DispatchTimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("build read dispatcher")
	}

	crmCfg := configx.MustNew[crmapix.Config]("CRM")
	var mutations contractx.MutationBackend
	if crmCfg.Simulate {
		mutations = toolx.NewSimulatedMutationBackend()
		log.Info().Msg("using simulated mutation backend")
	} else {
		mutations = toolx.NewRealMutationBackend(crmapix.MustNew(*crmCfg))
		log.Info().Str("url", crmCfg.URL).Msg("using real mutation backend")
	}

	mutationRegistry, err := toolx.NewMutationRegistry(mutations)
	if err != nil {
		log.Fatal().Err(err).Msg("build mutation registry")
	}
	mutationDispatcher, err := toolx.NewDispatcher(mutationRegistry, toolx.WithTimeout(appCfg.DispatchTimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("build mutation dispatcher")
	}

	agentRouter, err := routerx.New(
		[]*toolx.Dispatcher{readDispatcher, mutationDispatcher},
		routerx.DefaultAgents()...,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build agent router")
	}

	// The reasoning step is optional: without an OpenRouter key the
	// deterministic dispatch core still serves structured requests.
	if openRouterCfg, err := configx.New[openrouterx.Config]("OPENROUTER"); err == nil {
		chatModel, err := openRouterCfg.New(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("build chat model")
		}
		if _, err := assistantx.New(chatModel, agentRouter); err != nil {
			log.Fatal().Err(err).Msg("build assistant")
		}
		log.Info().Str("model", openRouterCfg.Model).Msg("assistant ready")
	} else {
		log.Info().Msg("assistant disabled: no openrouter configuration")
	}

	for _, agent := range agentRouter.Agents() {
		log.Info().
			Str("agent", string(agent.Type)).
			Int("actions", len(agent.Actions)).
			Msg("agent registered")
	}
	log.Info().Msg("dispatch core ready")
}
