// Command strided serves the agent loop over HTTP. Each session_id gets its
// own agent and memory log; POST /v1/chat runs a task and returns the output
// as plain text, streamed chunk by chunk when the request asks for it.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/stridekit/stride/action"
	"github.com/stridekit/stride/agent"
	"github.com/stridekit/stride/config"
	"github.com/stridekit/stride/logging"
	"github.com/stridekit/stride/model"
	anthropicmodel "github.com/stridekit/stride/model/anthropic"
	openaimodel "github.com/stridekit/stride/model/openai"
	"github.com/stridekit/stride/prompt"
	"github.com/stridekit/stride/session"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "strided:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	llm, err := buildModel(cfg.Model)
	if err != nil {
		return err
	}

	templates := prompt.Default()
	if cfg.Agent.TemplatesPath != "" {
		templates, err = prompt.Load(cfg.Agent.TemplatesPath)
		if err != nil {
			return err
		}
	}

	sessions := session.NewInMemoryStore(func(sessionID string) (*agent.Agent, error) {
		return agent.New(llm,
			[]action.Action{action.NewWebSearch(), action.NewFinalAnswer()},
			func(o *agent.Options) {
				o.MaxSteps = cfg.Agent.MaxSteps
				o.PlanningInterval = cfg.Agent.PlanningInterval
				o.StreamOutputs = cfg.Agent.StreamOutputs
				o.Templates = templates
				o.Logger = logger
			})
	})

	srv := newServer(sessions, logger)
	logger.Info("server.start", "addr", cfg.Server.Addr, "provider", cfg.Model.Provider)
	return http.ListenAndServe(cfg.Server.Addr, srv.routes())
}

func buildModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case "openai":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
		}), nil
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Name != "" {
				o.Model = anthropic.Model(cfg.Name)
			}
			o.APIKey = cfg.APIKey
		}), nil
	case "mock":
		return model.NewMockModel(), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
