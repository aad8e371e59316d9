// Copyright (c) Microsoft. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	af "github.com/rishtawaliauntie/auntie/agentframework"
	"github.com/rishtawaliauntie/auntie/config"
	"github.com/rishtawaliauntie/auntie/messaging"
	"github.com/rishtawaliauntie/auntie/openai"
	"github.com/rishtawaliauntie/auntie/twilio"
	"github.com/rishtawaliauntie/auntie/workflow"
)

// app holds the wired dependencies shared by all commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	workflow *workflow.Workflow
}

// newApp loads and validates configuration and wires the workflow.
func newApp() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(cfg.Model, logger)
	if err != nil {
		return nil, err
	}

	var twOpts []twilio.Option
	if cfg.Twilio.Region != "" {
		twOpts = append(twOpts, twilio.WithRegion(cfg.Twilio.Region))
	}
	if cfg.Twilio.Edge != "" {
		twOpts = append(twOpts, twilio.WithEdge(cfg.Twilio.Edge))
	}
	twOpts = append(twOpts, twilio.WithLogger(logger))
	sender := twilio.New(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, twOpts...)

	tool := messaging.NewWhatsAppTool(sender, cfg.Twilio.WhatsAppNumber, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		workflow: &workflow.Workflow{
			Agent:       workflow.NewAgent(client, tool),
			Notifier:    tool,
			AdminNumber: cfg.Twilio.AdminNumber,
			Logger:      logger,
		},
	}, nil
}

// newChatClient creates the chat client. An Azure endpoint selects Azure AD
// authentication; otherwise the API key is sent as a bearer token.
func newChatClient(m config.Model, logger *slog.Logger) (*openai.Client, error) {
	opts := []openai.Option{
		openai.WithStreamMiddleware(af.LoggingMiddleware(logger)),
	}
	if m.Name != "" {
		opts = append(opts, openai.WithModel(m.Name))
	}

	if m.AzureEndpoint != "" {
		logger.Info("using Azure AD authentication", "endpoint", m.AzureEndpoint)
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: azure credential: %w", config.ErrConfig, err)
		}
		opts = append(opts,
			openai.WithBaseURL(m.AzureEndpoint),
			openai.WithAzureCredential(cred),
		)
		return openai.New("", opts...), nil
	}

	if m.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(m.BaseURL))
	}
	return openai.New(m.APIKey, opts...), nil
}
