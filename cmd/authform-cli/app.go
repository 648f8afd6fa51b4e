package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/client"
	"github.com/goliatone/go-authform/pkg/config"
	"github.com/goliatone/go-authform/pkg/contract"
	"github.com/goliatone/go-authform/pkg/metrics"
	"github.com/goliatone/go-authform/pkg/storage"
)

type rootFlags struct {
	configPath string
	baseURL    string
	storePath  string
	logLevel   string
	metrics    bool
}

// app holds the collaborators shared by the commands.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	store    storage.Store
	client   *client.Client
	registry *prometheus.Registry
	metrics  *metrics.Submissions
	out      io.Writer
	flags    *rootFlags
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	if flags.storePath != "" {
		cfg.StorePath = flags.storePath
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newApp(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenBuntDB(cfg.StorePath, storage.WithTTL(cfg.CredentialTTL))
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithBaseURL(cfg.BaseURL),
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithLogger(logger.Named("client")),
	}
	if cfg.ContractEnabled() {
		v, err := contract.New(ctx)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		opts = append(opts, client.WithContract(v))
	}

	registry := prometheus.NewRegistry()
	submissions, err := metrics.NewSubmissions(registry)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Debug("configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.String("store_path", cfg.StorePath),
		zap.Bool("contract_check", cfg.ContractEnabled()),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		client:   client.New(opts...),
		registry: registry,
		metrics:  submissions,
		out:      cmd.OutOrStdout(),
		flags:    flags,
	}, nil
}

func (a *app) Close() {
	if a.flags.metrics {
		a.printMetrics()
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) printMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("gathering metrics", zap.Error(err))
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %v", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(a.out, line)
	}
}

// newLogger builds a production logger (JSON on stderr), or a development
// one when level is debug.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(level, "debug") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}
