// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/nexus-tools/internal/client"
	"github.com/pdiddy/nexus-tools/internal/history"
	"github.com/pdiddy/nexus-tools/internal/notify"
	"github.com/pdiddy/nexus-tools/pkg/types"
)

// session wires a client runner to the toast center and, when it can be
// opened, the history store.
type session struct {
	cfg    types.AppConfig
	runner *client.Runner
	notes  *notify.Center
	store  *history.Store
}

func openSession() (*session, error) {
	cfg, err := loadConfig(viper.GetViper(), apiToken)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	s.notes = notify.NewCenter(cfg.Notify, notify.WithLogger(logger))

	opts := []client.RunnerOption{client.WithLogger(logger)}
	store, err := history.Open(cfg.History)
	if err != nil {
		logger.Warn("run history disabled", zap.Error(err))
	} else {
		s.store = store
		opts = append(opts, client.WithRecorder(store))
	}

	c := client.New(cfg.Client)
	logger.Debug("client configured", zap.String("base_url", c.BaseURL()), zap.String("output_dir", c.OutputDir()))
	s.runner = client.NewRunner(c, s.notes, opts...)
	return s, nil
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
