package commands

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/pubsub"

	"github.com/dymensionxyz/daclient/config"
	"github.com/dymensionxyz/daclient/da"
	"github.com/dymensionxyz/daclient/da/nomos"
	"github.com/dymensionxyz/daclient/da/registry"
	"github.com/dymensionxyz/daclient/utils/event"
)

const healthSubscriber = "daclient-cli"

// session holds a configured client and everything started along with it.
type session struct {
	config  config.NodeConfig
	client  da.Client
	cleanup []func()
}

func (s *session) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
}

// newSession loads the configuration of cmd and builds the selected client.
func newSession(cmd *cobra.Command) (*session, error) {
	home, err := homeDir(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{}
	if err := s.config.GetViperConfig(cmd, home); err != nil {
		return nil, err
	}

	pubsubServer := pubsub.NewServer()
	if err := pubsubServer.Start(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		event.MustSubscribe(ctx, pubsubServer, healthSubscriber, da.EventQueryDAHealthStatus, onHealthEvent, logger)
	}()
	// the subscriber must be gone before the server stops
	s.cleanup = append(s.cleanup, func() {
		cancel()
		wg.Wait()
		_ = pubsubServer.Stop()
	})

	if ic := s.config.Instrumentation; ic != nil && ic.Prometheus {
		s.servePrometheus(ic.PrometheusListenAddr)
	}

	client, err := registry.NewClient(s.config.DA, s.config.Secrets, logger, nomos.WithPubsubServer(pubsubServer))
	if err != nil {
		s.Close()
		return nil, err
	}
	s.client = client
	if closer, ok := client.(io.Closer); ok {
		s.cleanup = append(s.cleanup, func() { _ = closer.Close() })
	}
	return s, nil
}

func (s *session) servePrometheus(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Serve prometheus metrics.", "addr", addr, "err", err)
		}
	}()
	s.cleanup = append(s.cleanup, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
}

func onHealthEvent(msg pubsub.Message) {
	health, ok := msg.Data().(*da.EventDataHealth)
	if !ok {
		return
	}
	if health.Error != nil {
		logger.Error("DA unhealthy.", "client", health.Client, "retriable", da.IsRetriable(health.Error), "err", health.Error)
		return
	}
	logger.Debug("DA healthy.", "client", health.Client)
}

// commandContext bounds a command by the configured dispatch timeout.
func (s *session) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, s.config.DispatchTimeout)
}
