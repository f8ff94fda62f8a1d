package cmd

import (
	"fmt"
	"log/slog"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/domain"
	m "github.com/mouse-blink/interpose/internal/model"
	"github.com/mouse-blink/interpose/internal/sandbox"
	"github.com/prometheus/client_golang/prometheus"
)

// session is one process-lifetime wiring of the sandbox host and the engine.
type session struct {
	host     *sandbox.Host
	resolver *domain.Resolver
	registry domain.Registry
	metrics  prometheus.Gatherer
	workflow domain.Workflow
	reports  adapter.ReportStore
}

type sessionConfig struct {
	HostVersion string
	Owners      []string
}

// newSession builds a session. Tests replace it to inject mocks.
var newSession = openSession

func openSession(cfg sessionConfig) (*session, error) {
	logger := slog.Default()
	compiler := adapter.NewYaegiCompiler()

	sb, err := sandbox.New(compiler)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()

	recorder, err := adapter.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	resolver := domain.NewResolver(sb.Namespace())
	guard := domain.NewGuard(sb.Namespace(), func() domain.Registry {
		return domain.NewShimRegistry(resolver, domain.WithLogger(logger), domain.WithMetrics(recorder))
	}, logger)
	registry := guard.Registry()

	return &session{
		host:     sb,
		resolver: resolver,
		registry: registry,
		metrics:  reg,
		workflow: domain.NewWorkflow(adapter.NewManifestStore(), compiler, registry, resolver, domain.WorkflowConfig{
			HostVersion: cfg.HostVersion,
			Owners:      cfg.Owners,
			Logger:      logger,
			Metrics:     recorder,
		}),
		reports: adapter.NewReportStore(),
	}, nil
}

// chains returns the registry's chains when it can be inspected.
func (s *session) chains() []m.ChainSnapshot {
	inspector, ok := s.registry.(domain.ChainInspector)
	if !ok {
		return nil
	}

	return inspector.Chains()
}

// invoke calls target on the sandbox host.
func (s *session) invoke(target string) (any, error) {
	path, owner, err := s.resolver.Locate(target)
	if err != nil {
		return nil, err
	}

	if path.Setter {
		return nil, fmt.Errorf("invoke %s: setters cannot be invoked", target)
	}

	if _, _, ok := owner.Lookup(path.Member()); !ok {
		return nil, &domain.TargetNotFoundError{Target: target, Reason: "member does not exist"}
	}

	return s.host.Invoke(owner, path.Member())
}
