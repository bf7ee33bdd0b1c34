package crew

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/stagehand/pkg/bus"
	"github.com/odvcencio/stagehand/pkg/config"
	"github.com/odvcencio/stagehand/pkg/errors"
	"github.com/odvcencio/stagehand/pkg/photographer"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// AssembleOptions supplies the collaborators configured crew members
// need. Anything left nil falls back to a sensible default where one
// exists; crew members whose collaborator is required and missing fail
// assembly.
type AssembleOptions struct {
	// Out receives console output. Defaults to os.Stdout.
	Out io.Writer

	// Outlet persists photographer captures. Required when photos are
	// enabled.
	Outlet photographer.Outlet

	// Bus overrides the forwarding transport. When nil and forwarding
	// is enabled, a NATS bus is dialed using the configured URL.
	Bus bus.MessageBus

	// Registry receives the metrics collector. Defaults to the global
	// prometheus registerer.
	Registry prometheus.Registerer

	// TracerProvider backs the tracing crew member. Required when
	// tracing is enabled.
	TracerProvider trace.TracerProvider
}

// FromConfig builds the configured crew members, in a fixed engagement
// order: console, run log, journal, metrics, tracer, forwarder, photos.
func FromConfig(cfg *config.Config, opts AssembleOptions) ([]screenplay.CrewMember, error) {
	var members []screenplay.CrewMember

	if cfg.Console.Enabled {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		members = append(members, NewConsoleReporter(out))
	}

	if cfg.RunLog.Enabled {
		runlog, err := NewRunLog(cfg.RunLog.Path)
		if err != nil {
			return nil, err
		}
		members = append(members, runlog)
	}

	if cfg.Journal.Enabled {
		journal, err := OpenJournal(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		members = append(members, journal)
	}

	if cfg.Metrics.Enabled {
		registry := opts.Registry
		if registry == nil {
			registry = prometheus.DefaultRegisterer
		}
		members = append(members, NewMetricsCollector(registry))
	}

	if cfg.Tracing.Enabled {
		if opts.TracerProvider == nil {
			return nil, errors.New(errors.ErrCodeConfigInvalid, "tracing is enabled but no tracer provider was supplied")
		}
		members = append(members, NewTracer(opts.TracerProvider))
	}

	if cfg.Forwarding.Enabled {
		transport := opts.Bus
		if transport == nil {
			busCfg := bus.DefaultConfig()
			busCfg.URL = cfg.Forwarding.URL
			natsBus, err := bus.NewNATSBus(busCfg)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeBusPublish, "failed to connect forwarding bus").
					WithContext("url", cfg.Forwarding.URL)
			}
			transport = natsBus
		}
		members = append(members, NewForwarder(transport))
	}

	if cfg.Photos.Enabled {
		if opts.Outlet == nil {
			return nil, errors.New(errors.ErrCodeConfigInvalid, "photos are enabled but no outlet was supplied")
		}
		strategy := PhotoStrategy(cfg.Photos.Strategy)
		if strategy == "" {
			strategy = PhotosOnFailure
		}
		members = append(members, TakePhotos(photographer.New(opts.Outlet), strategy))
	}

	return members, nil
}
