package antigravity

import (
	"context"
	"os/exec"
	"time"

	"github.com/joshuadavidthomas/vibequota/internal/fetch"
	"github.com/joshuadavidthomas/vibequota/internal/logging"
	"github.com/joshuadavidthomas/vibequota/internal/models"
)

// ProbeStrategy discovers the running Antigravity IDE's language server and
// reads quota from its local RPC service: process detection, port
// enumeration, port validation, then the status RPC. Every failure is final
// for the invocation; the pipeline decides whether another strategy runs.
type ProbeStrategy struct {
	HTTPTimeout float64
}

func (s *ProbeStrategy) Kind() fetch.Kind { return fetch.KindLocalProbe }
func (s *ProbeStrategy) Name() string     { return "local-probe" }

func (s *ProbeStrategy) IsAvailable(fetch.Context) bool {
	for _, tool := range []string{"ps", "lsof"} {
		if _, err := exec.LookPath(tool); err != nil {
			return false
		}
	}
	return true
}

func (s *ProbeStrategy) Fetch(ctx context.Context, fc fetch.Context) fetch.FetchResult {
	log := logging.FromContext(ctx)

	proc, ferr := findServerProcess(ctx)
	if ferr != nil {
		return fetch.ResultFail(ferr)
	}
	log.Debug("found language server", "pid", proc.PID)

	ports, ferr := listListeningPorts(ctx, proc.PID)
	if ferr != nil {
		return fetch.ResultFail(ferr)
	}
	log.Debug("listening ports", "count", len(ports))

	timeout := time.Duration(s.HTTPTimeout * float64(time.Second))
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := newRPCClient(proc.CSRFToken, proc.CommandPort, timeout)

	port, ferr := client.findWorkingPort(ctx, ports)
	if ferr != nil {
		return fetch.ResultFail(ferr)
	}
	log.Debug("selected API port", "port", port)

	env, ferr := client.fetchStatus(ctx, port)
	if ferr != nil {
		return fetch.ResultFail(ferr)
	}

	return fetch.ResultOK(buildProbeSnapshot(env), "Antigravity IDE")
}

func buildProbeSnapshot(env *Envelope) models.UsageSnapshot {
	snap := models.UsageSnapshot{
		Provider:  "antigravity",
		FetchedAt: time.Now().UTC(),
		Windows:   selectWindows(env.ModelQuotas()),
	}
	if env.UserStatus != nil && env.UserStatus.Email != "" {
		snap.Identity = &models.Identity{
			Email:      env.UserStatus.Email,
			AuthMethod: "local",
		}
	}
	return snap
}
