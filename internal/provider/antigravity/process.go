package antigravity

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joshuadavidthomas/vibequota/internal/fetch"
)

const (
	// The IDE ships its language server as a binary named
	// language_server_<platform>. The marker distinguishes it from other
	// Codeium-derived editors running the same binary.
	processNamePrefix = "language_server"
	processMarker     = "Antigravity"
)

var (
	csrfTokenPattern  = regexp.MustCompile(`--csrf_token=(\S+)`)
	serverPortPattern = regexp.MustCompile(`--server_port=(\d+)`)
)

// serverProcess describes a detected language server: its pid, the CSRF
// token scraped from its command line, and the port flag if one was present.
type serverProcess struct {
	PID         int
	CSRFToken   string
	CommandPort int
}

// findServerProcess locates the running Antigravity language server by
// scanning the process table.
func findServerProcess(ctx context.Context) (*serverProcess, *fetch.Error) {
	out, err := exec.CommandContext(ctx, "ps", "-axo", "pid=,command=").Output()
	if err != nil {
		return nil, fetch.Errorf(fetch.ErrCommandFailed, fmt.Sprintf("process listing failed: %v", err))
	}
	return parseProcessList(string(out))
}

// parseProcessList scans ps output for a language server process carrying
// the Antigravity data-directory marker and a CSRF token flag. A process
// matching the name prefix without a usable token is reported as
// missing-auth-token, distinct from no process at all.
func parseProcessList(output string) (*serverProcess, *fetch.Error) {
	prefixMatches := 0

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		pidStr, command, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			continue
		}

		executable := command
		if i := strings.IndexByte(command, ' '); i >= 0 {
			executable = command[:i]
		}
		if !strings.HasPrefix(filepath.Base(executable), processNamePrefix) {
			continue
		}
		prefixMatches++

		if !strings.Contains(command, processMarker) {
			continue
		}

		m := csrfTokenPattern.FindStringSubmatch(command)
		if m == nil {
			continue
		}

		proc := &serverProcess{PID: pid, CSRFToken: m[1]}
		if pm := serverPortPattern.FindStringSubmatch(command); pm != nil {
			proc.CommandPort, _ = strconv.Atoi(pm[1])
		}
		return proc, nil
	}

	if prefixMatches == 0 {
		return nil, fetch.Errorf(fetch.ErrNotRunning, "no Antigravity language server process found")
	}
	return nil, fetch.Errorf(fetch.ErrMissingAuthToken, "language server process found but no CSRF token on its command line")
}
