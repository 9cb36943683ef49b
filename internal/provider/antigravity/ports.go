package antigravity

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"

	"github.com/joshuadavidthomas/vibequota/internal/fetch"
)

var listenPattern = regexp.MustCompile(`:(\d+)\s+\(LISTEN\)`)

// listListeningPorts enumerates the TCP ports the given pid is listening on.
func listListeningPorts(ctx context.Context, pid int) ([]int, *fetch.Error) {
	out, err := exec.CommandContext(ctx,
		"lsof", "-nP", "-iTCP", "-sTCP:LISTEN", "-a", "-p", strconv.Itoa(pid),
	).Output()
	if err != nil {
		// lsof exits non-zero when the pid has no matching sockets.
		return nil, fetch.Errorf(fetch.ErrPortDetection, fmt.Sprintf("port listing failed for pid %d: %v", pid, err))
	}

	ports := parseListenPorts(string(out))
	if len(ports) == 0 {
		return nil, fetch.Errorf(fetch.ErrPortDetection, fmt.Sprintf("no listening ports found for pid %d", pid))
	}
	return ports, nil
}

// parseListenPorts extracts listening ports from lsof output, deduplicated
// and sorted ascending.
func parseListenPorts(output string) []int {
	seen := map[int]bool{}
	var ports []int
	for _, m := range listenPattern.FindAllStringSubmatch(output, -1) {
		port, err := strconv.Atoi(m[1])
		if err != nil || port <= 0 || seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}
	sort.Ints(ports)
	return ports
}
