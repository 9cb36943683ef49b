package antigravity

import (
	"reflect"
	"testing"
)

func TestParseListenPorts(t *testing.T) {
	output := `COMMAND    PID USER   FD   TYPE  DEVICE SIZE/OFF NODE NAME
language  4242   me   23u  IPv4  0x1234      0t0  TCP *:42100 (LISTEN)
language  4242   me   24u  IPv4  0x1235      0t0  TCP 127.0.0.1:42101 (LISTEN)
language  4242   me   25u  IPv6  0x1236      0t0  TCP [::1]:42100 (LISTEN)
`
	got := parseListenPorts(output)
	want := []int{42100, 42101}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ports = %v, want %v", got, want)
	}
}

func TestParseListenPortsDeduplicates(t *testing.T) {
	output := `language  4242   me   23u  IPv4  0x1234      0t0  TCP *:54321 (LISTEN)
language  4242   me   24u  IPv6  0x1235      0t0  TCP *:54321 (LISTEN)
`
	got := parseListenPorts(output)
	want := []int{54321}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ports = %v, want %v", got, want)
	}
}

func TestParseListenPortsSortsAscending(t *testing.T) {
	output := `l 1 u 1u IPv4 0x1 0t0 TCP *:50000 (LISTEN)
l 1 u 2u IPv4 0x2 0t0 TCP *:42100 (LISTEN)
l 1 u 3u IPv4 0x3 0t0 TCP *:49152 (LISTEN)
`
	got := parseListenPorts(output)
	want := []int{42100, 49152, 50000}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ports = %v, want %v", got, want)
	}
}

func TestParseListenPortsEmpty(t *testing.T) {
	if got := parseListenPorts(""); len(got) != 0 {
		t.Errorf("ports = %v, want none", got)
	}
	// Established connections are not listeners.
	output := `language 4242 me 30u IPv4 0x1 0t0 TCP 127.0.0.1:42100->127.0.0.1:55000 (ESTABLISHED)`
	if got := parseListenPorts(output); len(got) != 0 {
		t.Errorf("ports = %v, want none", got)
	}
}
