package ports

import (
	"net"
	"testing"

	cerrors "boot-go/errors"
)

func TestAllocate_EveryNameBoundNoZero(t *testing.T) {
	m, err := Allocate("127.0.0.1", nil)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	for _, e := range Table {
		v, ok := m[e.name]
		if !ok {
			t.Errorf("missing port for %q", e.name)
		}
		if v == 0 {
			t.Errorf("port for %q is zero", e.name)
		}
	}
}

func TestAllocate_DynamicInRange(t *testing.T) {
	m, err := Allocate("127.0.0.1", nil)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	for _, e := range Table {
		if e.policy.Kind != KindDynamic {
			continue
		}
		v := m[e.name]
		if v < dynamicLow || v > dynamicHigh {
			t.Errorf("dynamic port %q = %d, want in [%d,%d]", e.name, v, dynamicLow, dynamicHigh)
		}
	}
}

func TestAllocate_PairedEqualsPartner(t *testing.T) {
	m, err := Allocate("127.0.0.1", nil)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	pairs := map[string]string{
		"gui-send-to-spider": "spider-listen-to-gui",
		"spider-send-to-gui": "gui-listen-to-spider",
		"scsynth-send":       "scsynth",
	}
	for name, partner := range pairs {
		if m[name] != m[partner] {
			t.Errorf("%s = %d, want equal to partner %s = %d", name, m[name], partner, m[partner])
		}
	}
}

func TestAllocate_FixedPortFallsBackWhenOccupied(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 4560})
	if err != nil {
		t.Skip("port 4560 not available to reserve for this test")
	}
	defer conn.Close()

	m, err := Allocate("127.0.0.1", nil)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if m["osc-cues"] == 4560 {
		t.Error("expected osc-cues to fall back off 4560 when occupied")
	}
	if m["osc-cues"] < dynamicLow {
		t.Errorf("osc-cues fallback = %d, want >= %d", m["osc-cues"], dynamicLow)
	}
}

func TestAllocate_DistinctAcrossAllEntriesExceptPairs(t *testing.T) {
	m, err := Allocate("127.0.0.1", nil)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	pairedWith := map[string]string{
		"gui-send-to-spider": "spider-listen-to-gui",
		"spider-send-to-gui": "gui-listen-to-spider",
		"scsynth-send":       "scsynth",
	}

	seen := make(map[uint16][]string)
	for _, e := range Table {
		seen[m[e.name]] = append(seen[m[e.name]], e.name)
	}

	for port, names := range seen {
		if len(names) < 2 {
			continue
		}
		if len(names) == 2 && (pairedWith[names[0]] == names[1] || pairedWith[names[1]] == names[0]) {
			continue
		}
		t.Errorf("port %d assigned to multiple unrelated entries: %v", port, names)
	}
}

func TestAllocate_RejectsPairedReferencingPaired(t *testing.T) {
	orig := Table
	defer func() { Table = orig }()

	Table = []entry{
		{"a", Dynamic()},
		{"b", Paired("a")},
		{"c", Paired("b")},
	}

	_, err := Allocate("127.0.0.1", nil)
	if err == nil {
		t.Fatal("expected error for paired-referencing-paired")
	}
	if !cerrors.Is(err, cerrors.ErrPairedBeforePartner) {
		t.Errorf("expected ErrPairedBeforePartner in chain, got: %v", err)
	}
}

