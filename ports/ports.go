// Package ports implements the daemon's port allocator: it resolves the
// fixed table of named UDP ports the three supervised children and the
// control surface agree on, honoring fixed/dynamic/paired policies.
package ports

import (
	"fmt"
	"math/rand"
	"net"

	cerrors "boot-go/errors"
	"boot-go/logging"

	"log/slog"
)

// Policy describes how a single named port is resolved.
type Policy struct {
	// Kind selects the resolution strategy.
	Kind PolicyKind
	// Fixed is the port to probe first when Kind is KindFixed.
	Fixed uint16
	// Partner is the port name to copy when Kind is KindPaired.
	Partner string
}

// PolicyKind enumerates the three allocation strategies.
type PolicyKind int

const (
	// KindDynamic picks the first free port at or after a random seed.
	KindDynamic PolicyKind = iota
	// KindFixed probes a specific port, falling back to Dynamic if taken.
	KindFixed
	// KindPaired copies an already-resolved partner's value.
	KindPaired
)

// Fixed returns a Policy that probes n before falling back to Dynamic.
func Fixed(n uint16) Policy { return Policy{Kind: KindFixed, Fixed: n} }

// Dynamic returns a Policy that always picks a fresh free port.
func Dynamic() Policy { return Policy{Kind: KindDynamic} }

// Paired returns a Policy that copies the value already resolved for name.
func Paired(name string) Policy { return Policy{Kind: KindPaired, Partner: name} }

// dynamicLow and dynamicHigh bound the ephemeral search range (spec §4.1).
const (
	dynamicLow  = 29153
	dynamicHigh = 65535
	seedSpan    = 39152 - dynamicLow + 1
)

// entry pairs a port name with its policy, preserving allocation order.
type entry struct {
	name   string
	policy Policy
}

// Table is the ordered policy list for the daemon's twelve named ports.
// Order matters: Paired entries must follow the partner they reference.
var Table = []entry{
	{"spider-listen-to-gui", Dynamic()},
	{"gui-send-to-spider", Paired("spider-listen-to-gui")},
	{"gui-listen-to-spider", Dynamic()},
	{"spider-send-to-gui", Paired("gui-listen-to-spider")},
	{"scsynth", Dynamic()},
	{"scsynth-send", Paired("scsynth")},
	{"osc-cues", Fixed(4560)},
	{"tau", Dynamic()},
	{"spider", Dynamic()},
	{"phx", Dynamic()},
	{"daemon", Dynamic()},
	{"spider-listen-to-tau", Dynamic()},
}

// PortMap is the fully resolved mapping from port name to bound value.
type PortMap map[string]uint16

// Allocate resolves Table into a PortMap. addr is the loopback address to
// probe against (normally "127.0.0.1"). It fails fatally if the dynamic
// search rolls past 65535, or if a Paired entry references a name that
// has not yet been resolved — including another Paired entry, which is a
// configuration error (spec §4.1 edge case).
func Allocate(addr string, logger *slog.Logger) (PortMap, error) {
	if logger == nil {
		logger = logging.Default()
	}

	resolved := make(PortMap, len(Table))
	// cursor walks forward across the whole allocation: isFree only
	// probes-and-releases a socket, it does not reserve the port, so
	// resolving every Dynamic entry from the same starting value would
	// hand out the same free port over and over. Each dynamic resolution
	// advances cursor past the port it returned.
	cursor := uint32(dynamicLow + rand.Intn(seedSpan))

	for _, e := range Table {
		var port uint16
		var err error

		switch e.policy.Kind {
		case KindFixed:
			port, cursor, err = resolveFixed(addr, e.policy.Fixed, cursor, logger, e.name)
		case KindDynamic:
			port, cursor, err = resolveDynamic(addr, cursor, logger, e.name)
		case KindPaired:
			partnerPolicy, ok := policyFor(e.policy.Partner)
			if !ok || partnerPolicy.Kind == KindPaired {
				return nil, cerrors.Wrap(cerrors.ErrPairedBeforePartner, cerrors.ErrFatal, "allocate", cerrors.WithComponent(e.name))
			}
			partnerPort, ok := resolved[e.policy.Partner]
			if !ok {
				return nil, cerrors.Wrap(cerrors.ErrPairedBeforePartner, cerrors.ErrFatal, "allocate", cerrors.WithComponent(e.name))
			}
			port = partnerPort
		default:
			err = fmt.Errorf("unknown policy kind for %s", e.name)
		}

		if err != nil {
			return nil, cerrors.Wrap(err, cerrors.ErrFatal, "allocate", cerrors.WithDetail("port search exhausted"))
		}
		resolved[e.name] = port
	}

	return resolved, nil
}

func policyFor(name string) (Policy, bool) {
	for _, e := range Table {
		if e.name == name {
			return e.policy, true
		}
	}
	return Policy{}, false
}

// resolveFixed probes want; on failure it falls back to the dynamic
// search and logs the fallback (spec §4.1 edge case). A successful fixed
// probe never touches the dynamic range, so it returns cursor unchanged.
func resolveFixed(addr string, want uint16, cursor uint32, logger *slog.Logger, name string) (uint16, uint32, error) {
	if isFree(addr, want) {
		return want, cursor, nil
	}
	logger.Warn("fixed port occupied, falling back to dynamic range",
		slog.String("port", name), slog.Int("wanted", int(want)))
	return resolveDynamic(addr, cursor, logger, name)
}

// resolveDynamic walks upward from cursor until a free port is found or
// the range is exhausted, returning the next unprobed value so the
// caller's following dynamic lookup starts past this one.
func resolveDynamic(addr string, cursor uint32, _ *slog.Logger, name string) (uint16, uint32, error) {
	for p := cursor; p <= dynamicHigh; p++ {
		if isFree(addr, uint16(p)) {
			return uint16(p), p + 1, nil
		}
	}
	return 0, cursor, fmt.Errorf("no free dynamic port for %s starting at %d", name, cursor)
}

// isFree reports whether a UDP socket can be bound to addr:port. Any
// failure (already bound, permission, etc.) is treated as "not free".
func isFree(addr string, port uint16) bool {
	udpAddr := &net.UDPAddr{IP: net.ParseIP(addr), Port: int(port)}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
