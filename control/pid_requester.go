package control

import (
	"log/slog"

	"github.com/hypebeast/go-osc/osc"

	"boot-go/logging"
)

// PidRequester sends the outbound "/send-pid-to-daemon" datagram to the
// BEAM child's port. It is wired to supervise.BeamIO.OnPidTick so the
// cadence is driven by the supervisor's own retry loop
// (SPEC_FULL.md §4.4, §6).
type PidRequester struct {
	client *osc.Client
	token  int32
	logger *slog.Logger
}

// NewPidRequester targets addr:port — the loopback address and the
// "tau" port.
func NewPidRequester(addr string, port uint16, token int32, logger *slog.Logger) *PidRequester {
	if logger == nil {
		logger = logging.Default()
	}
	return &PidRequester{
		client: osc.NewClient(addr, int(port)),
		token:  token,
		logger: logging.WithOperation(logger, "pid-request"),
	}
}

// Tick sends one "/send-pid-to-daemon" request. Send failures are
// logged and swallowed — the retry loop will try again on the next
// tick.
func (p *PidRequester) Tick() {
	msg := osc.NewMessage("/send-pid-to-daemon")
	msg.Append(p.token)
	if err := p.client.Send(msg); err != nil {
		p.logger.Debug("pid request send failed", slog.String("error", err.Error()))
	}
}
