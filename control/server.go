// Package control implements the daemon's UDP control surface: a small
// OSC 1.0 method table, authenticated by a random 32-bit token, that the
// front-end uses to keep the kill switch alive, request an orderly
// exit, or ask for a BEAM-child restart.
package control

import (
	"fmt"
	"log/slog"

	"github.com/hypebeast/go-osc/osc"

	"boot-go/logging"
)

// KeepAliver is satisfied by the kill switch.
type KeepAliver interface {
	KeepAlive()
}

// Exiter is satisfied by the exit promise.
type Exiter interface {
	Fire()
}

// Restarter is satisfied by the BEAM IO supervisor.
type Restarter interface {
	Restart()
	ReportPid(pid int)
}

// Server is a UDP listener bound to the loopback address on the
// "daemon" port, dispatching the method table of SPEC_FULL.md §4.5.
// Mismatched tokens and malformed packets are logged and dropped; the
// server never sends responses and never blocks its caller — it runs
// entirely on its own goroutine.
type Server struct {
	addr       string
	port       uint16
	token      int32
	killSwitch KeepAliver
	exit       Exiter
	beam       Restarter
	logger     *slog.Logger
	oscServer  *osc.Server
}

// NewServer wires the dispatch table and prepares (but does not start)
// the listener.
func NewServer(addr string, port uint16, token int32, killSwitch KeepAliver, exit Exiter, beam Restarter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logging.WithOperation(logger, "control-server")

	s := &Server{
		addr:       addr,
		port:       port,
		token:      token,
		killSwitch: killSwitch,
		exit:       exit,
		beam:       beam,
		logger:     logger,
	}

	d := osc.NewStandardDispatcher()
	_ = d.AddMsgHandler("/daemon/keep-alive", s.handleKeepAlive)
	_ = d.AddMsgHandler("/daemon/exit", s.handleExit)
	_ = d.AddMsgHandler("/daemon/restart-tau", s.handleRestartTau)
	_ = d.AddMsgHandler("/tau/pid", s.handleTauPid)

	s.oscServer = &osc.Server{
		Addr:       fmt.Sprintf("%s:%d", addr, port),
		Dispatcher: d,
	}

	return s
}

// Run starts the receive loop. It blocks, so callers run it on its own
// goroutine (SPEC_FULL.md §4.5: "never blocks the main task").
func (s *Server) Run() {
	s.logger.Info("control server listening", slog.String("addr", s.oscServer.Addr))
	if err := s.oscServer.ListenAndServe(); err != nil {
		s.logger.Error("control server stopped", slog.String("error", err.Error()))
	}
}

// checkToken extracts the first argument as the token and reports
// whether it matches. Malformed argument lists are treated as a
// mismatch.
func (s *Server) checkToken(msg *osc.Message) bool {
	if len(msg.Arguments) < 1 {
		s.logger.Warn("malformed control packet: missing token", slog.String("address", msg.Address))
		return false
	}
	got, ok := msg.Arguments[0].(int32)
	if !ok {
		s.logger.Warn("malformed control packet: token not an int32", slog.String("address", msg.Address))
		return false
	}
	if got != s.token {
		s.logger.Warn("control packet token mismatch", slog.String("address", msg.Address))
		return false
	}
	return true
}

func (s *Server) handleKeepAlive(msg *osc.Message) {
	if !s.checkToken(msg) {
		return
	}
	s.killSwitch.KeepAlive()
}

func (s *Server) handleExit(msg *osc.Message) {
	if !s.checkToken(msg) {
		return
	}
	s.logger.Info("exit requested over control channel")
	s.exit.Fire()
}

func (s *Server) handleRestartTau(msg *osc.Message) {
	if !s.checkToken(msg) {
		return
	}
	s.logger.Info("tau restart requested over control channel")
	s.beam.Restart()
}

func (s *Server) handleTauPid(msg *osc.Message) {
	if !s.checkToken(msg) {
		return
	}
	if len(msg.Arguments) < 2 {
		s.logger.Warn("malformed /tau/pid packet: missing pid argument")
		return
	}
	pid, ok := msg.Arguments[1].(int32)
	if !ok {
		s.logger.Warn("malformed /tau/pid packet: pid not an int32")
		return
	}
	s.beam.ReportPid(int(pid))
}
