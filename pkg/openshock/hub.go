package openshock

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const AutoPort = "auto"

var ErrHubNotConnected = errors.New("hub serial port is not open")

type HubState int32

const (
	HubUnconfigured HubState = iota
	HubProbing
	HubConnected
	HubDegraded
)

func (s HubState) String() string {
	switch s {
	case HubUnconfigured:
		return "unconfigured"
	case HubProbing:
		return "probing"
	case HubConnected:
		return "connected"
	case HubDegraded:
		return "degraded"
	default:
		return fmt.Sprintf("HubState(%d)", int32(s))
	}
}

type PortOpener func(path string) (io.ReadWriteCloser, error)

// Hub is the serial link to the RF transmitter. All writes are serialized
// on mu.
type Hub struct {
	mu       sync.Mutex
	state    HubState
	path     string
	port     io.ReadWriteCloser
	lastErr  error
	target   HubTarget
	lastLine string
	warned   bool
	logger   *zap.Logger
}

func NewHub(target HubTarget, logger *zap.Logger) *Hub {
	return &Hub{
		state:  HubUnconfigured,
		target: target,
		logger: logger,
	}
}

// Connect opens path. An empty path, "auto" or a path that fails to open
// falls back to the discovery probe when one is given. It reports whether
// the connected path came from discovery.
func (h *Hub) Connect(ctx context.Context, path string, open PortOpener, probe *Probe) (bool, error) {
	if path != "" && path != AutoPort {
		port, err := open(path)
		if err == nil {
			h.attach(path, port)
			return false, nil
		}
		h.logger.Warn("hub: could not open configured port", zap.String("port", path), zap.Error(err))
		if probe == nil {
			h.degrade(err)
			return false, err
		}
	}
	if probe == nil {
		h.degrade(ErrHubNotFound)
		return false, ErrHubNotFound
	}

	h.setState(HubProbing)
	found, port, err := probe.Find(ctx)
	if err != nil {
		h.degrade(err)
		return false, err
	}
	h.attach(found, port)
	return true, nil
}

// Attach adopts an already open port, e.g. one returned by Probe.Find.
func (h *Hub) Attach(path string, port io.ReadWriteCloser) {
	h.attach(path, port)
}

// Transmit sends one rftransmit command. Identical consecutive lines are
// written but only logged once.
func (h *Hub) Transmit(controlType ControlType, intensity, durationMs int) error {
	line, err := BuildTransmitLine(h.target, controlType, intensity, durationMs)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.writeLocked(line); err != nil {
		return err
	}
	if line != h.lastLine {
		h.logger.Info("hub: tx", zap.String("line", strings.TrimSpace(line)))
		h.lastLine = line
	}
	return nil
}

// WriteLine sends a raw line to the hub firmware console.
func (h *Hub) WriteLine(raw string) error {
	if !strings.HasSuffix(raw, "\n") {
		raw += "\n"
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.writeLocked(raw); err != nil {
		return err
	}
	h.logger.Info("hub: tx raw", zap.String("line", strings.TrimSpace(raw)))
	return nil
}

func (h *Hub) State() HubState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Hub) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.path
}

func (h *Hub) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.port == nil {
		return nil
	}
	port := h.port
	h.port = nil
	h.state = HubUnconfigured
	return port.Close()
}

func (h *Hub) writeLocked(line string) error {
	if h.port == nil || h.state != HubConnected {
		if !h.warned {
			h.logger.Warn("hub: port not open, dropping command", zap.String("state", h.state.String()))
			h.warned = true
		} else {
			h.logger.Debug("hub: port not open, dropping command")
		}
		return ErrHubNotConnected
	}
	if _, err := io.WriteString(h.port, line); err != nil {
		h.logger.Warn("hub: write error", zap.String("port", h.path), zap.Error(err))
		h.failLocked(err)
		return fmt.Errorf("hub write: %w", err)
	}
	return nil
}

func (h *Hub) attach(path string, port io.ReadWriteCloser) {
	h.mu.Lock()
	h.path = path
	h.port = port
	h.state = HubConnected
	h.lastErr = nil
	h.lastLine = ""
	h.warned = false
	h.mu.Unlock()

	h.logger.Info("hub: connected", zap.String("port", path))
	go h.readLoop(port)
}

// readLoop drains firmware output. A read error on the current port moves
// the hub to degraded.
func (h *Hub) readLoop(port io.ReadWriteCloser) {
	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.logger.Debug("hub: rx", zap.String("line", line))
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.port != port {
		return
	}
	h.logger.Warn("hub: read loop ended", zap.String("port", h.path), zap.Error(err))
	h.failLocked(err)
}

func (h *Hub) failLocked(err error) {
	if h.port != nil {
		_ = h.port.Close()
		h.port = nil
	}
	h.state = HubDegraded
	h.lastErr = err
	h.warned = true
}

func (h *Hub) degrade(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = HubDegraded
	h.lastErr = err
	h.logger.Warn("hub: not connected, hub transport is degraded", zap.Error(err))
}

func (h *Hub) setState(state HubState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = state
}
