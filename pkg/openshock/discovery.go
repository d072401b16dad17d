package openshock

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultProbeTimeout = 3 * time.Second
	ProbeCommand        = "help\n"
)

var ErrHubNotFound = errors.New("no hub found on candidate serial ports")

var (
	// CP210x, CH340, FTDI, Espressif native USB
	DefaultVendorIds = []string{"10C4", "1A86", "0403", "303A"}
	// substrings printed by the hub firmware help output
	DefaultSignatures = []string{"OpenShock", "rftransmit", "rfconfig"}
)

type PortInfo struct {
	Path     string
	VendorId string
	IsUSB    bool
}

type Candidate struct {
	Path     string
	VendorId string
}

type PortLister interface {
	ListPorts() ([]PortInfo, error)
}

// Probe looks for the hub among the USB-serial ports of the host. Candidates
// are tried one after the other, each for at most Timeout.
type Probe struct {
	Lister     PortLister
	Open       PortOpener
	VendorIds  []string
	Signatures []string
	Timeout    time.Duration
	logger     *zap.Logger
}

func NewProbe(lister PortLister, open PortOpener, logger *zap.Logger) *Probe {
	return &Probe{
		Lister:     lister,
		Open:       open,
		VendorIds:  DefaultVendorIds,
		Signatures: DefaultSignatures,
		Timeout:    DefaultProbeTimeout,
		logger:     logger,
	}
}

// FilterCandidates keeps the ports whose vendor id is in the allow list.
func FilterCandidates(ports []PortInfo, vendorIds []string) []Candidate {
	var candidates []Candidate
	for _, p := range ports {
		for _, vid := range vendorIds {
			if p.VendorId != "" && strings.EqualFold(p.VendorId, vid) {
				candidates = append(candidates, Candidate{Path: p.Path, VendorId: p.VendorId})
				break
			}
		}
	}
	return candidates
}

// Find returns the path and the open port of the first candidate answering
// with a known signature. Every other port it opened is closed again.
func (p *Probe) Find(ctx context.Context) (string, io.ReadWriteCloser, error) {
	ports, err := p.Lister.ListPorts()
	if err != nil {
		return "", nil, fmt.Errorf("list serial ports: %w", err)
	}
	candidates := FilterCandidates(ports, p.VendorIds)
	p.logger.Info("discovery: probing candidates", zap.Int("ports", len(ports)), zap.Int("candidates", len(candidates)))

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		if port := p.try(ctx, c); port != nil {
			p.logger.Info("discovery: hub found", zap.String("port", c.Path), zap.String("vid", c.VendorId))
			return c.Path, port, nil
		}
	}
	return "", nil, ErrHubNotFound
}

func (p *Probe) try(ctx context.Context, c Candidate) io.ReadWriteCloser {
	port, err := p.Open(c.Path)
	if err != nil {
		p.logger.Debug("discovery: open failed", zap.String("port", c.Path), zap.Error(err))
		return nil
	}
	if _, err := io.WriteString(port, ProbeCommand); err != nil {
		p.logger.Debug("discovery: write failed", zap.String("port", c.Path), zap.Error(err))
		_ = port.Close()
		return nil
	}

	matched := make(chan bool, 1)
	go func() {
		scanner := bufio.NewScanner(port)
		for scanner.Scan() {
			if p.isSignature(scanner.Text()) {
				matched <- true
				return
			}
		}
		matched <- false
	}()

	timer := time.NewTimer(p.Timeout)
	defer timer.Stop()

	select {
	case ok := <-matched:
		if ok {
			return port
		}
		p.logger.Debug("discovery: port closed without signature", zap.String("port", c.Path))
	case <-timer.C:
		p.logger.Debug("discovery: timeout", zap.String("port", c.Path), zap.Duration("timeout", p.Timeout))
	case <-ctx.Done():
	}
	_ = port.Close()
	return nil
}

func (p *Probe) isSignature(line string) bool {
	for _, sig := range p.Signatures {
		if strings.Contains(line, sig) {
			return true
		}
	}
	return false
}
