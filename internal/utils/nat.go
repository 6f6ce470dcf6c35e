package utils

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	natlib "github.com/libp2p/go-nat"
)

// NAT is the libp2p gateway interface.
type NAT = natlib.NAT

const (
	natTimeout      = 5 * time.Second
	mappingLifetime = 30 * time.Minute
)

// PortMapper keeps a TCP port mapping for the probe's listen port on a
// UPnP or NAT-PMP gateway. The gateway is discovered once and cached.
type PortMapper struct {
	port        int
	description string
	logger      *Logger

	discover func(ctx context.Context) (NAT, error)

	once    sync.Once
	nat     NAT
	natErr  error
	mu      sync.Mutex
	mapped  bool
	extPort int
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewPortMapper returns a mapper for internal TCP port.
func NewPortMapper(port int, description string, logger *Logger) *PortMapper {
	return &PortMapper{
		port:        port,
		description: description,
		logger:      logger,
		discover:    natlib.DiscoverGateway,
	}
}

func (m *PortMapper) gateway(ctx context.Context) (NAT, error) {
	m.once.Do(func() {
		c, cancel := context.WithTimeout(ctx, natTimeout)
		defer cancel()
		m.nat, m.natErr = m.discover(c)
		if m.natErr == nil && m.nat == nil {
			m.natErr = fmt.Errorf("no NAT gateway found")
		}
	})
	return m.nat, m.natErr
}

// Map adds the mapping and starts refreshing it at half its lifetime. It
// returns the external port chosen by the gateway.
func (m *PortMapper) Map(ctx context.Context) (int, error) {
	ext, err := m.add(ctx)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	if m.stopCh == nil {
		m.stopCh = make(chan struct{})
		m.doneCh = make(chan struct{})
		go m.refreshLoop(m.stopCh, m.doneCh)
	}
	m.mu.Unlock()
	return ext, nil
}

func (m *PortMapper) add(ctx context.Context) (int, error) {
	n, err := m.gateway(ctx)
	if err != nil {
		return 0, fmt.Errorf("discover gateway: %w", err)
	}
	c, cancel := context.WithTimeout(ctx, natTimeout)
	defer cancel()
	ext, err := n.AddPortMapping(c, "tcp", m.port, m.description, mappingLifetime)
	if err != nil {
		return 0, fmt.Errorf("add port mapping %d/tcp: %w", m.port, err)
	}
	m.mu.Lock()
	m.mapped = true
	m.extPort = ext
	m.mu.Unlock()
	return ext, nil
}

func (m *PortMapper) refreshLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(mappingLifetime / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := m.add(context.Background()); err != nil {
				m.logger.Writef("NAT mapping refresh failed: %v", err)
			}
		case <-stop:
			return
		}
	}
}

// ExternalIP returns the gateway's public address.
func (m *PortMapper) ExternalIP(ctx context.Context) (net.IP, error) {
	n, err := m.gateway(ctx)
	if err != nil {
		return nil, err
	}
	return n.GetExternalAddress()
}

// Unmap stops refreshing and removes the mapping if one was added.
func (m *PortMapper) Unmap(ctx context.Context) error {
	m.mu.Lock()
	stop, done := m.stopCh, m.doneCh
	m.stopCh, m.doneCh = nil, nil
	mapped := m.mapped
	m.mapped = false
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	if !mapped {
		return nil
	}
	n, err := m.gateway(ctx)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, natTimeout)
	defer cancel()
	return n.DeletePortMapping(c, "tcp", m.port)
}
