package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/mdns"
	"go.uber.org/zap"
)

// ServiceType is what recognition backends advertise on the LAN.
const ServiceType = "_mathboard._tcp"

var ErrNoBackendFound = errors.New("no recognition backend found on the local network")

// browse is swapped out in tests.
var browse = func(params *mdns.QueryParam) error {
	return mdns.Query(params)
}

// Discover browses mDNS for a backend and returns its base URL.
func Discover(ctx context.Context, timeout time.Duration, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("discovery")

	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			u, ok := entryURL(e)
			if !ok {
				continue
			}
			select {
			case found <- u:
			default:
			}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	logger.Info("browsing for backend", zap.String("service", ServiceType), zap.Duration("timeout", timeout))
	err := browse(params)
	close(entries)
	<-done
	if err != nil {
		return "", fmt.Errorf("mdns query: %w", err)
	}

	select {
	case u := <-found:
		logger.Info("backend found", zap.String("url", u))
		return u, nil
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		return "", ErrNoBackendFound
	}
}

func entryURL(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return "", false
	}
	return "http://" + net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)), true
}
