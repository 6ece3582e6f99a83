package submit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	DefaultService = "_geoanswer._tcp"
	DefaultPath    = "/answers"
)

var ErrNoEvaluator = errors.New("no evaluator answered the mDNS query")

// Discovery finds an evaluator on the local network.
type Discovery struct {
	Service string
	Domain  string
	// Timeout is how long one query waits for responses.
	Timeout time.Duration
}

// Lookup returns the websocket url of the first evaluator that answers.
func (d *Discovery) Lookup(ctx context.Context) (string, error) {
	service := d.Service
	if service == "" {
		service = DefaultService
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan error, 1)
	go func() {
		done <- mdns.Query(&mdns.QueryParam{
			Service:     service,
			Domain:      d.Domain,
			Timeout:     timeout,
			Entries:     entries,
			DisableIPv6: true,
		})
	}()

	for {
		select {
		case e := <-entries:
			if url, ok := entryURL(e); ok {
				return url, nil
			}
		case err := <-done:
			for {
				select {
				case e := <-entries:
					if url, ok := entryURL(e); ok {
						return url, nil
					}
				default:
					if err != nil {
						return "", fmt.Errorf("querying %s: %w", service, err)
					}
					return "", ErrNoEvaluator
				}
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// entryURL builds the endpoint for a service entry. A "path=" TXT field
// overrides DefaultPath.
func entryURL(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return "", false
	}
	path := DefaultPath
	for _, field := range e.InfoFields {
		if p, ok := strings.CutPrefix(field, "path="); ok && strings.HasPrefix(p, "/") {
			path = p
		}
	}
	return fmt.Sprintf("ws://%s:%d%s", e.AddrV4.String(), e.Port, path), true
}

// Advertise announces an evaluator listening on port.
func Advertise(service string, port int, path string) (*mdns.Server, error) {
	if service == "" {
		service = DefaultService
	}
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("getting hostname: %w", err)
	}

	zone, err := mdns.NewMDNSService(host, service, "", "", port, nil, []string{"path=" + path})
	if err != nil {
		return nil, fmt.Errorf("creating mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: zone})
	if err != nil {
		return nil, fmt.Errorf("starting mDNS server: %w", err)
	}
	return server, nil
}
