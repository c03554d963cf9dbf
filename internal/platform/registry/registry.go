// Package registry holds the immutable connector catalog. Connector
// definitions are loaded from YAML files once at startup; every read after
// that is a safe shared read of value copies.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
)

var (
	ErrNotFound = errors.New("registry: not found")
)

// Registry is the read-only connector catalog.
type Registry struct {
	connectors map[string]domain.Connector
	order      []string
}

// New builds a registry from already-validated connector definitions.
// Duplicate names are a configuration error and abort construction.
func New(connectors []domain.Connector) (*Registry, error) {
	r := &Registry{connectors: make(map[string]domain.Connector, len(connectors))}
	for _, c := range connectors {
		if _, ok := r.connectors[c.Name]; ok {
			return nil, fmt.Errorf("registry: duplicate connector name %q", c.Name)
		}
		r.connectors[c.Name] = c
		r.order = append(r.order, c.Name)
	}
	sort.Strings(r.order)
	return r, nil
}

// List returns summaries of all connectors, ordered by name.
func (r *Registry) List() []domain.ConnectorSummary {
	out := make([]domain.ConnectorSummary, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.connectors[name].Summary())
	}
	return out
}

// Get returns the full connector definition by name.
func (r *Registry) Get(name string) (domain.Connector, error) {
	c, ok := r.connectors[name]
	if !ok {
		return domain.Connector{}, fmt.Errorf("connector %q: %w", name, ErrNotFound)
	}
	return c, nil
}

// Endpoints returns the endpoint catalog of a connector.
func (r *Registry) Endpoints(name string) ([]domain.Endpoint, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Endpoint, len(c.Endpoints))
	copy(out, c.Endpoints)
	return out, nil
}

// Endpoint returns a single endpoint definition by connector and endpoint
// name. This is the only source of endpoint method/path for the proxy;
// caller-supplied descriptors are treated as names, nothing more.
func (r *Registry) Endpoint(connectorName, endpointName string) (domain.Endpoint, error) {
	c, err := r.Get(connectorName)
	if err != nil {
		return domain.Endpoint{}, err
	}
	for _, e := range c.Endpoints {
		if e.Name == endpointName {
			return e, nil
		}
	}
	return domain.Endpoint{}, fmt.Errorf("endpoint %q on connector %q: %w", endpointName, connectorName, ErrNotFound)
}
