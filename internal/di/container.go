// Package di provides a minimal service container for module wiring.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under token, or nil.
	Get(token string) any
	// MustGet returns the service registered under token, panicking if absent.
	MustGet(token string) any
}

// Container registers and resolves services by token.
type Container interface {
	ServiceRegistry
	// Register stores a service under token, replacing any previous value.
	Register(token string, service any)
}

type container struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewContainer creates an empty Container.
func NewContainer() Container {
	return &container{
		services: make(map[string]any),
	}
}

func (c *container) Register(token string, service any) {
	c.mu.Lock()
	c.services[token] = service
	c.mu.Unlock()
}

func (c *container) Get(token string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[token]
}

func (c *container) MustGet(token string) any {
	svc := c.Get(token)
	if svc == nil {
		panic(fmt.Sprintf("di: service %q not registered", token))
	}
	return svc
}
