package di

import (
	"fmt"
	"sync"
)

// Token is a typed handle for a service registered in the container.
// The type parameter ties registration and lookup to the same Go type.
type Token[T any] struct {
	name string
}

// NewToken creates a token. The name must be unique across the process.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

func (t Token[T]) String() string {
	return t.name
}

// lazyFactory defers construction until the first Get and memoizes the
// result, so registration order between modules does not matter.
type lazyFactory[T any] struct {
	once    sync.Once
	build   func(ServiceRegistry) T
	service T
}

func (f *lazyFactory[T]) resolve(sr ServiceRegistry) T {
	f.once.Do(func() {
		f.service = f.build(sr)
	})
	return f.service
}

// RegisterToken registers a factory for the token's service.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.Register(token.name, &lazyFactory[T]{build: factory})
}

// GetToken resolves the token's service, invoking its factory on first use.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	svc := sr.Get(token.name)
	if svc == nil {
		panic(fmt.Sprintf("di: service %q not registered", token.name))
	}
	factory, ok := svc.(*lazyFactory[T])
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", token.name, svc))
	}
	return factory.resolve(sr)
}
