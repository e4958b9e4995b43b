package collector

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// ReadFunc reads one metric category.
type ReadFunc func(ctx context.Context) (interface{}, error)

// Result is the outcome of one ReadFunc.
type Result struct {
	Data interface{}
	Err  error
}

// Registry runs one reader per category concurrently.
type Registry struct {
	readers map[snapshot.Category]ReadFunc
	order   []snapshot.Category
	logger  *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		readers: make(map[snapshot.Category]ReadFunc),
		logger:  logger,
	}
}

// Register sets the reader for a category, replacing any earlier one.
func (r *Registry) Register(c snapshot.Category, fn ReadFunc) {
	if _, ok := r.readers[c]; !ok {
		r.order = append(r.order, c)
	}
	r.readers[c] = fn
	r.logger.Debug("Registered reader", zap.Stringer("category", c))
}

// Categories returns the registered categories in registration order.
func (r *Registry) Categories() []snapshot.Category {
	out := make([]snapshot.Category, len(r.order))
	copy(out, r.order)
	return out
}

// CollectAll runs every reader concurrently and waits for all of them. A
// failing reader never prevents the others from completing; its error is
// returned in its Result.
func (r *Registry) CollectAll(ctx context.Context) map[snapshot.Category]Result {
	results := make(map[snapshot.Category]Result, len(r.order))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, c := range r.order {
		wg.Add(1)
		go func(c snapshot.Category, fn ReadFunc) {
			defer wg.Done()
			data, err := fn(ctx)
			mu.Lock()
			results[c] = Result{Data: data, Err: err}
			mu.Unlock()
		}(c, r.readers[c])
	}

	wg.Wait()
	return results
}
