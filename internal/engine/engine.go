package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// TableFunction is a query function that consumes tagged handles and
// returns a relation handle.
type TableFunction func(args []Handle) (Handle, error)

// Engine holds the registered table-valued functions for one query
// session. Each invocation is pure and owns all state it creates, so one
// Engine may serve concurrent invocations as long as every call gets its
// own argument handles.
type Engine struct {
	funcs   map[string]TableFunction
	logger  *zap.Logger
	workers int
}

// New creates an engine with the built-in trace functions registered.
func New() *Engine {
	e := &Engine{
		funcs:  make(map[string]TableFunction),
		logger: zap.NewNop(),
	}
	registerIntervalIntersect(e)
	return e
}

// SetLogger sets the logger for debug and warning messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// SetWorkers configures how many workers narrowing stages may use.
// Zero or one keeps the serial path.
func (e *Engine) SetWorkers(n int) {
	e.workers = n
}

// Register adds a table-valued function under name.
func (e *Engine) Register(name string, fn TableFunction) error {
	if _, ok := e.funcs[name]; ok {
		return fmt.Errorf("engine: function %q already registered", name)
	}
	e.funcs[name] = fn
	return nil
}

// Invoke runs the named function over args. Failures propagate
// immediately; nothing is retried and no partial result is returned.
func (e *Engine) Invoke(name string, args []Handle) (Handle, error) {
	fn, ok := e.funcs[name]
	if !ok {
		return Handle{}, fmt.Errorf("%w: unknown function %q", ErrInvalidArgument, name)
	}
	return fn(args)
}
