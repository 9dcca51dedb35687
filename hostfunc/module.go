package hostfunc

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/guestmem/errors"
)

// Module collects guarded host functions under one import module name.
type Module struct {
	err   error
	names map[string]struct{}
	name  string
	funcs []export
	cfg   config
}

type export struct {
	handler Handler
	name    string
	params  []api.ValueType
	results []api.ValueType
}

// Params is shorthand for a value type list.
func Params(types ...api.ValueType) []api.ValueType {
	return types
}

// NewModule starts a host module that guest code imports as name.
func NewModule(name string, opts ...Option) *Module {
	return &Module{
		name:  name,
		names: make(map[string]struct{}),
		cfg:   newConfig(opts),
	}
}

// Name returns the import module name.
func (m *Module) Name() string {
	return m.name
}

// Export adds a guarded function. The first registration error sticks and
// is returned by Instantiate.
func (m *Module) Export(name string, h Handler, params, results []api.ValueType) *Module {
	if m.err != nil {
		return m
	}
	switch {
	case name == "":
		m.err = errors.InvalidInput(errors.PhaseHost, "function name cannot be empty")
	case h == nil:
		m.err = errors.Registration(errors.PhaseHost, m.name, name,
			errors.InvalidInput(errors.PhaseHost, "handler cannot be nil"))
	default:
		if _, dup := m.names[name]; dup {
			m.err = errors.Registration(errors.PhaseHost, m.name, name,
				errors.InvalidInput(errors.PhaseHost, "duplicate export"))
			return m
		}
		m.names[name] = struct{}{}
		m.funcs = append(m.funcs, export{name: name, handler: h, params: params, results: results})
	}
	return m
}

// Functions returns the exported function names in registration order.
func (m *Module) Functions() []string {
	names := make([]string, len(m.funcs))
	for i, f := range m.funcs {
		names[i] = f.name
	}
	return names
}

// Instantiate registers the module with rt.
func (m *Module) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	if m.name == "" {
		return nil, errors.InvalidInput(errors.PhaseHost, "module name cannot be empty")
	}
	if m.err != nil {
		return nil, m.err
	}

	b := rt.NewHostModuleBuilder(m.name)
	for _, f := range m.funcs {
		b.NewFunctionBuilder().
			WithGoModuleFunction(guard(f.name, f.handler, m.cfg), f.params, f.results).
			WithName(f.name).
			Export(f.name)
	}

	inst, err := b.Instantiate(ctx)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	m.cfg.logger.Debug("host module instantiated",
		zap.String("module", m.name),
		zap.Int("functions", len(m.funcs)),
	)
	return inst, nil
}
