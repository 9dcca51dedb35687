package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/guestmem/errors"
	"github.com/wippyai/guestmem/hostfunc"
)

// session is one guest module instantiated next to WASI and the demo host
// module.
type session struct {
	rt    wazero.Runtime
	guest api.Module
	funcs map[string]api.FunctionDefinition
}

func (a *app) open(ctx context.Context, path string, stdout, stderr io.Writer) (*session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}

	rt := wazero.NewRuntime(ctx)
	s, err := a.instantiate(ctx, rt, path, data, stdout, stderr)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (a *app) instantiate(ctx context.Context, rt wazero.Runtime, path string, data []byte, stdout, stderr io.Writer) (*session, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return nil, errors.Instantiation(err)
	}

	opts := append([]hostfunc.Option{
		hostfunc.WithLogger(a.logger),
		hostfunc.WithOutput(stdout),
	}, a.cfg.hostOptions()...)
	if _, err := hostfunc.Demo(opts...).Instantiate(ctx, rt); err != nil {
		return nil, err
	}

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		return nil, errors.Load("compile "+path, err)
	}

	// Start functions are not run here so that _start can be called like
	// any other export.
	guest, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().
		WithName("guest").
		WithArgs(filepath.Base(path)).
		WithStdout(stdout).
		WithStderr(stderr).
		WithStartFunctions())
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	funcs := compiled.ExportedFunctions()
	a.logger.Debug("guest instantiated",
		zap.String("path", path),
		zap.Int("exports", len(funcs)),
	)
	return &session{rt: rt, guest: guest, funcs: funcs}, nil
}

func (s *session) Close(ctx context.Context) error {
	return s.rt.Close(ctx)
}

func (s *session) names() []string {
	names := make([]string, 0, len(s.funcs))
	for name := range s.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// entry picks the function to call: the explicit name, then the configured
// fallback, then a conventional entry point, then the only export.
func (s *session) entry(name, fallback string) (string, error) {
	if name == "" {
		name = fallback
	}
	if name != "" {
		if _, ok := s.funcs[name]; !ok {
			return "", errors.NotFound(errors.PhaseLoad, "export", name)
		}
		return name, nil
	}
	for _, candidate := range []string{"_start", "run", "main"} {
		if _, ok := s.funcs[candidate]; ok {
			return candidate, nil
		}
	}
	if len(s.funcs) == 1 {
		return s.names()[0], nil
	}
	return "", errors.InvalidInput(errors.PhaseLoad, "no entry point found, use --func")
}

// signature formats an export by its export name; guest functions
// usually have no name of their own.
func signature(name string, def api.FunctionDefinition) string {
	params := make([]string, len(def.ParamTypes()))
	for i, t := range def.ParamTypes() {
		params[i] = api.ValueTypeName(t)
	}
	sig := name + "(" + strings.Join(params, ", ") + ")"

	if results := def.ResultTypes(); len(results) > 0 {
		names := make([]string, len(results))
		for i, t := range results {
			names[i] = api.ValueTypeName(t)
		}
		sig += " -> " + strings.Join(names, ", ")
	}
	return sig
}

func parseArgs(name string, def api.FunctionDefinition, args []string) ([]uint64, error) {
	types := def.ParamTypes()
	if len(args) != len(types) {
		return nil, errors.InvalidInput(errors.PhaseHost,
			fmt.Sprintf("%s takes %d arguments, got %d", name, len(types), len(args)))
	}

	stack := make([]uint64, len(types))
	for i, t := range types {
		v, err := parseValue(t, strings.TrimSpace(args[i]))
		if err != nil {
			return nil, errors.New(errors.PhaseHost, errors.KindInvalidInput).
				Function(name).
				Value(args[i]).
				Cause(err).
				Detail("argument %d is not a valid %s", i, api.ValueTypeName(t)).
				Build()
		}
		stack[i] = v
	}
	return stack, nil
}

func parseValue(t api.ValueType, s string) (uint64, error) {
	switch t {
	case api.ValueTypeI32:
		v, err := parseInt(s, 32)
		return uint64(uint32(v)), err
	case api.ValueTypeI64:
		v, err := parseInt(s, 64)
		return uint64(v), err
	case api.ValueTypeF32:
		v, err := strconv.ParseFloat(s, 32)
		return api.EncodeF32(float32(v)), err
	case api.ValueTypeF64:
		v, err := strconv.ParseFloat(s, 64)
		return api.EncodeF64(v), err
	default:
		return 0, fmt.Errorf("unsupported parameter type %s", api.ValueTypeName(t))
	}
}

// parseInt accepts both the signed and the unsigned spelling of a value,
// so -1 and 0xffffffff are the same i32.
func parseInt(s string, bits int) (int64, error) {
	if v, err := strconv.ParseInt(s, 0, bits); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, err
	}
	if bits == 32 {
		return int64(int32(uint32(u))), nil
	}
	return int64(u), nil
}

func formatValue(t api.ValueType, v uint64) string {
	switch t {
	case api.ValueTypeI32:
		return strconv.FormatInt(int64(api.DecodeI32(v)), 10)
	case api.ValueTypeI64:
		return strconv.FormatInt(int64(v), 10)
	case api.ValueTypeF32:
		return strconv.FormatFloat(float64(api.DecodeF32(v)), 'g', -1, 32)
	case api.ValueTypeF64:
		return strconv.FormatFloat(api.DecodeF64(v), 'g', -1, 64)
	default:
		return fmt.Sprintf("%#x", v)
	}
}

func formatResults(def api.FunctionDefinition, results []uint64) string {
	if len(results) == 0 {
		return "()"
	}
	parts := make([]string, len(results))
	for i, t := range def.ResultTypes() {
		parts[i] = formatValue(t, results[i])
	}
	return strings.Join(parts, ", ")
}
