package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/orb/internal/flow"
)

// DefaultCacheSize is the number of parsed table files a Resolver keeps.
const DefaultCacheSize = 128

// Options configures reading and resolution.
type Options struct {
	// Logger receives debug output. Nil discards.
	Logger *slog.Logger

	// CacheSize bounds the parsed-table cache. Zero disables caching.
	CacheSize int

	// BaseDir, when set, anchors relative rule paths. Otherwise they are
	// relative to the process working directory.
	BaseDir string

	// RelativeToFlow makes Load set BaseDir to the flow file's directory.
	RelativeToFlow bool
}

// Resolver turns unit specs into resolved units. A Resolver is meant for a
// single run and is not safe for concurrent use.
type Resolver struct {
	logger  *slog.Logger
	baseDir string
	tables  *lru.Cache[string, []flow.Rule] // nil when caching is disabled
}

// NewResolver creates a Resolver from opts.
func NewResolver(opts Options) (*Resolver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Resolver{logger: logger, baseDir: opts.BaseDir}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, []flow.Rule](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating rule cache: %w", err)
		}
		r.tables = cache
	}
	return r, nil
}

// ResolveAll resolves specs in order and stops at the first failure.
// On error no units are returned.
func (r *Resolver) ResolveAll(specs []flow.UnitSpec) ([]flow.ResolvedUnit, error) {
	units := make([]flow.ResolvedUnit, 0, len(specs))
	for _, spec := range specs {
		unit, err := r.Resolve(spec)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// Resolve loads the rule payload for a single unit according to its kind.
func (r *Resolver) Resolve(spec flow.UnitSpec) (flow.ResolvedUnit, error) {
	var (
		payload flow.Payload
		err     error
	)

	switch spec.Kind {
	case flow.KindTable:
		payload, err = r.resolveTable(spec)
	case flow.KindExpression:
		payload, err = resolveExpression(spec)
	case flow.KindFunction:
		payload, err = r.resolveFunction(spec)
	default:
		e := flow.LoadError(flow.ErrCodeUnknownKind, "", fmt.Sprintf("unknown decision kind %q", spec.Kind), nil)
		e.UnitID = spec.ID
		return flow.ResolvedUnit{}, e
	}
	if err != nil {
		return flow.ResolvedUnit{}, err
	}

	r.logger.Debug("resolved decision unit", "id", spec.ID, "kind", spec.Kind)
	return flow.ResolvedUnit{UnitSpec: spec, Payload: payload}, nil
}

func (r *Resolver) resolveTable(spec flow.UnitSpec) (*flow.TableRules, error) {
	format := tableFormatOf(spec.Rules)
	if format == formatNone {
		r.logger.Debug("table rules have no .json or .csv suffix, using zero rows",
			"id", spec.ID, "rules", spec.Rules)
		return &flow.TableRules{Rows: []flow.Rule{}}, nil
	}

	path := r.rulePath(spec.Rules)
	if r.tables != nil {
		if rows, ok := r.tables.Get(path); ok {
			r.logger.Debug("table rules cache hit", "id", spec.ID, "path", path)
			return &flow.TableRules{Rows: copyRules(rows)}, nil
		}
	}

	data, err := r.readRuleFile(spec, path)
	if err != nil {
		return nil, err
	}

	var rows []flow.Rule
	switch format {
	case formatJSON:
		rows, err = parseRulesJSON(data)
	case formatCSV:
		rows, err = parseRulesCSV(data)
	}
	if err != nil {
		return nil, flow.ResolutionError(flow.ErrCodeRuleMalformed, spec.ID, path, "malformed table rules", err)
	}

	if r.tables != nil {
		r.tables.Add(path, rows)
	}
	return &flow.TableRules{Rows: copyRules(rows)}, nil
}

func resolveExpression(spec flow.UnitSpec) (*flow.Expression, error) {
	if len(spec.Inputs) == 0 {
		return nil, flow.ResolutionError(flow.ErrCodeNoExpressionKey, spec.ID, "",
			"expression unit must declare at least one input field", nil)
	}
	return &flow.Expression{Key: spec.Inputs[0], Text: spec.Rules}, nil
}

func (r *Resolver) resolveFunction(spec flow.UnitSpec) (*flow.FunctionSource, error) {
	path := r.rulePath(spec.Rules)
	data, err := r.readRuleFile(spec, path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, flow.ResolutionError(flow.ErrCodeSourceEncoding, spec.ID, path,
			"function source is not valid UTF-8", nil)
	}
	return &flow.FunctionSource{Source: string(data)}, nil
}

func (r *Resolver) readRuleFile(spec flow.UnitSpec, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := "reading rule file"
		if errors.Is(err, os.ErrNotExist) {
			msg = "rule file not found"
		}
		return nil, flow.ResolutionError(flow.ErrCodeRuleUnreadable, spec.ID, path, msg, err)
	}
	return data, nil
}

// rulePath anchors a relative rule location at baseDir, when one is set.
func (r *Resolver) rulePath(location string) string {
	if r.baseDir == "" || filepath.IsAbs(location) {
		return filepath.Clean(location)
	}
	return filepath.Join(r.baseDir, location)
}
