package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/chazu/spinemesh/pkg/butterfly"
	"github.com/chazu/spinemesh/pkg/config"
	"github.com/chazu/spinemesh/pkg/cylinder"
	"github.com/chazu/spinemesh/pkg/disc"
	"github.com/chazu/spinemesh/pkg/engine"
	"github.com/chazu/spinemesh/pkg/export"
	"github.com/chazu/spinemesh/pkg/kernel"
	"github.com/chazu/spinemesh/pkg/kernel/sdfx"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// App runs meshing jobs. It owns the script engine and the geometry
// kernel; every run gets its own id for log correlation.
type App struct {
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel
	log    *log.Logger
}

// JobResult is the outcome of one job.
type JobResult struct {
	Name string
	Kind engine.JobKind
	Mesh *mesh.Unstructured
	// Box is the companion seed box of a disc, written as "<name>-box".
	Box   *mesh.Unstructured
	Files []string
}

// boxSuffix names the companion box files of a disc job.
const boxSuffix = "-box"

// RunResult is the outcome of a whole plan.
type RunResult struct {
	ID   string
	Jobs []JobResult
}

// Job returns the result of the named job, or nil.
func (r *RunResult) Job(name string) *JobResult {
	for i := range r.Jobs {
		if r.Jobs[i].Name == name {
			return &r.Jobs[i]
		}
	}
	return nil
}

// ScriptError carries every evaluation error of a job script.
type ScriptError struct {
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := lo.Map(e.Errors, func(ee engine.EvalError, _ int) string { return ee.Error() })
	return "script: " + strings.Join(msgs, "; ")
}

// NewApp creates an App with the sdfx kernel. A nil logger discards output.
func NewApp(cfg config.Config, l *log.Logger) *App {
	if l == nil {
		l = log.New(io.Discard)
	}
	return &App{
		cfg:    cfg,
		engine: engine.NewEngine(engine.WithTimeout(cfg.Engine.Timeout.Duration)),
		kernel: sdfx.New(sdfx.WithMeshCells(cfg.Surface.Cells)),
		log:    l,
	}
}

// RunScript evaluates source and runs the resulting plan.
func (a *App) RunScript(ctx context.Context, source string) (*RunResult, error) {
	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Errors: evalErrs}
	}
	return a.Run(ctx, p)
}

// Run builds every job of p in declaration order and writes its files.
// Jobs named by an output statement use that statement's formats; the
// others use the configured formats. Cancellation is checked between jobs.
func (a *App) Run(ctx context.Context, p *engine.Plan) (*RunResult, error) {
	res := &RunResult{ID: uuid.New().String()}
	l := a.log.With("run", res.ID[:8])
	l.Info("starting run", "jobs", p.JobCount())

	formats, err := a.outputFormats(p)
	if err != nil {
		return res, err
	}

	meshes := make(map[string]*mesh.Unstructured, p.JobCount())
	for i := range p.Jobs {
		j := &p.Jobs[i]
		if err := ctx.Err(); err != nil {
			return res, err
		}
		prog := newProgress(l)

		m, box, err := a.buildJob(j, meshes, l)
		if err != nil {
			return res, fmt.Errorf("%s %q: %w", j.Kind, j.Name, err)
		}
		meshes[j.Name] = m

		files, err := export.WriteAll(a.cfg.Output.Dir, j.Name, formats[j.Name], m)
		if err != nil {
			return res, fmt.Errorf("%s %q: %w", j.Kind, j.Name, err)
		}
		if box != nil {
			bf, err := export.WriteAll(a.cfg.Output.Dir, j.Name+boxSuffix, formats[j.Name], box)
			if err != nil {
				return res, fmt.Errorf("%s %q: companion box: %w", j.Kind, j.Name, err)
			}
			files = append(files, bf...)
		}
		res.Jobs = append(res.Jobs, JobResult{Name: j.Name, Kind: j.Kind, Mesh: m, Box: box, Files: files})
		prog.done(fmt.Sprintf("Built %s %q: %d cells, %d points", j.Kind, j.Name, m.NumCells(), m.NumPoints()))
	}
	return res, nil
}

// outputFormats resolves the formats each job is written in.
func (a *App) outputFormats(p *engine.Plan) (map[string][]export.Format, error) {
	defaults, err := parseFormats(a.cfg.Output.Formats)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]export.Format, p.JobCount())
	for _, j := range p.Jobs {
		out[j.Name] = defaults
	}
	for _, o := range p.Outputs {
		if len(o.Formats) == 0 {
			continue
		}
		fs, err := parseFormats(o.Formats)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", o.Job, err)
		}
		out[o.Job] = lo.Uniq(fs)
	}
	return out, nil
}

func parseFormats(names []string) ([]export.Format, error) {
	out := make([]export.Format, 0, len(names))
	for _, n := range names {
		f, err := export.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// buildJob builds the mesh of j. Disc jobs also return their companion
// seed box.
func (a *App) buildJob(j *engine.Job, built map[string]*mesh.Unstructured, l *log.Logger) (m, box *mesh.Unstructured, err error) {
	switch j.Kind {
	case engine.JobBox:
		m, err = a.BuildBox(*j.Box)
		return m, nil, err
	case engine.JobBody:
		m, err = a.BuildBody(*j.Body, l)
		return m, nil, err
	case engine.JobDisc:
		lower, upper := built[j.Disc.Lower], built[j.Disc.Upper]
		if lower == nil || upper == nil {
			return nil, nil, errors.New("disc bodies not built")
		}
		r, err := disc.Build(lower, upper, j.Disc.Params, disc.WithLogger(l))
		if err != nil {
			return nil, nil, err
		}
		return r.Mesh, r.Box, nil
	}
	return nil, nil, fmt.Errorf("unknown job kind %s", j.Kind)
}

// BuildBox builds a butterfly box.
func (a *App) BuildBox(j engine.BoxJob) (*mesh.Unstructured, error) {
	var opts []butterfly.Option
	if j.Seeds != (cylinder.Seeds{}) {
		if err := j.Seeds.Validate(); err != nil {
			return nil, err
		}
		opts = append(opts, butterfly.WithCellDims(j.Seeds.BoxDims()))
	}
	return butterfly.Build(j.Bounds, j.Layers, opts...)
}

// BuildBody generates the inputs of a parametric body and builds its mesh.
// An unset surface mode falls back to the configured one.
func (a *App) BuildBody(s cylinder.Spec, l *log.Logger) (*mesh.Unstructured, error) {
	if s.Surface == "" {
		s.Surface = kernel.SurfaceMode(a.cfg.Surface.Mode)
	}
	in, err := cylinder.Generate(a.kernel, s)
	if err != nil {
		return nil, err
	}
	return cylinder.Build(in, cylinder.WithLogger(l), cylinder.WithTolerance(a.cfg.Mesh.Tolerance))
}
