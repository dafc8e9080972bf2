package engine

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/spinemesh/pkg/cylinder"
	"github.com/chazu/spinemesh/pkg/disc"
	"github.com/chazu/spinemesh/pkg/geom"
)

// JobKind identifies what a job builds.
type JobKind int

const (
	JobBox  JobKind = iota // butterfly seed box
	JobBody                // vertebral body
	JobDisc                // intervertebral disc between two bodies
)

func (k JobKind) String() string {
	switch k {
	case JobBox:
		return "box"
	case JobBody:
		return "vertebra"
	case JobDisc:
		return "disc"
	default:
		return fmt.Sprintf("JobKind(%d)", int(k))
	}
}

// BoxJob is a standalone butterfly box.
type BoxJob struct {
	Bounds geom.Bounds
	Layers int
	Seeds  cylinder.Seeds
}

// DiscJob names the bodies a disc bridges.
type DiscJob struct {
	Lower, Upper string
	Params       disc.Params
}

// Job is one named meshing task. Exactly one of Box, Body and Disc is
// set, matching Kind.
type Job struct {
	Name string
	Kind JobKind

	Box  *BoxJob
	Body *cylinder.Spec
	Disc *DiscJob
}

// Output requests that a job's mesh be written in the given formats.
type Output struct {
	Job     string
	Formats []string
}

// Plan is the result of evaluating a job script: jobs in declaration
// order and the outputs to write.
type Plan struct {
	Jobs    []Job
	Outputs []Output
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{}
}

// Lookup returns the job named name, or nil.
func (p *Plan) Lookup(name string) *Job {
	for i := range p.Jobs {
		if p.Jobs[i].Name == name {
			return &p.Jobs[i]
		}
	}
	return nil
}

// JobCount returns the number of jobs.
func (p *Plan) JobCount() int { return len(p.Jobs) }

// OfKind returns the jobs of kind k in declaration order.
func (p *Plan) OfKind(k JobKind) []Job {
	return lo.Filter(p.Jobs, func(j Job, _ int) bool { return j.Kind == k })
}

// add appends j, rejecting duplicate names.
func (p *Plan) add(j Job) error {
	if p.Lookup(j.Name) != nil {
		return fmt.Errorf("duplicate job %q", j.Name)
	}
	p.Jobs = append(p.Jobs, j)
	return nil
}

// Validate checks cross-job references: discs must bridge two distinct
// bodies declared before them, and outputs must name existing jobs.
func (p *Plan) Validate() []EvalError {
	var errs []EvalError
	for i, j := range p.Jobs {
		if j.Kind != JobDisc {
			continue
		}
		for _, ref := range [2]string{j.Disc.Lower, j.Disc.Upper} {
			idx := lo.IndexOf(lo.Map(p.Jobs, func(j Job, _ int) string { return j.Name }), ref)
			switch {
			case idx < 0:
				errs = append(errs, EvalError{Message: fmt.Sprintf("disc %q: no job named %q", j.Name, ref)})
			case p.Jobs[idx].Kind != JobBody:
				errs = append(errs, EvalError{Message: fmt.Sprintf("disc %q: %q is a %s, want a vertebra", j.Name, ref, p.Jobs[idx].Kind)})
			case idx > i:
				errs = append(errs, EvalError{Message: fmt.Sprintf("disc %q: vertebra %q is declared after it", j.Name, ref)})
			}
		}
		if j.Disc.Lower == j.Disc.Upper {
			errs = append(errs, EvalError{Message: fmt.Sprintf("disc %q: lower and upper are both %q", j.Name, j.Disc.Lower)})
		}
	}
	for _, o := range p.Outputs {
		if p.Lookup(o.Job) == nil {
			errs = append(errs, EvalError{Message: fmt.Sprintf("output: no job named %q", o.Job)})
		}
	}
	return errs
}
