package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/spinemesh/pkg/config"
	"github.com/chazu/spinemesh/pkg/cylinder"
	"github.com/chazu/spinemesh/pkg/engine"
	"github.com/chazu/spinemesh/pkg/export"
	"github.com/chazu/spinemesh/pkg/geom"
)

func testApp(t *testing.T) (*App, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	return NewApp(cfg, nil), cfg.Output.Dir
}

// TestE2ELumbarExample exercises the full pipeline: script, engine, plan,
// bodies, disc and file output.
func TestE2ELumbarExample(t *testing.T) {
	app, dir := testApp(t)

	source, err := os.ReadFile("examples/lumbar.lisp")
	if err != nil {
		t.Fatalf("failed to read lumbar.lisp: %v", err)
	}

	res, err := app.RunScript(context.Background(), string(source))
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if res.ID == "" {
		t.Error("run has no id")
	}
	if len(res.Jobs) != 3 {
		t.Fatalf("jobs = %d, want 3", len(res.Jobs))
	}

	for _, name := range []string{"L4", "L5"} {
		j := res.Job(name)
		if j == nil {
			t.Fatalf("no result for %s", name)
		}
		if j.Kind != engine.JobBody {
			t.Errorf("%s kind = %s, want vertebra", name, j.Kind)
		}
		if got := j.Mesh.NumCells(); got != 72 {
			t.Errorf("%s cells = %d, want 72", name, got)
		}
		if q := j.Mesh.Quality(); q.Inverted != 0 {
			t.Errorf("%s has %d inverted cells", name, q.Inverted)
		}
		if len(j.Files) != 1 || filepath.Ext(j.Files[0]) != ".vtk" {
			t.Errorf("%s files = %v, want one .vtk", name, j.Files)
		}
	}

	d := res.Job("L4-L5")
	if d == nil {
		t.Fatal("no result for the disc")
	}
	if got := d.Mesh.NumCells(); got != 144 {
		t.Errorf("disc cells = %d, want 144", got)
	}
	if b := d.Mesh.Bounds(); b.Min.Z < 2-1e-9 || b.Max.Z > 6+1e-9 {
		t.Errorf("disc z range = [%v, %v], want [2, 6]", b.Min.Z, b.Max.Z)
	}
	if d.Box == nil {
		t.Fatal("disc has no companion box")
	}
	seeds, err := cylinder.SeedsFromBox(d.Box)
	if err != nil {
		t.Fatalf("SeedsFromBox: %v", err)
	}
	if want := (cylinder.Seeds{2, 2, 4, 2, 2}); seeds != want {
		t.Errorf("companion box seeds = %v, want %v", seeds, want)
	}
	if res.Job("L5").Box != nil {
		t.Error("vertebra has a companion box")
	}

	wantFiles := []string{
		"L4-L5.vtk", "L4-L5.inp", "L4-L5.dxf",
		"L4-L5-box.vtk", "L4-L5-box.inp", "L4-L5-box.dxf",
	}
	if len(d.Files) != len(wantFiles) {
		t.Fatalf("disc files = %v, want %v", d.Files, wantFiles)
	}
	for i, f := range wantFiles {
		if d.Files[i] != filepath.Join(dir, f) {
			t.Errorf("disc file %d = %s, want %s", i, d.Files[i], f)
		}
		if _, err := os.Stat(d.Files[i]); err != nil {
			t.Errorf("stat %s: %v", f, err)
		}
	}
}

func TestRunBoxJob(t *testing.T) {
	app, _ := testApp(t)
	p := engine.NewPlan()
	p.Jobs = append(p.Jobs, engine.Job{
		Name: "core",
		Kind: engine.JobBox,
		Box:  &engine.BoxJob{Bounds: geom.NewBounds(0, 4, 0, 4, 0, 1), Layers: 2},
	})

	res, err := app.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Job("core").Mesh.NumCells(); got != 9 {
		t.Errorf("cells = %d, want 9", got)
	}
}

func TestRunBoxLayers(t *testing.T) {
	app, _ := testApp(t)
	_, err := app.BuildBox(engine.BoxJob{Bounds: geom.NewBounds(0, 1, 0, 1, 0, 1), Layers: 3})
	if !errors.Is(err, geom.ErrUnsupportedLayers) {
		t.Errorf("BuildBox(layers=3) = %v, want ErrUnsupportedLayers", err)
	}
}

func TestRunCancelled(t *testing.T) {
	app, _ := testApp(t)
	p := engine.NewPlan()
	p.Jobs = append(p.Jobs, engine.Job{
		Name: "core",
		Kind: engine.JobBox,
		Box:  &engine.BoxJob{Bounds: geom.NewBounds(0, 1, 0, 1, 0, 1), Layers: 2},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := app.Run(ctx, p)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run(cancelled) = %v, want context.Canceled", err)
	}
	if len(res.Jobs) != 0 {
		t.Errorf("jobs built after cancel: %d", len(res.Jobs))
	}
}

func TestRunScriptErrors(t *testing.T) {
	app, _ := testApp(t)
	_, err := app.RunScript(context.Background(), `(disc "d" :lower "a" :upper "b")`)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("RunScript = %v, want *ScriptError", err)
	}
	if !strings.Contains(se.Error(), `no job named "a"`) {
		t.Errorf("error = %q, want mention of the missing body", se.Error())
	}
}

func TestOutputFormats(t *testing.T) {
	app, _ := testApp(t)
	p := engine.NewPlan()
	p.Jobs = append(p.Jobs, engine.Job{Name: "a"}, engine.Job{Name: "b"})
	p.Outputs = append(p.Outputs,
		engine.Output{Job: "b", Formats: []string{"inp", "INP", "dxf"}},
		engine.Output{Job: "a"},
	)

	got, err := app.outputFormats(p)
	if err != nil {
		t.Fatalf("outputFormats: %v", err)
	}
	if f := got["a"]; len(f) != 1 || f[0] != export.FormatVTK {
		t.Errorf("a = %v, want [vtk]", f)
	}
	if f := got["b"]; len(f) != 2 || f[0] != export.FormatINP || f[1] != export.FormatDXF {
		t.Errorf("b = %v, want [inp dxf]", f)
	}

	p.Outputs = append(p.Outputs, engine.Output{Job: "a", Formats: []string{"obj"}})
	if _, err := app.outputFormats(p); err == nil {
		t.Error("outputFormats accepted obj")
	}
}

func TestGraphCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"graph"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.HasPrefix(out.String(), "digraph mesh {") {
		t.Errorf("output does not start with a digraph: %.40q", out.String())
	}
	if !strings.Contains(out.String(), `"block/8"`) {
		t.Error("graph is missing block/8")
	}
}

func TestBoxCommand(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd()
	root.SetArgs([]string{"box", "--bounds", "0,2,0,2,0,1", "--seeds", "1,2,3,4,5", "-o", dir, "-f", "vtk,inp"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("box: %v", err)
	}
	for _, f := range []string{"box.vtk", "box.inp"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"short bounds", []string{"box", "--bounds", "0,1"}, "6 values"},
		{"short seeds", []string{"box", "--seeds", "1,2"}, "5 values"},
		{"bad format", []string{"box", "-f", "stl"}, "stl"},
		{"bad surface", []string{"body", "--surface", "voxel"}, "voxel"},
		{"missing config", []string{"graph", "--config", "/nonexistent/spinemesh.toml"}, "config"},
		{"missing script", []string{"run"}, "arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append(tt.args, "-o", t.TempDir()))
			err := root.ExecuteContext(context.Background())
			if err == nil {
				t.Fatal("Execute() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Execute() = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}
