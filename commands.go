package main

import (
	"errors"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/spinemesh/pkg/config"
	"github.com/chazu/spinemesh/pkg/cylinder"
	"github.com/chazu/spinemesh/pkg/engine"
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/graph"
	"github.com/chazu/spinemesh/pkg/kernel"
)

// cli holds the state shared by every command once flags are parsed.
type cli struct {
	verbose    bool
	configPath string

	// Overrides applied on top of the loaded config.
	outDir  string
	formats []string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "spinemesh",
		Short:        "spinemesh builds hexahedral meshes of vertebrae and discs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if c.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
			return c.loadConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVarP(&c.configPath, "config", "c", "", "TOML config file")
	pf.StringVarP(&c.outDir, "out", "o", "", "output directory (overrides output.dir)")
	pf.StringSliceVarP(&c.formats, "format", "f", nil, "output formats: vtk, inp, dxf (overrides output.formats)")

	root.AddCommand(c.newBoxCmd())
	root.AddCommand(c.newBodyCmd())
	root.AddCommand(c.newRunCmd())
	root.AddCommand(newGraphCmd())
	return root
}

func (c *cli) loadConfig() error {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return err
		}
	}
	if c.outDir != "" {
		cfg.Output.Dir = c.outDir
	}
	if len(c.formats) > 0 {
		cfg.Output.Formats = c.formats
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.cfg = cfg
	return nil
}

// runPlan runs p and logs the files it wrote.
func (c *cli) runPlan(cmd *cobra.Command, p *engine.Plan) error {
	l := loggerFromContext(cmd.Context())
	res, err := NewApp(c.cfg, l).Run(cmd.Context(), p)
	if err != nil {
		return err
	}
	logFiles(l, res)
	return nil
}

func logFiles(l *charmlog.Logger, res *RunResult) {
	for _, j := range res.Jobs {
		for _, f := range j.Files {
			l.Info("wrote", "job", j.Name, "file", f)
		}
	}
}

func (c *cli) newBoxCmd() *cobra.Command {
	var (
		name   string
		bounds []float64
		layers int
		seeds  []int
	)
	cmd := &cobra.Command{
		Use:   "box",
		Short: "Build a butterfly box",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(bounds) != 6 {
				return fmt.Errorf("--bounds wants 6 values (xmin,xmax,ymin,ymax,zmin,zmax), got %d", len(bounds))
			}
			s, err := toSeeds(seeds)
			if err != nil {
				return err
			}
			p := engine.NewPlan()
			p.Jobs = append(p.Jobs, engine.Job{
				Name: name,
				Kind: engine.JobBox,
				Box: &engine.BoxJob{
					Bounds: geom.NewBounds(bounds[0], bounds[1], bounds[2], bounds[3], bounds[4], bounds[5]),
					Layers: layers,
					Seeds:  s,
				},
			})
			return c.runPlan(cmd, p)
		},
	}
	cmd.Flags().StringVar(&name, "name", "box", "job name, used for file names")
	cmd.Flags().Float64SliceVar(&bounds, "bounds", []float64{-1, 1, -1, 1, -1, 1}, "xmin,xmax,ymin,ymax,zmin,zmax")
	cmd.Flags().IntVar(&layers, "layers", 2, "point layers along z (only 2 is supported)")
	cmd.Flags().IntSliceVar(&seeds, "seeds", []int{2, 2, 2, 2, 2}, "per-cell division seeds s0..s4")
	return cmd
}

func (c *cli) newBodyCmd() *cobra.Command {
	var (
		name    string
		center  []float64
		seeds   []int
		surface string
		spec    cylinder.Spec
	)
	cmd := &cobra.Command{
		Use:   "body",
		Short: "Build a parametric vertebral body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(center) != 3 {
				return fmt.Errorf("--center wants 3 values, got %d", len(center))
			}
			spec.Center = geom.Point3{X: center[0], Y: center[1], Z: center[2]}
			if spec.InnerRadius == 0 {
				spec.InnerRadius = engine.DefaultInnerRatio * spec.Radius
			}
			var err error
			if spec.Seeds, err = toSeeds(seeds); err != nil {
				return err
			}
			if surface != "" {
				if spec.Surface, err = kernel.ParseSurfaceMode(surface); err != nil {
					return err
				}
			}
			if err := spec.Validate(); err != nil {
				return err
			}
			p := engine.NewPlan()
			p.Jobs = append(p.Jobs, engine.Job{Name: name, Kind: engine.JobBody, Body: &spec})
			return c.runPlan(cmd, p)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "body", "job name, used for file names")
	f.Float64SliceVar(&center, "center", []float64{0, 0, 0}, "body center x,y,z")
	f.Float64Var(&spec.Radius, "radius", 20, "outer radius")
	f.Float64Var(&spec.InnerRadius, "inner-radius", 0, "inner radius (default 0.7 * radius)")
	f.Float64Var(&spec.Height, "height", 25, "body height")
	f.IntSliceVar(&seeds, "seeds", []int{2, 2, 2, 2, 2}, "division seeds s0..s4")
	f.IntVar(&spec.Samples, "samples", cylinder.DefaultSamples, "points per boundary loop")
	f.StringVar(&surface, "surface", "", "projection surface: sdf or mesh (default surface.mode)")
	return cmd
}

func (c *cli) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Evaluate a job script and write every job's meshes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			l := loggerFromContext(cmd.Context())
			res, err := NewApp(c.cfg, l).RunScript(cmd.Context(), string(src))
			var se *ScriptError
			if errors.As(err, &se) {
				for _, e := range se.Errors {
					l.Error(e.Message, "file", args[0], "line", e.Line)
				}
				return fmt.Errorf("%s: %d script errors", args[0], len(se.Errors))
			}
			if err != nil {
				return err
			}
			logFiles(l, res)
			return nil
		},
	}
}

func newGraphCmd() *cobra.Command {
	var svg bool
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the vertebral body dependency graph as DOT or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dot := graph.ToDOT(cylinder.Topology())
			if !svg {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}
			out, err := graph.RenderSVG(cmd.Context(), dot)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG with graphviz")
	return cmd
}

func toSeeds(v []int) (cylinder.Seeds, error) {
	var s cylinder.Seeds
	if len(v) != len(s) {
		return s, fmt.Errorf("--seeds wants %d values, got %d", len(s), len(v))
	}
	copy(s[:], v)
	return s, s.Validate()
}
