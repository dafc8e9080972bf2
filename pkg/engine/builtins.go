package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/spinemesh/pkg/cylinder"
	"github.com/chazu/spinemesh/pkg/disc"
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms job script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: inner-radius -> inner_radius
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters; a
		// minus operator is left alone.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec geom.Point3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpBounds struct {
	b geom.Bounds
}

func (b *sexpBounds) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(bounds %g %g %g %g %g %g)",
		b.b.Min.X, b.b.Max.X, b.b.Min.Y, b.b.Max.Y, b.b.Min.Z, b.b.Max.Z)
}
func (b *sexpBounds) Type() *zygo.RegisteredType { return nil }

type sexpSeeds struct {
	s cylinder.Seeds
}

func (s *sexpSeeds) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(seeds %d %d %d %d %d)", s.s[0], s.s[1], s.s[2], s.s[3], s.s[4])
}
func (s *sexpSeeds) Type() *zygo.RegisteredType { return nil }

type sexpShape struct {
	s *kernel.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string { return s.s.String() }
func (s *sexpShape) Type() *zygo.RegisteredType          { return nil }

// sexpJobRef is returned by the job builtins so later jobs and outputs
// can refer to a job by value as well as by name.
type sexpJobRef struct {
	name string
	kind JobKind
}

func (j *sexpJobRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", j.kind, j.name)
}
func (j *sexpJobRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_vtk) and plain strings ("vtk").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toJobName accepts a job reference or a job name string.
func toJobName(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpJobRef:
		return v.name, nil
	case *zygo.SexpStr:
		return v.S, nil
	}
	return "", fmt.Errorf("expected job reference or name, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (geom.Point3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Point3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toBounds(s zygo.Sexp) (geom.Bounds, error) {
	if b, ok := s.(*sexpBounds); ok {
		return b.b, nil
	}
	return geom.Bounds{}, fmt.Errorf("expected bounds, got %T (%s)", s, s.SexpString(nil))
}

func toSeeds(s zygo.Sexp) (cylinder.Seeds, error) {
	if v, ok := s.(*sexpSeeds); ok {
		return v.s, nil
	}
	return cylinder.Seeds{}, fmt.Errorf("expected seeds, got %T (%s)", s, s.SexpString(nil))
}

func toShape(s zygo.Sexp) (*kernel.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// floats extracts exactly n numbers from args.
func floats(fn string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d numbers, got %d", fn, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// floatKW stores keyword k of pa into dst when present.
func floatKW(pa kwArgs, fn, k string, dst *float64) error {
	v, ok := pa.kw[k]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, k, err)
	}
	*dst = f
	return nil
}

// intKW stores keyword k of pa into dst when present.
func intKW(pa kwArgs, fn, k string, dst *int) error {
	v, ok := pa.kw[k]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, k, err)
	}
	*dst = n
	return nil
}

// jobName reads the leading name argument of a job builtin.
func jobName(fn string, pa kwArgs) (string, error) {
	if len(pa.positional) < 1 {
		return "", fmt.Errorf("%s requires a name argument", fn)
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", fn, err)
	}
	if name == "" {
		return "", fmt.Errorf("%s: empty name", fn)
	}
	return name, nil
}

func checkedShape(s *kernel.Shape) (zygo.Sexp, error) {
	if err := s.Validate(); err != nil {
		return zygo.SexpNull, err
	}
	return &sexpShape{s: s}, nil
}

// DefaultInnerRatio is the inner rim radius of a vertebra, as a fraction
// of its outer radius, when the script does not give one.
const DefaultInnerRatio = 0.7

// defaultSeeds is used by jobs that do not give :seeds.
var defaultSeeds = cylinder.Seeds{2, 2, 2, 2, 2}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the job DSL builtins into a zygomys
// environment. The builtins append jobs and outputs to p as they run.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *Plan) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: geom.Point3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (bounds xmin xmax ymin ymax zmin zmax)
	// -----------------------------------------------------------------------
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 6 {
			return zygo.SexpNull, fmt.Errorf("bounds requires exactly 6 arguments, got %d", len(args))
		}
		var c [6]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: argument %d: %w", i+1, err)
			}
			c[i] = f
		}
		b := geom.NewBounds(c[0], c[1], c[2], c[3], c[4], c[5])
		if err := b.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("bounds: %w", err)
		}
		return &sexpBounds{b: b}, nil
	})

	// -----------------------------------------------------------------------
	// (seeds s0 s1 s2 s3 s4)
	// -----------------------------------------------------------------------
	env.AddFunction("seeds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var s cylinder.Seeds
		if len(args) != len(s) {
			return zygo.SexpNull, fmt.Errorf("seeds requires exactly %d arguments, got %d", len(s), len(args))
		}
		for i, a := range args {
			n, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("seeds: s%d: %w", i, err)
			}
			s[i] = n
		}
		if err := s.Validate(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSeeds{s: s}, nil
	})

	// -----------------------------------------------------------------------
	// Solids: (cuboid x y z) (cylinder h r) (union a b) (difference a b)
	// (intersection a b) (translate s x y z) (rotate s x y z)
	// -----------------------------------------------------------------------
	env.AddFunction(string(kernel.OpBox), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floats(name, args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return checkedShape(kernel.NewBox(v[0], v[1], v[2]))
	})
	env.AddFunction(string(kernel.OpCylinder), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floats(name, args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return checkedShape(kernel.NewCylinder(v[0], v[1]))
	})
	for op, combine := range map[kernel.ShapeOp]func(a, b *kernel.Shape) *kernel.Shape{
		kernel.OpUnion:        kernel.NewUnion,
		kernel.OpDifference:   kernel.NewDifference,
		kernel.OpIntersection: kernel.NewIntersection,
	} {
		env.AddFunction(string(op), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 shapes, got %d", name, len(args))
			}
			a, err := toShape(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			b, err := toShape(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &sexpShape{s: combine(a, b)}, nil
		})
	}
	for op, move := range map[kernel.ShapeOp]func(s *kernel.Shape, x, y, z float64) *kernel.Shape{
		kernel.OpTranslate: kernel.NewTranslate,
		kernel.OpRotate:    kernel.NewRotate,
	} {
		env.AddFunction(string(op), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 4 {
				return zygo.SexpNull, fmt.Errorf("%s requires a shape and 3 numbers, got %d arguments", name, len(args))
			}
			s, err := toShape(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			v, err := floats(name, args[1:], 3)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpShape{s: move(s, v[0], v[1], v[2])}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (box "name" :bounds (bounds ...) :layers 2 :seeds s)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		jn, err := jobName("box", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		bj := &BoxJob{Layers: 2, Seeds: defaultSeeds}

		v, ok := pa.kw["bounds"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("box: :bounds is required")
		}
		if bj.Bounds, err = toBounds(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("box: bounds: %w", err)
		}
		if err := intKW(pa, "box", "layers", &bj.Layers); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["seeds"]; ok {
			if bj.Seeds, err = toSeeds(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: seeds: %w", err)
			}
		}

		if err := p.add(Job{Name: jn, Kind: JobBox, Box: bj}); err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpJobRef{name: jn, kind: JobBox}, nil
	})

	// -----------------------------------------------------------------------
	// (vertebra "L4" :center (vec3 0 0 0) :radius 20 :inner-radius 14
	//           :height 25 :seeds s :samples 96 :surface :sdf
	//           :solid (difference (cylinder 25 20) canal))
	// -----------------------------------------------------------------------
	env.AddFunction("vertebra", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		jn, err := jobName("vertebra", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		spec := &cylinder.Spec{Seeds: defaultSeeds, Samples: cylinder.DefaultSamples}

		if v, ok := pa.kw["center"]; ok {
			if spec.Center, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("vertebra: center: %w", err)
			}
		}
		for _, f := range []struct {
			kw  string
			dst *float64
		}{
			{"radius", &spec.Radius},
			{"inner-radius", &spec.InnerRadius},
			{"height", &spec.Height},
		} {
			if err := floatKW(pa, "vertebra", f.kw, f.dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		if spec.InnerRadius == 0 {
			spec.InnerRadius = DefaultInnerRatio * spec.Radius
		}
		if v, ok := pa.kw["seeds"]; ok {
			if spec.Seeds, err = toSeeds(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("vertebra: seeds: %w", err)
			}
		}
		if err := intKW(pa, "vertebra", "samples", &spec.Samples); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["surface"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vertebra: surface: %w", err)
			}
			if spec.Surface, err = kernel.ParseSurfaceMode(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("vertebra: %w", err)
			}
		}
		if v, ok := pa.kw["solid"]; ok {
			if spec.Solid, err = toShape(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("vertebra: solid: %w", err)
			}
		}
		if err := spec.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("vertebra %q: %w", jn, err)
		}

		if err := p.add(Job{Name: jn, Kind: JobBody, Body: spec}); err != nil {
			return zygo.SexpNull, fmt.Errorf("vertebra: %w", err)
		}
		return &sexpJobRef{name: jn, kind: JobBody}, nil
	})

	// -----------------------------------------------------------------------
	// (disc "L4-L5" :lower l4 :upper "L5" :divisions 4
	//       :inner-bulge 0 :outer-bulge 1.5)
	// -----------------------------------------------------------------------
	env.AddFunction("disc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		jn, err := jobName("disc", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		dj := &DiscJob{Params: disc.Params{Divisions: 2}}

		for _, ref := range []struct {
			kw  string
			dst *string
		}{
			{"lower", &dj.Lower},
			{"upper", &dj.Upper},
		} {
			v, ok := pa.kw[ref.kw]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("disc: :%s is required", ref.kw)
			}
			if *ref.dst, err = toJobName(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("disc: %s: %w", ref.kw, err)
			}
		}
		if err := intKW(pa, "disc", "divisions", &dj.Params.Divisions); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatKW(pa, "disc", "inner-bulge", &dj.Params.InnerBulgeOffset); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatKW(pa, "disc", "outer-bulge", &dj.Params.OuterBulgeOffset); err != nil {
			return zygo.SexpNull, err
		}
		if err := dj.Params.Validate(); err != nil {
			return zygo.SexpNull, err
		}

		if err := p.add(Job{Name: jn, Kind: JobDisc, Disc: dj}); err != nil {
			return zygo.SexpNull, fmt.Errorf("disc: %w", err)
		}
		return &sexpJobRef{name: jn, kind: JobDisc}, nil
	})

	// -----------------------------------------------------------------------
	// (output l4 :formats (list :vtk :inp))
	// -----------------------------------------------------------------------
	env.AddFunction("output", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("output requires a job argument")
		}
		jn, err := toJobName(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("output: job: %w", err)
		}
		o := Output{Job: jn}
		if v, ok := pa.kw["formats"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("output: formats: %w", err)
			}
			for _, item := range items {
				f, err := toKeywordString(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("output: format entry: %w", err)
				}
				o.Formats = append(o.Formats, f)
			}
		}
		p.Outputs = append(p.Outputs, o)
		return zygo.SexpNull, nil
	})
}
