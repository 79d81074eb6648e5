// terraintool is a CLI utility for generating and querying terrain heightmaps.
package main

import (
	"flag"
	"fmt"
	gomath "math"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/terracast/internal/config"
	"github.com/Faultbox/terracast/internal/heightgen"
	"github.com/Faultbox/terracast/internal/logger"
	"github.com/Faultbox/terracast/pkg/formats"
	"github.com/Faultbox/terracast/pkg/math"
	"github.com/Faultbox/terracast/pkg/terrain"
)

func main() {
	// Global flags come before the subcommand
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "generate", "gen":
		cmdGenerate(cfg, rest)
	case "info":
		cmdInfo(rest)
	case "query":
		cmdQuery(rest)
	case "raycast":
		cmdRaycast(cfg, rest)
	case "grounded":
		cmdGrounded(cfg, rest)
	case "bench":
		cmdBench(rest)
	case "config":
		cmdConfig(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terraintool - heightmap terrain generation and collision queries

Usage:
  terraintool [flags] <command> [options] [file.hmap]

Commands:
  generate [options]                  Generate a procedural heightmap
  info <file.hmap>                    Show heightmap details
  query [-x -z] <file.hmap>           Surface info under a world point
  raycast [-from -dir] <file.hmap>    Cast a ray at the terrain
  grounded [-x -y -z] <file.hmap>     Capsule ground check at a point
  bench [options] <file.hmap>         Concurrent query throughput
  config [-o <path>]                  Write the current config to disk

Flags:
  -config <path>    Use a specific config file
  -debug            Enable debug logging
  -log-file <path>  Also write logs to a file

Examples:
  terraintool generate -o hills.hmap -seed 42 -width 257 -height 257
  terraintool info hills.hmap
  terraintool query -x 10.5 -z -3.2 hills.hmap
  terraintool raycast -from 0,50,0 -dir 0,-1,0 hills.hmap
  terraintool grounded -x 0 -z 0 -y 1.0 hills.hmap
  terraintool bench -workers 8 -queries 1000000 hills.hmap`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadHeightmap reads a .hmap file or exits.
func loadHeightmap(path string) *terrain.Heightmap {
	hm, err := formats.LoadHMAP(path)
	if err != nil {
		fatal(err)
	}
	return hm
}

// newCollider wraps a heightmap in an initialized collider. The tool has no
// host scene, so mesh proxies are skipped.
func newCollider(hm *terrain.Heightmap) *terrain.Collider {
	c := terrain.NewWithLogger(logger.Log)
	if err := c.Initialize(nil); err != nil {
		fatal(err)
	}
	if err := c.SetHeightmap(hm); err != nil {
		fatal(err)
	}
	return c
}

// parseVec3 parses "x,y,z" into a vector.
func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("bad component %q in %q", p, s)
		}
		v[i] = f
	}
	return math.Vec3{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}, nil
}

func cmdGenerate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	out := fs.String("o", "terrain.hmap", "Output file")
	width := fs.Int("width", cfg.Generator.Width, "Grid width in samples")
	height := fs.Int("height", cfg.Generator.Height, "Grid height in samples")
	cell := fs.Float64("cell", float64(cfg.Generator.CellSize), "World units per cell")
	vscale := fs.Float64("vscale", float64(cfg.Generator.VerticalScale), "Vertical scale multiplier")
	amplitude := fs.Float64("amplitude", float64(cfg.Generator.Amplitude), "Peak raw height")
	octaves := fs.Int("octaves", cfg.Generator.Octaves, "Noise octaves")
	frequency := fs.Float64("frequency", cfg.Generator.Frequency, "Base noise frequency")
	persistence := fs.Float64("persistence", cfg.Generator.Persistence, "Octave persistence")
	seed := fs.Int64("seed", cfg.Generator.Seed, "Noise seed (0 = random)")
	fs.Parse(args)

	genCfg := heightgen.Config{
		Width:         *width,
		Height:        *height,
		CellSize:      float32(*cell),
		VerticalScale: float32(*vscale),
		Amplitude:     float32(*amplitude),
		Octaves:       *octaves,
		Frequency:     *frequency,
		Persistence:   *persistence,
		Seed:          *seed,
	}

	start := time.Now()
	hm, err := heightgen.Generate(genCfg)
	if err != nil {
		fatal(err)
	}
	if err := formats.SaveHMAP(*out, hm); err != nil {
		fatal(err)
	}

	logger.Info("heightmap generated",
		zap.String("path", *out),
		zap.Int("width", hm.Width),
		zap.Int("height", hm.Height),
		zap.Int64("seed", *seed),
		zap.Duration("took", time.Since(start)),
	)
	fmt.Printf("Wrote %s (%dx%d, heights %.2f..%.2f)\n",
		*out, hm.Width, hm.Height,
		hm.MinHeight*hm.VerticalScale, hm.MaxHeight*hm.VerticalScale)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraintool info <file.hmap>")
		os.Exit(1)
	}

	path := fs.Arg(0)
	hm := loadHeightmap(path)
	min, max := hm.Bounds()

	fmt.Printf("File:        %s\n", path)
	fmt.Printf("Grid:        %dx%d samples\n", hm.Width, hm.Height)
	fmt.Printf("Cell size:   %g x %g\n", hm.Scale.X, hm.Scale.Y)
	fmt.Printf("Vertical:    x%g\n", hm.VerticalScale)
	fmt.Printf("World min:   (%.2f, %.2f, %.2f)\n", min.X, min.Y, min.Z)
	fmt.Printf("World max:   (%.2f, %.2f, %.2f)\n", max.X, max.Y, max.Z)
	fmt.Printf("Fingerprint: %016x\n", hm.Fingerprint())
}

func cmdQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	x := fs.Float64("x", 0, "World X")
	z := fs.Float64("z", 0, "World Z")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraintool query [-x <x>] [-z <z>] <file.hmap>")
		os.Exit(1)
	}

	c := newCollider(loadHeightmap(fs.Arg(0)))
	info := c.SurfaceInfoAt(math.Vec3{X: float32(*x), Z: float32(*z)})
	if !info.Exists {
		fmt.Println("No terrain under the given point")
		return
	}

	fmt.Printf("Height:   %.3f\n", info.Height)
	fmt.Printf("Normal:   (%.3f, %.3f, %.3f)\n", info.Normal.X, info.Normal.Y, info.Normal.Z)
	fmt.Printf("Slope:    %.1f deg\n", float64(info.Slope)*180/gomath.Pi)
	fmt.Printf("Material: %s (friction %.2f)\n", info.Material, info.Friction)
}

func cmdRaycast(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("raycast", flag.ExitOnError)
	fromArg := fs.String("from", "0,50,0", "Ray origin as x,y,z")
	dirArg := fs.String("dir", "0,-1,0", "Ray direction as x,y,z")
	maxDist := fs.Float64("max", float64(cfg.Terrain.MaxRayDistance), "Maximum ray distance")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraintool raycast [-from x,y,z] [-dir x,y,z] <file.hmap>")
		os.Exit(1)
	}

	from, err := parseVec3(*fromArg)
	if err != nil {
		fatal(err)
	}
	dir, err := parseVec3(*dirArg)
	if err != nil {
		fatal(err)
	}

	c := newCollider(loadHeightmap(fs.Arg(0)))
	hit, ok := c.Raycast(from, dir, float32(*maxDist))
	if !ok {
		fmt.Println("No hit")
		return
	}

	fmt.Printf("Hit:      (%.3f, %.3f, %.3f)\n", hit.Position.X, hit.Position.Y, hit.Position.Z)
	fmt.Printf("Distance: %.3f\n", hit.Distance)
	fmt.Printf("Normal:   (%.3f, %.3f, %.3f)\n", hit.Normal.X, hit.Normal.Y, hit.Normal.Z)
	fmt.Printf("Material: %s (friction %.2f)\n", hit.Surface.Material, hit.Surface.Friction)
}

func cmdGrounded(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("grounded", flag.ExitOnError)
	x := fs.Float64("x", 0, "Capsule center X")
	y := fs.Float64("y", 0, "Capsule center Y")
	z := fs.Float64("z", 0, "Capsule center Z")
	radius := fs.Float64("radius", float64(cfg.Terrain.CapsuleRadius), "Capsule radius")
	height := fs.Float64("height", float64(cfg.Terrain.CapsuleHeight), "Capsule height")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraintool grounded [-x -y -z] [-radius r] [-height h] <file.hmap>")
		os.Exit(1)
	}

	c := newCollider(loadHeightmap(fs.Arg(0)))
	pos := math.Vec3{X: float32(*x), Y: float32(*y), Z: float32(*z)}
	contact, ok := c.CheckGrounded(pos, float32(*radius), float32(*height))
	if !ok {
		fmt.Println("Airborne")
		return
	}

	fmt.Printf("Grounded\n")
	fmt.Printf("Contact:  (%.3f, %.3f, %.3f)\n", contact.Position.X, contact.Position.Y, contact.Position.Z)
	fmt.Printf("Normal:   (%.3f, %.3f, %.3f)\n", contact.Normal.X, contact.Normal.Y, contact.Normal.Z)
	fmt.Printf("Material: %s (friction %.2f)\n", contact.Surface.Material, contact.Surface.Friction)
}

func cmdBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	workers := fs.Int("workers", runtime.NumCPU(), "Concurrent query workers")
	queries := fs.Int("queries", 1_000_000, "Total queries across all workers")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraintool bench [-workers n] [-queries n] <file.hmap>")
		os.Exit(1)
	}
	if *workers < 1 {
		*workers = 1
	}

	hm := loadHeightmap(fs.Arg(0))
	c := newCollider(hm)
	min, max := hm.Bounds()

	perWorker := *queries / *workers
	if perWorker < 1 {
		perWorker = 1
	}
	hits := make([]int, *workers)

	// The grid is immutable once assigned, so read-only queries are safe to
	// run concurrently.
	g := new(errgroup.Group)
	start := time.Now()
	for w := 0; w < *workers; w++ {
		w := w // per-iteration copy: required for Go <1.22 loop semantics
		g.Go(func() error {
			rng := rand.New(rand.NewSource(int64(w) + 1))
			for i := 0; i < perWorker; i++ {
				p := math.Vec3{
					X: min.X + rng.Float32()*(max.X-min.X),
					Z: min.Z + rng.Float32()*(max.Z-min.Z),
				}
				if _, ok := c.HeightAt(p); ok {
					hits[w]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fatal(err)
	}
	elapsed := time.Since(start)

	total := perWorker * *workers
	hit := 0
	for _, h := range hits {
		hit += h
	}
	fmt.Printf("%d queries across %d workers in %v\n", total, *workers, elapsed.Round(time.Millisecond))
	fmt.Printf("%.0f queries/sec, %d hits (%.1f%%)\n",
		float64(total)/elapsed.Seconds(), hit, 100*float64(hit)/float64(total))
}

func cmdConfig(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	out := fs.String("o", "", "Write to a specific path instead of the config directory")
	fs.Parse(args)

	if *out != "" {
		if err := cfg.SaveTo(*out); err != nil {
			fatal(err)
		}
		fmt.Printf("Wrote config to %s\n", *out)
		return
	}

	path, err := cfg.Save()
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote config to %s\n", path)
}
