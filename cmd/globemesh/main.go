// globemesh is a CLI utility for turning GeoJSON polygons into extruded 3D
// meshes, flat or draped over a reference ellipsoid.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/terradyne/globemesh/internal/config"
	"github.com/terradyne/globemesh/internal/export"
	"github.com/terradyne/globemesh/internal/logger"
	"github.com/terradyne/globemesh/pkg/ellipsoid"
	"github.com/terradyne/globemesh/pkg/extrude"
	"github.com/terradyne/globemesh/pkg/geodata"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "build":
		cmdBuild(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`globemesh - GeoJSON polygon extrusion utility

Usage:
  globemesh <command> [options]

Commands:
  info <file.geojson>              Show feature and polygon statistics
  build [options] <file.geojson>   Build extruded meshes and write an OBJ file

Build options:
  -o <path>           Output OBJ path (default: out.obj)
  -thickness <t>      Extrusion distance (flat units, or meters on the ellipsoid)
  -resolution <r>     Boundary subdivision density (ellipsoid mode)
  -ellipsoid          Project onto the reference ellipsoid
  -workers <n>        Parallel mesh builders (0 = one per CPU)
  -config <path>      Config file with defaults for the above

Examples:
  globemesh info countries.geojson
  globemesh build -thickness 50000 -ellipsoid -resolution 2 countries.geojson`)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: globemesh info <file.geojson>")
		os.Exit(1)
	}

	ds := parseFile(fs.Arg(0))

	rings, vertices := 0, 0
	for _, p := range ds.Polygons {
		for _, r := range p.Rings() {
			rings++
			vertices += len(r)
		}
	}

	fmt.Printf("Document: %s\n", fs.Arg(0))
	fmt.Printf("Features: %d\n", len(ds.Features))
	fmt.Printf("Polygons: %d\n", len(ds.Polygons))
	fmt.Printf("Rings:    %d\n", rings)
	fmt.Printf("Vertices: %d\n", vertices)

	if len(ds.Skipped) > 0 {
		fmt.Printf("\nSkipped %d malformed feature(s):\n", len(ds.Skipped))
		for _, s := range ds.Skipped {
			fmt.Printf("  %v\n", s)
		}
	}
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "out.obj", "Output OBJ path")
	thickness := fs.Float64("thickness", -1, "Extrusion distance (-1 = config default)")
	resolution := fs.Float64("resolution", -1, "Subdivision density (-1 = config default)")
	useEllipsoid := fs.Bool("ellipsoid", false, "Project onto the reference ellipsoid")
	workers := fs.Int("workers", -1, "Parallel mesh builders (-1 = config default)")
	configPath := fs.String("config", "", "Config file path")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: globemesh build [options] <file.geojson>")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := extrude.Options{
		Thickness:  cfg.Mesh.Thickness,
		Resolution: cfg.Mesh.Resolution,
	}
	if *thickness >= 0 {
		opts.Thickness = *thickness
	}
	if *resolution >= 0 {
		opts.Resolution = *resolution
	}
	if *useEllipsoid || cfg.Mesh.Ellipsoid {
		ell := ellipsoid.New(cfg.Mesh.Radii.SemiMajor, cfg.Mesh.Radii.SemiMinor)
		opts.Ellipsoid = &ell
	}
	poolSize := cfg.Mesh.Workers
	if *workers >= 0 {
		poolSize = *workers
	}

	ds := parseFile(fs.Arg(0))
	for _, s := range ds.Skipped {
		logger.Sugar.Warnw("skipped malformed feature", "error", s)
	}
	logger.Sugar.Infow("building meshes",
		"polygons", len(ds.Polygons),
		"thickness", opts.Thickness,
		"ellipsoid", opts.Ellipsoid != nil,
	)

	results := extrude.BuildAll(ds.Polygons, opts, poolSize)

	var objects []export.Object
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Sugar.Warnw("mesh build failed", "error", r.Err)
			continue
		}
		objects = append(objects, export.Object{
			Name: featureName(ds, r.Polygon),
			Mesh: r.Mesh,
		})
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := export.WriteOBJ(f, objects); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	triangles := 0
	area := 0.0
	for _, o := range objects {
		triangles += o.Mesh.TriangleCount()
		area += o.Mesh.SurfaceArea()
	}
	logger.Sugar.Infow("build complete",
		"meshes", len(objects),
		"triangles", triangles,
		"surface_area", area,
		"failed", failed,
	)
	fmt.Printf("Wrote %s: %d mesh(es), %d triangles", *output, len(objects), triangles)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
}

// featureName finds the owning feature's display name for a polygon.
func featureName(ds *geodata.Dataset, p *geodata.Polygon) string {
	for _, f := range ds.Features {
		if f.Index == p.FeatureIndex {
			return f.Name()
		}
	}
	return ""
}

func parseFile(path string) *geodata.Dataset {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ds, err := geodata.ParseJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return ds
}
