// Command refractor renders one refracted panorama of the Earth's surface
// from a YAML scene description, optionally publishing live progress over
// websocket while it works.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"

	"refractor/internal/config"
	"refractor/internal/progress"
	"refractor/internal/render"
)

func main() {
	configPath := flag.String("config", "scene.yaml", "Path to the YAML scene configuration")
	serve := flag.Bool("serve", false, "Publish live render progress over websocket")
	addr := flag.String("addr", ":8080", "Address to serve progress on, when -serve is set")
	overrides := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	fmt.Println("=== Refractor: refracted panorama renderer ===")
	fmt.Printf("Config: %s\n", *configPath)
	fmt.Printf("Workers: %d\n", runtime.NumCPU())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("refractor: %v", err)
	}
	params := overrides.Apply(cfg.Resolve())

	fmt.Printf("Output: %dx%d -> %s\n", params.Output.Width, params.Output.Height, params.Output.File)
	fmt.Printf("Position: (%.4f, %.4f)\n", params.Position.Latitude, params.Position.Longitude)
	fmt.Printf("View: direction=%.1f tilt=%.1f fov=%.1f max_distance=%.0fm\n",
		params.Frame.Direction, params.Frame.Tilt, params.Frame.Fov, params.Frame.MaxDistance)

	tracker := progress.NewTracker(render.PixelCount(params))

	var broadcaster *progress.Broadcaster
	if *serve {
		broadcaster = progress.NewBroadcaster()
		http.HandleFunc("/progress", broadcaster.HandleWebSocket)
		go func() {
			log.Fatal(http.ListenAndServe(*addr, nil))
		}()
		go broadcaster.Watch(tracker, 250*time.Millisecond)
		fmt.Printf("Serving progress on ws://%s/progress\n", *addr)
	}

	start := time.Now()
	result, err := render.Run(params, tracker)
	if err != nil {
		log.Fatalf("refractor: %v", err)
	}
	elapsed := time.Since(start)

	hits, sky := countHitsAndSky(result)
	fmt.Printf("Rendered %d pixels in %s (%d with a trace point, %d sky)\n",
		render.PixelCount(params), elapsed, hits, sky)
	fmt.Println("Done. Image compositing (palette shading, overlays, PNG encode) is out of this tool's scope.")
}

func countHitsAndSky(result render.Result) (hits, sky int) {
	for _, row := range result.Pixels {
		for _, px := range row {
			if len(px.TracePoints) > 0 {
				hits++
			} else {
				sky++
			}
		}
	}
	return hits, sky
}
