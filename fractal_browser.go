package main

import (
	"context"
	"flag"
	"log"

	"github.com/mogaika/fractal_browser/animator"
	"github.com/mogaika/fractal_browser/config"
	"github.com/mogaika/fractal_browser/status"
	"github.com/mogaika/fractal_browser/utils"
	"github.com/mogaika/fractal_browser/web"
)

func main() {
	var addr, configPath, webPath string
	var depth, workers int
	flag.StringVar(&addr, "i", "", "Address of server, overrides config")
	flag.StringVar(&configPath, "config", "fractal.yaml", "Path to yaml settings file")
	flag.IntVar(&depth, "depth", 0, "Number of levels, 0 - use config")
	flag.IntVar(&workers, "workers", 0, "Goroutines per level, 0 - use config")
	flag.StringVar(&webPath, "web", "", "Path to folder with web data, overrides config")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if addr != "" {
		settings.Addr = addr
	}
	if webPath != "" {
		settings.WebPath = webPath
	}
	if depth != 0 {
		settings.Depth = depth
	}
	if workers != 0 {
		settings.Workers = workers
	}
	if err := settings.Validate(); err != nil {
		log.Fatal(err)
	}
	log.Printf("[main] settings:")
	utils.LogDump(settings)

	a, err := animator.New(settings)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := a.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("[animator] stopped: %v", err)
			status.Error("animation stopped: %v", err)
		}
	}()

	if err := web.StartServer(settings.Addr, a, status.Default(), settings.WebPath); err != nil {
		log.Fatal(err)
	}
}
