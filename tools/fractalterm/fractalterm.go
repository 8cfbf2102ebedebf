package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/mogaika/fractal_browser/animator"
	"github.com/mogaika/fractal_browser/config"
	"github.com/mogaika/fractal_browser/termview"
)

func main() {
	var configPath, logPath string
	var depth, fps int
	flag.StringVar(&configPath, "config", "fractal.yaml", "Path to yaml settings file")
	flag.IntVar(&depth, "depth", 0, "Number of levels, 0 - use config")
	flag.IntVar(&fps, "fps", 30, "Screen redraw rate")
	flag.StringVar(&logPath, "log", "fractalterm.log", "Log file, terminal is busy with the view")
	flag.Parse()

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	settings, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if depth != 0 {
		settings.Depth = depth
	}

	a, err := animator.New(settings)
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	termview.NewViewer(screen, a).Run(ctx, fps)
}
