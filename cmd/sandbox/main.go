// Command sandbox boots an Engine against a module directory and drives
// it for a fixed number of frames, logging through logrus instead of
// opening a window. Rendering and input are left to whatever
// host embeds this engine; this binary exists to exercise the core
// loop on its own.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"corelith/internal/core/engine"
	"corelith/internal/core/module"
)

func main() {
	moduleDir := flag.String("modules", "./modules", "directory of module subdirectories to discover")
	prefsPath := flag.String("prefs", "", "path to a Modulith.config preferences file (optional)")
	frames := flag.Int("frames", 120, "number of frames to run before exiting")
	frameDt := flag.Duration("dt", time.Second/60, "fixed frame duration")
	flag.Parse()

	log := logrus.StandardLogger()

	var prefs *module.Preferences
	if *prefsPath != "" {
		data, err := os.ReadFile(*prefsPath)
		if err != nil {
			log.WithError(err).Fatal("sandbox: reading preferences file")
		}
		prefs, err = module.ParsePreferences(data)
		if err != nil {
			log.WithError(err).Fatal("sandbox: parsing preferences file")
		}
	}

	eng := engine.New(*moduleDir, prefs)
	log.WithField("available", len(eng.Modules.Available())).Info("sandbox: discovered modules")

	for name := range eng.Modules.Available() {
		eng.Modules.LoadWithDependencies(name)
	}

	dt := frameDt.Seconds()
	for i := 0; i < *frames && eng.Running(); i++ {
		eng.RunFrame(dt)
	}

	for name := range eng.Modules.Available() {
		if eng.Modules.IsLoaded(name) {
			eng.Modules.UnloadWithDependants(name)
		}
	}
	eng.RunFrame(dt)

	eng.Shutdown()
	log.Info("sandbox: shutdown complete")
}
