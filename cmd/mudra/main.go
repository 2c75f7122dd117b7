package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/hotkey"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a .env config file")
		camera     = flag.Int("camera", 0, "camera device index")
		noFlip     = flag.Bool("no-flip", false, "disable mirroring of camera frames")
		noPreview  = flag.Bool("no-preview", false, "run without the preview window")
		mode       = flag.String("mode", "", "control mode: pointer, gesture or both")
		addr       = flag.String("addr", "", "HTTP API listen address, e.g. :8080")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags set on the command line win over the config file.
	modeSet := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "camera":
			cfg.CameraID = *camera
		case "no-flip":
			cfg.Mirror = !*noFlip
		case "no-preview":
			cfg.Preview = !*noPreview
		case "mode":
			cfg.Mode = config.Mode(*mode)
			modeSet = true
		case "addr":
			cfg.Addr = *addr
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	fmt.Println("Mudra - Hand Gesture Control")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(cfg.DataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// The last mode chosen in the tray survives restarts, unless --mode
	// overrides it.
	if !modeSet {
		if saved, err := st.Settings().Get("mode"); err == nil {
			m := config.Mode(saved)
			if m == config.ModePointer || m == config.ModeGesture || m == config.ModeBoth {
				cfg.Mode = m
			}
		}
	}

	a := app.New(cfg, app.Deps{Store: st})
	if err := a.LoadBindings(); err != nil {
		log.Fatalf("Failed to load bindings: %v", err)
	}
	if err := a.LoadTemplates(); err != nil {
		log.Printf("Failed to load custom gestures: %v", err)
	}

	t := tray.New(true, cfg.Mode)

	var srv *server.Server
	if cfg.Addr != "" {
		srv = server.New(server.Config{Store: st, App: a})
		go func() {
			fmt.Printf("API listening on %s\n", cfg.Addr)
			if err := srv.ListenAndServe(cfg.Addr); err != nil {
				log.Printf("API server stopped: %v", err)
			}
		}()
	}

	// Fan recognized gestures out to the tray and, when running, the
	// WebSocket stream.
	lastLabel := ""
	a.OnGesture(func(label string, hand *detector.Hand) {
		if label != lastLabel {
			lastLabel = label
			t.SetLastGesture(label)
		}
		if srv != nil {
			srv.Landmarks().Publish(label, hand)
		}
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	a.SetEnabled(true)

	hk, err := hotkey.New(cfg.Hotkey, func() {
		enabled := a.ToggleEnabled()
		t.SetEnabled(enabled)
		log.Printf("gesture control %s", enabledWord(enabled))
	})
	if err != nil {
		log.Printf("Hotkey disabled: %v", err)
	} else {
		hk.Start()
		defer hk.Stop()
	}

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		log.Printf("gesture control %s", enabledWord(enabled))
	})
	t.OnMode(func(mode config.Mode) {
		a.SetMode(mode)
		if err := st.Settings().Set("mode", string(mode)); err != nil {
			log.Printf("saving mode: %v", err)
		}
		log.Printf("control mode: %s", mode)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Blocks until quit; systray must run on the main goroutine.
	t.Run()
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "paused"
}
