package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"Sketchacad/internal/config"
	"Sketchacad/internal/draw"
	"Sketchacad/internal/net"
	"Sketchacad/internal/state"
	"Sketchacad/internal/ui"
)

var (
	configFile = flag.String("config", "", "path to JSON config file")
	serve      = flag.Bool("serve", false, "serve sessions over WebSocket instead of opening a window")
	listen     = flag.String("listen", "", "WebSocket listen address (overrides config)")
	advertise  = flag.Bool("advertise", false, "announce the WebSocket endpoint over mDNS")
	discover   = flag.Bool("discover", false, "list sketch servers on the local network and exit")
	gridSize   = flag.Int("grid", 0, "grid edge length: 16, 32, 64 or 128 (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	switch {
	case *discover:
		err = runDiscover()
	case *serve:
		err = runServer(cfg)
	default:
		err = runDesktop(cfg)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		log.Printf("Loaded config from %s", *configFile)
	}
	if *gridSize != 0 {
		if _, err := state.ParseGridSize(*gridSize); err != nil {
			return nil, err
		}
		cfg.GridSize = gridSize
	}
	if *listen != "" {
		cfg.Listen = listen
	}
	if *advertise {
		cfg.Advertise = advertise
	}
	return cfg, cfg.Validate()
}

func runDesktop(cfg *config.Config) error {
	log.Println("Starting desktop sketch")
	sess, err := draw.NewSession(cfg.SessionOptions())
	if err != nil {
		return err
	}
	return ui.RunApp(sess, cfg.GetSnapshotInterval())
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.GetListen()
	if cfg.GetAdvertise() {
		port, err := net.ListenPort(addr)
		if err != nil {
			return err
		}
		mdnsServer, err := net.Advertise(port)
		if err != nil {
			log.Printf("[MDNS] Not advertising: %v", err)
		} else {
			defer mdnsServer.Shutdown()
		}
	}
	if url, err := net.ShareURL(addr); err == nil {
		log.Printf("Share this address with a browser on the LAN: %s", url)
	}

	srv := net.NewServer(cfg.SessionOptions(), cfg.GetSnapshotInterval())
	return srv.ListenAndServe(ctx, addr)
}

func runDiscover() error {
	log.Printf("Looking for %s servers...", net.ServiceType)
	found := 0
	err := net.Browse(func(url string) {
		found++
		fmt.Println(url)
	})
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	if found == 0 {
		log.Println("No servers found")
	}
	return nil
}
