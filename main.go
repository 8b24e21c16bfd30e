package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"scrollkit/internal/animation"
	"scrollkit/internal/config"
	"scrollkit/internal/domain"
	"scrollkit/internal/eventbus"
	"scrollkit/internal/ui"
)

func main() {
	// Parse command line arguments
	var configPath string
	var manual bool
	var lines int
	flag.StringVar(&configPath, "config", "", "Path to a config file (created with defaults if missing)")
	flag.StringVar(&configPath, "c", "", "Path to a config file (shorthand)")
	flag.BoolVar(&manual, "manual", false, "Run animations frame by frame instead of as delegated transitions")
	flag.IntVar(&lines, "lines", 0, "Number of content lines to start with")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("scrollkit.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	bus := eventbus.New()
	bus.Subscribe(domain.EventConfigLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(domain.ConfigLoadedEvent); ok && event.Path != "" {
			log.Printf("Loaded config from %s", event.Path)
		}
	})

	configSvc := config.NewConfigServiceWithBus(bus)
	cfg, err := loadOrCreateConfig(configSvc, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if manual {
		cfg.Scroll.UseTransition = false
	}
	if lines > 0 {
		cfg.Demo.ContentLines = lines
	}

	// Create UI model
	log.Printf("Creating UI model...")
	uiModel := ui.NewModel(cfg, bus, animation.SystemClock{})

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.SetProgram(p)

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Quit()
	}()

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// loadOrCreateConfig loads the config from path, writing the defaults there
// first when the file does not exist. An empty path uses the user config
// directory.
func loadOrCreateConfig(configSvc config.ConfigService, path string) (*config.Config, error) {
	if path == "" {
		return configSvc.Load()
	}

	if _, err := os.Stat(path); err == nil {
		return configSvc.LoadFromPath(path)
	}

	log.Printf("Creating new config at %s", path)
	cfg := config.DefaultConfig()
	if err := configSvc.SaveToPath(cfg, path); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
	return cfg, nil
}
