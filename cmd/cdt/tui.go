package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/capacity-dashboard-tui/internal/app"
	"github.com/j-veylop/capacity-dashboard-tui/internal/logger"
	"github.com/j-veylop/capacity-dashboard-tui/internal/services"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/tabs/combinations"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/tabs/comparisons"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/tabs/data"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/tabs/filters"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/tabs/heatmaps"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/tabs/overview"
	"github.com/j-veylop/capacity-dashboard-tui/internal/ui/tabs/sites"
)

// runTUI loads the dataset, starts the services and blocks until the user
// quits.
func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := logger.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	// A dataset that cannot be loaded stops startup here.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	// Order follows app.TabID.
	state := model.GetState()
	model.SetTabs([]app.Tab{
		overview.New(state),
		heatmaps.New(state),
		comparisons.New(state),
		sites.New(state),
		combinations.New(state),
		data.New(state),
		filters.New(state),
		info.New(state, cfg, svcManager),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	logger.Info("starting dashboard", "data", cfg.DataPath, "session", svcManager.SessionID())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
