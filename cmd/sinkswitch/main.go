package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bezmoradi/sinkswitch/internal/app"
	"github.com/bezmoradi/sinkswitch/internal/autostart"
	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/config"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
	"github.com/bezmoradi/sinkswitch/internal/stats"
	"github.com/bezmoradi/sinkswitch/internal/storage"
	"github.com/bezmoradi/sinkswitch/internal/svcl"
	"github.com/bezmoradi/sinkswitch/internal/tui"
	"github.com/bezmoradi/sinkswitch/internal/version"
)

const (
	statsDays    = 7
	commandLimit = 20 * time.Second
)

func main() {
	var (
		showVersion   = flag.Bool("version", false, "Show current version")
		showConfig    = flag.Bool("show-config", false, "Show current configuration location")
		listDevices   = flag.Bool("list-devices", false, "List audio output devices and their hotkeys")
		configure     = flag.Bool("configure", false, "Open the interactive hotkey editor")
		bindDevice    = flag.String("bind", "", "Device ID to configure (use with --hotkey or --disable)")
		hotkey        = flag.String("hotkey", "", "Hotkey for --bind, e.g. --hotkey=Ctrl+Alt+F1")
		disable       = flag.Bool("disable", false, "Disable the --bind device's hotkey")
		reset         = flag.Bool("reset", false, "Remove every hotkey binding")
		showStats     = flag.Bool("stats", false, "Show device switch history")
		resetStats    = flag.Bool("reset-stats", false, "Clear the switch history")
		setAutostart  = flag.String("autostart", "", "Start with Windows: on or off")
		hidden        = flag.Bool("hidden", false, "Run without console output (used for login start)")
		noUpdateCheck = flag.Bool("no-update-check", false, "Skip the check for a newer version")
	)
	flag.Parse()

	if *showVersion {
		handleShowVersion()
		return
	}

	if *showConfig {
		handleShowConfig()
		return
	}

	if *showStats {
		handleShowStats()
		return
	}

	if *resetStats {
		handleResetStats()
		return
	}

	if *setAutostart != "" {
		handleAutostart(*setAutostart)
		return
	}

	if *listDevices {
		handleListDevices()
		return
	}

	if *bindDevice != "" {
		handleBind(*bindDevice, *hotkey, *disable)
		return
	}

	if *reset {
		handleReset()
		return
	}

	if *configure {
		handleConfigure()
		return
	}

	if !*hidden && !*noUpdateCheck {
		checkForUpdate()
	}

	daemon := app.NewDaemon(app.Hidden(*hidden))
	if err := daemon.Initialize(); err != nil {
		daemon.Cleanup()
		if errors.Is(err, app.ErrAlreadyRunning) {
			fmt.Println("ℹ️  sinkswitch is already running. Use --configure to edit hotkeys.")
			return
		}
		log.Fatalf("Failed to initialize daemon: %v", err)
	}

	if err := daemon.Run(context.Background()); err != nil {
		log.Fatalf("Daemon error: %v", err)
	}
}

func checkForUpdate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	isValid, newVersion := version.CheckVersion(ctx, nil, version.VERSION_URL)
	if !isValid {
		fmt.Printf("⬆️  sinkswitch %v is available (installed: %v). Update with '%v'.\n\n",
			newVersion, version.VERSION, version.UPDATE_MESSAGE)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyDefaults()
	return cfg
}

// dialDaemon returns a client for the running daemon, or nil when none
// answers.
func dialDaemon(ctx context.Context, cfg *config.Config) *app.RemoteService {
	if !cfg.IPCEnabled() {
		return nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	remote, err := app.DialDaemon(dialCtx, cfg.IPCAddr)
	if err != nil {
		return nil
	}
	return remote
}

// openBackend connects to a running daemon, or works on the binding file
// directly when none is running.
func openBackend(ctx context.Context, cfg *config.Config) (app.Backend, *app.RemoteService, func()) {
	if remote := dialDaemon(ctx, cfg); remote != nil {
		return remote, remote, func() { remote.Close() }
	}

	dataDir, err := config.GetDataDir()
	if err != nil {
		fmt.Printf("❌ Error getting data directory: %v\n", err)
		os.Exit(1)
	}
	slot, err := storage.Open(cfg.Storage, dataDir)
	if err != nil {
		fmt.Printf("❌ Error opening binding storage: %v\n", err)
		os.Exit(1)
	}

	store := bindings.NewStore(slot)
	store.Load()
	client := svcl.NewClient(svcl.Locate(cfg.SvclPath))
	return app.NewService(client, store, nil), nil, func() { slot.Close() }
}

func handleShowConfig() {
	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Printf("❌ Error getting config path: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println("📝 Config file does not exist yet")
		fmt.Printf("📁 It will be read from: %s\n", configPath)
	} else {
		fmt.Printf("📁 Config file location: %s\n", configPath)
		fmt.Println()
		fmt.Println("📋 Config file contents:")

		content, err := os.ReadFile(configPath)
		if err != nil {
			fmt.Printf("❌ Error reading config file: %v\n", err)
			return
		}
		fmt.Println(string(content))
	}

	cfg := loadConfig()
	fmt.Println()
	fmt.Println("⚙️  Effective settings:")
	fmt.Printf("   svcl: %s\n", svcl.Locate(cfg.SvclPath))
	fmt.Printf("   storage: %s\n", cfg.Storage)
	fmt.Printf("   configuration API: %s\n", cfg.IPCAddr)
	fmt.Printf("   notify on switch: %v\n", cfg.NotifyOnSwitch)
	fmt.Printf("   switch cue: %v (volume %.2f)\n", cfg.SwitchCue, cfg.CueVolume)
}

func handleShowVersion() {
	fmt.Printf("sinkswitch (Audio Output Switcher) %s\n", version.VERSION)
}

func handleListDevices() {
	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), commandLimit)
	defer cancel()

	backend, _, closeBackend := openBackend(ctx, cfg)
	defer closeBackend()

	devices, err := backend.FetchDevices(ctx)
	if err != nil {
		fmt.Printf("❌ Error listing devices: %v\n", err)
		os.Exit(1)
	}
	if len(devices) == 0 {
		fmt.Println("🔇 No audio output devices found")
		return
	}

	current, _ := backend.CurrentDevice(ctx)
	for _, d := range devices {
		b, err := backend.GetBinding(ctx, d.DeviceID)
		if err != nil {
			fmt.Printf("❌ Error reading binding: %v\n", err)
			os.Exit(1)
		}

		marker := "  "
		if d.DeviceID == current {
			marker = "🔊"
		}
		hk := "-"
		if b.Hotkey != "" {
			hk = b.Hotkey
			if !b.Enabled {
				hk += " (disabled)"
			}
		}
		fmt.Printf("%s %s\n   id: %s\n   hotkey: %s\n", marker, d.Name, d.DeviceID, hk)
	}
}

func handleBind(deviceID, hotkey string, disable bool) {
	if hotkey == "" && !disable {
		fmt.Println("❌ --bind needs --hotkey=<hotkey> or --disable")
		os.Exit(1)
	}

	var update bindings.Update
	if hotkey != "" {
		normalized, err := hotkeys.Normalize(hotkey)
		if err != nil {
			fmt.Printf("❌ Invalid hotkey %q: %v\n", hotkey, err)
			os.Exit(1)
		}
		update = bindings.SetHotkey(normalized)
		hotkey = normalized
	}
	enabled := !disable
	update.Enabled = &enabled

	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), commandLimit)
	defer cancel()

	backend, remote, closeBackend := openBackend(ctx, cfg)
	defer closeBackend()

	if _, err := backend.UpdateBinding(ctx, deviceID, update); err != nil {
		fmt.Printf("❌ Error updating binding: %v\n", err)
		os.Exit(1)
	}
	if err := backend.SaveBindings(ctx); err != nil {
		fmt.Printf("❌ Error saving bindings: %v\n", err)
		os.Exit(1)
	}

	switch {
	case disable:
		fmt.Printf("⏸️  Hotkey disabled for %s\n", deviceID)
	default:
		fmt.Printf("✅ %s now switches to %s\n", hotkey, deviceID)
	}
	if remote == nil {
		fmt.Println("💡 The daemon is not running; the change applies on its next start")
	}
}

func handleReset() {
	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), commandLimit)
	defer cancel()

	backend, _, closeBackend := openBackend(ctx, cfg)
	defer closeBackend()

	// Known devices keep a default entry after the reset.
	if _, err := backend.FetchDevices(ctx); err != nil {
		fmt.Printf("⚠️  Warning: could not list devices: %v\n", err)
	}
	if err := backend.ClearBindings(ctx); err != nil {
		fmt.Printf("❌ Error clearing bindings: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("🗑️  All hotkey bindings have been removed")
}

func handleConfigure() {
	cfg := loadConfig()
	backend, remote, closeBackend := openBackend(context.Background(), cfg)
	defer closeBackend()

	var opts []tui.Option
	if remote != nil {
		opts = append(opts, tui.WithEvents(remote.Events()))
	}
	if err := tui.Run(backend, opts...); err != nil {
		fmt.Printf("❌ Error running configuration UI: %v\n", err)
		os.Exit(1)
	}
}

func handleShowStats() {
	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), commandLimit)
	defer cancel()

	var (
		summary *stats.Summary
		devices []svcl.Device
		err     error
	)
	if remote := dialDaemon(ctx, cfg); remote != nil {
		defer remote.Close()
		summary, err = remote.Stats(ctx, statsDays)
		if err == nil {
			devices, _ = remote.FetchDevices(ctx)
		}
	} else {
		summary, err = localStats(statsDays)
		if err == nil {
			devices, _ = svcl.NewClient(svcl.Locate(cfg.SvclPath)).ListDevices(ctx)
		}
	}
	if err != nil {
		fmt.Printf("❌ Error reading switch history: %v\n", err)
		os.Exit(1)
	}

	// Device names are a nicety; ids are shown when svcl is unavailable.
	names := map[string]string{}
	for _, d := range devices {
		names[d.DeviceID] = d.Name
	}
	fmt.Println(stats.FormatSummary(summary, names))
}

func localStats(days int) (*stats.Summary, error) {
	statsDir, err := config.GetStatsDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats directory: %w", err)
	}
	manager, err := stats.NewManager(statsDir)
	if err != nil {
		return nil, err
	}
	return manager.Summary(days)
}

func handleResetStats() {
	statsDir, err := config.GetStatsDir()
	if err != nil {
		fmt.Printf("❌ Error getting stats directory: %v\n", err)
		os.Exit(1)
	}

	manager, err := stats.NewManager(statsDir)
	if err != nil {
		fmt.Printf("❌ Error initializing switch history: %v\n", err)
		os.Exit(1)
	}

	if err := manager.Clear(); err != nil {
		fmt.Printf("❌ Error clearing switch history: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🗑️  Switch history has been cleared")
}

func handleAutostart(value string) {
	var enabled bool
	switch strings.ToLower(value) {
	case "on", "true", "1":
		enabled = true
	case "off", "false", "0":
		enabled = false
	default:
		fmt.Printf("❌ Invalid --autostart value: %s (must be on or off)\n", value)
		os.Exit(1)
	}

	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), commandLimit)
	defer cancel()

	// A running daemon owns the login item; otherwise change it here.
	var err error
	if remote := dialDaemon(ctx, cfg); remote != nil {
		defer remote.Close()
		err = remote.SetAutostart(ctx, enabled)
	} else {
		err = autostart.Set(enabled)
	}
	if err != nil {
		if errors.Is(err, autostart.ErrUnsupported) {
			fmt.Println("⚠️  Starting at login is only supported on Windows")
			os.Exit(1)
		}
		fmt.Printf("❌ Error updating login item: %v\n", err)
		os.Exit(1)
	}

	if enabled {
		fmt.Println("✅ sinkswitch will start when you log in")
	} else {
		fmt.Println("✅ sinkswitch will no longer start when you log in")
	}
}
