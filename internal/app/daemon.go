package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bezmoradi/sinkswitch/internal/audio"
	"github.com/bezmoradi/sinkswitch/internal/bindings"
	"github.com/bezmoradi/sinkswitch/internal/config"
	"github.com/bezmoradi/sinkswitch/internal/hotkeys"
	"github.com/bezmoradi/sinkswitch/internal/ipc"
	"github.com/bezmoradi/sinkswitch/internal/logger"
	"github.com/bezmoradi/sinkswitch/internal/stats"
	"github.com/bezmoradi/sinkswitch/internal/storage"
	"github.com/bezmoradi/sinkswitch/internal/svcl"
	"github.com/bezmoradi/sinkswitch/internal/terminal"
	"github.com/bezmoradi/sinkswitch/internal/version"
)

// ErrAlreadyRunning is returned by Initialize when another daemon owns the
// IPC address.
var ErrAlreadyRunning = errors.New("sinkswitch is already running")

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 3 * time.Second
)

// DeviceSwitcher lists devices and changes the default one.
type DeviceSwitcher interface {
	DeviceSource
	hotkeys.Switcher
}

type Daemon struct {
	config    *config.Config
	configDir string
	dataDir   string
	statsDir  string
	hidden    bool

	registrar hotkeys.Registrar
	switcher  DeviceSwitcher
	autostart Autostart

	slot     storage.Slot
	store    *bindings.Store
	router   *hotkeys.Router
	service  *Service
	server   *ipc.Server
	stats    *stats.Manager
	feedback *audio.Feedback
	status   *terminal.StatusLine
	svclPath string

	cleanupOnce sync.Once
}

type DaemonOption func(*Daemon)

// WithConfig skips loading the configuration from disk.
func WithConfig(cfg *config.Config) DaemonOption {
	return func(d *Daemon) { d.config = cfg }
}

// WithDirs overrides the config, data and stats directories.
func WithDirs(configDir, dataDir, statsDir string) DaemonOption {
	return func(d *Daemon) {
		d.configDir = configDir
		d.dataDir = dataDir
		d.statsDir = statsDir
	}
}

// WithRegistrar replaces the OS hotkey backend.
func WithRegistrar(r hotkeys.Registrar) DaemonOption {
	return func(d *Daemon) { d.registrar = r }
}

// WithSwitcher replaces the svcl client.
func WithSwitcher(s DeviceSwitcher) DaemonOption {
	return func(d *Daemon) { d.switcher = s }
}

func WithAutostart(a Autostart) DaemonOption {
	return func(d *Daemon) { d.autostart = a }
}

// WithFeedback replaces the notification and cue feedback.
func WithFeedback(f *audio.Feedback) DaemonOption {
	return func(d *Daemon) { d.feedback = f }
}

// Hidden suppresses the banner and the status line, as for a login start.
func Hidden(hidden bool) DaemonOption {
	return func(d *Daemon) { d.hidden = hidden }
}

func NewDaemon(opts ...DaemonOption) *Daemon {
	d := &Daemon{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Daemon) Initialize() error {
	var err error

	// Load configuration
	if d.config == nil {
		d.config, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	d.config.ApplyDefaults()

	if err := d.resolveDirs(); err != nil {
		return err
	}

	if _, err := logger.Init(d.configDir, mirrorLogs(d.config, d.hidden)); err != nil {
		return err
	}
	logger.SetDebug(d.config.Debug)
	logger.Info("[DAEMON] Starting sinkswitch %s", version.VERSION)

	configPath := config.FilePath(d.configDir)
	if created, err := config.EnsureFile(configPath); err != nil {
		logger.Warn("[CONFIG] %v", err)
	} else if created {
		logger.Info("[CONFIG] Wrote default configuration to %s", configPath)
	}

	// Claim the IPC address first; it doubles as the single-instance lock.
	d.server = ipc.NewServer()
	if d.config.IPCEnabled() {
		if err := d.server.Listen(d.config.IPCAddr); err != nil {
			if probeDaemon(d.config.IPCAddr) {
				return ErrAlreadyRunning
			}
			return fmt.Errorf("failed to start configuration API: %w", err)
		}
	}

	d.slot, err = storage.Open(d.config.Storage, d.dataDir)
	if err != nil {
		return fmt.Errorf("failed to open binding storage: %w", err)
	}
	d.store = bindings.NewStore(d.slot)

	if d.switcher == nil {
		client := svcl.NewClient(svcl.Locate(d.config.SvclPath))
		if err := client.CheckInstalled(); err != nil {
			logger.Error("[SVCL] %v", err)
			fmt.Printf("⚠️  %v\n", err)
		}
		d.svclPath = client.Path()
		d.switcher = client
	}

	if d.registrar == nil {
		d.registrar = hotkeys.NewOSRegistrar()
	}
	if d.autostart == nil {
		d.autostart = osAutostart{}
	}
	if d.feedback == nil {
		d.feedback = audio.NewFeedback(d.config.NotifyOnSwitch, d.config.SwitchCue, d.config.CueVolume)
	}

	d.stats, err = stats.NewManager(d.statsDir)
	if err != nil {
		logger.Warn("[DAEMON] Switch history disabled: %v", err)
		d.stats = nil
	}

	if !d.hidden {
		d.status = terminal.NewStatusLine(terminal.NewControl())
	}

	d.router = hotkeys.NewRouter(d.registrar, d.switcher, hotkeys.WithSwitchHandler(d.handleSwitch))
	d.service = NewService(d.switcher, d.store, d.router)
	if d.status != nil {
		d.service.OnRegistered(d.status.SetRegistered)
	}

	h := &handlers{
		service:   d.service,
		server:    d.server,
		autostart: d.autostart,
		stats:     d.stats,
		status:    d.Status,
	}
	h.register()

	return nil
}

// mirrorLogs reports whether log lines are copied to stderr. Only debug
// runs do it; otherwise they would scroll the status block away.
func mirrorLogs(cfg *config.Config, hidden bool) bool {
	return cfg.Debug && !hidden
}

func (d *Daemon) resolveDirs() error {
	var err error
	if d.configDir == "" {
		if d.configDir, err = config.GetConfigDir(); err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}
	}
	if d.dataDir == "" {
		if d.dataDir, err = config.GetDataDir(); err != nil {
			return fmt.Errorf("failed to get data directory: %w", err)
		}
	}
	if d.statsDir == "" {
		if d.statsDir, err = config.GetStatsDir(); err != nil {
			return fmt.Errorf("failed to get stats directory: %w", err)
		}
	}
	return nil
}

// probeDaemon reports whether a sinkswitch daemon answers on addr.
func probeDaemon(addr string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	remote, err := DialDaemon(ctx, addr)
	if err != nil {
		return false
	}
	defer remote.Close()

	_, err = remote.Status(ctx)
	return err == nil
}

// Start loads devices and bindings, registers hotkeys and starts serving
// the configuration API. It returns once the daemon is operational.
func (d *Daemon) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if _, err := d.service.FetchDevices(ctx); err != nil {
		logger.Error("[DAEMON] Failed to list devices: %v", err)
	}
	if err := d.service.LoadBindings(ctx); err != nil {
		return err
	}

	if err := d.service.RegisterHotkeys(ctx); err != nil {
		return fmt.Errorf("failed to register hotkeys: %w", err)
	}
	d.refreshToday()

	if d.server.Addr() != "" {
		go func() {
			if err := d.server.Serve(); err != nil {
				logger.Error("[IPC] Server stopped: %v", err)
			}
		}()
	}
	return nil
}

func (d *Daemon) Run(ctx context.Context) error {
	if !d.hidden {
		fmt.Println("🔊 sinkswitch - Audio Output Switcher Started")
		if d.server.Addr() != "" {
			fmt.Printf("⚙️  Configure with 'sinkswitch --configure' (API on %s)\n", d.server.Addr())
		}
		fmt.Println("🛑 Press Ctrl+C to exit")
		fmt.Println()
	}

	if err := d.Start(ctx); err != nil {
		d.Cleanup()
		return err
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	if !d.hidden {
		fmt.Println("\n🛑 Shutting down...")
	}
	d.Cleanup()
	return nil
}

// Cleanup releases hotkeys, stops the API and closes storage. It is safe to
// call more than once.
func (d *Daemon) Cleanup() {
	d.cleanupOnce.Do(func() {
		if d.router != nil {
			d.router.UnregisterHotkeys()
		}

		if d.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := d.server.Shutdown(ctx); err != nil {
				logger.Warn("[IPC] Shutdown: %v", err)
			}
			cancel()
		}

		if d.slot != nil {
			if err := d.slot.Close(); err != nil {
				logger.Warn("[STORE] Close: %v", err)
			}
		}

		logger.Info("[DAEMON] Stopped")
		logger.Close()
	})
}

// Service returns the in-process service; valid after Initialize.
func (d *Daemon) Service() *Service {
	return d.service
}

// Status describes the running daemon.
func (d *Daemon) Status() Status {
	st := Status{
		Version: version.VERSION,
		PID:     os.Getpid(),
		Storage: d.config.Storage,
		Svcl:    d.svclPath,
	}
	if d.router != nil {
		st.Hotkeys = d.router.Registered()
	}
	if d.server != nil {
		st.Clients = d.server.ClientCount()
	}
	return st
}

// refreshToday shows today's switch count on the status line.
func (d *Daemon) refreshToday() {
	if d.stats == nil || d.status == nil {
		return
	}
	today, err := d.stats.GetToday()
	if err != nil {
		logger.Warn("[STATS] Failed to read today's switches: %v", err)
		return
	}
	d.status.SetToday(today.SwitchCount)
}

// handleSwitch runs after every hotkey press.
func (d *Daemon) handleSwitch(ev hotkeys.SwitchEvent) {
	rec := stats.SwitchRecord{
		Timestamp: ev.At,
		Hotkey:    ev.Hotkey,
		From:      ev.From,
		To:        ev.To,
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
	}

	if d.stats != nil {
		if err := d.stats.Record(rec); err != nil {
			logger.Warn("[STATS] Failed to record switch: %v", err)
		}
	}
	d.refreshToday()

	names := d.service.DeviceNames()
	name := names[ev.To]
	if name == "" {
		name = ev.To
	}

	d.server.Notify(EventDeviceSwitched, SwitchNotice{
		Hotkey: ev.Hotkey,
		From:   ev.From,
		To:     ev.To,
		Name:   name,
		Error:  rec.Error,
	})

	if d.status != nil {
		d.status.SetLast(stats.FormatSwitchLine(rec, names))
	}

	go d.feedback.Switched(name, ev.Err)
}
