package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"swerve-bringup/autonomous"
	"swerve-bringup/drivetrain"
	"swerve-bringup/robot"
	"swerve-bringup/utils"
)

func main() {
	app := cli.NewApp()
	app.Name = "bringup"
	app.Usage = "run the swerve drivetrain bring-up program"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Value: "config/robot.yaml",
			Usage: "robot configuration file",
		},
		cli.StringFlag{
			Name:  "log",
			Usage: "trace|debug|info|warn|error|critical (overrides config)",
		},
	}
	runFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "auto",
			Usage: "autonomous routine JSON (overrides config)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "run the robot loop",
			Flags:  runFlags,
			Action: runAction,
		},
		{
			Name:  "monitor",
			Usage: "decode drivetrain frames seen on a CAN interface",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "iface",
					Usage: "SocketCAN interface (defaults to the drive bus interface)",
				},
			},
			Action: monitorAction,
		},
	}
	app.Action = runAction

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*Config, *utils.Logger, error) {
	cfg, err := LoadConfig(c.GlobalString("config"))
	if err != nil {
		return nil, nil, err
	}
	if lvl := c.GlobalString("log"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := utils.NewFileLogger(utils.LogFileConfig{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}, cfg.logLevel(), cfg.Log.Stdout)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s: %w", cfg.Log.File, err)
	}
	return cfg, log, nil
}

func runAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Close()

	if routine := c.String("auto"); routine != "" {
		cfg.Autonomous.Routine = routine
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Critical("Run failed: %v", err)
		return err
	}
	return nil
}

func run(ctx context.Context, cfg *Config, log *utils.Logger) error {
	vendor, closeBuses, err := openVendor(ctx, cfg, log.Component("vendor"))
	if err != nil {
		return err
	}
	defer closeBuses()

	if cfg.Autonomous.Routine != "" {
		routine, err := autonomous.LoadRoutine(cfg.Autonomous.Routine)
		if err != nil {
			return fmt.Errorf("load autonomous routine: %w", err)
		}
		drivetrain.RegisterAutonomousFactory(routineFactoryName,
			autonomous.NewFactory(routine, log.Component("autonomous")))
		log.Info("Autonomous routine %q loaded from %s", routine.Meta.Name, cfg.Autonomous.Routine)
	}

	ds := robot.NewDriverStation(cfg.DriverStation.Timeout, log.Component("ds"))
	srv := &http.Server{
		Addr:              cfg.DriverStation.Listen,
		Handler:           ds.Handler(infoDocument(cfg)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Driver station listening on %s", cfg.DriverStation.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Driver station server failed: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	driveLog := log.Component("drive")
	newDrive := func() (DriveSubsystem, error) {
		var opts []drivetrain.Option
		if o := drivetrain.ResolveOverride(driveLog, cfg.Overrides); o != nil {
			opts = append(opts, drivetrain.WithOverride(o))
		}
		if f := drivetrain.ResolveAutonomousFactory(cfg.Autonomous.Candidates); f != nil {
			opts = append(opts, drivetrain.WithAutonomousFactory(f))
		}
		d, err := drivetrain.NewDrive(vendor, cfg.Drive, driveLog, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	}

	program := NewRobot(ds, cfg.DriverStation.ControllerPort, newDrive, vendor.Heartbeat, log.Component("robot"))
	defer program.Shutdown()

	loop := robot.NewTimedRobot(program, ds, cfg.LoopPeriod, log.Component("loop"))
	return loop.Run(ctx)
}

// openVendor loads the CAN map and opens every configured bus. Any failure
// means the drivetrain cannot run at all.
func openVendor(ctx context.Context, cfg *Config, log *utils.Logger) (*drivetrain.PhoenixVendor, func(), error) {
	cmap, err := utils.LoadCANMap(cfg.CAN.MapPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load can map: %v", drivetrain.ErrVendorUnavailable, err)
	}
	writers, err := utils.OpenCANWriters(ctx, cfg.CAN.Buses)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", drivetrain.ErrVendorUnavailable, err)
	}
	vendor, err := drivetrain.NewPhoenixVendor(cmap, writers, log)
	if err != nil {
		utils.CloseCANWriters(writers)
		return nil, nil, err
	}
	return vendor, func() { utils.CloseCANWriters(writers) }, nil
}

func infoDocument(cfg *Config) any {
	return struct {
		CANBus     string                       `json:"canbus"`
		Interfaces map[string]string            `json:"interfaces"`
		Modules    []drivetrain.ModuleConstants `json:"modules"`
		LoopPeriod string                       `json:"loop_period"`
		Routine    string                       `json:"routine,omitempty"`
		Overrides  []string                     `json:"registered_overrides"`
	}{
		CANBus:     cfg.Drive.CANBusName,
		Interfaces: cfg.CAN.Buses,
		Modules:    cfg.Drive.Modules,
		LoopPeriod: cfg.LoopPeriod.String(),
		Routine:    cfg.Autonomous.Routine,
		Overrides:  drivetrain.RegisteredOverrides(),
	}
}

func monitorAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Close()

	iface := c.String("iface")
	if iface == "" {
		iface = cfg.CAN.Buses[cfg.Drive.CANBusName]
	}

	cmap, err := utils.LoadCANMap(cfg.CAN.MapPath)
	if err != nil {
		log.Critical("Startup failed: %v", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runMonitor(ctx, iface, cmap, log.Component("monitor"))
}
