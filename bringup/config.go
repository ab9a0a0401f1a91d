package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"swerve-bringup/drivetrain"
	"swerve-bringup/utils"
)

// Config is the robot program configuration loaded from robot.yaml.
type Config struct {
	LoopPeriod time.Duration `yaml:"loop_period"`

	DriverStation DriverStationConfig `yaml:"driver_station"`
	CAN           CANConfig           `yaml:"can"`
	Overrides     []string            `yaml:"override_candidates"`
	Autonomous    AutonomousConfig    `yaml:"autonomous"`
	Log           LogConfig           `yaml:"log"`

	Drive drivetrain.Constants `yaml:"drive"`
}

type DriverStationConfig struct {
	Listen         string        `yaml:"listen"`
	Timeout        time.Duration `yaml:"timeout"`
	ControllerPort int           `yaml:"controller_port"`
}

// CANConfig maps bus names used by the drivetrain to SocketCAN interfaces.
type CANConfig struct {
	MapPath string            `yaml:"map"`
	Buses   map[string]string `yaml:"buses"`
}

type AutonomousConfig struct {
	Candidates []string `yaml:"candidates"`
	Routine    string   `yaml:"routine"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	Stdout     bool   `yaml:"stdout"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

const routineFactoryName = "routine"

func defaultConfig() *Config {
	return &Config{
		LoopPeriod: 20 * time.Millisecond,
		DriverStation: DriverStationConfig{
			Listen:  ":5810",
			Timeout: 500 * time.Millisecond,
		},
		CAN: CANConfig{
			MapPath: "config/can/can_map.csv",
			Buses:   map[string]string{"rio": "can0"},
		},
		// Where generated drivetrains are usually registered from.
		Overrides: []string{
			"generated.command_swerve_drivetrain",
			"subsystems.command_swerve_drivetrain",
			"command_swerve_drivetrain",
		},
		Autonomous: AutonomousConfig{
			Candidates: []string{
				"subsystems.tuner_autonomous",
				"generated.tuner_autonomous",
				"tuner_autonomous",
				routineFactoryName,
			},
		},
		Log: LogConfig{
			File:       "bringup.log",
			Level:      "info",
			Stdout:     true,
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Drive: drivetrain.DefaultConstants(),
	}
}

// LoadConfig starts from defaults, overlays path (if set), then
// environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if iface := os.Getenv("BRINGUP_CAN_IFACE"); iface != "" {
		if cfg.CAN.Buses == nil {
			cfg.CAN.Buses = map[string]string{}
		}
		cfg.CAN.Buses[cfg.Drive.CANBusName] = iface
	}
	if lvl := os.Getenv("BRINGUP_LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}
}

func (c *Config) Validate() error {
	if c.LoopPeriod < time.Millisecond || c.LoopPeriod > time.Second {
		return fmt.Errorf("loop_period %s outside 1ms..1s", c.LoopPeriod)
	}
	if c.DriverStation.Timeout <= c.LoopPeriod {
		return fmt.Errorf("driver_station.timeout %s must exceed loop_period %s", c.DriverStation.Timeout, c.LoopPeriod)
	}
	if c.DriverStation.ControllerPort < 0 || c.DriverStation.ControllerPort > 5 {
		return fmt.Errorf("driver_station.controller_port %d outside 0..5", c.DriverStation.ControllerPort)
	}
	if c.CAN.MapPath == "" {
		return fmt.Errorf("can.map is empty")
	}
	if _, ok := c.CAN.Buses[c.Drive.CANBusName]; !ok {
		return fmt.Errorf("can.buses has no interface for drive bus %q", c.Drive.CANBusName)
	}
	if err := c.Drive.Validate(); err != nil {
		return fmt.Errorf("drive: %w", err)
	}
	return nil
}

func (c *Config) logLevel() utils.LogLevel {
	return utils.ParseLevel(c.Log.Level)
}
