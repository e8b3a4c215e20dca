// Package config loads service configuration.
//
// Precedence, lowest first: Default(), the TOML file, the .env file and
// process environment, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/warp/workcost-engine/worktime"
)

// Server holds HTTP listener settings.
type Server struct {
	Port         int      `toml:"port"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout"`
	CORSOrigins  []string `toml:"cors_origins"`
}

// Database holds storage settings.
type Database struct {
	Path string `toml:"path"`
}

// Calendar is the firm calendar fallback used when a firm never configured
// its working days or office timing.
type Calendar struct {
	WorkingDays   int `toml:"working_days"`
	OfficeHours   int `toml:"office_hours"`
	OfficeMinutes int `toml:"office_minutes"`
}

// Labels holds the fallback display strings.
type Labels struct {
	Lead          string `toml:"lead"`
	Member        string `toml:"member"`
	UnknownRank   string `toml:"unknown_rank"`
	UnknownPerson string `toml:"unknown_person"`
}

// Config is the top-level configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Database Database `toml:"database"`
	Calendar Calendar `toml:"calendar"`
	Labels   Labels   `toml:"labels"`
}

// Duration decodes TOML strings like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	cal := worktime.DefaultCalendarDefaults()
	labels := worktime.DefaultLabels()
	return Config{
		Server: Server{
			Port:         8080,
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			IdleTimeout:  Duration{60 * time.Second},
			CORSOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Database: Database{Path: "workcost.db"},
		Calendar: Calendar{
			WorkingDays:   cal.WorkingDays,
			OfficeHours:   cal.OfficeHours,
			OfficeMinutes: cal.OfficeMinutes,
		},
		Labels: Labels{
			Lead:          labels.Lead,
			Member:        labels.Member,
			UnknownRank:   labels.UnknownRank,
			UnknownPerson: labels.UnknownPerson,
		},
	}
}

// Load reads the TOML file at path (skipped when empty or missing), then
// .env and the environment. A malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("WORKCOST_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WORKCOST_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("WORKCOST_DB"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("WORKCOST_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := getenv("WORKCOST_DEFAULT_WORKING_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WORKCOST_DEFAULT_WORKING_DAYS: %w", err)
		}
		c.Calendar.WorkingDays = days
	}
	return nil
}

// Validate rejects settings the engine cannot divide by.
func (c Config) Validate() error {
	if c.Calendar.WorkingDays <= 0 {
		return fmt.Errorf("calendar.working_days must be positive, got %d", c.Calendar.WorkingDays)
	}
	if c.Calendar.OfficeHours < 0 || c.Calendar.OfficeMinutes < 0 ||
		c.Calendar.OfficeHours*60+c.Calendar.OfficeMinutes <= 0 {
		return fmt.Errorf("calendar office timing must be positive, got %dh%dm", c.Calendar.OfficeHours, c.Calendar.OfficeMinutes)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// CalendarDefaults converts the calendar section for the engine.
func (c Config) CalendarDefaults() worktime.CalendarDefaults {
	return worktime.CalendarDefaults{
		WorkingDays:   c.Calendar.WorkingDays,
		OfficeHours:   c.Calendar.OfficeHours,
		OfficeMinutes: c.Calendar.OfficeMinutes,
	}
}

// EngineLabels converts the labels section for the engine.
func (c Config) EngineLabels() worktime.Labels {
	return worktime.Labels{
		Lead:          c.Labels.Lead,
		Member:        c.Labels.Member,
		UnknownRank:   c.Labels.UnknownRank,
		UnknownPerson: c.Labels.UnknownPerson,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
