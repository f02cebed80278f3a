package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "SOCHA_"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Transport   string `yaml:"transport"` // "tcp" or "ws"
	URL         string `yaml:"url"`       // WebSocket endpoint
	Reservation string `yaml:"reservation"`
	Room        string `yaml:"room"`
	Strategy    string `yaml:"strategy"` // "random" or "lua"
	Script      string `yaml:"script"`
	Seed        uint64 `yaml:"seed"` // 0 picks a time based seed
	LogLevel    string `yaml:"log_level"`
	Pretty      bool   `yaml:"pretty"`
	Local       bool   `yaml:"local"` // Self-play instead of connecting to a server
	Games       int    `yaml:"games"`
	Record      string `yaml:"record"` // Directory for local match records, empty to disable
}

func Default() Config {
	return Config{
		Host:      "localhost",
		Port:      13050,
		Transport: "tcp",
		URL:       "ws://localhost:13055/ws",
		Strategy:  "random",
		LogLevel:  "info",
		Games:     1,
	}
}

// Address is the host:port of the TCP game server.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

var keys = []struct {
	name  string
	usage string
}{
	{"host", "game server host"},
	{"port", "game server port"},
	{"transport", "transport to the game server: tcp or ws"},
	{"url", "websocket url, used with -transport ws"},
	{"reservation", "reservation code of a prepared game"},
	{"room", "id of the room to join"},
	{"strategy", "move selection strategy: random or lua"},
	{"script", "lua script defining choose_move, used with -strategy lua"},
	{"seed", "random seed, 0 for a time based seed"},
	{"log-level", "log level: debug, info, warn or error"},
	{"pretty", "human readable console logs"},
	{"local", "play local games between two agents instead of joining a server"},
	{"games", "number of local games"},
	{"record", "directory to write local game records to"},
}

func isBool(name string) bool {
	return name == "pretty" || name == "local"
}

// EnvKey maps a key name to its environment variable, e.g. log-level to SOCHA_LOG_LEVEL.
func EnvKey(name string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func (c *Config) set(name, value string) error {
	var err error
	switch name {
	case "host":
		c.Host = value
	case "port":
		c.Port, err = strconv.Atoi(value)
	case "transport":
		c.Transport = strings.ToLower(value)
	case "url":
		c.URL = value
	case "reservation":
		c.Reservation = value
	case "room":
		c.Room = value
	case "strategy":
		c.Strategy = strings.ToLower(value)
	case "script":
		c.Script = value
	case "seed":
		c.Seed, err = strconv.ParseUint(value, 10, 64)
	case "log-level":
		c.LogLevel = value
	case "pretty":
		c.Pretty, err = strconv.ParseBool(value)
	case "local":
		c.Local, err = strconv.ParseBool(value)
	case "games":
		c.Games, err = strconv.Atoi(value)
	case "record":
		c.Record = value
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalid, name)
	}
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, name, value, err)
	}
	return nil
}

func (c Config) get(name string) string {
	switch name {
	case "host":
		return c.Host
	case "port":
		return strconv.Itoa(c.Port)
	case "transport":
		return c.Transport
	case "url":
		return c.URL
	case "reservation":
		return c.Reservation
	case "room":
		return c.Room
	case "strategy":
		return c.Strategy
	case "script":
		return c.Script
	case "seed":
		return strconv.FormatUint(c.Seed, 10)
	case "log-level":
		return c.LogLevel
	case "pretty":
		return strconv.FormatBool(c.Pretty)
	case "local":
		return strconv.FormatBool(c.Local)
	case "games":
		return strconv.Itoa(c.Games)
	case "record":
		return c.Record
	default:
		return ""
	}
}

// LoadFile overlays the YAML file at path. Keys missing from the file keep their value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return nil
}

// LoadEnv overlays every SOCHA_* variable lookup finds.
func (c *Config) LoadEnv(lookup func(string) (string, bool)) error {
	for _, k := range keys {
		if v, ok := lookup(EnvKey(k.name)); ok {
			if err := c.set(k.name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Transport {
	case "tcp", "ws":
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalid, c.Transport)
	}
	switch c.Strategy {
	case "random":
	case "lua":
		if c.Script == "" {
			return fmt.Errorf("%w: strategy lua needs a script", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalid, c.Strategy)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: games must be positive", ErrInvalid)
	}
	return nil
}

// Load builds the configuration from defaults, an optional YAML file (-config or SOCHA_CONFIG),
// the environment including an optional .env file (-env), and finally the flags in args.
func Load(args []string, lookup func(string) (string, bool), output io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("socha", flag.ContinueOnError)
	fs.SetOutput(output)
	configPath := fs.String("config", "", "YAML config file")
	envPath := fs.String("env", ".env", "dotenv file, ignored when missing")
	for _, k := range keys {
		if isBool(k.name) {
			fs.Bool(k.name, cfg.get(k.name) == "true", k.usage)
		} else {
			fs.String(k.name, cfg.get(k.name), k.usage)
		}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	dotenv, err := godotenv.Read(*envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read %s: %w", *envPath, err)
	}
	// Variables already in the environment take precedence over the dotenv file
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	path := *configPath
	if path == "" {
		path, _ = env(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.LoadEnv(env); err != nil {
		return Config{}, err
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || f.Name == "env" || flagErr != nil {
			return
		}
		flagErr = cfg.set(f.Name, f.Value.String())
	})
	if flagErr != nil {
		return Config{}, flagErr
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
