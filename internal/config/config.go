package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/lexmart/internal/errors"
	"github.com/vango-dev/lexmart/pkg/tooltip"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "lexmart.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "lexmart.yaml"

	// DefaultPort is the default HTTP port.
	DefaultPort = 8080

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"

	// DefaultMaxBodyBytes caps upload request bodies.
	DefaultMaxBodyBytes = 32 << 20

	// DefaultMediaDir is where the disk store writes uploads.
	DefaultMediaDir = "var/media"

	// DefaultLivePath is the WebSocket endpoint.
	DefaultLivePath = "/live"
)

// Store kinds for UploadConfig.Store.
const (
	StoreDisk = "disk"
	StoreS3   = "s3"
)

// fileNames are searched in order by Load.
var fileNames = []string{JSONFileName, YAMLFileName, "lexmart.yml"}

// Config represents lexmart.json or lexmart.yaml.
type Config struct {
	// Name is the site name shown in page titles.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Server  ServerConfig  `json:"server" yaml:"server"`
	Upload  UploadConfig  `json:"upload" yaml:"upload"`
	Tooltip TooltipConfig `json:"tooltip" yaml:"tooltip"`
	Live    LiveConfig    `json:"live" yaml:"live"`
	Log     LogConfig     `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	ReadTimeout     Duration `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout    Duration `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	ShutdownTimeout Duration `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// Metrics exposes /metrics when true.
	Metrics bool `json:"metrics" yaml:"metrics"`
}

// UploadConfig contains media upload settings.
type UploadConfig struct {
	// Store is "disk" or "s3".
	Store string `json:"store,omitempty" yaml:"store,omitempty"`

	// MaxBodyBytes caps the request body.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" yaml:"maxBodyBytes,omitempty"`

	// TempDir is where uploads are spooled. Empty means os.TempDir().
	TempDir string `json:"tempDir,omitempty" yaml:"tempDir,omitempty"`

	Disk DiskConfig `json:"disk" yaml:"disk"`
	S3   S3Config   `json:"s3" yaml:"s3"`
}

// DiskConfig configures the local media store.
type DiskConfig struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// URLPrefix is the path media is served under.
	URLPrefix string `json:"urlPrefix,omitempty" yaml:"urlPrefix,omitempty"`
}

// S3Config configures the S3 media store.
type S3Config struct {
	Bucket        string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix        string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region        string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint      string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PublicBaseURL string `json:"publicBaseUrl,omitempty" yaml:"publicBaseUrl,omitempty"`
}

// TooltipConfig holds the defaults pages apply to tooltips.
type TooltipConfig struct {
	Side      string   `json:"side,omitempty" yaml:"side,omitempty"`
	Delay     Duration `json:"delay,omitempty" yaml:"delay,omitempty"`
	ClassName string   `json:"className,omitempty" yaml:"className,omitempty"`
}

// LiveConfig contains live session settings.
type LiveConfig struct {
	Enabled           bool     `json:"enabled" yaml:"enabled"`
	Path              string   `json:"path,omitempty" yaml:"path,omitempty"`
	ReadTimeout       Duration `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	HeartbeatInterval Duration `json:"heartbeatInterval,omitempty" yaml:"heartbeatInterval,omitempty"`
	MaxFrameBytes     int64    `json:"maxFrameBytes,omitempty" yaml:"maxFrameBytes,omitempty"`
	MaxTooltips       int      `json:"maxTooltips,omitempty" yaml:"maxTooltips,omitempty"`

	// AllowedOrigins lists extra origins allowed to open a session.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "Lexmart",
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			Metrics:         true,
		},
		Upload: UploadConfig{
			Store:        StoreDisk,
			MaxBodyBytes: DefaultMaxBodyBytes,
			Disk: DiskConfig{
				Dir:       DefaultMediaDir,
				URLPrefix: "/media",
			},
		},
		Tooltip: TooltipConfig{
			Side:  string(tooltip.DefaultSide),
			Delay: Duration(200 * time.Millisecond),
		},
		Live: LiveConfig{
			Enabled:           true,
			Path:              DefaultLivePath,
			ReadTimeout:       Duration(60 * time.Second),
			HeartbeatInterval: Duration(30 * time.Second),
			MaxFrameBytes:     16 << 10,
			MaxTooltips:       256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for lexmart.json, then lexmart.yaml, then lexmart.yml.
func Load(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E100").
		WithDetail("No lexmart.json or lexmart.yaml found in " + dir).
		WithSuggestion("Run 'lexmart config init' to write a default config")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	unmarshal, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := unmarshal(data, cfg); err != nil {
		le := errors.New("E102").
			WithDetail(fmt.Sprintf("Failed to parse %s: %v", filepath.Base(path), err)).
			WithSuggestion("Check that the file is valid " + formatName(path))
		if line := syntaxErrorLine(data, err); line > 0 {
			le = le.WithLocation(path, line, 0)
		}
		return nil, le
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func decoderFor(path string) (func([]byte, any) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	default:
		return nil, errors.New("E106").WithDetail("Cannot load " + path)
	}
}

func formatName(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return "JSON"
	}
	return "YAML"
}

// syntaxErrorLine maps a JSON syntax error offset to a 1-based line.
func syntaxErrorLine(data []byte, err error) int {
	var se *json.SyntaxError
	if !stderrors.As(err, &se) {
		return 0
	}
	line := 1
	for i := 0; i < int(se.Offset) && i < len(data); i++ {
		if data[i] == '\n' {
			line++
		}
	}
	return line
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path in the format its
// extension names.
func (c *Config) SaveTo(path string) error {
	data, err := c.Marshal(formatName(path))
	if err != nil {
		return err
	}
	if _, err := decoderFor(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Marshal encodes the configuration as "JSON" or "YAML".
func (c *Config) Marshal(format string) ([]byte, error) {
	switch strings.ToUpper(format) {
	case "JSON":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, errors.New("E102").Wrap(err)
		}
		return append(data, '\n'), nil
	case "YAML", "YML":
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.New("E102").Wrap(err)
		}
		return data, nil
	default:
		return nil, errors.New("E106").WithDetail("Unknown format " + strconv.Quote(format))
	}
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	if c.Name == "" {
		c.Name = d.Name
	}

	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}

	if c.Upload.Store == "" {
		c.Upload.Store = d.Upload.Store
	}
	if c.Upload.MaxBodyBytes == 0 {
		c.Upload.MaxBodyBytes = d.Upload.MaxBodyBytes
	}
	if c.Upload.Disk.Dir == "" {
		c.Upload.Disk.Dir = d.Upload.Disk.Dir
	}
	if c.Upload.Disk.URLPrefix == "" {
		c.Upload.Disk.URLPrefix = d.Upload.Disk.URLPrefix
	}

	if c.Tooltip.Side == "" {
		c.Tooltip.Side = d.Tooltip.Side
	}

	if c.Live.Path == "" {
		c.Live.Path = d.Live.Path
	}
	if c.Live.ReadTimeout == 0 {
		c.Live.ReadTimeout = d.Live.ReadTimeout
	}
	if c.Live.HeartbeatInterval == 0 {
		c.Live.HeartbeatInterval = d.Live.HeartbeatInterval
	}
	if c.Live.MaxFrameBytes == 0 {
		c.Live.MaxFrameBytes = d.Live.MaxFrameBytes
	}
	if c.Live.MaxTooltips == 0 {
		c.Live.MaxTooltips = d.Live.MaxTooltips
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return errors.New("E103").
			WithDetail(fmt.Sprintf("server.port %d is outside 1-65535", s.Port))
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.ShutdownTimeout < 0 {
		return errors.New("E103").
			WithDetail("server timeouts must not be negative")
	}

	u := c.Upload
	switch u.Store {
	case StoreDisk:
		if u.Disk.Dir == "" {
			return errors.New("E104").WithDetail("upload.disk.dir is empty")
		}
		if !strings.HasPrefix(u.Disk.URLPrefix, "/") {
			return errors.New("E104").
				WithDetail("upload.disk.urlPrefix must start with /")
		}
	case StoreS3:
		if u.S3.Bucket == "" {
			return errors.New("E104").
				WithDetail("upload.s3.bucket is required when upload.store is s3").
				WithSuggestion("Set upload.s3.bucket or switch upload.store to disk")
		}
	default:
		return errors.New("E104").
			WithDetail(fmt.Sprintf("upload.store %q is not disk or s3", u.Store))
	}
	if u.MaxBodyBytes < 0 {
		return errors.New("E104").WithDetail("upload.maxBodyBytes must not be negative")
	}

	if side := tooltip.Side(c.Tooltip.Side); !side.Valid() {
		return errors.New("E105").
			WithDetail(fmt.Sprintf("tooltip.side %q is not top, bottom, left or right", c.Tooltip.Side))
	}
	if c.Tooltip.Delay < 0 {
		return errors.New("E105").WithDetail("tooltip.delay must not be negative")
	}

	if c.Live.Enabled && !strings.HasPrefix(c.Live.Path, "/") {
		return errors.New("E103").WithDetail("live.path must start with /")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return errors.New("E103").
			WithDetail(fmt.Sprintf("log.level %q is not debug, info, warn or error", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E103").
			WithDetail(fmt.Sprintf("log.format %q is not text or json", c.Log.Format))
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// MediaDir returns the absolute path to the disk media directory.
func (c *Config) MediaDir() string {
	if filepath.IsAbs(c.Upload.Disk.Dir) {
		return c.Upload.Disk.Dir
	}
	return filepath.Join(c.Dir(), c.Upload.Disk.Dir)
}

// TooltipDefaults returns the tooltip defaults as a positioner config.
func (c *Config) TooltipDefaults() tooltip.Config {
	return tooltip.Config{
		Side:      tooltip.Side(c.Tooltip.Side),
		Delay:     c.Tooltip.Delay.Std(),
		ClassName: c.Tooltip.ClassName,
	}
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range fileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No lexmart.json or lexmart.yaml found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'lexmart config init' to write a default config")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent that has one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
