package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/go-playground/validator/v10"
	"github.com/kkyr/fig"
	"github.com/spf13/pflag"
)

const (
	configEnv    = "WEATHERINK"
	legacyKeyEnv = "OPENWEATHER_API_KEY"

	DefaultOutput  = "output/weather.png"
	DefaultIconURL = "https://openweathermap.org/img/wn/%s@2x.png"
)

var ErrMissingAPIKey = errors.New("API credential is not set")

// ConfigError reports an unusable configuration value. It is always fatal.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config holds everything a single render run needs.
type Config struct {
	APIKey string `fig:"api_key"`
	// Allowed values: current, forecast, onecall
	Mode string `fig:"mode" default:"forecast" check:"oneof=current forecast onecall"`
	// Allowed values: metric, imperial
	Units    string        `fig:"units" default:"metric" check:"oneof=metric imperial"`
	Locale   string        `fig:"locale"`
	Endpoint string        `fig:"endpoint" default:"https://api.openweathermap.org/data" check:"url"`
	Timeout  time.Duration `fig:"timeout" default:"10s" check:"gt=0"`
	Output   string        `fig:"output" default:"output/weather.png" check:"required"`
	InputDir string        `fig:"input_dir"`
	// Allowed value: 1 to 5
	Days int `fig:"days" default:"5" check:"min=1,max=5"`
	// Allowed values: window, nearest
	Selection string     `fig:"selection" default:"window" check:"oneof=window nearest"`
	LogLevel  slog.Level `fig:"loglevel" default:"0"`

	Location struct {
		City    string  `fig:"city" default:"Liebefeld"`
		Country string  `fig:"country" default:"CH"`
		Lat     float64 `fig:"lat" check:"min=-90,max=90"`
		Lon     float64 `fig:"lon" check:"min=-180,max=180"`
	} `fig:"location"`

	Fonts struct {
		Regular string `fig:"regular" default:"DejaVuSans.ttf"`
		Bold    string `fig:"bold" default:"DejaVuSans-Bold.ttf"`
		Icons   string `fig:"icons"`
	} `fig:"fonts"`

	Icons struct {
		// Allowed values: font, remote, builtin, none
		Source string  `fig:"source" default:"builtin" check:"oneof=font remote builtin none"`
		URL    string  `fig:"url" default:"https://openweathermap.org/img/wn/%s@2x.png"`
		Rate   float64 `fig:"rate" default:"2" check:"gt=0"`
	} `fig:"icons"`

	Night struct {
		// Allowed values: window, sun, off
		Mode     string `fig:"mode" default:"window" check:"oneof=window sun off"`
		DayStart int    `fig:"day_start" default:"6" check:"min=0,max=23"`
		DayEnd   int    `fig:"day_end" default:"20" check:"min=0,max=23"`
	} `fig:"night"`
}

// NewFlagSet declares the command line overrides understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.String("city", "", "city name")
	fs.String("country", "", "ISO country code")
	fs.Float64("lat", 0, "latitude")
	fs.Float64("lon", 0, "longitude")
	fs.StringP("output", "o", "", "output PNG path")
	fs.String("locale", "", "language for descriptions and labels")
	fs.String("mode", "", "API shape: current, forecast or onecall")
	fs.String("input-dir", "", "read payloads from this directory instead of the API")
	return fs
}

// Load reads the optional config file named by --config, the environment and
// the changed flags of fs, in increasing order of precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	var (
		conf *Config
		err  error
	)
	file, _ := fs.GetString("config")
	if file != "" {
		conf, err = load(filepath.Dir(file), filepath.Base(file))
	} else {
		conf, err = load("", "")
	}
	if err != nil {
		return conf, err
	}
	if err = conf.ApplyFlags(fs); err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}

// newFromEnv loads the configuration from the environment only.
func newFromEnv() (*Config, error) {
	conf, err := load("", "")
	if err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}

func newFromFile(path, file string) (*Config, error) {
	conf, err := load(path, file)
	if err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}

func load(path, file string) (*Config, error) {
	conf := new(Config)
	if file == "" {
		if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
			return conf, fmt.Errorf("failed to load config: %w", err)
		}
		return conf, nil
	}
	if _, err := os.Stat(filepath.Join(path, file)); err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}
	if err := fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}
	if conf.APIKey == "" {
		// an empty WEATHERINK_API_KEY does not unset the key from the file
		fileOnly := new(Config)
		if err := fig.Load(fileOnly, fig.Dirs(path), fig.File(file)); err != nil {
			return conf, fmt.Errorf("failed to load config: %w", err)
		}
		conf.APIKey = fileOnly.APIKey
	}
	return conf, nil
}

// ApplyFlags copies every flag the user actually set onto c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "city":
			c.Location.City = f.Value.String()
		case "country":
			c.Location.Country = f.Value.String()
		case "lat":
			c.Location.Lat, err = fs.GetFloat64("lat")
		case "lon":
			c.Location.Lon, err = fs.GetFloat64("lon")
		case "output":
			c.Output = f.Value.String()
		case "locale":
			c.Locale = f.Value.String()
		case "mode":
			c.Mode = f.Value.String()
		case "input-dir":
			c.InputDir = f.Value.String()
		}
	})
	if err != nil {
		return fmt.Errorf("failed to apply flags: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(legacyKeyEnv)
	}
	if c.APIKey == "" {
		return &ConfigError{Field: "api_key", Err: ErrMissingAPIKey}
	}

	validate := validator.New()
	validate.SetTagName("check")
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ConfigError{
				Field: fe.Namespace(),
				Err:   fmt.Errorf("value %v fails %q constraint", fe.Value(), fe.ActualTag()),
			}
		}
		return &ConfigError{Field: "config", Err: err}
	}

	if c.Night.DayStart > c.Night.DayEnd {
		return &ConfigError{
			Field: "night.day_start",
			Err:   fmt.Errorf("day start %d is after day end %d", c.Night.DayStart, c.Night.DayEnd),
		}
	}
	if !c.UseCoordinates() && c.Location.City == "" {
		return &ConfigError{Field: "location", Err: errors.New("either a city or coordinates are required")}
	}
	if c.Icons.Source == "remote" && !strings.Contains(c.Icons.URL, "%s") {
		return &ConfigError{Field: "icons.url", Err: errors.New("URL template needs a %s placeholder for the icon code")}
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}

	return nil
}

// UseCoordinates reports whether lat/lon take precedence over the city name.
func (c *Config) UseCoordinates() bool {
	return c.Location.Lat != 0 || c.Location.Lon != 0
}

// LocationLabel is the name shown when the payload carries none.
func (c *Config) LocationLabel() string {
	if c.UseCoordinates() {
		return fmt.Sprintf("%.2f, %.2f", c.Location.Lat, c.Location.Lon)
	}
	return c.Location.City
}

func GetApplicationInsightsInstrumentationKey() string {
	return os.Getenv("APPLICATIONINSIGHTS_INSTRUMENTATION_KEY")
}

func getLocale() string {
	tag, err := locale.Detect()
	if err != nil {
		return "en"
	}
	return tag.String()
}
