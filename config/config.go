// Package config assembles the run configuration from command-line flags,
// an optional YAML parameter file, a .env file and SPDC_ environment
// variables.
//
// Precedence, lowest first: built-in defaults, YAML file, environment
// (including .env), explicit flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/AnkushinDaniil/spdc/entity/format"
	"github.com/AnkushinDaniil/spdc/entity/mode"
	"github.com/AnkushinDaniil/spdc/entity/parameters"
	"github.com/AnkushinDaniil/spdc/spdc"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SPDC_"

const (
	DefaultOutput   = "coincidence_rate"
	DefaultFormats  = "html"
	DefaultAddr     = ":8080"
	DefaultLogLevel = "info"
	DefaultEnvFile  = ".env"
)

type Config struct {
	Mode    mode.Mode
	Formats []format.Format
	// Output is the path of the written files without extension.
	Output string
	// Input is the parameter workbook read in batch mode.
	Input    string
	Addr     string
	LogLevel log.Level
	Samples  int
	Floor    float64
	Params   parameters.Parameters
}

// SimulateOptions converts the sweep settings for spdc.Simulate.
func (c Config) SimulateOptions() []spdc.Option {
	return []spdc.Option{spdc.WithSamples(c.Samples), spdc.WithFloor(c.Floor)}
}

func (c Config) Validate() error {
	if c.Samples < 2 {
		return fmt.Errorf("samples must be at least 2, got %d", c.Samples)
	}
	if !(c.Floor > 0) {
		return fmt.Errorf("floor must be positive, got %g", c.Floor)
	}
	switch c.Mode {
	case mode.Batch:
		if c.Input == "" {
			return errors.New("batch mode needs -input")
		}
	default:
		if err := c.Params.Validate(); err != nil {
			return fmt.Errorf("invalid parameters: %w", err)
		}
	}
	return nil
}

// Load parses args (without the program name) and resolves every
// setting. Usage and flag errors are written to errOut.
func Load(programName string, args []string, errOut io.Writer) (Config, error) {
	flags := flag.NewFlagSet(programName, flag.ContinueOnError)
	flags.SetOutput(errOut)

	defaults := parameters.Default()
	modeText := flags.String("mode", mode.Curve.String(), "run mode: curve, batch or serve")
	formatText := flags.String("format", DefaultFormats, "comma separated output formats: html, png, csv, pdf, xlsx")
	output := flags.String("output", DefaultOutput, "output path without extension")
	input := flags.String("input", "", "parameter workbook for batch mode")
	addr := flags.String("addr", DefaultAddr, "listen address in serve mode")
	logLevel := flags.String("log-level", DefaultLogLevel, "log level")
	samples := flags.Int("samples", spdc.DefaultSamples, "number of waists in the sweep")
	floor := flags.Float64("floor", spdc.DefaultFloor, "smallest swept waist in µm")
	paramsFile := flags.String("params", "", "YAML parameter file")
	envFile := flags.String("env", DefaultEnvFile, "dotenv file, ignored when missing")
	normalized := flags.Bool(parameters.NormalizedKey, defaults.Normalized, "normalize brightness and power to 1")

	values := make(map[string]*float64)
	for _, s := range parameters.Specs() {
		values[s.Key] = flags.Float64(s.Key, s.Get(defaults), fmt.Sprintf("%s [%g, %g]", s.Label, s.Min, s.Max))
	}

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(*envFile); err != nil {
		return Config{}, err
	}

	params := defaults
	if *paramsFile != "" {
		var err error
		if params, err = ReadParams(*paramsFile, params); err != nil {
			return Config{}, err
		}
	}

	var errs []error
	for _, s := range parameters.Specs() {
		if isFlagSet(flags, s.Key) {
			s.Set(&params, *values[s.Key])
		} else if v, ok, err := getEnvFloat(s.Key); err != nil {
			errs = append(errs, err)
		} else if ok {
			s.Set(&params, v)
		}
	}
	if isFlagSet(flags, parameters.NormalizedKey) {
		params.Normalized = *normalized
	} else if v, ok, err := getEnvBool(parameters.NormalizedKey); err != nil {
		errs = append(errs, err)
	} else if ok {
		params.Normalized = v
	}

	cfg := Config{
		Output: resolveString(flags, "output", *output),
		Input:  resolveString(flags, "input", *input),
		Addr:   resolveString(flags, "addr", *addr),
		Params: params,
	}

	var err error
	if cfg.Mode, err = mode.UnmarshalText(resolveString(flags, "mode", *modeText)); err != nil {
		errs = append(errs, err)
	}
	if cfg.Formats, err = format.ParseList(resolveString(flags, "format", *formatText)); err != nil {
		errs = append(errs, err)
	}
	if cfg.LogLevel, err = log.ParseLevel(resolveString(flags, "log-level", *logLevel)); err != nil {
		errs = append(errs, err)
	}
	if cfg.Samples, err = strconv.Atoi(resolveString(flags, "samples", strconv.Itoa(*samples))); err != nil {
		errs = append(errs, fmt.Errorf("invalid samples: %w", err))
	}
	if cfg.Floor, err = strconv.ParseFloat(resolveString(flags, "floor", strconv.FormatFloat(*floor, 'g', -1, 64)), 64); err != nil {
		errs = append(errs, fmt.Errorf("invalid floor: %w", err))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadParams overlays the YAML file at path onto base. Keys missing from
// the file keep their base value.
func ReadParams(path string, base parameters.Parameters) (parameters.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read parameter file: %w", err)
	}
	params := base
	if err := yaml.Unmarshal(data, &params); err != nil {
		return base, fmt.Errorf("failed to parse parameter file %s: %w", path, err)
	}
	return params, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.WithField("file", path).Debug("No env file")
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	log.WithField("file", path).Debug("Env file loaded")
	return nil
}

// EnvName maps a flag name to its environment variable.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// resolveString returns the flag value when it was given explicitly, the
// environment value when set, and the flag default otherwise.
func resolveString(flags *flag.FlagSet, name, flagValue string) string {
	if isFlagSet(flags, name) {
		return flagValue
	}
	if v := os.Getenv(EnvName(name)); v != "" {
		return v
	}
	return flagValue
}

func getEnvFloat(key string) (float64, bool, error) {
	text := os.Getenv(EnvName(key))
	if text == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %w", EnvName(key), err)
	}
	return v, true, nil
}

func getEnvBool(key string) (bool, bool, error) {
	text := os.Getenv(EnvName(key))
	if text == "" {
		return false, false, nil
	}
	v, err := parameters.ParseBool(text)
	if err != nil {
		return false, false, fmt.Errorf("invalid %s: %w", EnvName(key), err)
	}
	return v, true, nil
}

func isFlagSet(flags *flag.FlagSet, name string) bool {
	found := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
