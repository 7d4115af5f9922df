package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

// ErrMissingCredential is returned when the credential variable is unset or blank.
var ErrMissingCredential = errors.New("credential environment variable not set")

// Dataset maps a dataset name to its input file.
type Dataset struct {
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path"`
}

// Global configuration structure.
type Global struct {
	ResultsDir    string `mapstructure:"results_dir" yaml:"results_dir"`
	CredentialEnv string `mapstructure:"credential_env" yaml:"credential_env"`
	// CSV reading
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Decimal   string `mapstructure:"decimal" yaml:"decimal"`
	Thousands string `mapstructure:"thousands" yaml:"thousands"`
	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	// Datasets are processed in list order.
	Datasets []Dataset `mapstructure:"datasets" yaml:"datasets"`
}

// DefaultPath returns ~/.autolysis/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".autolysis", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.autolysis/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing default
// ".env" is not an error; a missing explicit path is.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOLYSIS")
	v.AutomaticEnv()

	v.SetDefault("results_dir", "results")
	v.SetDefault("credential_env", "AIPROXY_TOKEN")
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal", ".")
	v.SetDefault("thousands", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate checks dataset entries and reading options.
func (c *Global) Validate() error {
	var errs []error
	seen := map[string]struct{}{}
	for i, d := range c.Datasets {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("datasets[%d]: empty name", i))
			continue
		}
		if name != d.Name || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			errs = append(errs, fmt.Errorf("datasets[%d]: invalid name %q", i, d.Name))
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("datasets[%d]: duplicate name %q", i, name))
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(d.Path) == "" {
			errs = append(errs, fmt.Errorf("datasets[%d]: empty path for %q", i, name))
		}
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseDecimal(c.Decimal); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseThousands(c.Thousands); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SetDataset adds name → path, or replaces the path in place when name exists.
func (c *Global) SetDataset(name, path string) {
	for i := range c.Datasets {
		if c.Datasets[i].Name == name {
			c.Datasets[i].Path = path
			return
		}
	}
	c.Datasets = append(c.Datasets, Dataset{Name: name, Path: path})
}

// LoadOptions converts the CSV reading keys into loader options.
func (c *Global) LoadOptions() (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	var err error
	if opt.Delimiter, err = ParseDelimiter(c.Delimiter); err != nil {
		return opt, err
	}
	if opt.DecimalSeparator, err = ParseDecimal(c.Decimal); err != nil {
		return opt, err
	}
	if opt.ThousandsSeparator, err = ParseThousands(c.Thousands); err != nil {
		return opt, err
	}
	if opt.DecimalSeparator == opt.ThousandsSeparator {
		return opt, fmt.Errorf("decimal and thousands separators must differ")
	}
	return opt, nil
}

// RequireCredential returns the value of envName or ErrMissingCredential.
func RequireCredential(envName string) (string, error) {
	if envName == "" {
		return "", fmt.Errorf("%w: no variable name configured", ErrMissingCredential)
	}
	v := strings.TrimSpace(os.Getenv(envName))
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingCredential, envName)
	}
	return v, nil
}

// ParseDelimiter maps ",", ";", "tab" (or a literal tab) to a rune; "" means auto.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'tab'|'pipe')", s)
	}
}

// ParseDecimal accepts "." / "dot" and "," / "comma".
func ParseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ".", "dot":
		return '.', nil
	case ",", "comma":
		return ',', nil
	default:
		return 0, fmt.Errorf("unsupported decimal separator: %q (use '.'|'comma')", s)
	}
}

// ParseThousands accepts ",", ".", "space", or "" for none.
func ParseThousands(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case "space", " ":
		return ' ', nil
	default:
		return 0, fmt.Errorf("unsupported thousands separator: %q (use ','|'.'|'space')", s)
	}
}
