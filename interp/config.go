package interp

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const ConfigFile = "lumen.yaml"

// Config is the project file. Command-line flags override it.
type Config struct {
	Package  string   `yaml:"Package"`
	Language string   `yaml:"Language,omitempty"`
	Requires string   `yaml:"Requires,omitempty"`
	LogLevel string   `yaml:"LogLevel,omitempty"`
	MaxDepth int      `yaml:"MaxDepth,omitempty"`
	Memoize  bool     `yaml:"Memoize,omitempty"`
	Deny     []string `yaml:"Deny,omitempty"`
	Encoding string   `yaml:"Encoding,omitempty"`
}

// FindConfig looks for the project file in dir and its parents. It returns
// an empty path when there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", tracerr.Wrap(err)
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, tracerr.Errorf("error reading %s: %v", path, err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	plog.Debugf("loaded %s for package %q", path, cfg.Package)
	return &cfg, nil
}

// Check validates the Requires constraint against this interpreter's
// version and the named language against the catalogue.
func (c *Config) Check() error {
	if c.Requires != "" {
		constraint, err := semver.NewConstraint(c.Requires)
		if err != nil {
			return tracerr.Errorf("invalid Requires %q: %v", c.Requires, err)
		}
		if ok, reasons := constraint.Validate(semver.MustParse(Version)); !ok {
			return tracerr.Errorf("package %s requires lumen %s, this is %s: %v", c.Package, c.Requires, Version, reasons)
		}
	}
	if c.Language != "" {
		if _, ok := Lookup(c.Language); !ok {
			return tracerr.Errorf("unknown language %q", c.Language)
		}
	}
	if c.MaxDepth < 0 {
		return tracerr.Errorf("MaxDepth must not be negative")
	}
	return nil
}

func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return out, nil
}

// WriteConfig writes a new project file into dir and refuses to overwrite
// an existing one.
func WriteConfig(dir string, c *Config) (string, error) {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return "", tracerr.Errorf("%s already exists", path)
	}
	out, err := c.Marshal()
	if err != nil {
		return "", err
	}
	if err := ioutil.WriteFile(path, out, 0o644); err != nil {
		return "", tracerr.Wrap(err)
	}
	return path, nil
}
