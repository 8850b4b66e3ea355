package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// FieldsConfig selects which documentation fields are ported.
	FieldsConfig struct {
		TypeSummaries      bool `yaml:"type_summaries"`
		TypeRemarks        bool `yaml:"type_remarks"`
		TypeParams         bool `yaml:"type_params"`
		TypeTypeParams     bool `yaml:"type_type_params"`
		MemberSummaries    bool `yaml:"member_summaries"`
		MemberRemarks      bool `yaml:"member_remarks"`
		MemberParams       bool `yaml:"member_params"`
		MemberTypeParams   bool `yaml:"member_type_params"`
		MemberReturns      bool `yaml:"member_returns"`
		MemberProperties   bool `yaml:"member_properties"`
		ExceptionsExisting bool `yaml:"exceptions_existing"`
		ExceptionsNew      bool `yaml:"exceptions_new"`
	}

	PortingConfig struct {
		Fields                       FieldsConfig `yaml:"fields"`
		ExceptionCollisionThreshold  int          `yaml:"exception_collision_threshold" validate:"min=1,max=100"`
		SkipInterfaceImplementations bool         `yaml:"skip_interface_implementations"`
		SkipInterfaceRemarks         bool         `yaml:"skip_interface_remarks"`
		SkipRemarks                  bool         `yaml:"skip_remarks"`
		Save                         bool         `yaml:"save"`
		PrintUndoc                   bool         `yaml:"print_undoc"`
		PrintSummaryDetails          bool         `yaml:"print_summary_details"`
	}

	// FiltersConfig limits set of Docs types taking part in porting. All
	// matching is done by prefix, type names are matched exactly.
	FiltersConfig struct {
		IncludedAssemblies []string `yaml:"included_assemblies" validate:"dive,required"`
		ExcludedAssemblies []string `yaml:"excluded_assemblies" validate:"dive,required"`
		IncludedNamespaces []string `yaml:"included_namespaces" validate:"dive,required"`
		ExcludedNamespaces []string `yaml:"excluded_namespaces" validate:"dive,required"`
		IncludedTypes      []string `yaml:"included_types" validate:"dive,required"`
		ExcludedTypes      []string `yaml:"excluded_types" validate:"dive,required"`
	}

	IntelliSenseConfig struct {
		// Subdirectories of build output which never contain IntelliSense
		// files we are interested in.
		ForbiddenSubdirectories []string `yaml:"forbidden_subdirectories" validate:"dive,required"`
	}

	SourceConfig struct {
		Include []string `yaml:"include" validate:"dive,required"`
		Exclude []string `yaml:"exclude" validate:"dive,required"`
	}

	Config struct {
		Version      int                `yaml:"version" validate:"eq=1"`
		Porting      PortingConfig      `yaml:"porting"`
		Filters      FiltersConfig      `yaml:"filters"`
		IntelliSense IntelliSenseConfig `yaml:"intellisense"`
		Source       SourceConfig       `yaml:"source"`
		Logging      LoggingConfig      `yaml:"logging"`
		Reporting    ReporterConfig     `yaml:"reporting"`
	}
)

var ErrNoAssemblies = errors.New("at least one included assembly must be specified")

// Check verifies that filters describe something to port. Assemblies usually
// come from command line so this cannot be expressed with validation tags.
func (f *FiltersConfig) Check() error {
	if len(f.IncludedAssemblies) == 0 {
		return ErrNoAssemblies
	}
	return nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Verify re-checks configuration after command line values were applied.
func (cfg *Config) Verify() error {
	if err := gencfg.Validate(cfg); err != nil {
		return err
	}
	return cfg.Filters.Check()
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
