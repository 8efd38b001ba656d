// Package config handles configuration loading and validation for the
// fairsearch CLI. Precedence: defaults, then the optional YAML file, then
// environment variables.
package config

// #region imports
import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// #endregion

// #region config

// Config holds all application configuration.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Search    SearchConfig    `yaml:"search"`
	Selection SelectionConfig `yaml:"selection"`
	Results   ResultsConfig   `yaml:"results"`

	// Grid maps hyperparameter names to candidate values. YAML only; there is
	// no sane env encoding for a value-list map.
	Grid map[string][]float64 `yaml:"grid" ignored:"true"`
}

// DatasetConfig locates the labeled table and its designated columns.
type DatasetConfig struct {
	Path               string  `envconfig:"FAIRSEARCH_DATASET" yaml:"path"`
	OutcomeColumn      string  `envconfig:"FAIRSEARCH_OUTCOME_COLUMN" yaml:"outcome_column"`
	ProtectedAttribute string  `envconfig:"FAIRSEARCH_PROTECTED_ATTRIBUTE" yaml:"protected_attribute"`
	Privileged         float64 `envconfig:"FAIRSEARCH_PRIVILEGED" yaml:"privileged"`
	Unprivileged       float64 `envconfig:"FAIRSEARCH_UNPRIVILEGED" yaml:"unprivileged"`
}

// SearchConfig holds evaluation settings.
type SearchConfig struct {
	Estimator string `envconfig:"FAIRSEARCH_ESTIMATOR" yaml:"estimator"`
	Folds     int    `envconfig:"FAIRSEARCH_FOLDS" yaml:"folds"`
	Metric    string `envconfig:"FAIRSEARCH_METRIC" yaml:"metric"`
	Workers   int    `envconfig:"FAIRSEARCH_WORKERS" yaml:"workers"`
}

// SelectionConfig picks the policy applied after evaluation.
type SelectionConfig struct {
	Policy    string `envconfig:"FAIRSEARCH_POLICY" yaml:"policy"`
	Threshold int    `envconfig:"FAIRSEARCH_THRESHOLD" yaml:"threshold"`
}

// ResultsConfig holds persistence settings.
type ResultsConfig struct {
	DBPath string `envconfig:"FAIRSEARCH_DB" yaml:"db_path"`
}

// #endregion

// #region load

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Search = SearchConfig{
		Estimator: "logistic",
		Folds:     5,
		Metric:    "disparate_impact",
		Workers:   1,
	}
	cfg.Selection = SelectionConfig{
		Policy:    "balanced",
		Threshold: 1,
	}
	cfg.Results = ResultsConfig{
		DBPath: "fairsearch.db",
	}
}

// #endregion

// #region validate

// Validate validates the configuration, collecting every problem.
func (c *Config) Validate() error {
	var errs []string

	if c.Dataset.Path == "" {
		errs = append(errs, "dataset path is required")
	}
	if c.Dataset.OutcomeColumn == "" {
		errs = append(errs, "outcome_column is required")
	}
	if c.Dataset.ProtectedAttribute == "" {
		errs = append(errs, "protected_attribute is required")
	}
	if c.Dataset.Privileged == c.Dataset.Unprivileged {
		errs = append(errs, "privileged and unprivileged values must differ")
	}

	validEstimators := map[string]bool{"logistic": true, "knn": true}
	if !validEstimators[c.Search.Estimator] {
		errs = append(errs, fmt.Sprintf("invalid estimator: %s (must be logistic or knn)", c.Search.Estimator))
	}

	if c.Search.Folds < 2 {
		errs = append(errs, "folds must be at least 2")
	}

	validMetrics := map[string]bool{"disparate_impact": true, "statistical_parity": true}
	if !validMetrics[c.Search.Metric] {
		errs = append(errs, fmt.Sprintf("invalid metric: %s (must be disparate_impact or statistical_parity)", c.Search.Metric))
	}

	if c.Search.Workers < 0 {
		errs = append(errs, "workers must be non-negative")
	}

	validPolicies := map[string]bool{"highest_accuracy": true, "least_biased": true, "balanced": true}
	if !validPolicies[c.Selection.Policy] {
		errs = append(errs, fmt.Sprintf("invalid policy: %s (must be highest_accuracy, least_biased, or balanced)", c.Selection.Policy))
	}

	if c.Selection.Policy == "balanced" && c.Selection.Threshold < 1 {
		errs = append(errs, "balanced policy needs threshold >= 1")
	}

	if len(c.Grid) == 0 {
		errs = append(errs, "grid must declare at least one parameter")
	}
	for name, vals := range c.Grid {
		if len(vals) == 0 {
			errs = append(errs, fmt.Sprintf("grid parameter %q has no values", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// #endregion
