package fhe

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/haven-health-passport/chaincode/risk-scores/models"
)

// DefaultModelVersion is evaluated when no model is configured.
const DefaultModelVersion = "risk-v1"

//go:embed scoring/*.yaml
var scoringFS embed.FS

// ScoringModel describes the linear risk formula the coprocessor evaluates
// over the encrypted metrics. Weights are integers because the encrypted
// arithmetic works on integers.
type ScoringModel struct {
	Version     string           `yaml:"version" json:"version"`
	Description string           `yaml:"description" json:"description,omitempty"`
	Intercept   int64            `yaml:"intercept" json:"intercept"`
	Weights     map[string]int64 `yaml:"weights" json:"weights"`
}

// LoadModel reads an embedded scoring model by version.
func LoadModel(version string) (*ScoringModel, error) {
	if version == "" {
		version = DefaultModelVersion
	}

	raw, err := scoringFS.ReadFile("scoring/" + version + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown scoring model %q", version)
	}
	return ParseModel(raw)
}

// ParseModel decodes and validates a YAML scoring model.
func ParseModel(raw []byte) (*ScoringModel, error) {
	var m ScoringModel
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse scoring model: %v", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate requires a version and exactly one weight per metric.
func (m *ScoringModel) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("scoring model version is required")
	}
	for name := range m.Weights {
		if _, err := models.ParseMetric(name); err != nil {
			return fmt.Errorf("scoring model %s: %v", m.Version, err)
		}
	}
	for _, metric := range models.AllMetrics() {
		if _, ok := m.Weights[metric.String()]; !ok {
			return fmt.Errorf("scoring model %s: missing weight for %s", m.Version, metric)
		}
	}
	return nil
}

// Coefficients returns the weights in metric order.
func (m *ScoringModel) Coefficients() [models.MetricCount]int64 {
	var c [models.MetricCount]int64
	for _, metric := range models.AllMetrics() {
		c[metric] = m.Weights[metric.String()]
	}
	return c
}
