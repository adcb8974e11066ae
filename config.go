package sessionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"gopkg.in/yaml.v3"

	"github.com/youssefsiam38/sessionlog/compaction"
	"github.com/youssefsiam38/sessionlog/hooks"
)

// config holds the resolved configuration for a Session. It is built from
// functional options and validated before use.
type config struct {
	client     *anthropic.Client
	registry   *ModelRegistry
	compaction *compaction.Config
	hooks      *hooks.Registry
	logger     compaction.Logger
}

func defaultConfig() *config {
	return &config{
		registry: DefaultModelRegistry(),
		compaction: &compaction.Config{
			Model:     compaction.DefaultModel,
			MaxTokens: compaction.DefaultMaxTokens,
			Timeout:   compaction.DefaultTimeout,
		},
		logger: compaction.NopLogger(),
	}
}

func (c *config) validate() error {
	if err := c.compaction.Validate(); err != nil {
		return err
	}
	if c.compaction.Enabled() && c.compaction.Summarizer == nil && c.client == nil {
		return fmt.Errorf("%w: compaction requires an Anthropic client or a custom summarizer", ErrInvalidConfig)
	}
	return nil
}

// resolveSummarizer fills in the LLM-backed summarizer when compaction is
// enabled and no custom summarizer was provided.
func (c *config) resolveSummarizer() {
	if !c.compaction.Enabled() || c.compaction.Summarizer != nil {
		return
	}
	c.compaction.ApplyDefaults()
	if info, ok := c.registry.Lookup(c.compaction.Model); ok && c.compaction.MaxTokens > info.DefaultMaxTokens {
		c.compaction.MaxTokens = info.DefaultMaxTokens
	}
	c.compaction.Summarizer = compaction.NewLLMSummarizer(
		c.client,
		c.compaction.Model,
		c.compaction.MaxTokens,
		c.compaction.Prompt,
	)
}

// FileConfig is the YAML representation of session settings. Values from a
// project-level file override values from the home-level file, and options
// passed to New override both.
type FileConfig struct {
	CompactionInterval int    `yaml:"compaction_interval"`
	OverlapSize        int    `yaml:"overlap_size"`
	Model              string `yaml:"model,omitempty"`
	MaxTokens          int    `yaml:"max_tokens,omitempty"`
	SummaryPrompt      string `yaml:"summary_prompt,omitempty"`
	TimeoutSeconds     int    `yaml:"timeout_seconds,omitempty"`
}

const configFileName = "sessionlog.yaml"

// LoadFileConfig reads configuration from ~/.config/sessionlog/sessionlog.yaml
// and ./sessionlog.yaml, merging project values over home values. Missing
// files are not an error.
func LoadFileConfig() (*FileConfig, error) {
	cfg := &FileConfig{}

	if home, err := os.UserHomeDir(); err == nil {
		if err := mergeFileConfig(cfg, filepath.Join(home, ".config", "sessionlog", configFileName)); err != nil {
			return nil, err
		}
	}
	if err := mergeFileConfig(cfg, configFileName); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFileConfigFrom reads configuration from a single explicit path.
func LoadFileConfigFrom(path string) (*FileConfig, error) {
	cfg := &FileConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config file: %v", ErrInvalidConfig, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config file %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func mergeFileConfig(cfg *FileConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: reading config file %s: %v", ErrInvalidConfig, path, err)
	}

	var layer FileConfig
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return fmt.Errorf("%w: parsing config file %s: %v", ErrInvalidConfig, path, err)
	}

	if layer.CompactionInterval != 0 {
		cfg.CompactionInterval = layer.CompactionInterval
	}
	if layer.OverlapSize != 0 {
		cfg.OverlapSize = layer.OverlapSize
	}
	if layer.Model != "" {
		cfg.Model = layer.Model
	}
	if layer.MaxTokens != 0 {
		cfg.MaxTokens = layer.MaxTokens
	}
	if layer.SummaryPrompt != "" {
		cfg.SummaryPrompt = layer.SummaryPrompt
	}
	if layer.TimeoutSeconds != 0 {
		cfg.TimeoutSeconds = layer.TimeoutSeconds
	}
	return nil
}

// Options converts the file configuration into functional options, suitable
// for passing to New ahead of programmatic overrides.
func (fc *FileConfig) Options() []Option {
	var opts []Option
	if fc.CompactionInterval != 0 {
		opts = append(opts, WithCompactionInterval(fc.CompactionInterval))
	}
	if fc.OverlapSize != 0 {
		opts = append(opts, WithOverlapSize(fc.OverlapSize))
	}
	if fc.Model != "" {
		opts = append(opts, WithSummarizerModel(fc.Model))
	}
	if fc.MaxTokens != 0 {
		opts = append(opts, WithSummarizerMaxTokens(fc.MaxTokens))
	}
	if fc.SummaryPrompt != "" {
		opts = append(opts, WithSummaryPrompt(fc.SummaryPrompt))
	}
	if fc.TimeoutSeconds != 0 {
		opts = append(opts, WithSummarizationTimeout(time.Duration(fc.TimeoutSeconds)*time.Second))
	}
	return opts
}
