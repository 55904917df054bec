package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnsupported is returned for file operations that have no serializer
// registered for the file's extension.
var ErrUnsupported = fmt.Errorf("unsupported configuration operation: %w", errors.ErrUnsupported)

// Loader produces configurations from the supported sources.
type Loader interface {
	// LoadFromCommandLine parses args, excluding the program name. It
	// returns nil and no error when usage help was requested.
	LoadFromCommandLine(args []string) (*InferenceConfig, error)
	LoadFromEnvironment() *InferenceConfig
	LoadFromFile(path string) (*InferenceConfig, error)
	CreateDefault() *InferenceConfig
}

// Validator checks a configuration.
type Validator interface {
	Validate(c *InferenceConfig) bool
	ValidationErrors(c *InferenceConfig) []string
}

// Serializer reads and writes configuration files of one format.
type Serializer interface {
	Load(path string) (*InferenceConfig, error)
	Save(path string, c *InferenceConfig) error
}

// DefaultLoader reads the command line with pflag and the environment from
// INFERENCE_* variables. It cannot read files.
type DefaultLoader struct {
	// Usage receives the help text. Nil means standard error.
	Usage io.Writer
}

var _ Loader = (*DefaultLoader)(nil)

// LoadFromCommandLine parses the inference flags in args.
func (l *DefaultLoader) LoadFromCommandLine(args []string) (*InferenceConfig, error) {
	return loadFromCommandLine(args, l.Usage)
}

// LoadFromEnvironment reads INFERENCE_* variables over the defaults.
func (l *DefaultLoader) LoadFromEnvironment() *InferenceConfig {
	return loadFromEnvironment()
}

// LoadFromFile always fails with ErrUnsupported.
func (l *DefaultLoader) LoadFromFile(path string) (*InferenceConfig, error) {
	return nil, fmt.Errorf("cannot load %s: %w", path, ErrUnsupported)
}

// CreateDefault returns Default().
func (l *DefaultLoader) CreateDefault() *InferenceConfig {
	return Default()
}

// DefaultValidator accepts a configuration with no ValidationErrors.
type DefaultValidator struct{}

var _ Validator = DefaultValidator{}

// Validate reports whether c has no validation errors.
func (DefaultValidator) Validate(c *InferenceConfig) bool {
	return len(c.ValidationErrors()) == 0
}

// ValidationErrors returns c.ValidationErrors().
func (DefaultValidator) ValidationErrors(c *InferenceConfig) []string {
	return c.ValidationErrors()
}

// Manager loads, validates, merges and prints configurations. The loader
// and validator can be swapped; file formats are added with
// RegisterSerializer.
type Manager struct {
	mu          sync.RWMutex
	loader      Loader
	validator   Validator
	serializers map[string]Serializer
}

// NewManager returns a Manager using DefaultLoader and DefaultValidator.
func NewManager() *Manager {
	return &Manager{
		loader:      &DefaultLoader{},
		validator:   DefaultValidator{},
		serializers: make(map[string]Serializer),
	}
}

// SetLoader replaces the loader. Nil restores DefaultLoader.
func (m *Manager) SetLoader(l Loader) {
	if l == nil {
		l = &DefaultLoader{}
	}
	m.mu.Lock()
	m.loader = l
	m.mu.Unlock()
}

// SetValidator replaces the validator. Nil restores DefaultValidator.
func (m *Manager) SetValidator(v Validator) {
	if v == nil {
		v = DefaultValidator{}
	}
	m.mu.Lock()
	m.validator = v
	m.mu.Unlock()
}

func (m *Manager) getLoader() Loader {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loader
}

func (m *Manager) getValidator() Validator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.validator
}

// LoadFromCommandLine parses args, excluding the program name.
func (m *Manager) LoadFromCommandLine(args []string) (*InferenceConfig, error) {
	return m.getLoader().LoadFromCommandLine(args)
}

// CreateFromArguments is LoadFromCommandLine for callers that build the
// argument list themselves.
func (m *Manager) CreateFromArguments(args []string) (*InferenceConfig, error) {
	return m.LoadFromCommandLine(args)
}

// LoadFromEnvironment reads the configuration from the environment.
func (m *Manager) LoadFromEnvironment() *InferenceConfig {
	return m.getLoader().LoadFromEnvironment()
}

// LoadFromFile loads path with the serializer registered for its extension,
// falling back to the loader.
func (m *Manager) LoadFromFile(path string) (*InferenceConfig, error) {
	if s, ok := m.serializer(path); ok {
		return s.Load(path)
	}
	return m.getLoader().LoadFromFile(path)
}

// SaveToFile writes c with the serializer registered for the extension of
// path.
func (m *Manager) SaveToFile(path string, c *InferenceConfig) error {
	s, ok := m.serializer(path)
	if !ok {
		return fmt.Errorf("cannot save %s: %w", path, ErrUnsupported)
	}
	return s.Save(path, c)
}

// CreateDefault returns the loader's default configuration.
func (m *Manager) CreateDefault() *InferenceConfig {
	return m.getLoader().CreateDefault()
}

// RegisterSerializer handles files ending in ext (with or without the dot,
// case-insensitive) with s. A later registration replaces an earlier one.
func (m *Manager) RegisterSerializer(ext string, s Serializer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serializers[normalizeExt(ext)] = s
}

func (m *Manager) serializer(path string) (Serializer, bool) {
	ext := normalizeExt(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.serializers[ext]
	return s, ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ValidateConfig reports whether c passes the validator.
func (m *Manager) ValidateConfig(c *InferenceConfig) bool {
	return m.getValidator().Validate(c)
}

// GetValidationErrors returns the validator's messages joined by "; ".
func (m *Manager) GetValidationErrors(c *InferenceConfig) string {
	return strings.Join(m.getValidator().ValidationErrors(c), "; ")
}

// Merge returns a new configuration holding base overlaid with every field
// of override that differs from its default. Booleans always come from
// override. Custom parameters are combined, override winning on conflict.
// Neither argument is modified.
func (m *Manager) Merge(base, override *InferenceConfig) *InferenceConfig {
	if base == nil {
		base = Default()
	}
	merged := base.Clone()
	if override == nil {
		return merged
	}

	setString := func(dst *string, v, def string) {
		if v != "" && v != def {
			*dst = v
		}
	}
	setInt := func(dst *int, v, def int) {
		if v != def {
			*dst = v
		}
	}
	setFloat := func(dst *float32, v, def float32) {
		if v != def {
			*dst = v
		}
	}

	setString(&merged.ServerAddress, override.ServerAddress, DefaultServerAddress)
	setInt(&merged.Port, override.Port, DefaultPort)
	setString(&merged.Protocol, override.Protocol, DefaultProtocol)
	setString(&merged.ModelName, override.ModelName, "")
	setString(&merged.ModelVersion, override.ModelVersion, "")
	setString(&merged.ModelType, override.ModelType, "")
	setString(&merged.Source, override.Source, "")
	setString(&merged.LabelsFile, override.LabelsFile, "")
	if len(override.InputSizes) > 0 {
		merged.InputSizes = override.Clone().InputSizes
	}
	setInt(&merged.BatchSize, override.BatchSize, DefaultBatchSize)
	setFloat(&merged.ConfidenceThreshold, override.ConfidenceThreshold, DefaultConfidenceThreshold)
	setFloat(&merged.NMSThreshold, override.NMSThreshold, DefaultNMSThreshold)
	setInt(&merged.NumThreads, override.NumThreads, DefaultNumThreads)
	setString(&merged.SharedMemoryType, override.SharedMemoryType, DefaultSharedMemoryType)
	setInt(&merged.CUDADeviceID, override.CUDADeviceID, 0)
	setString(&merged.LogLevel, override.LogLevel, DefaultLogLevel)
	setString(&merged.LogFile, override.LogFile, "")
	setString(&merged.TextInput, override.TextInput, "")
	setString(&merged.AudioInput, override.AudioInput, "")
	setString(&merged.TextPrompt, override.TextPrompt, "")
	setString(&merged.ModalityCombination, override.ModalityCombination, DefaultModalityCombination)
	setFloat(&merged.TextWeight, override.TextWeight, DefaultModalityWeight)
	setFloat(&merged.ImageWeight, override.ImageWeight, DefaultModalityWeight)
	setFloat(&merged.AudioWeight, override.AudioWeight, DefaultModalityWeight)

	merged.ShowFrame = override.ShowFrame
	merged.WriteFrame = override.WriteFrame
	merged.Verbose = override.Verbose
	merged.EnableAsync = override.EnableAsync
	merged.EnableMultimodal = override.EnableMultimodal

	for k, v := range override.Custom {
		merged.SetCustomParam(k, v)
	}

	return merged
}

// PrintConfig writes a human readable summary of c to w. Optional sections
// are only printed when they apply.
func (m *Manager) PrintConfig(w io.Writer, c *InferenceConfig) {
	if w == nil {
		w = os.Stdout
	}
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	p("Configuration:")
	p("  Server: %s:%d (%s)", c.ServerAddress, c.Port, c.Protocol)
	p("  Model: %s (%s)", c.ModelName, c.ModelType)
	p("  Source: %s", c.Source)
	p("  Labels: %s", c.LabelsFile)
	p("  Batch Size: %d", c.BatchSize)
	p("  Show Frame: %t", c.ShowFrame)
	p("  Write Frame: %t", c.WriteFrame)
	p("  Confidence Threshold: %v", c.ConfidenceThreshold)
	p("  NMS Threshold: %v", c.NMSThreshold)
	p("  Verbose: %t", c.Verbose)
	p("  Shared Memory Type: %s", c.SharedMemoryType)
	if c.SharedMemoryType == "cuda" {
		p("  CUDA Device ID: %d", c.CUDADeviceID)
	}
	p("  Log Level: %s", c.LogLevel)
	if c.LogFile != "" {
		p("  Log File: %s", c.LogFile)
	}
	if c.EnableMultimodal {
		p("  Multimodal: enabled")
		if c.TextInput != "" {
			p("  Text Input: %s", c.TextInput)
		}
		if c.AudioInput != "" {
			p("  Audio Input: %s", c.AudioInput)
		}
		if c.TextPrompt != "" {
			p("  Text Prompt: %s", c.TextPrompt)
		}
		p("  Modality Combination: %s", c.ModalityCombination)
		p("  Weights - Text: %v, Image: %v, Audio: %v", c.TextWeight, c.ImageWeight, c.AudioWeight)
	}
}
