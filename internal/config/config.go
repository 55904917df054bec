package config

import (
	"strings"
)

// Defaults for fields whose zero value is not the default.
const (
	DefaultServerAddress       = "localhost"
	DefaultPort                = 8000
	DefaultProtocol            = "http"
	DefaultBatchSize           = 1
	DefaultConfidenceThreshold = float32(0.5)
	DefaultNMSThreshold        = float32(0.4)
	DefaultNumThreads          = 1
	DefaultSharedMemoryType    = "none"
	DefaultLogLevel            = "info"
	DefaultModalityCombination = "concat"
	DefaultModalityWeight      = float32(1.0)
)

// InferenceConfig holds the settings of an inference client run.
type InferenceConfig struct {
	// Server
	ServerAddress string `yaml:"server_address"`
	Port          int    `yaml:"port"`
	Protocol      string `yaml:"protocol"`
	Verbose       bool   `yaml:"verbose"`

	// Model
	ModelName    string    `yaml:"model_name"`
	ModelVersion string    `yaml:"model_version,omitempty"`
	ModelType    string    `yaml:"model_type"`
	InputSizes   [][]int64 `yaml:"input_sizes,omitempty,flow"`

	// Input and output
	Source     string `yaml:"source"`
	LabelsFile string `yaml:"labels_file"`
	BatchSize  int    `yaml:"batch_size"`
	ShowFrame  bool   `yaml:"show_frame"`
	WriteFrame bool   `yaml:"write_frame"`

	// Detection
	ConfidenceThreshold float32 `yaml:"confidence_threshold"`
	NMSThreshold        float32 `yaml:"nms_threshold"`

	// Performance
	NumThreads       int    `yaml:"num_threads"`
	EnableAsync      bool   `yaml:"enable_async"`
	SharedMemoryType string `yaml:"shared_memory_type"`
	CUDADeviceID     int    `yaml:"cuda_device_id"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file,omitempty"`

	// Multimodal
	EnableMultimodal    bool    `yaml:"enable_multimodal"`
	TextInput           string  `yaml:"text_input,omitempty"`
	AudioInput          string  `yaml:"audio_input,omitempty"`
	TextPrompt          string  `yaml:"text_prompt,omitempty"`
	ModalityCombination string  `yaml:"modality_combination"`
	TextWeight          float32 `yaml:"text_weight"`
	ImageWeight         float32 `yaml:"image_weight"`
	AudioWeight         float32 `yaml:"audio_weight"`

	Custom map[string]string `yaml:"custom,omitempty"`
}

// Default returns a configuration with every field at its default.
func Default() *InferenceConfig {
	return &InferenceConfig{
		ServerAddress:       DefaultServerAddress,
		Port:                DefaultPort,
		Protocol:            DefaultProtocol,
		BatchSize:           DefaultBatchSize,
		WriteFrame:          true,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		NMSThreshold:        DefaultNMSThreshold,
		NumThreads:          DefaultNumThreads,
		SharedMemoryType:    DefaultSharedMemoryType,
		LogLevel:            DefaultLogLevel,
		ModalityCombination: DefaultModalityCombination,
		TextWeight:          DefaultModalityWeight,
		ImageWeight:         DefaultModalityWeight,
		AudioWeight:         DefaultModalityWeight,
	}
}

// Clone returns a deep copy of c.
func (c *InferenceConfig) Clone() *InferenceConfig {
	out := *c
	if c.InputSizes != nil {
		out.InputSizes = make([][]int64, len(c.InputSizes))
		for i, dims := range c.InputSizes {
			out.InputSizes[i] = append([]int64(nil), dims...)
		}
	}
	if c.Custom != nil {
		out.Custom = make(map[string]string, len(c.Custom))
		for k, v := range c.Custom {
			out.Custom[k] = v
		}
	}
	return &out
}

// IsModelNameAPath reports whether the model name contains a path
// separator. Servers expect the bare repository name.
func (c *InferenceConfig) IsModelNameAPath() bool {
	return strings.ContainsAny(c.ModelName, `/\`)
}

// IsValid reports whether the required fields are set and the port is in
// range. The protocol is not checked here; see ValidationErrors.
func (c *InferenceConfig) IsValid() bool {
	return c.ServerAddress != "" &&
		c.ModelName != "" &&
		c.ModelType != "" &&
		c.Source != "" &&
		c.Port > 0 && c.Port <= 65535 &&
		!c.IsModelNameAPath()
}

// ValidationErrors returns a message for every problem found, in a fixed
// order. An empty result means the configuration is usable.
func (c *InferenceConfig) ValidationErrors() []string {
	var errs []string

	if c.ServerAddress == "" {
		errs = append(errs, "Server address is required")
	}
	if c.ModelName == "" {
		errs = append(errs, "Model name is required")
	}
	if c.IsModelNameAPath() {
		errs = append(errs, `Model name must not contain path separators (/ or \). Use only the model repository name.`)
	}
	if c.ModelType == "" {
		errs = append(errs, "Model type is required")
	}
	if c.Source == "" {
		errs = append(errs, "Source is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "Port must be between 1 and 65535")
	}
	if c.Protocol != "http" && c.Protocol != "grpc" {
		errs = append(errs, "Protocol must be 'http' or 'grpc'")
	}

	return errs
}

// SetCustomParam stores a free-form string parameter.
func (c *InferenceConfig) SetCustomParam(key, value string) {
	if c.Custom == nil {
		c.Custom = make(map[string]string)
	}
	c.Custom[key] = value
}

// CustomParam returns the parameter stored under key.
func (c *InferenceConfig) CustomParam(key string) (string, bool) {
	v, ok := c.Custom[key]
	return v, ok
}
