package config

import (
	"fmt"
	"io"
	"os"
	"sort"

	"vision-infra/internal/strutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes c to w as a YAML document.
func WriteYAML(w io.Writer, c *InferenceConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

// WriteTable renders c as a two column table.
func WriteTable(w io.Writer, c *InferenceConfig) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("SETTING"), text.FgHiCyan.Sprint("VALUE")})

	inputSizes := strutil.FormatInputSizes(c.InputSizes)
	if inputSizes == "" {
		inputSizes = "-"
	}

	t.AppendRows([]table.Row{
		{"server_address", c.ServerAddress},
		{"port", c.Port},
		{"protocol", c.Protocol},
		{"model_name", c.ModelName},
		{"model_version", c.ModelVersion},
		{"model_type", c.ModelType},
		{"input_sizes", inputSizes},
		{"source", c.Source},
		{"labels_file", c.LabelsFile},
		{"batch_size", c.BatchSize},
		{"show_frame", c.ShowFrame},
		{"write_frame", c.WriteFrame},
		{"confidence_threshold", c.ConfidenceThreshold},
		{"nms_threshold", c.NMSThreshold},
		{"num_threads", c.NumThreads},
		{"enable_async", c.EnableAsync},
		{"verbose", c.Verbose},
		{"shared_memory_type", c.SharedMemoryType},
		{"cuda_device_id", c.CUDADeviceID},
		{"log_level", c.LogLevel},
		{"log_file", c.LogFile},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"enable_multimodal", c.EnableMultimodal},
		{"text_input", c.TextInput},
		{"audio_input", c.AudioInput},
		{"text_prompt", c.TextPrompt},
		{"modality_combination", c.ModalityCombination},
		{"text_weight", c.TextWeight},
		{"image_weight", c.ImageWeight},
		{"audio_weight", c.AudioWeight},
	})

	if len(c.Custom) > 0 {
		keys := make([]string, 0, len(c.Custom))
		for k := range c.Custom {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		t.AppendSeparator()
		for _, k := range keys {
			t.AppendRow(table.Row{"custom." + k, c.Custom[k]})
		}
	}

	t.Render()
}

// YAMLSerializer reads and writes configurations as YAML. Fields missing
// from a file keep their defaults.
type YAMLSerializer struct{}

var _ Serializer = YAMLSerializer{}

// Load reads a configuration from path.
func (YAMLSerializer) Load(path string) (*InferenceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path, replacing any existing file.
func (YAMLSerializer) Save(path string, c *InferenceConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
