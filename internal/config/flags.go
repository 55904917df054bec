package config

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"vision-infra/internal/logging"
	"vision-infra/internal/strutil"

	"github.com/spf13/pflag"
)

// The flag values below never fail to parse. A malformed value is logged
// and the field keeps what it had, so one bad argument does not discard
// the rest of the command line.

type intValue struct {
	p    *int
	name string
}

func (v *intValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		logging.Warn("Invalid integer for --%s: %q, keeping %d", v.name, s, *v.p)
		return nil
	}
	*v.p = n
	return nil
}

func (v *intValue) String() string { return strconv.Itoa(*v.p) }
func (v *intValue) Type() string   { return "int" }

type floatValue struct {
	p    *float32
	name string
}

func (v *floatValue) Set(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		logging.Warn("Invalid number for --%s: %q, keeping %v", v.name, s, *v.p)
		return nil
	}
	*v.p = float32(f)
	return nil
}

func (v *floatValue) String() string { return strconv.FormatFloat(float64(*v.p), 'g', -1, 32) }
func (v *floatValue) Type() string   { return "float" }

type boolValue struct {
	p    *bool
	name string
}

func (v *boolValue) Set(s string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		logging.Warn("Invalid boolean for --%s: %q, keeping %v", v.name, s, *v.p)
		return nil
	}
	*v.p = b
	return nil
}

func (v *boolValue) String() string   { return strconv.FormatBool(*v.p) }
func (v *boolValue) Type() string     { return "bool" }
func (v *boolValue) IsBoolFlag() bool { return true }

type inputSizesValue struct {
	p *[][]int64
}

func (v *inputSizesValue) Set(s string) error {
	sizes, err := strutil.ParseInputSizes(s)
	if err != nil {
		logging.Warn("Invalid value for --input_sizes: %q, ignoring: %v", s, err)
		return nil
	}
	*v.p = sizes
	return nil
}

func (v *inputSizesValue) String() string { return strutil.FormatInputSizes(*v.p) }
func (v *inputSizesValue) Type() string   { return "sizes" }

// newFlagSet binds every command line option to the fields of c. Defaults
// shown in the usage text come from c.
func newFlagSet(c *InferenceConfig, output io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("vision-infra", pflag.ContinueOnError)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.SortFlags = false
	if output != nil {
		fs.SetOutput(output)
	}

	intVar := func(p *int, name, usage string) {
		fs.Var(&intValue{p: p, name: name}, name, usage)
	}
	floatVar := func(p *float32, name, usage string) {
		fs.Var(&floatValue{p: p, name: name}, name, usage)
	}
	boolVarP := func(p *bool, name, shorthand, usage string) {
		f := fs.VarPF(&boolValue{p: p, name: name}, name, shorthand, usage)
		f.NoOptDefVal = "true"
	}

	fs.StringVarP(&c.Source, "source", "s", c.Source, "path to input image/video file")
	fs.StringVar(&c.ModelType, "model_type", c.ModelType, "type of model (yolov5, yolov8, etc.)")
	fs.StringVarP(&c.ModelName, "model", "m", c.ModelName, "model name on inference server")
	fs.StringVar(&c.ModelVersion, "model_version", c.ModelVersion, "model version on inference server")
	fs.StringVar(&c.LabelsFile, "labelsFile", c.LabelsFile, "path to labels file")
	fs.StringVarP(&c.Protocol, "protocol", "p", c.Protocol, "protocol to use (http or grpc)")
	fs.StringVar(&c.ServerAddress, "serverAddress", c.ServerAddress, "inference server address")
	intVar(&c.Port, "port", "inference server port")
	fs.Var(&inputSizesValue{p: &c.InputSizes}, "input_sizes", "input sizes for dynamic axes (format: 'c,h,w;c,h,w')")
	intVar(&c.BatchSize, "batch_size", "batch size")
	boolVarP(&c.ShowFrame, "show_frame", "", "show processed frames")
	boolVarP(&c.WriteFrame, "write_frame", "", "write processed frames to disk")
	floatVar(&c.ConfidenceThreshold, "confidence_threshold", "confidence threshold")
	floatVar(&c.NMSThreshold, "nms_threshold", "NMS threshold")
	boolVarP(&c.Verbose, "verbose", "v", "verbose output")
	intVar(&c.NumThreads, "num_threads", "number of preprocessing threads")
	boolVarP(&c.EnableAsync, "enable_async", "", "use asynchronous inference requests")
	fs.StringVar(&c.SharedMemoryType, "shared_memory_type", c.SharedMemoryType, "shared memory type (none, system, cuda)")
	intVar(&c.CUDADeviceID, "cuda_device_id", "CUDA device ID for CUDA shared memory")
	fs.StringVar(&c.LogLevel, "log_level", c.LogLevel, "log level (trace, debug, info, warn, error, fatal)")
	fs.StringVar(&c.LogFile, "log_file", c.LogFile, "log file path")
	boolVarP(&c.EnableMultimodal, "enable_multimodal", "", "enable multimodal model support")
	fs.StringVar(&c.TextInput, "text_input", c.TextInput, "path to text input file")
	fs.StringVar(&c.AudioInput, "audio_input", c.AudioInput, "path to audio input file")
	fs.StringVar(&c.TextPrompt, "text_prompt", c.TextPrompt, "text prompt for multimodal model")
	fs.StringVar(&c.ModalityCombination, "modality_combination", c.ModalityCombination, "how to combine modalities (concat, attention, fusion)")
	floatVar(&c.TextWeight, "text_weight", "weight for text modality")
	floatVar(&c.ImageWeight, "image_weight", "weight for image modality")
	floatVar(&c.AudioWeight, "audio_weight", "weight for audio modality")

	return fs
}

// loadFromCommandLine parses args (without the program name). It returns
// nil and no error when help was requested. A flag that cannot be parsed
// stops parsing; everything before it is kept.
func loadFromCommandLine(args []string, output io.Writer) (*InferenceConfig, error) {
	c := Default()
	fs := newFlagSet(c, output)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, nil
		}
		logging.Warn("Stopped parsing command line: %v, remaining flags keep their defaults", err)
	}
	return c, nil
}

// FlagUsages returns the formatted option list accepted by
// LoadFromCommandLine.
func FlagUsages() string {
	return newFlagSet(Default(), io.Discard).FlagUsages()
}
