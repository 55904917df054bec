package config

import (
	"os"
	"strconv"

	"vision-infra/internal/logging"
	"vision-infra/internal/strutil"
)

// Environment variables read by LoadFromEnvironment.
const (
	EnvServerAddress       = "INFERENCE_SERVER_ADDRESS"
	EnvServerPort          = "INFERENCE_SERVER_PORT"
	EnvProtocol            = "INFERENCE_PROTOCOL"
	EnvModelName           = "INFERENCE_MODEL_NAME"
	EnvModelVersion        = "INFERENCE_MODEL_VERSION"
	EnvModelType           = "INFERENCE_MODEL_TYPE"
	EnvSource              = "INFERENCE_SOURCE"
	EnvLabelsFile          = "INFERENCE_LABELS_FILE"
	EnvBatchSize           = "INFERENCE_BATCH_SIZE"
	EnvShowFrame           = "INFERENCE_SHOW_FRAME"
	EnvWriteFrame          = "INFERENCE_WRITE_FRAME"
	EnvConfidenceThreshold = "INFERENCE_CONFIDENCE_THRESHOLD"
	EnvNMSThreshold        = "INFERENCE_NMS_THRESHOLD"
	EnvVerbose             = "INFERENCE_VERBOSE"
	EnvNumThreads          = "INFERENCE_NUM_THREADS"
	EnvEnableAsync         = "INFERENCE_ENABLE_ASYNC"
	EnvSharedMemoryType    = "INFERENCE_SHARED_MEMORY_TYPE"
	EnvCUDADeviceID        = "INFERENCE_CUDA_DEVICE_ID"
	EnvLogLevel            = "INFERENCE_LOG_LEVEL"
	EnvLogFile             = "INFERENCE_LOG_FILE"
	EnvInputSizes          = "INFERENCE_INPUT_SIZES"
	EnvEnableMultimodal    = "INFERENCE_ENABLE_MULTIMODAL"
	EnvTextInput           = "INFERENCE_TEXT_INPUT"
	EnvAudioInput          = "INFERENCE_AUDIO_INPUT"
	EnvTextPrompt          = "INFERENCE_TEXT_PROMPT"
	EnvModalityCombination = "INFERENCE_MODALITY_COMBINATION"
	EnvTextWeight          = "INFERENCE_TEXT_WEIGHT"
	EnvImageWeight         = "INFERENCE_IMAGE_WEIGHT"
	EnvAudioWeight         = "INFERENCE_AUDIO_WEIGHT"
)

func loadFromEnvironment() *InferenceConfig {
	c := Default()

	c.ServerAddress = getEnv(EnvServerAddress, c.ServerAddress)
	c.Port = getEnvInt(EnvServerPort, c.Port)
	c.Protocol = getEnv(EnvProtocol, c.Protocol)
	c.ModelName = getEnv(EnvModelName, c.ModelName)
	c.ModelVersion = getEnv(EnvModelVersion, c.ModelVersion)
	c.ModelType = getEnv(EnvModelType, c.ModelType)
	c.Source = getEnv(EnvSource, c.Source)
	c.LabelsFile = getEnv(EnvLabelsFile, c.LabelsFile)
	c.BatchSize = getEnvInt(EnvBatchSize, c.BatchSize)
	c.ShowFrame = getEnvBool(EnvShowFrame, c.ShowFrame)
	c.WriteFrame = getEnvBool(EnvWriteFrame, c.WriteFrame)
	c.ConfidenceThreshold = getEnvFloat(EnvConfidenceThreshold, c.ConfidenceThreshold)
	c.NMSThreshold = getEnvFloat(EnvNMSThreshold, c.NMSThreshold)
	c.Verbose = getEnvBool(EnvVerbose, c.Verbose)
	c.NumThreads = getEnvInt(EnvNumThreads, c.NumThreads)
	c.EnableAsync = getEnvBool(EnvEnableAsync, c.EnableAsync)
	c.SharedMemoryType = getEnv(EnvSharedMemoryType, c.SharedMemoryType)
	c.CUDADeviceID = getEnvInt(EnvCUDADeviceID, c.CUDADeviceID)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.LogFile = getEnv(EnvLogFile, c.LogFile)
	c.EnableMultimodal = getEnvBool(EnvEnableMultimodal, c.EnableMultimodal)
	c.TextInput = getEnv(EnvTextInput, c.TextInput)
	c.AudioInput = getEnv(EnvAudioInput, c.AudioInput)
	c.TextPrompt = getEnv(EnvTextPrompt, c.TextPrompt)
	c.ModalityCombination = getEnv(EnvModalityCombination, c.ModalityCombination)
	c.TextWeight = getEnvFloat(EnvTextWeight, c.TextWeight)
	c.ImageWeight = getEnvFloat(EnvImageWeight, c.ImageWeight)
	c.AudioWeight = getEnvFloat(EnvAudioWeight, c.AudioWeight)

	if raw := os.Getenv(EnvInputSizes); raw != "" {
		sizes, err := strutil.ParseInputSizes(raw)
		if err != nil {
			logging.Warn("Invalid value for %s: %q, ignoring: %v", EnvInputSizes, raw, err)
		} else {
			c.InputSizes = sizes
		}
	}

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float32) float32 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 32)
	if err != nil {
		logging.Warn("Invalid number for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return float32(parsed)
}
