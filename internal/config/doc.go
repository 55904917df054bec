// Package config defines the inference client configuration and the
// Manager that builds it from the command line, the environment or a
// file.
//
// # Sources
//
// Command line flags use the long names of the inference tools
// (--serverAddress, --model_type, --input_sizes and so on) and are parsed
// with pflag. Malformed numbers keep their default and log a warning, and
// unknown flags are skipped so the inference flags can share a command
// line with other options. --help prints usage and yields a nil
// configuration.
//
// The environment is read from INFERENCE_* variables, for example:
//
//   - INFERENCE_SERVER_ADDRESS: server host (default: localhost)
//   - INFERENCE_SERVER_PORT: server port (default: 8000)
//   - INFERENCE_PROTOCOL: http or grpc (default: http)
//   - INFERENCE_MODEL_NAME, INFERENCE_MODEL_TYPE, INFERENCE_SOURCE
//   - INFERENCE_INPUT_SIZES: dynamic input shapes as "c,h,w;c,h,w"
//   - INFERENCE_LOG_LEVEL, INFERENCE_LOG_FILE
//
// Files need a Serializer registered for their extension. None is
// registered by default, so LoadFromFile fails with ErrUnsupported until
// one is, for example:
//
//	m := config.NewManager()
//	m.RegisterSerializer("yaml", config.YAMLSerializer{})
//
// # Merging
//
// Merge overlays the fields of one configuration that differ from their
// defaults onto another. The usual order is environment first, then the
// command line.
package config
