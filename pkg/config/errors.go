package config

import "errors"

var (
	// ErrNilPointer is returned when a nil destination is passed to Load.
	ErrNilPointer = errors.New("config: nil pointer provided")

	// ErrParsingEnv is returned when environment variables cannot be
	// parsed into the destination struct.
	ErrParsingEnv = errors.New("config: failed to parse environment")

	// ErrReadingFile is returned when a configuration file cannot be read.
	ErrReadingFile = errors.New("config: failed to read file")

	// ErrDecodingFile is returned when a configuration file cannot be
	// decoded as YAML.
	ErrDecodingFile = errors.New("config: failed to decode file")
)
