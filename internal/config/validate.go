package config

import "fmt"

var (
	validOutputs    = map[string]bool{"text": true, "json": true, "yaml": true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

func validateOutput(output string) error {
	if !validOutputs[output] {
		return fmt.Errorf("unsupported output %q, expected text, json or yaml", output)
	}
	return nil
}

func validateLogging(level, format string) error {
	if !validLogLevels[level] {
		return fmt.Errorf("unsupported log level %q", level)
	}
	if !validLogFormats[format] {
		return fmt.Errorf("unsupported log format %q", format)
	}
	return nil
}
