package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pasteshare/pasteshare/pkg/upload"
)

// Validate checks the configuration for errors.
//
// Struct tags drive most of the validation (required fields, value ranges,
// enumerations); cross-field rules that tags cannot express are checked
// explicitly afterwards.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		return err
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	switch cfg.Uploads.Backend {
	case upload.BackendFilesystem:
		// Root defaults to the XDG data dir, nothing to check
	case upload.BackendS3:
		if cfg.Uploads.S3.Bucket == "" {
			return fmt.Errorf("uploads: s3 backend requires a bucket")
		}
	default:
		return fmt.Errorf("uploads: unsupported backend %q", cfg.Uploads.Backend)
	}

	if cfg.Telemetry.SampleRate < 0 || cfg.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry: sample_rate must be between 0.0 and 1.0")
	}

	return nil
}
