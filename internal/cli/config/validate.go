package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	intconfig "github.com/leapstack-labs/leaplook/internal/config"
)

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if c.Catalog.Source == "database" {
		if err := intconfig.ValidateTarget(c.Catalog.Target); err != nil {
			return fmt.Errorf("catalog.target: %w", err)
		}
	}
	return nil
}

// ValidateDirectories checks if the dbt target directory exists.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.TargetDir); os.IsNotExist(err) {
		return fmt.Errorf("target directory does not exist: %s\nHint: run dbt compile or use --target-dir to specify a different path", c.TargetDir)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	key := configKey(fe.StructNamespace())
	if fe.Tag() == "oneof" {
		return fmt.Sprintf("%s: %q is not one of %s", key, fmt.Sprint(fe.Value()), fe.Param())
	}
	return fmt.Sprintf("%s: failed %s=%s", key, fe.Tag(), fe.Param())
}

var configKeys = map[string]string{
	"Config.Concurrency":    "concurrency",
	"Config.LogLevel":       "log_level",
	"Config.OutputFormat":   "output",
	"Config.Catalog.Source": "catalog.source",
}

func configKey(namespace string) string {
	if key, ok := configKeys[namespace]; ok {
		return key
	}
	return namespace
}
