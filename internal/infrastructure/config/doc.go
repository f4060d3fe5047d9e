// Package config handles loading and validating devicekeeper configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Loading an optional .env file
//   - Overriding with environment variables
//   - Validation of required fields
//
// Sensitive values (JWT secret, database password, broker credentials) should
// be set via environment variables rather than committed to the YAML file.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.API.Port)
package config
