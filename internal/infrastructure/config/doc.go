// Package config handles loading and validating tsbridge configuration.
//
// This package manages:
//   - Loading configuration from TOML files (via viper)
//   - Overriding with TSBRIDGE_* environment variables
//   - Command-line flag binding (done by the CLI against the same viper)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (passwords, tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	if err := config.Init(cfgFile); err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.Host)
package config
