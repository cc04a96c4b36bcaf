// Package config provides the configuration source of a liftoff instance and
// the typed configuration extracted from it.
//
// A Source is an ordered chain of providers; later providers override earlier
// ones. Values are flat upper-case keys without the LIFTOFF_ prefix and are
// decoded with caarlos0/env struct tags:
//
//	src := config.NewSource(
//		config.File("liftoff.yaml"),
//		config.Dotenv(".env"),
//		config.Env(config.DefaultPrefix),
//	)
//
//	cfg, err := config.FromSource(src)
//	if err != nil {
//		return err
//	}
//
// Applications can extract their own types from the same source:
//
//	type DatabaseConfig struct {
//		URL string `env:"DATABASE_URL,required"`
//	}
//
//	db, err := config.Extract[DatabaseConfig](src)
//
// Structured files are read with viper; nested keys are joined with "_", so
// shutdown.grace in YAML maps to SHUTDOWN_GRACE.
package config
