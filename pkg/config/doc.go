// Package config loads package configuration structs from environment
// variables.
//
// Every notifykit package that needs runtime settings exposes a Config struct
// annotated with `env` tags understood by github.com/caarlos0/env/v11. Load
// fills such a struct, after loading a `.env` file from the working directory
// once per process with github.com/joho/godotenv (a missing file is not an
// error). Values already present in the process environment always win over
// the file.
//
// # Usage
//
//	var cfg recipient.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	// Required configuration during startup:
//	var smtp email.SMTPConfig
//	config.MustLoad(&smtp)
//
// Options scope variable names (WithPrefix), load extra dotenv files
// (WithEnvFiles) or replace the process environment entirely with a map
// (WithEnvironment), which keeps tests independent of global state.
//
// # Error Handling
//
// Failures wrap ErrParsingConfig and can be checked with errors.Is.
package config
