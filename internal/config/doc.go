// Package config holds per-run application settings.
package config
