// Package config defines the YAML/JSON configuration of the function
// service together with helpers to load it from any afs supported location
// and to validate it.
package config
