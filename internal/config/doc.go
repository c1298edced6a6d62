// Package config defines the format-agnostic description of a program
// environment, along with the Loader interface for reading it from various
// sources.
//
// The `config.Model` is what the environment package consumes. Concrete
// loaders, such as the HCL one, are provided in separate packages.
package config
