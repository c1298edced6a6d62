// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the commands the binary offers (catalog,
// check and demo), decoupled from any specific entrypoint like a CLI.
package app
