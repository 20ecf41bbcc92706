// Package ports defines the interfaces between the bot's core and its adapters.
// Test doubles for these interfaces live in internal/mocks.
package ports
