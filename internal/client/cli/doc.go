// Package cli is the interactive salarygate admin console.
//
// It connects to the accounts gRPC service, asks for credentials and runs a
// small REPL for account administration: listing and inspecting users,
// creating accounts, resetting passwords, changing roles and emails,
// deleting accounts, migrating legacy records and reading the audit trail.
// A background watcher pings the server and shows online/offline in the
// prompt.
package cli
