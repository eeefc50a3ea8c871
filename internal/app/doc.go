// Package app assembles the web server: configuration, logging, the sales
// pipeline service and the HTTP router, with graceful shutdown on SIGINT
// and SIGTERM.
package app
