// Package logger provides structured logging backed by zerolog.
//
// The command-line client logs to stderr in console format by default;
// stdout is reserved for command output.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Debug("request done", logger.Fields("status", 200))
package logger
