// Package logger provides the application-wide zap logger:
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - leveled convenience functions (Info, InfoKV, Errorf, ...),
//   - log level parsing and runtime level switching.
package logger
