// Package logger provides backward compatibility by re-exporting from pkg/logger
// Deprecated: Use sudshine/pkg/logger instead for new code
package logger

import (
	pkglogger "sudshine/pkg/logger"
)

// Re-export types from pkg/logger
type (
	Logger = pkglogger.Logger
	Config = pkglogger.Config
	Format = pkglogger.Format
)

// Re-export constants from pkg/logger
const (
	DefaultTraceIDKey = pkglogger.DefaultTraceIDKey
	FormatJSON        = pkglogger.FormatJSON
	FormatText        = pkglogger.FormatText
)

// Re-export functions from pkg/logger
var (
	New                    = pkglogger.New
	NewWithConfig          = pkglogger.NewWithConfig
	NewWithContext         = pkglogger.NewWithContext
	ContextWithTraceID     = pkglogger.ContextWithTraceID
	ContextWithTraceIDName = pkglogger.ContextWithTraceIDName
	TraceIDFromContext     = pkglogger.TraceIDFromContext
	TraceIDFromContextName = pkglogger.TraceIDFromContextName
)
