// Package telemetry provides OpenTelemetry initialization and helpers
// for tracing the audio extraction service.
//
// The package configures OTLP HTTP export for traces and logs, with
// support for local and hosted collector backends.
package telemetry
