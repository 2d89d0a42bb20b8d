// Package metrics exposes the service counters through a private
// Prometheus registry.
//
// Counter vectors are registered once at startup with their label names;
// handlers and services then increment them by name and label values, so
// callers never hold client_golang types. Handler serves the registry with
// promhttp, negotiating the exposition format from the scrape request.
package metrics
