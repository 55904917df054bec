// Package middleware provides HTTP middleware for the vision-infra metrics
// server.
//
// It includes:
//   - Request logging in W3C Extended Log Format through the "http" logger
//   - Prometheus request metrics with bounded path labels
//
// Both skip probe or scrape traffic by default.
package middleware
