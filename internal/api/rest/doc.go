// Package rest exposes the HTTP surface of the server:
//   - public reads (emergency status, evacuation posts, education videos, latest air quality),
//   - admin mutations behind bearer-token auth (trigger/clear, posts and videos CRUD),
//   - sensor ingestion behind a shared key,
//   - health and Prometheus metrics endpoints.
package rest
