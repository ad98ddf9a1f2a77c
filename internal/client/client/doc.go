// Package client talks to the gallery HTTP API.
//
// Client is the transport-agnostic contract used by the CLI and HTTPClient
// is its implementation over the JSON envelope API: GET /gallery, POST
// /upload and GET /health. Originals are fetched straight from their signed
// URLs, bypassing the API.
//
// # Error Handling
//
// Transport failures map to ErrUnavailable. Envelope errors map by status:
// 4xx to ErrRejected, 502 to common.ErrUploadFailed and other 5xx to
// ErrServer, each carrying the server's message. A signed URL answering 403
// or 404 maps to ErrLinkExpired.
package client
