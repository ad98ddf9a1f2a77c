// Package cli provides the gallery command-line client.
//
// The client runs either one command given on the command line (App.Exec)
// or an interactive REPL (App.Run) that also watches server reachability
// in the background. Commands:
//
//   - upload <file> [caption]  store a file, printing its key
//   - list                      show the gallery, newest first
//   - download <n|all>          fetch originals through their signed URLs
//
// Listings are rendered as a table on a terminal and as JSON otherwise, so
// the output can be piped.
package cli
