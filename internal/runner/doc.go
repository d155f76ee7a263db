// Package runner abstracts external process invocation behind a narrow
// capability: argument list and timeout in, captured output and error out.
package runner
