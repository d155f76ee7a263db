// Package services provides shared error classification and context helpers
// used by every pipeline stage.
package services
