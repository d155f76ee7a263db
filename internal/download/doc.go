// Package download acquires source media: video download with ordered
// format-strategy fallback and PCM audio extraction with ordered command
// fallback.
package download
