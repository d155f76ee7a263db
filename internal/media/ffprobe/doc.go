// Package ffprobe wraps container inspection via the ffprobe binary.
package ffprobe
