// Package asr transcribes extracted audio into timestamped speech segments
// using the whisper command-line model.
package asr
