// Package language resolves and names the target languages the translation
// pipeline supports.
package language
