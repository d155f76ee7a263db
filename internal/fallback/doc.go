// Package fallback implements the ordered "first success wins" evaluation
// used for download format strategies and audio extraction command variants.
package fallback
