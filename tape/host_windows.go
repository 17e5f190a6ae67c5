//go:build windows

package tape

// filterOutput drops output bytes with the high bit set, matching the
// original Windows console write path this was ported from.
func filterOutput(b byte) bool {
	return b >= 128
}

// filterInput skips carriage returns the Windows console prepends ahead of
// line feeds, so input matches what a Unix host would have produced.
func filterInput(b byte) bool {
	return b == '\r'
}
