//go:build shorthand_debug

package builder

const debugClaims = true
