package scanconfig

import "github.com/nspcc-dev/fsp/cmd/fsp/config"

const subsection = "scan"

// Strict returns the value of "strict" config parameter
// from "scan" section.
//
// Returns false if the value is not a boolean.
func Strict(c *config.Config) bool {
	return config.BoolSafe(c.Sub(subsection), "strict")
}
