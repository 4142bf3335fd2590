package http

import xutil "FarmYield/pkg/util"

// ParseIntList parses a comma separated list of pool indexes.
func ParseIntList(s string) ([]int, error) { return xutil.ParseIntList(s) }
