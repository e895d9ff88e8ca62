//go:build !debug

package model

// assertConsistent is compiled out of release builds; see assert_debug.go
func (g *Grid) assertConsistent() {}
