// Package jianerctl holds shared metadata for the jianerctl module.
package jianerctl

// Version is the jianerctl release version.
const Version = "0.3.0"
