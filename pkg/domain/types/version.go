package types

// Version is the apparatus-dl version. Overridden at build time via -ldflags.
var Version = "v0.1.0"
