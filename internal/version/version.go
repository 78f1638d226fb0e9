package version

// Version is overridden at build time with -ldflags "-X meshwidth/internal/version.Version=...".
var Version = "0.1.0"
