package noyes

// Version is the library version, overridden at build time via
// -ldflags "-X github.com/aretw0/noyes.Version=...".
var Version = "dev"
