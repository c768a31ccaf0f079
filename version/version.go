package version

// VERSION is the current version of ilandinfo, set at build time.
var VERSION = "1.0.0"
