package bazaar

// Version should be set by build flags: `git describe --tags`
var Version = "development"
