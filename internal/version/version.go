package version

// Version is the current release of pagereaper
const Version = "0.3.1"
