package version

// Name for this.
const Name string = "slidejsx"

// Version for this.
var Version = "0.1.0"

// Revision for this.
var Revision = "HEAD"
