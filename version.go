package axle

// Version is the library version, also reported by the axle CLI.
const Version = "0.3.0"
