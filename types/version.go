package types

// Version is the canonical fenceline version.
// Report schema changes bump this in lockstep.
const Version = "0.1.0"
