package common

// UnknownStr is returned by String methods of enums for values outside of their range.
const UnknownStr = "unknown"
