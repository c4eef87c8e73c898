package utils

// REVISION is reported in every API response envelope.
const REVISION = "1.4.0"
