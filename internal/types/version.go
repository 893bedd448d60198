package types

const Version = "1.0.0"
