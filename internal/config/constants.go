package config

import "time"

// Base application details
const AppName = "folio"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "folio.log"

// Status Bar
const MessageTimeout = 4 * time.Second

// Editor defaults
const DefaultMaxIterations = 512
const DefaultMaxSteps = 1000
const SystemClipboard = false
