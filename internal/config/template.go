// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

const configTemplate = `# config.toml - Auto-generated on first run

# Hostname / IP
# Default: "localhost"
host = "{{ .Host }}"

# Port
# Default: 7478
port = {{ .Port }}

# Log level
# Default: "INFO"
# Options: "ERROR", "WARN", "INFO", "DEBUG", "TRACE"
logLevel = "INFO"

# Log file path
# If not defined, logs to stdout
# Optional
#logPath = "log/waluna.log"

# Log rotation
# Maximum log file size in megabytes before rotation
# Default: 50
#logMaxSize = 50

# Number of rotated log files to retain (0 keeps all)
# Default: 3
#logMaxBackups = 3

# Data directory for the cache database
# Default: next to this file
#dataDir = ""

# Explicit cache database path, overrides dataDir
#databasePath = ""

# Torrent search backend
# Queries go to {searchBackendUrl}/search?q=...&pretty=1
# Default: "http://127.0.0.1:8080"
searchBackendUrl = "http://127.0.0.1:8080"

# Per-request timeout in seconds
# Default: 10
#searchTimeout = 10

# Retries for network errors and 5xx/429 responses
# Default: 2
#searchRetries = 2

# Optional filter expression applied to every search result
# Fields: filename, name, quality, source, subber, producer, codecs, audio,
# subtitles, languages, season, episode, movie, batch, seeders, leechers,
# downloads, size
# Example: "seeders > 0 && quality in ['1080p', '720p']"
#resultFilter = ""

# Anime title catalog for suggestions (.json, .yaml or .yml)
#catalogPath = ""

# Worker pools for suggestions and episode sorting
# Default: 2 workers, 3000 ms timeout
#workerCount = 2
#workerTimeoutMs = 3000

# Locale for human readable dates ("pt-BR" or "en")
# Default: "pt-BR"
#dateLocale = "pt-BR"

# Minutes between purges of expired cache rows (0 disables)
# Default: 60
#cacheJanitorInterval = 60

# Allowed CORS origins, empty allows none
#corsAllowedOrigins = ["http://localhost:5173"]

# Serve Prometheus metrics on /metrics
# Default: false
#metricsEnabled = false
`
