package agentsync

import "embed"

// helpTopics holds the markdown pages shown by `agentsync help <topic>`
//
//go:embed topics/*.md
var helpTopics embed.FS

const helpTopicsRoot = "topics"
