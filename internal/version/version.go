package version

const VERSION = "v0.3.0"

const UPDATE_MESSAGE = "go install github.com/bezmoradi/sinkswitch/cmd/sinkswitch@main"
