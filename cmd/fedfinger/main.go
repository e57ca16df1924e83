// Command fedfinger serves WebFinger and ActivityPub actor discovery for a
// local identity directory.
package main

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	Execute()
}
