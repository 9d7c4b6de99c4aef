package vault

// release is the semantic version of this build.
const release = "v0.1.0"

// GitCommit is set at build time with
// -ldflags "-X github.com/iov-one/vault.GitCommit=<hash>".
var GitCommit = ""

// Version returns the release, followed by the commit when known.
func Version() string {
	if GitCommit == "" {
		return release
	}
	return release + " " + GitCommit
}
