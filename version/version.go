package version

// Set at build time with -ldflags "-X github.com/dymensionxyz/daclient/version.BuildVersion=...".
var (
	BuildVersion = "<version>"
	Commit       = ""
)

// String returns the version, followed by the commit when known.
func String() string {
	if Commit == "" {
		return BuildVersion
	}
	return BuildVersion + "-" + Commit
}
