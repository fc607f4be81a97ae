package build

import "runtime/debug"

type Info struct {
	Path       string `json:"path,omitempty"`
	Version    string `json:"version,omitempty"`
	CommitHash string `json:"commitHash,omitempty"`
	CommitTime string `json:"commitTime,omitempty"`
	Modified   bool   `json:"modified,omitempty"`
}

func GetBuildInfo() *Info {
	result := &Info{}

	if bi, ok := debug.ReadBuildInfo(); ok {
		result.Path = bi.Main.Path
		result.Version = bi.Main.Version

		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				result.CommitHash = s.Value
			case "vcs.time":
				result.CommitTime = s.Value
			case "vcs.modified":
				result.Modified = s.Value == "true"
			}
		}
	}
	return result
}

// CommitOrUnknown returns a short commit hash suitable for a startup log line.
func (i *Info) CommitOrUnknown() string {
	if i == nil || i.CommitHash == "" {
		return "unknown"
	}
	if len(i.CommitHash) > 12 {
		return i.CommitHash[:12]
	}
	return i.CommitHash
}
