package cli

import (
	cmdpkg "github.com/ajatt-tools/mangaocrd/internal/cli/cmd"
)

// Execute runs the root command. This is called by main.main().
func Execute() {
	cmdpkg.Execute()
}

// SetVersionInfo sets the version information used by the version command
func SetVersionInfo(version, buildTime, commit string) {
	cmdpkg.SetVersionInfo(version, buildTime, commit)
}
