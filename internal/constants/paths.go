// Package constants contains names shared across demre packages.
package constants

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "demre"

	// ConfigFilename is the default configuration file name.
	ConfigFilename = "demre.yml"

	// LogFilename is the default log file name for demre.
	LogFilename = "demre.log"

	// ProjectDirEnv overrides project root detection.
	ProjectDirEnv = "DEMRE_PROJECT_DIR"
)

// Extensions of the entries extracted from a bundle.
const (
	CSVExtension  = ".csv"
	XLSXExtension = ".xlsx"
)
