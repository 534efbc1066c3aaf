package ghosler

// Instance directory layout. Paths are relative to the instance root.
const (
	ManifestFileName = "package.json"
	ConfigFileName   = "config.production.json"
	ConfigDirName    = "configuration"
	LogsDirName      = "logs"
	ContentDirName   = "content"
	BackupsDirName   = "backups"
	ScratchDirName   = ".update"
	DependenciesDir  = "node_modules"

	// AppSection is the top-level key of the application settings object
	// inside the production configuration document.
	AppSection = "ghosler"

	// BaseName seeds unique instance names.
	BaseName = "ghosler-app"

	// DefaultBranch is the pseudo-branch meaning "latest published
	// release" rather than a git branch.
	DefaultBranch = "release"

	// DefaultPort is the port the stock application config listens on.
	DefaultPort = 2369
)
