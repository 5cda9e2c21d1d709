package services

type ScanRequest struct {
	RootPath string
	// SkipUnreadable downgrades unreadable directories and files from a
	// fatal error to a ScanWarning.
	SkipUnreadable bool
	// LegacyRootTotal recomputes the root totals from its direct
	// subdirectories only, leaving out files that sit directly in the root.
	LegacyRootTotal bool
}
