// Package constants provides shared constants used throughout the dicomstd codebase.
// This includes the hierarchy marker, reference resolution defaults, file
// permissions, and concurrency limits that should be consistent across the
// application.
package constants

// Hierarchy constants describe how nesting is encoded in scraped tables
const (
	// HierarchyMarker is the character repeated at the start of an attribute
	// name to indicate its nesting depth (">>Item" is depth 2)
	HierarchyMarker = '>'

	// IDSeparator joins path segments into a hierarchical attribute id
	IDSeparator = ":"
)

// Reference constants control how description links are resolved
const (
	// DefaultBaseURL is the published location of the DICOM standard HTML
	DefaultBaseURL = "http://dicom.nema.org/medical/dicom/current/output/html/"

	// DefaultReferencePage is the page used for same-document links ("#sect_C.7.1.1")
	DefaultReferencePage = "part03.html"

	// IgnoredReferencePattern matches hrefs that point outside of PS3.3 or at
	// glossary entries; these anchors are left unmarked.
	IgnoredReferencePattern = `(.*ftp.*)|(.*http.*)|(.*part05.*)|(.*chapter.*)|(.*PS3.*)|(.*DCM.*)|(.*glossentry.*)`
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxConcurrentModules is the default number of modules processed concurrently
	MaxConcurrentModules = 8

	// MaxInputSize caps decoded input documents (256 MB)
	MaxInputSize = 256 << 20
)

// Path constants
const (
	// ConfigFileName is the config file name searched in $HOME and the working directory
	ConfigFileName = ".dicomstd"
)
