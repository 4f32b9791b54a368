package model

// FileType is the role a file plays in the layered architecture.
type FileType string

const (
	FileTypeAPI        FileType = "api"
	FileTypeUI         FileType = "ui"
	FileTypePageObject FileType = "page_object"
	FileTypeBDDStep    FileType = "bdd_step"
	FileTypeUnknown    FileType = "unknown"
)

// Classification is the classifier's verdict for one file.
type Classification struct {
	FileType FileType
	// Frameworks holds detected automation framework tags, sorted.
	Frameworks   []string
	IsBDD        bool
	IsTestFile   bool
	IsPageObject bool
	// AutoWaiting is set when a detected framework waits for elements on its
	// own, so explicit-wait rules can stay quiet.
	AutoWaiting bool
	APIScore    int
	UIScore     int
}
