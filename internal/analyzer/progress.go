package analyzer

import "time"

// ProgressReporter provides callbacks for reporting analysis progress.
// OnFileAnalyzed may be called from several workers at once.
type ProgressReporter interface {
	// OnAnalysisStart is called before any file is parsed.
	OnAnalysisStart(totalFiles int)

	// OnFileAnalyzed is called after each file is parsed.
	OnFileAnalyzed(filePath string)

	// OnAnalysisComplete is called when every file has been parsed.
	OnAnalysisComplete(declarations int, elapsed time.Duration)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnAnalysisStart(totalFiles int)                             {}
func (NoOpProgressReporter) OnFileAnalyzed(filePath string)                             {}
func (NoOpProgressReporter) OnAnalysisComplete(declarations int, elapsed time.Duration) {}
