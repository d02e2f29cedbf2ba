// Package security screens source files before they reach the extractor.
package security

import "errors"

// DefaultThresholdKB is the size above which sources are screened.
const DefaultThresholdKB = 256

// ErrBinaryContent is returned for a source file that holds binary data.
var ErrBinaryContent = errors.New("file appears to be binary (script extension on binary file)")

// FileValidator rejects oversized sources that are not text, such as a
// bundle or an image saved with a script extension. Small files are never
// screened.
type FileValidator struct {
	ValidationThreshold int64 // files larger than this are screened
	HeaderSize          int64 // bytes inspected from the start of the file
}

// NewFileValidator creates a validator screening files above thresholdKB.
func NewFileValidator(thresholdKB int64) *FileValidator {
	return &FileValidator{
		ValidationThreshold: thresholdKB * 1024,
		HeaderSize:          64 * 1024,
	}
}

// ValidateContent checks the content of one source file.
func (fv *FileValidator) ValidateContent(content []byte) error {
	if fv == nil || int64(len(content)) <= fv.ValidationThreshold {
		return nil
	}

	header := content
	if int64(len(header)) > fv.HeaderSize {
		header = header[:fv.HeaderSize]
	}
	if isBinaryData(header) {
		return ErrBinaryContent
	}
	return nil
}

// isBinaryData reports whether more than 30% of data is control bytes other
// than tab, LF, VT, FF and CR.
func isBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	nonPrintable := 0
	for _, b := range data {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > 0.3
}
