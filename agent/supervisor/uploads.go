package supervisor

import (
	"fmt"
	"regexp"
	"strings"

	contractx "supervisor-agent/agent/contract"
)

// Inline upload marker: [FILE_UPLOAD:<data url>:<filename>:<mime type>].
// The data URL itself contains colons, so the filename and mime groups are
// anchored from the end. The data group is lazy so adjacent markers in one
// query stay separate matches.
var fileUploadPattern = regexp.MustCompile(`\[FILE_UPLOAD:(.+?):([^:\]]+):([^:\]]+)\]`)

// ExtractUploads pulls upload markers out of the query text, returning the
// cleaned query (markers replaced with "[Uploaded file: <name>]") and the
// decoded upload descriptors.
func ExtractUploads(query string) (string, []contractx.FileUpload) {
	var uploads []contractx.FileUpload

	clean := fileUploadPattern.ReplaceAllStringFunc(query, func(marker string) string {
		groups := fileUploadPattern.FindStringSubmatch(marker)
		if len(groups) != 4 {
			return marker
		}
		dataURL, filename, mimeType := groups[1], groups[2], groups[3]
		uploads = append(uploads, contractx.FileUpload{
			Base64Data: base64FromDataURL(dataURL),
			Filename:   filename,
			MimeType:   mimeType,
		})
		return fmt.Sprintf("[Uploaded file: %s]", filename)
	})

	return clean, uploads
}

// base64FromDataURL strips the "data:<mime>;base64," prefix when present.
func base64FromDataURL(dataURL string) string {
	if idx := strings.Index(dataURL, "base64,"); idx >= 0 {
		return dataURL[idx+len("base64,"):]
	}
	if idx := strings.LastIndexByte(dataURL, ','); idx >= 0 {
		return dataURL[idx+1:]
	}
	return dataURL
}
