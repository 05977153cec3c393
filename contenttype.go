package sharefile

import (
	gopath "path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DirectoryMimeType is reported for every folder item.
const DirectoryMimeType = "inode/directory"

const fallbackMimeType = "application/octet-stream"

// extensionTypes covers common extensions for metadata-only lookups where
// no content bytes are available to sniff.
var extensionTypes = map[string]string{
	".txt":  "text/plain",
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".json": "application/json",
	".xml":  "application/xml",
}

// detectMimeType guesses the MIME type of a file. Content sniffing wins
// when bytes are in hand; otherwise the extension decides.
func detectMimeType(path string, contents []byte) string {
	if len(contents) > 0 {
		return mimetype.Detect(contents).String()
	}

	if mime, ok := extensionTypes[strings.ToLower(gopath.Ext(path))]; ok {
		return mime
	}

	return fallbackMimeType
}
