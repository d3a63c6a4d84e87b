package policy

import (
	"github.com/nordunet/transcriber-adapter/internal/vendorq"
)

// Formats the transcription service accepts as source media.
var allowedExtensions = map[string]struct{}{
	"mp4": {},
	"mp3": {},
	"3gp": {},
}

// SelectRendition picks the cheapest usable rendition: allowed extension,
// strictly positive size, smallest size wins. The second return is false when
// nothing qualifies, which is a normal outcome the caller maps to a task
// error.
func SelectRendition(renditions []vendorq.Rendition) (vendorq.Rendition, bool) {
	var best vendorq.Rendition
	found := false
	for _, r := range renditions {
		if _, ok := allowedExtensions[r.FileExt]; !ok {
			continue
		}
		if r.Size <= 0 {
			continue
		}
		if !found || r.Size < best.Size {
			best = r
			found = true
		}
	}
	return best, found
}
