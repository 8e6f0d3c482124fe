package inference

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTimeLayout is the EXIF ASCII datetime format ("2006:01:02 15:04:05").
const exifTimeLayout = "2006:01:02 15:04:05"

// exifDate reads an embedded capture timestamp from the file. Any failure
// (unreadable file, no EXIF segment, corrupt tags) returns nil.
func exifDate(path string) *time.Time {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return decodeExifDate(f)
}

// decodeExifDate tries the capture-time tags in order of trustworthiness.
// Malformed files can make the decoder panic, which is swallowed like any
// other parse failure.
func decodeExifDate(r io.Reader) (t *time.Time) {
	defer func() {
		if recover() != nil {
			t = nil
		}
	}()
	x, err := exif.Decode(r)
	if err != nil || x == nil {
		return nil
	}
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime} {
		tag, err := x.Get(name)
		if err != nil || tag == nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		s = strings.TrimSpace(strings.Trim(s, "\x00"))
		if s == "" {
			continue
		}
		if ts, err := time.ParseInLocation(exifTimeLayout, s, time.Local); err == nil {
			return &ts
		}
	}
	return nil
}
