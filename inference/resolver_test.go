package inference

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault/mediavault-go/types"
)

// writeTiffWithCaptureTime writes a minimal little-endian TIFF whose only IFD
// entry is a DateTimeOriginal tag holding stamp.
func writeTiffWithCaptureTime(t *testing.T, name, stamp string) string {
	t.Helper()
	value := append([]byte(stamp), 0)
	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, binary.LittleEndian, uint16(0x2A))
	binary.Write(&buf, binary.LittleEndian, uint32(8))  // first IFD right after the header
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // one entry
	binary.Write(&buf, binary.LittleEndian, uint16(0x9003)) // DateTimeOriginal
	binary.Write(&buf, binary.LittleEndian, uint16(2))  // ASCII
	binary.Write(&buf, binary.LittleEndian, uint32(len(value)))
	binary.Write(&buf, binary.LittleEndian, uint32(26)) // value lives past the IFD
	binary.Write(&buf, binary.LittleEndian, uint32(0))  // no next IFD
	buf.Write(value)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestResolveExifBeatsFilenameDate(t *testing.T) {
	mt := time.Date(2020, 6, 1, 12, 0, 0, 0, time.Local)
	path := writeTiffWithCaptureTime(t, "IMG_20231225.jpg", "2015:06:07 08:09:10")

	date, source := Resolve(path, mt)
	require.NotNil(t, date)
	assert.Equal(t, types.DateSourceExif, source)
	assert.True(t, date.Equal(time.Date(2015, 6, 7, 8, 9, 10, 0, time.Local)), "got %v", date)
}

// Paths deliberately do not exist: the EXIF source fails silently and the
// resolver falls through to the filename sources.
func TestResolveFilenameFullDate(t *testing.T) {
	mt := time.Date(2020, 6, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		path string
		want time.Time
	}{
		{"compact ymd", "/photos/IMG_20231225.jpg", time.Date(2023, 12, 25, 0, 0, 0, 0, time.Local)},
		{"dashed ymd", "/photos/scan 2021-07-04.png", time.Date(2021, 7, 4, 0, 0, 0, 0, time.Local)},
		{"dashed dmy", "/photos/25-12-2023 dinner.jpg", time.Date(2023, 12, 25, 0, 0, 0, 0, time.Local)},
		{"dmy not mistaken for ymd", "/photos/12-11-2010.jpg", time.Date(2010, 11, 12, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, source := Resolve(tt.path, mt)
			require.NotNil(t, date)
			assert.Equal(t, types.DateSourceFilenameFull, source)
			assert.True(t, date.Equal(tt.want), "got %v, want %v", date, tt.want)
		})
	}
}

func TestResolveFullDateBeatsBareYear(t *testing.T) {
	date, source := Resolve("/photos/2005 trip 2021-07-04.png", time.Now())
	require.NotNil(t, date)
	assert.Equal(t, types.DateSourceFilenameFull, source)
	assert.Equal(t, 2021, date.Year())
}

func TestResolveBareYear(t *testing.T) {
	mt := time.Date(2020, 6, 1, 12, 0, 0, 0, time.Local)

	date, source := Resolve("/photos/vacation 1999 roll3.jpg", mt)
	require.NotNil(t, date)
	assert.Equal(t, types.DateSourceFilenamePartial, source)
	assert.True(t, date.Equal(time.Date(1999, 1, 1, 0, 0, 0, 0, time.Local)))

	// Outside [1950,2039] the year is not trusted.
	for _, path := range []string{"/photos/print 1949.jpg", "/photos/future 2040.jpg"} {
		date, source = Resolve(path, mt)
		require.NotNil(t, date)
		assert.Equal(t, types.DateSourceFile, source)
		assert.True(t, date.Equal(mt))
	}
}

func TestResolveBareYearSkipsOutOfRangeTokens(t *testing.T) {
	mt := time.Date(2020, 6, 1, 12, 0, 0, 0, time.Local)

	// 1900 is implausible but must not hide the plausible 1999 behind it.
	date, source := Resolve("/photos/roll 1900 print 1999.jpg", mt)
	require.NotNil(t, date)
	assert.Equal(t, types.DateSourceFilenamePartial, source)
	assert.True(t, date.Equal(time.Date(1999, 1, 1, 0, 0, 0, 0, time.Local)))
}

func TestResolveYearMustBeWholeToken(t *testing.T) {
	mt := time.Date(2020, 6, 1, 12, 0, 0, 0, time.Local)

	// 2023 is buried in a longer digit run; not a year token.
	date, source := Resolve("/photos/IMG_120231.jpg", mt)
	require.NotNil(t, date)
	assert.Equal(t, types.DateSourceFile, source)
}

func TestResolveRejectsRolledOverDates(t *testing.T) {
	mt := time.Date(2020, 6, 1, 12, 0, 0, 0, time.Local)

	// Month 13 normalizes into the next year, which fails the year check;
	// the 8-digit run also hides the year from the bare-year source.
	date, source := Resolve("/photos/20231399.jpg", mt)
	require.NotNil(t, date)
	assert.Equal(t, types.DateSourceFile, source)
	assert.True(t, date.Equal(mt))
}

func TestResolveFallsBackToModTime(t *testing.T) {
	mt := time.Date(2018, 3, 9, 8, 30, 0, 0, time.Local)
	date, source := Resolve("/docs/notes.txt", mt)
	require.NotNil(t, date)
	assert.Equal(t, types.DateSourceFile, source)
	assert.True(t, date.Equal(mt))
}

func TestResolveNothingUsable(t *testing.T) {
	date, source := Resolve("/docs/notes.txt", time.Time{})
	assert.Nil(t, date)
	assert.Equal(t, types.DateSourceNone, source)
}

func TestDecodeExifDateGarbage(t *testing.T) {
	assert.Nil(t, decodeExifDate(strings.NewReader("definitely not a jpeg")))
	assert.Nil(t, decodeExifDate(strings.NewReader("")))
}

func TestLowConfidenceSources(t *testing.T) {
	assert.False(t, types.DateSourceExif.LowConfidence())
	assert.False(t, types.DateSourceFilenameFull.LowConfidence())
	assert.True(t, types.DateSourceFilenamePartial.LowConfidence())
	assert.True(t, types.DateSourceFile.LowConfidence())
}
