package docsxml

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// srcEncoding is text encoding detected by byte order mark. Files are written
// back the way they were read.
type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func (e srcEncoding) String() string {
	switch e {
	case encUnknown:
		return "unknown"
	case encUTF8:
		return "utf-8"
	case encUTF16BigEndian:
		return "utf-16be"
	case encUTF16LittleEndian:
		return "utf-16le"
	case encUTF32BigEndian:
		return "utf-32be"
	case encUTF32LittleEndian:
		return "utf-32le"
	}
	return fmt.Sprintf("srcEncoding(%d)", int(e))
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

// detectUTF looks at the byte order mark. UTF-32 must be checked before
// UTF-16 since little endian marks share prefix.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

func (e srcEncoding) encoding() encoding.Encoding {
	switch e {
	case encUnknown:
		return encoding.Nop
	case encUTF8:
		return unicode.UTF8BOM
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM)
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM)
	}
	panic(fmt.Sprintf("unexpected encoding %d", int(e)))
}

// selectReader returns reader producing UTF-8 with byte order mark removed.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	e := enc.encoding()
	if enc == encUnknown {
		return r
	}
	return transform.NewReader(r, e.NewDecoder())
}

// charsetReader is used by XML decoder when document declares encoding. When
// encoding was already decided by byte order mark input is UTF-8 at this point
// and declaration must be ignored.
func charsetReader(enc srcEncoding) func(label string, input io.Reader) (io.Reader, error) {
	if enc != encUnknown {
		return func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}
	}
	return charset.NewReaderLabel
}

// encode converts UTF-8 serialized document back to the original encoding,
// byte order mark included.
func encode(data []byte, enc srcEncoding) ([]byte, error) {
	var e encoding.Encoding
	switch enc {
	case encUnknown:
		return data, nil
	case encUTF8:
		return append([]byte{0xEF, 0xBB, 0xBF}, data...), nil
	case encUTF16BigEndian:
		e = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case encUTF16LittleEndian:
		e = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case encUTF32BigEndian:
		e = utf32.UTF32(utf32.BigEndian, utf32.UseBOM)
	case encUTF32LittleEndian:
		e = utf32.UTF32(utf32.LittleEndian, utf32.UseBOM)
	default:
		return nil, fmt.Errorf("unexpected encoding %d", int(enc))
	}
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, e.NewEncoder())
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
