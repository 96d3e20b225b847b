package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	sniffSampleSize          = 4096
	nonPrintableThresholdPct = 30
)

var binaryExtensions = map[string]struct{}{
	".7z": {}, ".bin": {}, ".bmp": {}, ".bz2": {}, ".class": {}, ".dll": {},
	".dylib": {}, ".exe": {}, ".gif": {}, ".gz": {}, ".ico": {}, ".iso": {},
	".jar": {}, ".jpeg": {}, ".jpg": {}, ".mkv": {}, ".mov": {}, ".mp3": {},
	".mp4": {}, ".pdf": {}, ".png": {}, ".so": {}, ".tar": {}, ".tgz": {},
	".wasm": {}, ".xz": {}, ".zip": {},
}

// IsTextFile guesses whether content (a head sample of path) is text.
func IsTextFile(path string, content []byte) bool {
	if _, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]; ok && path != "" {
		return false
	}
	if len(content) == 0 {
		return true
	}
	if len(content) > sniffSampleSize {
		content = content[:sniffSampleSize]
	}
	if hasUnicodeBOM(content) {
		return true
	}
	if bytes.IndexByte(content, 0x00) != -1 {
		return false
	}
	if utf8.Valid(content) {
		return true
	}

	nonPrintable := 0
	for _, b := range content {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != 0x1B {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(content) < nonPrintableThresholdPct
}

// ReadTextSample returns the head of path used for text sniffing.
func ReadTextSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIOError("read", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, sniffSampleSize))
}

func hasUnicodeBOM(sample []byte) bool {
	switch {
	case len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF:
		return true
	case len(sample) >= 2 && sample[0] == 0xFF && sample[1] == 0xFE:
		return true
	case len(sample) >= 2 && sample[0] == 0xFE && sample[1] == 0xFF:
		return true
	}
	return false
}
