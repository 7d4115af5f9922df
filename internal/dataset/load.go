package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names the character encoding a file was decoded with.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "ISO-8859-1"
)

var (
	// ErrNotFound is returned when the input file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrEmpty is returned when the input has no header line to parse.
	ErrEmpty = errors.New("file is empty")
	// ErrParse is returned for structural CSV problems.
	ErrParse = errors.New("parse error")
	// ErrDecode is returned when the bytes are invalid for the attempted encoding.
	ErrDecode = errors.New("decode error")
)

// Options controls how delimited files are read.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension ('\t' for .tsv, ',' otherwise).
	Delimiter rune
	// DecimalSeparator defaults to '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped from numbers when set.
	ThousandsSeparator rune
}

// DefaultOptions returns comma/extension-sniffed reading with '.' decimals.
func DefaultOptions() Options {
	return Options{DecimalSeparator: '.'}
}

// Loader reads delimited files into Datasets.
type Loader struct {
	opt Options
	log *zap.Logger
}

// NewLoader returns a Loader. A nil logger discards output.
func NewLoader(opt Options, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.DecimalSeparator == 0 {
		opt.DecimalSeparator = '.'
	}
	return &Loader{opt: opt, log: log}
}

// Load reads path as UTF-8 and retries once as ISO-8859-1 when the bytes are
// not valid UTF-8. Every byte sequence is valid Latin-1, so the retry can only
// fail on structure.
func (l *Loader) Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ds, err := l.parse(raw, EncodingUTF8, path)
	if errors.Is(err, ErrDecode) {
		l.log.Warn("file is not valid utf-8, retrying with fallback encoding",
			zap.String("path", path),
			zap.String("encoding", string(EncodingLatin1)),
			zap.Error(err))
		ds, err = l.parse(raw, EncodingLatin1, path)
	}
	if err != nil {
		return nil, err
	}
	l.log.Info("data loaded",
		zap.String("path", path),
		zap.String("encoding", string(ds.Encoding)),
		zap.Bool("fallback", ds.Encoding != EncodingUTF8),
		zap.Int("rows", ds.Rows),
		zap.Int("columns", len(ds.Columns)))
	return ds, nil
}

func decode(raw []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingUTF8:
		raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: invalid %s byte sequence at offset %d", ErrDecode, enc, invalidOffset(raw))
		}
		return string(raw), nil
	case EncodingLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

func (l *Loader) parse(raw []byte, enc Encoding, path string) (*Dataset, error) {
	text, err := decode(raw, enc)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no columns to parse from %s", ErrEmpty, path)
	}

	delim := l.opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no columns to parse from %s", ErrEmpty, path)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrParse, err)
	}
	names := headerNames(header)
	ncol := len(names)
	cols := make([][]string, ncol)

	rows := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: read row %d: %v", ErrParse, rows+1, err)
		}
		if len(rec) > ncol {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrParse, ncol, line, len(rec))
		}
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = rec[j]
			}
			cols[j] = append(cols[j], v)
		}
		rows++
	}

	ds := &Dataset{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:     path,
		Encoding: enc,
		Rows:     rows,
		Columns:  make([]*Column, ncol),
	}
	for j := range names {
		ds.Columns[j] = inferColumn(names[j], cols[j], l.opt)
	}
	return ds, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// headerNames fills blank names and suffixes duplicates with ".1", ".2", ...
func headerNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for {
			n, dup := seen[name]
			if !dup {
				break
			}
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", base, n+1)
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
