package format

import (
	"fmt"
	"strings"
)

type Format int8

const (
	HTML Format = iota
	Png
	Csv
	Pdf
	Xlsx
)

var names = map[Format]string{
	HTML: "html",
	Png:  "png",
	Csv:  "csv",
	Pdf:  "pdf",
	Xlsx: "xlsx",
}

func UnmarshalText(text string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "html":
		return HTML, nil
	case "png":
		return Png, nil
	case "csv":
		return Csv, nil
	case "pdf":
		return Pdf, nil
	case "xlsx":
		return Xlsx, nil
	default:
		return 0, fmt.Errorf("invalid format: %q", text)
	}
}

// ParseList parses a comma separated list of formats, dropping duplicates.
func ParseList(text string) ([]Format, error) {
	seen := make(map[Format]bool)
	formats := make([]Format, 0)
	for _, part := range strings.Split(text, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := UnmarshalText(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no formats in %q", text)
	}
	return formats, nil
}

func (f Format) String() string {
	if name, ok := names[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int8(f))
}

// Ext is the file extension, dot included.
func (f Format) Ext() string {
	return "." + f.String()
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case HTML:
		return "text/html; charset=utf-8"
	case Png:
		return "image/png"
	case Csv:
		return "text/csv; charset=utf-8"
	case Pdf:
		return "application/pdf"
	case Xlsx:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
