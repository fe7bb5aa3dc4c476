package data

import (
	"path"
	"strings"
)

// Format is the content-format token recorded on a dataset. It is derived
// from file extensions observed in the bucket, never from object contents.
type Format string

const (
	FormatCSV     Format = "CSV"
	FormatTSV     Format = "TSV"
	FormatJSON    Format = "JSON"
	FormatYAML    Format = "YAML"
	FormatParquet Format = "PARQUET"
	FormatText    Format = "TXT"
	FormatPickle  Format = "PKL"
	FormatGZip    Format = "GZ"
	FormatZip     Format = "ZIP"
	FormatPDF     Format = "PDF"
	FormatPNG     Format = "PNG"
	FormatUnknown Format = "UNKNOWN"
)

// ExtensionToFormat maps file extensions to format tokens.
var ExtensionToFormat = map[string]Format{
	".csv":     FormatCSV,
	".tsv":     FormatTSV,
	".json":    FormatJSON,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".parquet": FormatParquet,
	".txt":     FormatText,
	".log":     FormatText,
	".pkl":     FormatPickle,
	".pickle":  FormatPickle,
	".gz":      FormatGZip,
	".zip":     FormatZip,
	".pdf":     FormatPDF,
	".png":     FormatPNG,
}

// FormatFromPath returns the format token for a file path or object key.
// Unrecognized or missing extensions yield FormatUnknown.
func FormatFromPath(p string) Format {
	ext := strings.ToLower(path.Ext(p))

	if format, exists := ExtensionToFormat[ext]; exists {
		return format
	}

	return FormatUnknown
}

// ParseFormat normalizes a caller-supplied format token. Matching is
// case-insensitive; unknown tokens are returned uppercased so that
// comparisons against recorded formats stay consistent.
func ParseFormat(token string) Format {
	return Format(strings.ToUpper(strings.TrimSpace(token)))
}

// Tabular reports whether the format can be decoded into a Table.
func (f Format) Tabular() bool {
	switch f {
	case FormatCSV, FormatTSV:
		return true
	default:
		return false
	}
}

// Delimiter returns the field delimiter for tabular formats.
func (f Format) Delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}

	return ','
}
