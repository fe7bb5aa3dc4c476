package data_test

import (
	"testing"

	"github.com/mwantia/catalog/data"
)

func TestFormatFromPath(t *testing.T) {
	cases := map[string]data.Format{
		"s3://b/p/jid1/results.csv":   data.FormatCSV,
		"s3://b/p/jid1/results.CSV":   data.FormatCSV,
		"s3://b/p/jid1/cfg.json":      data.FormatJSON,
		"s3://b/p/jid1/frame.parquet": data.FormatParquet,
		"s3://b/p/jid1/model.pkl":     data.FormatPickle,
		"s3://b/p/jid1/noext":         data.FormatUnknown,
		"s3://b/p/jid1/odd.xyz":       data.FormatUnknown,
	}

	for path, want := range cases {
		if got := data.FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if data.ParseFormat("json") != data.FormatJSON {
		t.Fatal("ParseFormat must be case-insensitive")
	}
	if data.ParseFormat(" csv ") != data.FormatCSV {
		t.Fatal("ParseFormat must trim whitespace")
	}
}

func TestFormatTabular(t *testing.T) {
	if !data.FormatCSV.Tabular() || !data.FormatTSV.Tabular() {
		t.Fatal("CSV and TSV are tabular")
	}
	if data.FormatJSON.Tabular() || data.FormatUnknown.Tabular() {
		t.Fatal("JSON and UNKNOWN are not tabular")
	}
	if data.FormatTSV.Delimiter() != '\t' || data.FormatCSV.Delimiter() != ',' {
		t.Fatal("Delimiter mismatch")
	}
}
