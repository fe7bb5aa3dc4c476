package catalog_test

import (
	"errors"
	"os"
	"testing"

	"github.com/mwantia/catalog"
	"github.com/mwantia/catalog/data"
	"github.com/mwantia/catalog/storage/memory"
)

func TestAccessor_ReadTabular(t *testing.T) {
	ctx := t.Context()

	client := memory.NewMemoryClient()
	client.Seed("s3://b/p/jid1/results.csv", []byte("id,value\n1,10\n2,20\n"))

	accessor := catalog.NewAccessor(client)
	record := catalog.NewSingleDataset("jid1", "results", "s3://b/p/jid1/results.csv")

	table, err := accessor.Read(ctx, record)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if table.NumRows() != 2 || len(table.Columns) != 2 {
		t.Fatalf("Table shape mismatch: %v", table)
	}

	values, err := table.Column("value")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	if values[0] != "10" || values[1] != "20" {
		t.Fatalf("Column values mismatch: %v", values)
	}
}

func TestAccessor_ReadRejectsNonTabular(t *testing.T) {
	ctx := t.Context()

	client := memory.NewMemoryClient()
	client.Seed("s3://b/p/jid1/blob.json", []byte(`{}`))

	accessor := catalog.NewAccessor(client)

	record := catalog.NewSingleDataset("jid1", "blob", "s3://b/p/jid1/blob.json")
	if _, err := accessor.Read(ctx, record); !errors.Is(err, catalog.ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat for JSON, got %v", err)
	}

	family, err := catalog.NewFamilyDataset("jid1", "runs", "s3://b/p/jid1/runs/",
		data.FormatCSV, "*.csv", "s3://b/p/jid1/runs/r1.csv", 2)
	if err != nil {
		t.Fatalf("NewFamilyDataset failed: %v", err)
	}
	if _, err := accessor.Read(ctx, family); !errors.Is(err, catalog.ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat for family, got %v", err)
	}
}

func TestAccessor_DownloadSingle(t *testing.T) {
	ctx := t.Context()

	content := []byte("id,value\n1,10\n")
	client := memory.NewMemoryClient()
	client.Seed("s3://b/p/jid1/results.csv", content)

	accessor := catalog.NewAccessor(client)
	record := catalog.NewSingleDataset("jid1", "results", "s3://b/p/jid1/results.csv")

	localPath, err := accessor.Download(ctx, record, t.TempDir())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	staged, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("Staged file unreadable: %v", err)
	}
	if len(staged) != len(content) {
		t.Fatalf("Staged length %d, remote length %d", len(staged), len(content))
	}
}

func TestAccessor_DownloadFamilyNeedsMember(t *testing.T) {
	ctx := t.Context()

	client := memory.NewMemoryClient()
	client.Seed("s3://b/p/jid1/configs/0001_cfg.json", []byte(`{"run":1}`))
	client.Seed("s3://b/p/jid1/configs/0002_cfg.json", []byte(`{"run":2}`))

	accessor := catalog.NewAccessor(client)
	family, err := catalog.NewFamilyDataset("jid1", "configs", "s3://b/p/jid1/configs/",
		data.FormatJSON, "*_cfg.json", "s3://b/p/jid1/configs/0001_cfg.json", 2)
	if err != nil {
		t.Fatalf("NewFamilyDataset failed: %v", err)
	}

	if _, err := accessor.Download(ctx, family, t.TempDir()); !errors.Is(err, catalog.ErrAmbiguousTarget) {
		t.Fatalf("Expected ErrAmbiguousTarget, got %v", err)
	}

	localPath, err := accessor.DownloadMember(ctx, family, "0002_cfg.json", t.TempDir())
	if err != nil {
		t.Fatalf("DownloadMember failed: %v", err)
	}
	if data.BaseName(localPath) != "0002_cfg.json" {
		t.Fatalf("Unexpected staged file: %s", localPath)
	}

	if _, err := accessor.DownloadMember(ctx, family, "stray.txt", t.TempDir()); !errors.Is(err, catalog.ErrInvalidLocation) {
		t.Fatalf("Expected ErrInvalidLocation for non-matching member, got %v", err)
	}
}

func TestAccessor_Members(t *testing.T) {
	ctx := t.Context()

	client := memory.NewMemoryClient()
	client.Seed("s3://b/p/jid1/configs/0001_cfg.json", []byte(`{}`))
	client.Seed("s3://b/p/jid1/configs/0002_cfg.json", []byte(`{}`))
	client.Seed("s3://b/p/jid1/configs/readme.txt", []byte("notes"))

	accessor := catalog.NewAccessor(client)
	family, err := catalog.NewFamilyDataset("jid1", "configs", "s3://b/p/jid1/configs/",
		data.FormatJSON, "*_cfg.json", "s3://b/p/jid1/configs/0001_cfg.json", 2)
	if err != nil {
		t.Fatalf("NewFamilyDataset failed: %v", err)
	}

	members, err := accessor.Members(ctx, family)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}

	if len(members) != 2 {
		t.Fatalf("Expected 2 pattern-matching members, got %v", members)
	}

	single := catalog.NewSingleDataset("jid1", "readme", "s3://b/p/jid1/configs/readme.txt")
	if _, err := accessor.Members(ctx, single); !errors.Is(err, catalog.ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat for single, got %v", err)
	}
}

func TestAccessor_WriteTable(t *testing.T) {
	ctx := t.Context()

	client := memory.NewMemoryClient()
	accessor := catalog.NewAccessor(client)

	table := &data.Table{
		Columns: []string{"id", "value"},
		Rows:    [][]string{{"1", "10"}, {"2", "20"}},
	}

	record, err := accessor.WriteTable(ctx, table, "jid1", "summary", testBase)
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	if record.Shape != catalog.ShapeSingle || record.Format != data.FormatCSV {
		t.Fatalf("Returned record misclassified: %v", record)
	}
	if record.Location != "s3://b/p/jid1/summary.csv" {
		t.Fatalf("Location mismatch: %s", record.Location)
	}

	// The record is not auto-inserted; the caller puts it explicitly
	cat := catalog.New(testBase)
	cat.Put(record)

	got, err := accessor.Read(ctx, record)
	if err != nil {
		t.Fatalf("Read back failed: %v", err)
	}
	if got.NumRows() != 2 {
		t.Fatalf("Round-tripped table mismatch: %v", got)
	}
}

func TestAccessor_WriteFile(t *testing.T) {
	ctx := t.Context()

	localDir := t.TempDir()
	localPath := localDir + "/notes.txt"
	if err := os.WriteFile(localPath, []byte("remember"), 0o644); err != nil {
		t.Fatalf("Fixture write failed: %v", err)
	}

	client := memory.NewMemoryClient()
	accessor := catalog.NewAccessor(client)

	record, err := accessor.WriteFile(ctx, localPath, "jid1", testBase)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if record.Name != "notes" || record.Location != "s3://b/p/jid1/notes.txt" {
		t.Fatalf("Record mismatch: %v", record)
	}

	staged, err := accessor.Download(ctx, record, t.TempDir())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	content, err := os.ReadFile(staged)
	if err != nil || string(content) != "remember" {
		t.Fatalf("Uploaded content mismatch: %q, %v", content, err)
	}
}
