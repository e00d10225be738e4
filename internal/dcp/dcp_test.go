package dcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const (
	testPictureUUID = "11111111-1111-1111-1111-111111111111"
	testCPLUUID     = "22222222-2222-2222-2222-222222222222"
	testAMUUID      = "33333333-3333-3333-3333-333333333333"
)

func writeFixture(t *testing.T, dir string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, "picture.mxf"), []byte("fake essence"), 0o644); err != nil {
		t.Fatal(err)
	}

	assetMap := `<?xml version="1.0" encoding="UTF-8"?>
<AssetMap xmlns="http://www.smpte-ra.org/schemas/429-9/2007/AM">
  <Id>urn:uuid:` + testAMUUID + `</Id>
  <Creator>test</Creator>
  <VolumeCount>1</VolumeCount>
  <AssetList>
    <Asset>
      <Id>urn:uuid:` + testPictureUUID + `</Id>
      <ChunkList><Chunk><Path>picture.mxf</Path><VolumeIndex>1</VolumeIndex><Offset>0</Offset><Length>12</Length></Chunk></ChunkList>
    </Asset>
  </AssetList>
</AssetMap>`
	if err := os.WriteFile(filepath.Join(dir, "ASSETMAP.xml"), []byte(assetMap), 0o644); err != nil {
		t.Fatal(err)
	}

	cpl := `<?xml version="1.0" encoding="UTF-8"?>
<CompositionPlaylist xmlns="http://www.smpte-ra.org/schemas/429-7/2006/CPL">
  <Id>urn:uuid:` + testCPLUUID + `</Id>
  <ContentTitleText>Foo_FTR_F_EN-XX_US-R_51_2K_DI_20501231_ECL_SMPTE_OV</ContentTitleText>
  <IssueDate>2020-01-01T00:00:00+00:00</IssueDate>
  <ReelList>
    <Reel>
      <Id>urn:uuid:44444444-4444-4444-4444-444444444444</Id>
      <AssetList>
        <MainPicture>
          <Id>urn:uuid:` + testPictureUUID + `</Id>
          <EditRate>24 1</EditRate>
          <IntrinsicDuration>120</IntrinsicDuration>
          <EntryPoint>0</EntryPoint>
          <Duration>120</Duration>
          <FrameRate>24 1</FrameRate>
        </MainPicture>
      </AssetList>
    </Reel>
  </ReelList>
</CompositionPlaylist>`
	if err := os.WriteFile(filepath.Join(dir, "cpl.xml"), []byte(cpl), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCheckPackageProducesReport(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	r, err := CheckPackage(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("CheckPackage: %v", err)
	}
	if r.ChecksRun == 0 {
		t.Fatal("expected at least one check to have run")
	}
	if r.PackagePath != dir {
		t.Errorf("PackagePath = %q, want %q", r.PackagePath, dir)
	}
}

func TestParsePackageReturnsTree(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	pkg, err := ParsePackage(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}
	if pkg.AssetMap == nil {
		t.Fatal("AssetMap not parsed")
	}
	if len(pkg.CPLs) != 1 {
		t.Fatalf("CPLs = %d, want 1", len(pkg.CPLs))
	}
}
