package xmp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePacket = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
  <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
    <rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">
      <dc:title><rdf:Alt><rdf:li xml:lang="x-default">On Things</rdf:li></rdf:Alt></dc:title>
      <dc:creator><rdf:Seq><rdf:li>John Smith</rdf:li><rdf:li>Jane Doe</rdf:li></rdf:Seq></dc:creator>
      <dc:date><rdf:Seq><rdf:li>2019-05-01</rdf:li></rdf:Seq></dc:date>
      <dc:subject><rdf:Bag><rdf:li>physics</rdf:li><rdf:li>things</rdf:li></rdf:Bag></dc:subject>
      <dc:identifier>doi:10.1000/xyz123</dc:identifier>
      <dc:type><rdf:Bag><rdf:li>Article</rdf:li></rdf:Bag></dc:type>
      <dc:relation><rdf:Bag><rdf:li>bibtexkey/Smith2019</rdf:li></rdf:Bag></dc:relation>
      <dc:source>Journal of Things</dc:source>
    </rdf:Description>
    <rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/">
      <xmp:CreatorTool>LaTeX</xmp:CreatorTool>
    </rdf:Description>
    <rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">
      <dc:title><rdf:Alt><rdf:li xml:lang="x-default">Second</rdf:li></rdf:Alt></dc:title>
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

func TestParsePacket(t *testing.T) {
	packets := FindPackets([]byte("%PDF-1.4 junk " + samplePacket + " trailer"))
	require.Len(t, packets, 1)

	entries, err := Parse(packets[0])
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "Smith2019", first.CiteKey)
	assert.Equal(t, "article", first.Type)
	assert.Equal(t, "On Things", first.Fields["title"])
	assert.Equal(t, "John Smith and Jane Doe", first.Fields["author"])
	assert.Equal(t, "2019", first.Fields["year"])
	assert.Equal(t, "05", first.Fields["month"])
	assert.Equal(t, "physics, things", first.Fields["keywords"])
	assert.Equal(t, "10.1000/xyz123", first.Fields["doi"])
	assert.Equal(t, "Journal of Things", first.Fields["journal"])

	second := entries[1]
	assert.Equal(t, "misc", second.Type)
	assert.Equal(t, "Second", second.Fields["title"])
	assert.Empty(t, second.CiteKey)
}

func TestFindPacketsBareRDF(t *testing.T) {
	data := []byte(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<rdf:Description><dc:title>Sidecar</dc:title></rdf:Description></rdf:RDF>`)
	packets := FindPackets(data)
	require.Len(t, packets, 1)

	entries, err := Parse(packets[0])
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sidecar", entries[0].Fields["title"])
}

func TestFindPacketsMultiple(t *testing.T) {
	data := []byte(samplePacket + "\nstream\n" + samplePacket)
	assert.Len(t, FindPackets(data), 2)
	assert.Empty(t, FindPackets([]byte("%PDF-1.4 no metadata")))
	assert.Empty(t, FindPackets([]byte("<x:xmpmeta unterminated")))
}

func TestReaderReadEntries(t *testing.T) {
	dir := t.TempDir()
	withXMP := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(withXMP, []byte("%PDF-1.4\n"+samplePacket+"\n%%EOF"), 0o644))
	without := filepath.Join(dir, "plain.pdf")
	require.NoError(t, os.WriteFile(without, []byte("%PDF-1.4\n%%EOF"), 0o644))
	broken := filepath.Join(dir, "broken.xmp")
	require.NoError(t, os.WriteFile(broken, []byte(`<x:xmpmeta><rdf:RDF><unclosed></x:xmpmeta>`), 0o644))

	ctx := context.Background()
	reader := Reader{}

	entries, err := reader.ReadEntries(ctx, withXMP)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	ok, err := reader.HasMetadata(ctx, without)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = reader.ReadEntries(ctx, broken)
	assert.Error(t, err)

	_, err = reader.ReadEntries(ctx, filepath.Join(dir, "missing.pdf"))
	assert.True(t, os.IsNotExist(err))
}
