package scenario

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Format is the encoding of a scenario document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// FormatFor picks the format from the URL extension: ".xml" is XML, anything else YAML.
func FormatFor(URL string) Format {
	if strings.EqualFold(path.Ext(url.Path(URL)), ".xml") {
		return FormatXML
	}
	return FormatYAML
}

// Decode parses a scenario document.
func Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatXML:
		return decodeXML(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unknown scenario format %q", format)
	}
}

// Encode serializes a scenario document.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatXML:
		return encodeXML(doc)
	case FormatYAML:
		return encodeYAML(doc)
	default:
		return nil, fmt.Errorf("unknown scenario format %q", format)
	}
}

// Store loads and saves scenario documents by URL. Any scheme supported by afs works:
// plain paths, file://, mem:// and the cloud storage schemes.
type Store struct {
	fs afs.Service
}

// NewStore creates a Store backed by afs.
func NewStore() *Store {
	return &Store{fs: afs.New()}
}

// Load reads and decodes the scenario at URL. Defaults are not applied.
func (s *Store) Load(ctx context.Context, URL string) (*Document, error) {
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check scenario %s: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("scenario not found: %s", URL)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", URL, err)
	}
	doc, err := Decode(data, FormatFor(URL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", URL, err)
	}
	return doc, nil
}

// Save encodes doc in the format implied by URL and writes it there.
func (s *Store) Save(ctx context.Context, URL string, doc *Document) error {
	data, err := Encode(doc, FormatFor(URL))
	if err != nil {
		return err
	}
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save scenario to %s: %w", URL, err)
	}
	return nil
}
