// Package article defines news records and their on-disk formats.
package article

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/text/unicode/norm"
)

// Article is one news record. Every field may be empty.
type Article struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Content   string `json:"content,omitempty"`
	Source    string `json:"source"`
	Published string `json:"published"`
	Author    string `json:"author,omitempty"`
}

// Load reads records from path. Files ending in .cbor hold a CBOR array
// of records, anything else JSON holding either an array or a single
// record.
func Load(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("article: %w", err)
	}
	var articles []Article
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		articles, err = DecodeCBOR(data)
	} else {
		articles, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("article: %s: %w", path, err)
	}
	return articles, nil
}

func DecodeJSON(data []byte) ([]Article, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var a Article
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		return []Article{a}, nil
	}
	var articles []Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func DecodeCBOR(data []byte) ([]Article, error) {
	var articles []Article
	if err := cbor.Unmarshal(data, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// WriteCBOR encodes articles in the deterministic CBOR encoding read by
// Load.
func WriteCBOR(w io.Writer, articles []Article) error {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	if articles == nil {
		articles = []Article{}
	}
	return enc.NewEncoder(w).Encode(articles)
}

// Clean normalizes s to NFC and collapses runs of whitespace, including
// newlines, to single spaces.
func Clean(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatDate renders an ISO 8601 timestamp as "MM-DD HH:MM" in the
// timestamp's own zone. Unparseable input yields its first 16
// characters. Empty input yields "".
func FormatDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("01-02 15:04")
		}
	}
	if r := []rune(raw); len(r) > 16 {
		return string(r[:16])
	}
	return raw
}

// Footer returns the "<source> • <date>" footer text for a. The date part
// is omitted when Published is empty.
func Footer(a Article) string {
	src := Clean(a.Source)
	if date := FormatDate(a.Published); date != "" {
		return src + " • " + date
	}
	return src
}
