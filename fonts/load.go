package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/opentype"
)

// parseFile parses a TrueType or OpenType file. Collections yield their
// first font.
func parseFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		return parseCollection(data)
	}
	f, err := opentype.Parse(data)
	if err == nil {
		return f, nil
	}
	if f, cerr := parseCollection(data); cerr == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%s: %w", path, err)
}

func parseCollection(data []byte) (*opentype.Font, error) {
	c, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if c.NumFonts() == 0 {
		return nil, errors.New("empty font collection")
	}
	return c.Font(0)
}
