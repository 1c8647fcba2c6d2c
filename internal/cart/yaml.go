package cart

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileExtension is the preferred extension for cart files.
const FileExtension = ".t8.yaml"

// yamlCart is the on-disk structure of a cart file.
//
//	name: Star Catcher
//	code: |
//	  function _draw() cls(1) end
//	sprites:
//	  0: ["00000000", "00b00b00", ...]
type yamlCart struct {
	Name    string           `yaml:"name"`
	Author  string           `yaml:"author,omitempty"`
	Code    string           `yaml:"code"`
	Sprites map[int][]string `yaml:"sprites,omitempty"`
}

// Parse decodes a YAML cart. Sprite ids must be in [0,15] and every sprite
// must have exactly 8 rows of 8 hex digits; missing sprites are blank.
func Parse(data []byte) (*Cart, error) {
	var yc yamlCart
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("cart: yaml unmarshal: %w", err)
	}

	c := New(yc.Name, yc.Code)
	c.Author = yc.Author

	for id, rows := range yc.Sprites {
		if id < 0 || id >= BankSize {
			return nil, fmt.Errorf("cart: sprite id %d out of range [0,%d)", id, BankSize)
		}
		s, err := parseRows(rows)
		if err != nil {
			return nil, fmt.Errorf("cart: sprite %d: %w", id, err)
		}
		c.Sprites[id] = s
	}

	return c, nil
}

func parseRows(rows []string) (Sprite, error) {
	var s Sprite
	if len(rows) != SpriteSize {
		return s, fmt.Errorf("expected %d rows, got %d", SpriteSize, len(rows))
	}
	for y, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != SpriteSize {
			return s, fmt.Errorf("row %d: expected %d hex digits, got %q", y, SpriteSize, row)
		}
		for x := 0; x < SpriteSize; x++ {
			v, ok := hexDigit(row[x])
			if !ok {
				return s, fmt.Errorf("row %d: invalid hex digit %q", y, row[x])
			}
			s[y*SpriteSize+x] = v
		}
	}
	return s, nil
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// Marshal encodes a cart as YAML. Blank sprites are omitted.
func Marshal(c *Cart) ([]byte, error) {
	yc := yamlCart{
		Name:   c.Name,
		Author: c.Author,
		Code:   c.Code,
	}

	if c.Sprites != nil {
		for id := range c.Sprites {
			s := &c.Sprites[id]
			if s.Empty() {
				continue
			}
			if yc.Sprites == nil {
				yc.Sprites = make(map[int][]string)
			}
			yc.Sprites[id] = formatRows(s)
		}
	}

	data, err := yaml.Marshal(&yc)
	if err != nil {
		return nil, fmt.Errorf("cart: yaml marshal: %w", err)
	}
	return data, nil
}

func formatRows(s *Sprite) []string {
	const digits = "0123456789abcdef"
	rows := make([]string, SpriteSize)
	for y := range rows {
		b := make([]byte, SpriteSize)
		for x := range b {
			b[x] = digits[s[y*SpriteSize+x]&0x0f]
		}
		rows[y] = string(b)
	}
	return rows
}

// Load reads and parses a cart file.
func Load(path string) (*Cart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cart: failed to read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes a cart file.
func Save(path string, c *Cart) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cart: failed to write %s: %w", path, err)
	}
	return nil
}

// SpriteIDs returns the ids of non-blank sprites in ascending order.
func SpriteIDs(b *SpriteBank) []int {
	var ids []int
	for id := range b {
		if !b[id].Empty() {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
