package codec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/matrixvault/pkg/core"
)

// Defaults returns the standard codecs keyed by file extension.
func Defaults() map[string]core.Codec {
	return map[string]core.Codec{
		".txt":  NewText(DefaultSeparator),
		".bin":  NewBinary(),
		".json": NewJSON(false),
		".yaml": NewYAML(false),
		".yml":  NewYAML(false),
	}
}

// ByName returns the codec registered under name ("text", "binary", "json", "yaml").
func ByName(name string) (core.Codec, error) {
	switch strings.ToLower(name) {
	case "text", "txt", "string":
		return NewText(DefaultSeparator), nil
	case "binary", "bin":
		return NewBinary(), nil
	case "json":
		return NewJSON(false), nil
	case "yaml", "yml":
		return NewYAML(false), nil
	}
	return nil, fmt.Errorf("%q: %w", name, core.ErrUnknownCodec)
}

// ForExtension returns the default codec for a file extension such as ".json".
func ForExtension(ext string) (core.Codec, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if c, ok := Defaults()[strings.ToLower(ext)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("extension %q: %w", ext, core.ErrUnknownCodec)
}

// Names lists the canonical codec names.
func Names() []string {
	names := []string{"text", "binary", "json", "yaml"}
	sort.Strings(names)
	return names
}
